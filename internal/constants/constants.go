package constants

// Session keys
const (
	SessionCookieName      = "taskdesk_session"
	ContextKeyUserID       = "user_id"
	SessionKeyLastActivity = "last_activity"
	SessionKeyIdleExpired  = "idle_expired"
	ContextKeyIdleExpired  = "idle_expired"
	ContextKeyRole         = "role"
)

// Auth limits
const (
	MinPasswordLength = 6
)

// Idle guard: seconds of inactivity before the session stops accepting mutations.
const IdleTimeoutSeconds = 1800

// Attachment limits
const (
	MaxAttachmentSize = 10 << 20 // 10 MiB
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Manager rating bounds
const (
	MinTaskRating = 1
	MaxTaskRating = 5
)
