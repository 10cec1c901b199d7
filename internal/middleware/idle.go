package middleware

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/constants"
	apierrors "github.com/minhtran-dev/taskdesk/internal/errors"
)

// IdleGuard tracks session activity. Once the gap between two requests
// exceeds the idle timeout the session is flagged expired, and the flag is
// sticky: later requests do not clear it, only a fresh login does. The guard
// itself never rejects; it records the state so mutation handlers can reject
// while read handlers keep working.
func IdleGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		if expired, ok := session.Get(constants.SessionKeyIdleExpired).(bool); ok && expired {
			c.Set(constants.ContextKeyIdleExpired, true)
			c.Next()
			return
		}

		now := time.Now().Unix()
		if last, ok := session.Get(constants.SessionKeyLastActivity).(int64); ok {
			if now-last > constants.IdleTimeoutSeconds {
				session.Set(constants.SessionKeyIdleExpired, true)
				_ = session.Save()
				c.Set(constants.ContextKeyIdleExpired, true)
				c.Next()
				return
			}
		}

		session.Set(constants.SessionKeyLastActivity, now)
		_ = session.Save()
		c.Next()
	}
}

// IsIdleExpired reports whether the current session was flagged idle-expired.
func IsIdleExpired(c *gin.Context) bool {
	expired, exists := c.Get(constants.ContextKeyIdleExpired)
	if !exists {
		return false
	}
	value, ok := expired.(bool)
	return ok && value
}

// RejectWhenIdle blocks mutations on an idle-expired session. Handlers with
// user-typed drafts do this check themselves so they can echo the draft back.
func RejectWhenIdle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsIdleExpired(c) {
			apierrors.SessionIdle(c, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
