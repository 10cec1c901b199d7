package models

import "time"

// Comment is a single entry in a task's discussion thread. Comments are never
// edited or deleted individually; they disappear only when the parent task is
// deleted.
type Comment struct {
	ID       uint64 `gorm:"primarykey" json:"id"`
	TaskID   uint64 `gorm:"not null;index" json:"task_id"`
	AuthorID uint64 `gorm:"not null" json:"author_id"`
	Content  string `gorm:"type:text" json:"content"`

	// AttachmentPath is the sanitized storage key; AttachmentName keeps the
	// original filename for display and download.
	AttachmentURL  *string `gorm:"type:varchar(512)" json:"attachment_url"`
	AttachmentName *string `gorm:"type:varchar(255)" json:"attachment_name"`
	AttachmentPath *string `gorm:"type:varchar(512)" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Author Profile `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
