package models

import "time"

// ReadStatus is the per-user bookmark of the last instant a task's thread was
// acknowledged. It only moves forward through an explicit mark-as-read action,
// never through passive viewing, and is never deleted.
type ReadStatus struct {
	ProfileID  uint64    `gorm:"primarykey" json:"profile_id"`
	TaskID     uint64    `gorm:"primarykey" json:"task_id"`
	LastReadAt time.Time `gorm:"not null" json:"last_read_at"`
}
