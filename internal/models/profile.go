package models

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

type Profile struct {
	ID            uint64        `gorm:"primarykey" json:"id"`
	FullName      string        `gorm:"type:varchar(255);not null" json:"full_name"`
	Email         string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string        `gorm:"type:varchar(255);not null" json:"-"`
	Role          Role          `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	AccountStatus AccountStatus `gorm:"type:varchar(20);not null;default:'active'" json:"account_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	AssignedTasks []Task    `gorm:"foreignKey:AssigneeID" json:"-"`
	CreatedTasks  []Task    `gorm:"foreignKey:CreatorID" json:"-"`
	Comments      []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}
