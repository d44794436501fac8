package model

import "time"

type UserRole string

const (
	RoleOwner  UserRole = "owner"
	RoleEditor UserRole = "editor"
)

func (r UserRole) Valid() bool {
	return r == RoleOwner || r == RoleEditor
}

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'editor'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
