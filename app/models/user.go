package models

import (
	"time"
)

// User is the identity collaborator. Tokens are issued elsewhere; this
// service only validates them and references users by id.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:150;not null;uniqueIndex"`
	Password  string `gorm:"size:255;not null"`
	IsStaff   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
