package models

import (
	"time"
)

type Category struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:150;not null;uniqueIndex"`
	Products  []Product `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
