package models

import (
	"time"
)

// Path is an opaque storage path; the API echoes it under /media/ verbatim.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:150;not null"`
	Path      string `gorm:"size:255;not null"`
	ProductID uint   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
