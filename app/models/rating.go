package models

import (
	"time"
)

// Rating holds one vote: grade true is a like, false a dislike.
// The composite unique index is what guarantees at most one row per
// (user, product) pair under concurrent votes.
type Rating struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_ratings_user_product"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_ratings_user_product"`
	Product   Product `gorm:"constraint:OnDelete:CASCADE"`
	Grade     bool `gorm:"not null"`
	CreatedAt time.Time
}
