package models

import (
	"time"
)

// Price is stored in the smallest currency unit, never as a formatted string.
type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Title       string  `gorm:"size:100;not null;uniqueIndex"`
	Text        *string `gorm:"size:200"`
	Price       int     `gorm:"not null"`
	Description string  `gorm:"size:500;not null"`
	CategoryID  uint    `gorm:"not null;index"`
	Category    Category
	Features    []Feature      `gorm:"many2many:product_features;constraint:OnDelete:CASCADE"`
	Images      []ProductImage `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductFeature struct {
	ProductID uint `gorm:"primaryKey"`
	FeatureID uint `gorm:"primaryKey"`
}
