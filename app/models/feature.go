package models

// Feature is one (key, value) attribute. Keys repeat across features
// ("color" has many values); values are globally unique.
type Feature struct {
	ID    uint   `gorm:"primaryKey"`
	Key   string `gorm:"size:200;not null;index"`
	Value string `gorm:"size:200;not null;uniqueIndex"`
}
