package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is the umbrella every 404 outcome wraps; handlers match it with
// errors.Is. The wrapped sentinels keep "category does not exist" and
// "category has no products" distinct inside the service even though the API
// deliberately reports both as not found.
var (
	ErrNotFound = errors.New("not found")

	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrCategoryEmpty    = fmt.Errorf("category has no products: %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrNoFeatures       = fmt.Errorf("category has no features: %w", ErrNotFound)

	ErrAlreadyExists = errors.New("already exists")
)
