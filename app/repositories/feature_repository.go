package repositories

import (
	"context"
	"fmt"

	"github.com/andrisetya/go-catalog/app/models"
	"gorm.io/gorm"
)

// FeatureOption is one selectable value of a feature key within a category.
type FeatureOption struct {
	Value string `json:"value"`
	ID    uint   `json:"id"`
}

type FeatureRepositoryImpl interface {
	Create(ctx context.Context, feature *models.Feature) error
	DistinctKeysByCategory(ctx context.Context, categoryID uint) ([]string, error)
	OptionsByCategoryAndKey(ctx context.Context, categoryID uint, key string) ([]FeatureOption, error)
	ResolveByIDs(ctx context.Context, ids []uint) (map[uint]models.Feature, error)
}

type featureRepository struct {
	db *gorm.DB
}

func NewFeatureRepository(db *gorm.DB) FeatureRepositoryImpl {
	return &featureRepository{db: db}
}

func (r *featureRepository) Create(ctx context.Context, feature *models.Feature) error {
	return r.db.WithContext(ctx).Create(feature).Error
}

// DistinctKeysByCategory returns the distinct feature keys attached, through
// products, to the given category. An empty result is not an error.
func (r *featureRepository) DistinctKeysByCategory(ctx context.Context, categoryID uint) ([]string, error) {
	var rows []struct {
		Key string
	}
	err := r.db.WithContext(ctx).
		Table("features").
		Select("DISTINCT features.`key` AS `key`").
		Joins("JOIN product_features pf ON pf.feature_id = features.id").
		Joins("JOIN products p ON p.id = pf.product_id").
		Where("p.category_id = ?", categoryID).
		Order("features.`key` ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feature keys for category %d: %w", categoryID, err)
	}

	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.Key)
	}
	return keys, nil
}

// OptionsByCategoryAndKey returns distinct (value, id) pairs for the key among
// features attached to products of the category. Distinctness is by pair, not
// by value alone: two features sharing a value text keep both entries.
func (r *featureRepository) OptionsByCategoryAndKey(ctx context.Context, categoryID uint, key string) ([]FeatureOption, error) {
	var options []FeatureOption
	err := r.db.WithContext(ctx).
		Table("features").
		Select("DISTINCT features.value AS value, features.id AS id").
		Joins("JOIN product_features pf ON pf.feature_id = features.id").
		Joins("JOIN products p ON p.id = pf.product_id").
		Where("p.category_id = ? AND features.`key` = ?", categoryID, key).
		Order("features.id ASC").
		Scan(&options).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feature options for category %d: %w", categoryID, err)
	}
	return options, nil
}

// ResolveByIDs maps feature ids to their rows. Unknown ids are simply absent
// from the map so one bad filter id never fails a whole listing.
func (r *featureRepository) ResolveByIDs(ctx context.Context, ids []uint) (map[uint]models.Feature, error) {
	resolved := make(map[uint]models.Feature, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}
	var features []models.Feature
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&features).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve features: %w", err)
	}
	for _, feature := range features {
		resolved[feature.ID] = feature
	}
	return resolved, nil
}
