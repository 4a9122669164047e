package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/andrisetya/go-catalog/app/models"
	"github.com/andrisetya/go-catalog/app/repositories"
	"github.com/andrisetya/go-catalog/app/utils/cache"
	"gorm.io/gorm"
)

const (
	categoriesCacheKey     = "categories:all"
	categoryFeaturesKeyFmt = "features:category:%d"
	mediaPrefix            = "/media/"
)

type CategoryItem struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type FeatureItem struct {
	ID    uint   `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type FeatureGroup struct {
	Key     string                       `json:"key"`
	Options []repositories.FeatureOption `json:"options"`
}

type RatingBlock struct {
	LikeCount         int64   `json:"like_count"`
	DislikeCount      int64   `json:"dislike_count"`
	CurrentUserRating *string `json:"current_user_rating"`
}

type ProductListItem struct {
	ID         uint          `json:"id"`
	Title      string        `json:"title"`
	Price      int           `json:"price"`
	Category   string        `json:"category"`
	CategoryID uint          `json:"category_id"`
	Features   []FeatureItem `json:"features"`
	Media      []string      `json:"media"`
}

type ProductDetail struct {
	ProductListItem
	Text        *string     `json:"text"`
	Description string      `json:"description"`
	Rating      RatingBlock `json:"rating"`
}

type CreateCategoryInput struct {
	Title string `json:"title" validate:"required,min=1,max=150"`
}

type CreateFeatureInput struct {
	Key   string `json:"key" validate:"required,min=1,max=200"`
	Value string `json:"value" validate:"required,min=1,max=200"`
}

type CreateProductInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=100"`
	Text        *string `json:"text" validate:"omitempty,max=200"`
	Price       int     `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"required,max=500"`
	CategoryID  uint    `json:"category_id" validate:"required"`
	FeatureIDs  []uint  `json:"feature_ids"`
}

// CatalogService is the query façade: it orchestrates the feature index, the
// product filter-sort engine and the rating ledger per request and shapes the
// results the HTTP layer renders.
type CatalogService struct {
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	featureRepo  repositories.FeatureRepositoryImpl
	ratingRepo   repositories.RatingRepositoryImpl
	store        cache.Store
	cacheTTL     time.Duration
}

func NewCatalogService(
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	featureRepo repositories.FeatureRepositoryImpl,
	ratingRepo repositories.RatingRepositoryImpl,
	store cache.Store,
	cacheTTL time.Duration,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		featureRepo:  featureRepo,
		ratingRepo:   ratingRepo,
		store:        store,
		cacheTTL:     cacheTTL,
	}
}

// ListCategories returns one page of categories plus the total count. The
// full list is kept in the read-through cache; staleness up to the TTL is
// accepted rather than invalidating on writes.
func (s *CatalogService) ListCategories(ctx context.Context, limit, offset int) ([]CategoryItem, int64, error) {
	var items []CategoryItem
	if !s.cacheGet(ctx, categoriesCacheKey, &items) {
		categories, err := s.categoryRepo.GetAll(ctx)
		if err != nil {
			return nil, 0, err
		}
		items = make([]CategoryItem, 0, len(categories))
		for _, category := range categories {
			items = append(items, CategoryItem{ID: category.ID, Title: category.Title})
		}
		s.cacheSet(ctx, categoriesCacheKey, items)
	}

	total := int64(len(items))
	return slicePage(items, limit, offset), total, nil
}

// ListProductsByCategory builds the ordered, filtered, paginated product list
// for a category. A category with no products is reported as ErrCategoryEmpty;
// the handler collapses it to the same 404 as an unknown category.
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID uint, sortBy, sortDict string, filterIDs []uint, limit, offset int) ([]ProductListItem, int64, error) {
	hasProducts, err := s.productRepo.HasProducts(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	if !hasProducts {
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return nil, 0, err
		}
		if category == nil {
			return nil, 0, ErrCategoryNotFound
		}
		return nil, 0, ErrCategoryEmpty
	}

	filters, err := s.resolveFilters(ctx, filterIDs)
	if err != nil {
		return nil, 0, err
	}

	srt := repositories.ParseProductSort(sortBy, sortDict)
	products, total, err := s.productRepo.ListByCategory(ctx, categoryID, srt, filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ProductListItem, 0, len(products))
	for _, product := range products {
		items = append(items, shapeListItem(product))
	}
	return items, total, nil
}

// resolveFilters turns raw filter ids into key -> values groups. Unknown ids
// are dropped by the feature index; an empty result applies no filtering.
func (s *CatalogService) resolveFilters(ctx context.Context, filterIDs []uint) (map[string][]string, error) {
	if len(filterIDs) == 0 {
		return nil, nil
	}
	resolved, err := s.featureRepo.ResolveByIDs(ctx, filterIDs)
	if err != nil {
		return nil, err
	}
	filters := make(map[string][]string, len(resolved))
	for _, feature := range resolved {
		filters[feature.Key] = append(filters[feature.Key], feature.Value)
	}
	return filters, nil
}

// GetProduct returns one product with its features, media and the rating
// block for the given viewer (nil viewer means anonymous).
func (s *CatalogService) GetProduct(ctx context.Context, id uint, viewerID *uint) (*ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	summary, err := s.ratingRepo.Summary(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		ProductListItem: shapeListItem(*product),
		Text:            product.Text,
		Description:     product.Description,
		Rating: RatingBlock{
			LikeCount:         summary.LikeCount,
			DislikeCount:      summary.DislikeCount,
			CurrentUserRating: summary.UserRating,
		},
	}
	return detail, nil
}

// ListCategoryFeatures returns one page of {key, options} groups for the
// category, read through the cache. A category with no attached features is
// reported as not found, mirroring the product-listing policy.
func (s *CatalogService) ListCategoryFeatures(ctx context.Context, categoryID uint, limit, offset int) ([]FeatureGroup, int64, error) {
	cacheKey := fmt.Sprintf(categoryFeaturesKeyFmt, categoryID)

	var groups []FeatureGroup
	if !s.cacheGet(ctx, cacheKey, &groups) {
		keys, err := s.featureRepo.DistinctKeysByCategory(ctx, categoryID)
		if err != nil {
			return nil, 0, err
		}
		groups = make([]FeatureGroup, 0, len(keys))
		for _, key := range keys {
			options, err := s.featureRepo.OptionsByCategoryAndKey(ctx, categoryID, key)
			if err != nil {
				return nil, 0, err
			}
			groups = append(groups, FeatureGroup{Key: key, Options: options})
		}
		s.cacheSet(ctx, cacheKey, groups)
	}

	if len(groups) == 0 {
		return nil, 0, ErrNoFeatures
	}

	total := int64(len(groups))
	return slicePage(groups, limit, offset), total, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryItem, error) {
	category := models.Category{Title: input.Title}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &CategoryItem{ID: category.ID, Title: category.Title}, nil
}

func (s *CatalogService) CreateFeature(ctx context.Context, input CreateFeatureInput) (*FeatureItem, error) {
	feature := models.Feature{Key: input.Key, Value: input.Value}
	if err := s.featureRepo.Create(ctx, &feature); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &FeatureItem{ID: feature.ID, Key: feature.Key, Value: feature.Value}, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDetail, error) {
	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	resolved, err := s.featureRepo.ResolveByIDs(ctx, input.FeatureIDs)
	if err != nil {
		return nil, err
	}
	features := make([]models.Feature, 0, len(resolved))
	for _, id := range input.FeatureIDs {
		if feature, ok := resolved[id]; ok {
			features = append(features, feature)
		}
	}

	product := models.Product{
		Title:       input.Title,
		Text:        input.Text,
		Price:       input.Price,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Features:    features,
	}
	if err := s.productRepo.Create(ctx, &product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return s.GetProduct(ctx, product.ID, nil)
}

func shapeListItem(product models.Product) ProductListItem {
	features := make([]FeatureItem, 0, len(product.Features))
	for _, feature := range product.Features {
		features = append(features, FeatureItem{ID: feature.ID, Key: feature.Key, Value: feature.Value})
	}

	media := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		media = append(media, mediaPrefix+image.Path)
	}

	return ProductListItem{
		ID:         product.ID,
		Title:      product.Title,
		Price:      product.Price,
		Category:   product.Category.Title,
		CategoryID: product.CategoryID,
		Features:   features,
		Media:      media,
	}
}

// cacheGet / cacheSet degrade gracefully: a broken cache never fails a
// request, it only costs the query.
func (s *CatalogService) cacheGet(ctx context.Context, key string, out any) bool {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("CatalogService: cache get %s failed: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("CatalogService: cache entry %s unreadable: %v", key, err)
		return false
	}
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("CatalogService: cache encode %s failed: %v", key, err)
		return
	}
	if err := s.store.Set(ctx, key, raw, s.cacheTTL); err != nil {
		log.Printf("CatalogService: cache set %s failed: %v", key, err)
	}
}

func slicePage[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
