package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrisetya/go-catalog/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductSort is a validated sort specification. Build it with
// ParseProductSort only: the column is always taken from the whitelist,
// never from a request string.
type ProductSort struct {
	Column string
	Desc   bool
}

var sortColumns = map[string]string{
	"title": "title",
	"price": "price",
}

// ParseProductSort maps the sort_by/sort_dict query tokens to a sort spec.
// Unrecognized fields fall back to title, anything but "desc" sorts ascending.
func ParseProductSort(by, dict string) ProductSort {
	column, ok := sortColumns[by]
	if !ok {
		column = "title"
	}
	return ProductSort{Column: column, Desc: dict == "desc"}
}

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	HasProducts(ctx context.Context, categoryID uint) (bool, error)
	ListByCategory(ctx context.Context, categoryID uint, srt ProductSort, filters map[string][]string, limit, offset int) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Features").
		Preload("Images").
		First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) HasProducts(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// categoryQuery builds the filtered base set: products of the category that,
// for every key in filters, carry at least one feature with that key and a
// value from the key's list (AND across keys, OR within a key). Keys are
// applied in sorted order so the generated SQL is the same for the same input.
func (p *productRepository) categoryQuery(ctx context.Context, categoryID uint, filters map[string][]string) *gorm.DB {
	query := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("products.category_id = ?", categoryID)

	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_features pf JOIN features f ON f.id = pf.feature_id WHERE pf.product_id = products.id AND f.`key` = ? AND f.value IN ?)",
			key, filters[key],
		)
	}
	return query
}

// ListByCategory returns one page of the filtered, ordered product set plus
// the total size of that set. Membership is fixed first, then ordered once;
// ties are broken by id so the order is total and deterministic.
func (p *productRepository) ListByCategory(ctx context.Context, categoryID uint, srt ProductSort, filters map[string][]string, limit, offset int) ([]models.Product, int64, error) {
	var total int64
	if err := p.categoryQuery(ctx, categoryID, filters).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := p.categoryQuery(ctx, categoryID, filters).
		Preload("Category").
		Preload("Features").
		Preload("Images").
		Order(clause.OrderByColumn{Column: clause.Column{Table: "products", Name: srt.Column}, Desc: srt.Desc}).
		Order("products.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id uint) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
