package repositories

import (
	"testing"

	"github.com/andrisetya/go-catalog/app/models"
	"github.com/andrisetya/go-catalog/app/models/migrations"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func createCategory(t *testing.T, db *gorm.DB, title string) *models.Category {
	t.Helper()
	category := models.Category{Title: title}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func createFeature(t *testing.T, db *gorm.DB, key, value string) *models.Feature {
	t.Helper()
	feature := models.Feature{Key: key, Value: value}
	require.NoError(t, db.Create(&feature).Error)
	return &feature
}

func createProduct(t *testing.T, db *gorm.DB, title string, price int, category *models.Category, features ...*models.Feature) *models.Product {
	t.Helper()
	attached := make([]models.Feature, 0, len(features))
	for _, feature := range features {
		attached = append(attached, *feature)
	}
	product := models.Product{
		Title:       title,
		Price:       price,
		Description: "test description",
		CategoryID:  category.ID,
		Features:    attached,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
