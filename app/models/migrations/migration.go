package migrations

import (
	"github.com/andrisetya/go-catalog/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Product{}, "Features", &models.ProductFeature{}); err != nil {
		return err
	}
	return db.AutoMigrate(&models.User{}, &models.Category{}, &models.Feature{}, &models.Product{}, &models.ProductImage{}, &models.Rating{})
}
