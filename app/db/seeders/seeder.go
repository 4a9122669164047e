package seeders

import (
	"math/rand"

	"github.com/andrisetya/go-catalog/app/db/fakers"
	"github.com/andrisetya/go-catalog/app/models"
	"gorm.io/gorm"
)

var seedFeatures = []models.Feature{
	{Key: "color", Value: "red"},
	{Key: "color", Value: "black"},
	{Key: "color", Value: "silver"},
	{Key: "size", Value: "small"},
	{Key: "size", Value: "medium"},
	{Key: "size", Value: "large"},
	{Key: "material", Value: "aluminium"},
	{Key: "material", Value: "plastic"},
}

var seedCategories = []string{"Phones", "Laptops", "Accessories"}

func DBSeed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(fakers.UserFaker(true)).Error; err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			if err := tx.Create(fakers.UserFaker(false)).Error; err != nil {
				return err
			}
		}

		features := make([]models.Feature, len(seedFeatures))
		copy(features, seedFeatures)
		if err := tx.Create(&features).Error; err != nil {
			return err
		}

		for _, title := range seedCategories {
			category := models.Category{Title: title}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}

			for i := 0; i < 5; i++ {
				picked := pickFeatures(features)
				if err := tx.Create(fakers.ProductFaker(&category, picked)).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// pickFeatures takes at most one value per key so seeded products look like
// real attribute selections.
func pickFeatures(features []models.Feature) []models.Feature {
	byKey := make(map[string][]models.Feature)
	for _, feature := range features {
		byKey[feature.Key] = append(byKey[feature.Key], feature)
	}

	picked := make([]models.Feature, 0, len(byKey))
	for _, options := range byKey {
		if rand.Intn(4) == 0 {
			continue
		}
		picked = append(picked, options[rand.Intn(len(options))])
	}
	return picked
}
