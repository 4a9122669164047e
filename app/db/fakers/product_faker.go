package fakers

import (
	"math/rand"

	"github.com/andrisetya/go-catalog/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func ProductFaker(category *models.Category, features []models.Feature) *models.Product {
	title := faker.Word() + " " + uuid.NewString()[:6]
	text := faker.Sentence()

	numImages := rand.Intn(3) + 1
	images := make([]models.ProductImage, numImages)
	for i := 0; i < numImages; i++ {
		images[i] = models.ProductImage{
			Title: title,
			Path:  slug.Make(title) + "-" + uuid.NewString()[:8] + ".jpg",
		}
	}

	return &models.Product{
		Title:       title,
		Text:        &text,
		Price:       (rand.Intn(2000) + 5) * 100,
		Description: faker.Sentence(),
		CategoryID:  category.ID,
		Features:    features,
		Images:      images,
	}
}
