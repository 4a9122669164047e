package fakers

import (
	"log"

	"github.com/andrisetya/go-catalog/app/models"
	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
)

func UserFaker(isStaff bool) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash seed password:", err)
	}

	return &models.User{
		Username: faker.Username(),
		Password: string(hashed),
		IsStaff:  isStaff,
	}
}
