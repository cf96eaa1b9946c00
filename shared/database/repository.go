package database

import (
	"gorm.io/gorm"

	"userhub-backend/shared/database/models"
)

// Explicit loaders that state which relations they fetch. Handlers never
// rely on lazily populated associations.

// LoadUserFull fetches a user with every relation the user-dict response
// serializes: Role, Companies and PrimaryCompany.
func LoadUserFull(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.Preload("Role").Preload("Companies").Preload("PrimaryCompany").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail fetches a user by email without relations
func FindUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
