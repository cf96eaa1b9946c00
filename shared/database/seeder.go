package database

import (
	"log"

	"gorm.io/gorm"

	"userhub-backend/shared/config"
	"userhub-backend/shared/database/models"
	utils "userhub-backend/shared/utils/auth"
)

// SeedDatabase seeds the fixed role set and the super admin account
func SeedDatabase(db *gorm.DB, cfg *config.Config) error {
	log.Println("🌱 Checking database seed data...")

	rolesCreated, err := seedRoles(db)
	if err != nil {
		return err
	}

	if rolesCreated > 0 {
		log.Printf("✅ Database seeding completed (%d roles created)", rolesCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return CreateSuperAdmin(db, cfg.SuperAdminEmail, cfg.SuperAdminPassword, "Super", "Admin")
}

// seedRoles creates the fixed roles. Ids are stable and referenced by the
// authorization policy; the rows are never updated or deleted afterwards.
func seedRoles(db *gorm.DB) (int, error) {
	roles := []models.Role{
		{ID: models.RoleSuperAdmin, Name: "SUPERADMIN"},
		{ID: models.RoleAdmin, Name: "ADMIN"},
		{ID: models.RoleUser, Name: "USER"},
	}

	created := 0
	for _, role := range roles {
		var existing models.Role
		result := db.Where("id = ?", role.ID).First(&existing)
		if result.Error != nil {
			if err := db.Create(&role).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// CreateSuperAdmin creates the super admin user when it does not exist yet
func CreateSuperAdmin(db *gorm.DB, email, password, name, lastname string) error {
	var existingUser models.User
	if err := db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		log.Println("Super admin already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	superAdmin := models.User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Lastname: lastname,
		RoleID:   models.RoleSuperAdmin,
		Active:   true,
	}

	if err := db.Create(&superAdmin).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", email)
	return nil
}
