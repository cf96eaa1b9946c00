package main

import (
	"log"

	"userhub-backend/shared/config"
	"userhub-backend/shared/database"
)

func main() {
	log.Println("🌱 Starting database seeding...")

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	// Seed roles and the super admin account
	if err := database.SeedDatabase(db, cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}
