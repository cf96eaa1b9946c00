package main

import (
	"log"

	"userhub-backend/shared/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	log.Println("🗑️ Starting database reset...")

	cfg := config.LoadConfig()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatal("❌ Database connection failed:", err)
	}

	tables := []string{
		"user_companies",
		"users",
		"companies",
		"roles",
	}

	log.Println("🗑️ Dropping all tables...")

	for _, table := range tables {
		log.Printf("   Dropping table: %s", table)
		db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE;")
	}

	log.Println("✅ Database reset completed - all tables dropped!")
	log.Println("💡 Run the seed command to recreate tables and seed data")
}
