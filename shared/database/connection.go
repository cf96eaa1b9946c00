package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"userhub-backend/shared/config"
	"userhub-backend/shared/database/models"
)

// getLogLevel returns appropriate log level based on environment
func getLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.DBHost == "localhost" || cfg.DBHost == "127.0.0.1" {
		return logger.Warn
	}
	return logger.Error
}

// Connect opens the database connection, configures the pool and runs
// migrations. The handle is returned to the caller; there is no package
// global.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(getLogLevel(cfg)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Unique violations at commit time must surface as
		// gorm.ErrDuplicatedKey so the handlers can answer 409.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established successfully")

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for all models
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Checking database schema...")

	modelsToMigrate := []interface{}{
		&models.Role{},
		&models.Company{},
		&models.User{},
	}

	migrator := db.Migrator()
	allTablesExist := true

	for _, model := range modelsToMigrate {
		if !migrator.HasTable(model) {
			allTablesExist = false
			break
		}
	}

	if allTablesExist {
		log.Println("✅ Database schema is up to date - skipping migration")
		return nil
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
