package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// JWT
	JWTSecret      string
	JWTExpireHours string

	// Server
	ServerPort  string
	CORSOrigins string

	// Super Admin
	SuperAdminEmail    string
	SuperAdminPassword string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Register Rate Limiting
	RegisterRateLimitMaxAttempts string
	RegisterRateLimitWindowHours string
	RegisterRateLimitBlockHours  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{
		// Database
		DatabaseURL: normalizeDatabaseURL(os.Getenv("DATABASE_URL")),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASS", "postgres"),
		DBName:      getEnv("DB_NAME", "user_api"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:      getEnv("JWT_SECRET_KEY", "super-secret-key-change-in-production"),
		JWTExpireHours: getEnv("JWT_EXPIRE_HOURS", "1"),

		// Server
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:8081,http://localhost"),

		// Super Admin
		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", "admin@userhub.local"),
		SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", "admin123"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "300"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "30"),

		// Register Rate Limiting
		RegisterRateLimitMaxAttempts: getEnv("REGISTER_RATE_LIMIT_MAX_ATTEMPTS", "3"),
		RegisterRateLimitWindowHours: getEnv("REGISTER_RATE_LIMIT_WINDOW_HOURS", "24"),
		RegisterRateLimitBlockHours:  getEnv("REGISTER_RATE_LIMIT_BLOCK_HOURS", "48"),
	}

	log.Println("✅ Configuration loaded successfully")
	return cfg
}

// DatabaseDSN returns the connection string for the database. DATABASE_URL
// wins when set; otherwise the DSN is assembled from the discrete DB_* parts.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}

// GetJWTExpireHours returns the token lifetime in hours
func (c *Config) GetJWTExpireHours() int {
	if value, err := strconv.Atoi(c.JWTExpireHours); err == nil && value > 0 {
		return value
	}
	return 1
}

// GetCORSOrigins returns the allowed CORS origins as a slice
func (c *Config) GetCORSOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// GetRedisAddr returns the host:port address for Redis
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// GetRedisDB returns the Redis database number
func (c *Config) GetRedisDB() int {
	if value, err := strconv.Atoi(c.RedisDB); err == nil {
		return value
	}
	return 0
}

// GetIntField converts a numeric string field with a fallback default
func GetIntField(value string, defaultValue int) int {
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

// normalizeDatabaseURL rewrites the legacy postgres:// scheme some hosting
// providers emit to the postgresql:// form the driver expects.
func normalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, "postgres://") {
		return strings.Replace(url, "postgres://", "postgresql://", 1)
	}
	return url
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
