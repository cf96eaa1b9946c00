package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "userhub-backend/docs"
	"userhub-backend/server/handlers"
	"userhub-backend/server/middleware"
	"userhub-backend/server/services"
	"userhub-backend/shared/config"
	"userhub-backend/shared/database"
)

// @title UserHub API
// @version 1.0
// @description User, role and company management backend

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	// Seed roles and the superadmin account
	if err := database.SeedDatabase(db, cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Redis backs the login/register rate limiters; the limiters fail open
	// when it is unavailable.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.GetRedisDB(),
	})
	rateLimiter := middleware.NewRateLimiter(redisClient)

	loginRateConfig := middleware.RateLimitConfig{
		MaxRequests:   config.GetIntField(cfg.LoginRateLimitMaxAttempts, 5),
		TimeWindow:    time.Duration(config.GetIntField(cfg.LoginRateLimitWindowSeconds, 300)) * time.Second,
		BlockDuration: time.Duration(config.GetIntField(cfg.LoginRateLimitBlockMinutes, 30)) * time.Minute,
	}

	registerRateConfig := middleware.RateLimitConfig{
		MaxRequests:   config.GetIntField(cfg.RegisterRateLimitMaxAttempts, 3),
		TimeWindow:    time.Duration(config.GetIntField(cfg.RegisterRateLimitWindowHours, 24)) * time.Hour,
		BlockDuration: time.Duration(config.GetIntField(cfg.RegisterRateLimitBlockHours, 48)) * time.Hour,
	}

	// Initialize services and handlers
	membershipService := services.NewMembershipService(db)
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, membershipService)
	companyHandler := handlers.NewCompanyHandler(db, membershipService)

	router := gin.Default()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetCORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public endpoints
	router.POST("/api/register", rateLimiter.RegistrationRateLimitMiddleware(registerRateConfig), authHandler.Register)
	router.POST("/api/login", rateLimiter.LoginRateLimitMiddleware(loginRateConfig), authHandler.Login)

	// Authenticated endpoints
	api := router.Group("/api", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/users/me", userHandler.Me)
		api.GET("/users/all", userHandler.GetUsers)
		api.POST("/users/create", userHandler.CreateUser)
		api.PUT("/users/primary-company", userHandler.SetPrimaryCompany)
		api.GET("/users/:id", userHandler.GetUser)
		api.PUT("/users/:id", userHandler.UpdateUser)
		api.DELETE("/users/:id", userHandler.DeactivateUser)

		api.GET("/companies/all", companyHandler.GetCompanies)
		api.POST("/companies", companyHandler.CreateCompany)
		api.PUT("/companies/:id", companyHandler.UpdateCompany)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "userhub",
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UserHub API is running",
			"docs":    "/swagger/index.html",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("🔄 UserHub API starting on port %s...", cfg.ServerPort)
	router.Run(":" + cfg.ServerPort)
}
