package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"userhub-backend/server/middleware"
	"userhub-backend/server/services"
	"userhub-backend/shared/config"
	"userhub-backend/shared/database"
	"userhub-backend/shared/database/models"
	utils "userhub-backend/shared/utils/auth"
)

// testEnv wires the full router against an in-memory database, mirroring
// the production setup minus rate limiting and CORS.
type testEnv struct {
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpireHours:     "1",
		SuperAdminEmail:    "root@example.com",
		SuperAdminPassword: "rootpass123",
	}
	require.NoError(t, database.SeedDatabase(db, cfg))

	members := services.NewMembershipService(db)
	authHandler := NewAuthHandler(db, cfg)
	userHandler := NewUserHandler(db, members)
	companyHandler := NewCompanyHandler(db, members)

	router := gin.New()
	router.POST("/api/register", authHandler.Register)
	router.POST("/api/login", authHandler.Login)

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

	return &testEnv{db: db, cfg: cfg, router: router}
}

// request performs an HTTP request against the test router. A non-empty
// token is sent as a bearer Authorization header.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID, user.Email, e.cfg.JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) superadmin(t *testing.T) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, e.db.Where("email = ?", e.cfg.SuperAdminEmail).First(&user).Error)
	return &user
}

func (e *testEnv) createUser(t *testing.T, email, password string, roleID uint) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Email:    email,
		Password: hash,
		RoleID:   roleID,
		Active:   true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createCompany(t *testing.T, name string) *models.Company {
	t.Helper()
	company := &models.Company{Name: name, Description: name + " description", Active: true}
	require.NoError(t, e.db.Create(company).Error)
	return company
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, recorder *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))
	return raw
}

func requireStatus(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, recorder.Code, "unexpected status, body: %s", recorder.Body.String())
}
