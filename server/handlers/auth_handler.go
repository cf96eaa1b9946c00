package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"userhub-backend/shared/apperrors"
	"userhub-backend/shared/config"
	"userhub-backend/shared/database"
	"userhub-backend/shared/database/models"
	utils "userhub-backend/shared/utils/auth"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Register Request struct
type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
	Name     string `json:"name" example:"John"`
	Lastname string `json:"lastname" example:"Doe"`
}

// Login Request struct
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// Login Response struct
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// POST /api/register
// @Summary Register new user
// @Description Register a new user account. The role is always USER.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "User registration data"
// @Success 201 {object} map[string]interface{} "Created user id"
// @Failure 400 {object} map[string]string "Missing or invalid fields"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 429 {object} map[string]string "Too many registration attempts"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("missing required fields"))
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		respondError(c, apperrors.InvalidArgument(err.Error()))
		return
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		respondError(c, apperrors.InvalidArgument(err.Error()))
		return
	}

	if _, err := database.FindUserByEmail(h.db, req.Email); err == nil {
		respondError(c, apperrors.Conflict("email already registered"))
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, apperrors.Internal("could not hash password"))
		return
	}

	// Registration never chooses a role
	user := models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Lastname: req.Lastname,
		RoleID:   models.RoleUser,
		Active:   true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// Two registrations can race past the existence check; the unique
		// index settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperrors.Conflict("email already registered"))
			return
		}
		respondError(c, apperrors.Internal("could not create user"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// POST /api/login
// @Summary User login
// @Description Authenticate a user and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Access token"
// @Failure 400 {object} map[string]string "Missing fields"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("missing email or password"))
		return
	}

	// One answer for unknown email, wrong password and deactivated
	// account: the response must not reveal which it was.
	user, err := database.FindUserByEmail(h.db, req.Email)
	if err != nil || !user.Active || !utils.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, apperrors.Unauthorized("invalid credentials"))
		return
	}

	expire := time.Duration(h.cfg.GetJWTExpireHours()) * time.Hour
	token, err := utils.GenerateJWT(user.ID, user.Email, h.cfg.JWTSecret, expire)
	if err != nil {
		respondError(c, apperrors.Internal("could not generate token"))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}
