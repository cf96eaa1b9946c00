package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"userhub-backend/server/services"
	"userhub-backend/shared/apperrors"
	"userhub-backend/shared/database"
	"userhub-backend/shared/database/models"
	utils "userhub-backend/shared/utils/auth"
	"userhub-backend/shared/utils/permission"
	"userhub-backend/shared/utils/query"
)

type UserHandler struct {
	db      *gorm.DB
	members *services.MembershipService
}

func NewUserHandler(db *gorm.DB, members *services.MembershipService) *UserHandler {
	return &UserHandler{db: db, members: members}
}

// CreateUserRequest represents request body for creating a user
type CreateUserRequest struct {
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	Name             string `json:"name"`
	Lastname         string `json:"lastname"`
	RoleID           *uint  `json:"role_id"`
	CompanyIDs       []uint `json:"company_ids"`
	PrimaryCompanyID *uint  `json:"primary_company_id"`
}

// UpdateUserRequest is a patch: a field is applied when present in the
// body, regardless of its value. Password is the exception — it is only
// rehashed when present and non-empty.
type UpdateUserRequest struct {
	Email            *string `json:"email"`
	Password         *string `json:"password"`
	Name             *string `json:"name"`
	Lastname         *string `json:"lastname"`
	RoleID           *uint   `json:"role_id"`
	Active           *bool   `json:"active"`
	CompanyIDs       *[]uint `json:"company_ids"`
	PrimaryCompanyID *uint   `json:"primary_company_id"`
}

// PrimaryCompanyRequest sets the caller's primary company
type PrimaryCompanyRequest struct {
	PrimaryCompanyID *uint `json:"primary_company_id"`
}

// GET /api/users/me
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, userDict(actor))
}

// GET /api/users/all
// @Summary Get all users
// @Description List every user. Admin level required. Supports search and sort.
// @Tags users
// @Produce json
// @Param search query string false "Search term across name, lastname and email"
// @Param sort[field] query string false "Sort field (email, name, lastname, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {array} map[string]interface{} "Users"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Router /users/all [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	if err := permission.CanListUsers(actor); err != nil {
		respondError(c, err)
		return
	}

	params := query.ParseListParams(c)

	allowedSortFields := map[string]string{
		"email":      "email",
		"name":       "name",
		"lastname":   "lastname",
		"created_at": "created_at",
	}
	searchFields := []string{"name", "lastname", "email"}

	listQuery := h.db.Model(&models.User{}).
		Preload("Role").
		Preload("Companies").
		Preload("PrimaryCompany")
	listQuery = query.ApplySearch(listQuery, params.Search, searchFields)
	listQuery = query.ApplySort(listQuery, params.Sort, allowedSortFields)

	var users []models.User
	if err := listQuery.Find(&users).Error; err != nil {
		respondError(c, apperrors.Internal("could not retrieve users"))
		return
	}

	userList := make([]gin.H, 0, len(users))
	for i := range users {
		userList = append(userList, userDict(&users[i]))
	}

	c.JSON(http.StatusOK, userList)
}

// GET /api/users/:id
// @Summary Get user by ID
// @Description Get a user. Admins see anyone, plain users only themselves.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "User"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	if err := permission.CanViewUser(actor, targetID); err != nil {
		respondError(c, err)
		return
	}

	target, err := database.LoadUserFull(h.db, targetID)
	if err != nil {
		respondUserLoadError(c, err)
		return
	}

	c.JSON(http.StatusOK, userDict(target))
}

// POST /api/users/create
// @Summary Create a new user
// @Description Create a user with an assignable role and company set. Admin level required.
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created user"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Failure 404 {object} map[string]string "Referenced company not found"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /users/create [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	if err := permission.CanCreateUser(actor); err != nil {
		respondError(c, err)
		return
	}

	var req CreateUserRequest
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

	roleID := models.RoleUser
	if req.RoleID != nil {
		if err := permission.CanAssignRole(actor, *req.RoleID); err != nil {
			respondError(c, err)
			return
		}
		if err := h.roleExists(*req.RoleID); err != nil {
			respondError(c, err)
			return
		}
		roleID = *req.RoleID
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

	user := models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Lastname: req.Lastname,
		RoleID:   roleID,
		Active:   true,
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("email already registered")
			}
			return apperrors.Internal("could not create user")
		}

		if len(req.CompanyIDs) > 0 {
			if err := h.members.SetCompanies(tx, &user, req.CompanyIDs, actor); err != nil {
				return err
			}
		}

		if req.PrimaryCompanyID != nil {
			if err := h.members.SetPrimaryCompany(tx, &user, req.PrimaryCompanyID); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		respondError(c, txErr)
		return
	}

	created, err := database.LoadUserFull(h.db, user.ID)
	if err != nil {
		respondError(c, apperrors.Internal("could not load created user"))
		return
	}

	c.JSON(http.StatusCreated, userDict(created))
}

// PUT /api/users/:id
// @Summary Update a user
// @Description Partial update: only fields present in the body are applied.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	if err := permission.CanUpdateUser(actor, targetID); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("invalid request data"))
		return
	}

	target, err := database.LoadUserFull(h.db, targetID)
	if err != nil {
		respondUserLoadError(c, err)
		return
	}

	updates := map[string]interface{}{}

	if req.Email != nil && *req.Email != target.Email {
		if err := utils.ValidateEmail(*req.Email); err != nil {
			respondError(c, apperrors.InvalidArgument(err.Error()))
			return
		}
		var existing models.User
		if err := h.db.Where("email = ? AND id != ?", *req.Email, targetID).First(&existing).Error; err == nil {
			respondError(c, apperrors.Conflict("email already registered"))
			return
		}
		updates["email"] = *req.Email
	}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Lastname != nil {
		updates["lastname"] = *req.Lastname
	}

	if req.Password != nil && *req.Password != "" {
		if err := utils.ValidatePassword(*req.Password); err != nil {
			respondError(c, apperrors.InvalidArgument(err.Error()))
			return
		}
		hashedPassword, err := utils.HashPassword(*req.Password)
		if err != nil {
			respondError(c, apperrors.Internal("could not hash password"))
			return
		}
		updates["password"] = hashedPassword
	}

	if req.RoleID != nil && *req.RoleID != target.RoleID {
		if err := permission.CanAssignRole(actor, *req.RoleID); err != nil {
			respondError(c, err)
			return
		}
		if err := h.roleExists(*req.RoleID); err != nil {
			respondError(c, err)
			return
		}
		updates["role_id"] = *req.RoleID
	}

	if req.Active != nil && *req.Active != target.Active {
		if !*req.Active {
			if err := permission.CanDeactivateUser(actor, target); err != nil {
				respondError(c, err)
				return
			}
		} else if !permission.IsAdminLevel(actor.RoleID) {
			respondError(c, apperrors.Forbidden("not allowed to activate users"))
			return
		}
		updates["active"] = *req.Active
	}

	if req.CompanyIDs != nil {
		if err := permission.CanAssignCompanies(actor); err != nil {
			respondError(c, err)
			return
		}
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(target).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("email already registered")
				}
				return apperrors.Internal("could not update user")
			}
		}

		if req.CompanyIDs != nil {
			if err := h.members.SetCompanies(tx, target, *req.CompanyIDs, actor); err != nil {
				return err
			}
		}

		if req.PrimaryCompanyID != nil {
			if err := h.members.SetPrimaryCompany(tx, target, req.PrimaryCompanyID); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		respondError(c, txErr)
		return
	}

	updated, err := database.LoadUserFull(h.db, targetID)
	if err != nil {
		respondError(c, apperrors.Internal("could not load updated user"))
		return
	}

	c.JSON(http.StatusOK, userDict(updated))
}

// DELETE /api/users/:id
// @Summary Deactivate a user
// @Description Logical deactivation: sets active=false, the row stays.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	targetID, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	target, err := database.LoadUserFull(h.db, targetID)
	if err != nil {
		respondUserLoadError(c, err)
		return
	}

	if err := permission.CanDeactivateUser(actor, target); err != nil {
		respondError(c, err)
		return
	}

	if err := h.db.Model(target).Update("active", false).Error; err != nil {
		respondError(c, apperrors.Internal("could not deactivate user"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}

// PUT /api/users/primary-company
// @Summary Set primary company
// @Description Designate one of the caller's companies as primary.
// @Tags users
// @Accept json
// @Produce json
// @Param request body PrimaryCompanyRequest true "Primary company id"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 400 {object} map[string]string "Company not associated or id missing"
// @Failure 404 {object} map[string]string "Company not found"
// @Router /users/primary-company [put]
func (h *UserHandler) SetPrimaryCompany(c *gin.Context) {
	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	var req PrimaryCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("invalid request data"))
		return
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		return h.members.SetPrimaryCompany(tx, actor, req.PrimaryCompanyID)
	})
	if txErr != nil {
		respondError(c, txErr)
		return
	}

	updated, err := database.LoadUserFull(h.db, actor.ID)
	if err != nil {
		respondError(c, apperrors.Internal("could not load updated user"))
		return
	}

	c.JSON(http.StatusOK, userDict(updated))
}

// roleExists validates a role id against the seeded set
func (h *UserHandler) roleExists(roleID uint) error {
	var role models.Role
	if err := h.db.First(&role, roleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.InvalidArgument("role not found")
		}
		return apperrors.Internal("could not load role")
	}
	return nil
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid user ID format"))
		return 0, false
	}
	return uint(id), true
}

// respondUserLoadError maps a load failure for a target user
func respondUserLoadError(c *gin.Context, err error) {
	if err == gorm.ErrRecordNotFound {
		respondError(c, apperrors.NotFound("user not found"))
		return
	}
	respondError(c, apperrors.Internal("could not load user"))
}
