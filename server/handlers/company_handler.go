package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"userhub-backend/server/services"
	"userhub-backend/shared/apperrors"
	"userhub-backend/shared/database/models"
	utils "userhub-backend/shared/utils/auth"
	"userhub-backend/shared/utils/permission"
)

type CompanyHandler struct {
	db      *gorm.DB
	members *services.MembershipService
}

func NewCompanyHandler(db *gorm.DB, members *services.MembershipService) *CompanyHandler {
	return &CompanyHandler{db: db, members: members}
}

// CreateCompanyRequest represents request body for creating a company
type CreateCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      *uint  `json:"user_id"`
	UserIDs     []uint `json:"user_ids"`
	Active      *bool  `json:"active"`
}

// UpdateCompanyRequest is a patch: a field is applied when present in the
// body. Name stays required-unique, so an empty name is rejected.
type UpdateCompanyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	UserID      *uint   `json:"user_id"`
	Active      *bool   `json:"active"`
	UserIDs     *[]uint `json:"user_ids"`
}

// GET /api/companies/all
// @Summary List companies
// @Description Superadmins see every company, everyone else their own memberships.
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} map[string]interface{} "Companies"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /companies/all [get]
func (h *CompanyHandler) GetCompanies(c *gin.Context) {
	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	var companies []models.Company
	listQuery := h.db.Preload("ContactUser")
	if !permission.CanSeeAllCompanies(actor) {
		listQuery = listQuery.
			Joins("JOIN user_companies ON user_companies.company_id = companies.id").
			Where("user_companies.user_id = ?", actor.ID)
	}
	if err := listQuery.Find(&companies).Error; err != nil {
		respondError(c, apperrors.Internal("could not retrieve companies"))
		return
	}

	memberCounts, err := h.memberCounts()
	if err != nil {
		respondError(c, err)
		return
	}

	companyList := make([]gin.H, 0, len(companies))
	for i := range companies {
		company := &companies[i]
		entry := companyDict(company)
		entry["user_count"] = memberCounts[company.ID]
		entry["is_primary"] = actor.PrimaryCompanyID != nil && *actor.PrimaryCompanyID == company.ID
		companyList = append(companyList, entry)
	}

	c.JSON(http.StatusOK, companyList)
}

// POST /api/companies
// @Summary Create a company
// @Description Create a company. Superadmin only. The contact user (or the creator) is associated automatically.
// @Tags companies
// @Accept json
// @Produce json
// @Param company body CreateCompanyRequest true "Company information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created company"
// @Failure 400 {object} map[string]string "Missing name or description"
// @Failure 403 {object} map[string]string "Superadmin required"
// @Failure 404 {object} map[string]string "Contact user not found"
// @Failure 409 {object} map[string]string "Company name already exists"
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	if err := permission.CanManageCompanies(actor); err != nil {
		respondError(c, err)
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("invalid request data"))
		return
	}

	if err := utils.ValidateRequired(req.Name, "company name"); err != nil {
		respondError(c, apperrors.InvalidArgument(err.Error()))
		return
	}
	if err := utils.ValidateRequired(req.Description, "company description"); err != nil {
		respondError(c, apperrors.InvalidArgument(err.Error()))
		return
	}

	var existing models.Company
	if err := h.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		respondError(c, apperrors.Conflict("a company with that name already exists"))
		return
	}

	// The contact defaults to the creating user
	contactID := actor.ID
	if req.UserID != nil {
		var contact models.User
		if err := h.db.First(&contact, *req.UserID).Error; err != nil {
			respondError(c, apperrors.NotFound("contact user not found"))
			return
		}
		contactID = *req.UserID
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	company := models.Company{
		Name:        req.Name,
		Description: req.Description,
		UserID:      &contactID,
		Active:      active,
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			// Duplicate names racing past the existence check land here
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("a company with that name already exists")
			}
			return apperrors.Internal("could not create company")
		}

		if len(req.UserIDs) > 0 {
			if err := h.members.ReassignCompanyUsers(tx, &company, req.UserIDs); err != nil {
				return err
			}
		}

		// Auto-associate the contact user with the new company
		var contact models.User
		if err := tx.First(&contact, contactID).Error; err != nil {
			return apperrors.Internal("could not load contact user")
		}
		return h.members.AddCompanies(tx, &contact, []uint{company.ID}, nil)
	})
	if txErr != nil {
		respondError(c, txErr)
		return
	}

	created, err := h.loadCompany(company.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Company created successfully",
		"company": companyDict(created),
	})
}

// PUT /api/companies/:id
// @Summary Update a company
// @Description Partial update. Superadmin only. Replacing the member set clears stale primary-company pointers first.
// @Tags companies
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param company body UpdateCompanyRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated company"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 403 {object} map[string]string "Superadmin required"
// @Failure 404 {object} map[string]string "Company or referenced user not found"
// @Failure 409 {object} map[string]string "Company name already exists"
// @Router /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	companyID, ok := parseCompanyIDParam(c)
	if !ok {
		return
	}

	actor, ok := actingUser(c, h.db)
	if !ok {
		return
	}

	if err := permission.CanManageCompanies(actor); err != nil {
		respondError(c, err)
		return
	}

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, apperrors.NotFound("company not found"))
		} else {
			respondError(c, apperrors.Internal("could not load company"))
		}
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArgument("invalid request data"))
		return
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		if err := utils.ValidateRequired(*req.Name, "company name"); err != nil {
			respondError(c, apperrors.InvalidArgument(err.Error()))
			return
		}
		if *req.Name != company.Name {
			var existing models.Company
			if err := h.db.Where("name = ? AND id != ?", *req.Name, companyID).First(&existing).Error; err == nil {
				respondError(c, apperrors.Conflict("a company with that name already exists"))
				return
			}
			updates["name"] = *req.Name
		}
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.UserID != nil {
		var contact models.User
		if err := h.db.First(&contact, *req.UserID).Error; err != nil {
			respondError(c, apperrors.NotFound("contact user not found"))
			return
		}
		updates["user_id"] = *req.UserID
	}

	if req.Active != nil {
		updates["active"] = *req.Active
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&company).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("a company with that name already exists")
				}
				return apperrors.Internal("could not update company")
			}
		}

		if req.UserIDs != nil {
			if err := h.members.ReassignCompanyUsers(tx, &company, *req.UserIDs); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		respondError(c, txErr)
		return
	}

	updated, err := h.loadCompany(companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Company updated successfully",
		"company": companyDict(updated),
	})
}

// memberCounts returns the member count per company in one query
func (h *CompanyHandler) memberCounts() (map[uint]int64, error) {
	var rows []struct {
		CompanyID uint
		Total     int64
	}
	if err := h.db.Table("user_companies").
		Select("company_id, COUNT(*) AS total").
		Group("company_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Internal("could not count company members")
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CompanyID] = row.Total
	}
	return counts, nil
}

func (h *CompanyHandler) loadCompany(id uint) (*models.Company, error) {
	var company models.Company
	if err := h.db.Preload("ContactUser").First(&company, id).Error; err != nil {
		return nil, apperrors.Internal("could not load company")
	}
	return &company, nil
}

// parseCompanyIDParam parses the :id path parameter
func parseCompanyIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperrors.InvalidArgument("invalid company ID format"))
		return 0, false
	}
	return uint(id), true
}
