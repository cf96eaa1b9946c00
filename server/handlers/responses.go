package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"userhub-backend/shared/apperrors"
	"userhub-backend/shared/database"
	"userhub-backend/shared/database/models"
	"userhub-backend/server/middleware"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// respondError maps an application error onto its HTTP status. Structured
// details (e.g. missing_ids) ride along when present.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	body := gin.H{"error": appErr.Message}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.JSON(appErr.HTTPStatus(), body)
}

// actingUser resolves the authenticated user (with Role, Companies and
// PrimaryCompany) from the id the auth middleware stored. A token whose
// subject no longer resolves to a row answers 404, not 401: the token was
// valid, the user is gone.
func actingUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("authentication required"))
		return nil, false
	}

	user, err := database.LoadUserFull(db, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, apperrors.NotFound("user not found"))
		} else {
			respondError(c, apperrors.Internal("could not load user"))
		}
		return nil, false
	}

	return user, true
}

// userDict serializes a user the way every user endpoint reports it.
// Expects Role, Companies and PrimaryCompany to be loaded.
func userDict(user *models.User) gin.H {
	companies := make([]gin.H, 0, len(user.Companies))
	for i := range user.Companies {
		companies = append(companies, companySummary(&user.Companies[i]))
	}

	var primaryCompany gin.H
	if user.PrimaryCompany != nil {
		primaryCompany = companySummary(user.PrimaryCompany)
	}

	return gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"lastname": user.Lastname,
		"role_id":  user.RoleID,
		"role": gin.H{
			"id":   user.Role.ID,
			"name": user.Role.Name,
		},
		"created_at":         user.CreatedAt.Format(timeFormat),
		"active":             user.Active,
		"primary_company_id": user.PrimaryCompanyID,
		"primary_company":    primaryCompany,
		"companies":          companies,
	}
}

// companySummary is the company shape embedded inside user responses
func companySummary(company *models.Company) gin.H {
	return gin.H{
		"id":          company.ID,
		"name":        company.Name,
		"description": company.Description,
		"user_id":     company.UserID,
		"created_at":  company.CreatedAt.Format(timeFormat),
		"active":      company.Active,
	}
}

// companyDict serializes a company with its contact user. Expects
// ContactUser to be loaded when UserID is set.
func companyDict(company *models.Company) gin.H {
	var contact gin.H
	if company.UserID != nil && company.ContactUser != nil {
		contact = gin.H{
			"id":    company.ContactUser.ID,
			"name":  company.ContactUser.FullName(),
			"email": company.ContactUser.Email,
		}
	}

	return gin.H{
		"id":          company.ID,
		"name":        company.Name,
		"description": company.Description,
		"created_at":  company.CreatedAt.Format(timeFormat),
		"active":      company.Active,
		"user":        contact,
	}
}
