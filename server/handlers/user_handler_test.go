package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub-backend/shared/database/models"
	utils "userhub-backend/shared/utils/auth"
)

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)

	recorder := env.request(t, http.MethodGet, "/api/users/me", nil, env.tokenFor(t, root))
	requireStatus(t, recorder, http.StatusOK)

	body := decodeBody(t, recorder)
	assert.Equal(t, env.cfg.SuperAdminEmail, body["email"])

	role, ok := body["role"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SUPERADMIN", role["name"])

	// The password hash never appears in responses
	assert.NotContains(t, body, "password")
}

func TestGetUsersRequiresAdminLevel(t *testing.T) {
	env := newTestEnv(t)
	plain := env.createUser(t, "plain@example.com", "secret123", models.RoleUser)
	admin := env.createUser(t, "admin@example.com", "secret123", models.RoleAdmin)

	requireStatus(t, env.request(t, http.MethodGet, "/api/users/all", nil, env.tokenFor(t, plain)), http.StatusForbidden)

	recorder := env.request(t, http.MethodGet, "/api/users/all", nil, env.tokenFor(t, admin))
	requireStatus(t, recorder, http.StatusOK)

	users := decodeList(t, recorder)
	// Superadmin seed plus the two created here
	assert.Len(t, users, 3)
}

func TestGetUsersSearch(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "secret123", models.RoleAdmin)
	alice := env.createUser(t, "alice@example.com", "secret123", models.RoleUser)
	env.createUser(t, "bob@example.com", "secret123", models.RoleUser)

	recorder := env.request(t, http.MethodGet, "/api/users/all?search=ALICE", nil, env.tokenFor(t, admin))
	requireStatus(t, recorder, http.StatusOK)

	users := decodeList(t, recorder)
	require.Len(t, users, 1)
	assert.Equal(t, alice.Email, users[0]["email"])
}

func TestGetUserVisibility(t *testing.T) {
	env := newTestEnv(t)
	plain := env.createUser(t, "plain@example.com", "secret123", models.RoleUser)
	other := env.createUser(t, "other@example.com", "secret123", models.RoleUser)
	admin := env.createUser(t, "admin@example.com", "secret123", models.RoleAdmin)

	// Plain users see themselves only
	requireStatus(t, env.request(t, http.MethodGet, userPath(plain.ID), nil, env.tokenFor(t, plain)), http.StatusOK)
	requireStatus(t, env.request(t, http.MethodGet, userPath(other.ID), nil, env.tokenFor(t, plain)), http.StatusForbidden)

	// Admins see anyone
	requireStatus(t, env.request(t, http.MethodGet, userPath(plain.ID), nil, env.tokenFor(t, admin)), http.StatusOK)

	requireStatus(t, env.request(t, http.MethodGet, userPath(99999), nil, env.tokenFor(t, admin)), http.StatusNotFound)
	requireStatus(t, env.request(t, http.MethodGet, "/api/users/abc", nil, env.tokenFor(t, admin)), http.StatusBadRequest)
}

func TestCreateUserWithCompanies(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)
	acme := env.createCompany(t, "Acme")

	recorder := env.request(t, http.MethodPost, "/api/users/create", gin.H{
		"email":              "bob@example.com",
		"password":           "secret123",
		"name":               "Bob",
		"role_id":            models.RoleAdmin,
		"company_ids":        []uint{acme.ID},
		"primary_company_id": acme.ID,
	}, env.tokenFor(t, root))
	requireStatus(t, recorder, http.StatusCreated)

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(acme.ID), body["primary_company_id"])

	companies, ok := body["companies"].([]interface{})
	require.True(t, ok)
	assert.Len(t, companies, 1)

	role, ok := body["role"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ADMIN", role["name"])
}

func TestCreateUserUnknownCompany(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)

	recorder := env.request(t, http.MethodPost, "/api/users/create", gin.H{
		"email":       "bob@example.com",
		"password":    "secret123",
		"company_ids": []uint{999},
	}, env.tokenFor(t, root))
	requireStatus(t, recorder, http.StatusNotFound)

	body := decodeBody(t, recorder)
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{float64(999)}, details["missing_ids"])

	// Nothing was committed
	var count int64
	require.NoError(t, env.db.Model(&models.User{}).
		Where("email = ?", "bob@example.com").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdminCannotPromoteToSuperadmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "secret123", models.RoleAdmin)
	target := env.createUser(t, "target@example.com", "secret123", models.RoleUser)

	recorder := env.request(t, http.MethodPut, userPath(target.ID), gin.H{
		"role_id": models.RoleSuperAdmin,
	}, env.tokenFor(t, admin))
	requireStatus(t, recorder, http.StatusForbidden)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, target.ID).Error)
	assert.Equal(t, models.RoleUser, reloaded.RoleID)
}

func TestUserCannotChangeOwnRole(t *testing.T) {
	env := newTestEnv(t)
	plain := env.createUser(t, "plain@example.com", "secret123", models.RoleUser)

	recorder := env.request(t, http.MethodPut, userPath(plain.ID), gin.H{
		"role_id": models.RoleAdmin,
	}, env.tokenFor(t, plain))
	requireStatus(t, recorder, http.StatusForbidden)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, plain.ID).Error)
	assert.Equal(t, models.RoleUser, reloaded.RoleID)
}

func TestUpdateUserPatchSemantics(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)
	target := env.createUser(t, "target@example.com", "secret123", models.RoleUser)
	require.NoError(t, env.db.Model(target).Updates(map[string]interface{}{
		"name": "Before", "lastname": "Unchanged",
	}).Error)
	originalHash := target.Password

	recorder := env.request(t, http.MethodPut, userPath(target.ID), gin.H{
		"name":     "",
		"password": "",
	}, env.tokenFor(t, root))
	requireStatus(t, recorder, http.StatusOK)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, target.ID).Error)

	// A present empty name is applied; an absent lastname is untouched;
	// an empty password never rehashes.
	assert.Equal(t, "", reloaded.Name)
	assert.Equal(t, "Unchanged", reloaded.Lastname)
	assert.Equal(t, originalHash, reloaded.Password)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)
	env.createUser(t, "taken@example.com", "secret123", models.RoleUser)
	target := env.createUser(t, "target@example.com", "secret123", models.RoleUser)

	recorder := env.request(t, http.MethodPut, userPath(target.ID), gin.H{
		"email": "taken@example.com",
	}, env.tokenFor(t, root))
	requireStatus(t, recorder, http.StatusConflict)
}

func TestUpdateUserPasswordChange(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)
	target := env.createUser(t, "target@example.com", "secret123", models.RoleUser)

	recorder := env.request(t, http.MethodPut, userPath(target.ID), gin.H{
		"password": "newsecret456",
	}, env.tokenFor(t, root))
	requireStatus(t, recorder, http.StatusOK)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, target.ID).Error)
	assert.True(t, utils.CheckPasswordHash("newsecret456", reloaded.Password))
}

func TestSelfDeactivationForbidden(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "secret123", models.RoleAdmin)

	recorder := env.request(t, http.MethodDelete, userPath(admin.ID), nil, env.tokenFor(t, admin))
	requireStatus(t, recorder, http.StatusForbidden)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, admin.ID).Error)
	assert.True(t, reloaded.Active)
}

func TestAdminCannotDeactivateSuperadmin(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)
	admin := env.createUser(t, "admin@example.com", "secret123", models.RoleAdmin)

	recorder := env.request(t, http.MethodDelete, userPath(root.ID), nil, env.tokenFor(t, admin))
	requireStatus(t, recorder, http.StatusForbidden)
}

func TestDeactivateUserBlocksLogin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "secret123", models.RoleAdmin)
	target := env.createUser(t, "target@example.com", "secret123", models.RoleUser)

	recorder := env.request(t, http.MethodDelete, userPath(target.ID), nil, env.tokenFor(t, admin))
	requireStatus(t, recorder, http.StatusOK)

	var reloaded models.User
	require.NoError(t, env.db.First(&reloaded, target.ID).Error)
	assert.False(t, reloaded.Active)

	// The row survives, only the flag flips
	login := env.request(t, http.MethodPost, "/api/login", gin.H{
		"email":    "target@example.com",
		"password": "secret123",
	}, "")
	requireStatus(t, login, http.StatusUnauthorized)
}

func TestSetPrimaryCompanyEndpoint(t *testing.T) {
	env := newTestEnv(t)
	root := env.superadmin(t)
	member := env.createUser(t, "member@example.com", "secret123", models.RoleUser)
	acme := env.createCompany(t, "Acme")
	globex := env.createCompany(t, "Globex")

	// Associate via the admin surface first
	recorder := env.request(t, http.MethodPut, userPath(member.ID), gin.H{
		"company_ids": []uint{acme.ID},
	}, env.tokenFor(t, root))
	requireStatus(t, recorder, http.StatusOK)

	recorder = env.request(t, http.MethodPut, "/api/users/primary-company", gin.H{
		"primary_company_id": acme.ID,
	}, env.tokenFor(t, member))
	requireStatus(t, recorder, http.StatusOK)

	body := decodeBody(t, recorder)
	assert.Equal(t, float64(acme.ID), body["primary_company_id"])

	// Not a membership of the caller
	recorder = env.request(t, http.MethodPut, "/api/users/primary-company", gin.H{
		"primary_company_id": globex.ID,
	}, env.tokenFor(t, member))
	requireStatus(t, recorder, http.StatusBadRequest)

	// Absent body field
	recorder = env.request(t, http.MethodPut, "/api/users/primary-company", gin.H{}, env.tokenFor(t, member))
	requireStatus(t, recorder, http.StatusBadRequest)
}

func userPath(id uint) string {
	return fmt.Sprintf("/api/users/%d", id)
}
