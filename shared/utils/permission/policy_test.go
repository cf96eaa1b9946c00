package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"userhub-backend/shared/database/models"
)

func user(id, roleID uint) *models.User {
	return &models.User{ID: id, RoleID: roleID}
}

func TestIsAdminLevel(t *testing.T) {
	assert.True(t, IsAdminLevel(models.RoleSuperAdmin))
	assert.True(t, IsAdminLevel(models.RoleAdmin))
	assert.False(t, IsAdminLevel(models.RoleUser))
}

func TestCanListUsers(t *testing.T) {
	assert.NoError(t, CanListUsers(user(1, models.RoleSuperAdmin)))
	assert.NoError(t, CanListUsers(user(2, models.RoleAdmin)))
	assert.Error(t, CanListUsers(user(3, models.RoleUser)))
}

func TestCanViewUser(t *testing.T) {
	assert.NoError(t, CanViewUser(user(2, models.RoleAdmin), 99))
	assert.NoError(t, CanViewUser(user(3, models.RoleUser), 3))
	assert.Error(t, CanViewUser(user(3, models.RoleUser), 4))
}

func TestCanUpdateUser(t *testing.T) {
	assert.NoError(t, CanUpdateUser(user(1, models.RoleSuperAdmin), 99))
	assert.NoError(t, CanUpdateUser(user(3, models.RoleUser), 3))
	assert.Error(t, CanUpdateUser(user(3, models.RoleUser), 4))
}

func TestCanAssignRole(t *testing.T) {
	// Plain users never change roles, not even their own
	err := CanAssignRole(user(3, models.RoleUser), models.RoleAdmin)
	assert.Error(t, err)

	// Admins hand out USER and ADMIN but never SUPERADMIN
	assert.NoError(t, CanAssignRole(user(2, models.RoleAdmin), models.RoleUser))
	assert.NoError(t, CanAssignRole(user(2, models.RoleAdmin), models.RoleAdmin))
	assert.Error(t, CanAssignRole(user(2, models.RoleAdmin), models.RoleSuperAdmin))

	// Superadmins assign anything
	assert.NoError(t, CanAssignRole(user(1, models.RoleSuperAdmin), models.RoleSuperAdmin))
}

func TestCanAssignCompanies(t *testing.T) {
	assert.NoError(t, CanAssignCompanies(user(1, models.RoleSuperAdmin)))
	assert.NoError(t, CanAssignCompanies(user(2, models.RoleAdmin)))
	assert.Error(t, CanAssignCompanies(user(3, models.RoleUser)))
}

func TestCanDeactivateUser(t *testing.T) {
	superadmin := user(1, models.RoleSuperAdmin)
	admin := user(2, models.RoleAdmin)
	plain := user(3, models.RoleUser)

	// Self-deactivation is always rejected
	assert.Error(t, CanDeactivateUser(superadmin, superadmin))
	assert.Error(t, CanDeactivateUser(admin, admin))

	// Plain users cannot deactivate anyone
	assert.Error(t, CanDeactivateUser(plain, admin))

	// Admins cannot reach superadmins
	assert.Error(t, CanDeactivateUser(admin, superadmin))

	assert.NoError(t, CanDeactivateUser(admin, plain))
	assert.NoError(t, CanDeactivateUser(superadmin, admin))
}

func TestCanManageCompanies(t *testing.T) {
	assert.NoError(t, CanManageCompanies(user(1, models.RoleSuperAdmin)))
	assert.Error(t, CanManageCompanies(user(2, models.RoleAdmin)))
	assert.Error(t, CanManageCompanies(user(3, models.RoleUser)))
}

func TestCanSeeAllCompanies(t *testing.T) {
	assert.True(t, CanSeeAllCompanies(user(1, models.RoleSuperAdmin)))
	assert.False(t, CanSeeAllCompanies(user(2, models.RoleAdmin)))
	assert.False(t, CanSeeAllCompanies(user(3, models.RoleUser)))
}
