package permission

import (
	"userhub-backend/shared/apperrors"
	"userhub-backend/shared/database/models"
)

// Role-based authorization rules. Every check is a pure function of the
// acting user's role (and, where relevant, the target), so the rules stay
// testable without a database.

// IsAdminLevel reports whether the role may use the admin surfaces
// (list all users, view/update/deactivate any user, create users).
func IsAdminLevel(roleID uint) bool {
	return roleID == models.RoleSuperAdmin || roleID == models.RoleAdmin
}

// CanListUsers permits SUPERADMIN and ADMIN
func CanListUsers(actor *models.User) error {
	if !IsAdminLevel(actor.RoleID) {
		return apperrors.Forbidden("insufficient permissions to list users")
	}
	return nil
}

// CanViewUser permits admins for anyone, plain users for themselves only
func CanViewUser(actor *models.User, targetID uint) error {
	if IsAdminLevel(actor.RoleID) || actor.ID == targetID {
		return nil
	}
	return apperrors.Forbidden("not allowed to view this user")
}

// CanUpdateUser permits admins for anyone, plain users for themselves only
func CanUpdateUser(actor *models.User, targetID uint) error {
	if IsAdminLevel(actor.RoleID) || actor.ID == targetID {
		return nil
	}
	return apperrors.Forbidden("not allowed to modify this user")
}

// CanCreateUser permits SUPERADMIN and ADMIN
func CanCreateUser(actor *models.User) error {
	if !IsAdminLevel(actor.RoleID) {
		return apperrors.Forbidden("insufficient permissions to create users")
	}
	return nil
}

// CanAssignRole gates role assignment: only a SUPERADMIN may hand out the
// SUPERADMIN role, and a plain USER may never change a role_id (including
// their own).
func CanAssignRole(actor *models.User, newRoleID uint) error {
	if !IsAdminLevel(actor.RoleID) {
		return apperrors.Forbidden("not allowed to change roles")
	}
	if newRoleID == models.RoleSuperAdmin && actor.RoleID != models.RoleSuperAdmin {
		return apperrors.Forbidden("only a superadmin can assign the superadmin role")
	}
	return nil
}

// CanAssignCompanies gates touching a user's company association set.
// The per-company scope rule for ADMIN actors lives in the membership
// service, where the actor's own set is at hand.
func CanAssignCompanies(actor *models.User) error {
	if !IsAdminLevel(actor.RoleID) {
		return apperrors.Forbidden("not allowed to assign companies")
	}
	return nil
}

// CanDeactivateUser forbids self-deactivation, requires admin level, and
// keeps superadmins out of an admin's reach.
func CanDeactivateUser(actor *models.User, target *models.User) error {
	if !IsAdminLevel(actor.RoleID) {
		return apperrors.Forbidden("insufficient permissions to deactivate users")
	}
	if actor.ID == target.ID {
		return apperrors.Forbidden("cannot deactivate your own account")
	}
	if target.RoleID == models.RoleSuperAdmin && actor.RoleID != models.RoleSuperAdmin {
		return apperrors.Forbidden("an admin cannot deactivate a superadmin")
	}
	return nil
}

// CanManageCompanies permits SUPERADMIN only (create and update)
func CanManageCompanies(actor *models.User) error {
	if actor.RoleID != models.RoleSuperAdmin {
		return apperrors.Forbidden("only superadministrators can manage companies")
	}
	return nil
}

// CanSeeAllCompanies reports whether the listing shows every company or
// only the actor's memberships.
func CanSeeAllCompanies(actor *models.User) bool {
	return actor.RoleID == models.RoleSuperAdmin
}
