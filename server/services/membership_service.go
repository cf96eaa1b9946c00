package services

import (
	"sort"

	"gorm.io/gorm"

	"userhub-backend/shared/apperrors"
	"userhub-backend/shared/database/models"
)

// MembershipService owns the user↔company association set and the
// primary-company pointer. All mutations go through here so the invariant
// "primary_company_id is null or one of the user's memberships" holds after
// every call. Multi-step mutations expect to run inside a caller-owned
// transaction; every method takes the transaction handle.
type MembershipService struct {
	db *gorm.DB
}

// NewMembershipService creates a new membership service
func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// DB returns the root handle for callers that open their own transaction
func (s *MembershipService) DB() *gorm.DB {
	return s.db
}

// SetCompanies replaces the user's full association set. Every id must
// resolve to an existing company; ADMIN actors may only assign companies
// they themselves belong to. When the replacement drops the user's primary
// company, the pointer is cleared in the same transaction.
func (s *MembershipService) SetCompanies(tx *gorm.DB, user *models.User, companyIDs []uint, actor *models.User) error {
	companies, err := s.resolveCompanies(tx, companyIDs)
	if err != nil {
		return err
	}

	if err := s.checkAdminScope(tx, actor, companyIDs); err != nil {
		return err
	}

	if err := tx.Model(user).Association("Companies").Replace(companies); err != nil {
		return apperrors.Internal("could not update company associations")
	}

	if user.PrimaryCompanyID != nil && !containsID(companyIDs, *user.PrimaryCompanyID) {
		if err := s.clearPrimary(tx, user); err != nil {
			return err
		}
	}

	user.Companies = companies
	return nil
}

// AddCompanies associates additional companies without removing existing
// memberships. Re-adding an existing association is a no-op.
func (s *MembershipService) AddCompanies(tx *gorm.DB, user *models.User, companyIDs []uint, actor *models.User) error {
	companies, err := s.resolveCompanies(tx, companyIDs)
	if err != nil {
		return err
	}

	if err := s.checkAdminScope(tx, actor, companyIDs); err != nil {
		return err
	}

	if len(companies) == 0 {
		return nil
	}

	if err := tx.Model(user).Association("Companies").Append(companies); err != nil {
		return apperrors.Internal("could not add company associations")
	}

	return nil
}

// SetPrimaryCompany designates one of the user's memberships as primary
func (s *MembershipService) SetPrimaryCompany(tx *gorm.DB, user *models.User, companyID *uint) error {
	if companyID == nil {
		return apperrors.InvalidArgument("primary_company_id is required")
	}

	var company models.Company
	if err := tx.First(&company, *companyID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("company not found")
		}
		return apperrors.Internal("could not load company")
	}

	member, err := s.isMember(tx, user.ID, *companyID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.InvalidArgument("company is not associated with this user")
	}

	if err := tx.Model(user).Update("primary_company_id", *companyID).Error; err != nil {
		return apperrors.Internal("could not update primary company")
	}

	user.PrimaryCompanyID = companyID
	return nil
}

// ReassignCompanyUsers replaces the full member set of a company. Users
// dropped from the set lose the company as their primary BEFORE the new
// association set is committed, so no window exists in which a primary
// pointer references a stale association.
func (s *MembershipService) ReassignCompanyUsers(tx *gorm.DB, company *models.Company, newUserIDs []uint) error {
	users, err := s.resolveUsers(tx, newUserIDs)
	if err != nil {
		return err
	}

	clearQuery := tx.Model(&models.User{}).Where("primary_company_id = ?", company.ID)
	if len(newUserIDs) > 0 {
		clearQuery = clearQuery.Where("id NOT IN ?", newUserIDs)
	}
	if err := clearQuery.Update("primary_company_id", nil).Error; err != nil {
		return apperrors.Internal("could not clear primary company pointers")
	}

	if err := tx.Model(company).Association("Users").Replace(users); err != nil {
		return apperrors.Internal("could not update company members")
	}

	return nil
}

// resolveCompanies loads all companies for the given ids and fails with the
// list of missing ids when any are absent.
func (s *MembershipService) resolveCompanies(tx *gorm.DB, companyIDs []uint) ([]models.Company, error) {
	if len(companyIDs) == 0 {
		return []models.Company{}, nil
	}

	var companies []models.Company
	if err := tx.Where("id IN ?", companyIDs).Find(&companies).Error; err != nil {
		return nil, apperrors.Internal("could not load companies")
	}

	if missing := missingIDs(companyIDs, companyIDSet(companies)); len(missing) > 0 {
		return nil, apperrors.NotFound("companies not found").WithDetail("missing_ids", missing)
	}

	return companies, nil
}

// resolveUsers loads all users for the given ids and fails with the list of
// missing ids when any are absent.
func (s *MembershipService) resolveUsers(tx *gorm.DB, userIDs []uint) ([]models.User, error) {
	if len(userIDs) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := tx.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, apperrors.Internal("could not load users")
	}

	found := make(map[uint]bool, len(users))
	for _, user := range users {
		found[user.ID] = true
	}

	if missing := missingIDs(userIDs, found); len(missing) > 0 {
		return nil, apperrors.NotFound("users not found").WithDetail("missing_ids", missing)
	}

	return users, nil
}

// checkAdminScope restricts ADMIN actors to companies from their own
// membership set. Superadmins are unrestricted.
func (s *MembershipService) checkAdminScope(tx *gorm.DB, actor *models.User, companyIDs []uint) error {
	if actor == nil || actor.RoleID != models.RoleAdmin {
		return nil
	}

	for _, companyID := range companyIDs {
		member, err := s.isMember(tx, actor.ID, companyID)
		if err != nil {
			return err
		}
		if !member {
			return apperrors.Forbidden("admins can only assign companies they belong to")
		}
	}

	return nil
}

// isMember checks the join relation directly instead of trusting whatever
// happens to be loaded on the struct.
func (s *MembershipService) isMember(tx *gorm.DB, userID, companyID uint) (bool, error) {
	var count int64
	if err := tx.Table("user_companies").
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Count(&count).Error; err != nil {
		return false, apperrors.Internal("could not check company membership")
	}
	return count > 0, nil
}

func (s *MembershipService) clearPrimary(tx *gorm.DB, user *models.User) error {
	if err := tx.Model(user).Update("primary_company_id", nil).Error; err != nil {
		return apperrors.Internal("could not clear primary company")
	}
	user.PrimaryCompanyID = nil
	return nil
}

func companyIDSet(companies []models.Company) map[uint]bool {
	set := make(map[uint]bool, len(companies))
	for _, company := range companies {
		set[company.ID] = true
	}
	return set
}

func missingIDs(requested []uint, found map[uint]bool) []uint {
	var missing []uint
	seen := make(map[uint]bool, len(requested))
	for _, id := range requested {
		if !found[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
