package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleEmployee Role = "employee"
)

// Principal is the resolved identity behind an authenticated id. Ids are
// unique per table but not across tables, so resolution is an ordered
// lookup: the user table wins, the employee table is the fallback. Callers
// must never probe the tables directly.
type Principal struct {
	ID       int64
	Role     Role
	User     *models.User
	Employee *models.Employee
}

// ErrPrincipalNotFound is a business miss (404), not a credential problem.
var ErrPrincipalNotFound = errors.New("the specified user does not exist")

// ResolvePrincipal looks the id up as a user first, then as an active
// employee.
func ResolvePrincipal(db *gorm.DB, id int64) (*Principal, error) {
	var user models.User
	err := db.Where("um_id = ?", id).First(&user).Error
	if err == nil {
		return &Principal{ID: user.ID, Role: RoleUser, User: &user}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var employee models.Employee
	err = db.Where("em_id = ? AND em_status = ?", id, models.StatusActive).First(&employee).Error
	if err == nil {
		return &Principal{ID: employee.ID, Role: RoleEmployee, Employee: &employee}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, ErrPrincipalNotFound
}

// IsAdminPrincipal reports whether the id carries the admin capability:
// either an active row in the admin table or a user row flagged admin.
// Admin is orthogonal to the base role.
func IsAdminPrincipal(db *gorm.DB, id int64) (bool, error) {
	var count int64
	if err := db.Model(&models.AdminAccount{}).
		Where("id = ? AND active = ?", id, models.StatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Model(&models.User{}).
		Where("um_id = ? AND um_is_admin = ? AND um_status = ?", id, true, models.StatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveEmployee returns the employee row for an id when the ordered
// lookup resolves it to an active employee. An id that matches a user
// row is a user everywhere, never an employee, so role decisions stay
// consistent across routes. Inactive employees resolve to nothing
// regardless of grants.
func ActiveEmployee(db *gorm.DB, id int64) (*models.Employee, error) {
	principal, err := ResolvePrincipal(db, id)
	if errors.Is(err, ErrPrincipalNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if principal.Role != RoleEmployee {
		return nil, nil
	}
	return principal.Employee, nil
}
