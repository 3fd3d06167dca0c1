package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

var (
	ErrGrantNotFound  = errors.New("permission not found")
	ErrGrantCancelled = errors.New("permission already cancelled")
)

// PermissionService implements the grant checks for delegated employees.
// Checks are existence-based over active grants; duplicate grants are legal
// and harmless.
type PermissionService struct {
	DB *gorm.DB
}

// HasPermission reports whether the employee holds an active grant of the
// given type for the function scope. A nil functionID asks about the
// wildcard scope and matches wildcard grants only; a concrete functionID is
// satisfied by a grant for that function or by any wildcard grant (wildcard
// authorizes a strict superset). Fails closed: any error denies.
func (s *PermissionService) HasPermission(employeeID int64, functionID *int64, permissionType string) (bool, error) {
	q := s.DB.Model(&models.PermissionGrant{}).
		Where("ep_em_id = ? AND ep_status = ? AND ep_permission_type = ?",
			employeeID, models.StatusActive, permissionType)

	if functionID == nil {
		q = q.Where("ep_function_id IS NULL")
	} else {
		q = q.Where("ep_function_id = ? OR ep_function_id IS NULL", *functionID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Assign always inserts a fresh active grant; it never dedupes or
// reactivates a cancelled row.
func (s *PermissionService) Assign(employeeID int64, functionID *int64, permissionType string, assignedBy int64) (*models.PermissionGrant, error) {
	grant := models.PermissionGrant{
		EmployeeID:     employeeID,
		FunctionID:     functionID,
		PermissionType: permissionType,
		AssignedBy:     assignedBy,
		Status:         models.StatusActive,
	}
	if err := s.DB.Create(&grant).Error; err != nil {
		return nil, err
	}
	return &grant, nil
}

// Cancel flips a grant to cancelled and stamps the audit columns.
// Cancellation is one-way; re-granting requires a new Assign.
func (s *PermissionService) Cancel(grantID, cancelledBy int64) error {
	var grant models.PermissionGrant
	if err := s.DB.Where("ep_id = ?", grantID).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGrantNotFound
		}
		return err
	}
	if grant.Status == models.StatusInactive {
		return ErrGrantCancelled
	}
	now := time.Now()
	return s.DB.Model(&models.PermissionGrant{}).
		Where("ep_id = ?", grantID).
		Updates(map[string]interface{}{
			"ep_status":       models.StatusInactive,
			"ep_cancelled_dt": now,
			"ep_cancelled_by": cancelledBy,
		}).Error
}

func (s *PermissionService) GrantByID(grantID int64) (*models.PermissionGrant, error) {
	var grant models.PermissionGrant
	if err := s.DB.Where("ep_id = ?", grantID).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrantNotFound
		}
		return nil, err
	}
	return &grant, nil
}

// EmployeeGrants lists the active grants for one employee, newest first.
func (s *PermissionService) EmployeeGrants(employeeID int64) ([]models.PermissionGrant, error) {
	var grants []models.PermissionGrant
	err := s.DB.
		Where("ep_em_id = ? AND ep_status = ?", employeeID, models.StatusActive).
		Order("ep_assigned_dt DESC").
		Find(&grants).Error
	return grants, err
}

// AllGrants lists every active grant for the admin view.
func (s *PermissionService) AllGrants() ([]models.PermissionGrant, error) {
	var grants []models.PermissionGrant
	err := s.DB.
		Where("ep_status = ?", models.StatusActive).
		Order("ep_assigned_dt DESC").
		Find(&grants).Error
	return grants, err
}
