package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createEmployee(t *testing.T, db *gorm.DB, status string) *models.Employee {
	t.Helper()
	employee := models.Employee{
		FullName:     "Emp",
		Email:        "emp@example.com",
		Mobile:       "9000000001",
		PasswordHash: "x",
		Status:       status,
	}
	require.NoError(t, db.Create(&employee).Error)
	return &employee
}

func TestWildcardGrantCoversEveryFunction(t *testing.T) {
	db := newTestDB(t)
	svc := &PermissionService{DB: db}
	employee := createEmployee(t, db, models.StatusActive)

	_, err := svc.Assign(employee.ID, nil, models.PermissionMoiInsert, 1)
	require.NoError(t, err)

	fnID := int64(123)
	for _, scope := range []*int64{nil, &fnID} {
		allowed, err := svc.HasPermission(employee.ID, scope, models.PermissionMoiInsert)
		require.NoError(t, err)
		require.True(t, allowed)
	}

	// Wrong permission type is never covered.
	allowed, err := svc.HasPermission(employee.ID, nil, models.PermissionFunctionCreate)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestScopedGrantDoesNotWiden(t *testing.T) {
	db := newTestDB(t)
	svc := &PermissionService{DB: db}
	employee := createEmployee(t, db, models.StatusActive)

	granted := int64(10)
	_, err := svc.Assign(employee.ID, &granted, models.PermissionMoiInsert, 1)
	require.NoError(t, err)

	allowed, err := svc.HasPermission(employee.ID, &granted, models.PermissionMoiInsert)
	require.NoError(t, err)
	require.True(t, allowed)

	other := int64(11)
	allowed, err = svc.HasPermission(employee.ID, &other, models.PermissionMoiInsert)
	require.NoError(t, err)
	require.False(t, allowed)

	// A scoped grant does not satisfy the wildcard scope.
	allowed, err = svc.HasPermission(employee.ID, nil, models.PermissionMoiInsert)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestCancelledGrantStopsAuthorizing(t *testing.T) {
	db := newTestDB(t)
	svc := &PermissionService{DB: db}
	employee := createEmployee(t, db, models.StatusActive)

	grant, err := svc.Assign(employee.ID, nil, models.PermissionMoiInsert, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(grant.ID, 1))

	allowed, err := svc.HasPermission(employee.ID, nil, models.PermissionMoiInsert)
	require.NoError(t, err)
	require.False(t, allowed)

	require.ErrorIs(t, svc.Cancel(grant.ID, 1), ErrGrantCancelled)
	require.ErrorIs(t, svc.Cancel(99999, 1), ErrGrantNotFound)
}

// Duplicate grants are legal; cancelling one leaves the other active.
func TestDuplicateGrantsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := &PermissionService{DB: db}
	employee := createEmployee(t, db, models.StatusActive)

	first, err := svc.Assign(employee.ID, nil, models.PermissionMoiInsert, 1)
	require.NoError(t, err)
	_, err = svc.Assign(employee.ID, nil, models.PermissionMoiInsert, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(first.ID, 1))

	allowed, err := svc.HasPermission(employee.ID, nil, models.PermissionMoiInsert)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestResolvePrincipalOrder(t *testing.T) {
	db := newTestDB(t)

	user := models.User{FullName: "U", Email: "u@example.com", Mobile: "9111111111",
		PasswordHash: "x", Status: models.StatusActive}
	require.NoError(t, db.Create(&user).Error)
	employee := createEmployee(t, db, models.StatusActive)

	p, err := ResolvePrincipal(db, user.ID)
	require.NoError(t, err)
	require.Equal(t, RoleUser, p.Role)
	require.NotNil(t, p.User)

	// The employee table only answers for ids absent from users. With
	// auto-increment both tables start at 1, so force a distinct id.
	require.NoError(t, db.Model(&models.Employee{}).
		Where("em_id = ?", employee.ID).Update("em_id", 1000).Error)
	p, err = ResolvePrincipal(db, 1000)
	require.NoError(t, err)
	require.Equal(t, RoleEmployee, p.Role)
	require.NotNil(t, p.Employee)

	_, err = ResolvePrincipal(db, 5555)
	require.ErrorIs(t, err, ErrPrincipalNotFound)
}

// An id present in both tables is a user on every path: ActiveEmployee
// follows the same ordered lookup as ResolvePrincipal, so it never
// claims the employee row for a colliding id.
func TestActiveEmployeeYieldsToUserRow(t *testing.T) {
	db := newTestDB(t)

	user := models.User{FullName: "U", Email: "u@example.com", Mobile: "9111111111",
		PasswordHash: "x", Status: models.StatusActive}
	require.NoError(t, db.Create(&user).Error)
	employee := createEmployee(t, db, models.StatusActive)
	require.Equal(t, user.ID, employee.ID)

	active, err := ActiveEmployee(db, employee.ID)
	require.NoError(t, err)
	require.Nil(t, active)

	// Moved out of the user range, the same row is an employee again.
	require.NoError(t, db.Model(&models.Employee{}).
		Where("em_id = ?", employee.ID).Update("em_id", 1000).Error)
	active, err = ActiveEmployee(db, 1000)
	require.NoError(t, err)
	require.NotNil(t, active)
}

func TestInactiveEmployeeResolvesToNothing(t *testing.T) {
	db := newTestDB(t)
	employee := createEmployee(t, db, models.StatusInactive)

	_, err := ResolvePrincipal(db, employee.ID)
	require.ErrorIs(t, err, ErrPrincipalNotFound)

	active, err := ActiveEmployee(db, employee.ID)
	require.NoError(t, err)
	require.Nil(t, active)
}

func TestIsAdminPrincipal(t *testing.T) {
	db := newTestDB(t)

	user := models.User{FullName: "U", Email: "u@example.com", Mobile: "9111111111",
		PasswordHash: "x", Status: models.StatusActive}
	require.NoError(t, db.Create(&user).Error)

	admin, err := IsAdminPrincipal(db, user.ID)
	require.NoError(t, err)
	require.False(t, admin)

	require.NoError(t, db.Model(&models.User{}).
		Where("um_id = ?", user.ID).Update("um_is_admin", true).Error)
	admin, err = IsAdminPrincipal(db, user.ID)
	require.NoError(t, err)
	require.True(t, admin)

	account := models.AdminAccount{Username: "root", Password: "x", Active: models.StatusActive}
	require.NoError(t, db.Create(&account).Error)
	admin, err = IsAdminPrincipal(db, account.ID)
	require.NoError(t, err)
	require.True(t, admin)
}
