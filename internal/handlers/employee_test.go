package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

func TestEmployeeCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/employee/create", map[string]string{
		"name": "Ravi", "email": "not-an-email", "mobile": "9000000001", "password": "secret123",
	})
	require.NoError(t, env.Employee.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/employee/create", map[string]string{
		"name": "Ravi", "email": "ravi@example.com", "mobile": "12345", "password": "secret123",
	})
	require.NoError(t, env.Employee.Create(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)

	rec3, c3 := env.doJSONRequest(http.MethodPost, "/apis/employee/create", map[string]string{
		"name": "Ravi", "email": "ravi@example.com", "mobile": "9000000001", "password": "secret123",
	})
	require.NoError(t, env.Employee.Create(c3))
	require.Equal(t, http.StatusCreated, rec3.Code)

	var employee models.Employee
	require.NoError(t, env.DB.Where("em_email = ?", "ravi@example.com").First(&employee).Error)
	require.Equal(t, models.StatusActive, employee.Status)
	require.NotEqual(t, "secret123", employee.PasswordHash)
}

func TestAssignPermissionToInactiveEmployee(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusInactive)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/employee/permission/assign", map[string]interface{}{
		"employeeId":     employee.ID,
		"permissionType": models.PermissionMoiInsert,
	})
	asPrincipal(c, user.ID)
	require.NoError(t, env.Employee.AssignPermission(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// A grant scoped to one function verifies the function row before it
// is written; an unknown function id is a 404, not a grant.
func TestAssignFunctionScopedPermission(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)
	fn := env.createFunction(t, user.ID)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/employee/permission/assign", map[string]interface{}{
		"employeeId":     employee.ID,
		"functionId":     fn.ID,
		"permissionType": models.PermissionMoiInsert,
	})
	asPrincipal(c, user.ID)
	require.NoError(t, env.Employee.AssignPermission(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	allowed, err := env.Perms.HasPermission(employee.ID, &fn.ID, models.PermissionMoiInsert)
	require.NoError(t, err)
	require.True(t, allowed)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/employee/permission/assign", map[string]interface{}{
		"employeeId":     employee.ID,
		"functionId":     9999,
		"permissionType": models.PermissionMoiInsert,
	})
	asPrincipal(c2, user.ID)
	require.NoError(t, env.Employee.AssignPermission(c2))
	require.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestCancelPermissionIsOneWay(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)

	grant, err := env.Perms.Assign(employee.ID, nil, models.PermissionMoiInsert, user.ID)
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/employee/permission/cancel",
		map[string]interface{}{"permissionId": grant.ID})
	asPrincipal(c, user.ID)
	require.NoError(t, env.Employee.CancelPermission(c))
	require.Equal(t, http.StatusOK, rec.Code)

	allowed, err := env.Perms.HasPermission(employee.ID, nil, models.PermissionMoiInsert)
	require.NoError(t, err)
	require.False(t, allowed)

	// A second cancel of the same grant is rejected, not idempotent.
	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/employee/permission/cancel",
		map[string]interface{}{"permissionId": grant.ID})
	asPrincipal(c2, user.ID)
	require.NoError(t, env.Employee.CancelPermission(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)

	stored, err := env.Perms.GrantByID(grant.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInactive, stored.Status)
	require.NotNil(t, stored.CancelledAt)
}

func TestEmployeeStatusFlip(t *testing.T) {
	env := newTestEnv(t)
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/employee/status", map[string]interface{}{
		"id": employee.ID, "status": "X",
	})
	require.NoError(t, env.Employee.UpdateStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/employee/status", map[string]interface{}{
		"id": employee.ID, "status": models.StatusInactive,
	})
	require.NoError(t, env.Employee.UpdateStatus(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var stored models.Employee
	require.NoError(t, env.DB.First(&stored, employee.ID).Error)
	require.Equal(t, models.StatusInactive, stored.Status)
}
