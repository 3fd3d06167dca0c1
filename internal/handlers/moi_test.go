package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/models"
)

func (env *testEnv) createFunction(t *testing.T, userID int64) *models.Function {
	t.Helper()
	fn := models.Function{
		UserID: userID,
		Name:   "Wedding",
		Date:   time.Now().AddDate(0, 1, 0),
		Active: models.StatusActive,
	}
	require.NoError(t, env.DB.Create(&fn).Error)
	return &fn
}

func moiPayload(userID, functionID int64) map[string]interface{} {
	return map[string]interface{}{
		"userId":     userID,
		"functionId": functionID,
		"firstName":  "Kumar",
		"cityName":   "Madurai",
		"amount":     501.0,
	}
}

func TestMoiCreateByUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	fn := env.createFunction(t, user.ID)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi/create", moiPayload(user.ID, fn.ID))
	asPrincipal(c, user.ID)
	require.NoError(t, env.Moi.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.MoiRecord{}).
		Where("mr_um_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

// An employee without a grant is rejected; a wildcard MOI_INSERT grant
// then covers any function.
func TestMoiCreateByEmployeePermission(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)
	fn := env.createFunction(t, user.ID)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi/create", moiPayload(user.ID, fn.ID))
	asPrincipal(c, employee.ID)
	require.NoError(t, env.Moi.Create(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	respType, value := decodeEnvelope(t, rec)
	require.Equal(t, "F", respType)
	require.Contains(t, value["message"], "அனுமதி இல்லை")

	_, err := env.Perms.Assign(employee.ID, nil, models.PermissionMoiInsert, user.ID)
	require.NoError(t, err)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/moi/create", moiPayload(user.ID, fn.ID))
	asPrincipal(c2, employee.ID)
	require.NoError(t, env.Moi.Create(c2))
	require.Equal(t, http.StatusOK, rec2.Code)
}

// A grant scoped to one function must not open others.
func TestMoiCreateScopedGrant(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)
	granted := env.createFunction(t, user.ID)
	other := env.createFunction(t, user.ID)

	_, err := env.Perms.Assign(employee.ID, &granted.ID, models.PermissionMoiInsert, user.ID)
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi/create", moiPayload(user.ID, granted.ID))
	asPrincipal(c, employee.ID)
	require.NoError(t, env.Moi.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/moi/create", moiPayload(user.ID, other.ID))
	asPrincipal(c2, employee.ID)
	require.NoError(t, env.Moi.Create(c2))
	require.Equal(t, http.StatusForbidden, rec2.Code)
}

// Employees never delete, even with every grant in place. The owner can.
func TestMoiDeleteEmployeeBan(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)
	fn := env.createFunction(t, user.ID)
	_, err := env.Perms.Assign(employee.ID, nil, models.PermissionMoiInsert, user.ID)
	require.NoError(t, err)

	record := models.MoiRecord{UserID: user.ID, FunctionID: fn.ID, FirstName: "Kumar", Active: models.StatusActive}
	require.NoError(t, env.DB.Create(&record).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/apis/moi/delete/"+fmt.Sprint(record.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(record.ID))
	asPrincipal(c, employee.ID)
	require.NoError(t, env.Moi.Delete(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	respType, value := decodeEnvelope(t, rec)
	require.Equal(t, "F", respType)
	require.Equal(t, "பணியாளர்களுக்கு நீக்கும் அனுமதி இல்லை. நிர்வாகியைத் தொடர்பு கொள்ளவும்.", value["message"])

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/apis/moi/delete/"+fmt.Sprint(record.ID), nil)
	c2.SetParamNames("id")
	c2.SetParamValues(fmt.Sprint(record.ID))
	asPrincipal(c2, user.ID)
	require.NoError(t, env.Moi.Delete(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.MoiRecord{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

// The delete ban stops employees only: behind the admin gate, a user
// flagged um_is_admin removes the same record an employee was refused.
func TestMoiDeleteByAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", "9876543210", "secret123")
	require.NoError(t, env.DB.Model(&models.User{}).
		Where("um_id = ?", admin.ID).Update("um_is_admin", true).Error)
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)
	fn := env.createFunction(t, admin.ID)

	record := models.MoiRecord{UserID: admin.ID, FunctionID: fn.ID, FirstName: "Kumar", Active: models.StatusActive}
	require.NoError(t, env.DB.Create(&record).Error)

	mw := &auth.Middleware{DB: env.DB, Tokens: env.Tokens, Perms: env.Perms}
	del := mw.IsAdmin(env.Moi.Delete)

	rec, c := env.doJSONRequest(http.MethodGet, "/apis/moi/delete/"+fmt.Sprint(record.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(record.ID))
	asPrincipal(c, employee.ID)
	require.NoError(t, del(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/apis/moi/delete/"+fmt.Sprint(record.ID), nil)
	c2.SetParamNames("id")
	c2.SetParamValues(fmt.Sprint(record.ID))
	asPrincipal(c2, admin.ID)
	require.NoError(t, del(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.MoiRecord{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

// An id present in both tables resolves as a user on every route: the
// owner is neither mistaken for an employee on delete nor forced
// through the grant check on create.
func TestMoiRoleConsistentOnIDCollision(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	employee := env.createEmployee(t, "emp@example.com", "9000000001", "secret123", models.StatusActive)
	require.NoError(t, env.DB.Model(&models.Employee{}).
		Where("em_id = ?", employee.ID).Update("em_id", user.ID).Error)
	fn := env.createFunction(t, user.ID)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi/create", moiPayload(user.ID, fn.ID))
	asPrincipal(c, user.ID)
	require.NoError(t, env.Moi.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var record models.MoiRecord
	require.NoError(t, env.DB.Where("mr_um_id = ?", user.ID).First(&record).Error)

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/apis/moi/delete/"+fmt.Sprint(record.ID), nil)
	c2.SetParamNames("id")
	c2.SetParamValues(fmt.Sprint(record.ID))
	asPrincipal(c2, user.ID)
	require.NoError(t, env.Moi.Delete(c2))
	require.Equal(t, http.StatusOK, rec2.Code)
}

func TestMoiListUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi/list", map[string]interface{}{"userId": 999})
	require.NoError(t, env.Moi.List(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	respType, value := decodeEnvelope(t, rec)
	require.Equal(t, "F", respType)
	require.Equal(t, "குறிப்பிடப்பட்ட பயனர் இல்லை!", value["message"])
}
