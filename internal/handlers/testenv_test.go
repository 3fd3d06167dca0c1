package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/hash"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/service"
	"github.com/prasowlabs/moi-kanakku/internal/session"
	"github.com/prasowlabs/moi-kanakku/internal/token"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
	Perms  *service.PermissionService

	Auth     *AuthHandler
	User     *UserHandler
	Employee *EmployeeHandler
	Moi      *MoiHandler
	Ledger   *LedgerHandler
	Function *FunctionHandler
	Person   *PersonHandler

	nextEmployeeID int64
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	tokens := token.NewService(session.NewMemoryStore(), []byte("test-secret"), token.DefaultTTL)
	perms := &service.PermissionService{DB: db}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Tokens:   tokens,
		Perms:    perms,
		Auth:     &AuthHandler{DB: db, Tokens: tokens},
		User:     &UserHandler{DB: db, Tokens: tokens},
		Employee: &EmployeeHandler{DB: db, Perms: perms},
		Moi:      &MoiHandler{DB: db, Perms: perms},
		Ledger:   &LedgerHandler{DB: db},
		Function: &FunctionHandler{DB: db, Perms: perms},
		Person:   &PersonHandler{DB: db},

		nextEmployeeID: 5000,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asPrincipal marks the context as authenticated, the way the bearer
// middleware does after a successful verify.
func asPrincipal(c echo.Context, id int64) {
	c.Set("userID", id)
}

func (env *testEnv) createUser(t *testing.T, email, mobile, password string) *models.User {
	t.Helper()
	passwordHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	user := models.User{
		FullName:     "Test User",
		Email:        email,
		Mobile:       mobile,
		PasswordHash: passwordHash,
		Status:       models.StatusActive,
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

// createEmployee assigns ids from a range of their own. Both tables
// auto-increment from 1, and the ordered lookup hands a colliding id to
// the user table, so fixtures must never share ids across tables.
func (env *testEnv) createEmployee(t *testing.T, email, mobile, password, status string) *models.Employee {
	t.Helper()
	passwordHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	env.nextEmployeeID++
	employee := models.Employee{
		ID:           env.nextEmployeeID,
		FullName:     "Test Employee",
		Email:        email,
		Mobile:       mobile,
		PasswordHash: passwordHash,
		Status:       status,
	}
	require.NoError(t, env.DB.Create(&employee).Error)
	return &employee
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]interface{}) {
	t.Helper()
	var resp struct {
		ResponseType  string          `json:"responseType"`
		ResponseValue json.RawMessage `json:"responseValue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	value := map[string]interface{}{}
	// List payloads are arrays; callers that care decode ResponseValue
	// themselves.
	_ = json.Unmarshal(resp.ResponseValue, &value)
	return resp.ResponseType, value
}
