package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

// PrincipalID returns the authenticated principal id set by Authenticate.
func PrincipalID(c echo.Context) (int64, bool) {
	id, ok := c.Get(ctxUserID).(int64)
	return id, ok && id > 0
}

// Employee returns the employee attached by IsEmployee.
func Employee(c echo.Context) (*models.Employee, bool) {
	employee, ok := c.Get(ctxEmployee).(*models.Employee)
	return employee, ok
}

// requestFunctionID pulls the function scope out of the request: JSON body
// first, then path param, then query. The body is restored so the handler
// can still bind it.
func requestFunctionID(c echo.Context) *int64 {
	if c.Request().Body != nil && strings.Contains(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		raw, err := io.ReadAll(c.Request().Body)
		if err == nil {
			c.Request().Body = io.NopCloser(bytes.NewReader(raw))
			var body map[string]json.RawMessage
			if json.Unmarshal(raw, &body) == nil {
				if v, ok := body["functionId"]; ok {
					if id := parseFunctionID(string(v)); id != nil {
						return id
					}
				}
				if v, ok := body["function"]; ok {
					if id := parseFunctionID(string(v)); id != nil {
						return id
					}
				}
			}
		}
	}
	if id := parseFunctionID(c.Param("functionId")); id != nil {
		return id
	}
	return parseFunctionID(c.QueryParam("functionId"))
}

func parseFunctionID(s string) *int64 {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" || s == "null" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
