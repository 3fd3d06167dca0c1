// Package respond writes the fixed response envelope every endpoint uses:
// {"responseType":"S","responseValue":...} on success and
// {"responseType":"F","responseValue":{"message":...}} on failure.
package respond

import (
	"github.com/labstack/echo/v4"
)

type Envelope struct {
	ResponseType  string      `json:"responseType"`
	Count         *int        `json:"count,omitempty"`
	ResponseValue interface{} `json:"responseValue"`
}

func Success(c echo.Context, code int, value interface{}) error {
	return c.JSON(code, Envelope{ResponseType: "S", ResponseValue: value})
}

// SuccessList adds the count field list endpoints carry.
func SuccessList(c echo.Context, code int, count int, value interface{}) error {
	return c.JSON(code, Envelope{ResponseType: "S", Count: &count, ResponseValue: value})
}

func Message(c echo.Context, code int, message string) error {
	return Success(c, code, map[string]string{"message": message})
}

func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{
		ResponseType:  "F",
		ResponseValue: map[string]string{"message": message},
	})
}

func Error(c echo.Context, err error) error {
	return Fail(c, 500, err.Error())
}
