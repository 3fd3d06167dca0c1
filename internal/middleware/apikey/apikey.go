// Package apikey guards the unauthenticated registration/reset surface with
// a shared secret header and an IP rate limit.
package apikey

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/prasowlabs/moi-kanakku/internal/respond"
)

// Validate requires the X-API-Key header to match the configured secret.
func Validate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return respond.Fail(c, http.StatusInternalServerError, "Server configuration error.")
			}
			key := c.Request().Header.Get("X-API-Key")
			if key == "" {
				return respond.Fail(c, http.StatusUnauthorized, "API key is required. Please include X-API-Key header.")
			}
			if key != secret {
				return respond.Fail(c, http.StatusForbidden, "Invalid API key. Access denied.")
			}
			return next(c)
		}
	}
}

// RegistrationLimiter caps registration attempts per IP. 5 requests per 15
// minutes, matching the legacy limiter.
func RegistrationLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(5.0 / (15 * 60))),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return respond.Fail(c, http.StatusForbidden, "Unable to identify client.")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return respond.Fail(c, http.StatusTooManyRequests,
				"Too many registration attempts from this IP. Please try again after 15 minutes.")
		},
	})
}
