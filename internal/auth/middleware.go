package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/FlorianTh2/homepageBackend/internal/apperrors"
)

const bearerPrefix = "Bearer "

// Middleware authenticates requests that carry an Authorization header and
// stores the user id in the request context. Requests without the header
// continue anonymously; a header with an invalid token is rejected.
func Middleware(v *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				return apperrors.Unauthenticated("authorization header must use the Bearer scheme")
			}

			userID, err := v.Verify(header[len(bearerPrefix):])
			if err != nil {
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithUserID(req.Context(), userID)))
			return next(c)
		}
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UserID(c) == "" {
			return apperrors.Unauthenticated("authentication required")
		}
		return next(c)
	}
}
