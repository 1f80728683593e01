package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hoanvu/room-rental/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's claims into the request context under the keys
// "user_id", "email" and "role". The secret must be the access-token
// secret used at issuance; refresh tokens are rejected here because they
// are signed with a different secret.
//
// Expired and invalid tokens both produce 401 but with distinct bodies:
// a client holding an expired token should attempt a refresh, while an
// invalid token means re-authentication.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(authz, "Bearer ")

			claims, err := utils.ParseAccessToken(raw, secret)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
