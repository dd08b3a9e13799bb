package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/organconnect/organconnect/backend/internal/models"
)

const (
	claimsKey    = "user"
	principalKey = "principal"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	ParseToken(raw string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
func JWTAuthMiddleware(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			claims, err := parser.ParseToken(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalJWT resolves the principal when a valid bearer token is sent and
// treats the caller as anonymous otherwise. A malformed or expired token is
// still rejected so that a stale login is not silently downgraded.
func OptionalJWT(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}
			if raw == "" {
				c.Set(principalKey, models.Principal{})
				return next(c)
			}
			claims, err := parser.ParseToken(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", nil
	}
	// Expecting "Bearer <token>"
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}

func setClaims(c echo.Context, claims *models.JwtCustomClaims) {
	c.Set(claimsKey, claims)
	c.Set(principalKey, models.Principal{UserID: claims.UserID, Role: claims.Role})
}

// Claims returns the claims stored by the JWT middleware, or nil.
func Claims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(claimsKey).(*models.JwtCustomClaims)
	return claims
}

// Principal returns the caller of the request; anonymous when no token was
// sent.
func Principal(c echo.Context) models.Principal {
	p, _ := c.Get(principalKey).(models.Principal)
	return p
}

// RequireRole must run after JWTAuthMiddleware and rejects callers whose
// token carries a different role.
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Principal(c).Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
