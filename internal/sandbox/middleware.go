package sandbox

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/internhub/portal-client/internal/core/domain"
)

// Context keys set by requireAuth.
const (
	ctxUserID   = "userID"
	ctxUsername = "username"
	ctxRole     = "role"
)

// requireAuth validates the bearer token and injects the caller's identity
// into the echo context.
func requireAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				unauthorizedTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthorizedTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				unauthorizedTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			id, err := strconv.ParseInt(sub, 10, 64)
			if err != nil {
				unauthorizedTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role, _ := claims["role"].(string)
			username, _ := claims["username"].(string)
			c.Set(ctxUserID, id)
			c.Set(ctxUsername, username)
			c.Set(ctxRole, domain.Role(role))

			return next(c)
		}
	}
}

// requireRole gates a route group to one role. Runs after requireAuth.
func requireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if got, _ := c.Get(ctxRole).(domain.Role); got != role {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}

func callerID(c echo.Context) int64 {
	id, _ := c.Get(ctxUserID).(int64)
	return id
}

func callerRole(c echo.Context) domain.Role {
	role, _ := c.Get(ctxRole).(domain.Role)
	return role
}
