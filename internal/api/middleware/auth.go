package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth.
const (
	ContextSubject = "subject"
	ContextRole    = "role"
	// ContextCarrier scopes a carrier token to the numbers of one carrier.
	ContextCarrier = "carrier_id"
)

// Auth validates the HS256 bearer token and injects its claims into context.
// Tokens are issued elsewhere; only the subject, role and carrier claims are read.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role, _ := claims["role"].(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no role")
			}
			subject, _ := claims.GetSubject()

			c.Set(ContextSubject, subject)
			c.Set(ContextRole, role)
			if carrierID, ok := claims["carrier"].(string); ok {
				c.Set(ContextCarrier, carrierID)
			}

			return next(c)
		}
	}
}
