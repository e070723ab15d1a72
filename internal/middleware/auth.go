package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Session.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// Session recovers the caller's identity from a bearer token issued by the
// platform's auth service. Resolution is best-effort: handlers that can work
// anonymously still do, and ones that need an address fall back to an
// explicit user_id in the request body.
func Session(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			tokenStr, found := strings.CutPrefix(auth, "Bearer ")
			if !found || tokenStr == "" {
				return next(c)
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				return next(c)
			}

			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if sub, _ := claims["sub"].(string); sub != "" {
					c.Set(ContextUserID, sub)
				}
				if email, _ := claims["email"].(string); email != "" {
					c.Set(ContextEmail, email)
				}
			}

			return next(c)
		}
	}
}
