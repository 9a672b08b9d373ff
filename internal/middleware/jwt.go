package middleware // reusable HTTP middleware for the /v1 API

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
    ctxSubject = "subject"
    ctxRole    = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// signed with secret and stores its sub and role claims in the context
// as strings.
func JWTAuth(secret string) echo.MiddlewareFunc {
    keyFunc := func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            tok, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), keyFunc,
                jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            sub, _ := claims["sub"].(string)
            role, _ := claims["role"].(string)
            c.Set(ctxSubject, sub)
            c.Set(ctxRole, role)
            return next(c)
        }
    }
}
