package middleware

import "github.com/labstack/echo/v4"

// subject returns the authenticated token subject, or "anon" when the
// request carried no token (auth disabled or a public route).
func subject(c echo.Context) string {
    if s, ok := c.Get(ctxSubject).(string); ok && s != "" {
        return s
    }
    return "anon"
}

// passthrough is the middleware used when a feature is switched off.
func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
