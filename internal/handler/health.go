package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// Health is a liveness probe.  It returns a plain text "ok".
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Ready reports whether the database, and Redis when configured, answer
// a ping.
func Ready(db *sql.DB, rdb *redis.Client) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        status := echo.Map{"db": "ok"}
        code := http.StatusOK
        if err := db.PingContext(ctx); err != nil {
            status["db"] = err.Error()
            code = http.StatusServiceUnavailable
        }
        if rdb != nil {
            status["redis"] = "ok"
            if err := rdb.Ping(ctx).Err(); err != nil {
                status["redis"] = err.Error()
                code = http.StatusServiceUnavailable
            }
        }
        return c.JSON(code, status)
    }
}
