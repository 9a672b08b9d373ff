package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/flight-price-watch/internal/config"
    "github.com/iliyamo/flight-price-watch/internal/utils"
)

func newRedis(t *testing.T) *redis.Client {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return rdb
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestJWTAuthAndRole(t *testing.T) {
    e := echo.New()
    g := e.Group("/v1", JWTAuth("secret"), RequireRole(utils.RoleOperator))
    g.GET("/who", func(c echo.Context) error { return c.String(http.StatusOK, subject(c)) })

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/who", nil))
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("no token: status %d", rec.Code)
    }

    req := httptest.NewRequest(http.MethodGet, "/v1/who", nil)
    req.Header.Set("Authorization", "Bearer not-a-jwt")
    if rec := serve(e, req); rec.Code != http.StatusUnauthorized {
        t.Fatalf("garbage token: status %d", rec.Code)
    }

    other, _ := utils.NewAccessToken("secret", "someone", "VIEWER", 5)
    req = httptest.NewRequest(http.MethodGet, "/v1/who", nil)
    req.Header.Set("Authorization", "Bearer "+other.Token)
    if rec := serve(e, req); rec.Code != http.StatusForbidden {
        t.Fatalf("wrong role: status %d", rec.Code)
    }

    wrongKey, _ := utils.NewAccessToken("other-secret", "operator", utils.RoleOperator, 5)
    req = httptest.NewRequest(http.MethodGet, "/v1/who", nil)
    req.Header.Set("Authorization", "Bearer "+wrongKey.Token)
    if rec := serve(e, req); rec.Code != http.StatusUnauthorized {
        t.Fatalf("wrong key: status %d", rec.Code)
    }

    ok, _ := utils.NewAccessToken("secret", "operator", utils.RoleOperator, 5)
    req = httptest.NewRequest(http.MethodGet, "/v1/who", nil)
    req.Header.Set("Authorization", "Bearer "+ok.Token)
    rec = serve(e, req)
    if rec.Code != http.StatusOK || rec.Body.String() != "operator" {
        t.Fatalf("valid token: status %d body %q", rec.Code, rec.Body.String())
    }
}

func TestRedisCacheHitAndBypass(t *testing.T) {
    rdb := newRedis(t)
    cfg := config.CacheConfig{
        Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute,
        KeyStrategy: "route_query", Prefix: "test:cache", MaxBodyBytes: 1 << 10,
    }
    calls := 0
    e := echo.New()
    e.GET("/v1/typical-prices", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusOK, echo.Map{"origin": c.QueryParam("origin"), "n": calls})
    }, NewRedisCache(cfg, rdb))

    first := serve(e, httptest.NewRequest(http.MethodGet, "/v1/typical-prices?origin=SFO", nil))
    if first.Header().Get("X-Cache") != "MISS" {
        t.Fatalf("first request X-Cache = %q", first.Header().Get("X-Cache"))
    }
    second := serve(e, httptest.NewRequest(http.MethodGet, "/v1/typical-prices?origin=SFO", nil))
    if second.Header().Get("X-Cache") != "HIT" || second.Body.String() != first.Body.String() {
        t.Fatalf("second request not served from cache: %q %q", second.Header().Get("X-Cache"), second.Body.String())
    }
    if second.Header().Get(echo.HeaderContentType) != echo.MIMEApplicationJSON {
        t.Fatalf("content type not replayed: %q", second.Header().Get(echo.HeaderContentType))
    }
    if calls != 1 {
        t.Fatalf("handler calls = %d, want 1", calls)
    }

    other := serve(e, httptest.NewRequest(http.MethodGet, "/v1/typical-prices?origin=LAX", nil))
    if other.Header().Get("X-Cache") != "MISS" {
        t.Fatalf("different query must miss")
    }

    req := httptest.NewRequest(http.MethodGet, "/v1/typical-prices?origin=SFO", nil)
    req.Header.Set("Cache-Control", "no-cache")
    if rec := serve(e, req); rec.Header().Get("X-Cache") != "MISS" || calls != 3 {
        t.Fatalf("no-cache request was served from cache")
    }
}

func TestRedisCacheSkipsErrors(t *testing.T) {
    rdb := newRedis(t)
    cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "test:cache"}
    calls := 0
    e := echo.New()
    e.GET("/x", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }, NewRedisCache(cfg, rdb))

    serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
    serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
    if calls != 2 {
        t.Fatalf("error responses must not be cached, calls = %d", calls)
    }
}

func TestTokenBucketBlocks(t *testing.T) {
    rdb := newRedis(t)
    cfg := config.RateLimitConfig{
        Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
        TTL: 2 * time.Hour, KeyStrategy: "ip_route", Prefix: "test:rl",
    }
    e := echo.New()
    e.GET("/v1/watches", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, rdb))

    for i := 0; i < 2; i++ {
        if rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/watches", nil)); rec.Code != http.StatusOK {
            t.Fatalf("request %d: status %d", i, rec.Code)
        }
    }
    rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/watches", nil))
    if rec.Code != http.StatusTooManyRequests {
        t.Fatalf("third request: status %d", rec.Code)
    }
    if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
        t.Fatalf("missing rate limit headers: %v", rec.Header())
    }
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
    e := echo.New()
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
        NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
        NewRedisCache(config.CacheConfig{Enabled: false}, nil))
    if rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil)); rec.Code != http.StatusNoContent {
        t.Fatalf("status %d", rec.Code)
    }
}
