package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/flight-price-watch/internal/config"
)

// captureWriter tees the response body, up to limit bytes, while it is
// written to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    limit  int64
    over   bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.over {
        if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
            cw.over = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the parts of the request selected by cfg.KeyStrategy.
// Query strings are included by default because typical-price lookups are
// keyed by them.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", c.Path()}
    case "method_route":
        parts = []string{"method", r.Method, "route", c.Path()}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.Query().Encode()}
    default: // route_query
        parts = []string{"route", c.Path(), "q", r.URL.Query().Encode()}
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodeEntry packs: [4 bytes status][4 bytes header length][header JSON][body]
func encodeEntry(status int, header http.Header, body []byte) ([]byte, error) {
    hdr, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8, 8+len(hdr)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
    out = append(out, hdr...)
    return append(out, body...), nil
}

func decodeEntry(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful responses of the configured methods in
// Redis for cfg.TTL.  Hits are replayed with their original headers and an
// X-Cache: HIT header.  Requests sent with Cache-Control: no-cache skip the
// lookup but still refresh the entry.  Redis errors are treated as misses.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passthrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            if !cfg.Methods[strings.ToUpper(req.Method)] {
                return next(c)
            }
            key := cacheKey(cfg, c)

            if !strings.Contains(strings.ToLower(req.Header.Get("Cache-Control")), "no-cache") {
                if bs, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
                    if status, hdr, body, ok := decodeEntry(bs); ok {
                        for k, vals := range hdr {
                            if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
                                continue
                            }
                            for _, v := range vals {
                                c.Response().Header().Add(k, v)
                            }
                        }
                        c.Response().Header().Set("X-Cache", "HIT")
                        c.Response().WriteHeader(status)
                        _, err := c.Response().Write(body)
                        return err
                    }
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.over {
                return nil
            }
            hdr := c.Response().Header().Clone()
            payload, err := encodeEntry(cw.status, hdr, cw.buf.Bytes())
            if err != nil {
                return nil
            }
            ctx, cancel := context.WithTimeout(context.Background(), time.Second)
            defer cancel()
            if err := rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
                c.Logger().Warnf("[cache] store %s failed: %v", key, err)
            }
            return nil
        }
    }
}
