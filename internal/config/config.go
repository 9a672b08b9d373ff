package config // package config loads application configuration from environment variables

import (
    "log"
    "os"
    "strconv"
    "strings"
    "time"
)

// Config holds all runtime configuration values.  It is built once by
// Load at process start and handed to every component that needs it;
// nothing else in the application reads the environment.
type Config struct {
    Env  string // application environment (e.g. "dev", "prod")
    Port string // HTTP port to listen on

    DBUser string // database username
    DBPass string // database password (optional)
    DBHost string // database host address
    DBPort string // database port number
    DBName string // database name

    JWTSecret            string // when set, /v1 routes require a bearer token
    OperatorPasswordHash string // bcrypt hash accepted by POST /v1/auth/token
    AccessTTLMin         int    // access token time-to-live in minutes

    CORSOrigins []string // origins allowed by the CORS middleware

    Provider  ProviderConfig
    Redis     RedisConfig
    Alerts    AlertsConfig
    Cache     CacheConfig
    RateLimit RateLimitConfig

    TickLockTTL time.Duration // expiry of the Redis tick lock
}

// AlertsConfig controls publication and consumption of alert events.
// Publishing is disabled when URL is empty.
type AlertsConfig struct {
    URL             string
    Queue           string
    ConsumerEnabled bool
    LogDir          string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:    must("APP_ENV"),
        Port:   must("APP_PORT"),
        DBUser: must("DB_USER"),
        DBPass: os.Getenv("DB_PASS"), // empty allowed
        DBHost: must("DB_HOST"),
        DBPort: must("DB_PORT"),
        DBName: must("DB_NAME"),

        JWTSecret:            os.Getenv("JWT_SECRET"),
        OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
        AccessTTLMin:         envInt("ACCESS_TOKEN_TTL_MIN", 60),

        CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),

        Provider:  LoadProviderConfig(),
        Redis:     LoadRedisConfig(),
        Alerts:    LoadAlertsConfig(),
        Cache:     LoadCacheConfig(),
        RateLimit: LoadRateLimitConfig(),

        TickLockTTL: envDur("TICK_LOCK_TTL", 5*time.Minute),
    }
}

// LoadAlertsConfig reads the RabbitMQ settings.  RABBITMQ_URL wins over
// AMQP_URL; leaving both unset disables alert events entirely.
func LoadAlertsConfig() AlertsConfig {
    url := os.Getenv("RABBITMQ_URL")
    if url == "" {
        url = os.Getenv("AMQP_URL")
    }
    return AlertsConfig{
        URL:             url,
        Queue:           getenv("ALERTS_QUEUE", "alerts.created"),
        ConsumerEnabled: envBool("ALERT_CONSUMER_ENABLED", false),
        LogDir:          getenv("ALERT_LOG_DIR", "logs"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil {
        return dur
    }
    return d
}
