package config

import (
    "testing"
    "time"
)

func TestLoadProviderConfigDefaults(t *testing.T) {
    t.Setenv("PROVIDER_MODE", "")
    t.Setenv("AMADEUS_CLIENT_ID", "")
    t.Setenv("AMADEUS_CLIENT_SECRET", "")
    t.Setenv("DUFFEL_ACCESS_TOKEN", "")
    t.Setenv("DUFFEL_BASE_URL", "https://example.test/")

    p := LoadProviderConfig()
    if p.Mode != ModeAuto {
        t.Fatalf("mode = %q, want auto", p.Mode)
    }
    if p.AmadeusConfigured() || p.DuffelConfigured() {
        t.Fatalf("no credentials set but provider reports configured")
    }
    if p.DuffelBaseURL != "https://example.test" {
        t.Fatalf("trailing slash not trimmed: %q", p.DuffelBaseURL)
    }
    if p.Timeout != 20*time.Second {
        t.Fatalf("timeout = %s", p.Timeout)
    }
}

func TestLoadProviderConfigUnknownModeFallsBack(t *testing.T) {
    t.Setenv("PROVIDER_MODE", "LIVE")
    if got := LoadProviderConfig().Mode; got != ModeLive {
        t.Fatalf("mode = %q, want live", got)
    }
    t.Setenv("PROVIDER_MODE", "sometimes")
    if got := LoadProviderConfig().Mode; got != ModeAuto {
        t.Fatalf("mode = %q, want auto", got)
    }
}

func TestRateLimitNormalize(t *testing.T) {
    r := RateLimitConfig{Capacity: 0, RefillTokens: -1, RefillInterval: 0, TTL: time.Second}.normalize()
    if r.Capacity != 1 || r.RefillTokens != 1 || r.RefillInterval != time.Second {
        t.Fatalf("unexpected normalized config: %+v", r)
    }
    if r.TTL != 5*time.Second {
        t.Fatalf("ttl = %s, want 5s", r.TTL)
    }
}

func TestLoadAlertsConfig(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
    t.Setenv("ALERT_CONSUMER_ENABLED", "yes")
    t.Setenv("ALERTS_QUEUE", "")
    t.Setenv("ALERT_LOG_DIR", "")
    a := LoadAlertsConfig()
    if a.URL != "amqp://u:p@broker:5672/" {
        t.Fatalf("url = %q", a.URL)
    }
    if !a.ConsumerEnabled {
        t.Fatalf("consumer should be enabled")
    }
    if a.Queue != "alerts.created" || a.LogDir != "logs" {
        t.Fatalf("defaults not applied: %+v", a)
    }
}

func TestSplitList(t *testing.T) {
    got := splitList(" http://a ,, http://b")
    if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
        t.Fatalf("splitList = %#v", got)
    }
}
