package config

import (
    "strings"
    "time"
)

// Provider modes.  ModeAuto picks the live variant of each provider whose
// credentials are present and the mock variant otherwise.
const (
    ModeAuto = "auto"
    ModeMock = "mock"
    ModeLive = "live"
)

// ProviderConfig carries credentials and endpoints of the pricing and
// booking providers.
type ProviderConfig struct {
    Mode string

    AmadeusClientID     string
    AmadeusClientSecret string
    AmadeusBaseURL      string

    DuffelAccessToken string
    DuffelBaseURL     string
    DuffelVersion     string

    Timeout time.Duration
    Seed    int64 // seed of the mock random source; 0 means time-based
}

func LoadProviderConfig() ProviderConfig {
    mode := strings.ToLower(getenv("PROVIDER_MODE", ModeAuto))
    switch mode {
    case ModeAuto, ModeMock, ModeLive:
    default:
        mode = ModeAuto
    }
    return ProviderConfig{
        Mode:                mode,
        AmadeusClientID:     getenv("AMADEUS_CLIENT_ID", ""),
        AmadeusClientSecret: getenv("AMADEUS_CLIENT_SECRET", ""),
        AmadeusBaseURL:      strings.TrimRight(getenv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/"),
        DuffelAccessToken:   getenv("DUFFEL_ACCESS_TOKEN", ""),
        DuffelBaseURL:       strings.TrimRight(getenv("DUFFEL_BASE_URL", "https://api.duffel.com"), "/"),
        DuffelVersion:       getenv("DUFFEL_VERSION", "v2"),
        Timeout:             envDur("PROVIDER_TIMEOUT", 20*time.Second),
        Seed:                int64(envInt("MOCK_SEED", 0)),
    }
}

// AmadeusConfigured reports whether live typical-price lookups are possible.
func (p ProviderConfig) AmadeusConfigured() bool {
    return p.AmadeusClientID != "" && p.AmadeusClientSecret != ""
}

// DuffelConfigured reports whether live offer search and booking are possible.
func (p ProviderConfig) DuffelConfigured() bool {
    return p.DuffelAccessToken != ""
}
