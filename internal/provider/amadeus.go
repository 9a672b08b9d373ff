package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/flight-price-watch/internal/config"
)

// Amadeus reads itinerary price metrics from the Amadeus self-service API.
// Access tokens are obtained with the client-credentials grant and reused
// until shortly before they expire.
type Amadeus struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
	now      func() time.Time
}

// NewAmadeus builds a client from the provider configuration.
func NewAmadeus(cfg config.ProviderConfig) *Amadeus {
	return &Amadeus{
		baseURL:      cfg.AmadeusBaseURL,
		clientID:     cfg.AmadeusClientID,
		clientSecret: cfg.AmadeusClientSecret,
		http:         &http.Client{Timeout: cfg.Timeout},
		now:          time.Now,
	}
}

func (a *Amadeus) Name() string { return "amadeus" }

type amadeusToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type amadeusMetrics struct {
	Data []struct {
		CurrencyCode string `json:"currencyCode"`
		PriceMetrics []struct {
			Amount          string `json:"amount"`
			QuartileRanking string `json:"quartileRanking"`
		} `json:"priceMetrics"`
	} `json:"data"`
}

func (a *Amadeus) accessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != "" && a.now().Before(a.tokenExp) {
		return a.token, nil
	}
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var tok amadeusToken
	if err := doJSON(a.http, a.Name(), "token", req, &tok); err != nil {
		return "", err
	}
	a.token = tok.AccessToken
	// refresh a little early so a token never expires mid-request
	a.tokenExp = a.now().Add(time.Duration(tok.ExpiresIn)*time.Second - 30*time.Second)
	return a.token, nil
}

// TypicalPrice maps the MINIMUM, FIRST, MEDIUM and THIRD quartile
// rankings to p10, p25, p50 and p75.  An empty answer yields no
// percentiles rather than an error.
func (a *Amadeus) TypicalPrice(ctx context.Context, origin, destination string, date time.Time, currency string) (TypicalPrice, error) {
	tok, err := a.accessToken(ctx)
	if err != nil {
		return TypicalPrice{}, err
	}
	q := url.Values{
		"originIataCode":      {origin},
		"destinationIataCode": {destination},
		"departureDate":       {date.Format("2006-01-02")},
		"currencyCode":        {currency},
		"oneWay":              {"true"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/analytics/itinerary-price-metrics?"+q.Encode(), nil)
	if err != nil {
		return TypicalPrice{}, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	var body amadeusMetrics
	if err := doJSON(a.http, a.Name(), "itinerary-price-metrics", req, &body); err != nil {
		return TypicalPrice{}, err
	}

	out := TypicalPrice{Currency: currency}
	if len(body.Data) == 0 {
		return out, nil
	}
	if c := body.Data[0].CurrencyCode; c != "" {
		out.Currency = c
	}
	for _, m := range body.Data[0].PriceMetrics {
		amt, err := decimal.NewFromString(m.Amount)
		if err != nil {
			continue
		}
		v := decimal.NewNullDecimal(amt)
		switch m.QuartileRanking {
		case "MINIMUM":
			out.P10 = v
		case "FIRST":
			out.P25 = v
		case "MEDIUM":
			out.P50 = v
		case "THIRD":
			out.P75 = v
		}
	}
	return out, nil
}
