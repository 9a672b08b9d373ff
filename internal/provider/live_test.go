package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/flight-price-watch/internal/config"
)

func TestAmadeusTypicalPrice(t *testing.T) {
	var tokenCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			atomic.AddInt32(&tokenCalls, 1)
			if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" || r.Form.Get("client_id") != "id" {
				http.Error(w, "bad form", http.StatusBadRequest)
				return
			}
			_, _ = io.WriteString(w, `{"access_token":"tok","expires_in":1799}`)
		case "/v1/analytics/itinerary-price-metrics":
			if r.Header.Get("Authorization") != "Bearer tok" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			q := r.URL.Query()
			if q.Get("originIataCode") != "SFO" || q.Get("destinationIataCode") != "JFK" || q.Get("departureDate") != "2026-12-01" {
				http.Error(w, "bad query", http.StatusBadRequest)
				return
			}
			_, _ = io.WriteString(w, `{"data":[{"currencyCode":"USD","priceMetrics":[
				{"amount":"120.50","quartileRanking":"MINIMUM"},
				{"amount":"180.00","quartileRanking":"FIRST"},
				{"amount":"240.00","quartileRanking":"MEDIUM"},
				{"amount":"300.00","quartileRanking":"THIRD"},
				{"amount":"900.00","quartileRanking":"MAXIMUM"}]}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a := NewAmadeus(config.ProviderConfig{AmadeusBaseURL: srv.URL, AmadeusClientID: "id", AmadeusClientSecret: "secret", Timeout: time.Second})
	date := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		tp, err := a.TypicalPrice(context.Background(), "SFO", "JFK", date, "USD")
		if err != nil {
			t.Fatalf("TypicalPrice: %v", err)
		}
		if !tp.P10.Decimal.Equal(decimal.RequireFromString("120.5")) || !tp.P25.Decimal.Equal(decimal.NewFromInt(180)) ||
			!tp.P50.Decimal.Equal(decimal.NewFromInt(240)) || !tp.P75.Decimal.Equal(decimal.NewFromInt(300)) {
			t.Fatalf("unexpected percentiles: %+v", tp)
		}
	}
	if n := atomic.LoadInt32(&tokenCalls); n != 1 {
		t.Fatalf("token fetched %d times, want 1", n)
	}
}

func TestAmadeusEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/token") {
			_, _ = io.WriteString(w, `{"access_token":"tok","expires_in":1799}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()
	a := NewAmadeus(config.ProviderConfig{AmadeusBaseURL: srv.URL, AmadeusClientID: "id", AmadeusClientSecret: "s", Timeout: time.Second})
	tp, err := a.TypicalPrice(context.Background(), "SFO", "JFK", time.Now(), "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if tp.P25.Valid || tp.P50.Valid || tp.Currency != "EUR" {
		t.Fatalf("expected empty statistics, got %+v", tp)
	}
}

func TestAmadeusTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()
	a := NewAmadeus(config.ProviderConfig{AmadeusBaseURL: srv.URL, AmadeusClientID: "id", AmadeusClientSecret: "s", Timeout: time.Second})
	_, err := a.TypicalPrice(context.Background(), "SFO", "JFK", time.Now(), "USD")
	var perr *Error
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusUnauthorized || perr.Op != "token" {
		t.Fatalf("err = %v", err)
	}
}

func TestDuffelSearchOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/air/offer_requests" || r.URL.Query().Get("return_offers") != "true" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer duf" || r.Header.Get("Duffel-Version") != "v2" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body struct {
			Data struct {
				Slices     []map[string]string `json:"slices"`
				Passengers []map[string]string `json:"passengers"`
				CabinClass string              `json:"cabin_class"`
			} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(body.Data.Passengers) != 2 || body.Data.CabinClass != "premium_economy" || body.Data.Slices[0]["departure_date"] != "2026-12-01" {
			http.Error(w, "bad body", http.StatusUnprocessableEntity)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"id":"orq_1","offers":[
			{"id":"off_b","total_amount":"310.00","total_currency":"USD","passengers":[{"id":"pas_1"},{"id":"pas_2"}]},
			{"id":"off_a","total_amount":"250.10","total_currency":"USD","passengers":[{"id":"pas_1"},{"id":"pas_2"}]}]}}`)
	}))
	defer srv.Close()

	d := NewDuffel(config.ProviderConfig{DuffelBaseURL: srv.URL, DuffelAccessToken: "duf", DuffelVersion: "v2", Timeout: time.Second})
	offers, err := d.SearchOffers(context.Background(), SearchRequest{
		Origin: "SFO", Destination: "JFK", DepartureDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Pax: 2, Cabin: "PREMIUM_ECONOMY", Currency: "USD",
	})
	if err != nil {
		t.Fatalf("SearchOffers: %v", err)
	}
	if len(offers) != 2 || offers[0].ID != "off_b" || !offers[1].Total.Equal(decimal.RequireFromString("250.1")) {
		t.Fatalf("unexpected offers: %+v", offers)
	}
	if len(offers[1].PassengerIDs) != 2 || !strings.Contains(string(offers[1].Raw), `"off_a"`) {
		t.Fatalf("passengers/raw not kept: %+v", offers[1])
	}
}

func TestDuffelBookHold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Data struct {
				Type           string      `json:"type"`
				SelectedOffers []string    `json:"selected_offers"`
				Passengers     []Passenger `json:"passengers"`
			} `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/air/orders" || body.Data.Type != "hold" || body.Data.SelectedOffers[0] != "off_a" || body.Data.Passengers[0].ID != "pas_1" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"id":"ord_1","total_amount":"250.10","total_currency":"USD",
			"payment_status":{"awaiting_payment":true,"payment_required_by":"2026-10-17T10:00:00Z"}}}`)
	}))
	defer srv.Close()

	d := NewDuffel(config.ProviderConfig{DuffelBaseURL: srv.URL, DuffelAccessToken: "duf", DuffelVersion: "v2", Timeout: time.Second})
	b, err := d.Book(context.Background(), BookRequest{OfferID: "off_a", Passengers: []Passenger{{ID: "pas_1", Type: "adult"}}, Currency: "USD"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if b.Status != "created" || b.ProviderOrderID != "ord_1" || !b.Amount.Decimal.Equal(decimal.RequireFromString("250.1")) {
		t.Fatalf("unexpected booking: %+v", b)
	}
	want := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	if b.HoldExpiresAt == nil || !b.HoldExpiresAt.Equal(want) {
		t.Fatalf("hold = %v", b.HoldExpiresAt)
	}
}

func TestDuffelErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":"offer_no_longer_available"}]}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()
	d := NewDuffel(config.ProviderConfig{DuffelBaseURL: srv.URL, DuffelAccessToken: "duf", Timeout: time.Second})
	_, err := d.Book(context.Background(), BookRequest{OfferID: "off_x"})
	var perr *Error
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(err.Error(), "offer_no_longer_available") {
		t.Fatalf("err = %v", err)
	}
}
