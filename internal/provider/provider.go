// Package provider defines the external pricing and booking collaborators
// of the tick cycle and their mock and live implementations.  The
// variant of each provider is chosen once, by New, when the process
// starts.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/flight-price-watch/internal/config"
)

// TypicalPrice is the percentile summary returned by a stats provider.
// Every percentile is optional.
type TypicalPrice struct {
	P10      decimal.NullDecimal
	P25      decimal.NullDecimal
	P50      decimal.NullDecimal
	P75      decimal.NullDecimal
	Currency string
}

// SearchRequest describes a one-way live offer search.
type SearchRequest struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	Pax           int
	Cabin         string
	Currency      string
}

// Offer is one bookable fare.  Raw is the provider payload kept on the
// price snapshot.
type Offer struct {
	ID           string
	Total        decimal.Decimal
	Currency     string
	Raw          json.RawMessage
	PassengerIDs []string
}

// Passenger identifies a traveller on a booking.  Only Type is required
// by the mock provider; live providers need the remaining details.
type Passenger struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type"`
	Title      string `json:"title,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	BornOn     string `json:"born_on,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone_number,omitempty"`
}

// Payment describes how a booking is paid.  An empty Type places a hold
// that is paid later.
type Payment struct {
	Type string
	Test bool
}

// BookRequest asks a provider to book an offer.
type BookRequest struct {
	OfferID    string
	Passengers []Passenger
	Payment    Payment
	Amount     decimal.Decimal
	Currency   string
}

// Booking is the provider's answer to a BookRequest.
type Booking struct {
	Status          string
	ProviderOrderID string
	Amount          decimal.NullDecimal
	Currency        string
	HoldExpiresAt   *time.Time
}

// TypicalPriceProvider returns market statistics for a route and date.
type TypicalPriceProvider interface {
	TypicalPrice(ctx context.Context, origin, destination string, date time.Time, currency string) (TypicalPrice, error)
}

// OfferProvider searches live offers.  Implementations may return offers
// in any order.
type OfferProvider interface {
	Name() string
	SearchOffers(ctx context.Context, req SearchRequest) ([]Offer, error)
}

// BookingProvider books an offer.
type BookingProvider interface {
	Name() string
	Book(ctx context.Context, req BookRequest) (Booking, error)
}

// Set bundles the three providers used by the tick cycle.
type Set struct {
	Typical TypicalPriceProvider
	Offers  OfferProvider
	Booking BookingProvider
}

// Error wraps a failed provider call.
type Error struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New selects the provider variants according to cfg.Mode.  In auto mode
// each provider is live when its credentials are present and mock
// otherwise; live mode fails when credentials are missing.
func New(cfg config.ProviderConfig) (Set, error) {
	mock := NewMock(cfg.Seed)
	if cfg.Mode == config.ModeMock {
		return Set{Typical: mock, Offers: mock, Booking: mock}, nil
	}
	if cfg.Mode == config.ModeLive {
		if !cfg.AmadeusConfigured() {
			return Set{}, fmt.Errorf("provider mode live: AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET are required")
		}
		if !cfg.DuffelConfigured() {
			return Set{}, fmt.Errorf("provider mode live: DUFFEL_ACCESS_TOKEN is required")
		}
	}
	set := Set{Typical: mock, Offers: mock, Booking: mock}
	if cfg.AmadeusConfigured() {
		set.Typical = NewAmadeus(cfg)
	}
	if cfg.DuffelConfigured() {
		d := NewDuffel(cfg)
		set.Offers = d
		set.Booking = d
	}
	return set, nil
}

// PassengerIDs extracts passengers[].id from a raw offer payload.  It
// returns nil for payloads without passengers, such as mock offers.
func PassengerIDs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var body struct {
		Passengers []struct {
			ID string `json:"id"`
		} `json:"passengers"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	var ids []string
	for _, p := range body.Passengers {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
