package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/flight-price-watch/internal/config"
)

// Duffel searches offers and places orders through the Duffel API.
type Duffel struct {
	baseURL string
	token   string
	version string
	http    *http.Client
}

// NewDuffel builds a client from the provider configuration.
func NewDuffel(cfg config.ProviderConfig) *Duffel {
	return &Duffel{
		baseURL: cfg.DuffelBaseURL,
		token:   cfg.DuffelAccessToken,
		version: cfg.DuffelVersion,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (d *Duffel) Name() string { return "duffel" }

type duffelEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type duffelOffer struct {
	ID            string `json:"id"`
	TotalAmount   string `json:"total_amount"`
	TotalCurrency string `json:"total_currency"`
	Passengers    []struct {
		ID string `json:"id"`
	} `json:"passengers"`
}

type duffelOrder struct {
	ID            string `json:"id"`
	TotalAmount   string `json:"total_amount"`
	TotalCurrency string `json:"total_currency"`
	PaymentStatus struct {
		AwaitingPayment   bool    `json:"awaiting_payment"`
		PaymentRequiredBy *string `json:"payment_required_by"`
	} `json:"payment_status"`
}

func (d *Duffel) post(ctx context.Context, op, path string, payload any, out any) error {
	body, err := json.Marshal(map[string]any{"data": payload})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Duffel-Version", d.version)
	req.Header.Set("Content-Type", "application/json")
	return doJSON(d.http, d.Name(), op, req, out)
}

// SearchOffers creates an offer request for a one-way slice and returns
// the offers it produced, in the order Duffel sent them.
func (d *Duffel) SearchOffers(ctx context.Context, req SearchRequest) ([]Offer, error) {
	pax := req.Pax
	if pax < 1 {
		pax = 1
	}
	passengers := make([]map[string]string, pax)
	for i := range passengers {
		passengers[i] = map[string]string{"type": "adult"}
	}
	payload := map[string]any{
		"slices": []map[string]string{{
			"origin":         req.Origin,
			"destination":    req.Destination,
			"departure_date": req.DepartureDate.Format("2006-01-02"),
		}},
		"passengers":  passengers,
		"cabin_class": strings.ToLower(req.Cabin),
	}
	var env duffelEnvelope
	if err := d.post(ctx, "offer_requests", "/air/offer_requests?return_offers=true", payload, &env); err != nil {
		return nil, err
	}
	var data struct {
		Offers []json.RawMessage `json:"offers"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &Error{Provider: d.Name(), Op: "offer_requests", Err: fmt.Errorf("decode offers: %w", err)}
	}
	offers := make([]Offer, 0, len(data.Offers))
	for _, raw := range data.Offers {
		var o duffelOffer
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, &Error{Provider: d.Name(), Op: "offer_requests", Err: fmt.Errorf("decode offer: %w", err)}
		}
		total, err := decimal.NewFromString(o.TotalAmount)
		if err != nil {
			return nil, &Error{Provider: d.Name(), Op: "offer_requests", Err: fmt.Errorf("offer %s total %q: %w", o.ID, o.TotalAmount, err)}
		}
		ids := make([]string, 0, len(o.Passengers))
		for _, p := range o.Passengers {
			ids = append(ids, p.ID)
		}
		offers = append(offers, Offer{ID: o.ID, Total: total, Currency: o.TotalCurrency, Raw: raw, PassengerIDs: ids})
	}
	return offers, nil
}

// Book places an order for the offer.  Without a payment type the order
// is a hold whose payment deadline becomes HoldExpiresAt.
func (d *Duffel) Book(ctx context.Context, req BookRequest) (Booking, error) {
	payload := map[string]any{
		"selected_offers": []string{req.OfferID},
		"passengers":      req.Passengers,
		"type":            "hold",
	}
	if req.Payment.Type != "" {
		payload["type"] = "instant"
		payload["payments"] = []map[string]string{{
			"type":     req.Payment.Type,
			"amount":   req.Amount.StringFixed(2),
			"currency": req.Currency,
		}}
	}
	var env duffelEnvelope
	if err := d.post(ctx, "orders", "/air/orders", payload, &env); err != nil {
		return Booking{}, err
	}
	var o duffelOrder
	if err := json.Unmarshal(env.Data, &o); err != nil {
		return Booking{}, &Error{Provider: d.Name(), Op: "orders", Err: fmt.Errorf("decode order: %w", err)}
	}
	b := Booking{Status: "booked", ProviderOrderID: o.ID, Currency: o.TotalCurrency}
	if o.PaymentStatus.AwaitingPayment {
		b.Status = "created"
	}
	if amt, err := decimal.NewFromString(o.TotalAmount); err == nil {
		b.Amount = decimal.NewNullDecimal(amt)
	}
	if by := o.PaymentStatus.PaymentRequiredBy; by != nil {
		if t, err := time.Parse(time.RFC3339, *by); err == nil {
			t = t.UTC()
			b.HoldExpiresAt = &t
		}
	}
	if b.Currency == "" {
		b.Currency = req.Currency
	}
	return b, nil
}
