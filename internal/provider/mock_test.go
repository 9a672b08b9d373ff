package provider

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMockTypicalPriceRatios(t *testing.T) {
	m := NewMock(42)
	for i := 0; i < 50; i++ {
		tp, err := m.TypicalPrice(context.Background(), "SFO", "JFK", time.Now(), "EUR")
		if err != nil {
			t.Fatal(err)
		}
		base := tp.P50.Decimal
		if base.LessThan(decimal.NewFromInt(150)) || base.GreaterThan(decimal.NewFromInt(500)) {
			t.Fatalf("base %s outside [150,500]", base)
		}
		if !tp.P10.Decimal.Equal(base.Mul(decimal.RequireFromString("0.6"))) ||
			!tp.P25.Decimal.Equal(base.Mul(decimal.RequireFromString("0.8"))) ||
			!tp.P75.Decimal.Equal(base.Mul(decimal.RequireFromString("1.2"))) {
			t.Fatalf("unexpected percentiles: %+v", tp)
		}
		if tp.Currency != "EUR" {
			t.Fatalf("currency = %q", tp.Currency)
		}
	}
}

func TestMockSearchOffersSortedAndBounded(t *testing.T) {
	m := NewMock(7)
	for i := 0; i < 100; i++ {
		offers, err := m.SearchOffers(context.Background(), SearchRequest{Origin: "SFO", Destination: "JFK", Pax: 1, Currency: "USD"})
		if err != nil {
			t.Fatal(err)
		}
		if len(offers) != 3 {
			t.Fatalf("got %d offers", len(offers))
		}
		for j, o := range offers {
			if o.Total.LessThan(decimal.NewFromInt(60)) {
				t.Fatalf("offer below floor: %s", o.Total)
			}
			if j > 0 && o.Total.LessThan(offers[j-1].Total) {
				t.Fatalf("offers not sorted: %v", offers)
			}
			if o.Currency != "USD" || len(o.Raw) == 0 {
				t.Fatalf("unexpected offer: %+v", o)
			}
		}
	}
}

func TestMockSeedIsDeterministic(t *testing.T) {
	a, _ := NewMock(99).SearchOffers(context.Background(), SearchRequest{Currency: "USD"})
	b, _ := NewMock(99).SearchOffers(context.Background(), SearchRequest{Currency: "USD"})
	for i := range a {
		if !a[i].Total.Equal(b[i].Total) || a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different offers: %v vs %v", a, b)
		}
	}
}

func TestMockBook(t *testing.T) {
	m := NewMock(1)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	b, err := m.Book(context.Background(), BookRequest{OfferID: "mock_0", Currency: "GBP"})
	if err != nil {
		t.Fatal(err)
	}
	if b.Status != "booked" || b.ProviderOrderID != "mock_order_mock_0" || b.Currency != "GBP" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if !b.Amount.Decimal.Equal(decimal.RequireFromString("199.99")) {
		t.Fatalf("amount = %s", b.Amount.Decimal)
	}
	if b.HoldExpiresAt == nil || !b.HoldExpiresAt.Equal(fixed.Add(30*time.Minute)) {
		t.Fatalf("hold = %v", b.HoldExpiresAt)
	}
}

func TestMockHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMock(1).SearchOffers(ctx, SearchRequest{}); err == nil {
		t.Fatalf("expected context error")
	}
}
