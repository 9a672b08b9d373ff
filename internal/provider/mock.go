package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	mockQuantiles  = []string{"0.6", "0.8", "1.0", "1.2"}
	mockDeltas     = []int{-40, 0, 35}
	mockOrderTotal = decimal.RequireFromString("199.99")
	mockRaw        = json.RawMessage(`{"carrier":"XX","flight":"XX123","legs":1}`)
)

// Mock generates believable prices without any network access.  It
// implements all three provider interfaces.
type Mock struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewMock returns a Mock seeded with seed, or with the current time when
// seed is 0.
func NewMock(seed int64) *Mock {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Mock{rnd: rand.New(rand.NewSource(seed)), now: time.Now}
}

func (m *Mock) Name() string { return "mock" }

// intn returns a uniform integer in [lo, hi].
func (m *Mock) intn(lo, hi int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo + m.rnd.Intn(hi-lo+1)
}

// TypicalPrice draws a base price in [150, 500] and reports p10..p75 as
// 0.6, 0.8, 1.0 and 1.2 times the base.
func (m *Mock) TypicalPrice(ctx context.Context, origin, destination string, date time.Time, currency string) (TypicalPrice, error) {
	if err := ctx.Err(); err != nil {
		return TypicalPrice{}, err
	}
	base := decimal.NewFromInt(int64(m.intn(150, 500)))
	ps := make([]decimal.NullDecimal, len(mockQuantiles))
	for i, q := range mockQuantiles {
		ps[i] = decimal.NewNullDecimal(base.Mul(decimal.RequireFromString(q)))
	}
	return TypicalPrice{P10: ps[0], P25: ps[1], P50: ps[2], P75: ps[3], Currency: currency}, nil
}

// SearchOffers returns three offers spread around a random center in
// [120, 520], never below 60, sorted ascending.
func (m *Mock) SearchOffers(ctx context.Context, req SearchRequest) ([]Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	center := m.intn(120, 520)
	offers := make([]Offer, 0, len(mockDeltas))
	for i, delta := range mockDeltas {
		total := center + delta + m.intn(-15, 15)
		if total < 60 {
			total = 60
		}
		offers = append(offers, Offer{
			ID:       fmt.Sprintf("mock_%d", i),
			Total:    decimal.NewFromInt(int64(total)),
			Currency: req.Currency,
			Raw:      mockRaw,
		})
	}
	sort.SliceStable(offers, func(i, j int) bool { return offers[i].Total.LessThan(offers[j].Total) })
	return offers, nil
}

// Book simulates a successful booking held for thirty minutes.
func (m *Mock) Book(ctx context.Context, req BookRequest) (Booking, error) {
	if err := ctx.Err(); err != nil {
		return Booking{}, err
	}
	hold := m.now().UTC().Add(30 * time.Minute)
	return Booking{
		Status:          "booked",
		ProviderOrderID: "mock_order_" + req.OfferID,
		Amount:          decimal.NewNullDecimal(mockOrderTotal),
		Currency:        req.Currency,
		HoldExpiresAt:   &hold,
	}, nil
}
