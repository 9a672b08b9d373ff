package provider

import (
	"encoding/json"
	"testing"

	"github.com/iliyamo/flight-price-watch/internal/config"
)

func TestNewSelectsVariantsOnce(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.ProviderConfig
		typical string
		offers  string
		wantErr bool
	}{
		{"mock mode ignores credentials", config.ProviderConfig{Mode: config.ModeMock, AmadeusClientID: "a", AmadeusClientSecret: "b", DuffelAccessToken: "c"}, "*provider.Mock", "mock", false},
		{"auto without credentials", config.ProviderConfig{Mode: config.ModeAuto}, "*provider.Mock", "mock", false},
		{"auto with amadeus only", config.ProviderConfig{Mode: config.ModeAuto, AmadeusClientID: "a", AmadeusClientSecret: "b"}, "*provider.Amadeus", "mock", false},
		{"auto with duffel only", config.ProviderConfig{Mode: config.ModeAuto, DuffelAccessToken: "c"}, "*provider.Mock", "duffel", false},
		{"live with everything", config.ProviderConfig{Mode: config.ModeLive, AmadeusClientID: "a", AmadeusClientSecret: "b", DuffelAccessToken: "c"}, "*provider.Amadeus", "duffel", false},
		{"live missing duffel", config.ProviderConfig{Mode: config.ModeLive, AmadeusClientID: "a", AmadeusClientSecret: "b"}, "", "", true},
		{"live missing amadeus", config.ProviderConfig{Mode: config.ModeLive, DuffelAccessToken: "c"}, "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := New(tc.cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := typeName(set.Typical); got != tc.typical {
				t.Fatalf("typical = %s, want %s", got, tc.typical)
			}
			if set.Offers.Name() != tc.offers || set.Booking.Name() != tc.offers {
				t.Fatalf("offers/booking = %s/%s, want %s", set.Offers.Name(), set.Booking.Name(), tc.offers)
			}
		})
	}
}

func typeName(p TypicalPriceProvider) string {
	switch p.(type) {
	case *Mock:
		return "*provider.Mock"
	case *Amadeus:
		return "*provider.Amadeus"
	}
	return "unknown"
}

func TestPassengerIDs(t *testing.T) {
	raw := json.RawMessage(`{"id":"off_1","passengers":[{"id":"pas_1","type":"adult"},{"id":""},{"id":"pas_2"}]}`)
	ids := PassengerIDs(raw)
	if len(ids) != 2 || ids[0] != "pas_1" || ids[1] != "pas_2" {
		t.Fatalf("PassengerIDs = %v", ids)
	}
	if PassengerIDs(nil) != nil || PassengerIDs(json.RawMessage(`not json`)) != nil || PassengerIDs(mockRaw) != nil {
		t.Fatalf("expected nil for payloads without passengers")
	}
}
