package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// TypicalPrice caches percentile statistics for an origin, destination
// and departure date triple.  Rows are upserted on every tick and never
// expire.  Any percentile may be absent when the provider does not
// report it.
type TypicalPrice struct {
    ID            uint64              // typical_prices.id
    Origin        string              // typical_prices.origin
    Destination   string              // typical_prices.destination
    DepartureDate time.Time           // typical_prices.departure_date
    P10           decimal.NullDecimal // typical_prices.p10
    P25           decimal.NullDecimal // typical_prices.p25
    P50           decimal.NullDecimal // typical_prices.p50
    P75           decimal.NullDecimal // typical_prices.p75
    Currency      string              // typical_prices.currency
    UpdatedAt     time.Time           // typical_prices.updated_at
}
