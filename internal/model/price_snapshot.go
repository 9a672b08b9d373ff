package model

import (
    "encoding/json"
    "time"

    "github.com/shopspring/decimal"
)

// PriceSnapshot is an immutable record of the best offer observed for a
// watch during one tick.  OfferID is kept so that a later manual
// confirmation can book the same offer.
type PriceSnapshot struct {
    ID        uint64          // price_snapshots.id
    WatchID   uint64          // price_snapshots.watch_id
    Provider  string          // price_snapshots.provider
    OfferID   string          // price_snapshots.offer_id
    Total     decimal.Decimal // price_snapshots.total
    Currency  string          // price_snapshots.currency
    Raw       json.RawMessage // price_snapshots.raw (JSON, nullable)
    CreatedAt time.Time       // price_snapshots.created_at
}
