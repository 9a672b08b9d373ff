package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Order statuses reported by booking providers.
const (
    OrderCreated = "created"
    OrderBooked  = "booked"
    OrderFailed  = "failed"
)

// Order records the outcome of one booking attempt for a watch.  Orders
// are created by the tick cycle (automatic booking) or by a manual
// confirmation and are never updated afterwards.
type Order struct {
    ID              uint64              // orders.id
    WatchID         uint64              // orders.watch_id
    Provider        string              // orders.provider
    ProviderOrderID *string             // orders.provider_order_id (nullable)
    Status          string              // orders.status
    Amount          decimal.NullDecimal // orders.amount (nullable)
    Currency        string              // orders.currency
    HoldExpiresAt   *time.Time          // orders.hold_expires_at (nullable)
    CreatedAt       time.Time           // orders.created_at
}
