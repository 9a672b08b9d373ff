package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Cabin classes accepted for a watch.
const (
    CabinEconomy        = "ECONOMY"
    CabinPremiumEconomy = "PREMIUM_ECONOMY"
    CabinBusiness       = "BUSINESS"
    CabinFirst          = "FIRST"
)

// Watch represents a user's standing request to monitor a route and
// departure date, as stored in the `watches` table.  Origin and
// destination are three-letter location codes kept upper-case.  A watch
// is never updated after creation; deleting it cascades to its
// snapshots, alerts and orders.
//
// Fields:
//  ID            – primary key identifier.
//  Origin        – departure location code.
//  Destination   – arrival location code.
//  DepartureDate – departure day (time part is always midnight UTC).
//  Pax           – number of passengers.
//  Cabin         – one of the Cabin* constants.
//  AutoBookPrice – book automatically at or below this price (optional).
//  ConfirmPrice  – ask for confirmation at or below this price (optional).
//  Currency      – ISO currency code used for searches and bookings.
//  CreatedAt     – creation timestamp.
type Watch struct {
    ID            uint64              // watches.id
    Origin        string              // watches.origin
    Destination   string              // watches.destination
    DepartureDate time.Time           // watches.departure_date
    Pax           int                 // watches.pax
    Cabin         string              // watches.cabin
    AutoBookPrice decimal.NullDecimal // watches.auto_book_price (nullable)
    ConfirmPrice  decimal.NullDecimal // watches.confirm_price (nullable)
    Currency      string              // watches.currency
    CreatedAt     time.Time           // watches.created_at
}
