package handler

import (
    "encoding/json"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/flight-price-watch/internal/model"
)

const dateLayout = "2006-01-02"

type watchResp struct {
    ID            uint64              `json:"id"`
    Origin        string              `json:"origin"`
    Destination   string              `json:"destination"`
    DepartureDate string              `json:"departure_date"`
    Pax           int                 `json:"pax"`
    Cabin         string              `json:"cabin"`
    AutoBookPrice decimal.NullDecimal `json:"auto_book_price"`
    ConfirmPrice  decimal.NullDecimal `json:"confirm_price"`
    Currency      string              `json:"currency"`
    CreatedAt     time.Time           `json:"created_at"`
}

func toWatchResp(w *model.Watch) watchResp {
    return watchResp{
        ID:            w.ID,
        Origin:        w.Origin,
        Destination:   w.Destination,
        DepartureDate: w.DepartureDate.Format(dateLayout),
        Pax:           w.Pax,
        Cabin:         w.Cabin,
        AutoBookPrice: w.AutoBookPrice,
        ConfirmPrice:  w.ConfirmPrice,
        Currency:      w.Currency,
        CreatedAt:     w.CreatedAt,
    }
}

type alertResp struct {
    ID         uint64    `json:"id"`
    WatchID    uint64    `json:"watch_id"`
    Kind       string    `json:"kind"`
    Message    string    `json:"message"`
    SnapshotID *uint64   `json:"snapshot_id"`
    Resolved   bool      `json:"resolved"`
    CreatedAt  time.Time `json:"created_at"`
}

func toAlertResp(a *model.Alert) alertResp {
    return alertResp{
        ID:         a.ID,
        WatchID:    a.WatchID,
        Kind:       a.Kind,
        Message:    a.Message,
        SnapshotID: a.SnapshotID,
        Resolved:   a.Resolved,
        CreatedAt:  a.CreatedAt,
    }
}

type snapshotResp struct {
    ID        uint64          `json:"id"`
    WatchID   uint64          `json:"watch_id"`
    Provider  string          `json:"provider"`
    OfferID   string          `json:"offer_id"`
    Total     decimal.Decimal `json:"total"`
    Currency  string          `json:"currency"`
    Raw       json.RawMessage `json:"raw,omitempty"`
    CreatedAt time.Time       `json:"created_at"`
}

func toSnapshotResp(s *model.PriceSnapshot) snapshotResp {
    r := snapshotResp{
        ID:        s.ID,
        WatchID:   s.WatchID,
        Provider:  s.Provider,
        OfferID:   s.OfferID,
        Total:     s.Total,
        Currency:  s.Currency,
        CreatedAt: s.CreatedAt,
    }
    if json.Valid(s.Raw) {
        r.Raw = s.Raw
    }
    return r
}

type orderResp struct {
    ID              uint64              `json:"id"`
    WatchID         uint64              `json:"watch_id"`
    Provider        string              `json:"provider"`
    ProviderOrderID *string             `json:"provider_order_id"`
    Status          string              `json:"status"`
    Amount          decimal.NullDecimal `json:"amount"`
    Currency        string              `json:"currency"`
    HoldExpiresAt   *time.Time          `json:"hold_expires_at"`
    CreatedAt       time.Time           `json:"created_at"`
}

func toOrderResp(o *model.Order) orderResp {
    return orderResp{
        ID:              o.ID,
        WatchID:         o.WatchID,
        Provider:        o.Provider,
        ProviderOrderID: o.ProviderOrderID,
        Status:          o.Status,
        Amount:          o.Amount,
        Currency:        o.Currency,
        HoldExpiresAt:   o.HoldExpiresAt,
        CreatedAt:       o.CreatedAt,
    }
}
