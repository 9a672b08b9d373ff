// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// Alert event names.
const (
    EventAlertCreated  = "alert.created"
    EventAlertResolved = "alert.resolved"
)

// AlertEvent is published after an alert is committed or resolved.  It
// carries enough information for downstream consumers to notify a user
// without querying the primary database.
type AlertEvent struct {
    Event           string  `json:"event"`
    AlertID         uint64  `json:"alert_id"`
    WatchID         uint64  `json:"watch_id"`
    Kind            string  `json:"kind"`
    Message         string  `json:"message"`
    SnapshotID      *uint64 `json:"snapshot_id,omitempty"`
    Origin          string  `json:"origin"`
    Destination     string  `json:"destination"`
    DepartureDate   string  `json:"departure_date"`
    Price           string  `json:"price,omitempty"`
    Currency        string  `json:"currency"`
    ProviderOrderID string  `json:"provider_order_id,omitempty"`
    OccurredAt      string  `json:"occurred_at"`
}
