package model

import "time"

// Alert kinds.  AUTO_BOOKED informs that a booking already happened,
// NEED_CONFIRM asks the user to confirm a booking and INFO is purely
// informational.
const (
    AlertAutoBooked  = "AUTO_BOOKED"
    AlertNeedConfirm = "NEED_CONFIRM"
    AlertInfo        = "INFO"
)

// Alert is a user-facing notification produced by the tick cycle.  The
// only mutation an alert ever sees is Resolved flipping to true when a
// NEED_CONFIRM alert is confirmed.
//
// Fields:
//  ID         – primary key identifier.
//  WatchID    – owning watch.
//  Kind       – one of the Alert* constants.
//  Message    – human readable text.
//  SnapshotID – snapshot that triggered the alert, if any.
//  Resolved   – whether the alert has been acted upon.
//  CreatedAt  – creation timestamp.
type Alert struct {
    ID         uint64    // alerts.id
    WatchID    uint64    // alerts.watch_id
    Kind       string    // alerts.kind
    Message    string    // alerts.message
    SnapshotID *uint64   // alerts.snapshot_id (nullable)
    Resolved   bool      // alerts.resolved
    CreatedAt  time.Time // alerts.created_at
}
