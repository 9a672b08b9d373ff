package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flight-price-watch/internal/model"
)

const alertColumns = `id, watch_id, kind, message, snapshot_id, resolved, created_at`

// AlertRepo persists alerts raised by the tick cycle.
type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) *AlertRepo { return &AlertRepo{db: db} }

// CreateTx inserts an alert inside the caller's transaction.  Resolved is
// always written as false.
func (r *AlertRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Alert) error {
	const q = `INSERT INTO alerts (watch_id, kind, message, snapshot_id, resolved, created_at) VALUES (?, ?, ?, ?, 0, ?)`
	now := time.Now().UTC().Truncate(time.Second)
	var snap any
	if a.SnapshotID != nil {
		snap = *a.SnapshotID
	}
	res, err := tx.ExecContext(ctx, q, a.WatchID, a.Kind, a.Message, snap, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Resolved = false
	a.CreatedAt = now
	return nil
}

// GetByID returns an alert or ErrAlertNotFound.
func (r *AlertRepo) GetByID(ctx context.Context, id uint64) (*model.Alert, error) {
	a, err := scanAlert(r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, ErrAlertNotFound)
	}
	return a, nil
}

// List returns alerts newest first.  When watchID is non-nil only that
// watch's alerts are returned.
func (r *AlertRepo) List(ctx context.Context, watchID *uint64) ([]model.Alert, error) {
	q := `SELECT ` + alertColumns + ` FROM alerts`
	var args []any
	if watchID != nil {
		q += ` WHERE watch_id = ?`
		args = append(args, *watchID)
	}
	q += ` ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ResolveTx marks an unresolved alert as resolved.  It returns
// ErrAlertNotFound when no unresolved alert with that ID exists, which
// also covers a concurrent confirmation that won the race.
func (r *AlertRepo) ResolveTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `UPDATE alerts SET resolved = 1 WHERE id = ? AND resolved = 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func scanAlert(s scanner) (*model.Alert, error) {
	var a model.Alert
	var snap sql.NullInt64
	if err := s.Scan(&a.ID, &a.WatchID, &a.Kind, &a.Message, &snap, &a.Resolved, &a.CreatedAt); err != nil {
		return nil, err
	}
	if snap.Valid {
		id := uint64(snap.Int64)
		a.SnapshotID = &id
	}
	return &a, nil
}
