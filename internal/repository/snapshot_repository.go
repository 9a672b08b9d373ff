package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flight-price-watch/internal/model"
)

const snapshotColumns = `id, watch_id, provider, offer_id, total, currency, raw, created_at`

// SnapshotRepo persists price snapshots.  Snapshots are append-only.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// CreateTx inserts a snapshot inside the caller's transaction and fills in
// the generated ID, which later writes of the same tick reference.
func (r *SnapshotRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.PriceSnapshot) error {
	const q = `INSERT INTO price_snapshots (watch_id, provider, offer_id, total, currency, raw, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	var raw any
	if len(s.Raw) > 0 {
		raw = string(s.Raw)
	}
	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx, q, s.WatchID, s.Provider, s.OfferID, s.Total, s.Currency, raw, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.CreatedAt = now
	return nil
}

// GetByID returns a snapshot or ErrSnapshotNotFound.
func (r *SnapshotRepo) GetByID(ctx context.Context, id uint64) (*model.PriceSnapshot, error) {
	s, err := scanSnapshot(r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM price_snapshots WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, ErrSnapshotNotFound)
	}
	return s, nil
}

// ListByWatch returns the snapshots of a watch, newest first.
func (r *SnapshotRepo) ListByWatch(ctx context.Context, watchID uint64) ([]model.PriceSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+snapshotColumns+` FROM price_snapshots WHERE watch_id = ? ORDER BY id DESC`, watchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PriceSnapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSnapshot(sc scanner) (*model.PriceSnapshot, error) {
	var s model.PriceSnapshot
	var raw []byte
	if err := sc.Scan(&s.ID, &s.WatchID, &s.Provider, &s.OfferID, &s.Total, &s.Currency, &raw, &s.CreatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		s.Raw = append([]byte(nil), raw...)
	}
	return &s, nil
}
