package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flight-price-watch/internal/model"
)

// TypicalPriceRepo stores the percentile cache.  Rows are keyed by
// (origin, destination, departure_date) through a unique index.
type TypicalPriceRepo struct {
	db *sql.DB
}

func NewTypicalPriceRepo(db *sql.DB) *TypicalPriceRepo { return &TypicalPriceRepo{db: db} }

// UpsertTx inserts the row or overwrites percentiles, currency and
// updated_at of the existing one.  UpdatedAt on tp is set to the time
// written.
func (r *TypicalPriceRepo) UpsertTx(ctx context.Context, tx *sql.Tx, tp *model.TypicalPrice) error {
	const q = `INSERT INTO typical_prices (origin, destination, departure_date, p10, p25, p50, p75, currency, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE p10 = VALUES(p10), p25 = VALUES(p25), p50 = VALUES(p50), p75 = VALUES(p75),
	                                   currency = VALUES(currency), updated_at = VALUES(updated_at)`
	now := time.Now().UTC().Truncate(time.Second)
	_, err := tx.ExecContext(ctx, q,
		tp.Origin, tp.Destination, tp.DepartureDate.Format(dateLayout),
		tp.P10, tp.P25, tp.P50, tp.P75, tp.Currency, now,
	)
	if err != nil {
		return err
	}
	tp.UpdatedAt = now
	return nil
}

// Get returns the cached statistics for a route and date or
// ErrTypicalNotFound.
func (r *TypicalPriceRepo) Get(ctx context.Context, origin, destination string, date time.Time) (*model.TypicalPrice, error) {
	const q = `SELECT id, origin, destination, departure_date, p10, p25, p50, p75, currency, updated_at
	           FROM typical_prices WHERE origin = ? AND destination = ? AND departure_date = ?`
	var tp model.TypicalPrice
	err := r.db.QueryRowContext(ctx, q, origin, destination, date.Format(dateLayout)).Scan(
		&tp.ID, &tp.Origin, &tp.Destination, &tp.DepartureDate,
		&tp.P10, &tp.P25, &tp.P50, &tp.P75, &tp.Currency, &tp.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrTypicalNotFound)
	}
	return &tp, nil
}
