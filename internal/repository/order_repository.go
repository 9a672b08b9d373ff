package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flight-price-watch/internal/model"
)

// OrderRepo persists booking outcomes.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts an order inside the caller's transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (watch_id, provider, provider_order_id, status, amount, currency, hold_expires_at, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC().Truncate(time.Second)
	var hold any
	if o.HoldExpiresAt != nil {
		hold = o.HoldExpiresAt.UTC()
	}
	var ref any
	if o.ProviderOrderID != nil {
		ref = *o.ProviderOrderID
	}
	res, err := tx.ExecContext(ctx, q, o.WatchID, o.Provider, ref, o.Status, o.Amount, o.Currency, hold, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	o.CreatedAt = now
	return nil
}

// ListByWatch returns the orders of a watch, newest first.
func (r *OrderRepo) ListByWatch(ctx context.Context, watchID uint64) ([]model.Order, error) {
	const q = `SELECT id, watch_id, provider, provider_order_id, status, amount, currency, hold_expires_at, created_at
	           FROM orders WHERE watch_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, watchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		var ref sql.NullString
		var hold sql.NullTime
		if err := rows.Scan(&o.ID, &o.WatchID, &o.Provider, &ref, &o.Status, &o.Amount, &o.Currency, &hold, &o.CreatedAt); err != nil {
			return nil, err
		}
		if ref.Valid {
			s := ref.String
			o.ProviderOrderID = &s
		}
		if hold.Valid {
			t := hold.Time
			o.HoldExpiresAt = &t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
