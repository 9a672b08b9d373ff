package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/flight-price-watch/internal/model"
)

// dateLayout is the format DATE columns are written with.
const dateLayout = "2006-01-02"

const watchColumns = `id, origin, destination, departure_date, pax, cabin, auto_book_price, confirm_price, currency, created_at`

// WatchRepo manages persistence for watches.
type WatchRepo struct {
	db *sql.DB
}

// NewWatchRepo returns a new WatchRepo bound to the given database.
func NewWatchRepo(db *sql.DB) *WatchRepo { return &WatchRepo{db: db} }

// Create inserts a watch and populates its generated ID and CreatedAt.
// No uniqueness is enforced: the same route may be watched many times.
func (r *WatchRepo) Create(ctx context.Context, w *model.Watch) error {
	const q = `INSERT INTO watches (origin, destination, departure_date, pax, cabin, auto_book_price, confirm_price, currency, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, q,
		w.Origin, w.Destination, w.DepartureDate.Format(dateLayout), w.Pax, w.Cabin,
		w.AutoBookPrice, w.ConfirmPrice, w.Currency, now,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	w.CreatedAt = now
	return nil
}

// List returns all watches, newest first.
func (r *WatchRepo) List(ctx context.Context) ([]model.Watch, error) {
	return r.list(ctx, `SELECT `+watchColumns+` FROM watches ORDER BY id DESC`)
}

// ListForTick returns all watches in creation order, which is the order a
// tick processes them in.
func (r *WatchRepo) ListForTick(ctx context.Context) ([]model.Watch, error) {
	return r.list(ctx, `SELECT `+watchColumns+` FROM watches ORDER BY id ASC`)
}

func (r *WatchRepo) list(ctx context.Context, q string) ([]model.Watch, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Watch{}
	for rows.Next() {
		w, err := scanWatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// GetByID returns the watch with the given ID or ErrWatchNotFound.
func (r *WatchRepo) GetByID(ctx context.Context, id uint64) (*model.Watch, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *WatchRepo) getByID(ctx context.Context, q dbtx, id uint64) (*model.Watch, error) {
	w, err := scanWatch(q.QueryRowContext(ctx, `SELECT `+watchColumns+` FROM watches WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, ErrWatchNotFound)
	}
	return w, nil
}

// Delete removes a watch.  Snapshots, alerts and orders go with it through
// ON DELETE CASCADE.
func (r *WatchRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM watches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWatchNotFound
	}
	return nil
}

func scanWatch(s scanner) (*model.Watch, error) {
	var w model.Watch
	if err := s.Scan(
		&w.ID, &w.Origin, &w.Destination, &w.DepartureDate, &w.Pax, &w.Cabin,
		&w.AutoBookPrice, &w.ConfirmPrice, &w.Currency, &w.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &w, nil
}
