package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/flight-price-watch/internal/model"
	"github.com/iliyamo/flight-price-watch/internal/provider"
	q "github.com/iliyamo/flight-price-watch/internal/queue"
	"github.com/iliyamo/flight-price-watch/internal/repository"
)

// ConfirmBooking books the offer behind a NEED_CONFIRM alert and resolves
// the alert.  It returns repository.ErrAlertNotFound when the alert does
// not exist, is of another kind or was already resolved, and
// repository.ErrWatchNotFound when its watch is gone.  The order and the
// resolution are written together; a provider failure rolls the
// resolution back so the alert can be confirmed again.
func (w *Watcher) ConfirmBooking(ctx context.Context, alertID uint64) (*model.Alert, error) {
	alert, err := w.repos.Alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Kind != model.AlertNeedConfirm || alert.Resolved {
		return nil, repository.ErrAlertNotFound
	}
	watch, err := w.repos.Watches.GetByID(ctx, alert.WatchID)
	if err != nil {
		return nil, err
	}

	req := provider.BookRequest{
		Payment:  provider.Payment{Test: true},
		Currency: watch.Currency,
	}
	var ids []string
	if alert.SnapshotID != nil {
		snap, err := w.repos.Snapshots.GetByID(ctx, *alert.SnapshotID)
		switch {
		case err == nil:
			req.OfferID = snap.OfferID
			req.Amount = snap.Total
			ids = provider.PassengerIDs(snap.Raw)
		case errors.Is(err, repository.ErrSnapshotNotFound):
			// Booked without an offer reference; mock providers accept this.
		default:
			return nil, err
		}
	}
	req.Passengers = passengers(ids, watch.Pax)

	// Claim the alert before booking; a concurrent confirmation blocks on
	// the row and then finds it resolved.
	tx, err := w.repos.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := w.repos.Alerts.ResolveTx(ctx, tx, alert.ID); err != nil {
		return nil, err
	}

	booking, err := w.providers.Booking.Book(ctx, req)
	if err != nil {
		bookingsTotal.WithLabelValues("confirm", "error").Inc()
		return nil, fmt.Errorf("book offer %s: %w", req.OfferID, err)
	}
	order := orderFromBooking(watch, w.providers.Booking.Name(), booking)
	if err := w.repos.Orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	bookingsTotal.WithLabelValues("confirm", order.Status).Inc()

	alert.Resolved = true
	ev := alertEvent(q.EventAlertResolved, alert, watch, w.now())
	if !req.Amount.IsZero() {
		ev.Price = req.Amount.String()
	}
	if order.ProviderOrderID != nil {
		ev.ProviderOrderID = *order.ProviderOrderID
	}
	_ = w.publisher.PublishAlert(ctx, ev)
	return alert, nil
}
