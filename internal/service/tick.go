package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/flight-price-watch/internal/model"
	"github.com/iliyamo/flight-price-watch/internal/provider"
	q "github.com/iliyamo/flight-price-watch/internal/queue"
	"github.com/iliyamo/flight-price-watch/internal/rules"
)

// TypicalSummary is the statistics block reported with tick results and
// by the typical-price lookup.
type TypicalSummary struct {
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	DepartureDate string              `json:"departure_date"`
	P10           decimal.NullDecimal `json:"p10"`
	P25           decimal.NullDecimal `json:"p25"`
	P50           decimal.NullDecimal `json:"p50"`
	P75           decimal.NullDecimal `json:"p75"`
	Currency      string              `json:"currency"`
}

// TickResult summarises what one tick did for one watch.  Price is nil
// when no offer was found or the watch failed before an offer was seen.
type TickResult struct {
	WatchID  uint64           `json:"watch_id"`
	Action   string           `json:"action"`
	Price    *decimal.Decimal `json:"price"`
	Currency string           `json:"currency"`
	Typical  *TypicalSummary  `json:"typical,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Tick evaluates every watch once, oldest first.  Each watch is handled in
// its own transaction: a failing provider or database write rolls back
// only that watch, which is reported with ActionError, and the tick moves
// on.  Only a cancelled context or a failure to list watches aborts the
// whole tick.
func (w *Watcher) Tick(ctx context.Context) ([]TickResult, error) {
	if w.lock != nil {
		release, err := w.lock.Acquire(ctx)
		if err != nil {
			ticksTotal.WithLabelValues("locked").Inc()
			return nil, err
		}
		defer release()
	}
	start := time.Now()
	defer func() { tickDuration.Observe(time.Since(start).Seconds()) }()

	watches, err := w.repos.Watches.ListForTick(ctx)
	if err != nil {
		ticksTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("list watches: %w", err)
	}

	results := make([]TickResult, 0, len(watches))
	for i := range watches {
		if err := ctx.Err(); err != nil {
			ticksTotal.WithLabelValues("cancelled").Inc()
			return results, err
		}
		watch := &watches[i]
		res, events, err := w.tickWatch(ctx, watch)
		if err != nil {
			log.Printf("tick: watch %d failed: %v", watch.ID, err)
			res.WatchID = watch.ID
			res.Action = ActionError
			res.Currency = watch.Currency
			res.Error = err.Error()
		}
		watchResults.WithLabelValues(res.Action).Inc()
		for _, ev := range events {
			_ = w.publisher.PublishAlert(ctx, ev)
		}
		results = append(results, res)
	}
	ticksTotal.WithLabelValues("ok").Inc()
	return results, nil
}

// tickWatch runs the full pipeline for one watch inside one transaction.
// The returned events belong to alerts that were committed.
func (w *Watcher) tickWatch(ctx context.Context, watch *model.Watch) (TickResult, []q.AlertEvent, error) {
	res := TickResult{WatchID: watch.ID, Currency: watch.Currency}

	stats, err := w.providers.Typical.TypicalPrice(ctx, watch.Origin, watch.Destination, watch.DepartureDate, watch.Currency)
	if err != nil {
		return res, nil, fmt.Errorf("typical price: %w", err)
	}
	res.Typical = summarize(watch, stats)

	tx, err := w.repos.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, nil, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	tp := &model.TypicalPrice{
		Origin:        watch.Origin,
		Destination:   watch.Destination,
		DepartureDate: watch.DepartureDate,
		P10:           stats.P10,
		P25:           stats.P25,
		P50:           stats.P50,
		P75:           stats.P75,
		Currency:      watch.Currency,
	}
	if err := w.repos.Typicals.UpsertTx(ctx, tx, tp); err != nil {
		return res, nil, fmt.Errorf("upsert typical price: %w", err)
	}

	offers, err := w.providers.Offers.SearchOffers(ctx, provider.SearchRequest{
		Origin:        watch.Origin,
		Destination:   watch.Destination,
		DepartureDate: watch.DepartureDate,
		Pax:           watch.Pax,
		Cabin:         watch.Cabin,
		Currency:      watch.Currency,
	})
	if err != nil {
		return res, nil, fmt.Errorf("search offers: %w", err)
	}
	if len(offers) == 0 {
		if err := tx.Commit(); err != nil {
			return res, nil, fmt.Errorf("commit: %w", err)
		}
		committed = true
		res.Action = ActionNoOffers
		return res, nil, nil
	}
	best := cheapest(offers)
	res.Price = &best.Total

	snap := &model.PriceSnapshot{
		WatchID:  watch.ID,
		Provider: w.providers.Offers.Name(),
		OfferID:  best.ID,
		Total:    best.Total,
		Currency: best.Currency,
		Raw:      best.Raw,
	}
	if err := w.repos.Snapshots.CreateTx(ctx, tx, snap); err != nil {
		return res, nil, fmt.Errorf("create snapshot: %w", err)
	}

	decision := rules.Evaluate(best.Total, watch.Currency, watch.AutoBookPrice, watch.ConfirmPrice,
		&rules.Typical{P25: stats.P25, P50: stats.P50})

	var alert *model.Alert
	var orderRef string
	switch decision {
	case rules.Auto:
		booking, err := w.providers.Booking.Book(ctx, provider.BookRequest{
			OfferID:    best.ID,
			Passengers: passengers(best.PassengerIDs, watch.Pax),
			Payment:    provider.Payment{Test: true},
			Amount:     best.Total,
			Currency:   watch.Currency,
		})
		if err != nil {
			bookingsTotal.WithLabelValues("tick", "error").Inc()
			return res, nil, fmt.Errorf("book offer %s: %w", best.ID, err)
		}
		order := orderFromBooking(watch, w.providers.Booking.Name(), booking)
		if err := w.repos.Orders.CreateTx(ctx, tx, order); err != nil {
			return res, nil, fmt.Errorf("create order: %w", err)
		}
		bookingsTotal.WithLabelValues("tick", order.Status).Inc()
		orderRef = booking.ProviderOrderID
		alert = &model.Alert{
			WatchID:    watch.ID,
			Kind:       model.AlertAutoBooked,
			Message:    fmt.Sprintf("Auto-booked at %s %s (vs median %s). Order %s.", best.Total, watch.Currency, median(stats), orderRef),
			SnapshotID: &snap.ID,
		}
		res.Action = ActionAutoBooked
	case rules.Confirm:
		alert = &model.Alert{
			WatchID:    watch.ID,
			Kind:       model.AlertNeedConfirm,
			Message:    fmt.Sprintf("Price %s %s meets confirm threshold (vs median %s). Offer %s.", best.Total, watch.Currency, median(stats), best.ID),
			SnapshotID: &snap.ID,
		}
		res.Action = ActionNeedConfirm
	default:
		res.Action = ActionNoAction
	}

	if alert != nil {
		if err := w.repos.Alerts.CreateTx(ctx, tx, alert); err != nil {
			return res, nil, fmt.Errorf("create alert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return res, nil, fmt.Errorf("commit: %w", err)
	}
	committed = true

	if alert == nil {
		return res, nil, nil
	}
	ev := alertEvent(q.EventAlertCreated, alert, watch, w.now())
	ev.Price = best.Total.String()
	ev.ProviderOrderID = orderRef
	return res, []q.AlertEvent{ev}, nil
}

// cheapest returns the lowest-priced offer.  Providers are not trusted to
// sort; ties keep provider order.
func cheapest(offers []provider.Offer) provider.Offer {
	sorted := append([]provider.Offer(nil), offers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total.LessThan(sorted[j].Total) })
	return sorted[0]
}

func median(tp provider.TypicalPrice) string {
	if !tp.P50.Valid {
		return "n/a"
	}
	return tp.P50.Decimal.String()
}

func summarize(watch *model.Watch, tp provider.TypicalPrice) *TypicalSummary {
	return &TypicalSummary{
		Origin:        watch.Origin,
		Destination:   watch.Destination,
		DepartureDate: watch.DepartureDate.Format("2006-01-02"),
		P10:           tp.P10,
		P25:           tp.P25,
		P50:           tp.P50,
		P75:           tp.P75,
		Currency:      watch.Currency,
	}
}

// orderFromBooking fills the provider's answer into an Order, defaulting
// the status to created and the currency to the watch's.
func orderFromBooking(watch *model.Watch, providerName string, b provider.Booking) *model.Order {
	o := &model.Order{
		WatchID:       watch.ID,
		Provider:      providerName,
		Status:        b.Status,
		Amount:        b.Amount,
		Currency:      b.Currency,
		HoldExpiresAt: b.HoldExpiresAt,
	}
	if b.ProviderOrderID != "" {
		ref := b.ProviderOrderID
		o.ProviderOrderID = &ref
	}
	if o.Status == "" {
		o.Status = model.OrderCreated
	}
	if o.Currency == "" {
		o.Currency = watch.Currency
	}
	return o
}

func alertEvent(name string, a *model.Alert, watch *model.Watch, at time.Time) q.AlertEvent {
	return q.AlertEvent{
		Event:         name,
		AlertID:       a.ID,
		WatchID:       watch.ID,
		Kind:          a.Kind,
		Message:       a.Message,
		SnapshotID:    a.SnapshotID,
		Origin:        watch.Origin,
		Destination:   watch.Destination,
		DepartureDate: watch.DepartureDate.Format("2006-01-02"),
		Currency:      watch.Currency,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}

// IsTickInProgress reports whether err means another tick holds the lock.
func IsTickInProgress(err error) bool { return errors.Is(err, ErrTickInProgress) }
