// Package service implements the price-watch workflow: the tick that
// evaluates every watch and the manual confirmation of pending bookings.
package service

import (
	"time"

	"github.com/iliyamo/flight-price-watch/internal/provider"
	"github.com/iliyamo/flight-price-watch/internal/repository"
)

// Tick actions reported per watch.
const (
	ActionAutoBooked  = "AUTO_BOOKED"
	ActionNeedConfirm = "NEED_CONFIRM"
	ActionNoAction    = "NO_ACTION"
	ActionNoOffers    = "NO_OFFERS"
	ActionError       = "ERROR"
)

// Watcher runs ticks and confirmations against one database and one set
// of providers.
type Watcher struct {
	repos     *repository.Repos
	providers provider.Set
	publisher AlertPublisher
	lock      TickLock
	now       func() time.Time
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithPublisher sets where alert events go.  The default drops them.
func WithPublisher(p AlertPublisher) Option {
	return func(w *Watcher) {
		if p != nil {
			w.publisher = p
		}
	}
}

// WithLock guards ticks with l.  Without it ticks are not serialised.
func WithLock(l TickLock) Option {
	return func(w *Watcher) { w.lock = l }
}

// NewWatcher wires a Watcher.  All three providers in p must be set.
func NewWatcher(repos *repository.Repos, p provider.Set, opts ...Option) *Watcher {
	if repos == nil || p.Typical == nil || p.Offers == nil || p.Booking == nil {
		panic("nil dependency passed to NewWatcher")
	}
	w := &Watcher{repos: repos, providers: p, publisher: NopPublisher{}, now: time.Now}
	for _, o := range opts {
		o(w)
	}
	return w
}

// passengers builds one adult per seat, reusing provider passenger IDs
// when the offer carried them.
func passengers(ids []string, pax int) []provider.Passenger {
	n := pax
	if len(ids) > n {
		n = len(ids)
	}
	if n < 1 {
		n = 1
	}
	out := make([]provider.Passenger, n)
	for i := range out {
		out[i].Type = "adult"
		if i < len(ids) {
			out[i].ID = ids[i]
		}
	}
	return out
}
