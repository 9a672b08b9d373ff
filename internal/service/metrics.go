package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightwatch_ticks_total",
			Help: "Ticks started, by outcome",
		},
		[]string{"outcome"},
	)
	tickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flightwatch_tick_duration_seconds",
			Help:    "Duration of a full tick over all watches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	watchResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightwatch_watch_results_total",
			Help: "Per-watch tick results, by action",
		},
		[]string{"action"},
	)
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightwatch_bookings_total",
			Help: "Booking attempts, by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)
