package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa os contadores de agendamento expostos em /metrics.
type Metrics struct {
	BookingsCreated      prometheus.Counter
	SlotConflicts        *prometheus.CounterVec
	StatusTransitions    *prometheus.CounterVec
	HistoryWriteFailures prometheus.Counter
	AvailabilityDuration prometheus.Histogram
	DefaultScheduleUsed  prometheus.Counter
	RateLimited          prometheus.Counter
	PaymentsProcessed    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "barber_bookings_created_total",
			Help: "Total number of bookings created",
		}),

		SlotConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "barber_slot_rejections_total",
			Help: "Booking attempts rejected by the availability engine, by reason",
		}, []string{"reason"}),

		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "barber_status_transitions_total",
			Help: "Booking status transitions",
		}, []string{"from", "to"}),

		HistoryWriteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "barber_history_write_failures_total",
			Help: "Booking history rows that could not be written",
		}),

		AvailabilityDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "barber_availability_duration_seconds",
			Help:    "Time spent computing availability",
			Buckets: prometheus.DefBuckets,
		}),

		DefaultScheduleUsed: f.NewCounter(prometheus.CounterOpts{
			Name: "barber_default_schedule_used_total",
			Help: "Availability checks that fell back to the default working window",
		}),

		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "barber_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		}),

		PaymentsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "barber_payments_total",
			Help: "Payments processed by outcome",
		}, []string{"status"}),
	}
}

// NewNop registra num registry descartável; útil em testes.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
