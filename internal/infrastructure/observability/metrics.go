package observability

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's prometheus instruments. Register once per
// process; a second registration on the same registry panics.
type Metrics struct {
	TicksProcessed  prometheus.Counter
	TickDuration    prometheus.Histogram
	LoansProcessed  prometheus.Counter
	Payments        prometheus.Counter
	MissedPayments  prometheus.Counter
	Defaults        prometheus.Counter
	DepositsAccrued prometheus.Counter

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		TicksProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "banking_ticks_processed_total",
			Help: "Completed tick passes.",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "banking_tick_duration_seconds",
			Help:    "Wall time of one tick pass.",
			Buckets: prometheus.DefBuckets,
		}),
		LoansProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "banking_loans_processed_total",
			Help: "Loans evaluated across all tick passes.",
		}),
		Payments: f.NewCounter(prometheus.CounterOpts{
			Name: "banking_payments_received_total",
			Help: "Scheduled payments collected.",
		}),
		MissedPayments: f.NewCounter(prometheus.CounterOpts{
			Name: "banking_payments_missed_total",
			Help: "Scheduled payments missed.",
		}),
		Defaults: f.NewCounter(prometheus.CounterOpts{
			Name: "banking_loan_defaults_total",
			Help: "Loans that crossed into default.",
		}),
		DepositsAccrued: f.NewCounter(prometheus.CounterOpts{
			Name: "banking_deposit_accruals_total",
			Help: "Deposit accounts that accrued interest.",
		}),
		registry: reg,
	}
}

// Handler exposes the registry for a GET /metrics route.
func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return echo.WrapHandler(h)
}
