package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/creditapproval/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Decision metrics
	Decisions         *prometheus.CounterVec
	CreditScores      prometheus.Histogram
	InstallmentAmount prometheus.Histogram

	// Loan metrics
	LoansCreated prometheus.Counter
	LoanAmount   prometheus.Histogram

	// Ingestion metrics
	IngestedRows *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditapproval_decisions_total",
				Help: "Eligibility decisions by outcome",
			},
			[]string{"outcome", "reason"},
		),
		CreditScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditapproval_credit_score",
			Help:    "Credit scores computed during evaluation",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		InstallmentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditapproval_monthly_installment",
			Help:    "Monthly installments quoted",
			Buckets: []float64{1000, 5000, 10000, 25000, 50000, 100000, 250000},
		}),

		LoansCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditapproval_loans_created_total",
			Help: "Total number of loans booked",
		}),
		LoanAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditapproval_loan_amount",
			Help:    "Principal of booked loans",
			Buckets: []float64{10000, 50000, 100000, 500000, 1000000, 5000000},
		}),

		IngestedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditapproval_rows_ingested_total",
				Help: "Spreadsheet rows inserted by kind",
			},
			[]string{"kind"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditapproval_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "creditapproval_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "creditapproval_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "creditapproval_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}
}

// ObserveDecision records an eligibility decision.
func (m *Metrics) ObserveDecision(d *domain.EligibilityDecision) {
	outcome := "rejected"
	if d.Approved {
		outcome = "approved"
	}
	m.Decisions.WithLabelValues(outcome, d.Reason).Inc()

	if d.CreditScore != nil {
		m.CreditScores.Observe(float64(*d.CreditScore))
	}
	if d.Approved {
		m.InstallmentAmount.Observe(d.MonthlyInstallment.InexactFloat64())
	}
}

// LoanCreated records a booked loan.
func (m *Metrics) LoanCreated(loan *domain.Loan) {
	m.LoansCreated.Inc()
	m.LoanAmount.Observe(loan.Amount.InexactFloat64())
}

// RowsIngested records inserted spreadsheet rows.
func (m *Metrics) RowsIngested(kind domain.IngestKind, rows int) {
	m.IngestedRows.WithLabelValues(string(kind)).Add(float64(rows))
}

// RequestStarted marks a request in flight.
func (m *Metrics) RequestStarted() {
	m.HTTPInFlight.Inc()
}

// RequestFinished records a completed request under its route pattern.
func (m *Metrics) RequestFinished(method, route string, status int, took time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// RateLimited records a rejected request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}
