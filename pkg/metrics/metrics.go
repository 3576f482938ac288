package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the payment funnel.
type CheckoutMetrics struct {
	transactionsCreated prometheus.Counter
	transactionsFailed  prometheus.Counter
	webhookEvents       *prometheus.CounterVec
	sessionsConfirmed   prometheus.Counter
	sessionsTimedOut    prometheus.Counter
	confirmationTime    prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	transactionsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transactions_created_total",
		Help: "Gateway transactions successfully created.",
	})
	transactionsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transactions_failed_total",
		Help: "Gateway transaction creation failures.",
	})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook notifications received, by reported status.",
	}, []string{"status"})
	sessionsConfirmed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_confirmed_total",
		Help: "Checkout sessions that reached payment confirmation.",
	})
	sessionsTimedOut := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_timed_out_total",
		Help: "Checkout sessions that hit the polling ceiling unpaid.",
	})
	confirmationTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_confirmation_seconds",
		Help:    "Time from payment submission to observed authorization.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 11),
	})
	reg.MustRegister(transactionsCreated, transactionsFailed, webhookEvents, sessionsConfirmed, sessionsTimedOut, confirmationTime)
	return &CheckoutMetrics{
		transactionsCreated: transactionsCreated,
		transactionsFailed:  transactionsFailed,
		webhookEvents:       webhookEvents,
		sessionsConfirmed:   sessionsConfirmed,
		sessionsTimedOut:    sessionsTimedOut,
		confirmationTime:    confirmationTime,
	}
}

// IncTransactionCreated counts a successful gateway transaction creation.
func (m *CheckoutMetrics) IncTransactionCreated() {
	if m == nil || m.transactionsCreated == nil {
		return
	}
	m.transactionsCreated.Inc()
}

// IncTransactionFailed counts a failed gateway transaction creation.
func (m *CheckoutMetrics) IncTransactionFailed() {
	if m == nil || m.transactionsFailed == nil {
		return
	}
	m.transactionsFailed.Inc()
}

// IncWebhookEvent counts a received webhook notification by status.
func (m *CheckoutMetrics) IncWebhookEvent(status string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.webhookEvents.WithLabelValues(status).Inc()
}

// IncSessionConfirmed counts a confirmed checkout session.
func (m *CheckoutMetrics) IncSessionConfirmed() {
	if m == nil || m.sessionsConfirmed == nil {
		return
	}
	m.sessionsConfirmed.Inc()
}

// IncSessionTimedOut counts a session that hit the polling ceiling.
func (m *CheckoutMetrics) IncSessionTimedOut() {
	if m == nil || m.sessionsTimedOut == nil {
		return
	}
	m.sessionsTimedOut.Inc()
}

// ObserveConfirmation records how long a session waited for authorization.
func (m *CheckoutMetrics) ObserveConfirmation(waited time.Duration) {
	if m == nil || m.confirmationTime == nil {
		return
	}
	m.confirmationTime.Observe(waited.Seconds())
}
