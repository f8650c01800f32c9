package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Deal-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Brand link views
	BrandViewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "brand_views_total",
			Help:      "Brand reply link views by outcome",
		},
		[]string{"outcome"},
	)

	// Brand decisions
	BrandDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "brand_decisions_total",
			Help:      "Brand decisions by submitted status",
		},
		[]string{"status"},
	)

	// Audit trail writes
	AuditWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "audit_writes_total",
			Help:      "Audit entries by action and result (written/suppressed/error)",
		},
		[]string{"action", "result"},
	)

	// Signatures
	SignaturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "signatures_total",
			Help:      "Contract signature attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	// Email dispatch
	EmailSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "email_sends_total",
			Help:      "Transactional email sends by outcome",
		},
		[]string{"outcome"},
	)

	// Invoice triggers
	InvoiceTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdesk",
			Subsystem: "deal_api",
			Name:      "invoice_triggers_total",
			Help:      "Invoice generation triggers by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordBrandView records a brand reply link view
func RecordBrandView(outcome string) {
	BrandViewsTotal.WithLabelValues(outcome).Inc()
}

// RecordBrandDecision records a submitted brand decision
func RecordBrandDecision(status string) {
	BrandDecisionsTotal.WithLabelValues(status).Inc()
}

// RecordAuditWrite records an audit trail write attempt
func RecordAuditWrite(action, result string) {
	AuditWritesTotal.WithLabelValues(action, result).Inc()
}

// RecordSignature records a signature attempt
func RecordSignature(role, outcome string) {
	SignaturesTotal.WithLabelValues(role, outcome).Inc()
}

// RecordEmailSend records an email dispatch attempt
func RecordEmailSend(outcome string) {
	EmailSendsTotal.WithLabelValues(outcome).Inc()
}

// RecordInvoiceTrigger records an invoice generation trigger
func RecordInvoiceTrigger(outcome string) {
	InvoiceTriggersTotal.WithLabelValues(outcome).Inc()
}
