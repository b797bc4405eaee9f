package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuditRecordsTotal counts audit records written by action and resource.
	AuditRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_records_total",
			Help: "Total number of audit records written",
		},
		[]string{"action", "resource"},
	)

	// AuditFailuresTotal counts swallowed audit failures by stage (capture, write).
	AuditFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_failures_total",
			Help: "Total number of audit pipeline failures by stage",
		},
		[]string{"stage"},
	)

	// AuditPending is the number of post-mutation audit writes in flight.
	AuditPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_pending_writes",
			Help: "Number of audit writes scheduled but not finished",
		},
	)

	// ReportsTotal counts audit exports by format (pdf, xlsx) and outcome (ok, error).
	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_reports_total",
			Help: "Total number of audit exports rendered",
		},
		[]string{"format", "outcome"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuditRecordsTotal, AuditFailuresTotal, AuditPending, ReportsTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /tickets/42 -> /tickets/{id}, /audit-logs/7/changes -> /audit-logs/{id}/changes.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAuditRecorded counts one written audit record.
func IncAuditRecorded(action, resource string) {
	AuditRecordsTotal.WithLabelValues(action, resource).Inc()
}

// IncAuditFailure counts one swallowed failure in the given stage.
func IncAuditFailure(stage string) {
	AuditFailuresTotal.WithLabelValues(stage).Inc()
}

// IncAuditPending / DecAuditPending bracket a background audit write.
func IncAuditPending() {
	AuditPending.Inc()
}

func DecAuditPending() {
	AuditPending.Dec()
}

// IncReport counts one export attempt.
func IncReport(format, outcome string) {
	ReportsTotal.WithLabelValues(format, outcome).Inc()
}
