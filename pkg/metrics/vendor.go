package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	VendorCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "vendor",
			Name:      "call_duration_seconds",
			Help:      "Outbound vendor API call latency in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"vendor", "operation", "status_code"},
	)

	VendorCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vendor",
			Name:      "calls_total",
			Help:      "Total number of outbound vendor API calls",
		},
		[]string{"vendor", "operation", "status_code"},
	)

	ReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "reconciliations_total",
			Help:      "Payment status reconciliations by resulting session status",
		},
		[]string{"status", "mismatch"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Payment events handed to the publisher",
		},
		[]string{"publisher", "type", "status"},
	)
)

func init() {
	Registry.MustRegister(VendorCallDuration, VendorCallsTotal, ReconciliationsTotal, EventsPublishedTotal)
}

// ObserveVendorCall records one outbound call. statusCode 0 means the request
// never got a response.
func ObserveVendorCall(vendor, operation string, statusCode int, started time.Time) {
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	VendorCallDuration.WithLabelValues(vendor, operation, code).Observe(time.Since(started).Seconds())
	VendorCallsTotal.WithLabelValues(vendor, operation, code).Inc()
}
