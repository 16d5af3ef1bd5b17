package azure

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry collects the CLI call metrics of this process.
var Registry = prometheus.NewRegistry()

var (
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visiondeploy",
			Subsystem: "cli",
			Name:      "calls_total",
			Help:      "Total number of management-plane CLI calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	callLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visiondeploy",
			Subsystem: "cli",
			Name:      "latency_seconds",
			Help:      "Duration of management-plane CLI calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2min
		},
		[]string{"operation"},
	)
)

// Call results recorded in the result label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultIgnored = "ignored"
)

func init() {
	Registry.MustRegister(callsTotal, callLatency)
}

func recordCall(op OperationID, result string, duration time.Duration) {
	callsTotal.WithLabelValues(string(op), result).Inc()
	callLatency.WithLabelValues(string(op)).Observe(duration.Seconds())
}

// WriteMetrics writes the current metrics to path in the Prometheus text
// format, suitable for the node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
