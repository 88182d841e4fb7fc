package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SourceFetchLatency tracks the latency of manifest fetches
	SourceFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "release_gate",
			Subsystem: "manifest_source",
			Name:      "fetch_latency_seconds",
			Help:      "Time spent in ManifestSource.Fetch()",
		},
		[]string{"source"},
	)

	// SourceFetchErrors tracks manifest fetch errors
	SourceFetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "release_gate",
			Subsystem: "manifest_source",
			Name:      "fetch_errors_total",
			Help:      "Number of manifest fetch errors",
		},
		[]string{"source", "error_type"},
	)

	// Decisions counts gate decisions by outcome
	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "release_gate",
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Number of gate decisions",
		},
		[]string{"should_build"},
	)

	// PolicyDenials counts publish policy denials
	PolicyDenials = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "release_gate",
			Subsystem: "policy",
			Name:      "denials_total",
			Help:      "Number of publish requests denied by policy",
		},
	)
)

// Registry holds the release gate metrics.
var Registry = prometheus.NewRegistry()

var registerOnce sync.Once

// MustRegister registers all metrics with Registry. Repeated calls are no-ops.
func MustRegister() {
	registerOnce.Do(func() {
		Registry.MustRegister(
			SourceFetchLatency,
			SourceFetchErrors,
			Decisions,
			PolicyDenials,
		)
	})
}

// WriteTextfile writes the current metric values in the node exporter
// textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
