package checkpoints

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "checkpoint"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Estimated fraction of the initial sync that has been verified.
	SyncProgress metrics.Gauge
	// Height of the highest enforced checkpoint.
	TotalBlocksEstimate metrics.Gauge
	// Number of blocks rejected because they contradict a checkpoint.
	Mismatches metrics.Counter
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		SyncProgress: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "sync_progress",
			Help:      "Estimated fraction of the initial sync that has been verified.",
		}, labels).With(labelsAndValues...),
		TotalBlocksEstimate: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "total_blocks_estimate",
			Help:      "Height of the highest enforced checkpoint.",
		}, labels).With(labelsAndValues...),
		Mismatches: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "mismatches",
			Help:      "Number of blocks rejected because they contradict a checkpoint.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		SyncProgress:        discard.NewGauge(),
		TotalBlocksEstimate: discard.NewGauge(),
		Mismatches:          discard.NewCounter(),
	}
}
