package metrics

import (
	"github.com/marmos91/defrag/pkg/compact"
	"github.com/marmos91/defrag/pkg/disk"
)

// CompactionMetrics records compaction runs and the disks they ran on.
//
// It satisfies compact.Metrics, so it can be passed straight to
// compact.Options.
type CompactionMetrics interface {
	compact.Metrics

	// ObserveDisk records the size of the input disk, split into used and
	// free blocks.
	ObserveDisk(d *disk.Disk)
}

// NewCompactionMetrics creates a new Prometheus-backed CompactionMetrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called). Callers
// pass the result to compact.Options unchanged:
//
//	metrics.InitRegistry()
//	m := metrics.NewCompactionMetrics()
//	c, _ := compact.New(compact.PolicyFile, compact.Options{Metrics: m})
func NewCompactionMetrics() CompactionMetrics {
	if !IsEnabled() || newPrometheusCompactionMetrics == nil {
		return nil
	}
	return newPrometheusCompactionMetrics()
}

// newPrometheusCompactionMetrics is set by pkg/metrics/prometheus.
// This indirection avoids import cycles while keeping the API clean
var newPrometheusCompactionMetrics func() CompactionMetrics

// RegisterCompactionMetricsConstructor registers the Prometheus constructor.
// Called by pkg/metrics/prometheus during package initialization.
func RegisterCompactionMetricsConstructor(constructor func() CompactionMetrics) {
	newPrometheusCompactionMetrics = constructor
}
