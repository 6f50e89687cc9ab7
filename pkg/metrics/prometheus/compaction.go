// Package prometheus implements pkg/metrics on top of client_golang.
//
// Importing it for side effects registers the constructors used by
// metrics.NewCompactionMetrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/defrag/pkg/compact"
	"github.com/marmos91/defrag/pkg/disk"
	"github.com/marmos91/defrag/pkg/metrics"
)

func init() {
	metrics.RegisterCompactionMetricsConstructor(NewCompactionMetrics)
}

// compactionMetrics is the Prometheus implementation of metrics.CompactionMetrics.
type compactionMetrics struct {
	compactions    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	blocksMoved    *prometheus.CounterVec
	filesRelocated prometheus.Counter
	fragments      prometheus.Counter
	classesPruned  prometheus.Counter
	diskBlocks     *prometheus.GaugeVec
}

// NewCompactionMetrics creates a new Prometheus-backed CompactionMetrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewCompactionMetrics() metrics.CompactionMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	return newCompactionMetrics(metrics.GetRegistry())
}

func newCompactionMetrics(reg prometheus.Registerer) *compactionMetrics {
	return &compactionMetrics{
		compactions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "defrag_compactions_total",
				Help: "Total number of compaction runs by policy",
			},
			[]string{"policy"}, // "block", "file"
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "defrag_compaction_duration_milliseconds",
				Help: "Duration of compaction runs in milliseconds",
				Buckets: []float64{
					0.01, // 10us - sample-sized maps
					0.1,  // 100us
					1,    // 1ms - puzzle-sized maps
					10,   // 10ms
					100,  // 100ms
					1000, // 1s - maps with millions of runs
				},
			},
			[]string{"policy"},
		),
		blocksMoved: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "defrag_blocks_moved_total",
				Help: "Total number of blocks written at a new offset by policy",
			},
			[]string{"policy"},
		),
		filesRelocated: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "defrag_files_relocated_total",
				Help: "Total number of whole files moved by the file policy",
			},
		),
		fragments: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "defrag_fragments_total",
				Help: "Total number of file fragments moved by the block policy",
			},
		),
		classesPruned: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "defrag_size_classes_pruned_total",
				Help: "Total number of exhausted free-list size classes discarded by the file policy",
			},
		),
		diskBlocks: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "defrag_disk_blocks",
				Help: "Blocks of the last input disk by state",
			},
			[]string{"state"}, // "used", "free"
		),
	}
}

// ObserveCompaction records one compaction run.
func (m *compactionMetrics) ObserveCompaction(r *compact.Result) {
	if m == nil || r == nil {
		return
	}

	policy := string(r.Policy)
	m.compactions.WithLabelValues(policy).Inc()
	m.duration.WithLabelValues(policy).Observe(float64(r.Duration.Microseconds()) / 1000.0)
	m.blocksMoved.WithLabelValues(policy).Add(float64(r.BlocksMoved))

	switch r.Policy {
	case compact.PolicyBlock:
		m.fragments.Add(float64(r.Fragments))
	case compact.PolicyFile:
		m.filesRelocated.Add(float64(r.FilesRelocated))
		m.classesPruned.Add(float64(r.ClassesPruned))
	}
}

// ObserveDisk records the block usage of an input disk.
func (m *compactionMetrics) ObserveDisk(d *disk.Disk) {
	if m == nil || d == nil {
		return
	}
	m.diskBlocks.WithLabelValues("used").Set(float64(d.Size() - d.FreeBlocks()))
	m.diskBlocks.WithLabelValues("free").Set(float64(d.FreeBlocks()))
}
