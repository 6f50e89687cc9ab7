// Package metrics exposes compaction metrics backed by Prometheus.
//
// Metrics are opt-in. Until InitRegistry is called every constructor in this
// package returns nil, and compactors given a nil Metrics skip collection
// entirely. A CLI run is short-lived, so the registry is not served over
// HTTP: WriteTextfile dumps it in the text exposition format for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registryMu sync.RWMutex
	registry   *prometheus.Registry
)

// InitRegistry enables metrics and returns the registry collectors are added
// to. Calling it again discards previously registered collectors.
func InitRegistry() *prometheus.Registry {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = prometheus.NewRegistry()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry != nil
}

// GetRegistry returns the active registry, or nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}

// Reset disables metrics. Intended for tests.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = nil
}

// WriteTextfile writes every registered metric to path. The file is written
// to a temporary name and renamed, so a concurrent scrape never sees a
// partial file.
func WriteTextfile(path string) error {
	reg := GetRegistry()
	if reg == nil {
		return fmt.Errorf("metrics are not enabled")
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile %q: %w", path, err)
	}
	return nil
}
