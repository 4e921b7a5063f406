package metrics_collectors

import (
	"context"

	"github.com/benmeehan/otp-display/internal/utils"
)

// MetricsRegistry holds the collectors reported with each heartbeat, in registration order.
type MetricsRegistry struct {
	collectors []MetricCollector
	enabled    map[string]struct{}
}

// NewMetricsRegistry creates a registry that accepts only the named collectors.
func NewMetricsRegistry(enabled []string) *MetricsRegistry {
	return &MetricsRegistry{
		enabled: utils.SliceToSet(enabled),
	}
}

// Register adds a collector if it is enabled. It reports whether it was added.
func (r *MetricsRegistry) Register(collector MetricCollector) bool {
	if _, ok := r.enabled[collector.Name()]; !ok {
		return false
	}
	r.collectors = append(r.collectors, collector)
	return true
}

// GetCollectors returns all the metric collectors registered in the registry.
func (r *MetricsRegistry) GetCollectors() []MetricCollector {
	return r.collectors
}

// CollectAll runs every collector and keys the non-nil results by name.
func (r *MetricsRegistry) CollectAll(ctx context.Context) map[string]any {
	out := make(map[string]any, len(r.collectors))
	for _, c := range r.collectors {
		if v := c.Collect(ctx); v != nil {
			out[c.Name()] = v
		}
	}
	return out
}
