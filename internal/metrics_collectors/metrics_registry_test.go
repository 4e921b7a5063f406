package metrics_collectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticCollector struct {
	name  string
	value any
}

func (s *staticCollector) Name() string                { return s.name }
func (s *staticCollector) Collect(context.Context) any { return s.value }
func (s *staticCollector) Unit() string                { return "count" }
func (s *staticCollector) Description() string         { return "static test value" }

func TestRegistryAcceptsOnlyEnabledCollectors(t *testing.T) {
	r := NewMetricsRegistry([]string{"memory", "uptime"})

	assert.True(t, r.Register(&staticCollector{name: "memory", value: 12.5}))
	assert.False(t, r.Register(&staticCollector{name: "cpu", value: 1.0}))
	assert.True(t, r.Register(&staticCollector{name: "uptime", value: uint64(60)}))

	assert.Len(t, r.GetCollectors(), 2)
	assert.Equal(t, "memory", r.GetCollectors()[0].Name())
}

func TestCollectAllSkipsUnavailableValues(t *testing.T) {
	r := NewMetricsRegistry([]string{"memory", "uptime"})
	r.Register(&staticCollector{name: "memory", value: 12.5})
	r.Register(&staticCollector{name: "uptime", value: nil})

	assert.Equal(t, map[string]any{"memory": 12.5}, r.CollectAll(context.Background()))
}
