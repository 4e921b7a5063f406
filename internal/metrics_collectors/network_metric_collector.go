package metrics_collectors

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/net"
)

// WiFiTraffic holds the byte counters of the wireless interface.
type WiFiTraffic struct {
	BytesRecv uint64 `json:"bytes_recv"`
	BytesSent uint64 `json:"bytes_sent"`
}

// WiFiMetricCollector reports traffic counters for one interface.
type WiFiMetricCollector struct {
	Logger    zerolog.Logger
	Interface string
}

// Name returns the identifier for the network metric collector.
func (n *WiFiMetricCollector) Name() string {
	return "wifi"
}

// Collect retrieves the counters of the configured interface.
func (n *WiFiMetricCollector) Collect(ctx context.Context) any {
	netStats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		n.Logger.Error().Err(err).Msg("Failed to retrieve network statistics")
		return nil
	}

	for _, s := range netStats {
		if s.Name == n.Interface {
			return WiFiTraffic{BytesRecv: s.BytesRecv, BytesSent: s.BytesSent}
		}
	}

	n.Logger.Debug().Str("iface", n.Interface).Msg("Interface not found in network statistics")
	return nil
}

func (n *WiFiMetricCollector) Unit() string {
	return "bytes"
}

func (n *WiFiMetricCollector) Description() string {
	return "Bytes received and sent on the wireless interface."
}
