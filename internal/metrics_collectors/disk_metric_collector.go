package metrics_collectors

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/disk"
)

// StorageMetricCollector reports usage of the filesystem holding the
// credential image.
type StorageMetricCollector struct {
	Logger zerolog.Logger
	Path   string
}

func (d *StorageMetricCollector) Name() string {
	return "storage"
}

func (d *StorageMetricCollector) Collect(ctx context.Context) any {
	diskStats, err := disk.UsageWithContext(ctx, d.Path)
	if err != nil {
		d.Logger.Error().Err(err).Str("path", d.Path).Msg("Failed to get disk usage")
		return nil
	}
	return diskStats.UsedPercent
}

func (d *StorageMetricCollector) Unit() string {
	return "percentage"
}

func (d *StorageMetricCollector) Description() string {
	return "Percentage of space used on the filesystem holding the credential image."
}
