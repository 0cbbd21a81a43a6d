package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/storage"
)

const EventDatasetReloaded = "dataset_reloaded"

type DatasetJobs struct {
	source    attendance.CachedRecordSource
	hub       *sse.Hub
	storage   storage.FileStorage
	exportDir string
	exportTTL time.Duration
}

func NewDatasetJobs(source attendance.CachedRecordSource, hub *sse.Hub, fileStorage storage.FileStorage, exportDir string, exportTTL time.Duration) *DatasetJobs {
	return &DatasetJobs{
		source:    source,
		hub:       hub,
		storage:   fileStorage,
		exportDir: exportDir,
		exportTTL: exportTTL,
	}
}

func (j *DatasetJobs) RegisterJobs(scheduler *Scheduler, refreshInterval time.Duration) {
	scheduler.AddJob(Job{Name: "refresh_attendance_source", Interval: refreshInterval, Fn: j.RefreshSource})
	scheduler.AddJob(Job{Name: "prune_exports", Interval: j.exportTTL, RunOnStart: true, Fn: j.PruneExports})
}

// RefreshSource reloads the export when it changed and notifies stream subscribers.
func (j *DatasetJobs) RefreshSource(ctx context.Context) error {
	changed, err := j.source.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh attendance source: %w", err)
	}
	if !changed {
		return nil
	}

	table, err := j.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load refreshed attendance source: %w", err)
	}

	slog.Info("Cron: Attendance export changed", "fingerprint", table.Fingerprint, "rows", len(table.Rows))
	j.hub.Publish(sse.TopicDataset, sse.Event{
		Event: EventDatasetReloaded,
		Data: map[string]interface{}{
			"fingerprint": table.Fingerprint,
			"rows":        len(table.Rows),
			"loaded_at":   table.LoadedAt.Format(time.RFC3339),
		},
	})
	return nil
}

// PruneExports removes generated files whose download links have expired.
func (j *DatasetJobs) PruneExports(ctx context.Context) error {
	removed, err := j.storage.Prune(ctx, j.exportDir, time.Now().Add(-j.exportTTL))
	if err != nil {
		return fmt.Errorf("failed to prune exports: %w", err)
	}
	if removed > 0 {
		slog.Info("Cron: Pruned expired exports", "removed", removed)
	}
	return nil
}
