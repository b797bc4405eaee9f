package audit

import (
	"context"
	"log/slog"

	"github.com/crucial707/printdesk/internal/metrics"
	"github.com/crucial707/printdesk/internal/models"
	"gorm.io/datatypes"
)

// CaptureErrorKey marks a placeholder snapshot taken when the store could not be read.
const CaptureErrorKey = "capture_error"

// Snapshot is a full-column image of one row, keyed by column name.
type Snapshot = datatypes.JSONMap

// SnapshotReader reads one row of an auditable table. A missing row is (nil, nil).
type SnapshotReader interface {
	Snapshot(ctx context.Context, resource models.Resource, id int) (map[string]any, error)
}

// Capturer takes row snapshots for the pipeline. It never fails: store errors
// are logged and turned into a placeholder so the mutation can go ahead.
type Capturer struct {
	store SnapshotReader
	log   *slog.Logger
}

// NewCapturer returns a Capturer reading from store.
func NewCapturer(store SnapshotReader, log *slog.Logger) *Capturer {
	if log == nil {
		log = slog.Default()
	}
	return &Capturer{store: store, log: log}
}

// Capture returns the current row, an empty snapshot when it does not exist,
// or a placeholder when the read failed. Redacted columns are dropped.
func (c *Capturer) Capture(ctx context.Context, resource models.Resource, id int) Snapshot {
	row, err := c.store.Snapshot(ctx, resource, id)
	if err != nil {
		c.log.Error("audit snapshot failed", "resource", resource, "resource_id", id, "error", err)
		metrics.IncAuditFailure("capture")
		return Snapshot{CaptureErrorKey: "snapshot unavailable"}
	}

	snap := make(Snapshot, len(row))
	for k, v := range row {
		snap[k] = v
	}
	for _, col := range resource.RedactedColumns() {
		delete(snap, col)
	}
	return snap
}
