package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/printdesk/internal/models"
)

// ErrInvalidRecord is returned by Record for inputs that cannot form a valid audit record.
var ErrInvalidRecord = errors.New("invalid audit record")

// Columns that change only because a write happened; they are left out of update diffs.
const (
	createdAtColumn  = "created_at"
	modifiedAtColumn = "modified_at"
)

// RecordWriter appends one audit record and returns it as stored.
type RecordWriter interface {
	Insert(ctx context.Context, rec models.AuditRecord) (models.AuditRecord, error)
}

// Recorder assembles and writes audit records.
type Recorder struct {
	store RecordWriter
}

// NewRecorder returns a Recorder writing to store.
func NewRecorder(store RecordWriter) *Recorder {
	return &Recorder{store: store}
}

// Record writes one audit record. The id and timestamp come from the store.
func (r *Recorder) Record(ctx context.Context, action models.Action, resource models.Resource, resourceID int, actor models.Actor, details models.AuditDetails) (models.AuditRecord, error) {
	if !action.Valid() || !resource.Valid() {
		return models.AuditRecord{}, fmt.Errorf("%w: action %q on resource %q", ErrInvalidRecord, action, resource)
	}
	if !sameRow(details.OldData, details.NewData) {
		return models.AuditRecord{}, fmt.Errorf("%w: old and new data describe different rows", ErrInvalidRecord)
	}

	return r.store.Insert(ctx, models.AuditRecord{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		UserID:     actor.ID,
		UserName:   actor.Username,
		UserRole:   actor.Role,
		Details:    details,
	})
}

// BuildDetails shapes the row images for action:
// create keeps after, delete keeps before, update keeps both minus the write timestamps.
func BuildDetails(action models.Action, before, after Snapshot) models.AuditDetails {
	switch action {
	case models.ActionCreate:
		return models.AuditDetails{NewData: after}
	case models.ActionDelete:
		return models.AuditDetails{OldData: before}
	case models.ActionUpdate:
		return models.AuditDetails{
			OldData: without(before, modifiedAtColumn),
			NewData: without(after, createdAtColumn),
		}
	}
	return models.AuditDetails{}
}

func without(s Snapshot, key string) Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// sameRow is false only when both sides carry an id and the ids differ.
// A placeholder or empty side has no id and is accepted.
func sameRow(before, after Snapshot) bool {
	oldID, ok := before["id"]
	if !ok {
		return true
	}
	newID, ok := after["id"]
	if !ok {
		return true
	}
	return fmt.Sprint(oldID) == fmt.Sprint(newID)
}
