package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/printdesk/internal/models"
)

// SnapshotRepo reads whole rows of the auditable tables as column maps.
type SnapshotRepo struct {
	DB *sql.DB
}

// NewSnapshotRepo returns a new SnapshotRepo.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{DB: db}
}

// Snapshot returns every column of the row, keyed by column name, or nil when the row does not exist.
// The table name comes from the closed models.Resource lookup, so nothing from the request reaches the SQL text.
func (r *SnapshotRepo) Snapshot(ctx context.Context, resource models.Resource, id int) (map[string]any, error) {
	table := resource.Table()
	if table == "" {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT * FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, c := range cols {
		if b, ok := vals[i].([]byte); ok {
			row[c] = string(b)
			continue
		}
		row[c] = vals[i]
	}
	return row, rows.Err()
}
