package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crucial707/printdesk/internal/models"
	"gorm.io/datatypes"
)

const auditColumns = `id, action, resource, resource_id, user_id, user_name, user_role, details, timestamp`

// AuditRepo persists audit log entries. The table is append-only: there is
// deliberately no update or delete method.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert writes rec and returns it with the store-assigned id and timestamp.
func (r *AuditRepo) Insert(ctx context.Context, rec models.AuditRecord) (models.AuditRecord, error) {
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return rec, fmt.Errorf("encode details: %w", err)
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO audit_logs (action, resource, resource_id, user_id, user_name, user_role, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, timestamp`,
		string(rec.Action), string(rec.Resource), rec.ResourceID, rec.UserID, rec.UserName, rec.UserRole, datatypes.JSON(details),
	).Scan(&rec.ID, &rec.Timestamp)
	return rec, err
}

// List returns every audit entry, newest first. Equal timestamps fall back to insertion order.
func (r *AuditRepo) List(ctx context.Context) ([]models.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_logs ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.AuditRecord{}
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetByID returns one audit entry or ErrNotFound.
func (r *AuditRepo) GetByID(ctx context.Context, id int64) (*models.AuditRecord, error) {
	rec, err := scanAuditRecord(r.db.QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audit_logs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func scanAuditRecord(row interface{ Scan(...any) error }) (*models.AuditRecord, error) {
	var (
		rec              models.AuditRecord
		action, resource string
		details          datatypes.JSON
	)
	if err := row.Scan(&rec.ID, &action, &resource, &rec.ResourceID, &rec.UserID, &rec.UserName, &rec.UserRole, &details, &rec.Timestamp); err != nil {
		return nil, err
	}
	rec.Action = models.Action(action)
	rec.Resource = models.Resource(resource)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &rec.Details); err != nil {
			return nil, fmt.Errorf("decode details of audit record %d: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
