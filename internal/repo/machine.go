package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/printdesk/internal/models"
)

const machineColumns = `id, edificio, oficina, impresora, no_serie, estado, is_active, created_at, modified_at`

// MachinePatch carries a partial machine update. Nil fields keep their stored value.
type MachinePatch struct {
	Building     *string
	Office       *string
	Printer      *string
	SerialNumber *string
	Status       *string
	IsActive     *bool
}

// ========================
// REPOSITORY STRUCT
// ========================

type MachineRepo struct {
	DB *sql.DB
}

func NewMachineRepo(db *sql.DB) *MachineRepo {
	return &MachineRepo{DB: db}
}

func scanMachine(row interface{ Scan(...any) error }) (*models.Machine, error) {
	m := &models.Machine{}
	err := row.Scan(&m.ID, &m.Building, &m.Office, &m.Printer, &m.SerialNumber, &m.Status, &m.IsActive, &m.CreatedAt, &m.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ========================
// LIST MACHINES
// ========================

func (r *MachineRepo) List(ctx context.Context) ([]models.Machine, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+machineColumns+` FROM maquinas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	machines := []models.Machine{}
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		machines = append(machines, *m)
	}
	return machines, rows.Err()
}

// ========================
// GET MACHINE BY ID
// ========================

func (r *MachineRepo) GetByID(ctx context.Context, id int) (*models.Machine, error) {
	return scanMachine(r.DB.QueryRowContext(ctx,
		`SELECT `+machineColumns+` FROM maquinas WHERE id = $1`, id))
}

// ========================
// CREATE MACHINE
// ========================

func (r *MachineRepo) Create(ctx context.Context, m models.Machine) (*models.Machine, error) {
	return scanMachine(r.DB.QueryRowContext(ctx,
		`INSERT INTO maquinas (edificio, oficina, impresora, no_serie, estado, is_active, created_at, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		 RETURNING `+machineColumns,
		m.Building, m.Office, m.Printer, m.SerialNumber, m.Status, m.IsActive,
	))
}

// ========================
// UPDATE MACHINE BY ID
// ========================

func (r *MachineRepo) Update(ctx context.Context, id int, p MachinePatch) (*models.Machine, error) {
	return scanMachine(r.DB.QueryRowContext(ctx,
		`UPDATE maquinas
		 SET edificio = COALESCE($1, edificio), oficina = COALESCE($2, oficina), impresora = COALESCE($3, impresora),
		     no_serie = COALESCE($4, no_serie), estado = COALESCE($5, estado), is_active = COALESCE($6, is_active),
		     modified_at = NOW()
		 WHERE id = $7
		 RETURNING `+machineColumns,
		p.Building, p.Office, p.Printer, p.SerialNumber, p.Status, p.IsActive, id,
	))
}

// ========================
// DELETE MACHINE BY ID
// ========================

func (r *MachineRepo) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.DB, `DELETE FROM maquinas WHERE id = $1`, id)
}

func deleteByID(ctx context.Context, db *sql.DB, query string, id int) error {
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
