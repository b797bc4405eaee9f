package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/printdesk/internal/models"
)

const ticketColumns = `id, id_impresora, tipo_danio, reporte, estado, is_active, created_at, modified_at`

// TicketPatch carries a partial ticket update. Nil fields keep their stored value.
type TicketPatch struct {
	MachineID  *int
	DamageType *string
	Report     *string
	Status     *string
	IsActive   *bool
}

// TicketRepo persists repair tickets.
type TicketRepo struct {
	DB *sql.DB
}

// NewTicketRepo returns a new TicketRepo.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{DB: db}
}

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	t := &models.Ticket{}
	err := row.Scan(&t.ID, &t.MachineID, &t.DamageType, &t.Report, &t.Status, &t.IsActive, &t.CreatedAt, &t.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns every ticket with the name of its printer, oldest first.
func (r *TicketRepo) List(ctx context.Context) ([]models.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT t.id, t.id_impresora, t.tipo_danio, t.reporte, t.estado, t.is_active, t.created_at, t.modified_at,
		       m.impresora
		FROM tickets t
		LEFT JOIN maquinas m ON t.id_impresora = m.id
		ORDER BY t.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		var name sql.NullString
		if err := rows.Scan(&t.ID, &t.MachineID, &t.DamageType, &t.Report, &t.Status, &t.IsActive, &t.CreatedAt, &t.ModifiedAt, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			t.MachineName = &name.String
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// GetByID returns one ticket or ErrNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id int) (*models.Ticket, error) {
	return scanTicket(r.DB.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
}

// Create inserts a ticket and returns the stored row.
func (r *TicketRepo) Create(ctx context.Context, t models.Ticket) (*models.Ticket, error) {
	return scanTicket(r.DB.QueryRowContext(ctx,
		`INSERT INTO tickets (id_impresora, tipo_danio, reporte, estado, is_active, created_at, modified_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 RETURNING `+ticketColumns,
		t.MachineID, t.DamageType, t.Report, t.Status, t.IsActive,
	))
}

// Update applies p to the ticket and bumps modified_at.
func (r *TicketRepo) Update(ctx context.Context, id int, p TicketPatch) (*models.Ticket, error) {
	return scanTicket(r.DB.QueryRowContext(ctx,
		`UPDATE tickets
		 SET id_impresora = COALESCE($1, id_impresora), tipo_danio = COALESCE($2, tipo_danio),
		     reporte = COALESCE($3, reporte), estado = COALESCE($4, estado), is_active = COALESCE($5, is_active),
		     modified_at = NOW()
		 WHERE id = $6
		 RETURNING `+ticketColumns,
		p.MachineID, p.DamageType, p.Report, p.Status, p.IsActive, id,
	))
}

// Delete removes a ticket; ErrNotFound when nothing was deleted.
func (r *TicketRepo) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.DB, `DELETE FROM tickets WHERE id = $1`, id)
}
