package models

import "time"

const (
	TicketPending    = "Pendiente"
	TicketInProgress = "En proceso"
	TicketResolved   = "Resuelto"
)

// Ticket is a repair request raised against a machine.
type Ticket struct {
	ID          int       `json:"id"`
	MachineID   int       `json:"id_impresora"`
	DamageType  string    `json:"tipo_danio"`
	Report      string    `json:"reporte"`
	Status      string    `json:"estado"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	MachineName *string   `json:"impresora_nombre,omitempty"`
}
