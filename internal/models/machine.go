package models

import "time"

// Machine states as offered by the client forms.
const (
	MachineOperational   = "Operativa"
	MachineInRepair      = "En reparación"
	MachineOutOfService  = "Fuera de servicio"
	MachineInMaintenance = "En Mantenimiento"
)

// Machine is an office printer.
type Machine struct {
	ID           int       `json:"id"`
	Building     string    `json:"edificio"`
	Office       string    `json:"oficina"`
	Printer      string    `json:"impresora"`
	SerialNumber string    `json:"no_serie"`
	Status       string    `json:"estado"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}
