package models

import "time"

const (
	RoleTechnician = "tecnico"
	RoleAdmin      = "administrador"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"usuario"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"rol"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// Actor is the verified identity behind a request, taken from the bearer token.
type Actor struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
