package models

import (
	"time"

	"gorm.io/datatypes"
)

// Action is the kind of mutation an audit record describes.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether a is create, update or delete.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// AuditDetails holds the row images attached to a record. Which side is set
// depends on the action: create has NewData, delete has OldData, update both.
type AuditDetails struct {
	OldData datatypes.JSONMap `json:"old_data,omitempty"`
	NewData datatypes.JSONMap `json:"new_data,omitempty"`
}

// AuditRecord is one row of the append-only audit log.
type AuditRecord struct {
	ID         int64        `json:"id"`
	Action     Action       `json:"action"`
	Resource   Resource     `json:"resource"`
	ResourceID int          `json:"resource_id"`
	UserID     int          `json:"user_id"`
	UserName   string       `json:"user_name"`
	UserRole   string       `json:"rol"`
	Details    AuditDetails `json:"details"`
	Timestamp  time.Time    `json:"timestamp"`
}
