package audit

import (
	"testing"
	"time"

	"github.com/crucial707/printdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestActionPhrase(t *testing.T) {
	assert.Equal(t, "Creó una máquina", ActionPhrase(models.ActionCreate, models.ResourceMachines))
	assert.Equal(t, "Actualizó un ticket", ActionPhrase(models.ActionUpdate, models.ResourceTickets))
	assert.Equal(t, "Eliminó un usuario", ActionPhrase(models.ActionDelete, models.ResourceUsers))
	assert.Equal(t, "Realizó una acción en recurso desconocido", ActionPhrase(models.Action("x"), models.Resource("y")))
}

func TestSummary(t *testing.T) {
	rec := models.AuditRecord{Action: models.ActionCreate, Resource: models.ResourceMachines, ResourceID: 7}
	assert.Equal(t, "Se creó la máquina con el ID: 7", Summary(rec))
}

func TestChanges_Update(t *testing.T) {
	rec := models.AuditRecord{
		Action: models.ActionUpdate,
		Details: models.AuditDetails{
			OldData: Snapshot{"id": 42, "estado": "Pendiente", "created_at": "c"},
			NewData: Snapshot{"id": 42, "estado": "Resuelto", "modified_at": "m"},
		},
	}

	assert.Equal(t, []FieldChange{
		{Field: "created_at", Old: `"c"`, New: NoValue},
		{Field: "estado", Old: `"Pendiente"`, New: `"Resuelto"`},
		{Field: "id", Old: "42", New: "42"},
		{Field: "modified_at", Old: NoValue, New: `"m"`},
	}, Changes(rec))
}

func TestChanges_CreateAndDeleteShowOneSide(t *testing.T) {
	create := models.AuditRecord{Action: models.ActionCreate, Details: models.AuditDetails{NewData: Snapshot{"id": 1}}}
	assert.Equal(t, []FieldChange{{Field: "id", Old: NoValue, New: "1"}}, Changes(create))

	del := models.AuditRecord{Action: models.ActionDelete, Details: models.AuditDetails{OldData: Snapshot{"id": 1}}}
	assert.Equal(t, []FieldChange{{Field: "id", Old: "1", New: NoValue}}, Changes(del))
}

func TestDetailText(t *testing.T) {
	rec := models.AuditRecord{
		Action:     models.ActionDelete,
		Resource:   models.ResourceTickets,
		ResourceID: 9,
		Details:    models.AuditDetails{OldData: Snapshot{"estado": "Resuelto", "id": 9}},
	}
	assert.Equal(t, "Eliminó un ticket con el ID: 9.\nDatos antiguos:\n  - estado: \"Resuelto\"\n  - id: 9", DetailText(rec))

	bare := models.AuditRecord{Action: models.ActionCreate, Resource: models.ResourceMachines, ResourceID: 3}
	assert.Equal(t, "Creó una máquina con el ID: 3 (detalles no disponibles)", DetailText(bare))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 10, 18, 19, 5, 0, 0, time.UTC)
	assert.Equal(t, "18 oct 2026, 19:05", FormatTimestamp(ts, nil))

	mx := time.FixedZone("CST", -6*3600)
	assert.Equal(t, "18 oct 2026, 13:05", FormatTimestamp(ts, mx))
}
