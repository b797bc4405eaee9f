package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/printdesk/internal/models"
)

var machineCols = []string{"id", "edificio", "oficina", "impresora", "no_serie", "estado", "is_active", "created_at", "modified_at"}

func TestMachineRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO maquinas \(edificio, oficina, impresora, no_serie, estado, is_active, created_at, modified_at\)`).
		WithArgs("A", "101", "HP 400", "SN1", "Operativa", true).
		WillReturnRows(sqlmock.NewRows(machineCols).AddRow(7, "A", "101", "HP 400", "SN1", "Operativa", true, now, now))

	repo := NewMachineRepo(db)
	m, err := repo.Create(context.Background(), models.Machine{
		Building: "A", Office: "101", Printer: "HP 400", SerialNumber: "SN1", Status: "Operativa", IsActive: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID != 7 || !m.CreatedAt.Equal(now) {
		t.Errorf("unexpected machine: %+v", m)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMachineRepo_Update_Coalesces(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	office := "202"
	mock.ExpectQuery(`UPDATE maquinas\s+SET edificio = COALESCE\(\$1, edificio\)`).
		WithArgs(nil, office, nil, nil, nil, nil, 7).
		WillReturnRows(sqlmock.NewRows(machineCols).AddRow(7, "A", office, "HP 400", "SN1", "Operativa", true, now, now))

	repo := NewMachineRepo(db)
	m, err := repo.Update(context.Background(), 7, MachinePatch{Office: &office})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.Office != "202" || m.Building != "A" {
		t.Errorf("unexpected machine: %+v", m)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMachineRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM maquinas WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(machineCols))

	repo := NewMachineRepo(db)
	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMachineRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM maquinas WHERE id = \$1`).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM maquinas WHERE id = \$1`).WithArgs(8).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewMachineRepo(db)
	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Errorf("Delete(7): %v", err)
	}
	if err := repo.Delete(context.Background(), 8); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(8): got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
