package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/printdesk/internal/models"
)

func TestSnapshotRepo_Snapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM tickets WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "estado", "created_at"}).
			AddRow(42, []byte("Pendiente"), now))

	repo := NewSnapshotRepo(db)
	row, err := repo.Snapshot(context.Background(), models.ResourceTickets, 42)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if row["estado"] != "Pendiente" {
		t.Errorf("estado: got %#v, want string Pendiente", row["estado"])
	}
	if len(row) != 3 {
		t.Errorf("columns: got %d", len(row))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSnapshotRepo_Snapshot_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT \* FROM maquinas WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewSnapshotRepo(db)
	row, err := repo.Snapshot(context.Background(), models.ResourceMachines, 7)
	if err != nil || row != nil {
		t.Errorf("Snapshot: got %v, %v; want nil, nil", row, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSnapshotRepo_Snapshot_UnknownResourceNeverQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewSnapshotRepo(db)
	if _, err := repo.Snapshot(context.Background(), models.Resource("maquinas; DROP TABLE x"), 1); err == nil {
		t.Error("expected error for unknown resource")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
