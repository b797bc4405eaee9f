package repo

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "usuario", "password_hash", "rol", "created_at", "modified_at"}

// bcryptOf matches a bcrypt hash of password.
type bcryptOf string

func (p bcryptOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && bcrypt.CompareHashAndPassword([]byte(s), []byte(p)) == nil
}

func TestUserRepo_Create_HashesPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO usuarios \(usuario, password_hash, rol, created_at, modified_at\)`).
		WithArgs("alice", bcryptOf("secreto1"), "tecnico").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "$2a$10$x", "tecnico", now, now))

	repo := NewUserRepo(db)
	user, err := repo.Create(context.Background(), "alice", "secreto1", "tecnico")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" || user.Role != "tecnico" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, usuario, password_hash, rol`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows(userCols))

	repo := NewUserRepo(db)
	_, err = repo.GetByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM usuarios WHERE usuario = \$1`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "bob", "$2a$10$y", "administrador", now, now))

	repo := NewUserRepo(db)
	user, err := repo.GetByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if user.PasswordHash != "$2a$10$y" || user.Role != "administrador" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Update_KeepsPasswordWhenAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	role := "administrador"
	mock.ExpectQuery(`UPDATE usuarios`).
		WithArgs(nil, nil, role, 2).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "bob", "$2a$10$y", role, now, now))

	repo := NewUserRepo(db)
	if _, err := repo.Update(context.Background(), 2, UserPatch{Role: &role}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
