package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/printdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, usuario, password_hash, rol, created_at, modified_at`

// UserPatch carries a partial user update. Password is plain text and is hashed before storing.
type UserPatch struct {
	Username *string
	Password *string
	Role     *string
}

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, password, role string) (*models.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return scanUser(r.DB.QueryRowContext(ctx,
		`INSERT INTO usuarios (usuario, password_hash, rol, created_at, modified_at)
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING `+userColumns,
		username, hash, role,
	))
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id))
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE usuario = $1`, username))
}

// ==========================
// Update User
// ==========================
func (r *UserRepo) Update(ctx context.Context, id int, p UserPatch) (*models.User, error) {
	var hash *string
	if p.Password != nil {
		h, err := hashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}
	return scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE usuarios
		 SET usuario = COALESCE($1, usuario), password_hash = COALESCE($2, password_hash), rol = COALESCE($3, rol),
		     modified_at = NOW()
		 WHERE id = $4
		 RETURNING `+userColumns,
		p.Username, hash, p.Role, id,
	))
}

// ==========================
// Delete User
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.DB, `DELETE FROM usuarios WHERE id = $1`, id)
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
