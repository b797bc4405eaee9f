package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/printdesk/internal/models"
	"github.com/crucial707/printdesk/internal/repo"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo *repo.UserRepo
}

// ==========================
// Create User (role defaults to tecnico)
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"usuario" validate:"required,min=3,max=50"`
		Password string `json:"password" validate:"required,min=6,max=72"`
		Role     string `json:"rol" validate:"omitempty,oneof=tecnico administrador"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}
	role := input.Role
	if role == "" {
		role = models.RoleTechnician
	}

	user, err := h.Repo.Create(r.Context(), input.Username, input.Password, role)
	if pqCode(err) == pqUniqueViolation {
		JSONError(w, "username already exists", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("create user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Location", "/users/"+strconv.Itoa(user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.List(r.Context())
	if err != nil {
		slog.Error("list users", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ==========================
// Get User
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}
	user, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get user", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ==========================
// Update User (absent fields keep their value; a new password is re-hashed)
// ==========================
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}
	var input struct {
		Username *string `json:"usuario" validate:"omitnil,min=3,max=50"`
		Password *string `json:"password" validate:"omitnil,min=6,max=72"`
		Role     *string `json:"rol" validate:"omitnil,oneof=tecnico administrador"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.Repo.Update(r.Context(), id, repo.UserPatch{
		Username: input.Username,
		Password: input.Password,
		Role:     input.Role,
	})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		JSONError(w, "user not found", http.StatusNotFound)
		return
	case pqCode(err) == pqUniqueViolation:
		JSONError(w, "username already exists", http.StatusConflict)
		return
	case err != nil:
		slog.Error("update user", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ==========================
// Delete User
// ==========================
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}
	err := h.Repo.Delete(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("delete user", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
