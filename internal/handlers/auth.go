package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/printdesk/internal/middleware"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/crucial707/printdesk/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Secret   []byte
	// TTL is the token lifetime.
	TTL time.Duration
}

// ==========================
// Login (usuario + password, verified against the bcrypt hash)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"usuario" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.UserRepo.GetByUsername(r.Context(), input.Username)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		slog.Error("login lookup", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	ttl := h.TTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	actor := models.Actor{ID: user.ID, Username: user.Username, Role: user.Role}
	signed, err := middleware.NewToken(h.Secret, actor, ttl, time.Now())
	if err != nil {
		slog.Error("sign token", "error", err)
		JSONError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": signed,
		"user":  user,
	})
}

// ==========================
// Me (identity carried by the bearer token)
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		JSONError(w, "missing authorization header", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, actor)
}
