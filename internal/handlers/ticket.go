package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/printdesk/internal/models"
	"github.com/crucial707/printdesk/internal/repo"
)

// TicketHandler serves /tickets.
type TicketHandler struct {
	Repo *repo.TicketRepo
}

// List returns every ticket with the printer name joined in.
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.Repo.List(r.Context())
	if err != nil {
		slog.Error("list tickets", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ticket")
	if !ok {
		return
	}
	t, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "ticket not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get ticket", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Create opens a ticket. New tickets start as Pendiente unless a state is given.
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MachineID  int    `json:"id_impresora" validate:"required,gt=0"`
		DamageType string `json:"tipo_danio" validate:"required,max=100"`
		Report     string `json:"reporte" validate:"required,max=2000"`
		Status     string `json:"estado" validate:"omitempty,oneof=Pendiente 'En proceso' Resuelto"`
		IsActive   *bool  `json:"is_active"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	t := models.Ticket{
		MachineID:  input.MachineID,
		DamageType: input.DamageType,
		Report:     input.Report,
		Status:     input.Status,
		IsActive:   true,
	}
	if t.Status == "" {
		t.Status = models.TicketPending
	}
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}

	created, err := h.Repo.Create(r.Context(), t)
	if pqCode(err) == pqForeignKeyViolation {
		JSONValidationError(w, "validation failed", map[string]string{"id_impresora": "unknown machine"}, http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("create ticket", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Location", "/tickets/"+strconv.Itoa(created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial change; absent fields keep their value.
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ticket")
	if !ok {
		return
	}
	var input struct {
		MachineID  *int    `json:"id_impresora" validate:"omitnil,gt=0"`
		DamageType *string `json:"tipo_danio" validate:"omitnil,min=1,max=100"`
		Report     *string `json:"reporte" validate:"omitnil,min=1,max=2000"`
		Status     *string `json:"estado" validate:"omitnil,oneof=Pendiente 'En proceso' Resuelto"`
		IsActive   *bool   `json:"is_active"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	t, err := h.Repo.Update(r.Context(), id, repo.TicketPatch{
		MachineID:  input.MachineID,
		DamageType: input.DamageType,
		Report:     input.Report,
		Status:     input.Status,
		IsActive:   input.IsActive,
	})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		JSONError(w, "ticket not found", http.StatusNotFound)
		return
	case pqCode(err) == pqForeignKeyViolation:
		JSONValidationError(w, "validation failed", map[string]string{"id_impresora": "unknown machine"}, http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("update ticket", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ticket")
	if !ok {
		return
	}
	err := h.Repo.Delete(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "ticket not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("delete ticket", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ticket deleted"})
}
