package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/printdesk/internal/models"
	"github.com/crucial707/printdesk/internal/repo"
)

type MachineHandler struct {
	Repo *repo.MachineRepo
}

// ==========================
// List Machines
// ==========================
func (h *MachineHandler) List(w http.ResponseWriter, r *http.Request) {
	machines, err := h.Repo.List(r.Context())
	if err != nil {
		slog.Error("list machines", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, machines)
}

// ==========================
// Get Machine
// ==========================
func (h *MachineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "machine")
	if !ok {
		return
	}
	m, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "machine not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get machine", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ==========================
// Create Machine
// ==========================
func (h *MachineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Building     string `json:"edificio" validate:"required,max=100"`
		Office       string `json:"oficina" validate:"required,max=100"`
		Printer      string `json:"impresora" validate:"required,max=150"`
		SerialNumber string `json:"no_serie" validate:"required,max=100"`
		Status       string `json:"estado" validate:"omitempty,oneof=Operativa 'En reparación' 'Fuera de servicio' 'En Mantenimiento'"`
		IsActive     *bool  `json:"is_active"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	m := models.Machine{
		Building:     input.Building,
		Office:       input.Office,
		Printer:      input.Printer,
		SerialNumber: input.SerialNumber,
		Status:       input.Status,
		IsActive:     true,
	}
	if m.Status == "" {
		m.Status = models.MachineOperational
	}
	if input.IsActive != nil {
		m.IsActive = *input.IsActive
	}

	created, err := h.Repo.Create(r.Context(), m)
	if err != nil {
		slog.Error("create machine", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Location", "/machines/"+strconv.Itoa(created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// ==========================
// Update Machine (absent fields keep their value)
// ==========================
func (h *MachineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "machine")
	if !ok {
		return
	}
	var input struct {
		Building     *string `json:"edificio" validate:"omitnil,min=1,max=100"`
		Office       *string `json:"oficina" validate:"omitnil,min=1,max=100"`
		Printer      *string `json:"impresora" validate:"omitnil,min=1,max=150"`
		SerialNumber *string `json:"no_serie" validate:"omitnil,min=1,max=100"`
		Status       *string `json:"estado" validate:"omitnil,oneof=Operativa 'En reparación' 'Fuera de servicio' 'En Mantenimiento'"`
		IsActive     *bool   `json:"is_active"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	m, err := h.Repo.Update(r.Context(), id, repo.MachinePatch{
		Building:     input.Building,
		Office:       input.Office,
		Printer:      input.Printer,
		SerialNumber: input.SerialNumber,
		Status:       input.Status,
		IsActive:     input.IsActive,
	})
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "machine not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("update machine", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ==========================
// Delete Machine
// ==========================
func (h *MachineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "machine")
	if !ok {
		return
	}
	err := h.Repo.Delete(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "machine not found", http.StatusNotFound)
		return
	}
	if pqCode(err) == pqForeignKeyViolation {
		// Tickets still reference this machine.
		JSONError(w, "machine has tickets; delete them first", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("delete machine", "id", id, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "machine deleted"})
}
