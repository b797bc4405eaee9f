package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/crucial707/printdesk/internal/repo"
	"github.com/lib/pq"
)

func TestTicketHandler_List_JoinsPrinterName(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM tickets t\s+LEFT JOIN maquinas m`).
		WillReturnRows(sqlmock.NewRows(append(ticketCols, "impresora")).
			AddRow(42, 7, "Atasco", "Papel atorado", "Pendiente", true, testTime, testTime, "HP 400").
			AddRow(43, 9, "Tóner", "Sin tóner", "Resuelto", true, testTime, testTime, nil))

	h := &TicketHandler{Repo: repo.NewTicketRepo(db)}
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest("GET", "/tickets", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	var list []models.Ticket
	json.NewDecoder(rr.Body).Decode(&list)
	if len(list) != 2 || list[0].MachineName == nil || *list[0].MachineName != "HP 400" || list[1].MachineName != nil {
		t.Errorf("unexpected list: %+v", list)
	}
	checkExpectations(t, mock)
}

func TestTicketHandler_Create_DefaultsToPending(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO tickets`).
		WithArgs(7, "Atasco", "Papel atorado", "Pendiente", true).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 7, "Atasco", "Papel atorado", "Pendiente", true, testTime, testTime))

	h := &TicketHandler{Repo: repo.NewTicketRepo(db)}
	body := []byte(`{"id_impresora":7,"tipo_danio":"Atasco","reporte":"Papel atorado"}`)
	rr := httptest.NewRecorder()
	h.Create(rr, requestWithChiURLParams("POST", "/tickets", body, nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/tickets/42" {
		t.Errorf("Location: got %q", loc)
	}
	checkExpectations(t, mock)
}

func TestTicketHandler_Create_UnknownMachine(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO tickets`).
		WillReturnError(&pq.Error{Code: "23503"})

	h := &TicketHandler{Repo: repo.NewTicketRepo(db)}
	body := []byte(`{"id_impresora":999,"tipo_danio":"Atasco","reporte":"x"}`)
	rr := httptest.NewRecorder()
	h.Create(rr, requestWithChiURLParams("POST", "/tickets", body, nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestTicketHandler_Update_Status(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`UPDATE tickets`).
		WithArgs(nil, nil, nil, "Resuelto", nil, 42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 7, "Atasco", "Papel atorado", "Resuelto", true, testTime, testTime))

	h := &TicketHandler{Repo: repo.NewTicketRepo(db)}
	rr := httptest.NewRecorder()
	h.Update(rr, requestWithChiURLParams("PUT", "/tickets/42", []byte(`{"estado":"Resuelto"}`), map[string]string{"id": "42"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body %s", rr.Code, rr.Body.String())
	}
	var tk models.Ticket
	json.NewDecoder(rr.Body).Decode(&tk)
	if tk.Status != "Resuelto" {
		t.Errorf("estado: got %q", tk.Status)
	}
	checkExpectations(t, mock)
}

func TestTicketHandler_Update_InvalidState(t *testing.T) {
	db, mock := newMock(t)
	h := &TicketHandler{Repo: repo.NewTicketRepo(db)}

	rr := httptest.NewRecorder()
	h.Update(rr, requestWithChiURLParams("PUT", "/tickets/42", []byte(`{"estado":"Cerrado"}`), map[string]string{"id": "42"}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestTicketHandler_Get_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM tickets WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(ticketCols))

	h := &TicketHandler{Repo: repo.NewTicketRepo(db)}
	rr := httptest.NewRecorder()
	h.Get(rr, requestWithChiURLParams("GET", "/tickets/5", nil, map[string]string{"id": "5"}))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	checkExpectations(t, mock)
}
