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

func TestMachineHandler_List(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT id, edificio, .* FROM maquinas ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(machineCols).
			AddRow(1, "A", "101", "HP 400", "SN1", "Operativa", true, testTime, testTime).
			AddRow(2, "B", "202", "Epson L3150", "SN2", "En reparación", true, testTime, testTime))

	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest("GET", "/machines", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("List status: got %d, want 200", rr.Code)
	}
	var list []models.Machine
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 || list[1].Status != "En reparación" {
		t.Errorf("unexpected list: %+v", list)
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Create(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO maquinas`).
		WithArgs("A", "101", "HP 400", "SN1", "Operativa", true).
		WillReturnRows(sqlmock.NewRows(machineCols).
			AddRow(7, "A", "101", "HP 400", "SN1", "Operativa", true, testTime, testTime))

	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}
	body := []byte(`{"edificio":"A","oficina":"101","impresora":"HP 400","no_serie":"SN1"}`)
	rr := httptest.NewRecorder()
	h.Create(rr, requestWithChiURLParams("POST", "/machines", body, nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("Create status: got %d, want 201; body %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/machines/7" {
		t.Errorf("Location: got %q", loc)
	}
	var m models.Machine
	if err := json.NewDecoder(rr.Body).Decode(&m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if m.ID != 7 {
		t.Errorf("id: got %d, want 7", m.ID)
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Create_Validation(t *testing.T) {
	db, mock := newMock(t)
	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}

	body := []byte(`{"edificio":"A","estado":"Rota"}`)
	rr := httptest.NewRecorder()
	h.Create(rr, requestWithChiURLParams("POST", "/machines", body, nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	json.NewDecoder(rr.Body).Decode(&out)
	for _, f := range []string{"oficina", "impresora", "no_serie", "estado"} {
		if _, ok := out.Fields[f]; !ok {
			t.Errorf("fields: missing %q in %v", f, out.Fields)
		}
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Update_Partial(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`UPDATE maquinas`).
		WithArgs(nil, nil, nil, nil, "Fuera de servicio", nil, 7).
		WillReturnRows(sqlmock.NewRows(machineCols).
			AddRow(7, "A", "101", "HP 400", "SN1", "Fuera de servicio", true, testTime, testTime))

	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}
	body := []byte(`{"estado":"Fuera de servicio"}`)
	rr := httptest.NewRecorder()
	h.Update(rr, requestWithChiURLParams("PUT", "/machines/7", body, map[string]string{"id": "7"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("Update status: got %d, want 200; body %s", rr.Code, rr.Body.String())
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`UPDATE maquinas`).
		WillReturnRows(sqlmock.NewRows(machineCols))

	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}
	rr := httptest.NewRecorder()
	h.Update(rr, requestWithChiURLParams("PUT", "/machines/99", []byte(`{"oficina":"3"}`), map[string]string{"id": "99"}))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Delete(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM maquinas WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}
	rr := httptest.NewRecorder()
	h.Delete(rr, requestWithChiURLParams("DELETE", "/machines/7", nil, map[string]string{"id": "7"}))

	if rr.Code != http.StatusOK {
		t.Errorf("Delete status: got %d, want 200", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["message"] == "" {
		t.Errorf("expected message, got %v", out)
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Delete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM maquinas WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}
	rr := httptest.NewRecorder()
	h.Delete(rr, requestWithChiURLParams("DELETE", "/machines/7", nil, map[string]string{"id": "7"}))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Delete_WithTicketsIsConflict(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE FROM maquinas WHERE id = \$1`).
		WithArgs(7).
		WillReturnError(&pq.Error{Code: "23503", Message: "update or delete on table \"maquinas\" violates foreign key constraint"})

	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}
	rr := httptest.NewRecorder()
	h.Delete(rr, requestWithChiURLParams("DELETE", "/machines/7", nil, map[string]string{"id": "7"}))

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestMachineHandler_Get_InvalidID(t *testing.T) {
	db, mock := newMock(t)
	h := &MachineHandler{Repo: repo.NewMachineRepo(db)}

	rr := httptest.NewRecorder()
	h.Get(rr, requestWithChiURLParams("GET", "/machines/abc", nil, map[string]string{"id": "abc"}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	checkExpectations(t, mock)
}
