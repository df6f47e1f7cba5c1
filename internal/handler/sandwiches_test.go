package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/salutem-pos/api/internal/database"
	"github.com/salutem-pos/api/internal/handler"
	"github.com/salutem-pos/api/internal/service"
)

func pgInt8(v int64) pgtype.Int8 {
	return pgtype.Int8{Int64: v, Valid: true}
}

// --- Mocks ---

type mockSandwichSaver struct {
	createErr error
	updateErr error
	created   []service.SaveSandwichRequest
	updated   map[int64]service.SaveSandwichRequest
}

func newMockSandwichSaver() *mockSandwichSaver {
	return &mockSandwichSaver{updated: make(map[int64]service.SaveSandwichRequest)}
}

func (m *mockSandwichSaver) Create(_ context.Context, req service.SaveSandwichRequest) (*service.SandwichResult, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, req)
	return &service.SandwichResult{
		Sandwich: database.Sandwich{ID: int64(len(m.created)), Description: req.Description, Active: req.Active},
	}, nil
}

func (m *mockSandwichSaver) Update(_ context.Context, id int64, req service.SaveSandwichRequest) (*service.SandwichResult, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.updated[id] = req
	return &service.SandwichResult{
		Sandwich: database.Sandwich{ID: id, Description: req.Description, Active: req.Active},
	}, nil
}

type mockSandwichStore struct {
	sandwiches map[int64]database.Sandwich
	lines      map[int64][]database.SandwichLine
}

func newMockSandwichStore() *mockSandwichStore {
	return &mockSandwichStore{
		sandwiches: make(map[int64]database.Sandwich),
		lines:      make(map[int64][]database.SandwichLine),
	}
}

func (m *mockSandwichStore) ListSandwiches(context.Context) ([]database.Sandwich, error) {
	var result []database.Sandwich
	for id := int64(1); id <= int64(len(m.sandwiches)); id++ {
		if s, ok := m.sandwiches[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSandwichStore) ListSandwichLines(_ context.Context, sandwichID int64) ([]database.SandwichLine, error) {
	return m.lines[sandwichID], nil
}

func (m *mockSandwichStore) SoftDeleteSandwich(_ context.Context, id int64) (int64, error) {
	s, ok := m.sandwiches[id]
	if !ok || !s.Active {
		return 0, pgx.ErrNoRows
	}
	s.Active = false
	m.sandwiches[id] = s
	return id, nil
}

func setupSandwichRouter(saver *mockSandwichSaver, store *mockSandwichStore, notifier *mockNotifier) *chi.Mux {
	h := handler.NewSandwichHandler(saver, store, notifier)
	r := chi.NewRouter()
	r.Get("/api/sandwiches", h.List)
	r.Post("/api/sandwiches", h.Create)
	r.Put("/api/sandwiches", h.Update)
	r.Delete("/api/sandwiches/{id}", h.Delete)
	return r
}

// --- Tests ---

func TestSandwichList_WithLines(t *testing.T) {
	store := newMockSandwichStore()
	store.sandwiches[1] = database.Sandwich{ID: 1, Description: "Classic", Active: true}
	ingredientID := int64(3)
	store.lines[1] = []database.SandwichLine{
		{ID: 1, SandwichID: 1, IngredientID: pgInt8(ingredientID), Description: "Cheese", LineTotal: testNumeric("7.50"), Quantity: 3, Active: true},
	}
	router := setupSandwichRouter(newMockSandwichSaver(), store, &mockNotifier{})

	rr := doRequest(t, router, "GET", "/api/sandwiches", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("list size: got %d, want 1", len(resp))
	}
	lines := resp[0]["lines"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(lines))
	}
	line := lines[0].(map[string]interface{})
	if line["line_total"] != "7.50" {
		t.Errorf("line_total: got %v, want 7.50", line["line_total"])
	}
	if line["ingredient_id"] != float64(3) {
		t.Errorf("ingredient_id: got %v, want 3", line["ingredient_id"])
	}
}

func TestSandwichCreate(t *testing.T) {
	saver := newMockSandwichSaver()
	notifier := &mockNotifier{}
	router := setupSandwichRouter(saver, newMockSandwichStore(), notifier)

	rr := doRequest(t, router, "POST", "/api/sandwiches", map[string]interface{}{
		"description": "X-Burger",
		"active":      true,
		"lines": []map[string]interface{}{
			{"ingredient_id": 1, "description": "Cheese", "line_total": "7.50", "quantity": 3, "active": true},
		},
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if len(saver.created) != 1 {
		t.Fatalf("create calls: got %d, want 1", len(saver.created))
	}
	sent := saver.created[0]
	if len(sent.Lines) != 1 || sent.Lines[0].LineTotal != "7.50" || sent.Lines[0].Quantity != 3 {
		t.Errorf("sent lines: got %+v", sent.Lines)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != "sandwiches" {
		t.Errorf("notified: got %v, want [sandwiches]", notifier.notified)
	}
}

func TestSandwichCreate_ValidationError(t *testing.T) {
	saver := newMockSandwichSaver()
	saver.createErr = service.ErrDescriptionRequired
	notifier := &mockNotifier{}
	router := setupSandwichRouter(saver, newMockSandwichStore(), notifier)

	rr := doRequest(t, router, "POST", "/api/sandwiches", map[string]interface{}{"active": true})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(notifier.notified) != 0 {
		t.Errorf("notified on invalid input: got %v", notifier.notified)
	}
}

func TestSandwichUpdate(t *testing.T) {
	saver := newMockSandwichSaver()
	notifier := &mockNotifier{}
	router := setupSandwichRouter(saver, newMockSandwichStore(), notifier)

	rr := doRequest(t, router, "PUT", "/api/sandwiches", map[string]interface{}{
		"id":          42,
		"description": "X-Burger",
		"active":      true,
		"lines":       []map[string]interface{}{},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if _, ok := saver.updated[42]; !ok {
		t.Errorf("updated ids: got %v, want 42", saver.updated)
	}
}

func TestSandwichUpdate_NotFound(t *testing.T) {
	saver := newMockSandwichSaver()
	saver.updateErr = service.ErrNotFound
	router := setupSandwichRouter(saver, newMockSandwichStore(), &mockNotifier{})

	rr := doRequest(t, router, "PUT", "/api/sandwiches", map[string]interface{}{
		"id":          99,
		"description": "X-Burger",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSandwichUpdate_MissingID(t *testing.T) {
	router := setupSandwichRouter(newMockSandwichSaver(), newMockSandwichStore(), &mockNotifier{})

	rr := doRequest(t, router, "PUT", "/api/sandwiches", map[string]interface{}{
		"description": "X-Burger",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSandwichDelete(t *testing.T) {
	store := newMockSandwichStore()
	store.sandwiches[1] = database.Sandwich{ID: 1, Description: "Classic", Active: true}
	notifier := &mockNotifier{}
	router := setupSandwichRouter(newMockSandwichSaver(), store, notifier)

	rr := doRequest(t, router, "DELETE", "/api/sandwiches/1", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if store.sandwiches[1].Active {
		t.Error("sandwich still active after delete")
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != "sandwiches" {
		t.Errorf("notified: got %v, want [sandwiches]", notifier.notified)
	}
}

func TestSandwichDelete_NotFound(t *testing.T) {
	router := setupSandwichRouter(newMockSandwichSaver(), newMockSandwichStore(), &mockNotifier{})

	rr := doRequest(t, router, "DELETE", "/api/sandwiches/99", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
