package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/salutem-pos/api/internal/database"
	"github.com/salutem-pos/api/internal/handler"
)

// --- Mocks ---

type mockDrinkStore struct {
	drinks map[int64]database.Drink
	nextID int64
}

func newMockDrinkStore() *mockDrinkStore {
	return &mockDrinkStore{drinks: make(map[int64]database.Drink), nextID: 1}
}

func (m *mockDrinkStore) ListDrinks(context.Context) ([]database.Drink, error) {
	var result []database.Drink
	for id := int64(1); id < m.nextID; id++ {
		if d, ok := m.drinks[id]; ok {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockDrinkStore) CreateDrink(_ context.Context, arg database.CreateDrinkParams) (database.Drink, error) {
	d := database.Drink{
		ID:          m.nextID,
		Description: arg.Description,
		UnitPrice:   arg.UnitPrice,
		SugarFree:   arg.SugarFree,
		Active:      arg.Active,
	}
	m.drinks[d.ID] = d
	m.nextID++
	return d, nil
}

func (m *mockDrinkStore) UpdateDrink(_ context.Context, arg database.UpdateDrinkParams) (database.Drink, error) {
	if _, ok := m.drinks[arg.ID]; !ok {
		return database.Drink{}, pgx.ErrNoRows
	}
	d := database.Drink{
		ID:          arg.ID,
		Description: arg.Description,
		UnitPrice:   arg.UnitPrice,
		SugarFree:   arg.SugarFree,
		Active:      arg.Active,
	}
	m.drinks[arg.ID] = d
	return d, nil
}

func (m *mockDrinkStore) SoftDeleteDrink(_ context.Context, id int64) (int64, error) {
	d, ok := m.drinks[id]
	if !ok || !d.Active {
		return 0, pgx.ErrNoRows
	}
	d.Active = false
	m.drinks[id] = d
	return id, nil
}

func setupDrinkRouter(store *mockDrinkStore, notifier *mockNotifier) *chi.Mux {
	h := handler.NewDrinkHandler(store, notifier)
	r := chi.NewRouter()
	r.Get("/api/drinks", h.List)
	r.Post("/api/drinks", h.Create)
	r.Put("/api/drinks", h.Update)
	r.Delete("/api/drinks/{id}", h.Delete)
	return r
}

// --- Tests ---

func TestDrinkCreate(t *testing.T) {
	store := newMockDrinkStore()
	notifier := &mockNotifier{}
	router := setupDrinkRouter(store, notifier)

	rr := doRequest(t, router, "POST", "/api/drinks", map[string]interface{}{
		"description": "Guarana Lata",
		"unit_price":  "4.50",
		"sugar_free":  false,
		"active":      true,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["unit_price"] != "4.50" {
		t.Errorf("unit_price: got %v, want 4.50", resp["unit_price"])
	}
	if resp["sugar_free"] != false {
		t.Errorf("sugar_free: got %v, want false", resp["sugar_free"])
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != "drinks" {
		t.Errorf("notified: got %v, want [drinks]", notifier.notified)
	}
}

func TestDrinkCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing description", map[string]interface{}{"unit_price": "4.50"}},
		{"missing price", map[string]interface{}{"description": "Guarana Lata"}},
		{"malformed price", map[string]interface{}{"description": "Guarana Lata", "unit_price": "abc"}},
		{"negative price", map[string]interface{}{"description": "Guarana Lata", "unit_price": "-1.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &mockNotifier{}
			router := setupDrinkRouter(newMockDrinkStore(), notifier)

			rr := doRequest(t, router, "POST", "/api/drinks", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if len(notifier.notified) != 0 {
				t.Errorf("notified on invalid input: got %v", notifier.notified)
			}
		})
	}
}

func TestDrinkList_IncludesInactive(t *testing.T) {
	store := newMockDrinkStore()
	store.drinks[1] = database.Drink{ID: 1, Description: "Coca Lata", UnitPrice: testNumeric("5.00"), Active: true}
	store.drinks[2] = database.Drink{ID: 2, Description: "Fanta Lata", UnitPrice: testNumeric("4.50"), Active: false}
	store.nextID = 3
	router := setupDrinkRouter(store, &mockNotifier{})

	rr := doRequest(t, router, "GET", "/api/drinks", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeListResponse(t, rr)
	if len(resp) != 2 {
		t.Fatalf("list size: got %d, want 2", len(resp))
	}
}

func TestDrinkUpdate(t *testing.T) {
	store := newMockDrinkStore()
	store.drinks[1] = database.Drink{ID: 1, Description: "Coca Lata", UnitPrice: testNumeric("5.00"), Active: true}
	store.nextID = 2
	notifier := &mockNotifier{}
	router := setupDrinkRouter(store, notifier)

	rr := doRequest(t, router, "PUT", "/api/drinks", map[string]interface{}{
		"id":          1,
		"description": "Coca Zero Lata",
		"unit_price":  "5.50",
		"sugar_free":  true,
		"active":      true,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["description"] != "Coca Zero Lata" || resp["unit_price"] != "5.50" || resp["sugar_free"] != true {
		t.Errorf("updated drink: got %v", resp)
	}
}

func TestDrinkUpdate_NotFound(t *testing.T) {
	router := setupDrinkRouter(newMockDrinkStore(), &mockNotifier{})

	rr := doRequest(t, router, "PUT", "/api/drinks", map[string]interface{}{
		"id":          99,
		"description": "Coca Lata",
		"unit_price":  "5.00",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDrinkDelete_Soft(t *testing.T) {
	store := newMockDrinkStore()
	store.drinks[1] = database.Drink{ID: 1, Description: "Coca Lata", UnitPrice: testNumeric("5.00"), Active: true}
	store.nextID = 2
	notifier := &mockNotifier{}
	router := setupDrinkRouter(store, notifier)

	rr := doRequest(t, router, "DELETE", "/api/drinks/1", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if store.drinks[1].Active {
		t.Error("drink still active after delete")
	}

	// Already inactive, a second delete finds nothing.
	rr = doRequest(t, router, "DELETE", "/api/drinks/1", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
