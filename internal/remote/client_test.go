package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/salutem-pos/api/internal/catalog"
	"github.com/salutem-pos/api/internal/remote"
	"github.com/shopspring/decimal"
)

// recorded captures the last request a test server saw.
type recorded struct {
	method string
	path   string
	auth   string
	body   []byte
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_ListActiveIngredients(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK,
		`[{"id":1,"description":"Cheese","unit_price":"2.50","is_add_on":true,"active":true}]`)
	c := remote.New(srv.URL)

	got, err := c.ListActiveIngredients(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if rec.method != http.MethodGet || rec.path != "/api/ingredients/active" {
		t.Errorf("request: got %s %s", rec.method, rec.path)
	}
	if len(got) != 1 {
		t.Fatalf("ingredients: got %d, want 1", len(got))
	}
	if !got[0].UnitPrice.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("unit price: got %s, want 2.50", got[0].UnitPrice)
	}
}

func TestClient_MalformedPriceParsesAsZero(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK,
		`[{"id":1,"description":"Cheese","unit_price":"oops","active":true}]`)
	c := remote.New(srv.URL)

	got, err := c.ListActiveIngredients(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !got[0].UnitPrice.Equal(decimal.Zero) {
		t.Errorf("unit price: got %s, want 0", got[0].UnitPrice)
	}
}

func TestClient_CreateSandwichPostsPayload(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated,
		`{"id":9,"description":"X-Burger","active":true,"lines":[]}`)
	c := remote.New(srv.URL)

	id := int64(1)
	created, err := c.CreateSandwich(context.Background(), catalog.Sandwich{
		Description: "X-Burger",
		Active:      true,
		Lines: []catalog.SandwichLine{
			{IngredientID: &id, Description: "Cheese", LineTotal: decimal.RequireFromString("7.50"), Quantity: 3, Active: true},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/api/sandwiches" {
		t.Errorf("request: got %s %s", rec.method, rec.path)
	}
	var sent struct {
		ID    int64 `json:"id"`
		Lines []struct {
			LineTotal string `json:"line_total"`
			Quantity  int32  `json:"quantity"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(rec.body, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent.ID != 0 {
		t.Errorf("sent id on create: got %d, want omitted", sent.ID)
	}
	if len(sent.Lines) != 1 || sent.Lines[0].LineTotal != "7.50" || sent.Lines[0].Quantity != 3 {
		t.Errorf("sent lines: got %+v", sent.Lines)
	}
	if created.ID != 9 {
		t.Errorf("created id: got %d, want 9", created.ID)
	}
}

func TestClient_UpdateSandwichPutsIDInBody(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK,
		`{"id":9,"description":"X-Burger","active":true,"lines":[]}`)
	c := remote.New(srv.URL)

	_, err := c.UpdateSandwich(context.Background(), catalog.Sandwich{ID: 9, Description: "X-Burger", Active: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if rec.method != http.MethodPut || rec.path != "/api/sandwiches" {
		t.Errorf("request: got %s %s", rec.method, rec.path)
	}
	var sent struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rec.body, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent.ID != 9 {
		t.Errorf("sent id on update: got %d, want 9", sent.ID)
	}
}

func TestClient_DeleteOrder(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusNoContent, "")
	c := remote.New(srv.URL)

	if err := c.DeleteOrder(context.Background(), 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.method != http.MethodDelete || rec.path != "/api/orders/5" {
		t.Errorf("request: got %s %s", rec.method, rec.path)
	}
}

func TestClient_CreateOrderSendsBothCollections(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated,
		`{"id":3,"registered_at":"2026-08-30T12:00:00Z","customer":{"name":"Maria","address":"Rua 1","phone":"11987654321"},"sandwich_items":[],"drink_items":[]}`)
	c := remote.New(srv.URL)

	created, err := c.CreateOrder(context.Background(), catalog.Order{
		RegisteredAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Customer:     catalog.CustomerInfo{Name: "Maria", Address: "Rua 1", Phone: "11987654321"},
		SandwichItems: []catalog.OrderItem{
			{CatalogID: 100, Quantity: 2},
		},
		DrinkItems: []catalog.OrderItem{
			{CatalogID: 10, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var sent struct {
		Customer struct {
			Name string `json:"name"`
		} `json:"customer"`
		SandwichItems []struct {
			CatalogID int64 `json:"catalog_id"`
			Quantity  int32 `json:"quantity"`
		} `json:"sandwich_items"`
		DrinkItems []struct {
			CatalogID int64 `json:"catalog_id"`
		} `json:"drink_items"`
	}
	if err := json.Unmarshal(rec.body, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent.Customer.Name != "Maria" {
		t.Errorf("sent customer: got %q", sent.Customer.Name)
	}
	if len(sent.SandwichItems) != 1 || sent.SandwichItems[0].CatalogID != 100 || sent.SandwichItems[0].Quantity != 2 {
		t.Errorf("sent sandwich items: got %+v", sent.SandwichItems)
	}
	if len(sent.DrinkItems) != 1 || sent.DrinkItems[0].CatalogID != 10 {
		t.Errorf("sent drink items: got %+v", sent.DrinkItems)
	}
	if created.ID != 3 {
		t.Errorf("created id: got %d, want 3", created.ID)
	}
}

func TestClient_ErrorBodySurfacesMessage(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest, `{"error":"description is required"}`)
	c := remote.New(srv.URL)

	_, err := c.CreateSandwich(context.Background(), catalog.Sandwich{})
	if err == nil {
		t.Fatal("create: got nil, want error")
	}
	if !strings.Contains(err.Error(), "description is required") {
		t.Errorf("error: got %q, want store message included", err)
	}
}

func TestClient_LoginStoresToken(t *testing.T) {
	var calls int
	var lastAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		lastAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			w.Write([]byte(`{"token":"tok-123"}`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(srv.Close)
	c := remote.New(srv.URL)

	if err := c.Login(context.Background(), "admin@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.ListDrinks(context.Background()); err != nil {
		t.Fatalf("list drinks: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls: got %d, want 2", calls)
	}
	if lastAuth != "Bearer tok-123" {
		t.Errorf("authorization header: got %q, want %q", lastAuth, "Bearer tok-123")
	}
}
