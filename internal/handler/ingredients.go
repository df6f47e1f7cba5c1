package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/salutem-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// Notifier announces resource changes to connected clients.
// Satisfied by *ws.Hub.
type Notifier interface {
	NotifyChanged(resource string)
}

// IngredientStore defines the database methods needed by ingredient handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type IngredientStore interface {
	ListIngredients(ctx context.Context) ([]database.Ingredient, error)
	ListActiveIngredients(ctx context.Context) ([]database.Ingredient, error)
	CreateIngredient(ctx context.Context, arg database.CreateIngredientParams) (database.Ingredient, error)
	UpdateIngredient(ctx context.Context, arg database.UpdateIngredientParams) (database.Ingredient, error)
	SoftDeleteIngredient(ctx context.Context, id int64) (int64, error)
}

// IngredientHandler handles ingredient CRUD endpoints.
type IngredientHandler struct {
	store    IngredientStore
	notifier Notifier
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(store IngredientStore, notifier Notifier) *IngredientHandler {
	return &IngredientHandler{store: store, notifier: notifier}
}

// --- Request / Response types ---

type ingredientRequest struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	IsAddOn     bool   `json:"is_add_on"`
	Active      bool   `json:"active"`
}

type ingredientResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	IsAddOn     bool   `json:"is_add_on"`
	Active      bool   `json:"active"`
}

func toIngredientResponse(i database.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:          i.ID,
		Description: i.Description,
		UnitPrice:   numericToString(i.UnitPrice),
		IsAddOn:     i.IsAddOn,
		Active:      i.Active,
	}
}

// --- Helpers ---

var errNegativePrice = errors.New("negative price")

func parseUnitPrice(s string) (pgtype.Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}, err
	}
	if d.IsNegative() {
		return pgtype.Numeric{}, errNegativePrice
	}
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// numericToString formats a pgtype.Numeric with 2 decimal places for
// consistent money representation.
func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

// --- Handlers ---

// List returns every ingredient, inactive ones included.
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.store.ListIngredients(r.Context())
	if err != nil {
		log.Printf("ERROR: list ingredients: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]ingredientResponse, len(ingredients))
	for i, ing := range ingredients {
		resp[i] = toIngredientResponse(ing)
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListActive returns only active ingredients, for composing sandwiches.
func (h *IngredientHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.store.ListActiveIngredients(r.Context())
	if err != nil {
		log.Printf("ERROR: list active ingredients: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]ingredientResponse, len(ingredients))
	for i, ing := range ingredients {
		resp[i] = toIngredientResponse(ing)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new ingredient.
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}

	if req.UnitPrice == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price is required"})
		return
	}

	price, err := parseUnitPrice(req.UnitPrice)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid unit_price"})
		}
		return
	}

	ingredient, err := h.store.CreateIngredient(r.Context(), database.CreateIngredientParams{
		Description: req.Description,
		UnitPrice:   price,
		IsAddOn:     req.IsAddOn,
		Active:      req.Active,
	})
	if err != nil {
		log.Printf("ERROR: create ingredient: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("ingredients")
	writeJSON(w, http.StatusCreated, toIngredientResponse(ingredient))
}

// Update modifies an existing ingredient; the id travels in the body.
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}

	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}

	if req.UnitPrice == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price is required"})
		return
	}

	price, err := parseUnitPrice(req.UnitPrice)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid unit_price"})
		}
		return
	}

	ingredient, err := h.store.UpdateIngredient(r.Context(), database.UpdateIngredientParams{
		ID:          req.ID,
		Description: req.Description,
		UnitPrice:   price,
		IsAddOn:     req.IsAddOn,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "ingredient not found"})
			return
		}
		log.Printf("ERROR: update ingredient: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("ingredients")
	writeJSON(w, http.StatusOK, toIngredientResponse(ingredient))
}

// Delete soft-deletes an ingredient by setting active=false.
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ingredient ID"})
		return
	}

	if _, err := h.store.SoftDeleteIngredient(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "ingredient not found"})
			return
		}
		log.Printf("ERROR: delete ingredient: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("ingredients")
	w.WriteHeader(http.StatusNoContent)
}
