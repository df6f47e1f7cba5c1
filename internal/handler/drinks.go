package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/salutem-pos/api/internal/database"
)

// DrinkStore defines the database methods needed by drink handlers.
type DrinkStore interface {
	ListDrinks(ctx context.Context) ([]database.Drink, error)
	CreateDrink(ctx context.Context, arg database.CreateDrinkParams) (database.Drink, error)
	UpdateDrink(ctx context.Context, arg database.UpdateDrinkParams) (database.Drink, error)
	SoftDeleteDrink(ctx context.Context, id int64) (int64, error)
}

// DrinkHandler handles drink CRUD endpoints.
type DrinkHandler struct {
	store    DrinkStore
	notifier Notifier
}

// NewDrinkHandler creates a new DrinkHandler.
func NewDrinkHandler(store DrinkStore, notifier Notifier) *DrinkHandler {
	return &DrinkHandler{store: store, notifier: notifier}
}

// --- Request / Response types ---

type drinkRequest struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	SugarFree   bool   `json:"sugar_free"`
	Active      bool   `json:"active"`
}

type drinkResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	SugarFree   bool   `json:"sugar_free"`
	Active      bool   `json:"active"`
}

func toDrinkResponse(d database.Drink) drinkResponse {
	return drinkResponse{
		ID:          d.ID,
		Description: d.Description,
		UnitPrice:   numericToString(d.UnitPrice),
		SugarFree:   d.SugarFree,
		Active:      d.Active,
	}
}

// --- Handlers ---

// List returns every drink, inactive ones included.
func (h *DrinkHandler) List(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.store.ListDrinks(r.Context())
	if err != nil {
		log.Printf("ERROR: list drinks: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]drinkResponse, len(drinks))
	for i, d := range drinks {
		resp[i] = toDrinkResponse(d)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new drink.
func (h *DrinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req drinkRequest
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

	drink, err := h.store.CreateDrink(r.Context(), database.CreateDrinkParams{
		Description: req.Description,
		UnitPrice:   price,
		SugarFree:   req.SugarFree,
		Active:      req.Active,
	})
	if err != nil {
		log.Printf("ERROR: create drink: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("drinks")
	writeJSON(w, http.StatusCreated, toDrinkResponse(drink))
}

// Update modifies an existing drink; the id travels in the body.
func (h *DrinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req drinkRequest
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

	drink, err := h.store.UpdateDrink(r.Context(), database.UpdateDrinkParams{
		ID:          req.ID,
		Description: req.Description,
		UnitPrice:   price,
		SugarFree:   req.SugarFree,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink not found"})
			return
		}
		log.Printf("ERROR: update drink: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("drinks")
	writeJSON(w, http.StatusOK, toDrinkResponse(drink))
}

// Delete soft-deletes a drink by setting active=false.
func (h *DrinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid drink ID"})
		return
	}

	if _, err := h.store.SoftDeleteDrink(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "drink not found"})
			return
		}
		log.Printf("ERROR: delete drink: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("drinks")
	w.WriteHeader(http.StatusNoContent)
}
