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
	"github.com/salutem-pos/api/internal/service"
)

// SandwichSaver creates and updates sandwiches with their lines.
// Satisfied by *service.SandwichService.
type SandwichSaver interface {
	Create(ctx context.Context, req service.SaveSandwichRequest) (*service.SandwichResult, error)
	Update(ctx context.Context, id int64, req service.SaveSandwichRequest) (*service.SandwichResult, error)
}

// SandwichStore defines the read and delete methods needed by sandwich
// handlers. Satisfied by *database.Queries.
type SandwichStore interface {
	ListSandwiches(ctx context.Context) ([]database.Sandwich, error)
	ListSandwichLines(ctx context.Context, sandwichID int64) ([]database.SandwichLine, error)
	SoftDeleteSandwich(ctx context.Context, id int64) (int64, error)
}

// SandwichHandler handles sandwich endpoints.
type SandwichHandler struct {
	saver    SandwichSaver
	store    SandwichStore
	notifier Notifier
}

// NewSandwichHandler creates a new SandwichHandler.
func NewSandwichHandler(saver SandwichSaver, store SandwichStore, notifier Notifier) *SandwichHandler {
	return &SandwichHandler{saver: saver, store: store, notifier: notifier}
}

// --- Request / Response types ---

type sandwichLineRequest struct {
	IngredientID *int64 `json:"ingredient_id"`
	Description  string `json:"description"`
	LineTotal    string `json:"line_total"`
	Quantity     int32  `json:"quantity"`
	Active       bool   `json:"active"`
}

type sandwichRequest struct {
	ID          int64                 `json:"id"`
	Description string                `json:"description"`
	Active      bool                  `json:"active"`
	Lines       []sandwichLineRequest `json:"lines"`
}

type sandwichLineResponse struct {
	IngredientID *int64 `json:"ingredient_id"`
	Description  string `json:"description"`
	LineTotal    string `json:"line_total"`
	Quantity     int32  `json:"quantity"`
	Active       bool   `json:"active"`
}

type sandwichResponse struct {
	ID          int64                  `json:"id"`
	Description string                 `json:"description"`
	Active      bool                   `json:"active"`
	Lines       []sandwichLineResponse `json:"lines"`
}

func toSandwichResponse(s database.Sandwich, lines []database.SandwichLine) sandwichResponse {
	resp := sandwichResponse{
		ID:          s.ID,
		Description: s.Description,
		Active:      s.Active,
		Lines:       make([]sandwichLineResponse, len(lines)),
	}
	for i, l := range lines {
		line := sandwichLineResponse{
			Description: l.Description,
			LineTotal:   numericToString(l.LineTotal),
			Quantity:    l.Quantity,
			Active:      l.Active,
		}
		if l.IngredientID.Valid {
			id := l.IngredientID.Int64
			line.IngredientID = &id
		}
		resp.Lines[i] = line
	}
	return resp
}

func toSaveSandwichRequest(req sandwichRequest) service.SaveSandwichRequest {
	out := service.SaveSandwichRequest{
		Description: req.Description,
		Active:      req.Active,
		Lines:       make([]service.SandwichLineRequest, len(req.Lines)),
	}
	for i, l := range req.Lines {
		out.Lines[i] = service.SandwichLineRequest{
			IngredientID: l.IngredientID,
			Description:  l.Description,
			LineTotal:    l.LineTotal,
			Quantity:     l.Quantity,
			Active:       l.Active,
		}
	}
	return out
}

// isSandwichValidationErr reports whether the save failed on input the
// client can fix.
func isSandwichValidationErr(err error) bool {
	return errors.Is(err, service.ErrDescriptionRequired) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidLineTotal) ||
		errors.Is(err, service.ErrIngredientNotFound)
}

// --- Handlers ---

// List returns every sandwich with its lines, inactive ones included.
func (h *SandwichHandler) List(w http.ResponseWriter, r *http.Request) {
	sandwiches, err := h.store.ListSandwiches(r.Context())
	if err != nil {
		log.Printf("ERROR: list sandwiches: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]sandwichResponse, len(sandwiches))
	for i, s := range sandwiches {
		lines, err := h.store.ListSandwichLines(r.Context(), s.ID)
		if err != nil {
			log.Printf("ERROR: list sandwich lines: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp[i] = toSandwichResponse(s, lines)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new sandwich with its lines.
func (h *SandwichHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sandwichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.saver.Create(r.Context(), toSaveSandwichRequest(req))
	if err != nil {
		if isSandwichValidationErr(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create sandwich: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("sandwiches")
	writeJSON(w, http.StatusCreated, toSandwichResponse(result.Sandwich, result.Lines))
}

// Update replaces an existing sandwich and its whole line collection; the
// id travels in the body.
func (h *SandwichHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req sandwichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}

	result, err := h.saver.Update(r.Context(), req.ID, toSaveSandwichRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sandwich not found"})
			return
		}
		if isSandwichValidationErr(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: update sandwich: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("sandwiches")
	writeJSON(w, http.StatusOK, toSandwichResponse(result.Sandwich, result.Lines))
}

// Delete soft-deletes a sandwich by setting active=false. Lines stay in
// place so past orders keep resolving.
func (h *SandwichHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sandwich ID"})
		return
	}

	if _, err := h.store.SoftDeleteSandwich(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sandwich not found"})
			return
		}
		log.Printf("ERROR: delete sandwich: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("sandwiches")
	w.WriteHeader(http.StatusNoContent)
}
