package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/salutem-pos/api/internal/database"
	"github.com/salutem-pos/api/internal/service"
)

// OrderCreator creates orders atomically with both item collections.
// Satisfied by *service.OrderService.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// OrderStore defines the read and delete methods needed by order handlers.
// Satisfied by *database.Queries.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]database.Order, error)
	ListOrderSandwichItems(ctx context.Context, orderID int64) ([]database.OrderSandwichItem, error)
	ListOrderDrinkItems(ctx context.Context, orderID int64) ([]database.OrderDrinkItem, error)
	DeleteOrder(ctx context.Context, id int64) (int64, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	creator  OrderCreator
	store    OrderStore
	notifier Notifier
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(creator OrderCreator, store OrderStore, notifier Notifier) *OrderHandler {
	return &OrderHandler{creator: creator, store: store, notifier: notifier}
}

// --- Request / Response types ---

type customerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Note    string `json:"note"`
}

type orderItemRequest struct {
	CatalogID int64 `json:"catalog_id"`
	Quantity  int32 `json:"quantity"`
}

type orderRequest struct {
	RegisteredAt  time.Time          `json:"registered_at"`
	Customer      customerRequest    `json:"customer"`
	SandwichItems []orderItemRequest `json:"sandwich_items"`
	DrinkItems    []orderItemRequest `json:"drink_items"`
}

type customerResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Note    string `json:"note,omitempty"`
}

type orderItemResponse struct {
	CatalogID int64 `json:"catalog_id"`
	Quantity  int32 `json:"quantity"`
}

type orderResponse struct {
	ID            int64               `json:"id"`
	RegisteredAt  time.Time           `json:"registered_at"`
	Customer      customerResponse    `json:"customer"`
	SandwichItems []orderItemResponse `json:"sandwich_items"`
	DrinkItems    []orderItemResponse `json:"drink_items"`
}

func toOrderResponse(o database.Order, sandwichItems []database.OrderSandwichItem, drinkItems []database.OrderDrinkItem) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		RegisteredAt: o.RegisteredAt,
		Customer: customerResponse{
			Name:    o.CustomerName,
			Address: o.CustomerAddress,
			Phone:   o.CustomerPhone,
		},
		SandwichItems: make([]orderItemResponse, len(sandwichItems)),
		DrinkItems:    make([]orderItemResponse, len(drinkItems)),
	}
	if o.CustomerNote.Valid {
		resp.Customer.Note = o.CustomerNote.String
	}
	for i, item := range sandwichItems {
		resp.SandwichItems[i] = orderItemResponse{CatalogID: item.SandwichID, Quantity: item.Quantity}
	}
	for i, item := range drinkItems {
		resp.DrinkItems[i] = orderItemResponse{CatalogID: item.DrinkID, Quantity: item.Quantity}
	}
	return resp
}

// isOrderValidationErr reports whether the create failed on input the
// client can fix.
func isOrderValidationErr(err error) bool {
	return errors.Is(err, service.ErrCustomerNameRequired) ||
		errors.Is(err, service.ErrCustomerAddressRequired) ||
		errors.Is(err, service.ErrCustomerPhoneRequired) ||
		errors.Is(err, service.ErrCustomerPhoneTooShort) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrSandwichNotFound) ||
		errors.Is(err, service.ErrDrinkNotFound)
}

// --- Handlers ---

// List returns every order with both item collections, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		sandwichItems, err := h.store.ListOrderSandwichItems(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order sandwich items: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		drinkItems, err := h.store.ListOrderDrinkItems(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order drink items: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp[i] = toOrderResponse(o, sandwichItems, drinkItems)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	svcReq := service.CreateOrderRequest{
		RegisteredAt:    req.RegisteredAt,
		CustomerName:    req.Customer.Name,
		CustomerAddress: req.Customer.Address,
		CustomerPhone:   req.Customer.Phone,
		CustomerNote:    req.Customer.Note,
		SandwichItems:   make([]service.OrderItemRequest, len(req.SandwichItems)),
		DrinkItems:      make([]service.OrderItemRequest, len(req.DrinkItems)),
	}
	for i, item := range req.SandwichItems {
		svcReq.SandwichItems[i] = service.OrderItemRequest{CatalogID: item.CatalogID, Quantity: item.Quantity}
	}
	for i, item := range req.DrinkItems {
		svcReq.DrinkItems[i] = service.OrderItemRequest{CatalogID: item.CatalogID, Quantity: item.Quantity}
	}

	result, err := h.creator.CreateOrder(r.Context(), svcReq)
	if err != nil {
		if isOrderValidationErr(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.NotifyChanged("orders")
	writeJSON(w, http.StatusCreated, toOrderResponse(result.Order, result.SandwichItems, result.DrinkItems))
}

// Delete removes an order and its items for good.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	deleted, err := h.store.DeleteOrder(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if deleted == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	h.notifier.NotifyChanged("orders")
	w.WriteHeader(http.StatusNoContent)
}
