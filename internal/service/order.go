package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/salutem-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

const minPhoneLength = 8

// Errors returned by the order service.
var (
	ErrCustomerNameRequired    = errors.New("customer name is required")
	ErrCustomerAddressRequired = errors.New("customer address is required")
	ErrCustomerPhoneRequired   = errors.New("customer phone is required")
	ErrCustomerPhoneTooShort   = errors.New("customer phone is too short")
	ErrInvalidQuantity         = errors.New("quantity must be > 0")
	ErrSandwichNotFound        = errors.New("sandwich not found")
	ErrDrinkNotFound           = errors.New("drink not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetSandwich(ctx context.Context, id int64) (database.Sandwich, error)
	GetDrink(ctx context.Context, id int64) (database.Drink, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderSandwichItem(ctx context.Context, arg database.CreateOrderSandwichItemParams) (database.OrderSandwichItem, error)
	CreateOrderDrinkItem(ctx context.Context, arg database.CreateOrderDrinkItemParams) (database.OrderDrinkItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// OrderItemRequest is a single catalog reference in an order.
type OrderItemRequest struct {
	CatalogID int64
	Quantity  int32
}

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	RegisteredAt    time.Time
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	CustomerNote    string
	SandwichItems   []OrderItemRequest
	DrinkItems      []OrderItemRequest
}

// CreateOrderResult is the full created order with both item collections.
type CreateOrderResult struct {
	Order         database.Order
	SandwichItems []database.OrderSandwichItem
	DrinkItems    []database.OrderDrinkItem
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates the customer and both item collections, then writes
// the order and its items atomically. Item rows reference the catalog by id
// without a foreign key, so existence is checked here instead.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrCustomerNameRequired
	}
	if strings.TrimSpace(req.CustomerAddress) == "" {
		return nil, ErrCustomerAddressRequired
	}
	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" {
		return nil, ErrCustomerPhoneRequired
	}
	if utf8.RuneCountInString(phone) < minPhoneLength {
		return nil, ErrCustomerPhoneTooShort
	}
	for i, item := range req.SandwichItems {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("sandwich_items[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	for i, item := range req.DrinkItems {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("drink_items[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	registeredAt := req.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = time.Now().UTC()
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Validate catalog references ---
	for i, item := range req.SandwichItems {
		if _, err := store.GetSandwich(ctx, item.CatalogID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("sandwich_items[%d]: %w", i, ErrSandwichNotFound)
			}
			return nil, fmt.Errorf("sandwich_items[%d]: get sandwich: %w", i, err)
		}
	}
	for i, item := range req.DrinkItems {
		if _, err := store.GetDrink(ctx, item.CatalogID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("drink_items[%d]: %w", i, ErrDrinkNotFound)
			}
			return nil, fmt.Errorf("drink_items[%d]: get drink: %w", i, err)
		}
	}

	note := pgtype.Text{}
	if req.CustomerNote != "" {
		note = pgtype.Text{String: req.CustomerNote, Valid: true}
	}

	// --- Insert order ---
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		RegisteredAt:    registeredAt,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   phone,
		CustomerNote:    note,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert items ---
	var sandwichItems []database.OrderSandwichItem
	for i, item := range req.SandwichItems {
		created, err := store.CreateOrderSandwichItem(ctx, database.CreateOrderSandwichItemParams{
			OrderID:    order.ID,
			SandwichID: item.CatalogID,
			Quantity:   item.Quantity,
			Position:   int32(i),
		})
		if err != nil {
			return nil, fmt.Errorf("create order sandwich item: %w", err)
		}
		sandwichItems = append(sandwichItems, created)
	}

	var drinkItems []database.OrderDrinkItem
	for i, item := range req.DrinkItems {
		created, err := store.CreateOrderDrinkItem(ctx, database.CreateOrderDrinkItemParams{
			OrderID:  order.ID,
			DrinkID:  item.CatalogID,
			Quantity: item.Quantity,
			Position: int32(i),
		})
		if err != nil {
			return nil, fmt.Errorf("create order drink item: %w", err)
		}
		drinkItems = append(drinkItems, created)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{
		Order:         order,
		SandwichItems: sandwichItems,
		DrinkItems:    drinkItems,
	}, nil
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
