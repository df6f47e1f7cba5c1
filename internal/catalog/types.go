package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient is a catalog entry a sandwich line can reference.
// Reference data owned by the remote store; never mutated by the builders.
type Ingredient struct {
	ID          int64
	Description string
	UnitPrice   decimal.Decimal
	IsAddOn     bool
	Active      bool
}

// Drink is a catalog entry an order drink item can reference.
type Drink struct {
	ID          int64
	Description string
	UnitPrice   decimal.Decimal
	SugarFree   bool
	Active      bool
}

// SandwichLine is one ingredient row inside a sandwich.
//
// LineTotal is a snapshot: quantity times the ingredient's unit price at the
// moment the line was last edited. It is never re-derived when the catalog
// price changes later.
type SandwichLine struct {
	IngredientID *int64
	Description  string
	LineTotal    decimal.Decimal
	Quantity     int32
	Active       bool
}

// Sandwich is a composite product assembled from ingredient lines.
// ID is zero until the remote store assigns one on first save.
type Sandwich struct {
	ID          int64
	Description string
	Active      bool
	Lines       []SandwichLine
}

// CustomerInfo is the customer block of an order.
type CustomerInfo struct {
	Name    string
	Address string
	Phone   string
	Note    string
}

// OrderItem references a sandwich or drink by catalog id. It carries no
// price snapshot; prices are resolved against the current catalog at read
// time, and the referenced entity may no longer exist.
type OrderItem struct {
	CatalogID int64
	Quantity  int32
}

// Order is a submitted customer order. Orders are immutable once created;
// the only operations are create, list and delete.
type Order struct {
	ID            int64
	RegisteredAt  time.Time
	Customer      CustomerInfo
	SandwichItems []OrderItem
	DrinkItems    []OrderItem
}

// The catalog entities double as list rows for the search filters.

func (i Ingredient) RowID() int64 { return i.ID }
func (i Ingredient) RowDescription() string { return i.Description }

func (d Drink) RowID() int64 { return d.ID }
func (d Drink) RowDescription() string { return d.Description }

func (s Sandwich) RowID() int64 { return s.ID }
func (s Sandwich) RowDescription() string { return s.Description }

// Orders have no description field; they only match id searches.

func (o Order) RowID() int64 { return o.ID }
func (o Order) RowDescription() string { return "" }

// CloneLines deep-copies a line slice so draft edits cannot alias a list
// entry that came out of the cache.
func CloneLines(lines []SandwichLine) []SandwichLine {
	if lines == nil {
		return nil
	}
	out := make([]SandwichLine, len(lines))
	for i, l := range lines {
		if l.IngredientID != nil {
			id := *l.IngredientID
			l.IngredientID = &id
		}
		out[i] = l
	}
	return out
}
