package builder

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/salutem-pos/api/internal/catalog"
)

// Display placeholders for order item resolution. An item whose reference
// cannot be resolved is a first-class display condition, never an error,
// and "nothing selected yet" reads differently from "gone from the catalog".
const (
	LabelNotSelected = "(not selected)"
	LabelUnavailable = "(no longer available)"
)

const minPhoneLength = 8

// OrderStore is the remote-store surface the order builder needs.
// Satisfied by *remote.Client; narrow interface for testability.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]catalog.Order, error)
	CreateOrder(ctx context.Context, o catalog.Order) (catalog.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// ItemDraft is one row of the order form: a catalog reference plus a
// quantity. CatalogID is nil until the user picks an entry.
type ItemDraft struct {
	CatalogID *int64
	Quantity  int32
}

// OrderBuilder manages the draft of a customer order: the customer info
// block plus two independent ordered collections of line references. Orders
// have no edit path; the draft only ever traverses the create flow.
type OrderBuilder struct {
	cache   *catalog.Cache
	store   OrderStore
	confirm Confirmer
	now     func() time.Time

	state         DraftState
	customer      catalog.CustomerInfo
	sandwichItems []ItemDraft
	drinkItems    []ItemDraft

	orders []catalog.Order
}

// NewOrderBuilder creates a builder with an empty draft.
func NewOrderBuilder(cache *catalog.Cache, store OrderStore, confirm Confirmer) *OrderBuilder {
	return &OrderBuilder{cache: cache, store: store, confirm: confirm, now: time.Now}
}

// State returns the draft lifecycle state.
func (b *OrderBuilder) State() DraftState { return b.state }

// Customer returns the draft customer info.
func (b *OrderBuilder) Customer() catalog.CustomerInfo { return b.customer }

// SandwichItems returns the sandwich rows of the draft.
func (b *OrderBuilder) SandwichItems() []ItemDraft { return b.sandwichItems }

// DrinkItems returns the drink rows of the draft.
func (b *OrderBuilder) DrinkItems() []ItemDraft { return b.drinkItems }

// Orders returns the local order list.
func (b *OrderBuilder) Orders() []catalog.Order { return b.orders }

// SetCustomer replaces the draft customer info.
func (b *OrderBuilder) SetCustomer(c catalog.CustomerInfo) {
	if b.state == StateSubmitting {
		return
	}
	b.touch()
	b.customer = c
}

// AddSandwichItem appends a sandwich row with quantity 1 and nothing
// selected.
func (b *OrderBuilder) AddSandwichItem() {
	if b.state == StateSubmitting {
		return
	}
	b.touch()
	b.sandwichItems = append(b.sandwichItems, ItemDraft{Quantity: 1})
}

// AddDrinkItem appends a drink row with quantity 1 and nothing selected.
func (b *OrderBuilder) AddDrinkItem() {
	if b.state == StateSubmitting {
		return
	}
	b.touch()
	b.drinkItems = append(b.drinkItems, ItemDraft{Quantity: 1})
}

// RemoveSandwichItem removes a sandwich row by position; out-of-range
// indices are a no-op.
func (b *OrderBuilder) RemoveSandwichItem(index int) {
	if b.state == StateSubmitting || index < 0 || index >= len(b.sandwichItems) {
		return
	}
	b.touch()
	b.sandwichItems = append(b.sandwichItems[:index], b.sandwichItems[index+1:]...)
}

// RemoveDrinkItem removes a drink row by position; out-of-range indices are
// a no-op.
func (b *OrderBuilder) RemoveDrinkItem(index int) {
	if b.state == StateSubmitting || index < 0 || index >= len(b.drinkItems) {
		return
	}
	b.touch()
	b.drinkItems = append(b.drinkItems[:index], b.drinkItems[index+1:]...)
}

// SetSandwichItem points a sandwich row at a catalog id.
func (b *OrderBuilder) SetSandwichItem(index int, id int64) {
	if b.state == StateSubmitting || index < 0 || index >= len(b.sandwichItems) {
		return
	}
	b.touch()
	b.sandwichItems[index].CatalogID = &id
}

// SetDrinkItem points a drink row at a catalog id.
func (b *OrderBuilder) SetDrinkItem(index int, id int64) {
	if b.state == StateSubmitting || index < 0 || index >= len(b.drinkItems) {
		return
	}
	b.touch()
	b.drinkItems[index].CatalogID = &id
}

// SetSandwichQuantity updates a sandwich row quantity; below 1 is rejected
// with the draft unchanged.
func (b *OrderBuilder) SetSandwichQuantity(index int, qty int32) error {
	if b.state == StateSubmitting || index < 0 || index >= len(b.sandwichItems) {
		return nil
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	b.touch()
	b.sandwichItems[index].Quantity = qty
	return nil
}

// SetDrinkQuantity updates a drink row quantity; below 1 is rejected with
// the draft unchanged.
func (b *OrderBuilder) SetDrinkQuantity(index int, qty int32) error {
	if b.state == StateSubmitting || index < 0 || index >= len(b.drinkItems) {
		return nil
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	b.touch()
	b.drinkItems[index].Quantity = qty
	return nil
}

// SandwichName resolves the display name of a sandwich reference.
func (b *OrderBuilder) SandwichName(id *int64) string {
	if id == nil {
		return LabelNotSelected
	}
	s, ok := b.cache.SandwichByID(*id)
	if !ok {
		return LabelUnavailable
	}
	return s.Description
}

// DrinkName resolves the display name of a drink reference.
func (b *OrderBuilder) DrinkName(id *int64) string {
	if id == nil {
		return LabelNotSelected
	}
	d, ok := b.cache.DrinkByID(*id)
	if !ok {
		return LabelUnavailable
	}
	return d.Description
}

// Save validates the draft, stamps the registration time and issues exactly
// one create request. On success the draft is fully cleared and the order
// list refreshed; on failure the draft is retained.
func (b *OrderBuilder) Save(ctx context.Context) error {
	if b.state == StateSubmitting {
		return ErrSaveInFlight
	}
	if err := b.validate(); err != nil {
		return err
	}

	order := catalog.Order{
		RegisteredAt:  b.now(),
		Customer:      b.customer,
		SandwichItems: collectItems(b.sandwichItems),
		DrinkItems:    collectItems(b.drinkItems),
	}

	b.state = StateSubmitting
	if _, err := b.store.CreateOrder(ctx, order); err != nil {
		b.state = StateEditing
		return fmt.Errorf("save order: %w", err)
	}

	b.Reset()
	_ = b.RefreshOrders(ctx)
	return nil
}

// Delete asks for confirmation and, if granted, deletes the order and
// removes it from the local list without waiting for a full refresh.
func (b *OrderBuilder) Delete(ctx context.Context, id int64) error {
	if !b.confirm.Confirm("Delete this order?") {
		return nil
	}
	if err := b.store.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	kept := b.orders[:0]
	for _, o := range b.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	b.orders = kept
	return nil
}

// RefreshOrders reloads the order list, keeping the previous list on
// failure.
func (b *OrderBuilder) RefreshOrders(ctx context.Context) error {
	orders, err := b.store.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	b.orders = orders
	return nil
}

// Reset clears the customer fields and both line collections.
func (b *OrderBuilder) Reset() {
	b.state = StateEmpty
	b.customer = catalog.CustomerInfo{}
	b.sandwichItems = nil
	b.drinkItems = nil
}

func (b *OrderBuilder) validate() error {
	if b.customer.Name == "" {
		return ErrNameRequired
	}
	if b.customer.Address == "" {
		return ErrAddressRequired
	}
	if b.customer.Phone == "" {
		return ErrPhoneRequired
	}
	if utf8.RuneCountInString(b.customer.Phone) < minPhoneLength {
		return ErrPhoneTooShort
	}
	for _, it := range b.sandwichItems {
		if it.CatalogID == nil {
			return ErrItemNotSelected
		}
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	for _, it := range b.drinkItems {
		if it.CatalogID == nil {
			return ErrItemNotSelected
		}
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

func collectItems(drafts []ItemDraft) []catalog.OrderItem {
	items := make([]catalog.OrderItem, len(drafts))
	for i, d := range drafts {
		items[i] = catalog.OrderItem{CatalogID: *d.CatalogID, Quantity: d.Quantity}
	}
	return items
}

func (b *OrderBuilder) touch() {
	if b.state == StateEmpty {
		b.state = StateEditing
	}
}
