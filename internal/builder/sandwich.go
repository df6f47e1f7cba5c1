package builder

import (
	"context"
	"fmt"

	"github.com/salutem-pos/api/internal/catalog"
	"github.com/shopspring/decimal"
)

// SandwichStore is the remote-store surface the sandwich builder needs.
// Satisfied by *remote.Client; narrow interface for testability.
type SandwichStore interface {
	CreateSandwich(ctx context.Context, s catalog.Sandwich) (catalog.Sandwich, error)
	UpdateSandwich(ctx context.Context, s catalog.Sandwich) (catalog.Sandwich, error)
	DeleteSandwich(ctx context.Context, id int64) error
}

// SandwichBuilder manages the draft of a composite product: an ordered,
// mutable collection of ingredient lines whose totals are snapshots of the
// catalog price at edit time.
type SandwichBuilder struct {
	cache   *catalog.Cache
	store   SandwichStore
	confirm Confirmer

	state DraftState
	mode  DraftMode

	description string
	active      bool
	lines       []catalog.SandwichLine
}

// NewSandwichBuilder creates a builder with an empty draft.
func NewSandwichBuilder(cache *catalog.Cache, store SandwichStore, confirm Confirmer) *SandwichBuilder {
	return &SandwichBuilder{cache: cache, store: store, confirm: confirm, active: true}
}

// State returns the draft lifecycle state.
func (b *SandwichBuilder) State() DraftState { return b.state }

// Mode returns the create/edit mode of the draft.
func (b *SandwichBuilder) Mode() DraftMode { return b.mode }

// Description returns the draft description.
func (b *SandwichBuilder) Description() string { return b.description }

// Active returns the draft active flag.
func (b *SandwichBuilder) Active() bool { return b.active }

// Lines returns the draft lines. Callers must not mutate them.
func (b *SandwichBuilder) Lines() []catalog.SandwichLine { return b.lines }

// SetDescription updates the draft description.
func (b *SandwichBuilder) SetDescription(d string) {
	if b.state == StateSubmitting {
		return
	}
	b.touch()
	b.description = d
}

// SetActive updates the draft active flag.
func (b *SandwichBuilder) SetActive(active bool) {
	if b.state == StateSubmitting {
		return
	}
	b.touch()
	b.active = active
}

// AddLine appends an empty ingredient line: no ingredient selected,
// quantity 1, line total zero.
func (b *SandwichBuilder) AddLine() {
	if b.state == StateSubmitting {
		return
	}
	b.touch()
	b.lines = append(b.lines, catalog.SandwichLine{
		Quantity:  1,
		LineTotal: decimal.Zero,
		Active:    true,
	})
}

// RemoveLine removes the line at the given position. Out-of-range indices
// are a no-op, mirroring the permissive list UI.
func (b *SandwichBuilder) RemoveLine(index int) {
	if b.state == StateSubmitting || index < 0 || index >= len(b.lines) {
		return
	}
	b.touch()
	b.lines = append(b.lines[:index], b.lines[index+1:]...)
}

// SetIngredient points the line at a catalog ingredient and recomputes its
// snapshot total from the cached unit price. Out-of-range indices are a
// no-op.
func (b *SandwichBuilder) SetIngredient(index int, id int64) {
	if b.state == StateSubmitting || index < 0 || index >= len(b.lines) {
		return
	}
	b.touch()
	line := &b.lines[index]
	line.IngredientID = &id
	b.resolveLine(line)
}

// SetQuantity updates the line quantity and recomputes its snapshot total.
// Quantities below 1 are rejected and the draft is left unchanged.
func (b *SandwichBuilder) SetQuantity(index int, qty int32) error {
	if b.state == StateSubmitting || index < 0 || index >= len(b.lines) {
		return nil
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	b.touch()
	line := &b.lines[index]
	line.Quantity = qty
	b.resolveLine(line)
	return nil
}

// Total sums the snapshot totals of all lines. It is computed on demand and
// has no side effects.
func (b *SandwichBuilder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

// BeginEdit loads an existing sandwich into the draft, deep-copying its
// lines so edits cannot alias the cached list entry, and switches the draft
// to edit mode.
func (b *SandwichBuilder) BeginEdit(s catalog.Sandwich) {
	if b.state == StateSubmitting {
		return
	}
	b.state = StateEditing
	b.mode = ModeEditing(s.ID)
	b.description = s.Description
	b.active = s.Active
	b.lines = catalog.CloneLines(s.Lines)
}

// Save validates the draft and issues a create or an update depending on
// the draft mode. On success the draft is reset and the sandwich list is
// refreshed; on failure the draft is retained so no input is lost.
func (b *SandwichBuilder) Save(ctx context.Context) error {
	if b.state == StateSubmitting {
		return ErrSaveInFlight
	}
	if b.description == "" {
		return ErrDescriptionRequired
	}

	payload := catalog.Sandwich{
		Description: b.description,
		Active:      b.active,
		Lines:       catalog.CloneLines(b.lines),
	}
	// Denormalize descriptions from the current catalog at save time rather
	// than reusing whatever was resolved earlier in the session.
	for i := range payload.Lines {
		payload.Lines[i].Active = true
		payload.Lines[i].Description = b.ingredientDescription(payload.Lines[i].IngredientID)
	}

	b.state = StateSubmitting
	var err error
	if id, editing := b.mode.EditingID(); editing {
		payload.ID = id
		_, err = b.store.UpdateSandwich(ctx, payload)
	} else {
		_, err = b.store.CreateSandwich(ctx, payload)
	}
	if err != nil {
		b.state = StateEditing
		return fmt.Errorf("save sandwich: %w", err)
	}

	b.Reset()
	// A failed refresh keeps the previous list; the next change event or
	// manual reload catches it up.
	_ = b.cache.LoadSandwiches(ctx)
	return nil
}

// Delete asks for confirmation and, if granted, deletes the sandwich and
// refreshes the list. A declined confirmation issues no request.
func (b *SandwichBuilder) Delete(ctx context.Context, id int64) error {
	if !b.confirm.Confirm("Delete this sandwich?") {
		return nil
	}
	if err := b.store.DeleteSandwich(ctx, id); err != nil {
		return fmt.Errorf("delete sandwich: %w", err)
	}
	_ = b.cache.LoadSandwiches(ctx)
	return nil
}

// Reset clears the draft back to the empty state and leaves edit mode.
func (b *SandwichBuilder) Reset() {
	b.state = StateEmpty
	b.mode = ModeNew()
	b.description = ""
	b.active = true
	b.lines = nil
}

// resolveLine recomputes the snapshot total of a line from the current
// catalog. The recomputation happens only here, synchronously inside the
// mutators, so a price change can never re-trigger itself.
func (b *SandwichBuilder) resolveLine(line *catalog.SandwichLine) {
	if line.IngredientID == nil {
		line.LineTotal = decimal.Zero
		line.Description = ""
		return
	}
	ing, ok := b.cache.IngredientByID(*line.IngredientID)
	if !ok {
		// Referenced entity no longer in the catalog: display placeholder
		// semantics, not an error.
		line.LineTotal = decimal.Zero
		line.Description = ""
		return
	}
	line.Description = ing.Description
	line.LineTotal = ing.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity))
}

func (b *SandwichBuilder) ingredientDescription(id *int64) string {
	if id == nil {
		return ""
	}
	ing, ok := b.cache.IngredientByID(*id)
	if !ok {
		return ""
	}
	return ing.Description
}

// touch moves an empty draft into the editing state.
func (b *SandwichBuilder) touch() {
	if b.state == StateEmpty {
		b.state = StateEditing
	}
}
