// Package builder implements the sandwich and order draft builders: the
// in-memory form state staff edit before a create or update request is
// issued to the remote store.
package builder

import "errors"

// Validation errors. All are caught before any request is issued; the draft
// is left unchanged and the user can correct the input and retry.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidQuantity     = errors.New("quantity must be >= 1")
	ErrNameRequired        = errors.New("customer name is required")
	ErrAddressRequired     = errors.New("customer address is required")
	ErrPhoneRequired       = errors.New("customer phone is required")
	ErrPhoneTooShort       = errors.New("customer phone must have at least 8 characters")
	ErrItemNotSelected     = errors.New("every item must reference a catalog entry")
	ErrSaveInFlight        = errors.New("a save is already in flight")
)

// DraftState is the lifecycle of a draft.
//
//	Empty -> Editing -> Submitting -> Empty   (success)
//	                 \> Editing               (failure, draft unchanged)
type DraftState int

const (
	StateEmpty DraftState = iota
	StateEditing
	StateSubmitting
)

func (s DraftState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// DraftMode is the create/edit unifier: the same draft shape serves both
// creating a new entity and editing an existing one, and submission routes
// on the mode rather than on an ad-hoc nullable id.
type DraftMode struct {
	id      int64
	editing bool
}

// ModeNew is the mode of a draft that will be created on save.
func ModeNew() DraftMode { return DraftMode{} }

// ModeEditing is the mode of a draft that will update the entity with the
// given id on save.
func ModeEditing(id int64) DraftMode { return DraftMode{id: id, editing: true} }

// EditingID reports the id under edit and whether the draft is in edit mode.
func (m DraftMode) EditingID() (int64, bool) { return m.id, m.editing }

// Confirmer asks the user to confirm a destructive action. Deletes never
// reach the remote store unless Confirm returns true.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }
