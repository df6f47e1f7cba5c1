package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/salutem-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// Errors returned by the sandwich service.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidLineTotal    = errors.New("invalid line_total")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrNotFound            = errors.New("sandwich not found")
)

// SandwichStore defines the DB methods needed to save sandwiches.
// Satisfied by *database.Queries (and its WithTx variant).
type SandwichStore interface {
	GetSandwich(ctx context.Context, id int64) (database.Sandwich, error)
	CreateSandwich(ctx context.Context, arg database.CreateSandwichParams) (database.Sandwich, error)
	UpdateSandwich(ctx context.Context, arg database.UpdateSandwichParams) (database.Sandwich, error)
	CreateSandwichLine(ctx context.Context, arg database.CreateSandwichLineParams) (database.SandwichLine, error)
	DeleteSandwichLines(ctx context.Context, sandwichID int64) error
}

// NewSandwichStore creates a SandwichStore from a DBTX (pool or tx).
type NewSandwichStore func(db database.DBTX) SandwichStore

// SandwichLineRequest is one ingredient line of a sandwich. LineTotal is the
// price captured when the line was composed; it is stored as sent and never
// recalculated from the current ingredient price.
type SandwichLineRequest struct {
	IngredientID *int64
	Description  string
	LineTotal    string
	Quantity     int32
	Active       bool
}

// SaveSandwichRequest is the validated input for creating or updating a
// sandwich.
type SaveSandwichRequest struct {
	Description string
	Active      bool
	Lines       []SandwichLineRequest
}

// SandwichResult is a sandwich with its lines.
type SandwichResult struct {
	Sandwich database.Sandwich
	Lines    []database.SandwichLine
}

// SandwichService handles sandwich composition logic.
type SandwichService struct {
	pool     TxBeginner
	newStore NewSandwichStore
}

// NewSandwichService creates a new SandwichService.
func NewSandwichService(pool TxBeginner, newStore NewSandwichStore) *SandwichService {
	return &SandwichService{pool: pool, newStore: newStore}
}

// Create validates and inserts a sandwich with its lines atomically.
func (s *SandwichService) Create(ctx context.Context, req SaveSandwichRequest) (*SandwichResult, error) {
	lines, err := validateSandwich(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	sandwich, err := store.CreateSandwich(ctx, database.CreateSandwichParams{
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("create sandwich: %w", err)
	}

	created, err := insertLines(ctx, store, sandwich.ID, lines)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &SandwichResult{Sandwich: sandwich, Lines: created}, nil
}

// Update validates and replaces a sandwich and its whole line collection
// atomically.
func (s *SandwichService) Update(ctx context.Context, id int64, req SaveSandwichRequest) (*SandwichResult, error) {
	lines, err := validateSandwich(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetSandwich(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sandwich: %w", err)
	}

	sandwich, err := store.UpdateSandwich(ctx, database.UpdateSandwichParams{
		ID:          id,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("update sandwich: %w", err)
	}

	if err := store.DeleteSandwichLines(ctx, id); err != nil {
		return nil, fmt.Errorf("delete sandwich lines: %w", err)
	}
	created, err := insertLines(ctx, store, id, lines)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &SandwichResult{Sandwich: sandwich, Lines: created}, nil
}

// preparedLine holds a line ready to insert.
type preparedLine struct {
	ingredientID pgtype.Int8
	description  string
	lineTotal    decimal.Decimal
	quantity     int32
	active       bool
}

func validateSandwich(req SaveSandwichRequest) ([]preparedLine, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	lines := make([]preparedLine, 0, len(req.Lines))
	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("lines[%d]: %w", i, ErrInvalidQuantity)
		}
		total := decimal.Zero
		if line.LineTotal != "" {
			var err error
			total, err = decimal.NewFromString(line.LineTotal)
			if err != nil {
				return nil, fmt.Errorf("lines[%d]: %w", i, ErrInvalidLineTotal)
			}
		}
		ingredientID := pgtype.Int8{}
		if line.IngredientID != nil {
			ingredientID = pgtype.Int8{Int64: *line.IngredientID, Valid: true}
		}
		lines = append(lines, preparedLine{
			ingredientID: ingredientID,
			description:  line.Description,
			lineTotal:    total,
			quantity:     line.Quantity,
			active:       line.Active,
		})
	}
	return lines, nil
}

func insertLines(ctx context.Context, store SandwichStore, sandwichID int64, lines []preparedLine) ([]database.SandwichLine, error) {
	var created []database.SandwichLine
	for i, line := range lines {
		row, err := store.CreateSandwichLine(ctx, database.CreateSandwichLineParams{
			SandwichID:   sandwichID,
			IngredientID: line.ingredientID,
			Description:  line.description,
			LineTotal:    decimalToNumeric(line.lineTotal),
			Quantity:     line.quantity,
			Active:       line.active,
			Position:     int32(i),
		})
		if err != nil {
			if isIngredientViolation(err) {
				return nil, fmt.Errorf("lines[%d]: %w", i, ErrIngredientNotFound)
			}
			return nil, fmt.Errorf("create sandwich line: %w", err)
		}
		created = append(created, row)
	}
	return created, nil
}

// isIngredientViolation checks if the error is a foreign key violation on
// the line's ingredient reference (pgconn error code 23503).
func isIngredientViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" && pgErr.ConstraintName == "sandwich_lines_ingredient_id_fkey"
	}
	return false
}
