package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const sandwichColumns = "id, description, active"

const sandwichLineColumns = "id, sandwich_id, ingredient_id, description, line_total, quantity, active, position"

func scanSandwich(row interface{ Scan(...any) error }) (Sandwich, error) {
	var s Sandwich
	err := row.Scan(&s.ID, &s.Description, &s.Active)
	return s, err
}

func scanSandwichLine(row interface{ Scan(...any) error }) (SandwichLine, error) {
	var l SandwichLine
	err := row.Scan(&l.ID, &l.SandwichID, &l.IngredientID, &l.Description, &l.LineTotal, &l.Quantity, &l.Active, &l.Position)
	return l, err
}

// ListSandwiches returns every sandwich, inactive ones included.
func (q *Queries) ListSandwiches(ctx context.Context) ([]Sandwich, error) {
	rows, err := q.db.Query(ctx, "SELECT "+sandwichColumns+" FROM sandwiches ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Sandwich
	for rows.Next() {
		s, err := scanSandwich(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// GetSandwich returns one sandwich by id.
func (q *Queries) GetSandwich(ctx context.Context, id int64) (Sandwich, error) {
	row := q.db.QueryRow(ctx, "SELECT "+sandwichColumns+" FROM sandwiches WHERE id = $1", id)
	return scanSandwich(row)
}

type CreateSandwichParams struct {
	Description string
	Active      bool
}

func (q *Queries) CreateSandwich(ctx context.Context, arg CreateSandwichParams) (Sandwich, error) {
	row := q.db.QueryRow(ctx,
		"INSERT INTO sandwiches (description, active) VALUES ($1, $2) RETURNING "+sandwichColumns,
		arg.Description, arg.Active)
	return scanSandwich(row)
}

type UpdateSandwichParams struct {
	ID          int64
	Description string
	Active      bool
}

func (q *Queries) UpdateSandwich(ctx context.Context, arg UpdateSandwichParams) (Sandwich, error) {
	row := q.db.QueryRow(ctx,
		"UPDATE sandwiches SET description = $2, active = $3 WHERE id = $1 RETURNING "+sandwichColumns,
		arg.ID, arg.Description, arg.Active)
	return scanSandwich(row)
}

// SoftDeleteSandwich marks a sandwich inactive and returns its id.
func (q *Queries) SoftDeleteSandwich(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx,
		"UPDATE sandwiches SET active = false WHERE id = $1 AND active RETURNING id", id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}

// ListSandwichLines returns the lines of a sandwich in form order.
func (q *Queries) ListSandwichLines(ctx context.Context, sandwichID int64) ([]SandwichLine, error) {
	rows, err := q.db.Query(ctx,
		"SELECT "+sandwichLineColumns+" FROM sandwich_lines WHERE sandwich_id = $1 ORDER BY position, id", sandwichID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []SandwichLine
	for rows.Next() {
		l, err := scanSandwichLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

type CreateSandwichLineParams struct {
	SandwichID   int64
	IngredientID pgtype.Int8
	Description  string
	LineTotal    pgtype.Numeric
	Quantity     int32
	Active       bool
	Position     int32
}

func (q *Queries) CreateSandwichLine(ctx context.Context, arg CreateSandwichLineParams) (SandwichLine, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO sandwich_lines (sandwich_id, ingredient_id, description, line_total, quantity, active, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+sandwichLineColumns,
		arg.SandwichID, arg.IngredientID, arg.Description, arg.LineTotal, arg.Quantity, arg.Active, arg.Position)
	return scanSandwichLine(row)
}

// DeleteSandwichLines removes all lines of a sandwich; updates replace the
// whole collection.
func (q *Queries) DeleteSandwichLines(ctx context.Context, sandwichID int64) error {
	_, err := q.db.Exec(ctx, "DELETE FROM sandwich_lines WHERE sandwich_id = $1", sandwichID)
	return err
}
