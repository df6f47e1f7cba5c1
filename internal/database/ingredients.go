package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const ingredientColumns = "id, description, unit_price, is_add_on, active"

func scanIngredient(row interface{ Scan(...any) error }) (Ingredient, error) {
	var i Ingredient
	err := row.Scan(&i.ID, &i.Description, &i.UnitPrice, &i.IsAddOn, &i.Active)
	return i, err
}

// ListIngredients returns every ingredient, inactive ones included.
func (q *Queries) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, "SELECT "+ingredientColumns+" FROM ingredients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Ingredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ListActiveIngredients returns the ingredients the sandwich builder may
// reference.
func (q *Queries) ListActiveIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, "SELECT "+ingredientColumns+" FROM ingredients WHERE active ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Ingredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type CreateIngredientParams struct {
	Description string
	UnitPrice   pgtype.Numeric
	IsAddOn     bool
	Active      bool
}

func (q *Queries) CreateIngredient(ctx context.Context, arg CreateIngredientParams) (Ingredient, error) {
	row := q.db.QueryRow(ctx,
		"INSERT INTO ingredients (description, unit_price, is_add_on, active) VALUES ($1, $2, $3, $4) RETURNING "+ingredientColumns,
		arg.Description, arg.UnitPrice, arg.IsAddOn, arg.Active)
	return scanIngredient(row)
}

type UpdateIngredientParams struct {
	ID          int64
	Description string
	UnitPrice   pgtype.Numeric
	IsAddOn     bool
	Active      bool
}

func (q *Queries) UpdateIngredient(ctx context.Context, arg UpdateIngredientParams) (Ingredient, error) {
	row := q.db.QueryRow(ctx,
		"UPDATE ingredients SET description = $2, unit_price = $3, is_add_on = $4, active = $5 WHERE id = $1 RETURNING "+ingredientColumns,
		arg.ID, arg.Description, arg.UnitPrice, arg.IsAddOn, arg.Active)
	return scanIngredient(row)
}

// SoftDeleteIngredient marks an ingredient inactive and returns its id.
func (q *Queries) SoftDeleteIngredient(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx,
		"UPDATE ingredients SET active = false WHERE id = $1 AND active RETURNING id", id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}
