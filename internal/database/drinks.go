package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const drinkColumns = "id, description, unit_price, sugar_free, active"

func scanDrink(row interface{ Scan(...any) error }) (Drink, error) {
	var d Drink
	err := row.Scan(&d.ID, &d.Description, &d.UnitPrice, &d.SugarFree, &d.Active)
	return d, err
}

// ListDrinks returns every drink, inactive ones included.
func (q *Queries) ListDrinks(ctx context.Context) ([]Drink, error) {
	rows, err := q.db.Query(ctx, "SELECT "+drinkColumns+" FROM drinks ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Drink
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// GetDrink returns one drink by id.
func (q *Queries) GetDrink(ctx context.Context, id int64) (Drink, error) {
	row := q.db.QueryRow(ctx, "SELECT "+drinkColumns+" FROM drinks WHERE id = $1", id)
	return scanDrink(row)
}

type CreateDrinkParams struct {
	Description string
	UnitPrice   pgtype.Numeric
	SugarFree   bool
	Active      bool
}

func (q *Queries) CreateDrink(ctx context.Context, arg CreateDrinkParams) (Drink, error) {
	row := q.db.QueryRow(ctx,
		"INSERT INTO drinks (description, unit_price, sugar_free, active) VALUES ($1, $2, $3, $4) RETURNING "+drinkColumns,
		arg.Description, arg.UnitPrice, arg.SugarFree, arg.Active)
	return scanDrink(row)
}

type UpdateDrinkParams struct {
	ID          int64
	Description string
	UnitPrice   pgtype.Numeric
	SugarFree   bool
	Active      bool
}

func (q *Queries) UpdateDrink(ctx context.Context, arg UpdateDrinkParams) (Drink, error) {
	row := q.db.QueryRow(ctx,
		"UPDATE drinks SET description = $2, unit_price = $3, sugar_free = $4, active = $5 WHERE id = $1 RETURNING "+drinkColumns,
		arg.ID, arg.Description, arg.UnitPrice, arg.SugarFree, arg.Active)
	return scanDrink(row)
}

// SoftDeleteDrink marks a drink inactive and returns its id.
func (q *Queries) SoftDeleteDrink(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx,
		"UPDATE drinks SET active = false WHERE id = $1 AND active RETURNING id", id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}
