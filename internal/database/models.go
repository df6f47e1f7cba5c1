package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             int64
	Email          string
	FullName       string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
}

type Ingredient struct {
	ID          int64
	Description string
	UnitPrice   pgtype.Numeric
	IsAddOn     bool
	Active      bool
}

type Drink struct {
	ID          int64
	Description string
	UnitPrice   pgtype.Numeric
	SugarFree   bool
	Active      bool
}

type Sandwich struct {
	ID          int64
	Description string
	Active      bool
}

type SandwichLine struct {
	ID           int64
	SandwichID   int64
	IngredientID pgtype.Int8
	Description  string
	LineTotal    pgtype.Numeric
	Quantity     int32
	Active       bool
	Position     int32
}

type Order struct {
	ID              int64
	RegisteredAt    time.Time
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	CustomerNote    pgtype.Text
}

type OrderSandwichItem struct {
	ID         int64
	OrderID    int64
	SandwichID int64
	Quantity   int32
	Position   int32
}

type OrderDrinkItem struct {
	ID       int64
	OrderID  int64
	DrinkID  int64
	Quantity int32
	Position int32
}
