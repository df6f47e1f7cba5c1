package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = "id, registered_at, customer_name, customer_address, customer_phone, customer_note"

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.RegisteredAt, &o.CustomerName, &o.CustomerAddress, &o.CustomerPhone, &o.CustomerNote)
	return o, err
}

// ListOrders returns every order, newest first.
func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY registered_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type CreateOrderParams struct {
	RegisteredAt    time.Time
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	CustomerNote    pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO orders (registered_at, customer_name, customer_address, customer_phone, customer_note)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+orderColumns,
		arg.RegisteredAt, arg.CustomerName, arg.CustomerAddress, arg.CustomerPhone, arg.CustomerNote)
	return scanOrder(row)
}

type CreateOrderSandwichItemParams struct {
	OrderID    int64
	SandwichID int64
	Quantity   int32
	Position   int32
}

func (q *Queries) CreateOrderSandwichItem(ctx context.Context, arg CreateOrderSandwichItemParams) (OrderSandwichItem, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO order_sandwich_items (order_id, sandwich_id, quantity, position)
		 VALUES ($1, $2, $3, $4) RETURNING id, order_id, sandwich_id, quantity, position`,
		arg.OrderID, arg.SandwichID, arg.Quantity, arg.Position)
	var it OrderSandwichItem
	err := row.Scan(&it.ID, &it.OrderID, &it.SandwichID, &it.Quantity, &it.Position)
	return it, err
}

type CreateOrderDrinkItemParams struct {
	OrderID  int64
	DrinkID  int64
	Quantity int32
	Position int32
}

func (q *Queries) CreateOrderDrinkItem(ctx context.Context, arg CreateOrderDrinkItemParams) (OrderDrinkItem, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO order_drink_items (order_id, drink_id, quantity, position)
		 VALUES ($1, $2, $3, $4) RETURNING id, order_id, drink_id, quantity, position`,
		arg.OrderID, arg.DrinkID, arg.Quantity, arg.Position)
	var it OrderDrinkItem
	err := row.Scan(&it.ID, &it.OrderID, &it.DrinkID, &it.Quantity, &it.Position)
	return it, err
}

// ListOrderSandwichItems returns the sandwich items of an order in form
// order.
func (q *Queries) ListOrderSandwichItems(ctx context.Context, orderID int64) ([]OrderSandwichItem, error) {
	rows, err := q.db.Query(ctx,
		"SELECT id, order_id, sandwich_id, quantity, position FROM order_sandwich_items WHERE order_id = $1 ORDER BY position, id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderSandwichItem
	for rows.Next() {
		var it OrderSandwichItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.SandwichID, &it.Quantity, &it.Position); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListOrderDrinkItems returns the drink items of an order in form order.
func (q *Queries) ListOrderDrinkItems(ctx context.Context, orderID int64) ([]OrderDrinkItem, error) {
	rows, err := q.db.Query(ctx,
		"SELECT id, order_id, drink_id, quantity, position FROM order_drink_items WHERE order_id = $1 ORDER BY position, id", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderDrinkItem
	for rows.Next() {
		var it OrderDrinkItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.DrinkID, &it.Quantity, &it.Position); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DeleteOrder hard-deletes an order; items go with it via ON DELETE
// CASCADE. Returns the number of rows removed.
func (q *Queries) DeleteOrder(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
