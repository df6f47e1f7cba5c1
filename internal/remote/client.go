// Package remote is the HTTP boundary to the remote store. All call sites
// share one injected base URL; nothing here retries, and no request carries
// a timeout beyond what the caller's context imposes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/salutem-pos/api/internal/catalog"
	"github.com/shopspring/decimal"
)

// Client talks to the remote store REST API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates a client for the store at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// --- Wire types ---
// Prices travel as strings with two decimal places, matching what the
// store's handlers emit.

type ingredientPayload struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	IsAddOn     bool   `json:"is_add_on"`
	Active      bool   `json:"active"`
}

type drinkPayload struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	SugarFree   bool   `json:"sugar_free"`
	Active      bool   `json:"active"`
}

type sandwichLinePayload struct {
	IngredientID *int64 `json:"ingredient_id"`
	Description  string `json:"description"`
	LineTotal    string `json:"line_total"`
	Quantity     int32  `json:"quantity"`
	Active       bool   `json:"active"`
}

type sandwichPayload struct {
	ID          int64                 `json:"id,omitempty"`
	Description string                `json:"description"`
	Active      bool                  `json:"active"`
	Lines       []sandwichLinePayload `json:"lines"`
}

type customerPayload struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Note    string `json:"note,omitempty"`
}

type orderItemPayload struct {
	CatalogID int64 `json:"catalog_id"`
	Quantity  int32 `json:"quantity"`
}

type orderPayload struct {
	ID            int64              `json:"id,omitempty"`
	RegisteredAt  time.Time          `json:"registered_at"`
	Customer      customerPayload    `json:"customer"`
	SandwichItems []orderItemPayload `json:"sandwich_items"`
	DrinkItems    []orderItemPayload `json:"drink_items"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// --- Catalog reads ---

// ListActiveIngredients fetches the ingredients the sandwich builder may
// reference.
func (c *Client) ListActiveIngredients(ctx context.Context) ([]catalog.Ingredient, error) {
	var payload []ingredientPayload
	if err := c.do(ctx, http.MethodGet, "/api/ingredients/active", nil, &payload); err != nil {
		return nil, err
	}
	items := make([]catalog.Ingredient, len(payload))
	for i, p := range payload {
		items[i] = toIngredient(p)
	}
	return items, nil
}

// ListIngredients fetches the full ingredient list, inactive entries
// included, for the catalog screens.
func (c *Client) ListIngredients(ctx context.Context) ([]catalog.Ingredient, error) {
	var payload []ingredientPayload
	if err := c.do(ctx, http.MethodGet, "/api/ingredients", nil, &payload); err != nil {
		return nil, err
	}
	items := make([]catalog.Ingredient, len(payload))
	for i, p := range payload {
		items[i] = toIngredient(p)
	}
	return items, nil
}

// ListDrinks fetches the drink list.
func (c *Client) ListDrinks(ctx context.Context) ([]catalog.Drink, error) {
	var payload []drinkPayload
	if err := c.do(ctx, http.MethodGet, "/api/drinks", nil, &payload); err != nil {
		return nil, err
	}
	items := make([]catalog.Drink, len(payload))
	for i, p := range payload {
		items[i] = toDrink(p)
	}
	return items, nil
}

// ListSandwiches fetches the sandwich list with lines.
func (c *Client) ListSandwiches(ctx context.Context) ([]catalog.Sandwich, error) {
	var payload []sandwichPayload
	if err := c.do(ctx, http.MethodGet, "/api/sandwiches", nil, &payload); err != nil {
		return nil, err
	}
	items := make([]catalog.Sandwich, len(payload))
	for i, p := range payload {
		items[i] = toSandwich(p)
	}
	return items, nil
}

// --- Ingredient / drink catalog maintenance ---

// CreateIngredient adds a catalog ingredient.
func (c *Client) CreateIngredient(ctx context.Context, in catalog.Ingredient) (catalog.Ingredient, error) {
	var out ingredientPayload
	if err := c.do(ctx, http.MethodPost, "/api/ingredients", fromIngredient(in), &out); err != nil {
		return catalog.Ingredient{}, err
	}
	return toIngredient(out), nil
}

// UpdateIngredient updates a catalog ingredient; the id travels in the
// payload.
func (c *Client) UpdateIngredient(ctx context.Context, in catalog.Ingredient) (catalog.Ingredient, error) {
	var out ingredientPayload
	if err := c.do(ctx, http.MethodPut, "/api/ingredients", fromIngredient(in), &out); err != nil {
		return catalog.Ingredient{}, err
	}
	return toIngredient(out), nil
}

// DeleteIngredient soft-deletes a catalog ingredient.
func (c *Client) DeleteIngredient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/ingredients/%d", id), nil, nil)
}

// CreateDrink adds a catalog drink.
func (c *Client) CreateDrink(ctx context.Context, in catalog.Drink) (catalog.Drink, error) {
	var out drinkPayload
	if err := c.do(ctx, http.MethodPost, "/api/drinks", fromDrink(in), &out); err != nil {
		return catalog.Drink{}, err
	}
	return toDrink(out), nil
}

// UpdateDrink updates a catalog drink.
func (c *Client) UpdateDrink(ctx context.Context, in catalog.Drink) (catalog.Drink, error) {
	var out drinkPayload
	if err := c.do(ctx, http.MethodPut, "/api/drinks", fromDrink(in), &out); err != nil {
		return catalog.Drink{}, err
	}
	return toDrink(out), nil
}

// DeleteDrink soft-deletes a catalog drink.
func (c *Client) DeleteDrink(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/drinks/%d", id), nil, nil)
}

// --- Sandwiches ---

// CreateSandwich creates a sandwich; the store assigns the id.
func (c *Client) CreateSandwich(ctx context.Context, s catalog.Sandwich) (catalog.Sandwich, error) {
	in := fromSandwich(s)
	in.ID = 0
	var out sandwichPayload
	if err := c.do(ctx, http.MethodPost, "/api/sandwiches", in, &out); err != nil {
		return catalog.Sandwich{}, err
	}
	return toSandwich(out), nil
}

// UpdateSandwich updates an existing sandwich; the id travels in the
// payload.
func (c *Client) UpdateSandwich(ctx context.Context, s catalog.Sandwich) (catalog.Sandwich, error) {
	var out sandwichPayload
	if err := c.do(ctx, http.MethodPut, "/api/sandwiches", fromSandwich(s), &out); err != nil {
		return catalog.Sandwich{}, err
	}
	return toSandwich(out), nil
}

// DeleteSandwich soft-deletes a sandwich.
func (c *Client) DeleteSandwich(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/sandwiches/%d", id), nil, nil)
}

// --- Orders ---

// ListOrders fetches all submitted orders.
func (c *Client) ListOrders(ctx context.Context) ([]catalog.Order, error) {
	var payload []orderPayload
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &payload); err != nil {
		return nil, err
	}
	orders := make([]catalog.Order, len(payload))
	for i, p := range payload {
		orders[i] = toOrder(p)
	}
	return orders, nil
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, o catalog.Order) (catalog.Order, error) {
	in := fromOrder(o)
	in.ID = 0
	var out orderPayload
	if err := c.do(ctx, http.MethodPost, "/api/orders", in, &out); err != nil {
		return catalog.Order{}, err
	}
	return toOrder(out), nil
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/orders/%d", id), nil, nil)
}

// --- Auth ---

// Login authenticates against the store and keeps the returned token for
// subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// --- Transport ---

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", method, path, errorMessage(resp))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// errorMessage extracts the store's {"error": "..."} body, falling back to
// the HTTP status.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return resp.Status
}

// --- Conversions ---

func toIngredient(p ingredientPayload) catalog.Ingredient {
	return catalog.Ingredient{
		ID:          p.ID,
		Description: p.Description,
		UnitPrice:   parsePrice(p.UnitPrice),
		IsAddOn:     p.IsAddOn,
		Active:      p.Active,
	}
}

func fromIngredient(i catalog.Ingredient) ingredientPayload {
	return ingredientPayload{
		ID:          i.ID,
		Description: i.Description,
		UnitPrice:   i.UnitPrice.StringFixed(2),
		IsAddOn:     i.IsAddOn,
		Active:      i.Active,
	}
}

func toDrink(p drinkPayload) catalog.Drink {
	return catalog.Drink{
		ID:          p.ID,
		Description: p.Description,
		UnitPrice:   parsePrice(p.UnitPrice),
		SugarFree:   p.SugarFree,
		Active:      p.Active,
	}
}

func fromDrink(d catalog.Drink) drinkPayload {
	return drinkPayload{
		ID:          d.ID,
		Description: d.Description,
		UnitPrice:   d.UnitPrice.StringFixed(2),
		SugarFree:   d.SugarFree,
		Active:      d.Active,
	}
}

func toSandwich(p sandwichPayload) catalog.Sandwich {
	s := catalog.Sandwich{
		ID:          p.ID,
		Description: p.Description,
		Active:      p.Active,
		Lines:       make([]catalog.SandwichLine, len(p.Lines)),
	}
	for i, l := range p.Lines {
		s.Lines[i] = catalog.SandwichLine{
			IngredientID: l.IngredientID,
			Description:  l.Description,
			LineTotal:    parsePrice(l.LineTotal),
			Quantity:     l.Quantity,
			Active:       l.Active,
		}
	}
	return s
}

func fromSandwich(s catalog.Sandwich) sandwichPayload {
	p := sandwichPayload{
		ID:          s.ID,
		Description: s.Description,
		Active:      s.Active,
		Lines:       make([]sandwichLinePayload, len(s.Lines)),
	}
	for i, l := range s.Lines {
		p.Lines[i] = sandwichLinePayload{
			IngredientID: l.IngredientID,
			Description:  l.Description,
			LineTotal:    l.LineTotal.StringFixed(2),
			Quantity:     l.Quantity,
			Active:       l.Active,
		}
	}
	return p
}

func toOrder(p orderPayload) catalog.Order {
	return catalog.Order{
		ID:           p.ID,
		RegisteredAt: p.RegisteredAt,
		Customer: catalog.CustomerInfo{
			Name:    p.Customer.Name,
			Address: p.Customer.Address,
			Phone:   p.Customer.Phone,
			Note:    p.Customer.Note,
		},
		SandwichItems: toOrderItems(p.SandwichItems),
		DrinkItems:    toOrderItems(p.DrinkItems),
	}
}

func fromOrder(o catalog.Order) orderPayload {
	return orderPayload{
		ID:           o.ID,
		RegisteredAt: o.RegisteredAt,
		Customer: customerPayload{
			Name:    o.Customer.Name,
			Address: o.Customer.Address,
			Phone:   o.Customer.Phone,
			Note:    o.Customer.Note,
		},
		SandwichItems: fromOrderItems(o.SandwichItems),
		DrinkItems:    fromOrderItems(o.DrinkItems),
	}
}

func toOrderItems(items []orderItemPayload) []catalog.OrderItem {
	out := make([]catalog.OrderItem, len(items))
	for i, it := range items {
		out[i] = catalog.OrderItem{CatalogID: it.CatalogID, Quantity: it.Quantity}
	}
	return out
}

func fromOrderItems(items []catalog.OrderItem) []orderItemPayload {
	out := make([]orderItemPayload, len(items))
	for i, it := range items {
		out[i] = orderItemPayload{CatalogID: it.CatalogID, Quantity: it.Quantity}
	}
	return out
}

// parsePrice follows the store's own lenient conversion: a malformed price
// string becomes zero rather than failing the whole list.
func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
