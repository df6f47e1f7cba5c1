package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Resource names used in change notifications.
const (
	ResourceIngredients = "ingredients"
	ResourceDrinks      = "drinks"
	ResourceSandwiches  = "sandwiches"
	ResourceOrders      = "orders"
)

// Source fetches catalog lists from the remote store.
// Satisfied by *remote.Client; narrow interface for testability.
type Source interface {
	ListActiveIngredients(ctx context.Context) ([]Ingredient, error)
	ListDrinks(ctx context.Context) ([]Drink, error)
	ListSandwiches(ctx context.Context) ([]Sandwich, error)
}

// Cache holds the most recently fetched catalog lists. Each load replaces
// the corresponding list wholesale on success; on failure the previous list
// is retained and the error is returned to the caller. When loads race, the
// most recently completed response wins.
//
// The builders read from the cache to resolve names and unit prices but
// never mutate it.
type Cache struct {
	source Source

	mu          sync.RWMutex
	ingredients []Ingredient
	drinks      []Drink
	sandwiches  []Sandwich
	onChanged   []func(resource string)
}

// NewCache creates an empty cache backed by the given source.
func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// OnChanged registers a callback invoked after each successful load with the
// name of the resource that changed. Callbacks run on the loading goroutine.
func (c *Cache) OnChanged(fn func(resource string)) {
	c.mu.Lock()
	c.onChanged = append(c.onChanged, fn)
	c.mu.Unlock()
}

// LoadIngredients fetches the active ingredient list and replaces the cached
// one.
func (c *Cache) LoadIngredients(ctx context.Context) error {
	items, err := c.source.ListActiveIngredients(ctx)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	c.mu.Lock()
	c.ingredients = items
	c.mu.Unlock()
	c.notify(ResourceIngredients)
	return nil
}

// LoadDrinks fetches the drink list and replaces the cached one.
func (c *Cache) LoadDrinks(ctx context.Context) error {
	items, err := c.source.ListDrinks(ctx)
	if err != nil {
		return fmt.Errorf("load drinks: %w", err)
	}
	c.mu.Lock()
	c.drinks = items
	c.mu.Unlock()
	c.notify(ResourceDrinks)
	return nil
}

// LoadSandwiches fetches the sandwich list and replaces the cached one.
func (c *Cache) LoadSandwiches(ctx context.Context) error {
	items, err := c.source.ListSandwiches(ctx)
	if err != nil {
		return fmt.Errorf("load sandwiches: %w", err)
	}
	c.mu.Lock()
	c.sandwiches = items
	c.mu.Unlock()
	c.notify(ResourceSandwiches)
	return nil
}

// Reload refreshes the list named by resource. Unknown resources are ignored
// so that new server-side event types do not break older clients.
func (c *Cache) Reload(ctx context.Context, resource string) error {
	switch resource {
	case ResourceIngredients:
		return c.LoadIngredients(ctx)
	case ResourceDrinks:
		return c.LoadDrinks(ctx)
	case ResourceSandwiches:
		return c.LoadSandwiches(ctx)
	}
	return nil
}

// Ingredients returns the cached ingredient list. Callers must not mutate it.
func (c *Cache) Ingredients() []Ingredient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ingredients
}

// Drinks returns the cached drink list. Callers must not mutate it.
func (c *Cache) Drinks() []Drink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.drinks
}

// Sandwiches returns the cached sandwich list. Callers must not mutate it.
func (c *Cache) Sandwiches() []Sandwich {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sandwiches
}

// IngredientByID looks up an ingredient. A false return means the id is not
// in the cached list; callers display a placeholder rather than treating it
// as a failure.
func (c *Cache) IngredientByID(id int64) (Ingredient, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.ingredients {
		if it.ID == id {
			return it, true
		}
	}
	return Ingredient{}, false
}

// DrinkByID looks up a drink by id.
func (c *Cache) DrinkByID(id int64) (Drink, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.drinks {
		if d.ID == id {
			return d, true
		}
	}
	return Drink{}, false
}

// SandwichByID looks up a sandwich by id.
func (c *Cache) SandwichByID(id int64) (Sandwich, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.sandwiches {
		if s.ID == id {
			return s, true
		}
	}
	return Sandwich{}, false
}

func (c *Cache) notify(resource string) {
	c.mu.RLock()
	listeners := c.onChanged
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(resource)
	}
}
