package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/thinai_hub/internal/models"
)

var ErrIndexOutOfRange = errors.New("cart index out of range")

// Storage persists the cart between sessions. LoadCart returns nil, nil
// when nothing has been saved yet.
type Storage interface {
	LoadCart(ctx context.Context) ([]models.CartItem, error)
	SaveCart(ctx context.Context, items []models.CartItem) error
}

// Cart keeps one line per product id, each with quantity >= 1.
// Every mutation is saved before it returns; when saving fails the cart
// keeps its previous contents. A Cart is not safe for concurrent use.
type Cart struct {
	storage Storage
	items   []models.CartItem
}

func Load(ctx context.Context, storage Storage) (*Cart, error) {
	items, err := storage.LoadCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &Cart{storage: storage, items: normalize(items)}, nil
}

// normalize merges duplicate ids and drops lines with no quantity, so a
// hand-edited store still yields a valid cart.
func normalize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	pos := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i, ok := pos[it.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

func (c *Cart) commit(ctx context.Context, next []models.CartItem) error {
	if err := c.storage.SaveCart(ctx, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = next
	return nil
}

func (c *Cart) snapshot() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// AddItem increments the line for p.ID or appends a new one with quantity 1.
func (c *Cart) AddItem(ctx context.Context, p models.Product) error {
	next := c.snapshot()
	for i := range next {
		if next[i].ID == p.ID {
			next[i].Quantity++
			return c.commit(ctx, next)
		}
	}
	next = append(next, models.CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	})
	return c.commit(ctx, next)
}

// UpdateQuantity adds delta to the line at index unless the result would
// drop below 1, in which case the cart is left as is. It is saved either way.
func (c *Cart) UpdateQuantity(ctx context.Context, index, delta int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	next := c.snapshot()
	if q := next[index].Quantity + delta; q > 0 {
		next[index].Quantity = q
	}
	return c.commit(ctx, next)
}

func (c *Cart) RemoveItem(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	next := make([]models.CartItem, 0, len(c.items)-1)
	next = append(next, c.items[:index]...)
	next = append(next, c.items[index+1:]...)
	return c.commit(ctx, next)
}

func (c *Cart) Clear(ctx context.Context) error {
	return c.commit(ctx, []models.CartItem{})
}

func (c *Cart) Items() []models.CartItem {
	return c.snapshot()
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, it := range c.items {
		sum += it.LineTotal()
	}
	return sum
}
