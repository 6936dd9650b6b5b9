package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/thinai_hub/internal/cart"
	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
)

var ErrEmptyCart = errors.New("cart is empty")

type Customer struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	PaymentMode string
}

// Sink accepts a new order and returns it as stored.
type Sink interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
}

type Submitter struct {
	Sink Sink
}

func NewSubmitter(sink Sink) *Submitter {
	return &Submitter{Sink: sink}
}

// BuildOrder snapshots the cart lines into an order request.
func BuildOrder(c *cart.Cart, cust Customer) models.Order {
	lines := c.Items()
	items := make([]models.OrderItem, 0, len(lines))
	for _, it := range lines {
		items = append(items, models.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	return models.Order{
		CustomerName: cust.Name,
		Email:        cust.Email,
		Phone:        cust.Phone,
		Address:      cust.Address,
		PaymentMode:  cust.PaymentMode,
		Total:        c.Subtotal(),
		Items:        items,
	}
}

// Submit sends the cart as one order. The cart is never modified; clearing
// it after a successful submission is up to the caller.
func (s *Submitter) Submit(ctx context.Context, c *cart.Cart, cust Customer) (models.Order, error) {
	if c.Empty() {
		return models.Order{}, ErrEmptyCart
	}

	l := logging.FromContext(ctx).With("component", "checkout")

	order, err := s.Sink.CreateOrder(ctx, BuildOrder(c, cust))
	if err != nil {
		l.Warn("checkout_error", "reason", "order rejected", "error", err)
		return models.Order{}, fmt.Errorf("submit order: %w", err)
	}

	l.Info("checkout_success", "order_id", order.ID, "total", order.Total)
	return order, nil
}
