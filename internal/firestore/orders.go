package firestoreinfra

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/Skotchmaster/thinai_hub/internal/models"
)

const ordersCollection = "orders"

// OrderSink writes checkout orders straight into the orders collection.
// It stamps date and status itself since no server sits in between.
type OrderSink struct {
	Client *firestore.Client
	Now    func() time.Time
}

func NewOrderSink(client *firestore.Client) *OrderSink {
	return &OrderSink{Client: client}
}

func (s *OrderSink) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	o.Date = now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	o.Status = models.StatusPending

	ref, _, err := s.Client.Collection(ordersCollection).Add(ctx, o)
	if err != nil {
		return models.Order{}, fmt.Errorf("firestore: add order: %w", err)
	}
	o.ID = ref.ID
	return o, nil
}
