package mykafka

import (
	"context"

	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
)

const (
	ProductTopic = "product_events"
	OrderTopic   = "order_events"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	Type     string          `json:"type"`
	ID       string          `json:"id"`
	Document models.Document `json:"document,omitempty"`
}

// EventPublisher turns collection changes into events such as
// "product_created" or "order_updated".
type EventPublisher struct {
	Publisher Publisher
}

func NewEventPublisher(p Publisher) *EventPublisher {
	return &EventPublisher{Publisher: p}
}

func route(coll models.Collection) (topic, noun string) {
	if coll == models.Orders {
		return OrderTopic, "order"
	}
	return ProductTopic, "product"
}

func (p *EventPublisher) publish(ctx context.Context, coll models.Collection, action, id string, doc models.Document) error {
	topic, noun := route(coll)
	ev := Event{Type: noun + "_" + action, ID: id, Document: doc}

	if err := p.Publisher.PublishEvent(ctx, topic, id, ev); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("event_published", "topic", topic, "type", ev.Type, "id", id)
	return nil
}

func (p *EventPublisher) DocumentCreated(ctx context.Context, coll models.Collection, doc models.Document) error {
	return p.publish(ctx, coll, "created", doc.ID(), doc)
}

func (p *EventPublisher) DocumentPatched(ctx context.Context, coll models.Collection, doc models.Document) error {
	return p.publish(ctx, coll, "updated", doc.ID(), doc)
}

func (p *EventPublisher) DocumentDeleted(ctx context.Context, coll models.Collection, id string) error {
	return p.publish(ctx, coll, "deleted", id, nil)
}
