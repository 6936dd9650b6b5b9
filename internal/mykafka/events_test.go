package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/thinai_hub/internal/models"
)

type published struct {
	topic, key string
	body       map[string]any
}

type fakePublisher struct {
	got []published
	err error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}
	f.got = append(f.got, published{topic: topic, key: key, body: body})
	return nil
}

func TestEventPublisher(t *testing.T) {
	fake := &fakePublisher{}
	p := NewEventPublisher(fake)
	ctx := context.Background()

	require.NoError(t, p.DocumentCreated(ctx, models.Products, models.Document{"id": "p1", "name": "Millet"}))
	require.NoError(t, p.DocumentPatched(ctx, models.Orders, models.Document{"id": "o1", "status": "Shipped"}))
	require.NoError(t, p.DocumentDeleted(ctx, models.Products, "p1"))

	require.Len(t, fake.got, 3)

	assert.Equal(t, ProductTopic, fake.got[0].topic)
	assert.Equal(t, "p1", fake.got[0].key)
	assert.Equal(t, "product_created", fake.got[0].body["type"])
	assert.Equal(t, "Millet", fake.got[0].body["document"].(map[string]any)["name"])

	assert.Equal(t, OrderTopic, fake.got[1].topic)
	assert.Equal(t, "order_updated", fake.got[1].body["type"])

	assert.Equal(t, "product_deleted", fake.got[2].body["type"])
	assert.Equal(t, "p1", fake.got[2].body["id"])
	assert.NotContains(t, fake.got[2].body, "document")
}

func TestEventPublisherPropagatesErrors(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := NewEventPublisher(&fakePublisher{err: boom})

	err := p.DocumentCreated(context.Background(), models.Orders, models.Document{"id": "o1"})
	require.ErrorIs(t, err, boom)
}

func TestNewProducerNeedsBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
