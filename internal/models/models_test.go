package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to OrderStatus
		want     bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"pending to shipped skips", StatusPending, StatusShipped, true},
		{"same status", StatusShipped, StatusShipped, true},
		{"backwards", StatusShipped, StatusPending, false},
		{"cancel pending", StatusPending, StatusCancelled, true},
		{"cancel shipped", StatusShipped, StatusCancelled, true},
		{"cancel delivered", StatusDelivered, StatusCancelled, false},
		{"revive cancelled", StatusCancelled, StatusProcessing, false},
		{"unknown target", StatusPending, OrderStatus("Lost"), false},
		{"unknown source", OrderStatus(""), StatusProcessing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestDocumentID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", Document{"id": "abc"}.ID())
	assert.Equal(t, "1712", Document{"id": json.Number("1712")}.ID())
	assert.Equal(t, "", Document{}.ID())
}

func TestCollectionsNormalize(t *testing.T) {
	t.Parallel()

	var c Collections
	require.NoError(t, json.Unmarshal([]byte(`{"products":null}`), &c))
	c.Normalize()

	assert.NotNil(t, c.Products)
	assert.NotNil(t, c.Orders)
	assert.Empty(t, c.Get(Orders))
}

func TestParseCollection(t *testing.T) {
	t.Parallel()

	c, ok := ParseCollection("orders")
	require.True(t, ok)
	assert.Equal(t, Orders, c)

	_, ok = ParseCollection("users")
	assert.False(t, ok)
}
