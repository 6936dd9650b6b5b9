package firestoreinfra

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/thinai_hub/internal/models"
	"github.com/Skotchmaster/thinai_hub/internal/profile"
)

func newEmulatorClient(t *testing.T) *ClientWrapper {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	cw, err := NewClient(context.Background(), "thinai-test", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cw.Close() })
	return cw
}

func TestOrderSink(t *testing.T) {
	cw := newEmulatorClient(t)
	sink := NewOrderSink(cw.Client)
	sink.Now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	ctx := context.Background()

	order, err := sink.CreateOrder(ctx, models.Order{
		CustomerName: "Asha",
		Total:        120,
		Items:        []models.OrderItem{{ProductID: "p1", Name: "Millet", Price: 120, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "2024-05-06T07:08:09.000Z", order.Date)

	snap, err := cw.Client.Collection(ordersCollection).Doc(order.ID).Get(ctx)
	require.NoError(t, err)
	var stored models.Order
	require.NoError(t, snap.DataTo(&stored))
	assert.Equal(t, "Asha", stored.CustomerName)
	assert.Equal(t, order.Items, stored.Items)
}

func TestProfileStoreCreateIfAbsent(t *testing.T) {
	cw := newEmulatorClient(t)
	store := NewProfileStore(cw.Client)
	ctx := context.Background()
	uid := fmt.Sprintf("uid-%d", time.Now().UnixNano())

	first, created, err := store.CreateIfAbsent(ctx, profile.Profile{UID: uid, Email: "a@example.com", Name: "User", Role: "user", CreatedAt: "t1"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := store.CreateIfAbsent(ctx, profile.Profile{UID: uid, Email: "b@example.com", Name: "Other", Role: "admin", CreatedAt: "t2"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, again)
}
