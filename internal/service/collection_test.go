package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/thinai_hub/internal/docstore"
	"github.com/Skotchmaster/thinai_hub/internal/models"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (o *recordingObserver) record(ev string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
	return o.err
}

func (o *recordingObserver) DocumentCreated(_ context.Context, coll models.Collection, doc models.Document) error {
	return o.record(fmt.Sprintf("created %s %s", coll, doc.ID()))
}

func (o *recordingObserver) DocumentPatched(_ context.Context, coll models.Collection, doc models.Document) error {
	return o.record(fmt.Sprintf("patched %s %s", coll, doc.ID()))
}

func (o *recordingObserver) DocumentDeleted(_ context.Context, coll models.Collection, id string) error {
	return o.record(fmt.Sprintf("deleted %s %s", coll, id))
}

type failingStore struct{}

func (failingStore) Load(context.Context) (*models.Collections, error) {
	return models.NewCollections(), nil
}

func (failingStore) Save(context.Context, *models.Collections) error {
	return errors.New("disk full")
}

func newTestService(t *testing.T, observers ...Observer) *CollectionService {
	t.Helper()
	store := docstore.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	svc := NewCollectionService(store, observers...)
	n := 0
	svc.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	svc.Now = func() time.Time { return time.Date(2024, 3, 5, 10, 30, 0, 123e6, time.UTC) }
	return svc
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, models.Products, models.Document{"name": "Millet", "price": json.Number("120"), "id": "caller"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", doc.ID())
	assert.Equal(t, "Millet", doc["name"])
	assert.NotContains(t, doc, "status")

	list, err := svc.List(ctx, models.Products)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, doc, list[0])
}

func TestCreateOrderStampsDateAndStatus(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	doc, err := svc.Create(context.Background(), models.Orders, models.Document{
		"customerName": "Asha",
		"status":       "Delivered",
		"date":         "yesterday",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T10:30:00.123Z", doc["date"])
	assert.Equal(t, "Pending", doc["status"])
	assert.Equal(t, "Asha", doc["customerName"])
}

func TestCreateSkipsCollidingID(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	ids := []string{"dup", "dup", "fresh"}
	svc.NewID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := svc.Create(ctx, models.Products, models.Document{})
	require.NoError(t, err)
	second, err := svc.Create(ctx, models.Products, models.Document{})
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID())
	assert.Equal(t, "fresh", second.ID())
}

func TestListPreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, models.Products, models.Document{"n": i})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, models.Products)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, d := range list {
		assert.Equal(t, fmt.Sprintf("id-%d", i+1), d.ID())
	}

	orders, err := svc.List(ctx, models.Orders)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestDeleteByID(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, models.Products, models.Document{"name": "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.Products, models.Document{"name": "b"})
	require.NoError(t, err)

	err = svc.DeleteByID(ctx, models.Products, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, models.Products)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.DeleteByID(ctx, models.Products, a.ID()))
	list, err = svc.List(ctx, models.Products)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0]["name"])

	require.ErrorIs(t, svc.DeleteByID(ctx, models.Products, a.ID()), ErrNotFound)
}

func TestPatchByID(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, models.Orders, models.Document{"customerName": "Asha", "total": json.Number("240")})
	require.NoError(t, err)

	patched, err := svc.PatchByID(ctx, models.Orders, order.ID(), models.Document{
		"status": "Shipped",
		"id":     "hijack",
		"date":   "1999-01-01",
		"note":   "leave at door",
	})
	require.NoError(t, err)
	assert.Equal(t, order.ID(), patched.ID())
	assert.Equal(t, order["date"], patched["date"])
	assert.Equal(t, "Shipped", patched["status"])
	assert.Equal(t, "Asha", patched["customerName"])
	assert.Equal(t, json.Number("240"), patched["total"])
	assert.Equal(t, "leave at door", patched["note"])

	list, err := svc.List(ctx, models.Orders)
	require.NoError(t, err)
	assert.Equal(t, patched, list[0])
}

func TestPatchProductMayChangeAnyFieldButID(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, models.Products, models.Document{"name": "Ragi", "price": json.Number("90")})
	require.NoError(t, err)

	patched, err := svc.PatchByID(ctx, models.Products, p.ID(), models.Document{"price": json.Number("95"), "id": "x"})
	require.NoError(t, err)
	assert.Equal(t, p.ID(), patched.ID())
	assert.Equal(t, json.Number("95"), patched["price"])
}

func TestPatchStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		steps []string
		err   error
	}{
		{"forward", []string{"Processing", "Shipped", "Delivered"}, nil},
		{"same", []string{"Pending"}, nil},
		{"backwards", []string{"Shipped", "Processing"}, ErrInvalidTransition},
		{"after delivered", []string{"Delivered", "Cancelled"}, ErrInvalidTransition},
		{"cancel", []string{"Processing", "Cancelled"}, nil},
		{"unknown", []string{"Lost"}, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			ctx := context.Background()
			order, err := svc.Create(ctx, models.Orders, models.Document{})
			require.NoError(t, err)

			var last error
			for _, st := range tt.steps {
				_, last = svc.PatchByID(ctx, models.Orders, order.ID(), models.Document{"status": st})
				if last != nil {
					break
				}
			}
			if tt.err == nil {
				require.NoError(t, last)
				return
			}
			require.ErrorIs(t, last, tt.err)
		})
	}
}

func TestPatchUnknownID(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Orders, models.Document{})
	require.NoError(t, err)

	_, err = svc.PatchByID(ctx, models.Orders, "nope", models.Document{"status": "Shipped"})
	require.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, models.Orders)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Pending", list[0]["status"])
}

func TestUnknownCollection(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.List(context.Background(), models.Collection("users"))
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestSaveFailureIsReturned(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	svc := NewCollectionService(failingStore{}, obs)

	_, err := svc.Create(context.Background(), models.Products, models.Document{})
	require.ErrorContains(t, err, "disk full")
	assert.Empty(t, obs.events)
}

func TestObserversNotifiedAfterPersist(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{err: errors.New("broker down")}
	svc := newTestService(t, obs)
	ctx := context.Background()

	p, err := svc.Create(ctx, models.Products, models.Document{})
	require.NoError(t, err, "observer errors must not fail the operation")
	_, err = svc.PatchByID(ctx, models.Products, p.ID(), models.Document{"name": "x"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteByID(ctx, models.Products, p.ID()))

	assert.Equal(t, []string{
		"created products id-1",
		"patched products id-1",
		"deleted products id-1",
	}, obs.events)
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	t.Parallel()
	store := docstore.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	svc := NewCollectionService(store)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, models.Orders, models.Document{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := svc.List(ctx, models.Orders)
	require.NoError(t, err)
	assert.Len(t, list, n)
}
