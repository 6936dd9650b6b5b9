package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/thinai_hub/internal/docstore"
	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// DateLayout matches ISO-8601 with millisecond precision in UTC.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

const observerTimeout = 5 * time.Second

// Observer is notified after a change has been persisted.
type Observer interface {
	DocumentCreated(ctx context.Context, coll models.Collection, doc models.Document) error
	DocumentPatched(ctx context.Context, coll models.Collection, doc models.Document) error
	DocumentDeleted(ctx context.Context, coll models.Collection, id string) error
}

// CollectionService serializes every operation on Store, so concurrent
// requests never lose each other's writes.
type CollectionService struct {
	Store     docstore.Store
	Observers []Observer
	NewID     func() string
	Now       func() time.Time

	mu sync.Mutex
}

func NewCollectionService(store docstore.Store, observers ...Observer) *CollectionService {
	return &CollectionService{Store: store, Observers: observers}
}

func (s *CollectionService) newID(docs []models.Document) string {
	gen := s.NewID
	if gen == nil {
		gen = uuid.NewString
	}
	for {
		id := gen()
		if indexOf(docs, id) < 0 {
			return id
		}
	}
}

func (s *CollectionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func indexOf(docs []models.Document, id string) int {
	for i, d := range docs {
		if d.ID() == id {
			return i
		}
	}
	return -1
}

func checkCollection(coll models.Collection) error {
	if _, ok := models.ParseCollection(string(coll)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}
	return nil
}

func (s *CollectionService) List(ctx context.Context, coll models.Collection) ([]models.Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", coll, err)
	}
	docs := c.Get(coll)
	out := make([]models.Document, len(docs))
	copy(out, docs)
	return out, nil
}

// Create stores a copy of body under a fresh id. Orders are also stamped
// with the creation date and the Pending status.
func (s *CollectionService) Create(ctx context.Context, coll models.Collection, body models.Document) (models.Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}

	doc, err := s.create(ctx, coll, body)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, func(ctx context.Context, o Observer) error {
		return o.DocumentCreated(ctx, coll, doc)
	})
	return doc, nil
}

func (s *CollectionService) create(ctx context.Context, coll models.Collection, body models.Document) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", coll, err)
	}
	docs := c.Get(coll)

	doc := body.Clone()
	doc["id"] = s.newID(docs)
	if coll == models.Orders {
		doc["date"] = s.now().Format(DateLayout)
		doc["status"] = string(models.StatusPending)
	}

	c.Set(coll, append(docs, doc))
	if err := s.Store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save %s: %w", coll, err)
	}
	return doc, nil
}

func (s *CollectionService) DeleteByID(ctx context.Context, coll models.Collection, id string) error {
	if err := checkCollection(coll); err != nil {
		return err
	}

	if err := s.delete(ctx, coll, id); err != nil {
		return err
	}

	s.notify(ctx, func(ctx context.Context, o Observer) error {
		return o.DocumentDeleted(ctx, coll, id)
	})
	return nil
}

func (s *CollectionService) delete(ctx context.Context, coll models.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", coll, err)
	}
	docs := c.Get(coll)

	idx := indexOf(docs, id)
	if idx < 0 {
		return fmt.Errorf("%s %q: %w", coll, id, ErrNotFound)
	}

	kept := make([]models.Document, 0, len(docs)-1)
	kept = append(kept, docs[:idx]...)
	kept = append(kept, docs[idx+1:]...)
	c.Set(coll, kept)

	if err := s.Store.Save(ctx, c); err != nil {
		return fmt.Errorf("save %s: %w", coll, err)
	}
	return nil
}

// PatchByID shallow-merges partial into the stored document. The id, and
// the date of an order, are never overwritten.
func (s *CollectionService) PatchByID(ctx context.Context, coll models.Collection, id string, partial models.Document) (models.Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}

	doc, err := s.patch(ctx, coll, id, partial)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, func(ctx context.Context, o Observer) error {
		return o.DocumentPatched(ctx, coll, doc)
	})
	return doc, nil
}

func (s *CollectionService) patch(ctx context.Context, coll models.Collection, id string, partial models.Document) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", coll, err)
	}
	docs := c.Get(coll)

	idx := indexOf(docs, id)
	if idx < 0 {
		return nil, fmt.Errorf("%s %q: %w", coll, id, ErrNotFound)
	}

	merged := docs[idx].Clone()
	for k, v := range partial {
		switch {
		case k == "id":
			continue
		case coll == models.Orders && k == "date":
			continue
		case coll == models.Orders && k == "status":
			if err := checkStatus(merged["status"], v); err != nil {
				return nil, err
			}
		}
		merged[k] = v
	}

	docs[idx] = merged
	c.Set(coll, docs)
	if err := s.Store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save %s: %w", coll, err)
	}
	return merged, nil
}

func checkStatus(current, next any) error {
	to, ok := next.(string)
	if !ok {
		return fmt.Errorf("%w: status must be a string", ErrInvalidTransition)
	}
	from, _ := current.(string)
	if !models.CanTransition(models.OrderStatus(from), models.OrderStatus(to)) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, from, to)
	}
	return nil
}

func (s *CollectionService) notify(ctx context.Context, fn func(context.Context, Observer) error) {
	if len(s.Observers) == 0 {
		return
	}
	l := logging.FromContext(ctx)
	base := context.WithoutCancel(ctx)

	for _, o := range s.Observers {
		octx, cancel := context.WithTimeout(base, observerTimeout)
		if err := fn(octx, o); err != nil {
			l.Error("observer_error", "observer", fmt.Sprintf("%T", o), "error", err)
		}
		cancel()
	}
}
