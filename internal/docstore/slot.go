package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/thinai_hub/internal/kv"
	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
)

type SlotRepo interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// SlotStore keeps the database document in a single database slot.
type SlotStore struct {
	Repo SlotRepo
	Key  string
}

func NewSlotStore(repo SlotRepo, key string) *SlotStore {
	return &SlotStore{Repo: repo, Key: key}
}

func (s *SlotStore) Load(ctx context.Context) (*models.Collections, error) {
	data, err := s.Repo.Get(ctx, s.Key)
	if errors.Is(err, kv.ErrNotFound) {
		return models.NewCollections(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", s.Key, err)
	}

	c, err := decode(data)
	if err != nil {
		logging.FromContext(ctx).Warn("store_load_error", "store", "slot", "key", s.Key, "reason", "corrupt slot", "error", err)
		return models.NewCollections(), nil
	}
	return c, nil
}

func (s *SlotStore) Save(ctx context.Context, c *models.Collections) error {
	data, err := encode(c)
	if err != nil {
		return fmt.Errorf("encode collections: %w", err)
	}
	if err := s.Repo.Put(ctx, s.Key, data); err != nil {
		return fmt.Errorf("save slot %s: %w", s.Key, err)
	}
	return nil
}
