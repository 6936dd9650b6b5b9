package cart

import (
	"context"
	"encoding/json"
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

// SlotStorage keeps the cart in a database slot named Key.
type SlotStorage struct {
	Repo SlotRepo
	Key  string
}

func NewSlotStorage(repo SlotRepo, key string) *SlotStorage {
	return &SlotStorage{Repo: repo, Key: key}
}

func (s *SlotStorage) LoadCart(ctx context.Context) ([]models.CartItem, error) {
	data, err := s.Repo.Get(ctx, s.Key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart slot %s: %w", s.Key, err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		logging.FromContext(ctx).Warn("cart_load_error", "key", s.Key, "reason", "corrupt cart, starting empty", "error", err)
		return nil, nil
	}
	return items, nil
}

func (s *SlotStorage) SaveCart(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.Repo.Put(ctx, s.Key, data)
}
