package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
)

// FileStorage keeps each cart as <Dir>/<Key>.json.
type FileStorage struct {
	Dir string
	Key string
}

func NewFileStorage(dir, key string) *FileStorage {
	return &FileStorage{Dir: dir, Key: key}
}

func (s *FileStorage) path() string {
	return filepath.Join(s.Dir, s.Key+".json")
}

func (s *FileStorage) LoadCart(ctx context.Context) ([]models.CartItem, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		logging.FromContext(ctx).Warn("cart_load_error", "path", s.path(), "reason", "corrupt cart, starting empty", "error", err)
		return nil, nil
	}
	return items, nil
}

func (s *FileStorage) SaveCart(_ context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cart: %w", err)
	}
	return nil
}
