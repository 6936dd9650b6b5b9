package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Skotchmaster/thinai_hub/internal/logging"
	"github.com/Skotchmaster/thinai_hub/internal/models"
)

// FileStore keeps the database as one JSON file on disk.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns empty collections when the file is missing or unreadable.
func (s *FileStore) Load(ctx context.Context) (*models.Collections, error) {
	l := logging.FromContext(ctx).With("store", "file", "path", s.Path)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.Warn("store_load_error", "reason", "cannot read file", "error", err)
		}
		return models.NewCollections(), nil
	}

	c, err := decode(data)
	if err != nil {
		l.Warn("store_load_error", "reason", "corrupt file", "error", err)
		return models.NewCollections(), nil
	}
	return c, nil
}

// Save replaces the file atomically.
func (s *FileStore) Save(ctx context.Context, c *models.Collections) error {
	data, err := encode(c)
	if err != nil {
		return fmt.Errorf("encode collections: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}
	return nil
}
