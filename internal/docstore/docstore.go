package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Skotchmaster/thinai_hub/internal/models"
)

// Store loads and saves the whole database document.
// Implementations are not safe for concurrent read-modify-write.
type Store interface {
	Load(ctx context.Context) (*models.Collections, error)
	Save(ctx context.Context, c *models.Collections) error
}

func decode(data []byte) (*models.Collections, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var c models.Collections
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode collections: %w", err)
	}
	c.Normalize()
	return &c, nil
}

func encode(c *models.Collections) ([]byte, error) {
	if c == nil {
		c = models.NewCollections()
	}
	c.Normalize()
	return json.MarshalIndent(c, "", "  ")
}
