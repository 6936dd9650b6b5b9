package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/thinai_hub/internal/models"
)

// ProductIndexer mirrors the products collection into an index.
// Orders are not indexed.
type ProductIndexer struct {
	Client *elasticsearch.Client
	Index  string
}

func NewProductIndexer(client *elasticsearch.Client, index string) *ProductIndexer {
	return &ProductIndexer{Client: client, Index: index}
}

func (x *ProductIndexer) put(ctx context.Context, doc models.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("es: marshal product: %w", err)
	}

	res, err := x.Client.Index(
		x.Index,
		bytes.NewReader(body),
		x.Client.Index.WithDocumentID(doc.ID()),
		x.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index product %s: %w", doc.ID(), err)
	}
	return checkResponse(res, "index product "+doc.ID())
}

func (x *ProductIndexer) DocumentCreated(ctx context.Context, coll models.Collection, doc models.Document) error {
	if coll != models.Products {
		return nil
	}
	return x.put(ctx, doc)
}

func (x *ProductIndexer) DocumentPatched(ctx context.Context, coll models.Collection, doc models.Document) error {
	if coll != models.Products {
		return nil
	}
	return x.put(ctx, doc)
}

func (x *ProductIndexer) DocumentDeleted(ctx context.Context, coll models.Collection, id string) error {
	if coll != models.Products {
		return nil
	}

	res, err := x.Client.Delete(x.Index, id, x.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete product %s: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete product "+id)
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: %s: %s: %s", op, res.Status(), body)
	}
	return nil
}
