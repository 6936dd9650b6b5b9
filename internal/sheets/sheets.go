package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Skotchmaster/thinai_hub/internal/models"
)

var ErrRejected = errors.New("sheets: export rejected")

type exportRequest struct {
	Orders []models.Order `json:"orders"`
}

type exportResponse struct {
	Result string `json:"result"`
	Count  int    `json:"count"`
	Error  string `json:"error"`
}

// Client posts orders to a spreadsheet-append webhook, one row per order.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		// the webhook follows a redirect before answering
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Export returns the number of rows the webhook reports as appended.
// Failed exports are not retried.
func (c *Client) Export(ctx context.Context, orders []models.Order) (int, error) {
	if orders == nil {
		orders = []models.Order{}
	}
	data, err := json.Marshal(exportRequest{Orders: orders})
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("sheets: webhook answered %d", resp.StatusCode)
	}

	var out exportResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Result != "success" {
		return 0, fmt.Errorf("%w: %s", ErrRejected, out.Error)
	}
	return out.Count, nil
}
