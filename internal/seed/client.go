package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"product_dashboard/internal/domain"
)

// maxBodyBytes bounds the seed document read into memory
const maxBodyBytes = 32 << 20

// Client downloads the seed dataset
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a seed client for a fixed dataset URL
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the dataset and splits it into raw elements. Anything other
// than a 2xx JSON array is an IngestionError; element contents are not checked here.
func (c *Client) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &domain.IngestionError{Reason: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.IngestionError{Reason: "fetch dataset", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.IngestionError{
			Reason: "fetch dataset",
			Err:    fmt.Errorf("upstream returned %s - %s", resp.Status, string(body)),
		}
	}

	var items []json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&items); err != nil {
		return nil, &domain.IngestionError{Reason: "dataset is not a JSON array", Err: err}
	}
	return items, nil
}
