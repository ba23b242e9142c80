package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	errx "github.com/Chative-restaurant-poc/server/internal/core/error"
)

const (
	SearchPath  = "/tools/search_menu"
	GetItemPath = "/tools/get_item"

	defaultClientTimeout = 10 * time.Second
	maxResponseBytes     = 2 << 20
)

// SearchRequest is the body of the search endpoint. Nil fields mean "not given".
type SearchRequest struct {
	Query   *string        `json:"query"`
	Filters *model.Filters `json:"filters"`
}

// NotFoundResponse is returned by the item-lookup endpoint for unknown ids.
type NotFoundResponse struct {
	Error string `json:"error"`
	ID    string `json:"id"`
}

// Client talks to the catalog service over HTTP. Each call is a blocking
// round-trip bounded by the client timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL. A non-positive timeout uses 10s.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid catalog url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Search(ctx context.Context, query string, filters model.Filters) ([]model.MenuItem, error) {
	req := SearchRequest{Filters: &filters}
	if q := strings.TrimSpace(query); q != "" {
		req.Query = &q
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SearchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var items []model.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errx.WrapCatalog(fmt.Errorf("decode search response: %w", err))
	}
	if len(items) > model.MaxSearchResults {
		items = items[:model.MaxSearchResults]
	}
	return items, nil
}

// GetItem fetches one item by id. Unknown ids yield ErrItemNotFound.
func (c *Client) GetItem(ctx context.Context, id string) (model.MenuItem, error) {
	u := c.baseURL + GetItemPath + "?id=" + url.QueryEscape(id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("build get_item request: %w", err)
	}

	raw, err := c.do(httpReq)
	if err != nil {
		return model.MenuItem{}, err
	}

	var nf NotFoundResponse
	if err := json.Unmarshal(raw, &nf); err == nil && nf.Error == "not_found" {
		return model.MenuItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	var item model.MenuItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return model.MenuItem{}, errx.WrapCatalog(fmt.Errorf("decode get_item response: %w", err))
	}
	return item, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errx.WrapCatalog(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errx.WrapCatalog(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errx.WrapCatalog(fmt.Errorf("catalog http status=%d body=%s", resp.StatusCode, string(raw)))
	}
	return raw, nil
}

var _ Searcher = (*Client)(nil)
