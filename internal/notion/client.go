// Package notion is a minimal client for the record store's tabular-page
// HTTP API, covering the four operations this application needs: query a
// database, create a page, update a page's properties, and retrieve a page.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ymatsuda/clubhub/internal/metrics"
)

const defaultBaseURL = "https://api.notion.com"

// apiVersion is the tabular-page API version header value.
const apiVersion = "2022-06-28"

// defaultTimeout bounds every store round-trip. The store itself imposes no
// deadline, so an unset timeout would let a stuck call hold a request forever.
const defaultTimeout = 15 * time.Second

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the store.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record store returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type createPageRequest struct {
	Parent     pageParent `json:"parent"`
	Properties Properties `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type updatePageRequest struct {
	Properties Properties `json:"properties"`
}

// QueryDatabase runs a filtered, sorted query against one database and
// returns the first page of results. q may be nil for an unfiltered query.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q *Query) ([]Page, error) {
	if q == nil {
		q = &Query{}
	}
	defer metrics.ObserveStoreLatency(ctx, "query_database", time.Now())
	var resp queryResponse
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, databaseID)
	if err := c.do(ctx, http.MethodPost, url, q, &resp); err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}
	return resp.Results, nil
}

// CreatePage inserts a new page into a database.
func (c *Client) CreatePage(ctx context.Context, databaseID string, props Properties) (*Page, error) {
	defer metrics.ObserveStoreLatency(ctx, "create_page", time.Now())
	body := createPageRequest{Parent: pageParent{DatabaseID: databaseID}, Properties: props}
	var page Page
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/pages", body, &page); err != nil {
		return nil, fmt.Errorf("create page in %s: %w", databaseID, err)
	}
	return &page, nil
}

// UpdatePage overwrites the named properties of an existing page and returns
// the page as the store now holds it.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	defer metrics.ObserveStoreLatency(ctx, "update_page", time.Now())
	body := updatePageRequest{Properties: props}
	var page Page
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"/v1/pages/"+pageID, body, &page); err != nil {
		return nil, fmt.Errorf("update page %s: %w", pageID, err)
	}
	return &page, nil
}

// RetrievePage fetches one page by its store identifier.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	defer metrics.ObserveStoreLatency(ctx, "retrieve_page", time.Now())
	var page Page
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/v1/pages/"+pageID, nil, &page); err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call record store: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close record store response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, apiErr); err != nil {
			apiErr.Message = string(raw)
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
