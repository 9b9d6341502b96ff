// Package catalog implements the HTTP client for the upstream catalog API:
// the category listing, category detail, and product detail endpoints.
// Retry is the caller's responsibility; the client reports each request's
// outcome exactly once.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"tienda/pricewatch/internal/models"
)

const (
	RequestTimeout  = 10 * time.Second
	userAgent       = "pricewatch/1.0"
	acceptHeader    = "application/json"
	defaultLanguage = "es-ES,es;q=0.9"

	// placeholderName is stored when the upstream omits a display name.
	placeholderName = "unnamed"
)

// Response is a received HTTP response. Non-200 statuses are not errors at
// this level; callers classify them.
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPError reports a non-200 response from a typed endpoint helper.
type HTTPError struct {
	Path       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("catalog: %s returned status %d", e.Path, e.StatusCode)
}

// Client fetches catalog resources over HTTP with a fixed timeout and a
// fixed header set.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a catalog client for the given API root.
// An empty language falls back to the default Accept-Language.
func NewClient(baseURL, language string, logger *logrus.Logger) *Client {
	if language == "" {
		language = defaultLanguage
	}
	return &Client{
		baseURL:    baseURL,
		language:   language,
		httpClient: &http.Client{Timeout: RequestTimeout},
		logger:     logger,
	}
}

// Get issues a GET against path (relative to the API root). A transport
// failure (timeout, DNS, reset) is returned as an error; any received
// response, whatever its status, is returned as a value.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", c.language)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", path, err)
	}

	c.logger.Debugf("GET %s -> %d (%d bytes)", path, resp.StatusCode, len(body))
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// getJSON fetches path and decodes a 200 body into out. Non-200 statuses
// become *HTTPError.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{Path: path, StatusCode: resp.StatusCode}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Categories fetches the root category listing and returns the top-level
// categories with their subcategories (id and name only, no products).
func (c *Client) Categories(ctx context.Context) ([]models.CategoryNode, error) {
	var payload categoryListPayload
	if err := c.getJSON(ctx, "/categories/", &payload); err != nil {
		return nil, err
	}

	roots := make([]models.CategoryNode, 0, len(payload.Results))
	for _, cat := range payload.Results {
		node := models.CategoryNode{ID: cat.ID.String(), Name: cat.Name}
		for _, sub := range cat.Categories {
			node.Children = append(node.Children, models.CategoryNode{
				ID:   sub.ID.String(),
				Name: sub.Name,
			})
		}
		roots = append(roots, node)
	}
	return roots, nil
}

// CategoryDetail fetches one category's detail: its directly listed product
// ids plus one level of nested subcategories with their product ids.
func (c *Client) CategoryDetail(ctx context.Context, id string) (*models.CategoryNode, error) {
	var payload categoryDetailPayload
	if err := c.getJSON(ctx, "/categories/"+id, &payload); err != nil {
		return nil, err
	}

	node := &models.CategoryNode{ID: id, Name: payload.Name}
	for _, ref := range payload.Products {
		node.Products = append(node.Products, ref.ID.String())
	}
	for _, sub := range payload.Categories {
		child := models.CategoryNode{ID: sub.ID.String(), Name: sub.Name}
		for _, ref := range sub.Products {
			child.Products = append(child.Products, ref.ID.String())
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// ProductSnapshot fetches one product's detail and parses it into a
// Snapshot. Missing fields are tolerated: the name defaults to "unnamed",
// the price to 0, and an absent unit size stays nil.
func (c *Client) ProductSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	var payload productPayload
	if err := c.getJSON(ctx, "/products/"+id, &payload); err != nil {
		return nil, err
	}

	snap := &Snapshot{Name: payload.DisplayName}
	if snap.Name == "" {
		snap.Name = placeholderName
	}
	if payload.PriceInstructions.UnitPrice != nil {
		snap.UnitPrice = float64(*payload.PriceInstructions.UnitPrice)
	}
	if payload.PriceInstructions.UnitSize != nil {
		size := float64(*payload.PriceInstructions.UnitSize)
		snap.UnitSize = &size
	}
	return snap, nil
}
