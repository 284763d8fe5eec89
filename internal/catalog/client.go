package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/ovenlight/storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Reader is the read-only catalog collaborator. The storefront never
// calls mutating catalog endpoints.
type Reader interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		ttl: time.Minute,
	}
}

// Client fetches products over HTTP and keeps a short-lived in-process
// copy so repeated lookups during a render don't hit the network.
type Client struct {
	baseURL string
	http    *http.Client
	ttl     time.Duration
	sfg     singleflight.Group // Collapses concurrent refreshes

	mu        sync.RWMutex
	products  []domain.Product
	byID      map[int64]domain.Product
	fetchedAt time.Time
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if cached, ok := c.cached(); ok {
		return cached, nil
	}

	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		// Re-check: another caller may have refreshed while we waited.
		if cached, ok := c.cached(); ok {
			return cached, nil
		}

		products, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if _, err := c.ListProducts(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	p, ok := c.byID[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (c *Client) cached() ([]domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.products == nil || time.Since(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, true
}

func (c *Client) store(products []domain.Product) {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.fetchedAt = time.Now()
	c.mu.Unlock()
}

func (c *Client) fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("catalog responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products failed: %w", err)
	}
	return products, nil
}
