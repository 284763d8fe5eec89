package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ovenlight/storefront/internal/domain"
)

const idempotencyHeader = "Idempotency-Key"

// Service is the order-service collaborator consumed by the
// submission protocol.
type Service interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	CreatePayment(ctx context.Context, orderID int64) (*domain.Payment, error)
}

// Client talks JSON over HTTP to the order service. No timeout is
// imposed here: a hung call blocks only its own submission attempt,
// and cancellation rides on the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders/", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(idempotencyHeader, uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &OrderCreationError{Message: drainError(resp.Body)}
	}

	var order domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order failed: %w", err)
	}
	return &order, nil
}

func (c *Client) CreatePayment(ctx context.Context, orderID int64) (*domain.Payment, error) {
	payload, err := json.Marshal(map[string]int64{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("marshal payment request failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/orders/%d/payment", c.baseURL, orderID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create payment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &PaymentCreationError{Message: drainError(resp.Body)}
	}

	var payment domain.Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("decode payment failed: %w", err)
	}
	return &payment, nil
}

// drainError reads a bounded error body for verbatim surfacing.
func drainError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}
