// Package orders wraps the server-owned order endpoints. Orders are created by
// checkout; everything here is a read or an opaque status pass-through, the
// server owns the order state machine.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/urluvmani/taskeena-storefront/internal/cart"
	"github.com/urluvmani/taskeena-storefront/internal/price"
)

var (
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstreamUnavailable is returned while the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("order API unavailable")
)

type Buyer struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type Order struct {
	ID            string          `json:"_id"`
	Products      []cart.LineItem `json:"products"`
	TotalPrice    price.Value     `json:"totalPrice"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	Buyer         Buyer           `json:"buyer"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Client calls the remote order API. Like the catalog client, outbound
// requests go through a circuit breaker so a struggling upstream fails fast.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		}
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "order-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		breaker: breaker,
	}
}

// do runs the request through the breaker. 5xx responses count as failures;
// 4xx are the caller's problem and pass through.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("upstream %d: %s", resp.StatusCode, body)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUpstreamUnavailable
		}
		return nil, err
	}
	return resp, nil
}

type ordersResponse struct {
	Success bool    `json:"success"`
	Orders  []Order `json:"orders"`
	Message string  `json:"message"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MyOrders lists the authenticated user's orders.
func (c *Client) MyOrders(ctx context.Context, token string) ([]Order, error) {
	return c.listOrders(ctx, token, "/api/v1/order/my-orders")
}

// AllOrders lists every order. Admin only; the server enforces the role.
func (c *Client) AllOrders(ctx context.Context, token string) ([]Order, error) {
	return c.listOrders(ctx, token, "/api/v1/order/all-orders")
}

func (c *Client) listOrders(ctx context.Context, token, path string) ([]Order, error) {
	var out ordersResponse
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("list orders: %s", out.Message)
	}
	return out.Orders, nil
}

// UpdateStatus sets an order's fulfillment status (admin).
func (c *Client) UpdateStatus(ctx context.Context, token, orderID, status string) error {
	return c.update(ctx, token,
		"/api/v1/order/update-status/"+orderID,
		map[string]string{"status": status})
}

// UpdatePaymentStatus sets an order's payment status (admin).
func (c *Client) UpdatePaymentStatus(ctx context.Context, token, orderID, paymentStatus string) error {
	return c.update(ctx, token,
		"/api/v1/order/update-payment-status/"+orderID,
		map[string]string{"paymentStatus": paymentStatus})
}

func (c *Client) update(ctx context.Context, token, path string, body map[string]string) error {
	var out statusResponse
	if err := c.doJSON(ctx, http.MethodPut, path, token, body, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("update order: %s", out.Message)
	}
	return nil
}

// Delete removes an order.
func (c *Client) Delete(ctx context.Context, token, orderID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/order/delete-order/"+orderID, token, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", token)

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
