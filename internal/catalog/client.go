package catalog

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
)

var (
	ErrProductNotFound = errors.New("product not found")

	// ErrUpstreamUnavailable is returned while the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("storefront API unavailable")
)

// Client calls the remote storefront API. Outbound requests go through a
// circuit breaker so a struggling upstream fails fast instead of piling up
// blocked handlers.
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
		Name:    "storefront-api",
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

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

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

type productListResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
	Message  string    `json:"message"`
}

type productResponse struct {
	Success bool    `json:"success"`
	Product Product `json:"product"`
	Message string  `json:"message"`
}

type categoryListResponse struct {
	Success  bool       `json:"success"`
	Category []Category `json:"category"`
	Message  string     `json:"message"`
}

type categoryProductsResponse struct {
	Success  bool      `json:"success"`
	Category Category  `json:"category"`
	Products []Product `json:"products"`
	Message  string    `json:"message"`
}

type countResponse struct {
	Success bool `json:"success"`
	Total   int  `json:"total"`
}

// ProductPage returns one page of the product listing.
func (c *Client) ProductPage(ctx context.Context, page int) ([]Product, error) {
	var out productListResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/product/product-page/%d", page), &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("product page %d: %s", page, out.Message)
	}
	return out.Products, nil
}

// Product fetches a single product by slug.
func (c *Client) Product(ctx context.Context, slug string) (*Product, error) {
	var out productResponse
	if err := c.getJSON(ctx, "/api/v1/product/get-product/"+slug, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, ErrProductNotFound
	}
	return &out.Product, nil
}

// Categories returns every category.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out categoryListResponse
	if err := c.getJSON(ctx, "/api/v1/category/get-category", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("categories: %s", out.Message)
	}
	return out.Category, nil
}

// CategoryProducts returns a category and its products.
func (c *Client) CategoryProducts(ctx context.Context, slug string) (*Category, []Product, error) {
	var out categoryProductsResponse
	if err := c.getJSON(ctx, "/api/v1/product/category-product/"+slug, &out); err != nil {
		return nil, nil, err
	}
	if !out.Success {
		return nil, nil, fmt.Errorf("category products %s: %s", slug, out.Message)
	}
	return &out.Category, out.Products, nil
}

// ProductCount returns the catalog size, used for pagination.
func (c *Client) ProductCount(ctx context.Context) (int, error) {
	var out countResponse
	if err := c.getJSON(ctx, "/api/v1/product/product-count", &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

type filterRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// FilterProducts searches by category ids and a price range, mirroring the
// storefront's filter sidebar.
func (c *Client) FilterProducts(ctx context.Context, categoryIDs []string, priceRange []float64) ([]Product, error) {
	var out productListResponse
	err := c.postJSON(ctx, "/api/v1/product/product-filters", "",
		filterRequest{Checked: categoryIDs, Radio: priceRange}, &out)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("product filters: %s", out.Message)
	}
	return out.Products, nil
}

// RelatedProducts returns products similar to the given product within its
// category.
func (c *Client) RelatedProducts(ctx context.Context, productID, categoryID string) ([]Product, error) {
	var out productListResponse
	path := fmt.Sprintf("/api/v1/product/related-products/%s/%s", productID, categoryID)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("related products: %s", out.Message)
	}
	return out.Products, nil
}

// AddReview posts a review for a product. Requires an authenticated token.
func (c *Client) AddReview(ctx context.Context, token, productID string, review Review) error {
	return c.postJSON(ctx, "/api/v1/review/add/"+productID, token, review, nil)
}

// PhotoURL builds the image URL for a product; images are served by the API,
// not embedded in product payloads.
func (c *Client) PhotoURL(productID string) string {
	return c.baseURL + "/api/v1/product/product-photo/" + productID
}
