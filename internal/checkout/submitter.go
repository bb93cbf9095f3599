// Package checkout submits the cart to the remote order API.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/urluvmani/taskeena-storefront/internal/cart"
)

var (
	// ErrCheckoutFailed covers both transport failures and server rejections.
	// The two are told apart in logs and by the wrapping sentinels below; the
	// user sees one "try again" either way.
	ErrCheckoutFailed = errors.New("checkout failed")

	// ErrCheckoutRejected means the order API answered non-2xx.
	ErrCheckoutRejected = fmt.Errorf("order rejected: %w", ErrCheckoutFailed)

	// ErrCheckoutTransport means the request never got a usable response.
	ErrCheckoutTransport = fmt.Errorf("order transport failed: %w", ErrCheckoutFailed)

	// ErrCheckoutInFlight means a previous Submit on this submitter has not
	// finished yet. The order API is not idempotent, so overlapping submits
	// could create duplicate orders.
	ErrCheckoutInFlight = errors.New("checkout already in progress")

	// ErrEmptyCart rejects a submit with nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
)

// CartSource is what the submitter needs from a cart. Satisfied by
// *cart.Store.
type CartSource interface {
	Items() []cart.LineItem
	Total() float64
	Clear(ctx context.Context) error
}

// Submitter sends order-creation requests. A single in-flight guard makes
// Submit single-flight per submitter: a second call while one is outstanding
// fails fast instead of racing the first.
type Submitter struct {
	baseURL  string
	client   *http.Client
	inFlight atomic.Bool
}

func NewSubmitter(baseURL string, client *http.Client) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Submitter{
		baseURL: baseURL,
		client:  client,
	}
}

type orderCreateRequest struct {
	Cart       []cart.LineItem `json:"cart"`
	TotalPrice float64         `json:"totalPrice"`
}

// Submit posts the cart and its precomputed total to the order API with the
// caller's bearer credential. Exactly one attempt, no retry. On success the
// cart is cleared (memory and snapshot) and the server's receipt fragment is
// returned verbatim; it is HTML the server rendered and the client does not
// interpret it. On any failure the cart is left untouched.
func (s *Submitter) Submit(ctx context.Context, src CartSource, token string) (string, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrCheckoutInFlight
	}
	defer s.inFlight.Store(false)

	items := src.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	body, err := json.Marshal(orderCreateRequest{
		Cart:       items,
		TotalPrice: src.Total(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/v1/order/create", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("checkout transport error: %v", err)
		return "", fmt.Errorf("order create request: %w", ErrCheckoutTransport)
	}
	defer resp.Body.Close()

	receipt, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("checkout read response error: %v", err)
		return "", fmt.Errorf("order create response: %w", ErrCheckoutTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The server message is for logs; the user gets the generic failure.
		log.Printf("checkout rejected: status=%d body=%s", resp.StatusCode, receipt)
		return "", fmt.Errorf("order status %d: %w", resp.StatusCode, ErrCheckoutRejected)
	}

	if err := src.Clear(ctx); err != nil {
		log.Printf("clearing cart after checkout: %v", err)
	}

	return string(receipt), nil
}
