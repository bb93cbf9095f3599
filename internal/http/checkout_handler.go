package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/urluvmani/taskeena-storefront/internal/cart"
	"github.com/urluvmani/taskeena-storefront/internal/checkout"
)

type orderSubmitter interface {
	Submit(ctx context.Context, src checkout.CartSource, token string) (string, error)
}

type CheckoutHandler struct {
	store     *cart.Store
	submitter orderSubmitter
}

func NewCheckoutHandler(store *cart.Store, submitter orderSubmitter) *CheckoutHandler {
	return &CheckoutHandler{
		store:     store,
		submitter: submitter,
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "please log in to checkout")
		return
	}

	receipt, err := h.submitter.Submit(r.Context(), h.store, token)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
		case errors.Is(err, checkout.ErrCheckoutInFlight):
			respondError(w, http.StatusConflict, "checkout_in_progress", "a checkout is already in progress")
		case errors.Is(err, checkout.ErrCheckoutFailed):
			// Transport failures and server rejections surface the same way;
			// the split only matters in the submitter's logs.
			respondError(w, http.StatusBadGateway, "checkout_failed", "Checkout failed. Please try again.")
		default:
			log.Printf("checkout request_id=%s: %v", getRequestID(r.Context()), err)
			respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}

	// The receipt is an HTML fragment the server rendered; pass it through
	// untouched for the caller to display.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write([]byte(receipt)); err != nil {
		log.Printf("failed to write receipt: %v", err)
	}
}
