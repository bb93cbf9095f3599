package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urluvmani/taskeena-storefront/internal/cart"
	"github.com/urluvmani/taskeena-storefront/internal/checkout"
)

type submitterMock struct {
	receipt string
	err     error

	gotToken string
	clear    bool
}

func (m *submitterMock) Submit(ctx context.Context, src checkout.CartSource, token string) (string, error) {
	m.gotToken = token
	if m.err != nil {
		return "", m.err
	}
	if m.clear {
		if err := src.Clear(ctx); err != nil {
			return "", err
		}
	}
	return m.receipt, nil
}

func checkoutRequest(token string) *http.Request {
	request := httptest.NewRequest("POST", "/api/v1/checkout", nil)
	ctx := context.WithValue(request.Context(), "auth_token", token)
	return request.WithContext(ctx)
}

func TestCheckout_Success(t *testing.T) {
	store := newTestCart(t)
	require.NoError(t, store.Add(context.Background(), cart.LineItem{ProductID: "p1", Quantity: 1}))

	mock := &submitterMock{receipt: "<b>Order confirmed</b>", clear: true}
	handler := NewCheckoutHandler(store, mock)
	recorder := httptest.NewRecorder()

	handler.Checkout(recorder, checkoutRequest("token-123"))

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "<b>Order confirmed</b>", recorder.Body.String())
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "token-123", mock.gotToken)
	assert.Equal(t, 0, store.Len())
}

func TestCheckout_MissingToken(t *testing.T) {
	handler := NewCheckoutHandler(newTestCart(t), &submitterMock{})
	recorder := httptest.NewRecorder()

	handler.Checkout(recorder, checkoutRequest(""))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	handler := NewCheckoutHandler(newTestCart(t), &submitterMock{err: checkout.ErrEmptyCart})
	recorder := httptest.NewRecorder()

	handler.Checkout(recorder, checkoutRequest("token-123"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckout_InFlight(t *testing.T) {
	handler := NewCheckoutHandler(newTestCart(t), &submitterMock{err: checkout.ErrCheckoutInFlight})
	recorder := httptest.NewRecorder()

	handler.Checkout(recorder, checkoutRequest("token-123"))

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCheckout_Failed(t *testing.T) {
	handler := NewCheckoutHandler(newTestCart(t), &submitterMock{err: checkout.ErrCheckoutFailed})
	recorder := httptest.NewRecorder()

	handler.Checkout(recorder, checkoutRequest("token-123"))

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "try again")
}
