package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/urluvmani/taskeena-storefront/internal/orders"
)

type ordersAPIMock struct {
	orders []orders.Order
	err    error

	updatedStatus        string
	updatedPayment       string
	deletedOrderID       string
	updateStatusOrderID  string
	updatePaymentOrderID string
}

func (m *ordersAPIMock) MyOrders(context.Context, string) ([]orders.Order, error) {
	return m.orders, m.err
}

func (m *ordersAPIMock) AllOrders(context.Context, string) ([]orders.Order, error) {
	return m.orders, m.err
}

func (m *ordersAPIMock) UpdateStatus(_ context.Context, _, orderID, status string) error {
	m.updateStatusOrderID = orderID
	m.updatedStatus = status
	return m.err
}

func (m *ordersAPIMock) UpdatePaymentStatus(_ context.Context, _, orderID, paymentStatus string) error {
	m.updatePaymentOrderID = orderID
	m.updatedPayment = paymentStatus
	return m.err
}

func (m *ordersAPIMock) Delete(_ context.Context, _, orderID string) error {
	m.deletedOrderID = orderID
	return m.err
}

func authedRequest(method, target string, body *bytes.Buffer, orderID string) *http.Request {
	var request *http.Request
	if body == nil {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, body)
	}

	ctx := context.WithValue(request.Context(), "auth_token", "token-123")
	if orderID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("orderID", orderID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return request.WithContext(ctx)
}

func TestMyOrders_Success(t *testing.T) {
	mock := &ordersAPIMock{orders: []orders.Order{{ID: "o1", Status: "Processing"}}}
	handler := NewOrdersHandler(mock)
	recorder := httptest.NewRecorder()

	handler.MyOrders(recorder, authedRequest("GET", "/api/v1/orders", nil, ""))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"o1"`)
}

func TestMyOrders_MissingToken(t *testing.T) {
	handler := NewOrdersHandler(&ordersAPIMock{})
	recorder := httptest.NewRecorder()

	handler.MyOrders(recorder, httptest.NewRequest("GET", "/api/v1/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAllOrders_PermissionDenied(t *testing.T) {
	handler := NewOrdersHandler(&ordersAPIMock{err: orders.ErrUnauthorized})
	recorder := httptest.NewRecorder()

	handler.AllOrders(recorder, authedRequest("GET", "/api/v1/admin/orders", nil, ""))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestMyOrders_UpstreamUnavailable(t *testing.T) {
	handler := NewOrdersHandler(&ordersAPIMock{err: orders.ErrUpstreamUnavailable})
	recorder := httptest.NewRecorder()

	handler.MyOrders(recorder, authedRequest("GET", "/api/v1/orders", nil, ""))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestUpdateStatus_Both(t *testing.T) {
	mock := &ordersAPIMock{}
	handler := NewOrdersHandler(mock)
	recorder := httptest.NewRecorder()

	body := bytes.NewBufferString(`{"status":"Shipped","paymentStatus":"Paid"}`)
	handler.UpdateStatus(recorder, authedRequest("PUT", "/api/v1/admin/orders/o1/status", body, "o1"))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "o1", mock.updateStatusOrderID)
	assert.Equal(t, "Shipped", mock.updatedStatus)
	assert.Equal(t, "Paid", mock.updatedPayment)
}

func TestUpdateStatus_MissingFields(t *testing.T) {
	handler := NewOrdersHandler(&ordersAPIMock{})
	recorder := httptest.NewRecorder()

	body := bytes.NewBufferString(`{}`)
	handler.UpdateStatus(recorder, authedRequest("PUT", "/api/v1/admin/orders/o1/status", body, "o1"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDeleteOrder(t *testing.T) {
	mock := &ordersAPIMock{}
	handler := NewOrdersHandler(mock)
	recorder := httptest.NewRecorder()

	handler.DeleteOrder(recorder, authedRequest("DELETE", "/api/v1/admin/orders/o1", nil, "o1"))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "o1", mock.deletedOrderID)
}
