package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/urluvmani/taskeena-storefront/internal/orders"
)

type ordersAPI interface {
	MyOrders(ctx context.Context, token string) ([]orders.Order, error)
	AllOrders(ctx context.Context, token string) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, token, orderID, status string) error
	UpdatePaymentStatus(ctx context.Context, token, orderID, paymentStatus string) error
	Delete(ctx context.Context, token, orderID string) error
}

type OrdersHandler struct {
	api ordersAPI
}

func NewOrdersHandler(api ordersAPI) *OrdersHandler {
	return &OrdersHandler{api: api}
}

// GET /api/v1/orders
func (h *OrdersHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing authentication token")
		return
	}

	list, err := h.api.MyOrders(r.Context(), token)
	if err != nil {
		h.respondOrdersError(w, r, "my orders", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]orders.Order{"orders": list})
}

// GET /api/v1/admin/orders
func (h *OrdersHandler) AllOrders(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing authentication token")
		return
	}

	list, err := h.api.AllOrders(r.Context(), token)
	if err != nil {
		h.respondOrdersError(w, r, "all orders", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]orders.Order{"orders": list})
}

type UpdateStatusRequestDTO struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// PUT /api/v1/admin/orders/{orderID}/status
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing authentication token")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Status == "" && req.PaymentStatus == "" {
		respondError(w, http.StatusBadRequest, "missing_status", "status or paymentStatus is required")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	ctx := r.Context()

	if req.Status != "" {
		if err := h.api.UpdateStatus(ctx, token, orderID, req.Status); err != nil {
			h.respondOrdersError(w, r, "update status", err)
			return
		}
	}
	if req.PaymentStatus != "" {
		if err := h.api.UpdatePaymentStatus(ctx, token, orderID, req.PaymentStatus); err != nil {
			h.respondOrdersError(w, r, "update payment status", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DELETE /api/v1/admin/orders/{orderID}
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing authentication token")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	if err := h.api.Delete(r.Context(), token, orderID); err != nil {
		h.respondOrdersError(w, r, "delete order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) respondOrdersError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Printf("%s request_id=%s: %v", op, getRequestID(r.Context()), err)
	if errors.Is(err, orders.ErrUnauthorized) {
		respondError(w, http.StatusForbidden, "permission_denied", "not allowed")
		return
	}
	if errors.Is(err, orders.ErrUpstreamUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "upstream_unavailable", "order API unavailable")
		return
	}
	respondError(w, http.StatusBadGateway, "upstream_error", "order API error")
}
