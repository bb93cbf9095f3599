package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/urluvmani/taskeena-storefront/internal/cart"
	"github.com/urluvmani/taskeena-storefront/internal/catalog"
)

// productGetter is the slice of the catalog the cart handler needs.
type productGetter interface {
	Product(ctx context.Context, slug string) (*catalog.Product, error)
}

type CartHandler struct {
	store    *cart.Store
	products productGetter
}

func NewCartHandler(store *cart.Store, products productGetter) *CartHandler {
	return &CartHandler{
		store:    store,
		products: products,
	}
}

type AddItemRequestDTO struct {
	Slug     string `json:"slug"`
	Quantity int    `json:"quantity"`
}

type CartResponseDTO struct {
	Items []cart.LineItem `json:"items"`
	Total float64         `json:"total"`
}

type CartTotalResponseDTO struct {
	Total float64 `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items: h.store.Items(),
		Total: h.store.Total(),
	})
}

func (h *CartHandler) GetTotal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartTotalResponseDTO{Total: h.store.Total()})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "missing_slug", "slug is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.products.Product(r.Context(), req.Slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		log.Printf("fetch product %q: %v", req.Slug, err)
		respondError(w, http.StatusBadGateway, "upstream_error", "could not load product")
		return
	}

	if !product.InStock() {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return
	}

	// Snapshot the displayable fields; later catalog edits do not reprice
	// what is already in the cart.
	item := cart.LineItem{
		ProductID:       product.ID,
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		DiscountPercent: product.DiscountPercent,
		Quantity:        req.Quantity,
	}

	if err := h.store.Add(r.Context(), item); err != nil {
		log.Printf("add cart item: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}

	respondJSON(w, http.StatusCreated, CartResponseDTO{
		Items: h.store.Items(),
		Total: h.store.Total(),
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "missing_product_id", "product id is required")
		return
	}

	if err := h.store.Remove(r.Context(), productID); err != nil {
		log.Printf("remove cart item: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items: h.store.Items(),
		Total: h.store.Total(),
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		log.Printf("clear cart: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not save cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
