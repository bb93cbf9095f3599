package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/urluvmani/taskeena-storefront/internal/catalog"
)

type catalogAPI interface {
	ProductPage(ctx context.Context, page int) ([]catalog.Product, error)
	ProductCount(ctx context.Context) (int, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
	CategoryProducts(ctx context.Context, slug string) (*catalog.Category, []catalog.Product, error)
	FilterProducts(ctx context.Context, categoryIDs []string, priceRange []float64) ([]catalog.Product, error)
}

type CatalogHandler struct {
	api      catalogAPI
	products productGetter
}

func NewCatalogHandler(api catalogAPI, products productGetter) *CatalogHandler {
	return &CatalogHandler{
		api:      api,
		products: products,
	}
}

type ProductListResponseDTO struct {
	Products []catalog.Product `json:"products"`
	Page     int               `json:"page,omitempty"`
	Total    int               `json:"total,omitempty"`
}

// GET /api/v1/products?page=N
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		page = parsed
	}

	products, err := h.api.ProductPage(r.Context(), page)
	if err != nil {
		h.respondUpstreamError(w, r, "list products", err)
		return
	}

	total, err := h.api.ProductCount(r.Context())
	if err != nil {
		log.Printf("product count: %v", err)
		total = 0
	}

	respondJSON(w, http.StatusOK, ProductListResponseDTO{
		Products: products,
		Page:     page,
		Total:    total,
	})
}

// GET /api/v1/products/{slug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.products.Product(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		h.respondUpstreamError(w, r, "get product", err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.api.Categories(r.Context())
	if err != nil {
		h.respondUpstreamError(w, r, "list categories", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]catalog.Category{"categories": categories})
}

// GET /api/v1/categories/{slug}/products
func (h *CatalogHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, products, err := h.api.CategoryProducts(r.Context(), slug)
	if err != nil {
		h.respondUpstreamError(w, r, "category products", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"products": products,
	})
}

type FilterRequestDTO struct {
	Categories []string  `json:"categories"`
	PriceRange []float64 `json:"price_range"`
}

// POST /api/v1/products/filter
func (h *CatalogHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	var req FilterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	products, err := h.api.FilterProducts(r.Context(), req.Categories, req.PriceRange)
	if err != nil {
		h.respondUpstreamError(w, r, "filter products", err)
		return
	}

	respondJSON(w, http.StatusOK, ProductListResponseDTO{Products: products})
}

func (h *CatalogHandler) respondUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Printf("%s request_id=%s: %v", op, getRequestID(r.Context()), err)
	if errors.Is(err, catalog.ErrUpstreamUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "storefront API unavailable")
		return
	}
	respondError(w, http.StatusBadGateway, "upstream_error", "storefront API error")
}
