package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/hapkiduki/cart-products/internal/application/dto"
	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/interfaces/http/middleware"
)

// CartService manages the visitor's session cart.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*dto.CartView, error)
	AddProduct(ctx context.Context, sessionID string, req dto.AddToCartRequest) (*dto.CartView, error)
}

// CartHandler serves the session cart.
type CartHandler struct {
	service CartService
	logger  port.Logger
}

// NewCartHandler creates the cart handler.
func NewCartHandler(service CartService, logger port.Logger) *CartHandler {
	return &CartHandler{service: service, logger: logger}
}

// Routes registers the cart routes.
func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Post("/cart/products", h.AddProduct)
}

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}

// AddProduct handles POST /cart/products.
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.AddToCartRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object")
		return
	}

	view, err := h.service.AddProduct(r.Context(), middleware.GetSessionID(r.Context()), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	respond(w, r, http.StatusOK, view)
}
