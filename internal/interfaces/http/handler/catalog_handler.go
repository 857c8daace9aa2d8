package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hapkiduki/cart-products/internal/application/catalog"
	"github.com/hapkiduki/cart-products/internal/application/dto"
	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/interfaces/http/middleware"
)

// CatalogService runs the product plugin actions.
type CatalogService interface {
	List(ctx context.Context, sessionID string, req catalog.ListRequest) (*dto.ListView, error)
	Show(ctx context.Context, sessionID string, id uint) (*dto.ShowView, error)
	ShowForm(ctx context.Context, sessionID string, id uint) (*dto.ShowView, error)
	Teaser(ctx context.Context, sessionID string) (*dto.TeaserView, error)
	Flexform(ctx context.Context, contentID uint) *dto.FlexformView
}

// CatalogHandler serves the product views.
type CatalogHandler struct {
	service CatalogService
	logger  port.Logger
}

// NewCatalogHandler creates the catalog handler.
func NewCatalogHandler(service CatalogService, logger port.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

// Routes registers the catalog routes.
//
// Parameters:
//   - r: the router to register on
func (h *CatalogHandler) Routes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{productID}", h.Show)
	r.Get("/products/{productID}/form", h.ShowForm)
	r.Get("/product", h.Show)
	r.Get("/product/form", h.ShowForm)
	r.Get("/teaser", h.Teaser)
	r.Get("/flexform", h.Flexform)
	r.Get("/flexform/{contentID}", h.Flexform)
}

// List handles GET /products?sku=&title=&offset=&limit=
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	req, errs := listRequest(r)
	if len(errs) > 0 {
		respondValidation(w, r, errs)
		return
	}
	h.renderList(w, r, req)
}

// Show handles GET /products/{productID} and GET /product. A product that
// cannot be shown forwards to the list view.
func (h *CatalogHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(w, r, "productID")
	if !ok {
		return
	}

	view, err := h.service.Show(r.Context(), middleware.GetSessionID(r.Context()), id)
	if errors.Is(err, catalog.ErrForwardToList) {
		w.Header().Set(ForwardedActionHeader, "list")
		req, _ := listRequest(r)
		h.renderList(w, r, req)
		return
	}
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	setCacheTags(w, view.CacheTags)
	respond(w, r, http.StatusOK, view)
}

// ShowForm handles GET /products/{productID}/form and GET /product/form.
func (h *CatalogHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(w, r, "productID")
	if !ok {
		return
	}

	view, err := h.service.ShowForm(r.Context(), middleware.GetSessionID(r.Context()), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	setCacheTags(w, view.CacheTags)
	respond(w, r, http.StatusOK, view)
}

// Teaser handles GET /teaser.
func (h *CatalogHandler) Teaser(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Teaser(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	setCacheTags(w, view.CacheTags)
	respond(w, r, http.StatusOK, view)
}

// Flexform handles GET /flexform/{contentID}.
func (h *CatalogHandler) Flexform(w http.ResponseWriter, r *http.Request) {
	id, ok := optionalID(w, r, "contentID")
	if !ok {
		return
	}
	respond(w, r, http.StatusOK, h.service.Flexform(r.Context(), id))
}

func (h *CatalogHandler) renderList(w http.ResponseWriter, r *http.Request, req catalog.ListRequest) {
	view, err := h.service.List(r.Context(), middleware.GetSessionID(r.Context()), req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	setCacheTags(w, view.CacheTags)
	respond(w, r, http.StatusOK, view)
}

// listRequest reads the search arguments and pagination from the query.
func listRequest(r *http.Request) (catalog.ListRequest, []dto.ValidationError) {
	q := r.URL.Query()
	req := catalog.ListRequest{
		Search: dto.SearchArguments{
			SKU:   q.Get("sku"),
			Title: q.Get("title"),
		},
	}

	var errs []dto.ValidationError
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"offset", &req.Offset},
		{"limit", &req.Limit},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, dto.ValidationError{
				Field:   p.name,
				Message: p.name + " must be a non-negative integer",
				Value:   raw,
			})
			continue
		}
		*p.dst = n
	}
	return req, errs
}

// optionalID parses a numeric URL parameter; a missing parameter is 0.
// On a malformed value it writes a 400 and returns false.
func optionalID(w http.ResponseWriter, r *http.Request, param string) (uint, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		respondValidation(w, r, []dto.ValidationError{{
			Field:   param,
			Message: param + " must be a positive integer",
			Value:   raw,
		}})
		return 0, false
	}
	return uint(id), true
}
