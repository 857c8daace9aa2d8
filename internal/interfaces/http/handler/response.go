// Package handler contains the HTTP handlers of the catalog, the cart and the
// search indexers. Handlers translate requests into application service calls
// and render the results in the dto.Response envelope.
package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/hapkiduki/cart-products/internal/application/cart"
	"github.com/hapkiduki/cart-products/internal/application/dto"
	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
	"github.com/hapkiduki/cart-products/internal/interfaces/http/middleware"
)

// Response headers set by the catalog handlers.
const (
	// CacheTagHeader lists the cache tags of a rendered view
	CacheTagHeader = "Cache-Tag"

	// ForwardedActionHeader names the action that rendered the response
	// when a request was forwarded
	ForwardedActionHeader = "X-Forwarded-Action"
)

// unprocessable maps domain rule violations to error codes.
var unprocessable = []struct {
	err  error
	code string
}{
	{entity.ErrVariantRequired, "VARIANT_REQUIRED"},
	{entity.ErrVariantNotFound, "VARIANT_NOT_FOUND"},
	{entity.ErrVariantNotAvailable, "VARIANT_NOT_AVAILABLE"},
	{entity.ErrProductNotAvailable, "PRODUCT_NOT_AVAILABLE"},
	{entity.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{entity.ErrBelowMinimumOrder, "BELOW_MINIMUM_ORDER"},
	{entity.ErrAboveMaximumOrder, "ABOVE_MAXIMUM_ORDER"},
	{entity.ErrInvalidQuantity, "INVALID_QUANTITY"},
}

// respond renders a success envelope.
func respond[T any](w http.ResponseWriter, r *http.Request, status int, data T) {
	render.Status(r, status)
	render.JSON(w, r, dto.OK(data, meta(r)))
}

// respondError renders an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, dto.Fail(code, message, meta(r)))
}

// respondValidation renders a 400 with field errors.
func respondValidation(w http.ResponseWriter, r *http.Request, errs []dto.ValidationError) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, dto.Invalid(errs, meta(r)))
}

// handleError maps service errors to HTTP responses.
//
// Parameters:
//   - w: the response writer
//   - r: the request
//   - log: logger for unexpected errors
//   - err: the service error
func handleError(w http.ResponseWriter, r *http.Request, log port.Logger, err error) {
	var validation *cart.ValidationError
	if errors.As(err, &validation) {
		respondValidation(w, r, validation.Errors)
		return
	}

	if errors.Is(err, cart.ErrSessionRequired) {
		respondError(w, r, http.StatusBadRequest, "SESSION_REQUIRED", err.Error())
		return
	}

	if repository.IsNotFoundError(err) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	for _, u := range unprocessable {
		if errors.Is(err, u.err) {
			respondError(w, r, http.StatusUnprocessableEntity, u.code, u.err.Error())
			return
		}
	}

	log.WithContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
	respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

func meta(r *http.Request) *dto.Meta {
	return &dto.Meta{
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func setCacheTags(w http.ResponseWriter, tags []string) {
	if len(tags) > 0 {
		w.Header().Set(CacheTagHeader, strings.Join(tags, ","))
	}
}
