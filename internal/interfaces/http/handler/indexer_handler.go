package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/hapkiduki/cart-products/internal/application/indexer"
	"github.com/hapkiduki/cart-products/internal/application/port"
)

// IndexerRegistry lists and runs the registered search indexers.
type IndexerRegistry interface {
	Registrations() []indexer.Registration
	Run(ctx context.Context, cfg indexer.Config) (string, error)
}

// IndexRunResponse is the outcome of an indexer run.
type IndexRunResponse struct {
	// Status is the indexer report; empty when no indexer handles the type
	Status string `json:"status"`
}

// IndexerHandler exposes the search indexers.
type IndexerHandler struct {
	registry IndexerRegistry
	logger   port.Logger
}

// NewIndexerHandler creates the indexer handler.
func NewIndexerHandler(registry IndexerRegistry, logger port.Logger) *IndexerHandler {
	return &IndexerHandler{registry: registry, logger: logger}
}

// Routes registers the indexer routes.
func (h *IndexerHandler) Routes(r chi.Router) {
	r.Get("/indexers", h.List)
	r.Post("/indexers/run", h.Run)
}

// List handles GET /indexers.
func (h *IndexerHandler) List(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.registry.Registrations())
}

// Run handles POST /indexers/run with an indexer configuration as body.
func (h *IndexerHandler) Run(w http.ResponseWriter, r *http.Request) {
	var cfg indexer.Config
	if err := render.DecodeJSON(r.Body, &cfg); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_BODY", "Request body must be an indexer configuration")
		return
	}

	status, err := h.registry.Run(r.Context(), cfg)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.WithContext(r.Context()).Info("Indexer run", "type", cfg.Type, "status", status)
	respond(w, r, http.StatusOK, IndexRunResponse{Status: status})
}
