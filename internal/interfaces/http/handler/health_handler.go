package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/hapkiduki/cart-products/internal/application/dto"
)

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Checker pings one backing service.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Ping implements Checker.
func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	version  string
	started  time.Time
	checkers map[string]Checker
	timeout  time.Duration
}

// NewHealthHandler creates the health handler.
//
// Parameters:
//   - version: application version
//   - started: process start time, for the uptime
//   - checkers: backing services checked by the readiness endpoint, by name
//
// Returns:
//   - *HealthHandler: the handler
func NewHealthHandler(version string, started time.Time, checkers map[string]Checker) *HealthHandler {
	return &HealthHandler{
		version:  version,
		started:  started,
		checkers: checkers,
		timeout:  2 * time.Second,
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, dto.Health{
		Status:  StatusHealthy,
		Version: h.version,
		Uptime:  time.Since(h.started).String(),
		Checks:  map[string]dto.ComponentHealth{},
	})
}

// Ready handles GET /ready. It answers 503 when any backing service fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := dto.Health{
		Status:  StatusHealthy,
		Version: h.version,
		Uptime:  time.Since(h.started).String(),
		Checks:  make(map[string]dto.ComponentHealth, len(h.checkers)),
	}

	for name, checker := range h.checkers {
		start := time.Now()
		result := dto.ComponentHealth{Status: StatusHealthy}
		if err := checker.Ping(ctx); err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			resp.Status = StatusUnhealthy
		}
		result.LatencyMs = time.Since(start).Milliseconds()
		resp.Checks[name] = result
	}

	if resp.Status != StatusHealthy {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

// NotFound handles unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, "NOT_FOUND", "The requested resource was not found")
}

// MethodNotAllowed handles routes matched with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The requested method is not allowed for this resource")
}
