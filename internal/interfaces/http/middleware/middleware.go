// Package middleware provides HTTP middleware for Chi router.
// Middleware components handle cross-cutting concerns like logging, authentication,
// rate limiting, and request tracing.
//
// Chi Middleware Philosophy:
//   - Uses standard net/http handlers
//   - Composable middleware chain
//   - Context-based request scoping
//   - Compatible with any net/http middleware
package middleware

import (
	"context"
	"errors"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/pkg/logger"
)

// RequestIDHeader is the header name for request IDs.
const RequestIDHeader = "X-Request-ID"

// GetRequestID extracts the request ID from the context.
//
// Parameters:
//   - ctx: the request context
//
// Returns:
//   - string: the request ID, or empty string if not found
func GetRequestID(ctx context.Context) string {
	return logger.RequestIDFromContext(ctx)
}

// RequestID generates a unique request ID for each request.
// The ID is added to the response headers and request context.
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if request already has an ID (e.g., from a gateway)
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// Set request ID in context and response header
		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger returns a middleware that logs HTTP request.
// It logs request method, path, status, latency, and client IP.
//
// Parameters:
//   - logger: The logger to use
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func Logger(log port.Logger) func(w http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := wrapResponseWriter(w)

			// Process request
			next.ServeHTTP(ww, r)

			// Calculate latency
			latency := time.Since(start)

			// Log request details; the context carries request and session IDs
			log.WithContext(r.Context()).Info("HTTP Request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", ww.statusCode,
				"latency_ms", latency.Milliseconds(),
				"client_ip", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})

	}
}

// Metrics returns a middleware that counts requests and records their
// latency per route pattern.
//
// Parameters:
//   - metrics: the metrics recorder
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func Metrics(metrics port.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := wrapResponseWriter(w)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			metrics.Counter("http_requests_total", 1, map[string]string{
				"method": r.Method,
				"route":  route,
				"status": strconv.Itoa(ww.statusCode),
			})
			metrics.Timing("http_request_duration", time.Since(start), map[string]string{
				"method": r.Method,
				"route":  route,
			})
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.written {
		return
	}
	rw.statusCode = code
	rw.written = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write implements http.ResponseWriter.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Recoverer returns a middleware that recovers from panics.
// It logs the panic and returns a 500 Internal Server Error response.
//
// Parameters:
//   - logger: The logger to use
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func Recoverer(log port.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					log.WithContext(r.Context()).Error("Panic recovered",
						"error", err,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"success": false, "error": {"code": "INTERNAL_ERROR", "message": "An unexpected error occurred"}}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiterConfig contains rate limiter configuration.
type RateLimiterConfig struct {
	// RequestedPerSecond is the number of requests allowed per second.
	RequestedPerSecond float64

	// Burst is the maximum burst size.
	Burst int

	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration

	// KeyFunc extracts the key for rate limiting (e.g., client IP).
	KeyFunc func(*http.Request) string
}

// NewRateLimiterConfig returns a per client IP configuration.
//
// Parameters:
//   - requestsPerSecond: sustained rate
//   - burst: bucket size
//
// Returns:
//   - RateLimiterConfig: the configuration
func NewRateLimiterConfig(requestsPerSecond float64, burst int) RateLimiterConfig {
	return RateLimiterConfig{
		RequestedPerSecond: requestsPerSecond,
		Burst:              burst,
		IdleTTL:            10 * time.Minute,
		KeyFunc:            ClientIP,
	}
}

// ClientIP returns the host part of r.RemoteAddr, so all connections of one
// client share a key.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per client and forgets clients idle
// for longer than ttl.
type clientLimiters struct {
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

func newClientLimiters(cfg RateLimiterConfig) *clientLimiters {
	return &clientLimiters{
		buckets: make(map[string]*clientBucket),
		limit:   rate.Limit(cfg.RequestedPerSecond),
		burst:   cfg.Burst,
		ttl:     cfg.IdleTTL,
	}
}

// allow takes a token from key's bucket at now.
func (c *clientLimiters) allow(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl > 0 && now.Sub(c.lastSweep) >= c.ttl {
		for k, b := range c.buckets {
			if now.Sub(b.lastSeen) >= c.ttl {
				delete(c.buckets, k)
			}
		}
		c.lastSweep = now
	}

	b, ok := c.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (c *clientLimiters) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}

// RateLimiter returns a middleware that limits request rate per client.
// It uses a token bucket algorithm with per-client buckets.
//
// Parameters:
//   - config: Rate limiter configuration
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func RateLimiter(config RateLimiterConfig) func(http.Handler) http.Handler {
	limiters := newClientLimiters(config)
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(keyFunc(r), time.Now()) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success": false, "error": {"code": "RATE_LIMITED", "message": "Too many requests, please try again later"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecureHeaders returns a middleware that adds security headers.
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Enable XSS filter
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		// Strict transport security (if using HTTPS)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		// Content Security Policy
		w.Header().Set("Content-Security-Policy", "default-src 'self'")

		// Referrer Policy
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// APIVersion returns a middleware that adds API version header.
//
// Parameters:
//   - version: The API version string
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func APIVersion(version string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-API-Version", version)
			next.ServeHTTP(w, r)
		})
	}
}

// ContentTypeJSON ensure request have JSON content type for write operations.
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// For POST, PUT, PATCH request, ensure JSON content type
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"success": false, "error": {"code": "UNSUPPORTED_MEDIA_TYPE", "message": "Content-Type must be application/json"}}`))
				return
			}
		}
		// Set response content type
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Timeout returns a middleware that enforces a request timeout.
// Handlers observe the deadline through the request context; if one gives up
// without writing a response, a 504 is sent.
//
// Parameters:
//   - timeout: Maximum request duration
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := wrapResponseWriter(w)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if !ww.written && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				ww.Header().Set("Content-Type", "application/json")
				ww.WriteHeader(http.StatusGatewayTimeout)
				_, _ = ww.Write([]byte(`{"success": false, "error": {"code": "TIMEOUT", "message": "Request timed out"}}`))
			}
		})
	}
}

// RealIP replaces r.RemoteAddr with the client address reported by a
// trusted proxy. Headers from any other peer are ignored. X-Forwarded-For is
// read right to left and the first hop outside the trusted ranges wins;
// X-Real-IP is used when X-Forwarded-For is absent.
//
// Parameters:
//   - trusted: proxy ranges allowed to report client addresses
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func RealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	isTrusted := func(addr netip.Addr) bool {
		addr = addr.Unmap()
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, err := netip.ParseAddr(ClientIP(r))
			if err != nil || !isTrusted(peer) {
				next.ServeHTTP(w, r)
				return
			}

			if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
				hops := strings.Split(strings.Join(xff, ","), ",")
				for i := len(hops) - 1; i >= 0; i-- {
					hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
					if err != nil {
						break
					}
					if !isTrusted(hop) || i == 0 {
						r.RemoteAddr = hop.Unmap().String()
						break
					}
				}
			} else if xrip, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
				r.RemoteAddr = xrip.Unmap().String()
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionID extracts the cart session ID from the context.
//
// Returns:
//   - string: the session ID, or empty string if not found
func GetSessionID(ctx context.Context) string {
	return logger.SessionIDFromContext(ctx)
}

// CartSession returns a middleware that assigns every visitor a cart session.
// The session ID travels in a cookie; a missing or malformed cookie gets a
// fresh ID.
//
// Parameters:
//   - cookieName: name of the session cookie
//   - ttl: cookie lifetime
//   - secure: send the cookie over HTTPS only
//
// Returns:
//   - func(http.Handler) http.Handler: the middleware function
func CartSession(cookieName string, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(cookieName); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					sessionID = id.String()
				}
			}

			if sessionID == "" {
				sessionID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(logger.WithSessionID(r.Context(), sessionID)))
		})
	}
}
