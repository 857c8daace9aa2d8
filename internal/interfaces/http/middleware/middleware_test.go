package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/cart-products/internal/infrastructure/logging"
	"github.com/hapkiduki/cart-products/internal/infrastructure/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	t.Run("generates an ID", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("keeps an incoming ID", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "gateway-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "gateway-1", seen)
		assert.Equal(t, "gateway-1", rec.Header().Get(RequestIDHeader))
	})
}

func TestCartSession(t *testing.T) {
	mw := CartSession("cart_session", time.Hour, false)

	t.Run("issues a cookie for new visitors", func(t *testing.T) {
		var seen string
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetSessionID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "cart_session", cookies[0].Name)
		assert.Equal(t, seen, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, 3600, cookies[0].MaxAge)
	})

	t.Run("reuses a valid cookie", func(t *testing.T) {
		id := uuid.New().String()
		var seen string
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetSessionID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: id})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, id, seen)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		var seen string
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetSessionID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "cart_session", Value: "../../etc"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.NotEqual(t, "../../etc", seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(logging.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestRateLimiter(t *testing.T) {
	h := RateLimiter(NewRateLimiterConfig(1, 2))(http.HandlerFunc(okHandler))

	// each request arrives on a new connection, so a new source port
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:" + strconv.Itoa(40000+i)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientLimiters_EvictsIdleClients(t *testing.T) {
	cfg := NewRateLimiterConfig(1, 1)
	cfg.IdleTTL = time.Minute
	limiters := newClientLimiters(cfg)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		assert.True(t, limiters.allow("198.51.100."+strconv.Itoa(i), start))
	}
	assert.Equal(t, 100, limiters.size())

	assert.False(t, limiters.allow("198.51.100.1", start.Add(time.Second/2)))

	later := start.Add(2 * time.Minute)
	assert.True(t, limiters.allow("203.0.113.9", later))
	assert.Equal(t, 1, limiters.size())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"10.0.0.1:5000", "10.0.0.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"10.0.0.1", "10.0.0.1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, ClientIP(req), tt.remote)
	}
}

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{name: "get without body", method: http.MethodGet, want: http.StatusOK},
		{name: "post json", method: http.MethodPost, contentType: "application/json", want: http.StatusOK},
		{name: "post json with charset", method: http.MethodPost, contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "post form", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "post without type", method: http.MethodPost, want: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			ContentTypeJSON(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTimeout(t *testing.T) {
	t.Run("handler gives up on deadline", func(t *testing.T) {
		h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Contains(t, rec.Body.String(), "TIMEOUT")
	})

	t.Run("fast handler is untouched", func(t *testing.T) {
		h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestRealIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name   string
		remote string
		xff    []string
		xrip   string
		want   string
	}{
		{name: "untrusted peer keeps its address", remote: "203.0.113.50:1234", xff: []string{"198.51.100.1"}, want: "203.0.113.50:1234"},
		{name: "untrusted peer cannot use X-Real-IP", remote: "203.0.113.50:1234", xrip: "198.51.100.1", want: "203.0.113.50:1234"},
		{name: "trusted proxy", remote: "10.0.0.5:1234", xff: []string{"203.0.113.7"}, want: "203.0.113.7"},
		{name: "spoofed leading hop is skipped", remote: "10.0.0.5:1234", xff: []string{"1.2.3.4, 203.0.113.7, 10.0.0.9"}, want: "203.0.113.7"},
		{name: "repeated headers", remote: "10.0.0.5:1234", xff: []string{"1.2.3.4", "203.0.113.7"}, want: "203.0.113.7"},
		{name: "only trusted hops", remote: "10.0.0.5:1234", xff: []string{"10.0.0.7, 10.0.0.9"}, want: "10.0.0.7"},
		{name: "malformed hop", remote: "10.0.0.5:1234", xff: []string{"203.0.113.7, not-an-ip"}, want: "10.0.0.5:1234"},
		{name: "X-Real-IP from trusted proxy", remote: "10.0.0.5:1234", xrip: "198.51.100.2", want: "198.51.100.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var remote string
			h := RealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				remote = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.xrip != "" {
				req.Header.Set("X-Real-IP", tt.xrip)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, remote)
		})
	}
}

func TestRealIP_SharesRateLimitBucket(t *testing.T) {
	h := RealIP([]netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})(
		RateLimiter(NewRateLimiterConfig(1, 1))(http.HandlerFunc(okHandler)))

	codes := make([]int, 0, 2)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		req.Header.Set("X-Forwarded-For", spoofed+", 203.0.113.7")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMetrics(t *testing.T) {
	m := metrics.NewPrometheusMetrics("test")

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/products/{productID}", okHandler)

	for _, path := range []string{"/products/1", "/products/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP test_http_requests_total http_requests_total
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/products/{productID}",status="200"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_http_requests_total"))
}
