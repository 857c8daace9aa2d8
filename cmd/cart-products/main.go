// Package main is the entry point of the cart products service.
// It serves the catalog and the session cart over HTTP, and optionally
// consumes reindex requests and placed orders from Kafka.
//
// 12-Factor App compilance:
//   - III. Config: Configuration via environment variables
//   - VI. Processes: Stateless processes; carts live in Redis
//   - VII. Port Binding: Self-contained HTTP server
//   - IX. Disposability: Graceful shutdown
//   - XI. Logs: Structured logging to stdout
//
// Usage:
//
//	go run ./cmd/cart-products
//
// Environment Variables:
//
//	CP_ENVIRONMENT     - Deployment environment (development, staging, production)
//	CP_SERVER_PORT     - HTTP server port (default: 8080)
//	CP_DATABASE_DRIVER - mysql or memory
//	CP_REDIS_ENABLED   - store carts in Redis instead of memory
//	CP_SEARCH_ENABLED  - index products in Elasticsearch instead of memory
//	CP_KAFKA_ENABLED   - consume reindex requests and orders
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel"

	"github.com/hapkiduki/cart-products/internal/application/cart"
	"github.com/hapkiduki/cart-products/internal/application/catalog"
	"github.com/hapkiduki/cart-products/internal/application/dto"
	"github.com/hapkiduki/cart-products/internal/application/indexer"
	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/application/stock"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/valueobject"
	"github.com/hapkiduki/cart-products/internal/infrastructure/config"
	"github.com/hapkiduki/cart-products/internal/infrastructure/logging"
	"github.com/hapkiduki/cart-products/internal/infrastructure/messaging"
	"github.com/hapkiduki/cart-products/internal/infrastructure/metrics"
	"github.com/hapkiduki/cart-products/internal/infrastructure/persistance"
	"github.com/hapkiduki/cart-products/internal/infrastructure/search"
	"github.com/hapkiduki/cart-products/internal/infrastructure/session"
	"github.com/hapkiduki/cart-products/internal/infrastructure/tracing"
	"github.com/hapkiduki/cart-products/internal/interfaces/http/handler"
	"github.com/hapkiduki/cart-products/internal/interfaces/http/middleware"
	"github.com/hapkiduki/cart-products/pkg/logger"
)

// version is set at build time via ldflags
var version = "dev"

// startTime tracks when the server started for uptime calculations
var startTime = time.Now()

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log := logger.MustNew(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Service:     cfg.App.Name,
		Development: cfg.App.Environment == "development",
	})
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("Starting Cart Products service",
		"version", version,
		"environment", cfg.App.Environment,
	)

	// Create context that listens for shutdowns signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logAdapter := logging.NewPortLogger(log)

	// ============================================================================
	// Observability
	// ============================================================================

	var recorder port.Metrics = metrics.Nop()
	var prom *metrics.PrometheusMetrics
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheusMetrics(cfg.Metrics.Namespace)
		recorder = prom
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.NewProvider(ctx, cfg.App.Name, cfg.App.Environment, cfg.Tracing)
		if err != nil {
			log.Fatal("Failed to initialize tracing", "error", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to flush traces", "error", err)
			}
		}()
	}
	// Follows the global provider, a no-op unless tracing is enabled
	tracer := tracing.NewTracer(otel.GetTracerProvider())

	// ============================================================================
	// Infrastructure
	// ============================================================================

	repos, err := persistance.Open(cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatal("Failed to open database", "driver", cfg.Database.Driver, "error", err)
	}
	defer repos.Close()

	checkers := map[string]handler.Checker{"database": repos}

	var carts port.CartStore
	if cfg.Redis.Enabled {
		client := session.NewRedisClient(cfg.Redis)
		defer client.Close()
		store := session.NewRedisCartStore(client, cfg.Cart.SessionTTL)
		carts = store
		checkers["redis"] = store
	} else {
		carts = session.NewMemoryCartStore()
	}

	index, err := search.Open(ctx, cfg.Search)
	if err != nil {
		log.Fatal("Failed to open search index", "error", err)
	}
	checkers["search"] = index

	// ============================================================================
	// Application services
	// ============================================================================

	catalogService := catalog.NewService(
		repos.Products,
		repos.Categories,
		carts,
		catalogSettings(cfg.Catalog),
		dto.CartSettings{
			Pid:          cfg.Cart.Pid,
			CurrencyCode: cfg.Cart.CurrencyCode,
			CurrencySign: cfg.Cart.CurrencySign,
		},
		logAdapter.With("service", "catalog"),
		tracer,
	)

	cartService := cart.NewService(
		repos.Products,
		carts,
		cartSettings(cfg.Cart),
		logAdapter.With("service", "cart"),
		recorder,
		tracer,
	)

	registry := indexer.NewRegistry()
	registry.Register(indexer.ProductIndexerType, indexer.ProductIndexerTitle, indexer.NewProductIndexer(
		repos.Products,
		repos.Categories,
		repos.Pages,
		index,
		logAdapter.With("service", "indexer"),
		recorder,
		tracer,
	))

	stockService := stock.NewService(repos.Products, logAdapter.With("service", "stock"), recorder)

	// ============================================================================
	// Kafka listeners
	// ============================================================================

	var listeners sync.WaitGroup
	if cfg.Kafka.Enabled {
		startListener(ctx, &listeners, messaging.NewListener(
			"reindex",
			messaging.NewReader(cfg.Kafka, cfg.Kafka.Topic),
			messaging.NewReindexHandler(registry, logAdapter),
			logAdapter,
		))

		if cfg.Kafka.OrderTopic != "" {
			startListener(ctx, &listeners, messaging.NewListener(
				"orders",
				messaging.NewReader(cfg.Kafka, cfg.Kafka.OrderTopic),
				messaging.NewOrderHandler(stockService, logAdapter),
				logAdapter,
			))
		}
	}

	// ============================================================================
	// Router
	// ============================================================================

	trustedProxies, err := cfg.Server.TrustedProxyPrefixes()
	if err != nil {
		log.Fatal("Invalid trusted proxies", "error", err)
	}

	r := chi.NewRouter()

	// Order matters! Middleware is executed in the order added.
	r.Use(middleware.RealIP(trustedProxies))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logAdapter))
	r.Use(middleware.Recoverer(logAdapter))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-API-Version", handler.CacheTagHeader, handler.ForwardedActionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(middleware.NewRateLimiterConfig(cfg.Server.RateLimit, cfg.Server.RateBurst)))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.APIVersion(version))

	health := handler.NewHealthHandler(version, startTime, checkers)
	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)
	if prom != nil {
		r.Handle(cfg.Metrics.Path, prom.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.CartSession(cfg.Cart.CookieName, cfg.Cart.SessionTTL, cfg.App.Environment == "production"))

		handler.NewCatalogHandler(catalogService, logAdapter).Routes(r)
		handler.NewCartHandler(cartService, logAdapter).Routes(r)
		handler.NewIndexerHandler(registry, logAdapter).Routes(r)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	// ============================================================================
	// HTTP server
	// ============================================================================

	addr := cfg.Server.Address()
	server := &http.Server{
		Addr:         addr,
		Handler:      http.MaxBytesHandler(r, cfg.Server.MaxRequestSize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	listeners.Wait()
	log.Info("Server shutdown complete")
}

// startListener runs a Kafka listener until ctx is done.
func startListener(ctx context.Context, wg *sync.WaitGroup, l *messaging.Listener) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Start(ctx)
	}()
}

// catalogSettings maps the plugin configuration to the catalog settings.
func catalogSettings(c config.CatalogConfig) catalog.Settings {
	return catalog.Settings{
		CategoriesList:    c.CategoriesList,
		ListSubcategories: c.ListSubcategories,
		OrderBy:           c.OrderBy,
		OrderDirection:    c.OrderDirection,
		ProductUIDs:       c.ProductUIDs,
		PageProductID:     c.PageProductID,
		ContentID:         c.ContentID,
		Limit:             c.Limit,
	}
}

// cartSettings maps the cart configuration to the settings of a new cart.
func cartSettings(c config.CartConfig) cart.Settings {
	return cart.Settings{
		Pid: c.Pid,
		Currency: entity.CurrencySettings{
			Code:        valueobject.Currency(c.CurrencyCode),
			Sign:        c.CurrencySign,
			Translation: c.CurrencyTranslation,
		},
	}
}
