// Package config provides configuration management for the application.
// It follows the 12-Factor App methodology by loading configuration
// from environment variables and supporting external configuration files.
//
// 12-Factor App Compilance:
//   - III. Config: Store config in the environment
//   - Configuration is loaded from environment variables
//   - Sensitive data (passwords, keys) only via environment
//   - No config files checked into version control
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CP"

// Config holds all application configuration.
// All fields are populated from environment variables or config files.
type Config struct {
	// App contains application-level configuration
	App AppConfig `mapstructure:"app"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger configuration
	Log LogConfig `mapstructure:"log"`

	// Database contains the catalog database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Redis contains the session store configuration
	Redis RedisConfig `mapstructure:"redis"`

	// Search contains the search engine configuration
	Search SearchConfig `mapstructure:"search"`

	// Kafka contains the reindex trigger configuration
	Kafka KafkaConfig `mapstructure:"kafka"`

	// Catalog contains the product plugin settings
	Catalog CatalogConfig `mapstructure:"catalog"`

	// Cart contains the cart settings
	Cart CartConfig `mapstructure:"cart"`

	// Indexer contains the default search indexer configuration
	Indexer IndexerConfig `mapstructure:"indexer"`

	// Metrics contains the Prometheus endpoint configuration
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Tracing contains the OpenTelemetry exporter configuration
	Tracing TracingConfig `mapstructure:"tracing"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	// Name of the application
	Name string `mapstructure:"name"`

	// Environment the application is running in (e.g., development, staging, production)
	Environment string `mapstructure:"environment"`

	// Version of the application
	Version string `mapstructure:"version"`

	// Debug mode flag
	Debug bool `mapstructure:"debug"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address
	Host string `mapstructure:"host"`

	// Port is the server port
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request, including the body
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ShutdownTimeout is the maximum duration for graceful server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// RequestTimeout bounds the handling of a single request
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// MaxRequestSize is the maximun allowed request body size
	MaxRequestSize int64 `mapstructure:"max_request_size"`

	// CORSAllowedOrigins is a list of allowed origins for CORS
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// RateLimit is the number of requests per second allowed per client
	RateLimit float64 `mapstructure:"rate_limit"`

	// RateBurst is the burst size of the rate limiter
	RateBurst int `mapstructure:"rate_burst"`

	// TrustedProxies lists the addresses or CIDR ranges whose
	// X-Forwarded-For and X-Real-IP headers are believed
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address is a single
// host prefix.
func (s ServerConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(s.TrustedProxies))
	for _, raw := range s.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("config: trusted proxy %q: %w", raw, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("config: trusted proxy %q: %w", raw, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}

// Address returns the listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logger configuration.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the output format (json, console)
	Format string `mapstructure:"format"`
}

// DatabaseConfig contains the catalog database configuration.
type DatabaseConfig struct {
	// Driver is "mysql" or "memory"
	Driver string `mapstructure:"driver"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	// MaxIdleConns and MaxOpenConns size the connection pool
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// ConnMaxLifetime recycles pooled connections
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// AutoMigrate creates missing tables on startup
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN returns the MySQL data source name.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig contains the session store configuration.
type RedisConfig struct {
	// Enabled switches the cart session store to Redis; otherwise memory is used
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig contains the search engine configuration.
type SearchConfig struct {
	// Enabled switches the index store to Elasticsearch; otherwise memory is used
	Enabled bool     `mapstructure:"enabled"`
	URLs    []string `mapstructure:"urls"`
	Index   string   `mapstructure:"index"`
	Sniff   bool     `mapstructure:"sniff"`
}

// KafkaConfig contains the reindex trigger configuration.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`

	// Topic carries indexer configurations to run
	Topic string `mapstructure:"topic"`

	// OrderTopic carries placed orders whose quantities leave the stock; empty disables it
	OrderTopic string `mapstructure:"order_topic"`

	GroupID string `mapstructure:"group_id"`
}

// CatalogConfig contains the product plugin settings.
type CatalogConfig struct {
	// CategoriesList restricts list views to these categories
	CategoriesList []uint `mapstructure:"categories_list"`

	// ListSubcategories includes every descendant of CategoriesList
	ListSubcategories bool `mapstructure:"list_subcategories"`

	// OrderBy and OrderDirection define the list ordering
	OrderBy        string `mapstructure:"order_by"`
	OrderDirection string `mapstructure:"order_direction"`

	// ProductUIDs are the products shown by the teaser view, in order
	ProductUIDs []uint `mapstructure:"product_uids"`

	// PageProductID is shown when the single view is requested without a product
	PageProductID uint `mapstructure:"page_product_id"`

	// ContentID identifies the plugin content element
	ContentID uint `mapstructure:"content_id"`

	// Limit caps the list view; 0 is unlimited
	Limit int `mapstructure:"limit"`
}

// CartConfig contains the cart settings.
type CartConfig struct {
	// Pid is the page the cart is stored for
	Pid uint `mapstructure:"pid"`

	// CurrencyCode, CurrencySign and CurrencyTranslation are the defaults of a new cart
	CurrencyCode        string  `mapstructure:"currency_code"`
	CurrencySign        string  `mapstructure:"currency_sign"`
	CurrencyTranslation float64 `mapstructure:"currency_translation"`

	// SessionTTL is how long a cart session is kept
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// CookieName is the session cookie carrying the cart session ID
	CookieName string `mapstructure:"cookie_name"`
}

// IndexerConfig contains the default search indexer configuration.
type IndexerConfig struct {
	// Title is the display name of the indexer configuration
	Title string `mapstructure:"title"`

	// StartingPoints are the page trees searched for products
	StartingPoints []uint `mapstructure:"starting_points"`

	// Sysfolder is an additional storage page
	Sysfolder uint `mapstructure:"sysfolder"`

	// TargetPid is the single view page used when a category has none
	TargetPid uint `mapstructure:"target_pid"`
}

// MetricsConfig contains the Prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Path is the route serving the metrics
	Path string `mapstructure:"path"`

	// Namespace prefixes every metric name
	Namespace string `mapstructure:"namespace"`
}

// TracingConfig contains the OpenTelemetry exporter configuration.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP collector address (host:port)
	Endpoint string `mapstructure:"endpoint"`

	// Insecure disables TLS towards the collector
	Insecure bool `mapstructure:"insecure"`
}

// Load loads the configuration from environment variables and config files.
// It follows this precedence (higest to lowest):
//  1. Environment variables (a .env file in the working directory is loaded first)
//  2. Config file (if provided)
//  3. Default values
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Any error encountered during loading
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/cart-products")

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		// If the error is not "file not found", return the error
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadSensitiveConfig(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "memory":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Cart.CurrencyTranslation <= 0 {
		return fmt.Errorf("config: cart currency translation must be positive, got %v", c.Cart.CurrencyTranslation)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("config: kafka needs brokers and a topic")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return errors.New("config: tracing needs an endpoint")
	}
	if _, err := c.Server.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "cart-products")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.max_request_size", 10<<20)            // 10MB
	v.SetDefault("server.cors_allowed_origins", []string{"*"}) // Allow all origins by default
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_burst", 200)
	v.SetDefault("server.trusted_proxies", []string{"127.0.0.1", "::1"})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "cart")
	v.SetDefault("database.name", "cart_products")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", false)

	// Redis defaults
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Search defaults
	v.SetDefault("search.enabled", false)
	v.SetDefault("search.urls", []string{"http://localhost:9200"})
	v.SetDefault("search.index", "cart_products")
	v.SetDefault("search.sniff", false)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "cart_products.reindex")
	v.SetDefault("kafka.order_topic", "cart.orders")
	v.SetDefault("kafka.group_id", "cart-products-indexer")

	// Catalog defaults
	v.SetDefault("catalog.categories_list", []uint{})
	v.SetDefault("catalog.list_subcategories", false)
	v.SetDefault("catalog.order_by", "")
	v.SetDefault("catalog.order_direction", "asc")
	v.SetDefault("catalog.product_uids", []uint{})
	v.SetDefault("catalog.page_product_id", 0)
	v.SetDefault("catalog.content_id", 0)
	v.SetDefault("catalog.limit", 0)

	// Cart defaults
	v.SetDefault("cart.pid", 0)
	v.SetDefault("cart.currency_code", "EUR")
	v.SetDefault("cart.currency_sign", "€")
	v.SetDefault("cart.currency_translation", 1.0)
	v.SetDefault("cart.session_ttl", 24*time.Hour)
	v.SetDefault("cart.cookie_name", "cart_session")

	// Indexer defaults
	v.SetDefault("indexer.title", "Products")
	v.SetDefault("indexer.starting_points", []uint{})
	v.SetDefault("indexer.sysfolder", 0)
	v.SetDefault("indexer.target_pid", 0)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "cart_products")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
}

// bindEnvVars binds specific environment variables to configuration keys.
func bindEnvVars(v *viper.Viper) {
	// These are explicity bound for clarity
	_ = v.BindEnv("app.environment", EnvPrefix+"_ENVIRONMENT")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT") // Common convention
}

// loadSensitiveConfig loads sensitive configuration from environment variables.
// This ensures passwords and secrets are never in config files.
func loadSensitiveConfig(cfg *Config) {
	cfg.Database.Password = GetEnv("MYSQL_PASSWORD", cfg.Database.Password)
	cfg.Redis.Password = GetEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.App.Debug = GetEnvBool("DEBUG", cfg.App.Debug)
}

// MustLoad loads the configuration and panics on error.
// Use this in application entry points where configuration is required.
//
// Returns:
//   - *Config: The loaded configuration
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// GetEnv gets an environment variable with a default value.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Default value if not set
//
// Returns:
//   - string: The environment variable value or default
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default value.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Default value if not set or invalid
//
// Returns:
//   - int: The environment variable value or default
func GetEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default value.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Default value if not set or invalid
//
// Returns:
//   - bool: The environment variable value or default
func GetEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
