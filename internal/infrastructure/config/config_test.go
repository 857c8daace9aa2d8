package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) (*Config, error) {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	return unmarshal(v)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "cart-products", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "EUR", cfg.Cart.CurrencyCode)
	assert.Equal(t, 1.0, cfg.Cart.CurrencyTranslation)
	assert.Equal(t, "cart_session", cfg.Cart.CookieName)
	assert.Empty(t, cfg.Catalog.CategoriesList)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Search.URLs)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, []string{"127.0.0.1", "::1"}, cfg.Server.TrustedProxies)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CP_CATALOG_CATEGORIES_LIST", "3,5")
	t.Setenv("CP_CATALOG_LIST_SUBCATEGORIES", "true")
	t.Setenv("CP_CATALOG_ORDER_BY", "title")
	t.Setenv("CP_DATABASE_DRIVER", "memory")
	t.Setenv("CP_SERVER_PORT", "9090")
	t.Setenv("MYSQL_PASSWORD", "secret")

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, []uint{3, 5}, cfg.Catalog.CategoriesList)
	assert.True(t, cfg.Catalog.ListSubcategories)
	assert.Equal(t, "title", cfg.Catalog.OrderBy)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("CP_DATABASE_DRIVER", "oracle")
		_, err := load(t)
		assert.Error(t, err)
	})

	t.Run("kafka without brokers", func(t *testing.T) {
		cfg, err := load(t)
		require.NoError(t, err)
		cfg.Kafka.Enabled = true
		cfg.Kafka.Brokers = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("tracing without endpoint", func(t *testing.T) {
		cfg, err := load(t)
		require.NoError(t, err)
		cfg.Tracing.Enabled = true
		cfg.Tracing.Endpoint = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("malformed trusted proxy", func(t *testing.T) {
		t.Setenv("CP_SERVER_TRUSTED_PROXIES", "10.0.0.0/8,proxy.local")
		_, err := load(t)
		assert.ErrorContains(t, err, "proxy.local")
	})

	t.Run("non positive currency translation", func(t *testing.T) {
		t.Setenv("CP_CART_CURRENCY_TRANSLATION", "0")
		_, err := load(t)
		assert.Error(t, err)
	})
}

func TestServerConfig_TrustedProxyPrefixes(t *testing.T) {
	s := ServerConfig{TrustedProxies: []string{"10.1.2.3/8", " 192.0.2.1 ", "::1", ""}}

	prefixes, err := s.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.1/32"),
		netip.MustParsePrefix("::1/128"),
	}, prefixes)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 3306, Name: "shop"}
	assert.Equal(t, "u:p@tcp(db:3306)/shop?charset=utf8mb4&parseTime=True&loc=UTC", d.DSN())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CP_TEST_INT", "42")
	t.Setenv("CP_TEST_BOOL", "nope")

	assert.Equal(t, "fallback", GetEnv("CP_TEST_MISSING", "fallback"))
	assert.Equal(t, 42, GetEnvInt("CP_TEST_INT", 1))
	assert.True(t, GetEnvBool("CP_TEST_BOOL", true))
}
