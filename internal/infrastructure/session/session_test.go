package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/valueobject"
)

func testCart(t *testing.T) *entity.Cart {
	t.Helper()
	cart := entity.NewCart(7, entity.CurrencySettings{Code: valueobject.CurrencyEUR, Sign: "€"})
	require.NoError(t, cart.AddItem(entity.CartItem{
		ProductID: 1,
		SKU:       "shirt-1",
		Title:     "Blue Shirt",
		Quantity:  2,
		UnitPrice: valueobject.NewMoney(1999, valueobject.CurrencyEUR),
	}))
	return cart
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart_products:cart:7:abc", Key(7, "abc"))
}

func TestMemoryCartStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCartStore()

	t.Run("missing cart", func(t *testing.T) {
		cart, err := store.Load(ctx, "abc", 7)
		require.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "abc", testCart(t)))

		cart, err := store.Load(ctx, "abc", 7)
		require.NoError(t, err)
		require.NotNil(t, cart)
		assert.Equal(t, 2, cart.Count())
		assert.Equal(t, 1.0, cart.Currency.Translation)
	})

	t.Run("carts are scoped by page and session", func(t *testing.T) {
		cart, err := store.Load(ctx, "abc", 8)
		require.NoError(t, err)
		assert.Nil(t, cart)

		cart, err = store.Load(ctx, "other", 7)
		require.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("loaded carts are copies", func(t *testing.T) {
		cart, err := store.Load(ctx, "abc", 7)
		require.NoError(t, err)
		cart.Items[0].Quantity = 50

		again, err := store.Load(ctx, "abc", 7)
		require.NoError(t, err)
		assert.Equal(t, 2, again.Items[0].Quantity)
	})
}

func TestRedisCartStore_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewRedisCartStore(client, time.Minute)

	ctx := context.Background()

	_, err := store.Load(ctx, "abc", 7)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	err = store.Save(ctx, "abc", testCart(t))
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.ErrorIs(t, store.Ping(ctx), ErrStoreUnavailable)
}
