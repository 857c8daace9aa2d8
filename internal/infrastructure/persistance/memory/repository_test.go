package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
)

func product(t *testing.T, id uint, sku, title string, price float64, categories ...uint) *entity.Product {
	t.Helper()
	p, err := entity.NewProduct(sku, title, price)
	require.NoError(t, err)
	p.ID = id
	p.Pid = 100
	p.CategoryIDs = categories
	if len(categories) > 0 {
		p.CategoryID = categories[0]
	}
	return p
}

func seededRepository(t *testing.T) *ProductRepository {
	t.Helper()
	return NewProductRepository(
		product(t, 1, "shirt-1", "Blue Shirt", 20, 1),
		product(t, 2, "shirt-2", "Red Shirt", 15, 2),
		product(t, 3, "mug-1", "Coffee Mug", 8, 3),
	)
}

func TestProductRepository_FindDemanded(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()

	t.Run("default order is by id", func(t *testing.T) {
		got, err := repo.FindDemanded(ctx, repository.ProductDemand{})
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3}, ids(got))
	})

	t.Run("title like match", func(t *testing.T) {
		got, err := repo.FindDemanded(ctx, repository.ProductDemand{Title: "shirt"})
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, ids(got))
	})

	t.Run("sku like match", func(t *testing.T) {
		got, err := repo.FindDemanded(ctx, repository.ProductDemand{SKU: "MUG"})
		require.NoError(t, err)
		assert.Equal(t, []uint{3}, ids(got))
	})

	t.Run("categories any of", func(t *testing.T) {
		got, err := repo.FindDemanded(ctx, repository.ProductDemand{Categories: []uint{2, 3}})
		require.NoError(t, err)
		assert.Equal(t, []uint{2, 3}, ids(got))
	})

	t.Run("ordered with pagination", func(t *testing.T) {
		got, err := repo.FindDemanded(ctx, repository.ProductDemand{Order: "price desc", Offset: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, []uint{2}, ids(got))

		count, err := repo.CountDemanded(ctx, repository.ProductDemand{Order: "price desc", Offset: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("offset past the end", func(t *testing.T) {
		got, err := repo.FindDemanded(ctx, repository.ProductDemand{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid ordering", func(t *testing.T) {
		_, err := repo.FindDemanded(ctx, repository.ProductDemand{Order: "stock asc"})
		assert.ErrorIs(t, err, repository.ErrInvalidOrdering)
	})
}

func TestProductRepository_HidesUnpublished(t *testing.T) {
	repo := seededRepository(t)
	hidden := product(t, 4, "soon", "Coming Soon", 1)
	hidden.StartTime = time.Now().Add(time.Hour)
	repo.Save(hidden)

	_, err := repo.FindByUID(context.Background(), 4)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	got, err := repo.FindByPids(context.Background(), []uint{100})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestProductRepository_FindByUIDs(t *testing.T) {
	repo := seededRepository(t)

	got, err := repo.FindByUIDs(context.Background(), []uint{3, 7, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1}, ids(got))
}

func TestProductRepository_Update(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()

	p, err := repo.FindByUID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, p.SetStock(5))
	require.NoError(t, repo.Update(ctx, p))

	assert.ErrorIs(t, repo.Update(ctx, product(t, 99, "x", "x", 1)), repository.ErrProductNotFound)

	stored, err := repo.FindByUID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StoredStock())
}

func TestProductRepository_DoesNotAliasStoredProducts(t *testing.T) {
	ctx := context.Background()
	seed := product(t, 1, "shirt-1", "Blue Shirt", 20, 1)
	require.NoError(t, seed.SetStock(5))
	seed.SetBeVariants([]*entity.BeVariant{{ID: 11, Stock: 2}})
	repo := NewProductRepository(seed)

	require.NoError(t, seed.SetStock(0))

	p, err := repo.FindByUID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StoredStock())

	require.NoError(t, p.RemoveFromStock(3))
	p.BeVariants[0].Stock = 0

	again, err := repo.FindByUID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, again.StoredStock())
	assert.Equal(t, 2, again.BeVariants[0].Stock)

	require.NoError(t, repo.Update(ctx, p))
	require.NoError(t, p.AddToStock(10))

	again, err = repo.FindByUID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, again.StoredStock())
}

func TestProductRepository_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	seed := product(t, 1, "shirt-1", "Blue Shirt", 20, 1)
	require.NoError(t, seed.SetStock(100))
	repo := NewProductRepository(seed)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p, err := repo.FindByUID(ctx, 1)
			if assert.NoError(t, err) {
				assert.NoError(t, p.RemoveFromStock(1))
				assert.NoError(t, repo.Update(ctx, p))
			}
		}()
		go func() {
			defer wg.Done()
			_, err := repo.FindDemanded(ctx, repository.ProductDemand{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := repo.FindByUID(ctx, 1)
	require.NoError(t, err)
	assert.Less(t, p.StoredStock(), 100)
}

func TestCategoryRepository(t *testing.T) {
	repo := NewCategoryRepository(
		&entity.Category{ID: 1, Title: "Clothing"},
		&entity.Category{ID: 2, ParentID: 1, Title: "Shirts"},
	)
	ctx := context.Background()

	c, err := repo.FindByUID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Shirts", c.Title)

	tree, err := repo.FindSubcategoriesRecursive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, repository.CategoryIDs(tree))

	_, err = repo.FindSubcategoriesRecursive(ctx, 9)
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestPageRepository_TreeList(t *testing.T) {
	repo := NewPageRepository(entity.Page{ID: 2, Pid: 1}, entity.Page{ID: 3, Pid: 2})

	got, err := repo.TreeList(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, got)
}

func ids(products []*entity.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
