package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/infrastructure/logging"
	"github.com/hapkiduki/cart-products/internal/infrastructure/metrics"
	"github.com/hapkiduki/cart-products/internal/infrastructure/persistance/memory"
	"github.com/hapkiduki/cart-products/internal/infrastructure/search"
	"github.com/hapkiduki/cart-products/internal/infrastructure/tracing"
)

type staticIndexer string

func (s staticIndexer) Index(context.Context, Config) (string, error) {
	return string(s), nil
}

type failingIndex struct{}

func (failingIndex) Store(context.Context, port.IndexDocument) error {
	return errors.New("cluster red")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("news", "News Indexer", staticIndexer("news done"))
	r.Register(ProductIndexerType, ProductIndexerTitle, staticIndexer("products done"))

	assert.Equal(t, []Registration{
		{Type: ProductIndexerType, Title: ProductIndexerTitle},
		{Type: "news", Title: "News Indexer"},
	}, r.Registrations())

	got, err := r.Run(context.Background(), Config{Type: ProductIndexerType})
	require.NoError(t, err)
	assert.Equal(t, "products done", got)

	got, err = r.Run(context.Background(), Config{Type: "page"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func product(t *testing.T, id, pid, categoryID uint, title string) *entity.Product {
	t.Helper()
	p, err := entity.NewProduct("sku-"+title, title, 10)
	require.NoError(t, err)
	p.ID = id
	p.Pid = pid
	p.CategoryID = categoryID
	return p
}

func newIndexer(t *testing.T, index port.SearchIndex, products ...*entity.Product) *ProductIndexer {
	t.Helper()
	pages := memory.NewPageRepository(
		entity.Page{ID: 1, Pid: 0},
		entity.Page{ID: 2, Pid: 1},
		entity.Page{ID: 3, Pid: 2},
		entity.Page{ID: 9, Pid: 0},
	)
	categories := memory.NewCategoryRepository(
		&entity.Category{ID: 1, Title: "Shirts", ShowPid: 42},
		&entity.Category{ID: 2, Title: "Mugs"},
	)
	return NewProductIndexer(
		memory.NewProductRepository(products...),
		categories,
		pages,
		index,
		logging.Nop(),
		metrics.Nop(),
		tracing.NewTracer(noop.NewTracerProvider()),
	)
}

func TestProductIndexer_Index(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Type:           ProductIndexerType,
		Title:          "Shop",
		StoragePid:     77,
		StartingPoints: []uint{1},
		Sysfolder:      9,
		TargetPid:      50,
	}

	t.Run("no storage pids", func(t *testing.T) {
		ix := newIndexer(t, search.NewMemoryIndex())
		got, err := ix.Index(ctx, Config{Title: "Shop"})
		require.NoError(t, err)
		assert.Equal(t, `Product Indexer "Shop": ERROR: No Storage Pids configured!`, got)
	})

	t.Run("no products", func(t *testing.T) {
		ix := newIndexer(t, search.NewMemoryIndex(), product(t, 1, 200, 0, "Elsewhere"))
		got, err := ix.Index(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, `Product Indexer "Shop": Warning: No product found in configured Storage Pids.`, got)
	})

	t.Run("products in page trees and sysfolder", func(t *testing.T) {
		shirt := product(t, 1, 3, 1, "Shirt")
		shirt.Teaser = "<p>Soft &amp; <b>warm</b></p>"
		shirt.Description = "<ul><li>Cotton</li></ul>"
		shirt.LanguageID = 1
		shirt.FrontendGroup = "1,2"
		shirt.StartTime = time.Unix(1700000000, 0)
		mug := product(t, 2, 9, 2, "Mug")
		other := product(t, 3, 200, 1, "Elsewhere")

		index := search.NewMemoryIndex()
		ix := newIndexer(t, index, shirt, mug, other)

		got, err := ix.Index(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, `Product Indexer "Shop": Success: 2 products has been indexed.`, got)

		docs := index.Documents()
		require.Len(t, docs, 2)

		doc := docs[0]
		assert.Equal(t, "cartproduct-1-1", doc.ID)
		assert.Equal(t, uint(77), doc.StoragePid)
		assert.Equal(t, "Shirt", doc.Title)
		assert.Equal(t, "cartproduct", doc.Type)
		assert.Equal(t, uint(42), doc.TargetPid)
		assert.Equal(t, "sku-Shirt\nShirt\nSoft & warm\nCotton", doc.Content)
		assert.Equal(t, "#product#", doc.Tags)
		assert.Equal(t, "&tx_cartproducts_products[product]=1", doc.Params)
		assert.Equal(t, "Soft & warm", doc.Abstract)
		assert.Equal(t, 1, doc.Language)
		assert.Equal(t, int64(1700000000), doc.StartTime)
		assert.Zero(t, doc.EndTime)
		assert.Equal(t, "1,2", doc.FrontendGroup)
		assert.Equal(t, uint(1), doc.AdditionalFields["orig_uid"])
		assert.Equal(t, uint(3), doc.AdditionalFields["orig_pid"])
		assert.Equal(t, shirt.CreatedAt.Unix(), doc.AdditionalFields["sortdate"])

		assert.Equal(t, uint(50), docs[1].TargetPid, "category without show page falls back to the configured target")
	})

	t.Run("index errors abort the run", func(t *testing.T) {
		ix := newIndexer(t, failingIndex{}, product(t, 1, 1, 0, "Shirt"))
		_, err := ix.Index(ctx, cfg)
		assert.Error(t, err)
	})
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"<b>bold</b> text", "bold text"},
		{"a &lt; b", "a < b"},
		{"<p>one</p><p>two</p>", "onetwo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripTags(tt.in), tt.in)
	}
}
