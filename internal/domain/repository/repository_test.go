package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
)

func TestProductDemand_OrderBy(t *testing.T) {
	tests := []struct {
		order   string
		want    OrderClause
		ok      bool
		wantErr bool
	}{
		{order: "", ok: false},
		{order: "title", want: OrderClause{"title", "asc"}, ok: true},
		{order: "title desc", want: OrderClause{"title", "desc"}, ok: true},
		{order: "SKU ASC", want: OrderClause{"sku", "asc"}, ok: true},
		{order: "crdate desc", want: OrderClause{"created_at", "desc"}, ok: true},
		{order: "price sideways", wantErr: true},
		{order: "uid; drop table", wantErr: true},
		{order: "title asc extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.order, func(t *testing.T) {
			got, ok, err := ProductDemand{Order: tt.order}.OrderBy()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOrdering)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderClause_String(t *testing.T) {
	assert.Equal(t, "created_at DESC", OrderClause{Column: "created_at", Direction: "desc"}.String())
}

func TestNewOrder(t *testing.T) {
	assert.Equal(t, "", NewOrder("", "desc"))
	assert.Equal(t, "title", NewOrder("title", ""))
	assert.Equal(t, "title desc", NewOrder(" title ", "desc"))
}

func TestSortByUIDs(t *testing.T) {
	products := []*entity.Product{{ID: 1}, {ID: 2}, {ID: 3}}

	sorted := SortByUIDs(products, []uint{3, 9, 1, 3})

	require.Len(t, sorted, 2)
	assert.Equal(t, uint(3), sorted[0].ID)
	assert.Equal(t, uint(1), sorted[1].ID)
}

func TestDescendantCategories(t *testing.T) {
	categories := []*entity.Category{
		{ID: 1},
		{ID: 2, ParentID: 1},
		{ID: 3, ParentID: 2},
		{ID: 4, ParentID: 1},
		{ID: 5},
	}

	got := DescendantCategories(categories, 1)
	assert.Equal(t, []uint{1, 2, 4, 3}, CategoryIDs(got))

	assert.Equal(t, []uint{5}, CategoryIDs(DescendantCategories(categories, 5)))
	assert.Nil(t, DescendantCategories(categories, 42))
}

func TestPageTreeIDs(t *testing.T) {
	pages := []entity.Page{
		{ID: 10, Pid: 1},
		{ID: 11, Pid: 10},
		{ID: 12, Pid: 11},
		{ID: 20, Pid: 1},
	}

	assert.Equal(t, []uint{1}, PageTreeIDs(pages, 1, 0))
	assert.Equal(t, []uint{1, 10, 20}, PageTreeIDs(pages, 1, 1))
	assert.Equal(t, []uint{1, 10, 20, 11, 12}, PageTreeIDs(pages, 1, 99))
	assert.Equal(t, []uint{30}, PageTreeIDs(pages, 30, 99))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(fmt.Errorf("load: %w", ErrProductNotFound)))
	assert.True(t, IsNotFoundError(ErrCategoryNotFound))
	assert.False(t, IsNotFoundError(ErrInvalidOrdering))
}
