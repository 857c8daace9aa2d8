// Package repository contains the repository interfaces (ports) for data access.
package repository

import (
	"context"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
)

// ProductRepository defines the interface for product persistance operations.
// It abstracts the data access layer for products entities.
//
// Example usage:
//
// repo := mysql.NewProductRepository(db)
// product, err := repo.FindByUID(ctx, productID)
type ProductRepository interface {
	// FindDemanded retrieves products matching the demand.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - demand: criteria, ordering and pagination
	//
	// Returns:
	//   - []*entity.Product: matching products
	//   - error: ErrInvalidOrdering for a bad ordering, or any storage error
	FindDemanded(ctx context.Context, demand ProductDemand) ([]*entity.Product, error)

	// CountDemanded returns the number of products matching the demand,
	// ignoring limit and offset.
	CountDemanded(ctx context.Context, demand ProductDemand) (int64, error)

	// FindByUID retrieves a product by its identifier.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - id: the product ID
	//
	// Returns:
	//   - *entity.Product: the retrieved product
	//   - error: ErrProductNotFound if product doesn't exist
	FindByUID(ctx context.Context, id uint) (*entity.Product, error)

	// FindByUIDs retrieves products by ID in the order of ids. Unknown IDs
	// are skipped.
	FindByUIDs(ctx context.Context, ids []uint) ([]*entity.Product, error)

	// FindByPids retrieves every product stored in the given pages.
	FindByPids(ctx context.Context, pids []uint) ([]*entity.Product, error)

	// Update persists the mutable state of a product (stock, timestamps).
	//
	// Returns:
	//   - error: ErrProductNotFound if product doesn't exist
	Update(ctx context.Context, product *entity.Product) error
}

// CategoryRepository defines read access to the category tree.
type CategoryRepository interface {
	// FindByUID retrieves a category by its identifier.
	//
	// Returns:
	//   - error: ErrCategoryNotFound if category doesn't exist
	FindByUID(ctx context.Context, id uint) (*entity.Category, error)

	// FindSubcategoriesRecursive returns the category itself followed by all
	// of its descendants.
	FindSubcategoriesRecursive(ctx context.Context, id uint) ([]*entity.Category, error)
}

// PageRepository defines read access to the page tree.
type PageRepository interface {
	// TreeList returns the IDs of pid and its descendant pages up to depth
	// levels below it.
	TreeList(ctx context.Context, pid uint, depth int) ([]uint, error)
}
