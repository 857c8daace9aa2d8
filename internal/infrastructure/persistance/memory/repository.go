// Package memory provides in-memory implementations of the repository
// interfaces, used by tests and by the "memory" database driver.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
)

// ProductRepository keeps products in a map guarded by a RWMutex. Products
// are cloned on the way in and out, so callers never alias stored state.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[uint]*entity.Product
	now      func() time.Time
}

// NewProductRepository creates a repository holding the given products.
func NewProductRepository(products ...*entity.Product) *ProductRepository {
	r := &ProductRepository{
		products: make(map[uint]*entity.Product, len(products)),
		now:      time.Now,
	}
	for _, p := range products {
		r.products[p.ID] = p.Clone()
	}
	return r
}

// Save inserts or replaces a product.
func (r *ProductRepository) Save(p *entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p.Clone()
}

func (r *ProductRepository) FindDemanded(ctx context.Context, demand repository.ProductDemand) ([]*entity.Product, error) {
	order, ordered, err := demand.OrderBy()
	if err != nil {
		return nil, err
	}

	matches := r.filter(demand)
	sort.SliceStable(matches, func(i, j int) bool {
		if !ordered {
			return matches[i].ID < matches[j].ID
		}
		less := compareProducts(matches[i], matches[j], order.Column)
		if order.Direction == repository.SortDescending {
			less = compareProducts(matches[j], matches[i], order.Column)
		}
		return less
	})

	if demand.Offset > 0 {
		if demand.Offset >= len(matches) {
			return []*entity.Product{}, nil
		}
		matches = matches[demand.Offset:]
	}
	if demand.Limit > 0 && demand.Limit < len(matches) {
		matches = matches[:demand.Limit]
	}
	return matches, nil
}

func (r *ProductRepository) CountDemanded(ctx context.Context, demand repository.ProductDemand) (int64, error) {
	if _, _, err := demand.OrderBy(); err != nil {
		return 0, err
	}
	return int64(len(r.filter(demand))), nil
}

func (r *ProductRepository) FindByUID(ctx context.Context, id uint) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok || !p.IsVisibleAt(r.now()) {
		return nil, repository.ErrProductNotFound
	}
	return p.Clone(), nil
}

func (r *ProductRepository) FindByUIDs(ctx context.Context, ids []uint) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	found := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.IsVisibleAt(now) {
			found = append(found, p.Clone())
		}
	}
	return repository.SortByUIDs(found, ids), nil
}

func (r *ProductRepository) FindByPids(ctx context.Context, pids []uint) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[uint]bool, len(pids))
	for _, pid := range pids {
		wanted[pid] = true
	}

	found := make([]*entity.Product, 0)
	for _, p := range r.products {
		if wanted[p.Pid] {
			found = append(found, p.Clone())
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	product.UpdatedAt = r.now().UTC()
	r.products[product.ID] = product.Clone()
	return nil
}

func (r *ProductRepository) filter(demand repository.ProductDemand) []*entity.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	sku := strings.ToLower(demand.SKU)
	title := strings.ToLower(demand.Title)

	matches := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		if !p.IsVisibleAt(now) {
			continue
		}
		if sku != "" && !strings.Contains(strings.ToLower(p.SKU), sku) {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(p.Title), title) {
			continue
		}
		if len(demand.Categories) > 0 && !inAnyCategory(p, demand.Categories) {
			continue
		}
		matches = append(matches, p.Clone())
	}
	return matches
}

func inAnyCategory(p *entity.Product, categories []uint) bool {
	for _, want := range categories {
		if p.CategoryID == want {
			return true
		}
		for _, id := range p.CategoryIDs {
			if id == want {
				return true
			}
		}
	}
	return false
}

func compareProducts(a, b *entity.Product, column string) bool {
	switch column {
	case "title":
		return a.Title < b.Title
	case "sku":
		return a.SKU < b.SKU
	case "price":
		return a.Price < b.Price
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	default:
		return a.ID < b.ID
	}
}

// CategoryRepository keeps categories in memory.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories []*entity.Category
}

// NewCategoryRepository creates a repository holding the given categories.
func NewCategoryRepository(categories ...*entity.Category) *CategoryRepository {
	return &CategoryRepository{categories: categories}
}

func (r *CategoryRepository) FindByUID(ctx context.Context, id uint) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (r *CategoryRepository) FindSubcategoriesRecursive(ctx context.Context, id uint) ([]*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tree := repository.DescendantCategories(r.categories, id)
	if tree == nil {
		return nil, repository.ErrCategoryNotFound
	}
	return tree, nil
}

// PageRepository keeps the page tree in memory.
type PageRepository struct {
	mu    sync.RWMutex
	pages []entity.Page
}

// NewPageRepository creates a repository holding the given pages.
func NewPageRepository(pages ...entity.Page) *PageRepository {
	return &PageRepository{pages: pages}
}

func (r *PageRepository) TreeList(ctx context.Context, pid uint, depth int) ([]uint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return repository.PageTreeIDs(r.pages, pid, depth), nil
}

var (
	_ repository.ProductRepository  = (*ProductRepository)(nil)
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.PageRepository     = (*PageRepository)(nil)
)
