package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
)

// maxTreeDepth stops runaway walks over cyclic trees.
const maxTreeDepth = 99

// CategoryRepository reads the category tree with GORM.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository on db.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindByUID(ctx context.Context, id uint) (*entity.Category, error) {
	var m categoryModel
	err := r.db.WithContext(ctx).
		Where("hidden = ? AND deleted = ?", false, false).
		First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	return toCategory(&m), nil
}

// FindSubcategoriesRecursive loads the tree one level per query.
func (r *CategoryRepository) FindSubcategoriesRecursive(ctx context.Context, id uint) ([]*entity.Category, error) {
	root, err := r.FindByUID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := []*entity.Category{root}
	seen := map[uint]bool{root.ID: true}
	level := []uint{root.ID}

	for depth := 0; depth < maxTreeDepth && len(level) > 0; depth++ {
		var children []categoryModel
		err := r.db.WithContext(ctx).
			Where("parent_id IN ? AND hidden = ? AND deleted = ?", level, false, false).
			Order("id ASC").
			Find(&children).Error
		if err != nil {
			return nil, fmt.Errorf("find subcategories of %v: %w", level, err)
		}

		level = level[:0]
		for i := range children {
			if seen[children[i].ID] {
				continue
			}
			seen[children[i].ID] = true
			result = append(result, toCategory(&children[i]))
			level = append(level, children[i].ID)
		}
	}
	return result, nil
}

// PageRepository reads the page tree with GORM.
type PageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates a page repository on db.
func NewPageRepository(db *gorm.DB) *PageRepository {
	return &PageRepository{db: db}
}

func (r *PageRepository) TreeList(ctx context.Context, pid uint, depth int) ([]uint, error) {
	ids := []uint{pid}
	seen := map[uint]bool{pid: true}
	level := []uint{pid}

	for d := 0; d < depth && len(level) > 0; d++ {
		var children []uint
		err := r.db.WithContext(ctx).
			Model(&pageModel{}).
			Where("pid IN ? AND deleted = ?", level, false).
			Order("id ASC").
			Pluck("id", &children).Error
		if err != nil {
			return nil, fmt.Errorf("page tree of %d: %w", pid, err)
		}

		level = level[:0]
		for _, child := range children {
			if seen[child] {
				continue
			}
			seen[child] = true
			ids = append(ids, child)
			level = append(level, child)
		}
	}
	return ids, nil
}

var (
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.PageRepository     = (*PageRepository)(nil)
)
