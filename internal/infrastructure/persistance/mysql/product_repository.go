package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
)

// productPreloads are the associations loaded with every product.
var productPreloads = []string{
	"Categories",
	"SpecialPrices",
	"QuantityDiscounts",
	"BeVariants",
	"BeVariants.SpecialPrices",
	"BeVariants.AttributeOption1",
	"BeVariants.AttributeOption2",
	"BeVariants.AttributeOption3",
	"BeVariantAttribute1.Options",
	"BeVariantAttribute2.Options",
	"BeVariantAttribute3.Options",
}

// ProductRepository reads products with GORM.
type ProductRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProductRepository creates a product repository on db.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db, now: time.Now}
}

func (r *ProductRepository) FindDemanded(ctx context.Context, demand repository.ProductDemand) ([]*entity.Product, error) {
	query, err := r.demandedQuery(ctx, demand)
	if err != nil {
		return nil, err
	}

	var models []productModel
	if err := withPreloads(query).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find demanded products: %w", err)
	}
	return toProducts(models), nil
}

func (r *ProductRepository) CountDemanded(ctx context.Context, demand repository.ProductDemand) (int64, error) {
	demand.Limit, demand.Offset, demand.Order = 0, 0, ""

	query, err := r.demandedQuery(ctx, demand)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count demanded products: %w", err)
	}
	return count, nil
}

// demandedQuery builds the filtered, ordered and paginated product query.
func (r *ProductRepository) demandedQuery(ctx context.Context, demand repository.ProductDemand) (*gorm.DB, error) {
	order, ordered, err := demand.OrderBy()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&productModel{}).
		Scopes(visible(r.now()), demandScope(demand))

	if ordered {
		query = query.Order(productTable + "." + order.String())
	} else {
		query = query.Order(productTable + ".id ASC")
	}
	if demand.Limit > 0 {
		query = query.Limit(demand.Limit)
	}
	if demand.Offset > 0 {
		query = query.Offset(demand.Offset)
	}
	return query, nil
}

func (r *ProductRepository) FindByUID(ctx context.Context, id uint) (*entity.Product, error) {
	var m productModel
	err := withPreloads(r.db.WithContext(ctx).Scopes(visible(r.now()))).
		First(&m, productTable+".id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return toProduct(&m), nil
}

func (r *ProductRepository) FindByUIDs(ctx context.Context, ids []uint) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var models []productModel
	err := withPreloads(r.db.WithContext(ctx).Scopes(visible(r.now()))).
		Where(productTable+".id IN ?", ids).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("find products by ids: %w", err)
	}
	return repository.SortByUIDs(toProducts(models), ids), nil
}

func (r *ProductRepository) FindByPids(ctx context.Context, pids []uint) ([]*entity.Product, error) {
	if len(pids) == 0 {
		return []*entity.Product{}, nil
	}

	var models []productModel
	err := withPreloads(r.db.WithContext(ctx)).
		Where(productTable+".pid IN ? AND "+productTable+".deleted = ?", pids, false).
		Order(productTable + ".id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("find products by pids: %w", err)
	}
	return toProducts(models), nil
}

// Update writes product and variant stock in one transaction.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	now := r.now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&productModel{}).
			Where("id = ?", product.ID).
			Updates(map[string]any{
				"stock":      product.StoredStock(),
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("update product %d: %w", product.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrProductNotFound
		}

		for _, v := range product.BeVariants {
			err := tx.Model(&beVariantModel{}).
				Where("id = ? AND product_id = ?", v.ID, product.ID).
				Update("stock", v.Stock).Error
			if err != nil {
				return fmt.Errorf("update variant %d: %w", v.ID, err)
			}
		}

		product.UpdatedAt = now
		return nil
	})
}

// visible restricts a query to published records.
func visible(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where(productTable+".hidden = ? AND "+productTable+".deleted = ?", false, false).
			Where("("+productTable+".starttime IS NULL OR "+productTable+".starttime <= ?)", now).
			Where("("+productTable+".endtime IS NULL OR "+productTable+".endtime > ?)", now)
	}
}

// demandScope applies the demand criteria.
func demandScope(demand repository.ProductDemand) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if demand.SKU != "" {
			db = db.Where(productTable+".sku LIKE ?", likePattern(demand.SKU))
		}
		if demand.Title != "" {
			db = db.Where(productTable+".title LIKE ?", likePattern(demand.Title))
		}
		if len(demand.Categories) > 0 {
			assigned := db.Session(&gorm.Session{NewDB: true}).
				Table(productCategoryTable).
				Select("product_id").
				Where("category_id IN ?", demand.Categories)
			db = db.Where(
				productTable+".category_id IN ? OR "+productTable+".id IN (?)",
				demand.Categories, assigned,
			)
		}
		return db
	}
}

func withPreloads(db *gorm.DB) *gorm.DB {
	for _, association := range productPreloads {
		db = db.Preload(association)
	}
	return db
}

// likePattern wraps s in wildcards, escaping LIKE metacharacters.
func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + escaped + "%"
}

func toProducts(models []productModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(models))
	for i := range models {
		products = append(products, toProduct(&models[i]))
	}
	return products
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
