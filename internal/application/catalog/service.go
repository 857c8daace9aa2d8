// Package catalog implements the product plugin actions: list, show, the
// add-to-cart form, teaser and flexform.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hapkiduki/cart-products/internal/application/dto"
	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
)

// Cache tags attached to rendered views.
const (
	CacheTag              = "tx_cartproducts"
	productCacheTagPrefix = "tx_cartproducts_product_"
)

// ErrForwardToList is returned by Show when no product can be shown; the
// caller renders the list action instead.
var ErrForwardToList = errors.New("no product to show, forward to list")

// Settings are the plugin settings of the catalog actions.
type Settings struct {
	// CategoriesList restricts list views to these categories
	CategoriesList []uint

	// ListSubcategories includes every descendant of CategoriesList
	ListSubcategories bool

	OrderBy        string
	OrderDirection string

	// ProductUIDs are the teaser products, in display order
	ProductUIDs []uint

	// PageProductID is shown by Show when no product ID is given
	PageProductID uint

	// ContentID is the plugin content element
	ContentID uint

	// Limit caps the list view; 0 is unlimited
	Limit int
}

// ListRequest holds the visitor input of the list action.
type ListRequest struct {
	Search dto.SearchArguments
	Offset int
	Limit  int
}

// Service runs the catalog actions.
type Service struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	carts      port.CartStore
	settings   Settings
	cart       dto.CartSettings
	logger     port.Logger
	tracer     port.Tracer
}

// NewService creates the catalog service.
//
// Parameters:
//   - products: product repository
//   - categories: category repository, used to expand subcategories
//   - carts: session cart store, used for the currency translation
//   - settings: plugin settings
//   - cart: cart page and default currency
//   - logger: logger
//   - tracer: tracer
//
// Returns:
//   - *Service: the service
func NewService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	carts port.CartStore,
	settings Settings,
	cart dto.CartSettings,
	logger port.Logger,
	tracer port.Tracer,
) *Service {
	return &Service{
		products:   products,
		categories: categories,
		carts:      carts,
		settings:   settings,
		cart:       cart,
		logger:     logger,
		tracer:     tracer,
	}
}

// List renders the product list.
//
// Parameters:
//   - ctx: request context
//   - sessionID: the visitor's cart session; may be empty
//   - req: search arguments and pagination
//
// Returns:
//   - *dto.ListView: the products with view settings
//   - error: repository.ErrInvalidOrdering for bad settings, or any storage error
func (s *Service) List(ctx context.Context, sessionID string, req ListRequest) (*dto.ListView, error) {
	ctx, span := s.tracer.StartSpan(ctx, "catalog.List")
	defer span.End()

	demand, err := s.listDemand(ctx, req)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	products := make([]*entity.Product, 0)
	var total int64
	// configured categories that all failed to resolve match nothing
	if len(s.settings.CategoriesList) == 0 || len(demand.Categories) > 0 {
		products, err = s.products.FindDemanded(ctx, demand)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to find products: %w", err)
		}

		total, err = s.products.CountDemanded(ctx, demand)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
	}
	span.SetAttribute("product_count", len(products))

	s.logger.WithContext(ctx).Debug("Products listed",
		"action", demand.Action,
		"count", len(products),
		"total", total,
	)

	return &dto.ListView{
		Products:            dto.NewPage(dto.NewProductViews(products), total, demand.Limit, demand.Offset),
		SearchArguments:     req.Search,
		CartSettings:        s.cart,
		CurrencyTranslation: s.currencyTranslation(ctx, sessionID),
		CacheTags:           cacheTags(products...),
	}, nil
}

// Show renders the single view of a product. A zero id falls back to the
// page product.
//
// Returns:
//   - error: ErrForwardToList if there is no product to show
func (s *Service) Show(ctx context.Context, sessionID string, id uint) (*dto.ShowView, error) {
	ctx, span := s.tracer.StartSpan(ctx, "catalog.Show")
	defer span.End()

	if id == 0 {
		id = s.settings.PageProductID
	}
	if id == 0 {
		return nil, ErrForwardToList
	}

	product, err := s.products.FindByUID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		s.logger.WithContext(ctx).Info("Product not found, forwarding to list", "product_id", id)
		return nil, fmt.Errorf("%w: %w", ErrForwardToList, err)
	}
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}

	return s.showView(ctx, sessionID, product), nil
}

// ShowForm renders the add-to-cart form of a product. A zero id falls back to
// the page product.
//
// Returns:
//   - error: repository.ErrProductNotFound if there is no product to show
func (s *Service) ShowForm(ctx context.Context, sessionID string, id uint) (*dto.ShowView, error) {
	ctx, span := s.tracer.StartSpan(ctx, "catalog.ShowForm")
	defer span.End()

	if id == 0 {
		id = s.settings.PageProductID
	}
	if id == 0 {
		return nil, repository.ErrProductNotFound
	}

	product, err := s.products.FindByUID(ctx, id)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.showView(ctx, sessionID, product), nil
}

// Teaser renders the configured products in the configured order.
func (s *Service) Teaser(ctx context.Context, sessionID string) (*dto.TeaserView, error) {
	ctx, span := s.tracer.StartSpan(ctx, "catalog.Teaser")
	defer span.End()

	products := make([]*entity.Product, 0)
	if len(s.settings.ProductUIDs) > 0 {
		var err error
		products, err = s.products.FindByUIDs(ctx, s.settings.ProductUIDs)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to find teaser products: %w", err)
		}
	}

	return &dto.TeaserView{
		Products:            dto.NewProductViews(products),
		CartSettings:        s.cart,
		CurrencyTranslation: s.currencyTranslation(ctx, sessionID),
		CacheTags:           cacheTags(products...),
	}, nil
}

// Flexform returns the content element ID; zero falls back to the configured one.
func (s *Service) Flexform(_ context.Context, contentID uint) *dto.FlexformView {
	if contentID == 0 {
		contentID = s.settings.ContentID
	}
	return &dto.FlexformView{ContentID: contentID}
}

func (s *Service) showView(ctx context.Context, sessionID string, product *entity.Product) *dto.ShowView {
	return &dto.ShowView{
		Product:             dto.NewProductView(product),
		CartSettings:        s.cart,
		CurrencyTranslation: s.currencyTranslation(ctx, sessionID),
		CacheTags:           cacheTags(product),
	}
}

// listDemand builds the demand of the list action from settings and request.
func (s *Service) listDemand(ctx context.Context, req ListRequest) (repository.ProductDemand, error) {
	demand := repository.ProductDemand{
		SKU:    req.Search.SKU,
		Title:  req.Search.Title,
		Order:  repository.NewOrder(s.settings.OrderBy, s.settings.OrderDirection),
		Limit:  s.settings.Limit,
		Offset: max(req.Offset, 0),
		Action: "list",
	}
	if req.Limit > 0 && (demand.Limit == 0 || req.Limit < demand.Limit) {
		demand.Limit = req.Limit
	}

	if _, _, err := demand.OrderBy(); err != nil {
		return demand, err
	}

	categories, err := s.listCategories(ctx)
	if err != nil {
		return demand, err
	}
	demand.Categories = categories
	return demand, nil
}

// listCategories returns the configured categories, expanded by their
// descendants when subcategories are listed. Unknown categories are skipped.
func (s *Service) listCategories(ctx context.Context) ([]uint, error) {
	if !s.settings.ListSubcategories || len(s.settings.CategoriesList) == 0 {
		return s.settings.CategoriesList, nil
	}

	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(s.settings.CategoriesList))
	for _, id := range s.settings.CategoriesList {
		tree, err := s.categories.FindSubcategoriesRecursive(ctx, id)
		if errors.Is(err, repository.ErrCategoryNotFound) {
			s.logger.WithContext(ctx).Warn("Configured category not found", "category_id", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to expand category %d: %w", id, err)
		}
		for _, c := range tree {
			if !seen[c.ID] {
				seen[c.ID] = true
				ids = append(ids, c.ID)
			}
		}
	}
	return ids, nil
}

// currencyTranslation restores the currency display data of the visitor's
// cart. Store failures are logged and yield nil.
func (s *Service) currencyTranslation(ctx context.Context, sessionID string) *dto.CurrencyTranslation {
	if sessionID == "" {
		return nil
	}

	cart, err := s.carts.Load(ctx, sessionID, s.cart.Pid)
	if err != nil {
		s.logger.WithContext(ctx).Warn("Failed to load cart", "error", err)
		return nil
	}
	if cart == nil {
		return nil
	}

	return &dto.CurrencyTranslation{
		CurrencyCode:        string(cart.Currency.Code),
		CurrencySign:        cart.Currency.Sign,
		CurrencyTranslation: cart.Currency.Translation,
	}
}

// cacheTags returns the plugin tag plus one tag per product.
func cacheTags(products ...*entity.Product) []string {
	tags := make([]string, 0, len(products)+1)
	tags = append(tags, CacheTag)
	for _, p := range products {
		tags = append(tags, productCacheTagPrefix+strconv.FormatUint(uint64(p.ID), 10))
	}
	return tags
}
