// Package cart adds catalog products to the visitor's session cart.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hapkiduki/cart-products/internal/application/dto"
	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
	"github.com/hapkiduki/cart-products/internal/domain/valueobject"
)

// ErrSessionRequired is returned when a cart operation has no session.
var ErrSessionRequired = errors.New("cart session required")

// ValidationError carries the field errors of a rejected request.
type ValidationError struct {
	Errors []dto.ValidationError
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return "invalid cart request: " + strings.Join(fields, ", ")
}

// Settings describe the cart a session starts with.
type Settings struct {
	// Pid is the cart page
	Pid uint

	// Currency is the currency of a new cart
	Currency entity.CurrencySettings
}

// Service manages session carts.
type Service struct {
	products repository.ProductRepository
	carts    port.CartStore
	settings Settings
	logger   port.Logger
	metrics  port.Metrics
	tracer   port.Tracer
}

// NewService creates the cart service.
func NewService(
	products repository.ProductRepository,
	carts port.CartStore,
	settings Settings,
	logger port.Logger,
	metrics port.Metrics,
	tracer port.Tracer,
) *Service {
	return &Service{
		products: products,
		carts:    carts,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// Get returns the cart of a session; a session without cart gets an empty one.
func (s *Service) Get(ctx context.Context, sessionID string) (*dto.CartView, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view, err := dto.NewCartView(cart)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// AddProduct adds a product, or one of its backend variants, to the cart.
//
// Parameters:
//   - ctx: request context
//   - sessionID: the visitor's cart session
//   - req: product, variant and quantity
//
// Returns:
//   - *dto.CartView: the updated cart
//   - error: *ValidationError for malformed requests,
//     repository.ErrProductNotFound, or an entity error when the product,
//     variant, stock or order limits do not allow the quantity
func (s *Service) AddProduct(ctx context.Context, sessionID string, req dto.AddToCartRequest) (*dto.CartView, error) {
	ctx, span := s.tracer.StartSpan(ctx, "cart.AddProduct")
	defer span.End()
	span.SetAttribute("product_id", req.ProductID)

	log := s.logger.WithContext(ctx).With("product_id", req.ProductID, "be_variant_id", req.BeVariantID)

	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	product, err := s.products.FindByUID(ctx, req.ProductID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	variant, err := resolveVariant(product, req.BeVariantID)
	if err != nil {
		log.Info("Product rejected", "reason", err)
		return nil, err
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	lineQuantity := cart.Quantity(req.ProductID, req.BeVariantID) + req.Quantity
	productQuantity := cart.ProductQuantity(req.ProductID) + req.Quantity
	if err := checkQuantity(product, variant, productQuantity, lineQuantity); err != nil {
		log.Info("Quantity rejected", "quantity", productQuantity, "line_quantity", lineQuantity, "reason", err)
		return nil, err
	}

	item := newItem(product, variant, req.Quantity, lineQuantity, cart.Currency.Code)
	if err := cart.AddItem(item); err != nil {
		return nil, err
	}

	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.metrics.Counter("cart_items_added_total", float64(req.Quantity), map[string]string{
		"product_type": string(product.ProductType),
	})
	log.Info("Product added to cart", "quantity", req.Quantity, "unit_price", item.UnitPrice.String())

	view, err := dto.NewCartView(cart)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*entity.Cart, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	cart, err := s.carts.Load(ctx, sessionID, s.settings.Pid)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		cart = entity.NewCart(s.settings.Pid, s.settings.Currency)
	}
	return cart, nil
}

// resolveVariant checks availability and returns the requested variant; nil
// for products without variants.
func resolveVariant(product *entity.Product, variantID uint) (*entity.BeVariant, error) {
	if len(product.BeVariants) == 0 {
		if variantID != 0 {
			return nil, entity.ErrVariantNotFound
		}
		if !product.IsAvailable() {
			return nil, entity.ErrProductNotAvailable
		}
		return nil, nil
	}

	if variantID == 0 {
		return nil, entity.ErrVariantRequired
	}
	variant, ok := product.BeVariantByID(variantID)
	if !ok {
		return nil, entity.ErrVariantNotFound
	}
	if !product.IsVariantAvailable(variant) {
		return nil, entity.ErrVariantNotAvailable
	}
	return variant, nil
}

// checkQuantity validates the quantities the cart would hold. Order limits
// and product stock count every line of the product; variant stock counts
// only the variant's own line.
func checkQuantity(product *entity.Product, variant *entity.BeVariant, productQuantity, lineQuantity int) error {
	if err := product.ValidateOrderQuantity(productQuantity); err != nil {
		return err
	}
	if !product.HandleStock {
		return nil
	}

	if product.HandleStockInVariants && variant != nil {
		if lineQuantity > variant.Stock {
			return entity.ErrInsufficientStock
		}
		return nil
	}
	if productQuantity > product.Stock() {
		return entity.ErrInsufficientStock
	}
	return nil
}

// newItem prices a cart line. The best special price (or variant price) is
// lowered further by the quantity tier reached by the whole line.
func newItem(product *entity.Product, variant *entity.BeVariant, quantity, lineQuantity int, currency valueobject.Currency) entity.CartItem {
	price := product.BestSpecialPrice()
	sku := product.SKU
	title := product.Title
	var variantID uint

	if variant != nil {
		variantID = variant.ID
		price = variant.BestPrice(product.Price)
		sku = variant.FullSKU(product.SKU)
		if vt := variant.Title(); vt != "" {
			title = product.Title + " - " + vt
		}
	}

	if tier, ok := product.QuantityDiscountPrice(lineQuantity); ok && tier < price {
		price = tier
	}

	return entity.CartItem{
		ProductID:   product.ID,
		BeVariantID: variantID,
		SKU:         sku,
		Title:       title,
		Quantity:    quantity,
		UnitPrice:   valueobject.NewMoneyFromFloat(price, currency),
		TaxClassID:  product.TaxClassID,
	}
}
