// Package stock books ordered quantities against product and variant stock.
package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/repository"
)

// OrderItem is one ordered line.
type OrderItem struct {
	ProductID   uint `json:"product_id"`
	BeVariantID uint `json:"be_variant_id,omitempty"`
	Quantity    int  `json:"quantity"`
}

// Service updates stock levels.
type Service struct {
	products repository.ProductRepository
	logger   port.Logger
	metrics  port.Metrics
}

// NewService creates the stock service.
func NewService(products repository.ProductRepository, logger port.Logger, metrics port.Metrics) *Service {
	return &Service{products: products, logger: logger, metrics: metrics}
}

// RemoveOrdered removes ordered quantities from stock. Products without
// stock handling are skipped. Stock never drops below zero; an oversold line
// is logged. Every item is attempted and the errors are joined.
//
// Parameters:
//   - ctx: context for cancellation and deadlines
//   - items: the ordered lines
//
// Returns:
//   - error: joined errors of the failed items, nil if all succeeded
func (s *Service) RemoveOrdered(ctx context.Context, items []OrderItem) error {
	var errs []error
	for _, item := range items {
		if err := s.removeItem(ctx, item); err != nil {
			errs = append(errs, fmt.Errorf("product %d: %w", item.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) removeItem(ctx context.Context, item OrderItem) error {
	if item.Quantity <= 0 {
		return entity.ErrInvalidQuantity
	}

	product, err := s.products.FindByUID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if !product.HandleStock {
		return nil
	}

	log := s.logger.WithContext(ctx).With("product_id", item.ProductID, "be_variant_id", item.BeVariantID)

	if product.HandleStockInVariants {
		variant, ok := product.BeVariantByID(item.BeVariantID)
		if !ok {
			return entity.ErrVariantNotFound
		}
		if variant.Stock < item.Quantity {
			log.Warn("Variant oversold", "stock", variant.Stock, "quantity", item.Quantity)
		}
		variant.Stock = max(variant.Stock-item.Quantity, 0)
	} else if err := product.RemoveFromStock(item.Quantity); err != nil {
		if !errors.Is(err, entity.ErrInsufficientStock) {
			return err
		}
		log.Warn("Product oversold", "stock", product.Stock(), "quantity", item.Quantity)
		if err := product.SetStock(0); err != nil {
			return err
		}
	}

	if err := s.products.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	s.metrics.Counter("stock_removed_total", float64(item.Quantity), nil)
	log.Info("Stock updated", "quantity", item.Quantity)
	return nil
}
