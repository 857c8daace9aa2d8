// Package entity contains the core business entities of the domain layer.
package entity

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/hapkiduki/cart-products/internal/domain/valueobject"
)

// Product errors define domain-specific error conditions for products.
var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidProductTitle   = errors.New("product title cannot be empty")
	ErrInvalidProductSKU     = errors.New("product SKU cannot be empty")
	ErrInvalidProductPrice   = errors.New("product price cannot be negative")
	ErrInsufficientStock     = errors.New("insufficient stock available")
	ErrNegativeStockQuantity = errors.New("stock quantity cannot be negative")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrBelowMinimumOrder     = errors.New("quantity is below the minimum number in order")
	ErrAboveMaximumOrder     = errors.New("quantity exceeds the maximum number in order")
	ErrProductNotAvailable   = errors.New("product is not available")
	ErrVariantRequired       = errors.New("product requires a variant to be selected")
	ErrVariantNotFound       = errors.New("variant not found")
	ErrVariantNotAvailable   = errors.New("variant is not available")
)

// ProductType distinguishes plain products from products sold in variants.
type ProductType string

const (
	ProductTypeSimple       ProductType = "simple"
	ProductTypeConfigurable ProductType = "configurable"
)

// DefaultTaxClassID is the tax class assigned to new products.
const DefaultTaxClassID = 1

// Product is a sellable catalog item.
//
// Stock and the order quantity limits are guarded by methods; everything else
// is plain data.
type Product struct {
	// ID is the unique identifier for the product
	ID uint `json:"id"`

	// Pid is the storage page (folder) the record lives in
	Pid uint `json:"pid"`

	// ProductType is either simple or configurable
	ProductType ProductType `json:"product_type"`

	// SKU is the stock keeping unit identifier
	SKU string `json:"sku"`

	// Title is the name of the product
	Title string `json:"title"`

	// Teaser is the short text shown in lists
	Teaser string `json:"teaser"`

	// Description provides details about the product
	Description string `json:"description"`

	// Price is the gross list price
	Price float64 `json:"price"`

	// HandleStock enables stock keeping for the product
	HandleStock bool `json:"handle_stock"`

	// HandleStockInVariants moves stock keeping to the backend variants
	HandleStockInVariants bool `json:"handle_stock_in_variants"`

	// PriceMeasure is the amount of PriceMeasureUnit the price is quoted for
	PriceMeasure float64 `json:"price_measure"`

	PriceMeasureUnit     valueobject.MeasureUnit `json:"price_measure_unit"`
	BasePriceMeasureUnit valueobject.MeasureUnit `json:"base_price_measure_unit"`

	TaxClassID int `json:"tax_class_id"`

	// Service attributes (weight, volume, ...) used by shipping/payment calculations
	ServiceAttribute1 float64 `json:"service_attribute1"`
	ServiceAttribute2 float64 `json:"service_attribute2"`
	ServiceAttribute3 float64 `json:"service_attribute3"`

	// Attributes spanning the backend variants (e.g. size, color)
	BeVariantAttribute1 *BeVariantAttribute `json:"be_variant_attribute1,omitempty"`
	BeVariantAttribute2 *BeVariantAttribute `json:"be_variant_attribute2,omitempty"`
	BeVariantAttribute3 *BeVariantAttribute `json:"be_variant_attribute3,omitempty"`

	SpecialPrices     []SpecialPrice     `json:"special_prices"`
	QuantityDiscounts []QuantityDiscount `json:"quantity_discounts"`
	BeVariants        []*BeVariant       `json:"be_variants"`

	// CategoryID is the main category; it decides the single view page
	CategoryID  uint   `json:"category_id"`
	CategoryIDs []uint `json:"category_ids"`

	LanguageID    int       `json:"language_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	FrontendGroup string    `json:"frontend_group"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	stock            int
	minNumberInOrder int
	maxNumberInOrder int
}

// NewProduct creates a simple product with the provided details.
//
// Parameters:
//   - sku: Stock Keeping Unit identifier (required)
//   - title: Name of the product (required)
//   - price: Gross list price (must be non-negative)
//
// Returns:
//   - *Product: newly created Product
//   - error: validation error if input is invalid
func NewProduct(sku, title string, price float64) (*Product, error) {
	if sku == "" {
		return nil, ErrInvalidProductSKU
	}
	if title == "" {
		return nil, ErrInvalidProductTitle
	}
	if price < 0 {
		return nil, ErrInvalidProductPrice
	}

	now := time.Now().UTC()

	return &Product{
		ProductType:       ProductTypeSimple,
		SKU:               sku,
		Title:             title,
		Price:             price,
		TaxClassID:        DefaultTaxClassID,
		SpecialPrices:     make([]SpecialPrice, 0),
		QuantityDiscounts: make([]QuantityDiscount, 0),
		BeVariants:        make([]*BeVariant, 0),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// MinNumberInOrder returns the smallest quantity that may be ordered.
func (p *Product) MinNumberInOrder() int {
	return p.minNumberInOrder
}

// MaxNumberInOrder returns the largest quantity that may be ordered (0 = unlimited).
func (p *Product) MaxNumberInOrder() int {
	return p.maxNumberInOrder
}

// SetMinNumberInOrder updates the minimum order quantity.
//
// Returns:
//   - error: ErrInvalidArgument if n is negative or greater than the maximum
func (p *Product) SetMinNumberInOrder(n int) error {
	if n < 0 || n > p.maxNumberInOrder {
		return fmt.Errorf("%w: min number in order %d (max %d)", ErrInvalidArgument, n, p.maxNumberInOrder)
	}
	p.minNumberInOrder = n
	return nil
}

// SetMaxNumberInOrder updates the maximum order quantity.
//
// Returns:
//   - error: ErrInvalidArgument if n is negative or lower than the minimum
func (p *Product) SetMaxNumberInOrder(n int) error {
	if n < 0 || n < p.minNumberInOrder {
		return fmt.Errorf("%w: max number in order %d (min %d)", ErrInvalidArgument, n, p.minNumberInOrder)
	}
	p.maxNumberInOrder = n
	return nil
}

// SetOrderLimits sets both limits at once, e.g. when loading a record.
func (p *Product) SetOrderLimits(minNumber, maxNumber int) error {
	if minNumber < 0 || maxNumber < 0 || minNumber > maxNumber {
		return fmt.Errorf("%w: order limits %d..%d", ErrInvalidArgument, minNumber, maxNumber)
	}
	p.minNumberInOrder = minNumber
	p.maxNumberInOrder = maxNumber
	return nil
}

// RestoreState loads persisted stock and order limits without validation.
// Negative values are stored as 0 and a maximum below the minimum is dropped.
func (p *Product) RestoreState(stock, minNumber, maxNumber int) {
	p.stock = max(stock, 0)
	p.minNumberInOrder = max(minNumber, 0)
	p.maxNumberInOrder = max(maxNumber, 0)
	if p.maxNumberInOrder < p.minNumberInOrder {
		p.maxNumberInOrder = 0
	}
}

// ValidateOrderQuantity checks a requested quantity against the order limits.
func (p *Product) ValidateOrderQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity < p.minNumberInOrder {
		return ErrBelowMinimumOrder
	}
	if p.maxNumberInOrder > 0 && quantity > p.maxNumberInOrder {
		return ErrAboveMaximumOrder
	}
	return nil
}

// Stock returns the stock level. Without stock handling the product is
// unlimited and math.MaxInt is returned.
func (p *Product) Stock() int {
	if !p.HandleStock {
		return math.MaxInt
	}
	return p.stock
}

// StoredStock returns the recorded stock level regardless of stock handling.
func (p *Product) StoredStock() int {
	return p.stock
}

// SetStock sets the recorded stock level.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return ErrNegativeStockQuantity
	}
	p.stock = stock
	return nil
}

// AddToStock increases the recorded stock level.
func (p *Product) AddToStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeStockQuantity
	}
	p.stock += quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveFromStock decreases the recorded stock level.
//
// Returns:
//   - error: ErrNegativeStockQuantity if quantity is negative
//     ErrInsufficientStock if not enough stock is recorded
func (p *Product) RemoveFromStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeStockQuantity
	}
	if p.stock < quantity {
		return ErrInsufficientStock
	}
	p.stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IsAvailable checks if the product can be purchased.
//
// Returns:
//   - bool: true without stock handling; with stock handled in variants, true
//     if any variant is available; otherwise true if stock is left
func (p *Product) IsAvailable() bool {
	if !p.HandleStock {
		return true
	}
	if p.HandleStockInVariants {
		for _, v := range p.BeVariants {
			if v.IsAvailable() {
				return true
			}
		}
		return false
	}
	return p.stock > 0
}

// AddSpecialPrice attaches a special price offer.
func (p *Product) AddSpecialPrice(sp SpecialPrice) {
	p.SpecialPrices = append(p.SpecialPrices, sp)
}

// RemoveSpecialPrice detaches the first offer equal to sp.
func (p *Product) RemoveSpecialPrice(sp SpecialPrice) {
	for i, s := range p.SpecialPrices {
		if s == sp {
			p.SpecialPrices = append(p.SpecialPrices[:i], p.SpecialPrices[i+1:]...)
			return
		}
	}
}

// SetSpecialPrices replaces all special price offers.
func (p *Product) SetSpecialPrices(sps []SpecialPrice) {
	p.SpecialPrices = append(make([]SpecialPrice, 0, len(sps)), sps...)
}

// BestSpecialPrice returns the lowest price a customer in the given frontend
// groups pays: the list price or a cheaper applicable special price.
func (p *Product) BestSpecialPrice(groupIDs ...uint) float64 {
	return bestPrice(p.Price, p.SpecialPrices, groupIDs)
}

// BestSpecialPriceDiscount returns the absolute discount of the best special price.
func (p *Product) BestSpecialPriceDiscount(groupIDs ...uint) float64 {
	return p.Price - p.BestSpecialPrice(groupIDs...)
}

// BestSpecialPricePercentageDiscount returns the discount of the best special
// price as a percentage of the list price.
func (p *Product) BestSpecialPricePercentageDiscount(groupIDs ...uint) float64 {
	if p.Price == 0 {
		return 0
	}
	return p.BestSpecialPriceDiscount(groupIDs...) / p.Price * 100
}

// AddQuantityDiscount attaches a quantity price tier.
func (p *Product) AddQuantityDiscount(qd QuantityDiscount) {
	p.QuantityDiscounts = append(p.QuantityDiscounts, qd)
}

// ApplicableQuantityDiscounts returns the tiers for the given groups sorted by
// their quantity lower bound.
func (p *Product) ApplicableQuantityDiscounts(groupIDs ...uint) []QuantityDiscount {
	tiers := make([]QuantityDiscount, 0, len(p.QuantityDiscounts))
	for _, qd := range p.QuantityDiscounts {
		if appliesToGroups(qd.FrontendUserGroupID, groupIDs) {
			tiers = append(tiers, qd)
		}
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Quantity < tiers[j].Quantity
	})
	return tiers
}

// QuantityDiscountPrice returns the tier price for the given quantity: the
// tier with the greatest lower bound not above quantity.
//
// Returns:
//   - float64: the tier price
//   - bool: false if no tier applies
func (p *Product) QuantityDiscountPrice(quantity int, groupIDs ...uint) (float64, bool) {
	var (
		price float64
		found bool
	)
	for _, qd := range p.ApplicableQuantityDiscounts(groupIDs...) {
		if qd.Quantity > quantity {
			break
		}
		price, found = qd.Price, true
	}
	return price, found
}

// AddBeVariant attaches a backend variant.
func (p *Product) AddBeVariant(v *BeVariant) {
	p.BeVariants = append(p.BeVariants, v)
}

// RemoveBeVariant detaches the given backend variant.
func (p *Product) RemoveBeVariant(v *BeVariant) {
	for i, bv := range p.BeVariants {
		if bv == v {
			p.BeVariants = append(p.BeVariants[:i], p.BeVariants[i+1:]...)
			return
		}
	}
}

// SetBeVariants replaces all backend variants.
func (p *Product) SetBeVariants(vs []*BeVariant) {
	p.BeVariants = append(make([]*BeVariant, 0, len(vs)), vs...)
}

// Clone returns a copy of the product that shares no mutable state with p.
// Variant attribute definitions are read-only and stay shared.
func (p *Product) Clone() *Product {
	c := *p
	c.SpecialPrices = slices.Clone(p.SpecialPrices)
	c.QuantityDiscounts = slices.Clone(p.QuantityDiscounts)
	c.CategoryIDs = slices.Clone(p.CategoryIDs)
	c.BeVariants = slices.Clone(p.BeVariants)
	for i, v := range c.BeVariants {
		vc := *v
		vc.SpecialPrices = slices.Clone(v.SpecialPrices)
		c.BeVariants[i] = &vc
	}
	return &c
}

// BeVariantByID looks up a backend variant.
func (p *Product) BeVariantByID(id uint) (*BeVariant, bool) {
	for _, v := range p.BeVariants {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// IsVariantAvailable reports whether the variant may be sold.
func (p *Product) IsVariantAvailable(v *BeVariant) bool {
	if !p.HandleStock || !p.HandleStockInVariants {
		return p.IsAvailable()
	}
	return v.IsAvailable()
}

// MinPrice returns the lowest price shown in lists ("from ..."). For products
// with variants it is the cheapest sellable variant.
func (p *Product) MinPrice(groupIDs ...uint) float64 {
	if len(p.BeVariants) == 0 {
		return p.BestSpecialPrice(groupIDs...)
	}

	lowest := math.Inf(1)
	for _, v := range p.BeVariants {
		if !p.IsVariantAvailable(v) {
			continue
		}
		if price := v.BestPrice(p.Price, groupIDs...); price < lowest {
			lowest = price
		}
	}
	if math.IsInf(lowest, 1) {
		return p.BestSpecialPrice(groupIDs...)
	}
	return lowest
}

// IsMeasureUnitCompatible reports whether price and base price units measure
// the same physical quantity.
func (p *Product) IsMeasureUnitCompatible() bool {
	return p.PriceMeasureUnit.CompatibleWith(p.BasePriceMeasureUnit)
}

// MeasureUnitFactor returns the factor converting the price into a price per
// base price unit, or 0 if the units are not compatible.
func (p *Product) MeasureUnitFactor() float64 {
	factor, ok := valueobject.MeasureUnitFactor(p.PriceMeasureUnit, p.BasePriceMeasureUnit, p.PriceMeasure)
	if !ok {
		return 0
	}
	return factor
}

// CalculatedBasePrice returns the best price per base price unit.
//
// Returns:
//   - float64: the base price
//   - bool: false if no base price can be shown
func (p *Product) CalculatedBasePrice(groupIDs ...uint) (float64, bool) {
	factor := p.MeasureUnitFactor()
	if factor == 0 {
		return 0, false
	}
	return p.BestSpecialPrice(groupIDs...) * factor, true
}

// IsVisibleAt reports whether the record is published at the given time.
func (p *Product) IsVisibleAt(now time.Time) bool {
	if !p.StartTime.IsZero() && now.Before(p.StartTime) {
		return false
	}
	if !p.EndTime.IsZero() && !now.Before(p.EndTime) {
		return false
	}
	return true
}

// bestPrice returns the minimum of price and the applicable special prices.
func bestPrice(price float64, specials []SpecialPrice, groupIDs []uint) float64 {
	best := price
	for _, sp := range specials {
		if !appliesToGroups(sp.FrontendUserGroupID, groupIDs) {
			continue
		}
		if sp.Price < best {
			best = sp.Price
		}
	}
	return best
}

// appliesToGroups reports whether a group-scoped record applies. Group 0 is unscoped.
func appliesToGroups(groupID uint, groupIDs []uint) bool {
	if groupID == 0 {
		return true
	}
	for _, id := range groupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}
