package entity

import (
	"errors"
	"time"

	"github.com/hapkiduki/cart-products/internal/domain/valueobject"
)

// ErrEmptyCartItem is returned when an item without product or quantity is added.
var ErrEmptyCartItem = errors.New("cart item needs a product and a positive quantity")

// CurrencySettings describes how prices are displayed in a cart.
type CurrencySettings struct {
	// Code is the ISO 4217 code prices are stored in
	Code valueobject.Currency `json:"code"`

	// Sign is the display symbol
	Sign string `json:"sign"`

	// Translation is the exchange factor from the stored currency to the displayed one
	Translation float64 `json:"translation"`
}

// CartItem is one product (or product variant) line in the cart.
type CartItem struct {
	ProductID   uint              `json:"product_id"`
	BeVariantID uint              `json:"be_variant_id,omitempty"`
	SKU         string            `json:"sku"`
	Title       string            `json:"title"`
	Quantity    int               `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	TaxClassID  int               `json:"tax_class_id"`
}

// Total returns the line total.
func (i CartItem) Total() valueobject.Money {
	return i.UnitPrice.Multiply(i.Quantity)
}

// Cart is the session-backed shopping cart of one visitor on one cart page.
type Cart struct {
	Pid       uint             `json:"pid"`
	Currency  CurrencySettings `json:"currency"`
	Items     []CartItem       `json:"items"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewCart creates an empty cart for the given cart page.
func NewCart(pid uint, currency CurrencySettings) *Cart {
	if currency.Translation == 0 {
		currency.Translation = 1
	}
	return &Cart{
		Pid:       pid,
		Currency:  currency,
		Items:     make([]CartItem, 0),
		UpdatedAt: time.Now().UTC(),
	}
}

// Quantity returns the quantity of a product (variant) already in the cart.
func (c *Cart) Quantity(productID, beVariantID uint) int {
	for _, item := range c.Items {
		if item.ProductID == productID && item.BeVariantID == beVariantID {
			return item.Quantity
		}
	}
	return 0
}

// ProductQuantity returns the quantity of a product across all its lines.
func (c *Cart) ProductQuantity(productID uint) int {
	total := 0
	for _, item := range c.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// AddItem adds a line or increases the quantity of a matching line. The unit
// price of a matching line is replaced, since quantity tiers may change it.
func (c *Cart) AddItem(item CartItem) error {
	if item.ProductID == 0 || item.Quantity <= 0 {
		return ErrEmptyCartItem
	}

	for i := range c.Items {
		existing := &c.Items[i]
		if existing.ProductID == item.ProductID && existing.BeVariantID == item.BeVariantID {
			existing.Quantity += item.Quantity
			existing.UnitPrice = item.UnitPrice
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}

	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Count returns the number of units in the cart.
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total returns the gross total in the cart currency.
func (c *Cart) Total() (valueobject.Money, error) {
	total := valueobject.Zero(c.Currency.Code)
	for _, item := range c.Items {
		var err error
		total, err = total.Add(item.Total())
		if err != nil {
			return valueobject.Money{}, err
		}
	}
	return total, nil
}
