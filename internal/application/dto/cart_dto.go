package dto

import (
	"github.com/hapkiduki/cart-products/internal/domain/entity"
)

// AddToCartRequest is the payload of the add-to-cart form.
type AddToCartRequest struct {
	// ProductID is the product to add
	ProductID uint `json:"product_id"`

	// BeVariantID selects a backend variant; required for products with variants
	BeVariantID uint `json:"be_variant_id,omitempty"`

	// Quantity is the number of units to add
	Quantity int `json:"quantity"`
}

// Validate checks the request fields.
//
// Returns:
//   - []ValidationError: field errors, empty if the request is valid
func (r AddToCartRequest) Validate() []ValidationError {
	var errs []ValidationError
	if r.ProductID == 0 {
		errs = append(errs, ValidationError{Field: "product_id", Message: "product_id is required"})
	}
	if r.Quantity <= 0 {
		errs = append(errs, ValidationError{Field: "quantity", Message: "quantity must be positive", Value: r.Quantity})
	}
	return errs
}

// CartItemView is one cart line.
type CartItemView struct {
	ProductID   uint    `json:"product_id"`
	BeVariantID uint    `json:"be_variant_id,omitempty"`
	SKU         string  `json:"sku"`
	Title       string  `json:"title"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	TaxClassID  int     `json:"tax_class_id"`
}

// CartView is the visitor's cart in the displayed currency.
type CartView struct {
	Pid                 uint           `json:"pid"`
	CurrencyCode        string         `json:"currency_code"`
	CurrencySign        string         `json:"currency_sign"`
	CurrencyTranslation float64        `json:"currency_translation"`
	Items               []CartItemView `json:"items"`
	Count               int            `json:"count"`
	Total               float64        `json:"total"`
	TotalFormatted      string         `json:"total_formatted"`
}

// NewCartView renders a cart, translating prices into the cart currency.
//
// Parameters:
//   - c: the cart
//
// Returns:
//   - CartView: the view
//   - error: if the cart mixes currencies
func NewCartView(c *entity.Cart) (CartView, error) {
	total, err := c.Total()
	if err != nil {
		return CartView{}, err
	}

	translation := c.Currency.Translation
	v := CartView{
		Pid:                 c.Pid,
		CurrencyCode:        string(c.Currency.Code),
		CurrencySign:        c.Currency.Sign,
		CurrencyTranslation: translation,
		Items:               make([]CartItemView, 0, len(c.Items)),
		Count:               c.Count(),
	}

	for _, item := range c.Items {
		v.Items = append(v.Items, CartItemView{
			ProductID:   item.ProductID,
			BeVariantID: item.BeVariantID,
			SKU:         item.SKU,
			Title:       item.Title,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Translate(translation, c.Currency.Code).ToFloat(),
			Total:       item.Total().Translate(translation, c.Currency.Code).ToFloat(),
			TaxClassID:  item.TaxClassID,
		})
	}

	translated := total.Translate(translation, c.Currency.Code)
	v.Total = translated.ToFloat()
	v.TotalFormatted = translated.Format(c.Currency.Sign)
	return v, nil
}
