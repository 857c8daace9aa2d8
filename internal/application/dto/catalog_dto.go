package dto

import (
	"math"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
)

// SearchArguments are the visitor supplied list filters.
type SearchArguments struct {
	SKU   string `json:"sku,omitempty"`
	Title string `json:"title,omitempty"`
}

// CartSettings are the cart settings handed to every view.
type CartSettings struct {
	// Pid is the cart page
	Pid uint `json:"pid"`

	CurrencyCode string `json:"currency_code"`
	CurrencySign string `json:"currency_sign"`
}

// CurrencyTranslation is the currency display data restored from the
// visitor's cart.
type CurrencyTranslation struct {
	CurrencyCode        string  `json:"currency_code"`
	CurrencySign        string  `json:"currency_sign"`
	CurrencyTranslation float64 `json:"currency_translation"`
}

// QuantityDiscountView is one quantity price tier.
type QuantityDiscountView struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// BeVariantAttributeView is a variant attribute with its options.
type BeVariantAttributeView struct {
	ID      uint                              `json:"id"`
	SKU     string                            `json:"sku"`
	Title   string                            `json:"title"`
	Options []entity.BeVariantAttributeOption `json:"options"`
}

// BeVariantView is a backend variant as shown in the add-to-cart form.
type BeVariantView struct {
	ID          uint    `json:"id"`
	SKU         string  `json:"sku"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	BestPrice   float64 `json:"best_price"`
	IsAvailable bool    `json:"is_available"`
}

// ProductView is a product with its calculated prices.
type ProductView struct {
	ID          uint   `json:"id"`
	Pid         uint   `json:"pid"`
	ProductType string `json:"product_type"`
	SKU         string `json:"sku"`
	Title       string `json:"title"`
	Teaser      string `json:"teaser,omitempty"`
	Description string `json:"description,omitempty"`

	Price                              float64 `json:"price"`
	BestSpecialPrice                   float64 `json:"best_special_price"`
	BestSpecialPriceDiscount           float64 `json:"best_special_price_discount"`
	BestSpecialPricePercentageDiscount float64 `json:"best_special_price_percentage_discount"`
	MinPrice                           float64 `json:"min_price"`

	// BasePrice is the best price per base price unit, if the units are compatible
	BasePrice            *float64 `json:"base_price,omitempty"`
	PriceMeasure         float64  `json:"price_measure,omitempty"`
	PriceMeasureUnit     string   `json:"price_measure_unit,omitempty"`
	BasePriceMeasureUnit string   `json:"base_price_measure_unit,omitempty"`

	IsAvailable bool `json:"is_available"`

	// Stock is omitted when stock is not handled
	Stock *int `json:"stock,omitempty"`

	MinNumberInOrder int `json:"min_number_in_order"`
	MaxNumberInOrder int `json:"max_number_in_order"`
	TaxClassID       int `json:"tax_class_id"`

	QuantityDiscounts   []QuantityDiscountView   `json:"quantity_discounts"`
	BeVariantAttributes []BeVariantAttributeView `json:"be_variant_attributes,omitempty"`
	BeVariants          []BeVariantView          `json:"be_variants,omitempty"`

	CategoryIDs []uint `json:"category_ids"`
}

// NewProductView renders a product for visitors in the given frontend groups.
//
// Parameters:
//   - p: the product
//   - groupIDs: frontend user groups of the visitor
//
// Returns:
//   - ProductView: the view
func NewProductView(p *entity.Product, groupIDs ...uint) ProductView {
	v := ProductView{
		ID:                                 p.ID,
		Pid:                                p.Pid,
		ProductType:                        string(p.ProductType),
		SKU:                                p.SKU,
		Title:                              p.Title,
		Teaser:                             p.Teaser,
		Description:                        p.Description,
		Price:                              p.Price,
		BestSpecialPrice:                   p.BestSpecialPrice(groupIDs...),
		BestSpecialPriceDiscount:           p.BestSpecialPriceDiscount(groupIDs...),
		BestSpecialPricePercentageDiscount: p.BestSpecialPricePercentageDiscount(groupIDs...),
		MinPrice:                           p.MinPrice(groupIDs...),
		PriceMeasure:                       p.PriceMeasure,
		PriceMeasureUnit:                   string(p.PriceMeasureUnit),
		BasePriceMeasureUnit:               string(p.BasePriceMeasureUnit),
		IsAvailable:                        p.IsAvailable(),
		MinNumberInOrder:                   p.MinNumberInOrder(),
		MaxNumberInOrder:                   p.MaxNumberInOrder(),
		TaxClassID:                         p.TaxClassID,
		QuantityDiscounts:                  make([]QuantityDiscountView, 0, len(p.QuantityDiscounts)),
		CategoryIDs:                        p.CategoryIDs,
	}

	if basePrice, ok := p.CalculatedBasePrice(groupIDs...); ok {
		v.BasePrice = &basePrice
	}
	if stock := p.Stock(); stock != math.MaxInt {
		v.Stock = &stock
	}

	for _, qd := range p.ApplicableQuantityDiscounts(groupIDs...) {
		v.QuantityDiscounts = append(v.QuantityDiscounts, QuantityDiscountView{
			Quantity: qd.Quantity,
			Price:    qd.Price,
		})
	}

	for _, a := range []*entity.BeVariantAttribute{p.BeVariantAttribute1, p.BeVariantAttribute2, p.BeVariantAttribute3} {
		if a == nil {
			continue
		}
		v.BeVariantAttributes = append(v.BeVariantAttributes, BeVariantAttributeView{
			ID:      a.ID,
			SKU:     a.SKU,
			Title:   a.Title,
			Options: a.Options,
		})
	}

	for _, bv := range p.BeVariants {
		v.BeVariants = append(v.BeVariants, BeVariantView{
			ID:          bv.ID,
			SKU:         bv.FullSKU(p.SKU),
			Title:       bv.Title(),
			Price:       bv.CalculatedPrice(p.Price),
			BestPrice:   bv.BestPrice(p.Price, groupIDs...),
			IsAvailable: p.IsVariantAvailable(bv),
		})
	}

	return v
}

// NewProductViews renders a list of products.
func NewProductViews(products []*entity.Product, groupIDs ...uint) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p, groupIDs...))
	}
	return views
}

// ListView is the response of the list action.
type ListView struct {
	Products            Page[ProductView] `json:"products"`
	SearchArguments     SearchArguments               `json:"search_arguments"`
	CartSettings        CartSettings                  `json:"cart_settings"`
	CurrencyTranslation *CurrencyTranslation          `json:"currency_translation,omitempty"`

	// CacheTags are sent as a response header
	CacheTags []string `json:"-"`
}

// ShowView is the response of the show and showForm actions.
type ShowView struct {
	Product             ProductView          `json:"product"`
	CartSettings        CartSettings         `json:"cart_settings"`
	CurrencyTranslation *CurrencyTranslation `json:"currency_translation,omitempty"`

	// CacheTags are sent as a response header
	CacheTags []string `json:"-"`
}

// TeaserView is the response of the teaser action.
type TeaserView struct {
	Products            []ProductView        `json:"products"`
	CartSettings        CartSettings         `json:"cart_settings"`
	CurrencyTranslation *CurrencyTranslation `json:"currency_translation,omitempty"`

	// CacheTags are sent as a response header
	CacheTags []string `json:"-"`
}

// FlexformView is the response of the flexform action.
type FlexformView struct {
	ContentID uint `json:"content_id"`
}
