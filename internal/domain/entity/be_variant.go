package entity

import "strings"

// PriceCalcMethod defines how a backend variant derives its price from the
// product price.
type PriceCalcMethod int

const (
	// PriceCalcOwn uses the variant price as is.
	PriceCalcOwn PriceCalcMethod = iota
	// PriceCalcSubtract subtracts the variant price from the product price.
	PriceCalcSubtract
	// PriceCalcSubtractPercent subtracts the variant price in percent of the product price.
	PriceCalcSubtractPercent
	// PriceCalcAdd adds the variant price to the product price.
	PriceCalcAdd
	// PriceCalcAddPercent adds the variant price in percent of the product price.
	PriceCalcAddPercent
)

// BeVariantAttributeOption is one value of a variant attribute (e.g. "XL").
type BeVariantAttributeOption struct {
	ID    uint   `json:"id"`
	SKU   string `json:"sku"`
	Title string `json:"title"`
}

// BeVariantAttribute is a merchant-defined dimension of variation (e.g. size).
type BeVariantAttribute struct {
	ID      uint                       `json:"id"`
	SKU     string                     `json:"sku"`
	Title   string                     `json:"title"`
	Options []BeVariantAttributeOption `json:"options"`
}

// Option looks up an option of the attribute.
func (a *BeVariantAttribute) Option(id uint) (BeVariantAttributeOption, bool) {
	for _, o := range a.Options {
		if o.ID == id {
			return o, true
		}
	}
	return BeVariantAttributeOption{}, false
}

// BeVariant is a merchant-configured product variation with its own price and stock.
type BeVariant struct {
	ID              uint            `json:"id"`
	SKU             string          `json:"sku"`
	Price           float64         `json:"price"`
	PriceCalcMethod PriceCalcMethod `json:"price_calc_method"`
	Stock           int             `json:"stock"`
	SpecialPrices   []SpecialPrice  `json:"special_prices"`

	AttributeOption1 *BeVariantAttributeOption `json:"attribute_option1,omitempty"`
	AttributeOption2 *BeVariantAttributeOption `json:"attribute_option2,omitempty"`
	AttributeOption3 *BeVariantAttributeOption `json:"attribute_option3,omitempty"`
}

// IsAvailable reports whether the variant has stock left.
func (v *BeVariant) IsAvailable() bool {
	return v.Stock > 0
}

// CalculatedPrice applies the price calculation method to the parent price.
func (v *BeVariant) CalculatedPrice(parentPrice float64) float64 {
	var price float64
	switch v.PriceCalcMethod {
	case PriceCalcSubtract:
		price = parentPrice - v.Price
	case PriceCalcSubtractPercent:
		price = parentPrice - parentPrice*v.Price/100
	case PriceCalcAdd:
		price = parentPrice + v.Price
	case PriceCalcAddPercent:
		price = parentPrice + parentPrice*v.Price/100
	default:
		price = v.Price
	}
	if price < 0 {
		return 0
	}
	return price
}

// BestPrice returns the calculated price, lowered by an applicable special
// price of the variant.
func (v *BeVariant) BestPrice(parentPrice float64, groupIDs ...uint) float64 {
	return bestPrice(v.CalculatedPrice(parentPrice), v.SpecialPrices, groupIDs)
}

func (v *BeVariant) options() []*BeVariantAttributeOption {
	opts := make([]*BeVariantAttributeOption, 0, 3)
	for _, o := range []*BeVariantAttributeOption{v.AttributeOption1, v.AttributeOption2, v.AttributeOption3} {
		if o != nil {
			opts = append(opts, o)
		}
	}
	return opts
}

// Title joins the titles of the selected attribute options.
func (v *BeVariant) Title() string {
	titles := make([]string, 0, 3)
	for _, o := range v.options() {
		titles = append(titles, o.Title)
	}
	return strings.Join(titles, " - ")
}

// FullSKU returns the SKU used in the cart: the product SKU followed by the
// option SKUs, or by the variant's own SKU when no options are set.
func (v *BeVariant) FullSKU(productSKU string) string {
	parts := []string{productSKU}
	opts := v.options()
	if len(opts) == 0 {
		if v.SKU != "" {
			parts = append(parts, v.SKU)
		}
		return strings.Join(parts, "-")
	}
	for _, o := range opts {
		parts = append(parts, o.SKU)
	}
	return strings.Join(parts, "-")
}
