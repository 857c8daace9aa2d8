package mysql

import (
	"time"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/domain/valueobject"
)

// measureUnit drops units outside the known families, so the product shows
// no base price instead of a wrong one.
func measureUnit(s string) valueobject.MeasureUnit {
	u, err := valueobject.ParseMeasureUnit(s)
	if err != nil {
		return ""
	}
	return u
}

func toProduct(m *productModel) *entity.Product {
	p := &entity.Product{
		ID:                    m.ID,
		Pid:                   m.Pid,
		ProductType:           entity.ProductType(m.ProductType),
		SKU:                   m.SKU,
		Title:                 m.Title,
		Teaser:                m.Teaser,
		Description:           m.Description,
		Price:                 m.Price,
		HandleStock:           m.HandleStock,
		HandleStockInVariants: m.HandleStockInVariants,
		PriceMeasure:          m.PriceMeasure,
		PriceMeasureUnit:      measureUnit(m.PriceMeasureUnit),
		BasePriceMeasureUnit:  measureUnit(m.BasePriceMeasureUnit),
		TaxClassID:            m.TaxClassID,
		ServiceAttribute1:     m.ServiceAttribute1,
		ServiceAttribute2:     m.ServiceAttribute2,
		ServiceAttribute3:     m.ServiceAttribute3,
		BeVariantAttribute1:   toBeVariantAttribute(m.BeVariantAttribute1),
		BeVariantAttribute2:   toBeVariantAttribute(m.BeVariantAttribute2),
		BeVariantAttribute3:   toBeVariantAttribute(m.BeVariantAttribute3),
		SpecialPrices:         toSpecialPrices(m.SpecialPrices),
		QuantityDiscounts:     make([]entity.QuantityDiscount, 0, len(m.QuantityDiscounts)),
		BeVariants:            make([]*entity.BeVariant, 0, len(m.BeVariants)),
		CategoryID:            m.CategoryID,
		CategoryIDs:           make([]uint, 0, len(m.Categories)),
		LanguageID:            m.LanguageID,
		StartTime:             derefTime(m.StartTime),
		EndTime:               derefTime(m.EndTime),
		FrontendGroup:         m.FrontendGroup,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	if p.ProductType == "" {
		p.ProductType = entity.ProductTypeSimple
	}
	if p.TaxClassID == 0 {
		p.TaxClassID = entity.DefaultTaxClassID
	}
	p.RestoreState(m.Stock, m.MinNumberInOrder, m.MaxNumberInOrder)

	for _, qd := range m.QuantityDiscounts {
		p.QuantityDiscounts = append(p.QuantityDiscounts, entity.QuantityDiscount{
			ID:                  qd.ID,
			Price:               qd.Price,
			Quantity:            qd.Quantity,
			FrontendUserGroupID: qd.FrontendUserGroupID,
		})
	}
	for i := range m.BeVariants {
		p.BeVariants = append(p.BeVariants, toBeVariant(&m.BeVariants[i]))
	}
	for _, c := range m.Categories {
		p.CategoryIDs = append(p.CategoryIDs, c.ID)
	}
	if p.CategoryID == 0 && len(p.CategoryIDs) > 0 {
		p.CategoryID = p.CategoryIDs[0]
	}
	return p
}

func toBeVariant(m *beVariantModel) *entity.BeVariant {
	return &entity.BeVariant{
		ID:               m.ID,
		SKU:              m.SKU,
		Price:            m.Price,
		PriceCalcMethod:  entity.PriceCalcMethod(m.PriceCalcMethod),
		Stock:            m.Stock,
		SpecialPrices:    toSpecialPrices(m.SpecialPrices),
		AttributeOption1: toOption(m.AttributeOption1),
		AttributeOption2: toOption(m.AttributeOption2),
		AttributeOption3: toOption(m.AttributeOption3),
	}
}

func toBeVariantAttribute(m *beVariantAttributeModel) *entity.BeVariantAttribute {
	if m == nil {
		return nil
	}
	a := &entity.BeVariantAttribute{
		ID:      m.ID,
		SKU:     m.SKU,
		Title:   m.Title,
		Options: make([]entity.BeVariantAttributeOption, 0, len(m.Options)),
	}
	for i := range m.Options {
		a.Options = append(a.Options, *toOption(&m.Options[i]))
	}
	return a
}

func toOption(m *beVariantAttributeOptionModel) *entity.BeVariantAttributeOption {
	if m == nil {
		return nil
	}
	return &entity.BeVariantAttributeOption{ID: m.ID, SKU: m.SKU, Title: m.Title}
}

func toSpecialPrices(models []specialPriceModel) []entity.SpecialPrice {
	out := make([]entity.SpecialPrice, 0, len(models))
	for _, sp := range models {
		out = append(out, entity.SpecialPrice{
			ID:                  sp.ID,
			Title:               sp.Title,
			Price:               sp.Price,
			FrontendUserGroupID: sp.FrontendUserGroupID,
		})
	}
	return out
}

func toCategory(m *categoryModel) *entity.Category {
	return &entity.Category{ID: m.ID, ParentID: m.ParentID, Title: m.Title, ShowPid: m.ShowPid}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
