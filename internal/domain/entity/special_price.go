package entity

// SpecialPrice is a promotional price offer attached to a product or variant.
type SpecialPrice struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`

	// FrontendUserGroupID restricts the offer to one customer group; 0 applies to all.
	FrontendUserGroupID uint `json:"frontend_user_group_id,omitempty"`
}

// NewSpecialPrice creates an unscoped special price.
func NewSpecialPrice(title string, price float64) SpecialPrice {
	return SpecialPrice{Title: title, Price: price}
}
