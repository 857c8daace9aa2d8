package entity

// QuantityDiscount is a price tier that applies from Quantity items on.
type QuantityDiscount struct {
	ID uint `json:"id"`

	// Price is the unit price within this tier
	Price float64 `json:"price"`

	// Quantity is the lower bound of the tier
	Quantity int `json:"quantity"`

	// FrontendUserGroupID restricts the tier to one customer group; 0 applies to all.
	FrontendUserGroupID uint `json:"frontend_user_group_id,omitempty"`
}

// ToMap returns the tier in the shape the cart consumes.
func (qd QuantityDiscount) ToMap() map[string]any {
	return map[string]any{
		"quantity": qd.Quantity,
		"price":    qd.Price,
	}
}
