package repository

import (
	"fmt"
	"strings"
)

// Sort directions accepted by a demand.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// orderFields maps public ordering names to storage columns.
var orderFields = map[string]string{
	"title":      "title",
	"sku":        "sku",
	"price":      "price",
	"crdate":     "created_at",
	"created_at": "created_at",
}

// ProductDemand holds the criteria of a product list request.
type ProductDemand struct {
	// SKU matches products whose SKU contains the value.
	SKU string

	// Title matches products whose title contains the value.
	Title string

	// Categories restricts the result to products in any of these categories.
	Categories []uint

	// Order is "<field> <direction>", e.g. "title asc". Empty keeps the storage order.
	Order string

	// Limit specifies the maximum number of results
	Limit int

	// Offset specifies the starting position for pagination
	Offset int

	// Action names the controller action the demand was built for.
	Action string
}

// OrderClause is a validated ordering.
type OrderClause struct {
	Column    string
	Direction string
}

// String renders the clause as SQL, e.g. "title ASC".
func (o OrderClause) String() string {
	return o.Column + " " + strings.ToUpper(o.Direction)
}

// OrderBy parses the demand ordering against the allowed fields.
//
// Returns:
//   - OrderClause: the validated ordering
//   - bool: false if the demand has no ordering
//   - error: ErrInvalidOrdering for unknown fields or directions
func (d ProductDemand) OrderBy() (OrderClause, bool, error) {
	parts := strings.Fields(strings.ToLower(d.Order))
	if len(parts) == 0 {
		return OrderClause{}, false, nil
	}

	column, ok := orderFields[parts[0]]
	if !ok {
		return OrderClause{}, false, fmt.Errorf("%w: field %q", ErrInvalidOrdering, parts[0])
	}

	direction := SortAscending
	if len(parts) > 1 {
		direction = parts[1]
	}
	if len(parts) > 2 || (direction != SortAscending && direction != SortDescending) {
		return OrderClause{}, false, fmt.Errorf("%w: %q", ErrInvalidOrdering, d.Order)
	}

	return OrderClause{Column: column, Direction: direction}, true, nil
}

// NewOrder joins a field and a direction into a demand ordering. An empty
// field yields an empty ordering.
func NewOrder(field, direction string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		return ""
	}
	direction = strings.TrimSpace(direction)
	if direction == "" {
		return field
	}
	return field + " " + direction
}
