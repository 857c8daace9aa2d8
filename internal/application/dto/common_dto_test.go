package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name    string
		items   []int
		total   int64
		limit   int
		offset  int
		hasMore bool
	}{
		{name: "unpaginated", items: []int{1, 2, 3}, total: 3},
		{name: "first page", items: []int{1, 2}, total: 3, limit: 2, hasMore: true},
		{name: "last page", items: []int{3}, total: 3, limit: 2, offset: 2},
		{name: "past the end", total: 3, limit: 2, offset: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.items, tt.total, tt.limit, tt.offset)
			assert.Equal(t, tt.hasMore, page.HasMore)
			assert.NotNil(t, page.Items)
			assert.Equal(t, tt.total, page.Total)
		})
	}
}

func TestInvalid_JSON(t *testing.T) {
	resp := Invalid([]ValidationError{{Field: "quantity", Message: "quantity must be positive", Value: 0}}, &Meta{RequestID: "req-1"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "Request validation failed",
			"validation_errors": [{"field": "quantity", "message": "quantity must be positive"}]
		},
		"meta": {"request_id": "req-1"}
	}`, string(raw))
}
