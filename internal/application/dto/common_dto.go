// Package dto holds the views rendered by the catalog and cart handlers and
// the JSON envelope they are wrapped in.
package dto

// CodeValidation is the error code of a request rejected field by field.
const CodeValidation = "VALIDATION_ERROR"

// Page is one window of a product list.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewPage wraps items found at offset out of total matches. A zero limit
// means the list is unpaginated, so nothing is left to fetch.
func NewPage[T any](items []T, total int64, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: limit > 0 && int64(offset+len(items)) < total,
	}
}

// Response is the envelope of every API answer. Exactly one of Data and
// Error is meaningful, as told by Success.
type Response[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	// Code is a stable machine readable identifier, e.g. INSUFFICIENT_STOCK.
	Code    string `json:"code"`
	Message string `json:"message"`

	// Fields is set for CodeValidation only.
	Fields []ValidationError `json:"validation_errors,omitempty"`
}

// ValidationError names one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	// Value echoes the rejected input; omit anything sensitive.
	Value any `json:"value,omitempty"`
}

// Meta ties a response to its request.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// OK wraps a successful result.
func OK[T any](data T, meta *Meta) Response[T] {
	return Response[T]{Success: true, Data: data, Meta: meta}
}

// Fail wraps an error code and message.
func Fail(code, message string, meta *Meta) Response[any] {
	return Response[any]{
		Error: &ErrorBody{Code: code, Message: message},
		Meta:  meta,
	}
}

// Invalid wraps the field errors of a rejected request.
func Invalid(fields []ValidationError, meta *Meta) Response[any] {
	return Response[any]{
		Error: &ErrorBody{
			Code:    CodeValidation,
			Message: "Request validation failed",
			Fields:  fields,
		},
		Meta: meta,
	}
}

// Health is the body of the liveness and readiness endpoints.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Checks is keyed by backing service: database, search, carts.
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the outcome of pinging one backing service.
type ComponentHealth struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"response_time_ms"`
}
