// Package repository contains the repository interfaces and related errors.
package repository

import "errors"

// Repository errors define common error conditions across all repositories.
// These errors are used to communicate specific failure conditions
// from the data access layer to the application layer.

var (
	// ErrProductNotFound is returned when a product cannot be found by ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound is returned when a category cannot be found by ID.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInvalidOrdering is returned when a demand asks for an ordering
	// outside the allowed fields or directions.
	ErrInvalidOrdering = errors.New("invalid ordering")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")
)

// IsNotFoundError checks if the error is a not found error.
// This is useful for handling not-found cases uniformly.
//
// Parameters:
//   - err: error to check
//
// Returns:
//   - bool: true if the error indicates a resource was not found
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCategoryNotFound)
}
