// Package valueobject contains value objects that represent concepts without identity.
// Value objects are immutable and compared by their attributes rather than identity.
//
// Value Objects follow these principles:
//   - Immutability: Once created, they cannot be changed.
//   - Equality: Two value objects are equal if all their attributes are equal.
//   - Side-effect free: Methods returns new instances rather than modifying state
package valueobject

import (
	"errors"
	"fmt"
	"math"
)

// Currency represents a monetary currency using ISO 4217 codes.
type Currency string

// Supported currencies in the system.
const (
	CurrencyEUR Currency = "EUR" // Euro
	CurrencyUSD Currency = "USD" // US Dollar
	CurrencyGBP Currency = "GBP" // British Pound
	CurrencyCHF Currency = "CHF" // Swiss Franc
)

// Value object errors.
var (
	ErrCurrencyMismatch   = errors.New("currency mismatch in operation")
	ErrUnknownMeasureUnit = errors.New("unknown measure unit")
)

// Money represents a monetary value with currency.
// It stores amounts in the smallest unit (cents) to avoid floating-point issues.
//
// Example usage:
//
//	price := valueobject.NewMoneyFromFloat(19.99, valueobject.CurrencyEUR)
//	total := price.Multiply(3) // EUR 59.97
type Money struct {
	// Amount in smallest currency unit (e.g., cents for EUR)
	Amount int64 `json:"amount"`

	// Currency using ISO 4217 code
	Currency Currency `json:"currency"`
}

// NewMoney creates a new Money value object.
func NewMoney(amount int64, currency Currency) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// NewMoneyFromFloat creates a new Money from a decimal amount, rounded to the
// nearest cent.
//
// Parameters:
//   - amount: Decimal amount (e.g., 19.99)
//   - currency: ISO 4217 currency code
//
// Returns:
//   - Money: the created Money value object
func NewMoneyFromFloat(amount float64, currency Currency) Money {
	return NewMoney(int64(math.Round(amount*100)), currency)
}

// Zero returns a zero-value Money in the specified currency.
func Zero(currency Currency) Money {
	return NewMoney(0, currency)
}

// Add adds two Money values and returns a new Money.
//
// Returns:
//   - Money: the sum of the two Money values
//   - error: ErrCurrencyMismatch if currencies do not match
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency && !m.IsZero() && !other.IsZero() {
		return Money{}, ErrCurrencyMismatch
	}
	currency := m.Currency
	if m.IsZero() {
		currency = other.Currency
	}
	return NewMoney(m.Amount+other.Amount, currency), nil
}

// Multiply multiplies the Money amount by a quantity and returns a new Money.
func (m Money) Multiply(factor int) Money {
	return NewMoney(m.Amount*int64(factor), m.Currency)
}

// Translate converts the amount with an exchange factor into another currency,
// rounded to the nearest cent.
func (m Money) Translate(factor float64, currency Currency) Money {
	return NewMoney(int64(math.Round(float64(m.Amount)*factor)), currency)
}

// IsZero checks if the Money amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// ToFloat converts the Money amount to a float64 representation.
//
// Returns:
//   - float64: Decimal representation (e.g., 19.99)
func (m Money) ToFloat() float64 {
	return float64(m.Amount) / 100.0
}

// String returns a formatted string representation of the Money.
//
// Returns:
//   - string: Formatted string (e.g., "EUR 19.99")
func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.ToFloat())
}

// Format returns the money formatted with the given currency sign, falling
// back to the known symbol of the currency.
//
// Returns:
//   - string: Formatted string with currency symbol (e.g., "€19.99")
func (m Money) Format(sign string) string {
	if sign == "" {
		sign = CurrencySymbol(m.Currency)
	}
	return fmt.Sprintf("%s%.2f", sign, m.ToFloat())
}

// CurrencySymbol returns the symbol for a given currency.
func CurrencySymbol(c Currency) string {
	symbols := map[Currency]string{
		CurrencyEUR: "€",
		CurrencyUSD: "$",
		CurrencyGBP: "£",
		CurrencyCHF: "CHF ",
	}

	if symbol, ok := symbols[c]; ok {
		return symbol
	}
	return string(c) + " "
}
