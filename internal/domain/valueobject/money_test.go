package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromFloat_Rounds(t *testing.T) {
	assert.Equal(t, int64(1999), NewMoneyFromFloat(19.99, CurrencyEUR).Amount)
	assert.Equal(t, int64(13), NewMoneyFromFloat(0.125, CurrencyEUR).Amount)
}

func TestMoney_Add(t *testing.T) {
	sum, err := NewMoney(100, CurrencyEUR).Add(NewMoney(250, CurrencyEUR))
	require.NoError(t, err)
	assert.Equal(t, NewMoney(350, CurrencyEUR), sum)

	sum, err = Zero("").Add(NewMoney(250, CurrencyUSD))
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, sum.Currency)

	_, err = NewMoney(100, CurrencyEUR).Add(NewMoney(100, CurrencyUSD))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_Translate(t *testing.T) {
	m := NewMoney(1000, CurrencyEUR).Translate(1.1, CurrencyUSD)
	assert.Equal(t, NewMoney(1100, CurrencyUSD), m)
}

func TestMoney_Format(t *testing.T) {
	m := NewMoney(1999, CurrencyEUR)
	assert.Equal(t, "€19.99", m.Format(""))
	assert.Equal(t, "EUR19.99", m.Format("EUR"))
	assert.Equal(t, "EUR 19.99", m.String())
	assert.Equal(t, "XYZ ", CurrencySymbol("XYZ"))
}
