package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureUnitFactor(t *testing.T) {
	tests := []struct {
		source       MeasureUnit
		target       MeasureUnit
		factor       float64 // priceMeasure = 1
		priceMeasure float64
		basePrice    float64 // factor for priceMeasure
	}{
		{"mg", "kg", 1000000.0, 1000.0, 1000.0},
		{"g", "kg", 1000.0, 1000.0, 1.0},
		{"kg", "kg", 1.0, 1000.0, 0.001},
		{"ml", "l", 1000.0, 1000.0, 1.0},
		{"cl", "l", 100.0, 1000.0, 0.1},
		{"l", "l", 1.0, 1000.0, 0.001},
		{"cbm", "l", 0.001, 1.0, 0.001},
		{"mm", "m", 1000.0, 1000.0, 1.0},
		{"cm", "m", 100.0, 1000.0, 0.1},
		{"m", "m", 1.0, 2.0, 0.5},
		{"km", "m", 0.001, 2.0, 0.0005},
		{"m2", "m2", 1.0, 20.0, 0.05},
	}

	for _, tt := range tests {
		t.Run(string(tt.source)+"_to_"+string(tt.target), func(t *testing.T) {
			assert.True(t, tt.source.CompatibleWith(tt.target))

			factor, ok := MeasureUnitFactor(tt.source, tt.target, 1)
			require.True(t, ok)
			assert.InEpsilon(t, tt.factor, factor, 1e-9)

			factor, ok = MeasureUnitFactor(tt.source, tt.target, tt.priceMeasure)
			require.True(t, ok)
			assert.InEpsilon(t, tt.basePrice, factor, 1e-9)
		})
	}
}

func TestMeasureUnitFactor_Incompatible(t *testing.T) {
	_, ok := MeasureUnitFactor(UnitMilliliter, UnitKilogram, 1)
	assert.False(t, ok)

	_, ok = MeasureUnitFactor("", UnitLiter, 1)
	assert.False(t, ok)

	_, ok = MeasureUnitFactor(UnitMilliliter, UnitLiter, 0)
	assert.False(t, ok, "zero price measure has no factor")
}

func TestMeasureUnit_CompatibleWith(t *testing.T) {
	assert.False(t, MeasureUnit("").CompatibleWith(""))
	assert.False(t, UnitLiter.CompatibleWith(""))
	assert.False(t, MeasureUnit("").CompatibleWith(UnitLiter))
	assert.False(t, UnitMeter.CompatibleWith(UnitSquareMeter))
	assert.True(t, UnitGram.CompatibleWith(UnitMilligram))
	assert.Equal(t, QuantityVolume, UnitCubicMeter.Quantity())
}

func TestParseMeasureUnit(t *testing.T) {
	u, err := ParseMeasureUnit("cl")
	require.NoError(t, err)
	assert.Equal(t, UnitCentiliter, u)

	u, err = ParseMeasureUnit("")
	require.NoError(t, err)
	assert.Equal(t, MeasureUnit(""), u)

	_, err = ParseMeasureUnit("gallon")
	assert.ErrorIs(t, err, ErrUnknownMeasureUnit)
}
