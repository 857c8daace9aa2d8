package valueobject

import "fmt"

// MeasureUnit is a unit a product price is quoted in (e.g. "ml", "kg").
type MeasureUnit string

// Supported measure units grouped by physical quantity.
const (
	UnitMilligram MeasureUnit = "mg"
	UnitGram      MeasureUnit = "g"
	UnitKilogram  MeasureUnit = "kg"

	UnitMilliliter  MeasureUnit = "ml"
	UnitCentiliter  MeasureUnit = "cl"
	UnitLiter       MeasureUnit = "l"
	UnitCubicMeter  MeasureUnit = "cbm"
	UnitMillimeter  MeasureUnit = "mm"
	UnitCentimeter  MeasureUnit = "cm"
	UnitMeter       MeasureUnit = "m"
	UnitKilometer   MeasureUnit = "km"
	UnitSquareMeter MeasureUnit = "m2"
)

// Quantity is the physical quantity a measure unit belongs to.
type Quantity string

const (
	QuantityMass   Quantity = "mass"
	QuantityVolume Quantity = "volume"
	QuantityLength Quantity = "length"
	QuantityArea   Quantity = "area"
)

type unitDefinition struct {
	quantity Quantity

	// perBase is how many of this unit make up one base unit of its quantity
	// (g, l, m, m2).
	perBase float64
}

var measureUnits = map[MeasureUnit]unitDefinition{
	UnitMilligram: {QuantityMass, 1000},
	UnitGram:      {QuantityMass, 1},
	UnitKilogram:  {QuantityMass, 0.001},

	UnitMilliliter: {QuantityVolume, 1000},
	UnitCentiliter: {QuantityVolume, 100},
	UnitLiter:      {QuantityVolume, 1},
	UnitCubicMeter: {QuantityVolume, 0.001},

	UnitMillimeter: {QuantityLength, 1000},
	UnitCentimeter: {QuantityLength, 100},
	UnitMeter:      {QuantityLength, 1},
	UnitKilometer:  {QuantityLength, 0.001},

	UnitSquareMeter: {QuantityArea, 1},
}

// IsKnown reports whether the unit is part of the conversion table.
func (u MeasureUnit) IsKnown() bool {
	_, ok := measureUnits[u]
	return ok
}

// Quantity returns the physical quantity of the unit, or "" for unknown units.
func (u MeasureUnit) Quantity() Quantity {
	return measureUnits[u].quantity
}

// CompatibleWith reports whether both units measure the same physical quantity.
// Empty and unknown units are never compatible.
func (u MeasureUnit) CompatibleWith(other MeasureUnit) bool {
	a, ok := measureUnits[u]
	if !ok {
		return false
	}
	b, ok := measureUnits[other]
	if !ok {
		return false
	}
	return a.quantity == b.quantity
}

// MeasureUnitFactor returns the factor that converts a price quoted for
// priceMeasure units of source into a price per one target unit.
//
// Example:
//
//	MeasureUnitFactor("ml", "l", 1000) // 1.0
//	MeasureUnitFactor("g", "kg", 250)  // 4.0
//
// Returns false when the units are incompatible or priceMeasure is zero.
func MeasureUnitFactor(source, target MeasureUnit, priceMeasure float64) (float64, bool) {
	if !source.CompatibleWith(target) || priceMeasure == 0 {
		return 0, false
	}
	return measureUnits[source].perBase / measureUnits[target].perBase / priceMeasure, true
}

// String implements fmt.Stringer.
func (u MeasureUnit) String() string {
	return string(u)
}

// ParseMeasureUnit validates a unit string.
func ParseMeasureUnit(s string) (MeasureUnit, error) {
	u := MeasureUnit(s)
	if s != "" && !u.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMeasureUnit, s)
	}
	return u, nil
}
