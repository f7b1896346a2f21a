package portfolio

import "github.com/shopspring/decimal"

var (
	hundred     = decimal.NewFromInt(100)
	tenThousand = decimal.NewFromInt(10000)
)

// round2 rounds to two decimal places at the cent level: multiply by
// 100, round half away from zero to the nearest integer, divide by
// 100.
func round2(d decimal.Decimal) float64 {
	return d.Mul(hundred).Round(0).Div(hundred).InexactFloat64()
}

// roundPercent converts a ratio to a percentage with two decimal
// places of percent precision: the ratio is scaled by 10000 before
// rounding, then divided by 100. The double scaling is deliberate and
// matches the service's historical fixtures.
func roundPercent(ratio decimal.Decimal) float64 {
	return ratio.Mul(tenThousand).Round(0).Div(hundred).InexactFloat64()
}
