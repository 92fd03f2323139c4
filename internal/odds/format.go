package odds

import (
	"math"

	"github.com/shopspring/decimal"
)

// FormatOdds renders a display price with two decimals, or three inside the
// compressed band.
func FormatOdds(v float64) string {
	if !finite(v) {
		return ""
	}
	if v >= CompressedBandCeiling {
		return decimal.NewFromFloat(v).StringFixed(2)
	}
	return decimal.NewFromFloat(v).StringFixed(3)
}

// FormatPercent renders a probability in [0,1] as a percentage with two decimals.
func FormatPercent(p float64) string {
	if !finite(p) {
		return ""
	}
	return decimal.NewFromFloat(p).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// PotentialPayout is the gross return of a stake at the given display price,
// rounded to cents.
func PotentialPayout(stake decimal.Decimal, displayOdds float64) decimal.Decimal {
	if stake.IsNegative() || !finite(displayOdds) {
		return decimal.Zero
	}
	return stake.Mul(decimal.NewFromFloat(displayOdds)).Round(2)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
