// Package odds converts outcome weights and a house margin into implied
// probabilities and display odds for the market preview.
package odds

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// SentinelOdds is shown for an outcome with zero implied probability.
	SentinelOdds = 999.99

	// CompressedBandCeiling is the lowest raw price that passes through unsmoothed.
	CompressedBandCeiling = 1.01

	// DefaultAlpha controls the curvature of the near-evens compression.
	DefaultAlpha = 6.0

	bandOrigin    = 1.0
	bandFloor     = 1.001
	bandWidth     = 0.01
	bandSpan      = 0.009
	maxNormalized = 0.999999
)

// Quote is the preview of a single outcome.
type Quote struct {
	ImpliedProbability float64 `json:"implied_probability"`
	RawOdds            float64 `json:"raw_odds"`
	DisplayOdds        float64 `json:"display_odds"`
	Compressed         bool    `json:"compressed"`
}

// Engine computes previews with a fixed smoothing curve. The zero value is not
// usable; construct with NewEngine.
type Engine struct {
	alpha float64
}

var defaultEngine = NewEngine(DefaultAlpha)

// NewEngine returns an engine using the given compression curvature.
// Non-positive or non-finite values fall back to DefaultAlpha.
func NewEngine(alpha float64) *Engine {
	if alpha <= 0 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		alpha = DefaultAlpha
	}
	return &Engine{alpha: alpha}
}

// Default returns the engine used by the package-level helpers.
func Default() *Engine {
	return defaultEngine
}

// Alpha returns the compression curvature.
func (e *Engine) Alpha() float64 {
	return e.alpha
}

// ComputePreview quotes every weight against the margin using the default engine.
func ComputePreview(weights []int, margin float64) []Quote {
	return defaultEngine.ComputePreview(weights, margin)
}

// AdjustDisplayOdds smooths a raw price using the default engine.
func AdjustDisplayOdds(raw float64) float64 {
	return defaultEngine.AdjustDisplayOdds(raw)
}

// ComputePreview returns one quote per weight in input order. When every weight
// is zero the book falls back to a uniform distribution. The margin is applied
// as-is, so negative margins and books above 100% are both representable.
func (e *Engine) ComputePreview(weights []int, margin float64) []Quote {
	quotes := make([]Quote, len(weights))
	if len(weights) == 0 {
		return quotes
	}

	total := 0
	for _, w := range weights {
		total += w
	}
	overround := 1 + margin

	for i, w := range weights {
		var fair float64
		if total == 0 {
			fair = 1 / float64(len(weights))
		} else {
			fair = float64(w) / float64(total)
		}

		implied := fair * overround
		raw := SentinelOdds
		if implied != 0 {
			raw = 1 / implied
		}

		quotes[i] = Quote{
			ImpliedProbability: implied,
			RawOdds:            raw,
			DisplayOdds:        e.AdjustDisplayOdds(raw),
			Compressed:         raw < CompressedBandCeiling,
		}
	}
	return quotes
}

// AdjustDisplayOdds rounds prices at or above 1.01 to two places. Shorter
// prices are mapped onto [1.001, 1.010] through a log curve and rounded to
// three places so that near-certain outcomes stay distinguishable.
func (e *Engine) AdjustDisplayOdds(raw float64) float64 {
	if raw >= CompressedBandCeiling {
		return round(raw, 2)
	}

	r := math.Max(raw, bandFloor)
	x := math.Min(math.Max((r-bandOrigin)/bandWidth, 0), maxNormalized)
	y := math.Log1p(e.alpha*x) / math.Log1p(e.alpha)
	return round(bandFloor+bandSpan*y, 3)
}

// BookPercent is the sum of implied probabilities expressed as a percentage.
func BookPercent(quotes []Quote) float64 {
	sum := 0.0
	for _, q := range quotes {
		sum += q.ImpliedProbability
	}
	return sum * 100
}

func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
