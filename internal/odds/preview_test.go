package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floatTolerance = 1e-9

func TestComputePreviewScenarios(t *testing.T) {
	tests := []struct {
		name        string
		weights     []int
		margin      float64
		wantImplied []float64
		wantRaw     []float64
		wantDisplay []float64
	}{
		{
			name:        "even book",
			weights:     []int{50, 50},
			margin:      0,
			wantImplied: []float64{0.5, 0.5},
			wantRaw:     []float64{2.0, 2.0},
			wantDisplay: []float64{2.00, 2.00},
		},
		{
			name:        "all zero falls back to uniform",
			weights:     []int{0, 0},
			margin:      0,
			wantImplied: []float64{0.5, 0.5},
			wantRaw:     []float64{2.0, 2.0},
			wantDisplay: []float64{2.00, 2.00},
		},
		{
			name:        "heavy favourite with margin",
			weights:     []int{90, 10},
			margin:      0.05,
			wantImplied: []float64{0.945, 0.105},
			wantRaw:     []float64{1 / 0.945, 1 / 0.105},
			wantDisplay: []float64{1.06, 9.52},
		},
		{
			name:        "single certain outcome",
			weights:     []int{100},
			margin:      0,
			wantImplied: []float64{1.0},
			wantRaw:     []float64{1.0},
			wantDisplay: []float64{1.003},
		},
		{
			name:        "margin of minus one zeroes the book",
			weights:     []int{50, 50},
			margin:      -1,
			wantImplied: []float64{0, 0},
			wantRaw:     []float64{SentinelOdds, SentinelOdds},
			wantDisplay: []float64{999.99, 999.99},
		},
		{
			name:        "zero weight outcome gets sentinel",
			weights:     []int{100, 0},
			margin:      0,
			wantImplied: []float64{1.0, 0},
			wantRaw:     []float64{1.0, SentinelOdds},
			wantDisplay: []float64{1.003, 999.99},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes := ComputePreview(tt.weights, tt.margin)
			require.Len(t, quotes, len(tt.weights))

			for i, q := range quotes {
				assert.InDelta(t, tt.wantImplied[i], q.ImpliedProbability, floatTolerance, "implied[%d]", i)
				assert.InDelta(t, tt.wantRaw[i], q.RawOdds, 1e-6, "raw[%d]", i)
				assert.Equal(t, tt.wantDisplay[i], q.DisplayOdds, "display[%d]", i)
			}
		})
	}
}

func TestComputePreviewEmpty(t *testing.T) {
	quotes := ComputePreview(nil, 0.05)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestComputePreviewBookSumsToOverround(t *testing.T) {
	books := [][]int{
		{1, 2, 3},
		{100, 1},
		{7, 0, 0, 13, 55},
		{33, 33, 34},
	}
	margins := []float64{0, 0.05, 0.2, -0.1}

	for _, weights := range books {
		for _, margin := range margins {
			quotes := ComputePreview(weights, margin)
			assert.InDelta(t, (1+margin)*100, BookPercent(quotes), 1e-6, "weights=%v margin=%v", weights, margin)
		}
	}
}

func TestComputePreviewUniformFallback(t *testing.T) {
	for n := 1; n <= 6; n++ {
		weights := make([]int, n)
		quotes := ComputePreview(weights, 0.1)
		for _, q := range quotes {
			assert.InDelta(t, 1.1/float64(n), q.ImpliedProbability, floatTolerance)
		}
	}
}

func TestComputePreviewPreservesOrder(t *testing.T) {
	quotes := ComputePreview([]int{10, 30, 60}, 0)
	require.Len(t, quotes, 3)
	assert.Greater(t, quotes[0].DisplayOdds, quotes[1].DisplayOdds)
	assert.Greater(t, quotes[1].DisplayOdds, quotes[2].DisplayOdds)
	assert.Equal(t, 10.0, quotes[0].DisplayOdds)
}

func TestAdjustDisplayOdds(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"pass through rounds to cents", 2.345678, 2.35},
		{"band ceiling", 1.01, 1.01},
		{"sentinel", SentinelOdds, 999.99},
		{"below floor is floored", 0.5, 1.003},
		{"at origin", 1.0, 1.003},
		{"at floor", 1.001, 1.003},
		{"mid band", 1.005, 1.007},
		{"just under ceiling", 1.00999, 1.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustDisplayOdds(tt.raw))
		})
	}
}

func TestAdjustDisplayOddsMonotonic(t *testing.T) {
	prev := AdjustDisplayOdds(0.9)
	for raw := 0.9; raw < 1.5; raw += 0.0001 {
		got := AdjustDisplayOdds(raw)
		require.GreaterOrEqual(t, got, prev, "raw=%v", raw)
		prev = got
	}
}

func TestAdjustDisplayOddsContinuousAtCeiling(t *testing.T) {
	left := AdjustDisplayOdds(CompressedBandCeiling - 1e-9)
	right := AdjustDisplayOdds(CompressedBandCeiling)
	assert.InDelta(t, right, left, 0.001)
}

func TestAdjustDisplayOddsIdempotentAboveBand(t *testing.T) {
	for _, raw := range []float64{1.01, 1.015, 1.999, 2.5, 3.14159, 47.125, 999.99} {
		once := AdjustDisplayOdds(raw)
		assert.Equal(t, once, AdjustDisplayOdds(once), "raw=%v", raw)
	}
}

func TestNewEngineFallsBackToDefaultAlpha(t *testing.T) {
	assert.Equal(t, DefaultAlpha, NewEngine(0).Alpha())
	assert.Equal(t, DefaultAlpha, NewEngine(-3).Alpha())
	assert.Equal(t, 3.0, NewEngine(3).Alpha())
}

func TestEngineAlphaShapesBand(t *testing.T) {
	flat := NewEngine(3)
	steep := NewEngine(DefaultAlpha)

	assert.LessOrEqual(t, flat.AdjustDisplayOdds(1.002), steep.AdjustDisplayOdds(1.002))
	assert.Equal(t, flat.AdjustDisplayOdds(2.5), steep.AdjustDisplayOdds(2.5))
}

func TestQuoteCompressedFlag(t *testing.T) {
	quotes := ComputePreview([]int{99, 1}, 0)
	require.Len(t, quotes, 2)
	assert.False(t, quotes[0].Compressed)
	assert.False(t, quotes[1].Compressed)

	quotes = ComputePreview([]int{100}, 0.005)
	require.Len(t, quotes, 1)
	assert.True(t, quotes[0].Compressed)
}
