package odds

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatOdds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.00"},
		{9.52, "9.52"},
		{1.01, "1.01"},
		{1.003, "1.003"},
		{1.0099, "1.010"},
		{999.99, "999.99"},
		{math.NaN(), ""},
		{math.Inf(1), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatOdds(tt.in), "in=%v", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "50.00%", FormatPercent(0.5))
	assert.Equal(t, "94.50%", FormatPercent(0.9*1.05))
	assert.Equal(t, "10.50%", FormatPercent(0.1*1.05))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "33.33%", FormatPercent(1.0/3))
	assert.Equal(t, "", FormatPercent(math.NaN()))
}

func TestPotentialPayout(t *testing.T) {
	stake := decimal.RequireFromString("25.00")

	assert.Equal(t, "50.00", FormatMoney(PotentialPayout(stake, 2.0)))
	assert.Equal(t, "238.00", FormatMoney(PotentialPayout(stake, 9.52)))
	assert.Equal(t, "25.08", FormatMoney(PotentialPayout(stake, 1.003)))
	assert.True(t, PotentialPayout(decimal.NewFromInt(-5), 2.0).IsZero())
	assert.True(t, PotentialPayout(stake, math.Inf(1)).IsZero())
}
