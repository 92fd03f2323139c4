package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/house-odds/internal/cache"
	"github.com/yourusername/house-odds/internal/logger"
	"github.com/yourusername/house-odds/internal/odds"
)

func TestRunQuote(t *testing.T) {
	var out bytes.Buffer
	err := runQuote(&out, &quoteOptions{
		weights: []string{"90", "10"},
		titles:  []string{"Home"},
		margin:  "0.05",
		alpha:   odds.DefaultAlpha,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Home")
	assert.Contains(t, text, "Outcome 2")
	assert.Contains(t, text, "1.06")
	assert.Contains(t, text, "9.52")
	assert.Contains(t, text, "Margin: 5.00%")
	assert.Contains(t, text, "Book: 105.00%")
	assert.NotContains(t, text, "PAYOUT")
}

func TestRunQuoteWithStake(t *testing.T) {
	var out bytes.Buffer
	err := runQuote(&out, &quoteOptions{
		weights: []string{"50", "50"},
		margin:  "0",
		stake:   "10",
		alpha:   odds.DefaultAlpha,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "PAYOUT")
	assert.Contains(t, lines[1], "2.00")
	assert.Contains(t, lines[1], "20.00")
}

func TestRunQuoteRejectsBadStake(t *testing.T) {
	var out bytes.Buffer
	err := runQuote(&out, &quoteOptions{weights: []string{"1"}, stake: "lots", alpha: odds.DefaultAlpha})
	assert.Error(t, err)
}

func TestRunQuoteNormalizesWeights(t *testing.T) {
	var out bytes.Buffer
	err := runQuote(&out, &quoteOptions{weights: []string{"abc", "500"}, margin: "x", alpha: odds.DefaultAlpha})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "999.99")
	assert.Contains(t, text, "Margin: 0.00%")
}

func TestEngineCheck(t *testing.T) {
	assert.NoError(t, engineCheck(odds.Default())(context.Background()))
}

func TestSweepJob(t *testing.T) {
	pc := cache.NewPreviewCache(time.Hour, 10)
	pc.Set(cache.Key{Weights: []int{1}}, nil)

	sweepJob(pc, logger.Discard())(context.Background())
	assert.Equal(t, 1, pc.ItemCount())
}
