// Package builder manages the ordered outcome rows of a market form and renders
// their live odds preview.
package builder

import (
	"fmt"
	"strings"

	"github.com/yourusername/house-odds/internal/odds"
)

const (
	// MinWeight and MaxWeight bound every outcome weight.
	MinWeight = 0
	MaxWeight = 100

	// DefaultMarginField is the form field holding the house margin.
	DefaultMarginField = "house_margin"

	// StakeField is the form field holding the optional preview stake.
	StakeField = "stake"
)

// Config configures a Builder.
type Config struct {
	// MarginField names the form field carrying the margin.
	MarginField string
	// Engine computes the preview. Nil means odds.Default().
	Engine *odds.Engine
}

func (c Config) withDefaults() Config {
	if c.MarginField == "" {
		c.MarginField = DefaultMarginField
	}
	if c.Engine == nil {
		c.Engine = odds.Default()
	}
	return c
}

// Outcome is one row of the form.
type Outcome struct {
	Title  string `json:"title"`
	Weight int    `json:"weight"`
}

// Card is one rendered preview row.
type Card struct {
	Index          int        `json:"index"`
	Title          string     `json:"title"`
	ImpliedPercent string     `json:"implied_percent"`
	Odds           string     `json:"odds"`
	Quote          odds.Quote `json:"quote"`
}

// Builder holds the outcome rows and margin of a single form. It is not safe
// for concurrent use.
type Builder struct {
	cfg      Config
	outcomes []Outcome
	margin   float64
}

// New creates a builder seeded with the given outcomes. Seed weights are clamped.
func New(cfg Config, initial ...Outcome) *Builder {
	b := &Builder{cfg: cfg.withDefaults()}
	for _, o := range initial {
		b.Add(o.Title, o.Weight)
	}
	return b
}

// MarginField returns the configured margin field name.
func (b *Builder) MarginField() string {
	return b.cfg.MarginField
}

// Engine returns the engine used for previews.
func (b *Builder) Engine() *odds.Engine {
	return b.cfg.Engine
}

// Add appends a row.
func (b *Builder) Add(title string, weight int) {
	b.outcomes = append(b.outcomes, Outcome{Title: title, Weight: ClampWeight(weight)})
}

// Remove deletes the row at index, shifting later rows down by one.
func (b *Builder) Remove(index int) bool {
	if !b.valid(index) {
		return false
	}
	b.outcomes = append(b.outcomes[:index], b.outcomes[index+1:]...)
	return true
}

// SetTitle updates the title of a row.
func (b *Builder) SetTitle(index int, title string) bool {
	if !b.valid(index) {
		return false
	}
	b.outcomes[index].Title = title
	return true
}

// SetWeight updates the weight of a row after clamping.
func (b *Builder) SetWeight(index int, weight int) bool {
	if !b.valid(index) {
		return false
	}
	b.outcomes[index].Weight = ClampWeight(weight)
	return true
}

// SetWeightText updates a weight from raw field text.
func (b *Builder) SetWeightText(index int, s string) bool {
	return b.SetWeight(index, ParseWeight(s))
}

// SetMargin updates the margin from raw field text.
func (b *Builder) SetMargin(s string) {
	b.margin = ParseMargin(s)
}

// SetMarginValue updates the margin directly.
func (b *Builder) SetMarginValue(m float64) {
	b.margin = m
}

// Margin returns the current margin.
func (b *Builder) Margin() float64 {
	return b.margin
}

// Len returns the number of rows.
func (b *Builder) Len() int {
	return len(b.outcomes)
}

// Outcomes returns a copy of the rows.
func (b *Builder) Outcomes() []Outcome {
	out := make([]Outcome, len(b.outcomes))
	copy(out, b.outcomes)
	return out
}

// Weights returns the current weights in row order.
func (b *Builder) Weights() []int {
	weights := make([]int, len(b.outcomes))
	for i, o := range b.outcomes {
		weights[i] = o.Weight
	}
	return weights
}

// Quotes computes the preview for the current rows.
func (b *Builder) Quotes() []odds.Quote {
	return b.cfg.Engine.ComputePreview(b.Weights(), b.margin)
}

// Preview recomputes every card from scratch.
func (b *Builder) Preview() []Card {
	return RenderCards(b.Outcomes(), b.Quotes())
}

// RenderCards pairs outcomes with their quotes. Both slices must be the same
// length and in the same order.
func RenderCards(outcomes []Outcome, quotes []odds.Quote) []Card {
	cards := make([]Card, len(quotes))
	for i, q := range quotes {
		title := ""
		if i < len(outcomes) {
			title = outcomes[i].Title
		}
		cards[i] = Card{
			Index:          i,
			Title:          DisplayTitle(title, i),
			ImpliedPercent: odds.FormatPercent(q.ImpliedProbability),
			Odds:           odds.FormatOdds(q.DisplayOdds),
			Quote:          q,
		}
	}
	return cards
}

// DisplayTitle returns the title, or a positional label when it is blank.
func DisplayTitle(title string, index int) string {
	if strings.TrimSpace(title) == "" {
		return fmt.Sprintf("Outcome %d", index+1)
	}
	return title
}

// ClampWeight bounds a weight to [MinWeight, MaxWeight].
func ClampWeight(v int) int {
	if v < MinWeight {
		return MinWeight
	}
	if v > MaxWeight {
		return MaxWeight
	}
	return v
}

func (b *Builder) valid(index int) bool {
	return index >= 0 && index < len(b.outcomes)
}
