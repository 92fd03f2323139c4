package builder

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// FieldName is the submit name of a row field, e.g. outcomes[2][weight].
func FieldName(index int, field string) string {
	return fmt.Sprintf("outcomes[%d][%s]", index, field)
}

// TitleField is the submit name of the title field of row index.
func TitleField(index int) string {
	return FieldName(index, "title")
}

// WeightField is the submit name of the weight field of row index.
func WeightField(index int) string {
	return FieldName(index, "weight")
}

// RowFields holds the submit names of one row.
type RowFields struct {
	Title  string `json:"title"`
	Weight string `json:"weight"`
}

// FieldNames returns the submit names for every row, numbered 0..n-1.
// Rows are positional, so names are recomputed after every removal.
func (b *Builder) FieldNames() []RowFields {
	names := make([]RowFields, len(b.outcomes))
	for i := range b.outcomes {
		names[i] = RowFields{Title: TitleField(i), Weight: WeightField(i)}
	}
	return names
}

// Values encodes the rows and margin as submit-ready form values.
func (b *Builder) Values() url.Values {
	values := url.Values{}
	for i, o := range b.outcomes {
		values.Set(TitleField(i), o.Title)
		values.Set(WeightField(i), strconv.Itoa(o.Weight))
	}
	values.Set(b.cfg.MarginField, strconv.FormatFloat(b.margin, 'f', -1, 64))
	return values
}

// FromForm rebuilds a builder from submitted form values. Rows are read from
// index 0 upward until a row with neither field present. Every value is
// normalized the same way as interactive input.
func FromForm(cfg Config, values url.Values) *Builder {
	b := New(cfg)
	for i := 0; ; i++ {
		_, hasTitle := values[TitleField(i)]
		_, hasWeight := values[WeightField(i)]
		if !hasTitle && !hasWeight {
			break
		}
		b.Add(values.Get(TitleField(i)), ParseWeight(values.Get(WeightField(i))))
	}
	b.SetMargin(values.Get(b.cfg.MarginField))
	return b
}

// ParseWeight reads the leading base-10 integer of s and clamps it. Text
// without a leading integer reads as 0.
func ParseWeight(s string) int {
	digits := leadingInt.FindString(strings.TrimSpace(s))
	if digits == "" {
		return MinWeight
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		if strings.HasPrefix(digits, "-") {
			return MinWeight
		}
		return MaxWeight
	}
	return ClampWeight(v)
}

// ParseMargin reads the leading decimal number of s. Text without one, or a
// value that is not finite, reads as 0.
func ParseMargin(s string) float64 {
	num := leadingFloat.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
