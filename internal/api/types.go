package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/house-odds/internal/builder"
)

// Custom errors
var (
	ErrInvalidPayload   = errors.New("invalid preview payload")
	ErrTooManyOutcomes  = errors.New("too many outcomes")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Weight accepts a JSON number or string. Numbers are truncated toward zero,
// strings are parsed like form input, and the result is clamped.
type Weight int

// UnmarshalJSON implements json.Unmarshaler.
func (w *Weight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = builder.MinWeight
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = Weight(builder.ParseWeight(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("weight: %w", err)
	}
	*w = Weight(clampFloatWeight(f))
	return nil
}

func clampFloatWeight(f float64) int {
	f = math.Trunc(f)
	if f <= builder.MinWeight {
		return builder.MinWeight
	}
	if f >= builder.MaxWeight {
		return builder.MaxWeight
	}
	return int(f)
}

// Margin accepts a JSON number or string; anything unparseable reads as 0.
type Margin float64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Margin) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Margin(builder.ParseMargin(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*m = 0
		return nil
	}
	*m = Margin(f)
	return nil
}

// OutcomeInput is one outcome row in a preview request.
type OutcomeInput struct {
	Title  string `json:"title"`
	Weight Weight `json:"weight"`
}

// PreviewRequest is the body of a preview call.
type PreviewRequest struct {
	Outcomes []OutcomeInput   `json:"outcomes"`
	Margin   Margin           `json:"margin"`
	Stake    *decimal.Decimal `json:"stake,omitempty"`
}

// BuilderOutcomes converts the request rows into builder outcomes.
func (r PreviewRequest) BuilderOutcomes() []builder.Outcome {
	out := make([]builder.Outcome, len(r.Outcomes))
	for i, o := range r.Outcomes {
		out[i] = builder.Outcome{Title: o.Title, Weight: int(o.Weight)}
	}
	return out
}

// CardResponse is a rendered card plus the optional payout for the stake.
type CardResponse struct {
	builder.Card
	Payout string `json:"payout,omitempty"`
}

// PreviewResponse is the result of a preview call.
type PreviewResponse struct {
	PreviewID   string              `json:"preview_id"`
	Margin      float64             `json:"margin"`
	BookPercent string              `json:"book_percent"`
	Cards       []CardResponse      `json:"cards"`
	Fields      []builder.RowFields `json:"fields"`
	Cached      bool                `json:"cached"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
