// Package api exposes the odds preview over HTTP and WebSocket.
package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/house-odds/internal/builder"
	"github.com/yourusername/house-odds/internal/cache"
	"github.com/yourusername/house-odds/internal/logger"
	"github.com/yourusername/house-odds/internal/metrics"
	"github.com/yourusername/house-odds/internal/odds"
)

// Surfaces a preview can be requested from.
const (
	SurfaceJSON = "http"
	SurfaceForm = "form"
	SurfaceLive = "ws"
)

// PreviewerConfig holds the dependencies of a Previewer.
type PreviewerConfig struct {
	Builder     builder.Config
	Cache       *cache.PreviewCache
	Logger      *logrus.Logger
	MaxOutcomes int
}

// Previewer turns requests into rendered previews. It holds no per-request
// state and is safe for concurrent use.
type Previewer struct {
	builderCfg  builder.Config
	cache       *cache.PreviewCache
	log         *logger.PreviewLogger
	maxOutcomes int
}

// NewPreviewer creates a previewer. A nil cache disables caching.
func NewPreviewer(cfg PreviewerConfig) *Previewer {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Builder.Engine == nil {
		cfg.Builder.Engine = odds.Default()
	}
	if cfg.Builder.MarginField == "" {
		cfg.Builder.MarginField = builder.DefaultMarginField
	}
	return &Previewer{
		builderCfg:  cfg.Builder,
		cache:       cfg.Cache,
		log:         logger.NewPreviewLogger(log),
		maxOutcomes: cfg.MaxOutcomes,
	}
}

// BuilderConfig returns the builder configuration used for requests.
func (p *Previewer) BuilderConfig() builder.Config {
	return p.builderCfg
}

// FromRequest builds the outcome set described by a JSON request.
func (p *Previewer) FromRequest(req PreviewRequest) (*builder.Builder, error) {
	if err := p.checkSize(len(req.Outcomes)); err != nil {
		return nil, err
	}
	b := builder.New(p.builderCfg, req.BuilderOutcomes()...)
	b.SetMarginValue(float64(req.Margin))
	return b, nil
}

// Preview computes and renders the preview of b. The stake, when given, adds
// a potential payout to every card.
func (p *Previewer) Preview(b *builder.Builder, stake *decimal.Decimal, surface string) (*PreviewResponse, error) {
	if err := p.checkSize(b.Len()); err != nil {
		return nil, err
	}

	start := time.Now()
	quotes, cached := p.quotes(b)
	duration := time.Since(start)

	compressed, sentinel := 0, 0
	for _, q := range quotes {
		if q.Compressed {
			compressed++
		}
		if q.ImpliedProbability == 0 {
			sentinel++
		}
	}
	if !cached {
		metrics.RecordPreview(len(quotes), compressed, sentinel, duration.Seconds())
	}

	cards := builder.RenderCards(b.Outcomes(), quotes)
	resp := &PreviewResponse{
		PreviewID:   uuid.NewString(),
		Margin:      b.Margin(),
		BookPercent: odds.FormatPercent(odds.BookPercent(quotes) / 100),
		Cards:       make([]CardResponse, len(cards)),
		Fields:      b.FieldNames(),
		Cached:      cached,
	}
	for i, card := range cards {
		resp.Cards[i] = CardResponse{Card: card}
		if stake != nil {
			resp.Cards[i].Payout = odds.FormatMoney(odds.PotentialPayout(*stake, card.Quote.DisplayOdds))
		}
	}

	p.log.LogPreviewComputed(resp.PreviewID, surface, len(quotes), b.Margin(), odds.BookPercent(quotes), compressed, cached, duration)
	return resp, nil
}

func (p *Previewer) quotes(b *builder.Builder) ([]odds.Quote, bool) {
	if p.cache == nil {
		return b.Quotes(), false
	}
	key := cache.Key{Weights: b.Weights(), Margin: b.Margin(), Alpha: b.Engine().Alpha()}
	return p.cache.GetOrCompute(key, b.Quotes)
}

func (p *Previewer) checkSize(n int) error {
	if p.maxOutcomes > 0 && n > p.maxOutcomes {
		return fmt.Errorf("%w: %d outcomes, limit is %d", ErrTooManyOutcomes, n, p.maxOutcomes)
	}
	return nil
}
