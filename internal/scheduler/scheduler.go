// Package scheduler runs the two background action producers: a periodic
// price nudge and a randomly re-scheduled macro headline injector. The
// engine owns no timers; schedulers only feed one action at a time into the
// loop.
package scheduler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
	"github.com/BoraOzcoban/ma-simulatiion/internal/sampling"
)

// macroHeadlinePool feeds the headline injector.
var macroHeadlinePool = []string{
	"Eurozone services PMI comes in close to expectations.",
	"Consumer confidence index shows a limited recovery.",
	"US 10-year treasury yields trade in a narrow intraday band.",
	"Oil prices head for a flat close on low volume.",
	"Gold retreats slightly on shifting global risk appetite.",
	"Capacity utilization barely changed against the prior month.",
	"Asian technology shares post a mixed session.",
	"European bank stocks show a mild positive divergence.",
	"Central bank weekly data records a limited rise in reserves.",
	"Five-year CDS spreads fluctuate inside a tight range.",
	"Global freight indices ease slightly week over week.",
	"US weekly jobless claims land near market forecasts.",
	"Emerging-market currencies close mixed against the dollar.",
	"Domestic debt auction draws balanced demand.",
	"Signals of slowing global manufacturing orders stay limited.",
	"Natural gas prices stay calm on seasonal norms.",
}

// Sink accepts actions produced by the schedulers.
type Sink interface {
	Submit(ctx context.Context, action domain.Action) error
}

// Nudge emits a NudgePrice action on a fixed cadence. The move percentage is
// drawn from a truncated normal so single nudges stay within ±5%.
type Nudge struct {
	sink     Sink
	sampler  sampling.Source
	interval time.Duration
	logger   *zap.Logger
}

// NewNudge builds the nudge scheduler.
func NewNudge(sink Sink, sampler sampling.Source, interval time.Duration, logger *zap.Logger) *Nudge {
	return &Nudge{sink: sink, sampler: sampler, interval: interval, logger: logger}
}

// Run ticks until the context is cancelled.
func (n *Nudge) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pct := n.sampler.TruncatedNormal(0, 1.2, -5, 5)
			if err := n.sink.Submit(ctx, domain.NudgePrice{Pct: decimal.NewFromFloat(pct)}); err != nil {
				return err
			}
			n.logger.Debug("price nudge emitted", zap.Float64("pct", pct))
		}
	}
}

// Headline emits AddHeadline actions with triangular-distributed delays,
// re-scheduling itself after each fire.
type Headline struct {
	sink    Sink
	sampler sampling.Source
	logger  *zap.Logger

	// delay triangle, defaults to 60s/120s/240s
	delayMin  time.Duration
	delayMode time.Duration
	delayMax  time.Duration
}

// NewHeadline builds the headline scheduler.
func NewHeadline(sink Sink, sampler sampling.Source, min, mode, max time.Duration, logger *zap.Logger) *Headline {
	if min <= 0 || mode < min || max < mode {
		min, mode, max = 60*time.Second, 120*time.Second, 240*time.Second
	}
	return &Headline{
		sink:      sink,
		sampler:   sampler,
		logger:    logger,
		delayMin:  min,
		delayMode: mode,
		delayMax:  max,
	}
}

// Run fires until the context is cancelled.
func (h *Headline) Run(ctx context.Context) error {
	for {
		delay := time.Duration(h.sampler.Triangular(
			float64(h.delayMin), float64(h.delayMode), float64(h.delayMax)))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			idx := int(h.sampler.Uniform(0, float64(len(macroHeadlinePool))))
			if idx >= len(macroHeadlinePool) {
				idx = len(macroHeadlinePool) - 1
			}
			headline := macroHeadlinePool[idx]
			if err := h.sink.Submit(ctx, domain.AddHeadline{Text: headline}); err != nil {
				return err
			}
			h.logger.Debug("headline emitted", zap.String("headline", headline))
		}
	}
}
