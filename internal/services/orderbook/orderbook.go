// Package orderbook generates synthetic liquidity ladders, merges them with
// resting manual orders and matches incoming orders against aggregated price
// levels. Matching operates at level granularity; there is no per-order time
// priority inside a level.
package orderbook

import (
	"sort"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
	"github.com/BoraOzcoban/ma-simulatiion/internal/sampling"
)

var (
	tickSmall  = decimal.NewFromFloat(0.05)
	tickLarge  = decimal.NewFromFloat(0.10)
	priceFloor = decimal.NewFromFloat(0.01)
)

// Engine owns the synthetic-book generation. Matching and merging are pure
// functions; only generation consumes entropy.
type Engine struct {
	sampler sampling.Source
}

// NewEngine builds an Engine drawing from the given sampling source.
func NewEngine(sampler sampling.Source) *Engine {
	return &Engine{sampler: sampler}
}

// Generate builds a fresh synthetic ladder around mid. The book models
// transient outside liquidity: it is discarded and regenerated on every
// price-changing transition. Level i gets prices mid ± tick·i and lots
// scaled by a depth factor decaying away from the touch.
func (e *Engine) Generate(mid decimal.Decimal) domain.OrderBook {
	tick := tickLarge
	if e.sampler.Uniform(0, 1) > 0.5 {
		tick = tickSmall
	}

	bids := make([]domain.PriceLevel, 0, domain.BookDepth)
	asks := make([]domain.PriceLevel, 0, domain.BookDepth)

	for i := 1; i <= domain.BookDepth; i++ {
		depthFactor := 1 - float64(i-1)/float64(domain.BookDepth)
		lots := domain.MinLevelLots + int64(
			float64(domain.MaxLevelLots-domain.MinLevelLots)*(0.35+0.65*depthFactor)*e.sampler.Uniform(0, 1))

		offset := tick.Mul(decimal.NewFromInt(int64(i)))
		bids = append(bids, domain.PriceLevel{
			Price: decimal.Max(priceFloor, mid.Sub(offset)).Round(2),
			Lots:  lots,
		})
		asks = append(asks, domain.PriceLevel{
			Price: mid.Add(offset).Round(2),
			Lots:  lots,
		})
	}

	return domain.OrderBook{Bids: bids, Asks: asks}
}

// bidLevelLess orders bid levels best-first: price descending.
func bidLevelLess(a, b domain.PriceLevel) bool {
	return a.Price.GreaterThan(b.Price)
}

// askLevelLess orders ask levels best-first: price ascending.
func askLevelLess(a, b domain.PriceLevel) bool {
	return a.Price.LessThan(b.Price)
}

// Merge aggregates the synthetic book with resting manual orders by price,
// sorts bids descending and asks ascending and truncates each side to the
// render depth. The result is the externally exposed view only; matching
// always runs against un-truncated level slices.
func Merge(book domain.OrderBook, resting []domain.RestingOrder) domain.OrderBook {
	bids := mergeSide(book.Bids, resting, domain.SideBid, bidLevelLess)
	asks := mergeSide(book.Asks, resting, domain.SideAsk, askLevelLess)
	return domain.OrderBook{Bids: bids, Asks: asks}
}

func mergeSide(levels []domain.PriceLevel, resting []domain.RestingOrder, side domain.Side, less btree.LessFunc[domain.PriceLevel]) []domain.PriceLevel {
	const degree = 16
	tree := btree.NewG[domain.PriceLevel](degree, less)

	upsert := func(price decimal.Decimal, lots int64) {
		probe := domain.PriceLevel{Price: price}
		if existing, ok := tree.Get(probe); ok {
			lots += existing.Lots
		}
		tree.ReplaceOrInsert(domain.PriceLevel{Price: price, Lots: lots})
	}

	for _, level := range levels {
		upsert(level.Price, level.Lots)
	}
	for _, order := range resting {
		if order.Side == side {
			upsert(order.Price, order.Lots)
		}
	}

	merged := make([]domain.PriceLevel, 0, domain.RenderDepth)
	tree.Ascend(func(level domain.PriceLevel) bool {
		merged = append(merged, level)
		return len(merged) < domain.RenderDepth
	})
	return merged
}

// Insert adds lots at a price into one displayed side, aggregating with an
// existing level at the same price and keeping the side's best-first ordering
// and the render-depth bound.
func Insert(levels []domain.PriceLevel, price decimal.Decimal, lots int64, side domain.Side) []domain.PriceLevel {
	less := bidLevelLess
	if side == domain.SideAsk {
		less = askLevelLess
	}

	out := make([]domain.PriceLevel, 0, len(levels)+1)
	merged := false
	for _, level := range levels {
		if level.Price.Equal(price) {
			level.Lots += lots
			merged = true
		}
		out = append(out, level)
	}
	if !merged {
		out = append(out, domain.PriceLevel{Price: price, Lots: lots})
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	if len(out) > domain.RenderDepth {
		out = out[:domain.RenderDepth]
	}
	return out
}

// MatchResult is the outcome of one matching pass.
type MatchResult struct {
	// Fills are the executed (price, lots) slices in walk order.
	Fills []domain.Fill
	// RemainingLots is the unfilled remainder of the incoming order.
	RemainingLots int64
	// Opposing is the updated opposing side with exhausted levels removed,
	// ordered best-first.
	Opposing []domain.PriceLevel
}

// FilledLots sums the executed lots.
func (r MatchResult) FilledLots() int64 {
	var total int64
	for _, f := range r.Fills {
		total += f.Lots
	}
	return total
}

// LastFillPrice returns the price of the final fill, if any.
func (r MatchResult) LastFillPrice() (decimal.Decimal, bool) {
	if len(r.Fills) == 0 {
		return decimal.Decimal{}, false
	}
	return r.Fills[len(r.Fills)-1].Price, true
}

// Match walks the opposing side in price priority (asks ascending for an
// incoming bid, bids descending for an incoming ask) while the incoming order
// stays marketable. Every fill executes at the resting level's price, so the
// aggressor always gets price improvement. A single pass fully resolves the
// order; no re-crossing is possible.
func Match(opposing []domain.PriceLevel, price decimal.Decimal, lots int64, side domain.Side) MatchResult {
	less := askLevelLess
	marketable := func(levelPrice decimal.Decimal) bool { return levelPrice.LessThanOrEqual(price) }
	if side == domain.SideAsk {
		less = bidLevelLess
		marketable = func(levelPrice decimal.Decimal) bool { return levelPrice.GreaterThanOrEqual(price) }
	}

	sorted := make([]domain.PriceLevel, len(opposing))
	copy(sorted, opposing)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })

	fills := make([]domain.Fill, 0, 4)
	remaining := lots

	for i := range sorted {
		if remaining <= 0 || !marketable(sorted[i].Price) {
			break
		}

		fillLots := sorted[i].Lots
		if fillLots > remaining {
			fillLots = remaining
		}
		if fillLots <= 0 {
			continue
		}

		sorted[i].Lots -= fillLots
		remaining -= fillLots
		fills = append(fills, domain.Fill{Price: sorted[i].Price, Lots: fillLots})
	}

	updated := sorted[:0:0]
	for _, level := range sorted {
		if level.Lots > 0 {
			updated = append(updated, level)
		}
	}

	return MatchResult{Fills: fills, RemainingLots: remaining, Opposing: updated}
}
