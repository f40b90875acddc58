// Package engine hosts the orchestrator: one pure transition function
// mapping (state, action) to the next state by composing the order book,
// the ownership ledger and the financial simulator.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
	"github.com/BoraOzcoban/ma-simulatiion/internal/services/finance"
	"github.com/BoraOzcoban/ma-simulatiion/internal/services/ledger"
	"github.com/BoraOzcoban/ma-simulatiion/internal/services/orderbook"
)

var (
	priceFloor = decimal.NewFromFloat(0.01)
	hundred    = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
)

// Orchestrator composes the matching, settlement and statement engines into
// transitions. It holds no mutable state of its own: Apply consumes a state
// value and returns a new one.
type Orchestrator struct {
	book         *orderbook.Engine
	finance      *finance.Simulator
	logger       *zap.Logger
	initialPrice decimal.Decimal

	// injected for deterministic tests
	newID func() string
	now   func() time.Time
}

// NewOrchestrator builds an orchestrator around the given engines.
func NewOrchestrator(book *orderbook.Engine, fin *finance.Simulator, initialPrice decimal.Decimal, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		book:         book,
		finance:      fin,
		logger:       logger,
		initialPrice: initialPrice.Round(2),
		newID:        uuid.NewString,
		now:          time.Now,
	}
}

// Initial returns the baseline state with a freshly generated, merged book.
func (o *Orchestrator) Initial() domain.EngineState {
	state := domain.BaselineState(o.initialPrice)
	state.Book = orderbook.Merge(o.book.Generate(state.Price), state.RestingOrders)
	return state
}

// Apply is the transition function. Invalid inputs are silent no-ops; the
// prior state is returned unchanged.
func (o *Orchestrator) Apply(state domain.EngineState, action domain.Action) domain.EngineState {
	switch a := action.(type) {
	case domain.SetPrice:
		if !a.Price.IsPositive() {
			return state
		}
		return o.moveToPrice(state.Clone(), a.Price)

	case domain.NudgePrice:
		if state.AutoPaused {
			return state
		}
		target := state.Price.Mul(one.Add(a.Pct.Div(hundred)))
		if !target.IsPositive() {
			target = priceFloor
		}
		return o.moveToPrice(state.Clone(), target)

	case domain.SubmitOrder:
		if !a.Price.IsPositive() || a.Lots < 1 {
			return state
		}
		return o.submitOrder(state.Clone(), a)

	case domain.SimulateQuarter:
		return o.simulateQuarter(state.Clone())

	case domain.SetScenario:
		if !a.Scenario.Valid() {
			return state
		}
		next := state.Clone()
		next.Scenario = a.Scenario
		return next

	case domain.EditOwnership:
		next := state.Clone()
		roster, transfer := ledger.ManualEdit(next.Ownership, a.HolderID, a.TargetShares, next.Price)
		if !transfer.Executed() {
			return state
		}
		next.Ownership = roster
		return next

	case domain.AddHeadline:
		headline := strings.TrimSpace(a.Text)
		if headline == "" {
			return state
		}
		next := state.Clone()
		next.PushNews(headline)
		return next

	case domain.ToggleAuto:
		next := state.Clone()
		next.AutoPaused = !next.AutoPaused
		return next

	case domain.ToggleTheme:
		next := state.Clone()
		next.DarkMode = !next.DarkMode
		return next

	case domain.Reset:
		return o.Initial()

	default:
		return state
	}
}

// moveToPrice regenerates the book at the requested price, replays resting
// orders oldest-first against the fresh synthetic liquidity and merges the
// result. The last executed fill price, if any, overrides the requested
// price as the authoritative trade price.
func (o *Orchestrator) moveToPrice(state domain.EngineState, requested decimal.Decimal) domain.EngineState {
	target := decimal.Max(priceFloor, requested).Round(2)

	book := o.book.Generate(target)
	book, state = o.replayRestingOrders(state, book, &target)

	prev := state.Price
	state.Price = target
	state.LastChangeAmount = target.Sub(prev).Round(2)
	state.LastChangePct = decimal.Zero
	if !prev.IsZero() {
		state.LastChangePct = state.LastChangeAmount.Div(prev).Mul(hundred).Round(2)
	}
	state.PushPrice(target)
	state.Book = orderbook.Merge(book, state.RestingOrders)

	return state
}

// replayRestingOrders matches every resting order (oldest submission first)
// against the fresh synthetic book. Buy-side fills settle through the
// ledger; fully filled orders drop from the resting list. When any fill
// executes, lastPrice is updated to the final fill's price.
func (o *Orchestrator) replayRestingOrders(state domain.EngineState, book domain.OrderBook, lastPrice *decimal.Decimal) (domain.OrderBook, domain.EngineState) {
	if len(state.RestingOrders) == 0 {
		return book, state
	}

	kept := make([]domain.RestingOrder, 0, len(state.RestingOrders))
	for _, order := range state.RestingOrders {
		var result orderbook.MatchResult
		if order.Side == domain.SideBid {
			result = orderbook.Match(book.Asks, order.Price, order.Lots, domain.SideBid)
			book.Asks = result.Opposing
		} else {
			result = orderbook.Match(book.Bids, order.Price, order.Lots, domain.SideAsk)
			book.Bids = result.Opposing
		}

		if order.Side == domain.SideBid && len(result.Fills) > 0 {
			state = o.settleBuyFills(state, order.BidderID, result)
		}

		if price, ok := result.LastFillPrice(); ok {
			*lastPrice = price
		}

		if result.RemainingLots > 0 {
			order.Lots = result.RemainingLots
			kept = append(kept, order)
		}
	}
	state.RestingOrders = kept

	return book, state
}

// settleBuyFills runs the ledger settlement for buy-side fills and prepends
// a transfer headline when stake actually moved.
func (o *Orchestrator) settleBuyFills(state domain.EngineState, bidderID string, result orderbook.MatchResult) domain.EngineState {
	roster, transfer := ledger.SettleFromFloat(state.Ownership, bidderID, result.Fills)
	if !transfer.Executed() {
		return state
	}

	state.Ownership = roster
	state.PushNews(transferHeadline(state.Ownership, bidderID, result.FilledLots(), transfer))

	if o.logger != nil {
		o.logger.Info("buy fills settled",
			zap.String("bidder", bidderID),
			zap.Int64("lots", result.FilledLots()),
			zap.String("pct", transfer.Pct.String()),
			zap.String("cash_usd", transfer.CashUSD.String()),
		)
	}
	return state
}

func transferHeadline(roster domain.Roster, bidderID string, lots int64, transfer ledger.Transfer) string {
	name := bidderID
	if idx := roster.Find(bidderID); idx >= 0 {
		name = roster[idx].Name
	}
	return fmt.Sprintf("%s buy bid realized %d lots, gained %s%% from Retail, cash spent: $%s.",
		name, lots, transfer.Pct.StringFixed(4), transfer.CashUSD.StringFixed(2))
}

// submitOrder matches an incoming manual order immediately against the
// current opposing side of the displayed book. The unfilled remainder
// becomes a new resting order. The displayed book already carries every
// prior resting order's lots, so only the new remainder is inserted;
// re-merging the full resting list here would count those lots twice.
func (o *Orchestrator) submitOrder(state domain.EngineState, a domain.SubmitOrder) domain.EngineState {
	order, err := domain.NewRestingOrder(o.newID(), a.Side, a.Price, a.Lots, a.BidderID, o.now())
	if err != nil {
		if o.logger != nil {
			o.logger.Warn("order rejected", zap.Error(err))
		}
		return state
	}

	var result orderbook.MatchResult
	book := state.Book
	if order.Side == domain.SideBid {
		result = orderbook.Match(book.Asks, order.Price, order.Lots, domain.SideBid)
		book.Asks = result.Opposing
	} else {
		result = orderbook.Match(book.Bids, order.Price, order.Lots, domain.SideAsk)
		book.Bids = result.Opposing
	}

	if order.Side == domain.SideBid && len(result.Fills) > 0 {
		state = o.settleBuyFills(state, order.BidderID, result)
	}

	if result.RemainingLots > 0 {
		order.Lots = result.RemainingLots
		state.RestingOrders = append(state.RestingOrders, order)
		if order.Side == domain.SideBid {
			book.Bids = orderbook.Insert(book.Bids, order.Price, order.Lots, domain.SideBid)
		} else {
			book.Asks = orderbook.Insert(book.Asks, order.Price, order.Lots, domain.SideAsk)
		}
	}

	if price, ok := result.LastFillPrice(); ok {
		prev := state.Price
		state.Price = price
		state.LastChangeAmount = price.Sub(prev).Round(2)
		state.LastChangePct = decimal.Zero
		if !prev.IsZero() {
			state.LastChangePct = state.LastChangeAmount.Div(prev).Mul(hundred).Round(2)
		}
		state.PushPrice(price)
	}

	state.Book = book
	return state
}

// simulateQuarter advances the statements, derives the bounded price move
// and then runs the same regenerate-and-replay path as a manual price set.
func (o *Orchestrator) simulateQuarter(state domain.EngineState) domain.EngineState {
	next := o.finance.SimulateQuarter(state.Financials, state.Scenario)
	movePct := o.finance.EstimatePriceMovePct(state.Financials, next, state.Scenario)

	state.Financials = next
	target := state.Price.Mul(one.Add(movePct.Div(hundred)))

	if o.logger != nil {
		o.logger.Info("quarter advanced",
			zap.String("scenario", state.Scenario.String()),
			zap.String("move_pct", movePct.String()),
		)
	}

	return o.moveToPrice(state, target)
}
