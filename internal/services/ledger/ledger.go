// Package ledger settles matched fills and manual edits as
// conservation-preserving transfers of percentage ownership and cash across
// the fixed shareholder roster. One roster member, the public float, is the
// permanent counterparty of last resort.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
)

var (
	hundred           = decimal.NewFromInt(100)
	sharesOutstanding = decimal.NewFromInt(domain.SharesOutstanding)
	lotSizeShares     = decimal.NewFromInt(domain.LotSizeShares)
)

// Transfer summarizes one executed ownership move.
type Transfer struct {
	// Pct is the percentage-point stake that changed hands, rounded to 4dp.
	Pct decimal.Decimal
	// CashUSD is the cash that moved in the opposite direction, rounded to 2dp.
	CashUSD decimal.Decimal
}

// Executed reports whether any stake actually moved.
func (t Transfer) Executed() bool {
	return t.Pct.IsPositive()
}

// SettleFromFloat converts buy-side fills into a single stake transfer from
// the float to the buyer. The requested percentage and notional accumulate
// across fills; if the buyer cannot afford the full notional, or the float
// cannot supply the full percentage, every fill is pro-rated down by one
// uniform ratio rather than honoring some fills and rejecting others.
func SettleFromFloat(roster domain.Roster, buyerID string, fills []domain.Fill) (domain.Roster, Transfer) {
	if buyerID == "" || buyerID == domain.FloatHolderID || len(fills) == 0 {
		return roster, Transfer{}
	}

	floatIdx := roster.Find(domain.FloatHolderID)
	buyerIdx := roster.Find(buyerID)
	if floatIdx < 0 || buyerIdx < 0 {
		return roster, Transfer{}
	}

	requestedPct := decimal.Zero
	requestedCash := decimal.Zero
	for _, fill := range fills {
		notional := decimal.NewFromInt(fill.Lots).Mul(lotSizeShares).Mul(fill.Price)
		marketCap := fill.Price.Mul(sharesOutstanding)
		if marketCap.IsPositive() {
			requestedPct = requestedPct.Add(notional.Div(marketCap).Mul(hundred))
		}
		requestedCash = requestedCash.Add(notional)
	}
	if !requestedPct.IsPositive() || !requestedCash.IsPositive() {
		return roster, Transfer{}
	}

	// uniform cash-coverage proration
	cashTransfer := decimal.Min(requestedCash, roster[buyerIdx].CashUSD)
	coverage := cashTransfer.Div(requestedCash)

	transferPct := decimal.Min(requestedPct.Mul(coverage), roster[floatIdx].Shares)
	if !transferPct.IsPositive() {
		return roster, Transfer{}
	}

	ratio := transferPct.Div(requestedPct)
	effectiveCash := requestedCash.Mul(ratio).Round(2)
	transferPct = transferPct.Round(4)

	next := roster.Clone()
	next[floatIdx].Shares = next[floatIdx].Shares.Sub(transferPct).Round(4)
	next[floatIdx].CashUSD = next[floatIdx].CashUSD.Add(effectiveCash).Round(2)
	next[buyerIdx].Shares = next[buyerIdx].Shares.Add(transferPct).Round(4)
	next[buyerIdx].CashUSD = decimal.Max(decimal.Zero, next[buyerIdx].CashUSD.Sub(effectiveCash)).Round(2)

	return next, Transfer{Pct: transferPct, CashUSD: effectiveCash}
}

// ManualEdit moves a holder's stake toward targetShares at the current price.
// Increases are capped by the float's available percentage and the holder's
// cash; decreases by the holder's stake and the float's cash (the float buys
// the shares back and its cash never goes below zero). Editing the float
// itself is a no-op: the float only moves as the counterparty of others.
func ManualEdit(roster domain.Roster, holderID string, targetShares, price decimal.Decimal) (domain.Roster, Transfer) {
	if holderID == "" || holderID == domain.FloatHolderID {
		return roster, Transfer{}
	}

	floatIdx := roster.Find(domain.FloatHolderID)
	holderIdx := roster.Find(holderID)
	if floatIdx < 0 || holderIdx < 0 {
		return roster, Transfer{}
	}

	target := decimal.Max(decimal.Zero, targetShares).Round(4)
	delta := target.Sub(roster[holderIdx].Shares).Round(4)
	if delta.IsZero() {
		return roster, Transfer{}
	}

	marketCap := price.Mul(sharesOutstanding)

	if delta.IsPositive() {
		maxPctByFloat := roster[floatIdx].Shares
		maxPctByCash := decimal.Zero
		if marketCap.IsPositive() {
			maxPctByCash = roster[holderIdx].CashUSD.Div(marketCap).Mul(hundred)
		}

		transferPct := decimal.Min(delta, maxPctByFloat, maxPctByCash).Round(4)
		if !transferPct.IsPositive() {
			return roster, Transfer{}
		}
		cash := transferPct.Div(hundred).Mul(marketCap).Round(2)

		next := roster.Clone()
		next[floatIdx].Shares = next[floatIdx].Shares.Sub(transferPct).Round(4)
		next[floatIdx].CashUSD = next[floatIdx].CashUSD.Add(cash).Round(2)
		next[holderIdx].Shares = next[holderIdx].Shares.Add(transferPct).Round(4)
		next[holderIdx].CashUSD = decimal.Max(decimal.Zero, next[holderIdx].CashUSD.Sub(cash)).Round(2)

		return next, Transfer{Pct: transferPct, CashUSD: cash}
	}

	requestedSellPct := delta.Abs()
	maxPctByFloatCash := decimal.Zero
	if marketCap.IsPositive() {
		maxPctByFloatCash = roster[floatIdx].CashUSD.Div(marketCap).Mul(hundred)
	}

	transferPct := decimal.Min(requestedSellPct, roster[holderIdx].Shares, maxPctByFloatCash).Round(4)
	if !transferPct.IsPositive() {
		return roster, Transfer{}
	}
	cash := transferPct.Div(hundred).Mul(marketCap).Round(2)

	next := roster.Clone()
	next[floatIdx].Shares = next[floatIdx].Shares.Add(transferPct).Round(4)
	next[floatIdx].CashUSD = decimal.Max(decimal.Zero, next[floatIdx].CashUSD.Sub(cash)).Round(2)
	next[holderIdx].Shares = next[holderIdx].Shares.Sub(transferPct).Round(4)
	next[holderIdx].CashUSD = next[holderIdx].CashUSD.Add(cash).Round(2)

	return next, Transfer{Pct: transferPct, CashUSD: cash}
}
