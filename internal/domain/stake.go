package domain

import (
	"github.com/shopspring/decimal"
)

// ShareholderStake is one roster member's holding: percentage points of the
// company plus free cash. The roster is fixed; stakes are never created or
// destroyed, only transferred between members.
type ShareholderStake struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Shares  decimal.Decimal `json:"shares"`
	CashUSD decimal.Decimal `json:"cash_usd"`
}

// Roster is the fixed nine-member shareholder list. Invariant: the Shares
// fields sum to 100 within rounding epsilon and no stake is ever negative.
type Roster []ShareholderStake

// Clone deep-copies the roster.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// Find returns the index of the holder with the given id, or -1.
func (r Roster) Find(id string) int {
	for i := range r {
		if r[i].ID == id {
			return i
		}
	}
	return -1
}

// TotalShares sums the percentage stakes across the roster.
func (r Roster) TotalShares() decimal.Decimal {
	total := decimal.Zero
	for i := range r {
		total = total.Add(r[i].Shares)
	}
	return total
}

// BaselineRoster returns the fixed starting ownership table. The float holder
// starts at 40% with no cash; it is paid in cash as it sells down.
func BaselineRoster() Roster {
	usd := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	pct := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	return Roster{
		{ID: FloatHolderID, Name: "Retail (Public Float)", Shares: pct(40), CashUSD: decimal.Zero},
		{ID: "activist-fund", Name: "C Bank Hedge Fund", Shares: pct(2), CashUSD: usd(1_500_000_000)},
		{ID: "harvard-endowment", Name: "Harvard Endowment", Shares: pct(5), CashUSD: usd(50_000_000_000)},
		{ID: "turkiye-wealth-fund", Name: "Turkiye Wealth Fund", Shares: pct(10), CashUSD: usd(250_000_000_000)},
		{ID: "qatar-wealth-fund", Name: "Qatar Investment Authority", Shares: pct(7), CashUSD: usd(475_000_000_000)},
		{ID: "norway-wealth-fund", Name: "Norway Sovereign Fund", Shares: pct(5), CashUSD: usd(1_500_000_000_000)},
		{ID: "astorium-board", Name: "Astorium", Shares: pct(11), CashUSD: usd(1_200_000_000)},
		{ID: "titan-capital", Name: "Titan Capital", Shares: pct(2), CashUSD: usd(8_000_000_000)},
		{ID: "aurora-group", Name: "Aurora Group", Shares: pct(0), CashUSD: usd(6_000_000_000)},
	}
}
