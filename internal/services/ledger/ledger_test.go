package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
)

var conservationEps = decimal.NewFromFloat(0.0001)

func requireConserved(t require.TestingT, roster domain.Roster) {
	diff := roster.TotalShares().Sub(decimal.NewFromInt(100)).Abs()
	require.True(t, diff.LessThanOrEqual(conservationEps), "total shares drifted: %s", roster.TotalShares())
	for _, stake := range roster {
		require.False(t, stake.Shares.IsNegative(), "%s has negative stake %s", stake.ID, stake.Shares)
		require.False(t, stake.CashUSD.IsNegative(), "%s has negative cash %s", stake.ID, stake.CashUSD)
	}
}

func TestSettleFromFloat_FullCoverage(t *testing.T) {
	roster := domain.BaselineRoster()
	fills := []domain.Fill{{Price: decimal.NewFromInt(10), Lots: 10_000}}

	next, transfer := SettleFromFloat(roster, "activist-fund", fills)

	// 10,000 lots * 100 shares * $10 = $10M notional on a $10B market cap
	require.True(t, transfer.Executed())
	require.True(t, transfer.Pct.Equal(decimal.NewFromFloat(0.1)), "pct = %s", transfer.Pct)
	require.True(t, transfer.CashUSD.Equal(decimal.NewFromInt(10_000_000)), "cash = %s", transfer.CashUSD)

	floatIdx := next.Find(domain.FloatHolderID)
	buyerIdx := next.Find("activist-fund")
	require.True(t, next[floatIdx].Shares.Equal(decimal.NewFromFloat(39.9)))
	require.True(t, next[floatIdx].CashUSD.Equal(decimal.NewFromInt(10_000_000)))
	require.True(t, next[buyerIdx].Shares.Equal(decimal.NewFromFloat(2.1)))
	require.True(t, next[buyerIdx].CashUSD.Equal(decimal.NewFromInt(1_490_000_000)))
	requireConserved(t, next)
}

func TestSettleFromFloat_ProratesOnCashShortfall(t *testing.T) {
	roster := domain.BaselineRoster()
	// $2B requested against the activist fund's $1.5B: coverage 0.75
	fills := []domain.Fill{{Price: decimal.NewFromInt(10), Lots: 2_000_000}}

	next, transfer := SettleFromFloat(roster, "activist-fund", fills)

	require.True(t, transfer.Pct.Equal(decimal.NewFromInt(15)), "pct = %s", transfer.Pct)
	require.True(t, transfer.CashUSD.Equal(decimal.NewFromInt(1_500_000_000)), "cash = %s", transfer.CashUSD)

	buyerIdx := next.Find("activist-fund")
	require.True(t, next[buyerIdx].CashUSD.IsZero(), "buyer cash fully spent, got %s", next[buyerIdx].CashUSD)
	requireConserved(t, next)
}

func TestSettleFromFloat_CappedByFloatShares(t *testing.T) {
	roster := domain.Roster{
		{ID: domain.FloatHolderID, Name: "Float", Shares: decimal.NewFromFloat(0.05)},
		{ID: "whale", Name: "Whale", Shares: decimal.NewFromInt(50), CashUSD: decimal.NewFromInt(1_000_000_000_000)},
	}
	fills := []domain.Fill{{Price: decimal.NewFromInt(10), Lots: 2_000_000}}

	next, transfer := SettleFromFloat(roster, "whale", fills)

	require.True(t, transfer.Pct.Equal(decimal.NewFromFloat(0.05)), "pct = %s", transfer.Pct)
	floatIdx := next.Find(domain.FloatHolderID)
	require.True(t, next[floatIdx].Shares.IsZero())
	require.True(t, next.TotalShares().Equal(roster.TotalShares()), "total = %s", next.TotalShares())
}

func TestSettleFromFloat_NoOps(t *testing.T) {
	roster := domain.BaselineRoster()
	fills := []domain.Fill{{Price: decimal.NewFromInt(10), Lots: 100}}

	for _, tc := range []struct {
		name    string
		buyerID string
		fills   []domain.Fill
	}{
		{"empty buyer", "", fills},
		{"float buys from itself", domain.FloatHolderID, fills},
		{"unknown buyer", "ghost", fills},
		{"no fills", "activist-fund", nil},
	} {
		next, transfer := SettleFromFloat(roster, tc.buyerID, tc.fills)
		require.False(t, transfer.Executed(), tc.name)
		require.True(t, next.TotalShares().Equal(roster.TotalShares()), tc.name)
	}
}

func TestManualEdit_IncreaseCappedByCash(t *testing.T) {
	roster := domain.BaselineRoster()
	price := decimal.NewFromInt(10)

	// activist fund holds 2% and $1.5B; at a $10B market cap its cash
	// affords 15 percentage points, so a request for 30% fills to 17%.
	next, transfer := ManualEdit(roster, "activist-fund", decimal.NewFromInt(32), price)

	require.True(t, transfer.Pct.Equal(decimal.NewFromInt(15)), "pct = %s", transfer.Pct)
	holderIdx := next.Find("activist-fund")
	require.True(t, next[holderIdx].Shares.Equal(decimal.NewFromInt(17)))
	require.True(t, next[holderIdx].CashUSD.IsZero())
	requireConserved(t, next)
}

func TestManualEdit_DecreaseCappedByFloatCash(t *testing.T) {
	roster := domain.BaselineRoster()
	price := decimal.NewFromInt(10)

	// the float starts with no cash, so nobody can sell down yet
	next, transfer := ManualEdit(roster, "turkiye-wealth-fund", decimal.NewFromInt(1), price)
	require.False(t, transfer.Executed())
	require.True(t, next.TotalShares().Equal(decimal.NewFromInt(100)))

	// fund the float through a buy, then the sale can partially fill
	funded, _ := SettleFromFloat(roster, "activist-fund", []domain.Fill{{Price: price, Lots: 1_000_000}})
	next, transfer = ManualEdit(funded, "turkiye-wealth-fund", decimal.NewFromInt(1), price)

	require.True(t, transfer.Executed())
	require.True(t, transfer.Pct.Equal(decimal.NewFromInt(9)), "pct = %s", transfer.Pct)
	requireConserved(t, next)
}

func TestManualEdit_FloatSelfEditIsNoOp(t *testing.T) {
	roster := domain.BaselineRoster()

	next, transfer := ManualEdit(roster, domain.FloatHolderID, decimal.NewFromInt(5), decimal.NewFromInt(10))

	require.False(t, transfer.Executed())
	require.True(t, next.TotalShares().Equal(decimal.NewFromInt(100)))
	floatIdx := next.Find(domain.FloatHolderID)
	require.True(t, next[floatIdx].Shares.Equal(decimal.NewFromInt(40)))
}

func TestProperty_SettlementConservesOwnership(t *testing.T) {
	buyers := []string{"activist-fund", "harvard-endowment", "titan-capital", "aurora-group"}

	rapid.Check(t, func(t *rapid.T) {
		roster := domain.BaselineRoster()
		steps := rapid.IntRange(1, 8).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			buyer := buyers[rapid.IntRange(0, len(buyers)-1).Draw(t, "buyer")]
			price := decimal.NewFromInt(rapid.Int64Range(1, 50).Draw(t, "price"))

			if rapid.Bool().Draw(t, "manual") {
				target := decimal.NewFromInt(rapid.Int64Range(0, 60).Draw(t, "target"))
				roster, _ = ManualEdit(roster, buyer, target, price)
			} else {
				fills := []domain.Fill{{
					Price: price,
					Lots:  rapid.Int64Range(1, 3_000_000).Draw(t, "lots"),
				}}
				roster, _ = SettleFromFloat(roster, buyer, fills)
			}

			requireConserved(t, roster)
		}
	})
}
