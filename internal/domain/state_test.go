package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBaselineState(t *testing.T) {
	state := BaselineState(decimal.NewFromFloat(12.40))

	require.True(t, state.Price.Equal(decimal.NewFromFloat(12.40)))
	require.Len(t, state.PriceHistory, 24)
	for _, p := range state.PriceHistory {
		require.True(t, p.Equal(state.Price))
	}
	require.Equal(t, ScenarioNeutral, state.Scenario)
	require.False(t, state.AutoPaused)
	require.True(t, state.DarkMode)
	require.NotEmpty(t, state.News)
	require.Empty(t, state.RestingOrders)
}

func TestPushPrice_BoundedRing(t *testing.T) {
	state := BaselineState(decimal.NewFromInt(10))
	for i := 0; i < PriceHistoryCap+15; i++ {
		state.PushPrice(decimal.NewFromInt(int64(i)))
	}

	require.Len(t, state.PriceHistory, PriceHistoryCap)
	last := state.PriceHistory[len(state.PriceHistory)-1]
	require.True(t, last.Equal(decimal.NewFromInt(int64(PriceHistoryCap+14))))
}

func TestPushNews_NewestFirstAndCapped(t *testing.T) {
	state := BaselineState(decimal.NewFromInt(10))
	for i := 0; i < NewsCap+10; i++ {
		state.PushNews(fmt.Sprintf("headline %d", i))
	}

	require.Len(t, state.News, NewsCap)
	require.Equal(t, fmt.Sprintf("headline %d", NewsCap+9), state.News[0])
}

func TestClone_IsIndependent(t *testing.T) {
	state := BaselineState(decimal.NewFromInt(10))
	state.Book = OrderBook{
		Bids: []PriceLevel{{Price: decimal.NewFromFloat(9.90), Lots: 100}},
		Asks: []PriceLevel{{Price: decimal.NewFromFloat(10.10), Lots: 100}},
	}

	clone := state.Clone()
	clone.PushNews("only in the clone")
	clone.Book.Bids[0].Lots = 1
	clone.Ownership[0].Shares = decimal.NewFromInt(99)

	require.NotEqual(t, state.News[0], "only in the clone")
	require.EqualValues(t, 100, state.Book.Bids[0].Lots)
	require.False(t, state.Ownership[0].Shares.Equal(decimal.NewFromInt(99)))
}

func TestBaselineRoster_SharesSumToOneHundred(t *testing.T) {
	roster := BaselineRoster()

	require.Len(t, roster, 9)
	require.True(t, roster.TotalShares().Equal(decimal.NewFromInt(100)),
		"total = %s", roster.TotalShares())

	idx := roster.Find(FloatHolderID)
	require.GreaterOrEqual(t, idx, 0)
	require.True(t, roster[idx].Shares.Equal(decimal.NewFromInt(40)))
}

func TestParseScenario_RoundTrips(t *testing.T) {
	for _, s := range Scenarios() {
		parsed, ok := ParseScenario(s.String())
		require.True(t, ok)
		require.Equal(t, s, parsed)
	}

	_, ok := ParseScenario("euphoric")
	require.False(t, ok)
}
