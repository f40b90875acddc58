package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
	"github.com/BoraOzcoban/ma-simulatiion/internal/sampling"
)

var consistencyEps = decimal.NewFromFloat(0.01)

func TestSimulateQuarter_StatementsStayConsistent(t *testing.T) {
	sim := NewSimulator(sampling.Fixed{}, nil)
	next := sim.SimulateQuarter(domain.BaselineFinancials(), domain.ScenarioNeutral)

	delta := next.ConsistencyCheck()
	require.True(t, delta.MaxAbs().LessThanOrEqual(consistencyEps),
		"max consistency delta = %s", delta.MaxAbs())

	require.True(t, next.Balance.TotalAssets.Equal(next.Balance.TotalLiabilitiesAndEquity),
		"sheet must balance to the cent")
	require.Equal(t, "Current (Simulated)", next.PeriodLabel)
}

func TestSimulateQuarter_EndingCashRollsForward(t *testing.T) {
	sim := NewSimulator(sampling.Fixed{}, nil)
	current := domain.BaselineFinancials()

	next := sim.SimulateQuarter(current, domain.ScenarioNeutral)

	expected := current.CashFlow.EndingCash.Add(next.CashFlow.NetChangeInCash).Round(2)
	require.True(t, next.CashFlow.EndingCash.Equal(expected),
		"ending cash %s != prior %s + net change %s",
		next.CashFlow.EndingCash, current.CashFlow.EndingCash, next.CashFlow.NetChangeInCash)

	require.True(t, next.Balance.Cash.Equal(next.CashFlow.EndingCash),
		"balance-sheet cash must mirror the roll-forward")
}

func TestSimulateQuarter_RetainedEarningsAccumulate(t *testing.T) {
	sim := NewSimulator(sampling.Fixed{}, nil)
	current := domain.BaselineFinancials()

	next := sim.SimulateQuarter(current, domain.ScenarioNeutral)

	expected := current.Balance.RetainedEarnings.Add(next.Income.NetIncome).Round(2)
	require.True(t, next.Balance.RetainedEarnings.Equal(expected))
}

func TestSimulateQuarter_ScenarioBiasesRevenue(t *testing.T) {
	sim := NewSimulator(sampling.Fixed{}, nil)
	current := domain.BaselineFinancials()

	optimistic := sim.SimulateQuarter(current, domain.ScenarioVeryOptimistic)
	pessimistic := sim.SimulateQuarter(current, domain.ScenarioVeryPessimistic)

	require.True(t, optimistic.Income.Revenue.GreaterThan(pessimistic.Income.Revenue),
		"optimistic %s <= pessimistic %s", optimistic.Income.Revenue, pessimistic.Income.Revenue)
}

func TestEstimatePriceMovePct_RespectsScenarioRange(t *testing.T) {
	sim := NewSimulator(sampling.Fixed{}, nil)
	prev := domain.BaselineFinancials()

	for _, scenario := range domain.Scenarios() {
		next := sim.SimulateQuarter(prev, scenario)
		move := sim.EstimatePriceMovePct(prev, next, scenario)

		min, max := MoveRange(scenario)
		require.True(t, move.GreaterThanOrEqual(decimal.NewFromFloat(min)),
			"%s: move %s below %v", scenario, move, min)
		require.True(t, move.LessThanOrEqual(decimal.NewFromFloat(max)),
			"%s: move %s above %v", scenario, move, max)
	}
}

func TestEstimatePriceMovePct_ExtremeScenariosKeepSign(t *testing.T) {
	sim := NewSimulator(sampling.Fixed{}, nil)
	prev := domain.BaselineFinancials()
	next := sim.SimulateQuarter(prev, domain.ScenarioNeutral)

	up := sim.EstimatePriceMovePct(prev, next, domain.ScenarioVeryOptimistic)
	down := sim.EstimatePriceMovePct(prev, next, domain.ScenarioVeryPessimistic)

	require.True(t, up.IsPositive(), "very optimistic move %s must be positive", up)
	require.True(t, down.IsNegative(), "very pessimistic move %s must be negative", down)
}

func TestProperty_LongRunSimulationStaysConsistent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sim := NewSimulator(sampling.NewRand(), nil)
		current := domain.BaselineFinancials()
		quarters := rapid.IntRange(1, 20).Draw(t, "quarters")

		for i := 0; i < quarters; i++ {
			scenario := domain.Scenarios()[rapid.IntRange(0, 4).Draw(t, "scenario")]
			next := sim.SimulateQuarter(current, scenario)

			delta := next.ConsistencyCheck()
			require.True(t, delta.MaxAbs().LessThanOrEqual(consistencyEps),
				"quarter %d: max delta %s", i, delta.MaxAbs())
			require.True(t, next.Income.Revenue.GreaterThanOrEqual(decimal.NewFromInt(3000)),
				"revenue floor violated: %s", next.Income.Revenue)

			move := sim.EstimatePriceMovePct(current, next, scenario)
			min, max := MoveRange(scenario)
			require.True(t, move.GreaterThanOrEqual(decimal.NewFromFloat(min)))
			require.True(t, move.LessThanOrEqual(decimal.NewFromFloat(max)))

			current = next
		}
	})
}
