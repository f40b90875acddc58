// Package finance advances the statement set quarter over quarter under
// scenario-biased randomness and derives a bounded price move from the
// statement delta. Subtotals are always recomputed bottom-up; the balance
// sheet is closed through the explicit investments plug.
package finance

import (
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
	"github.com/BoraOzcoban/ma-simulatiion/internal/sampling"
)

// simulatedPeriodLabel replaces the baseline label after the first quarter.
const simulatedPeriodLabel = "Current (Simulated)"

// Simulator draws quarterly driver changes from the injected sampling source.
type Simulator struct {
	sampler sampling.Source
	logger  *zap.Logger
}

// NewSimulator builds a Simulator.
func NewSimulator(sampler sampling.Source, logger *zap.Logger) *Simulator {
	return &Simulator{sampler: sampler, logger: logger}
}

// d2 converts an internal float driver into a 2dp statement value.
func d2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func f(v decimal.Decimal) float64 {
	return v.InexactFloat64()
}

func clamp(v, min, max float64) float64 {
	return math.Min(max, math.Max(min, v))
}

// SimulateQuarter derives the next period's statement set from the current
// one. Revenue growth comes from a scenario-shifted triangular draw; expense
// ratios mean-revert toward scenario-adjusted targets inside hard bands;
// balance-sheet drivers scale with revenue and financing flows; the sheet is
// then force-balanced through the plug.
func (s *Simulator) SimulateQuarter(current domain.Financials, scenario domain.Scenario) domain.Financials {
	shift := float64(scenario.Shift())
	shiftPct := shift * 0.01

	revenueGrowth := s.sampler.Triangular(-0.04+shiftPct, 0.005+shiftPct, 0.05+shiftPct)
	revenue := math.Max(3000, f(current.Income.Revenue)*(1+revenueGrowth))

	prevCogsRatio := math.Abs(f(current.Income.COGS)) / f(current.Income.Revenue)
	cogsRatio := clamp(prevCogsRatio-shift*0.01+s.sampler.Uniform(-0.01, 0.01), 0.55, 0.90)
	cogs := -revenue * cogsRatio

	rdRatio := clamp(math.Abs(f(current.Income.RD))/f(current.Income.Revenue)-shift*0.004, 0.06, 0.20)
	mktRatio := clamp(math.Abs(f(current.Income.MarketingSales))/f(current.Income.Revenue)-shift*0.003, 0.05, 0.16)
	gaRatio := clamp(math.Abs(f(current.Income.GA))/f(current.Income.Revenue)-shift*0.002, 0.05, 0.15)

	da := -math.Max(250, math.Abs(f(current.Income.DA))*(1+s.sampler.Uniform(-0.03, 0.04)))
	interestIncome := math.Max(0, f(current.Income.InterestIncome)*(1+shift*0.05+s.sampler.Uniform(-0.06, 0.06)))
	interestExpense := -math.Max(120, math.Abs(f(current.Income.InterestExpense))*(1-shift*0.05+s.sampler.Uniform(-0.05, 0.08)))
	oneOffs := f(current.Income.OneOffs) + s.sampler.Uniform(-80, 80)

	income := domain.IncomeStatement{
		Revenue:         d2(revenue),
		COGS:            d2(cogs),
		RD:              d2(-revenue * rdRatio),
		MarketingSales:  d2(-revenue * mktRatio),
		GA:              d2(-revenue * gaRatio),
		DA:              d2(da),
		InterestIncome:  d2(interestIncome),
		InterestExpense: d2(interestExpense),
		OneOffs:         d2(oneOffs),
	}.Recomputed()

	workingCapitalChange := f(current.CashFlow.WorkingCapitalChange) + s.sampler.Uniform(-120, 120) + shift*25
	capex := f(current.CashFlow.Capex) * (1 + s.sampler.Uniform(-0.12, 0.12) + shift*0.03)
	ma := f(current.CashFlow.MA) + s.sampler.Uniform(-70, 70) + shift*15
	debtIssuedRepaid := f(current.CashFlow.DebtIssuedRepaid) + s.sampler.Uniform(-180, 180) - shift*90
	buyback := math.Min(0, f(current.CashFlow.ShareBuyback)-math.Max(0, shift)*s.sampler.Uniform(10, 65))
	dividends := f(current.CashFlow.Dividends) - math.Max(0, shift)*s.sampler.Uniform(2, 15)

	cashFlow := domain.CashFlowStatement{
		NetIncome:            income.NetIncome,
		DA:                   income.DA.Abs(),
		WorkingCapitalChange: d2(workingCapitalChange),
		Capex:                d2(capex),
		MA:                   d2(ma),
		DebtIssuedRepaid:     d2(debtIssuedRepaid),
		ShareBuyback:         d2(buyback),
		Dividends:            d2(dividends),
	}.Recomputed()

	// ending cash rolls forward from the prior stock, never re-derived
	cashFlow.EndingCash = current.CashFlow.EndingCash.Add(cashFlow.NetChangeInCash).Round(2)

	retainedEarnings := current.Balance.RetainedEarnings.Add(income.NetIncome).Round(2)

	accountsReceivable := math.Max(300, f(current.Balance.AccountsReceivable)*(1+revenueGrowth*0.7+s.sampler.Uniform(-0.02, 0.02)))
	inventory := math.Max(400, f(current.Balance.Inventory)*(1+revenueGrowth*0.5+s.sampler.Uniform(-0.03, 0.03)))

	capexAbs := math.Abs(f(cashFlow.Capex))
	netPPE := math.Max(1200, f(current.Balance.NetPPE)+capexAbs*0.55-math.Abs(f(income.DA))*0.9)

	debtDelta := f(cashFlow.DebtIssuedRepaid)
	shortTermDebt := math.Max(200, f(current.Balance.ShortTermDebt)+debtDelta*0.35)
	bondsLoans := math.Max(500, f(current.Balance.BondsLoans)+debtDelta*0.65)

	accountsPayable := math.Max(300, f(current.Balance.AccountsPayable)*(1+(math.Abs(f(income.COGS))/math.Abs(f(current.Income.COGS))-1)*0.5))

	balance := domain.BalanceSheet{
		Cash:                     cashFlow.EndingCash,
		AccountsReceivable:       d2(accountsReceivable),
		Inventory:                d2(inventory),
		NetPPE:                   d2(netPPE),
		Investments:              current.Balance.Investments,
		OtherNonCurrentAssets:    current.Balance.OtherNonCurrentAssets,
		AccountsPayable:          d2(accountsPayable),
		ShortTermDebt:            d2(shortTermDebt),
		BondsLoans:               d2(bondsLoans),
		OtherLongTermLiabilities: current.Balance.OtherLongTermLiabilities,
		PaidInCapital:            current.Balance.PaidInCapital,
		RetainedEarnings:         retainedEarnings,
	}.ForceBalanced()

	next := domain.Financials{
		Income:      income,
		CashFlow:    cashFlow,
		Balance:     balance,
		PeriodLabel: simulatedPeriodLabel,
	}

	if s.logger != nil {
		s.logger.Debug("quarter simulated",
			zap.String("scenario", scenario.String()),
			zap.Float64("revenue_growth", revenueGrowth),
			zap.String("net_income", income.NetIncome.String()),
		)
	}

	return next
}

// scenarioBase is the additive price-move offset per scenario, in percent.
func scenarioBase(scenario domain.Scenario) float64 {
	return float64(scenario.Shift()) * 4
}

// MoveRange returns the asymmetric clamp range, in percent, for the given
// scenario. Extreme scenarios can never produce a contradictory-signed move.
func MoveRange(scenario domain.Scenario) (min, max float64) {
	switch scenario {
	case domain.ScenarioVeryPessimistic:
		return -22, -6
	case domain.ScenarioPessimistic:
		return -12, -2
	case domain.ScenarioOptimistic:
		return 2, 12
	case domain.ScenarioVeryOptimistic:
		return 6, 22
	default:
		return -6, 6
	}
}

// EstimatePriceMovePct scores the fundamental quarter-over-quarter delta,
// adds the scenario base and small triangular noise, and clamps the result
// into the scenario's declared range. Result is a percentage rounded to 2dp.
func (s *Simulator) EstimatePriceMovePct(prev, next domain.Financials, scenario domain.Scenario) decimal.Decimal {
	prevRevenue := math.Max(1, f(prev.Income.Revenue))
	nextRevenue := math.Max(1, f(next.Income.Revenue))

	revGrowth := (nextRevenue - prevRevenue) / prevRevenue
	ebitMarginChange := f(next.Income.EBIT)/nextRevenue - f(prev.Income.EBIT)/prevRevenue

	netIncomeDeltaPct := (f(next.Income.NetIncome) - f(prev.Income.NetIncome)) /
		math.Max(300, math.Abs(f(prev.Income.NetIncome)))
	cashDeltaScaled := (f(next.CashFlow.EndingCash) - f(prev.CashFlow.EndingCash)) / 2000
	prevDebt := f(prev.Balance.ShortTermDebt) + f(prev.Balance.BondsLoans)
	nextDebt := f(next.Balance.ShortTermDebt) + f(next.Balance.BondsLoans)
	debtDeltaScaled := (nextDebt - prevDebt) / 5000
	epsDelta := f(next.Income.EPS) - f(prev.Income.EPS)

	fundamentalScore := revGrowth*120 +
		ebitMarginChange*180 +
		netIncomeDeltaPct*35 +
		cashDeltaScaled*12 +
		epsDelta*8 -
		debtDeltaScaled*10

	noise := s.sampler.Triangular(-1.5, 0, 1.5)
	rawMove := scenarioBase(scenario) + fundamentalScore + noise

	min, max := MoveRange(scenario)
	return d2(clamp(rawMove, min, max))
}
