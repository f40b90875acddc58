package domain

import (
	"github.com/shopspring/decimal"
)

// taxRate is applied to positive pre-tax income only; losses carry no benefit.
var taxRate = decimal.NewFromFloat(0.15)

// epsDivisor converts net income in USD millions to per-share earnings with
// one billion shares outstanding.
var epsDivisor = decimal.NewFromInt(1000)

// IncomeStatement mixes independent driver lines (revenue, expense lines,
// interest) with derived subtotals. Derived fields are never assigned
// directly; Recomputed rebuilds all of them from the drivers.
// Expense drivers are stored negative.
type IncomeStatement struct {
	Revenue         decimal.Decimal `json:"revenue"`
	COGS            decimal.Decimal `json:"cogs"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	RD              decimal.Decimal `json:"rd"`
	MarketingSales  decimal.Decimal `json:"marketing_sales"`
	GA              decimal.Decimal `json:"ga"`
	DA              decimal.Decimal `json:"da"`
	TotalOpEx       decimal.Decimal `json:"total_opex"`
	EBIT            decimal.Decimal `json:"ebit"`
	InterestIncome  decimal.Decimal `json:"interest_income"`
	InterestExpense decimal.Decimal `json:"interest_expense"`
	EBT             decimal.Decimal `json:"ebt"`
	Tax             decimal.Decimal `json:"tax"`
	NetIncome       decimal.Decimal `json:"net_income"`
	OneOffs         decimal.Decimal `json:"one_offs"`
	EPS             decimal.Decimal `json:"eps"`
}

// Recomputed returns a copy with every subtotal rebuilt bottom-up from the
// driver lines.
func (s IncomeStatement) Recomputed() IncomeStatement {
	s.GrossProfit = s.Revenue.Add(s.COGS).Round(2)
	s.TotalOpEx = s.RD.Add(s.MarketingSales).Add(s.GA).Add(s.DA).Round(2)
	s.EBIT = s.GrossProfit.Add(s.TotalOpEx).Round(2)
	s.EBT = s.EBIT.Add(s.InterestIncome).Add(s.InterestExpense).Round(2)
	if s.EBT.IsPositive() {
		s.Tax = s.EBT.Mul(taxRate).Neg().Round(2)
	} else {
		s.Tax = decimal.Zero
	}
	s.NetIncome = s.EBT.Add(s.Tax).Round(2)
	s.EPS = s.NetIncome.Div(epsDivisor).Round(2)
	return s
}

// CashFlowStatement. EndingCash is a roll-forward stock owned by the quarter
// simulation; Recomputed rebuilds the three section subtotals and the net
// change but never touches EndingCash.
type CashFlowStatement struct {
	NetIncome            decimal.Decimal `json:"net_income"`
	DA                   decimal.Decimal `json:"da"`
	WorkingCapitalChange decimal.Decimal `json:"working_capital_change"`
	CFO                  decimal.Decimal `json:"cfo"`
	Capex                decimal.Decimal `json:"capex"`
	MA                   decimal.Decimal `json:"ma"`
	CFI                  decimal.Decimal `json:"cfi"`
	DebtIssuedRepaid     decimal.Decimal `json:"debt_issued_repaid"`
	ShareBuyback         decimal.Decimal `json:"share_buyback"`
	Dividends            decimal.Decimal `json:"dividends"`
	CFF                  decimal.Decimal `json:"cff"`
	NetChangeInCash      decimal.Decimal `json:"net_change_in_cash"`
	EndingCash           decimal.Decimal `json:"ending_cash"`
}

// Recomputed rebuilds CFO, CFI, CFF and the net change from the drivers.
func (s CashFlowStatement) Recomputed() CashFlowStatement {
	s.CFO = s.NetIncome.Add(s.DA).Add(s.WorkingCapitalChange).Round(2)
	s.CFI = s.Capex.Add(s.MA).Round(2)
	s.CFF = s.DebtIssuedRepaid.Add(s.ShareBuyback).Add(s.Dividends).Round(2)
	s.NetChangeInCash = s.CFO.Add(s.CFI).Add(s.CFF).Round(2)
	return s
}

// BalanceSheet. Investments is the designated plug line: ForceBalanced
// adjusts it so assets equal liabilities plus equity to the cent.
type BalanceSheet struct {
	Cash                      decimal.Decimal `json:"cash"`
	AccountsReceivable        decimal.Decimal `json:"accounts_receivable"`
	Inventory                 decimal.Decimal `json:"inventory"`
	CurrentAssets             decimal.Decimal `json:"current_assets"`
	NetPPE                    decimal.Decimal `json:"net_ppe"`
	Investments               decimal.Decimal `json:"investments"`
	OtherNonCurrentAssets     decimal.Decimal `json:"other_non_current_assets"`
	NonCurrentAssets          decimal.Decimal `json:"non_current_assets"`
	TotalAssets               decimal.Decimal `json:"total_assets"`
	AccountsPayable           decimal.Decimal `json:"accounts_payable"`
	ShortTermDebt             decimal.Decimal `json:"short_term_debt"`
	CurrentLiabilities        decimal.Decimal `json:"current_liabilities"`
	BondsLoans                decimal.Decimal `json:"bonds_loans"`
	OtherLongTermLiabilities  decimal.Decimal `json:"other_long_term_liabilities"`
	LongTermLiabilities       decimal.Decimal `json:"long_term_liabilities"`
	TotalLiabilities          decimal.Decimal `json:"total_liabilities"`
	PaidInCapital             decimal.Decimal `json:"paid_in_capital"`
	RetainedEarnings          decimal.Decimal `json:"retained_earnings"`
	Equity                    decimal.Decimal `json:"equity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
}

// Recomputed rebuilds every subtotal from the component lines.
func (s BalanceSheet) Recomputed() BalanceSheet {
	s.CurrentAssets = s.Cash.Add(s.AccountsReceivable).Add(s.Inventory).Round(2)
	s.NonCurrentAssets = s.NetPPE.Add(s.Investments).Add(s.OtherNonCurrentAssets).Round(2)
	s.TotalAssets = s.CurrentAssets.Add(s.NonCurrentAssets).Round(2)

	s.CurrentLiabilities = s.AccountsPayable.Add(s.ShortTermDebt).Round(2)
	s.LongTermLiabilities = s.BondsLoans.Add(s.OtherLongTermLiabilities).Round(2)
	s.TotalLiabilities = s.CurrentLiabilities.Add(s.LongTermLiabilities).Round(2)

	s.Equity = s.PaidInCapital.Add(s.RetainedEarnings).Round(2)
	s.TotalLiabilitiesAndEquity = s.TotalLiabilities.Add(s.Equity).Round(2)
	return s
}

// ForceBalanced is the explicit plug step: after a trial recomputation the
// investments line absorbs the full assets-vs-liabilities gap, then all
// subtotals are rebuilt once more. It must run after any driver change.
func (s BalanceSheet) ForceBalanced() BalanceSheet {
	trial := s.Recomputed()
	plug := trial.TotalLiabilitiesAndEquity.Sub(trial.TotalAssets).Round(2)
	s.Investments = s.Investments.Add(plug).Round(2)
	return s.Recomputed()
}

// Financials bundles the three statements for one period. Each simulated
// quarter replaces the value wholesale; no history is retained.
type Financials struct {
	Income      IncomeStatement   `json:"income"`
	CashFlow    CashFlowStatement `json:"cash_flow"`
	Balance     BalanceSheet      `json:"balance"`
	PeriodLabel string            `json:"period_label"`
}

// ConsistencyDelta holds the signed differences between stored subtotals and
// their defining formulas. Diagnostic only; every field must be ~0.
type ConsistencyDelta struct {
	GrossProfit decimal.Decimal `json:"gross_profit_delta"`
	TotalOpEx   decimal.Decimal `json:"total_opex_delta"`
	EBIT        decimal.Decimal `json:"ebit_delta"`
	EBT         decimal.Decimal `json:"ebt_delta"`
	NetIncome   decimal.Decimal `json:"net_income_delta"`
	CFO         decimal.Decimal `json:"cfo_delta"`
	CFI         decimal.Decimal `json:"cfi_delta"`
	CFF         decimal.Decimal `json:"cff_delta"`
	Cash        decimal.Decimal `json:"cash_delta"`
	Balance     decimal.Decimal `json:"balance_delta"`
}

// ConsistencyCheck independently re-derives every subtotal and returns the
// signed deltas from the stored values.
func (f Financials) ConsistencyCheck() ConsistencyDelta {
	inc, cf, bal := f.Income, f.CashFlow, f.Balance

	return ConsistencyDelta{
		GrossProfit: inc.GrossProfit.Sub(inc.Revenue.Add(inc.COGS)).Round(2),
		TotalOpEx:   inc.TotalOpEx.Sub(inc.RD.Add(inc.MarketingSales).Add(inc.GA).Add(inc.DA)).Round(2),
		EBIT:        inc.EBIT.Sub(inc.GrossProfit.Add(inc.TotalOpEx)).Round(2),
		EBT:         inc.EBT.Sub(inc.EBIT.Add(inc.InterestIncome).Add(inc.InterestExpense)).Round(2),
		NetIncome:   inc.NetIncome.Sub(inc.EBT.Add(inc.Tax)).Round(2),
		CFO:         cf.CFO.Sub(cf.NetIncome.Add(cf.DA).Add(cf.WorkingCapitalChange)).Round(2),
		CFI:         cf.CFI.Sub(cf.Capex.Add(cf.MA)).Round(2),
		CFF:         cf.CFF.Sub(cf.DebtIssuedRepaid.Add(cf.ShareBuyback).Add(cf.Dividends)).Round(2),
		Cash:        cf.NetChangeInCash.Sub(cf.CFO.Add(cf.CFI).Add(cf.CFF)).Round(2),
		Balance:     bal.TotalAssets.Sub(bal.TotalLiabilitiesAndEquity).Round(2),
	}
}

// MaxAbs returns the largest absolute delta across all fields.
func (d ConsistencyDelta) MaxAbs() decimal.Decimal {
	return decimal.Max(
		d.GrossProfit.Abs(),
		d.TotalOpEx.Abs(),
		d.EBIT.Abs(),
		d.EBT.Abs(),
		d.NetIncome.Abs(),
		d.CFO.Abs(),
		d.CFI.Abs(),
		d.CFF.Abs(),
		d.Cash.Abs(),
		d.Balance.Abs(),
	)
}

// BaselineFinancials builds the starting statement set for the base period.
func BaselineFinancials() Financials {
	m := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	income := IncomeStatement{
		Revenue:         m(7200),
		COGS:            m(-4900),
		RD:              m(-800),
		MarketingSales:  m(-680),
		GA:              m(-770),
		DA:              m(-380),
		InterestIncome:  m(40),
		InterestExpense: m(-520),
		OneOffs:         m(-200),
	}.Recomputed()

	cashFlow := CashFlowStatement{
		NetIncome:            income.NetIncome,
		DA:                   m(380),
		WorkingCapitalChange: m(200),
		Capex:                m(-600),
		MA:                   m(-100),
		DebtIssuedRepaid:     m(800),
		ShareBuyback:         m(0),
		Dividends:            m(-50),
		EndingCash:           m(-435),
	}.Recomputed()

	balance := BalanceSheet{
		Cash:                     m(400),
		AccountsReceivable:       m(1100),
		Inventory:                m(1700),
		NetPPE:                   m(3800),
		Investments:              m(2500),
		OtherNonCurrentAssets:    m(2500),
		AccountsPayable:          m(1600),
		ShortTermDebt:            m(2600),
		BondsLoans:               m(4000),
		OtherLongTermLiabilities: m(1400),
		PaidInCapital:            m(3000),
		RetainedEarnings:         m(-600),
	}.ForceBalanced()

	return Financials{
		Income:      income,
		CashFlow:    cashFlow,
		Balance:     balance,
		PeriodLabel: "2025 Base Period",
	}
}
