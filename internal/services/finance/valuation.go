package finance

import (
	"github.com/shopspring/decimal"

	"github.com/BoraOzcoban/ma-simulatiion/internal/domain"
)

var (
	sharesOutstanding = decimal.NewFromInt(domain.SharesOutstanding)
	millions          = decimal.NewFromInt(1_000_000)
)

// Valuation is a read-only projection of price against the current
// statements, consumed by the presentation layer.
type Valuation struct {
	MarketCap         decimal.Decimal  `json:"market_cap"`
	BookValuePerShare decimal.Decimal  `json:"book_value_per_share"`
	PB                decimal.Decimal  `json:"pb"`
	PS                decimal.Decimal  `json:"ps"`
	PE                *decimal.Decimal `json:"pe"` // nil when eps <= 0
	NetDebtOrCash     decimal.Decimal  `json:"net_debt_or_cash"`
}

// Valuate computes the valuation metrics at the given price. Statement
// values are in USD millions; the price is per share.
func Valuate(price decimal.Decimal, financials domain.Financials) Valuation {
	marketCap := price.Mul(sharesOutstanding)
	bookValuePerShare := financials.Balance.Equity.Mul(millions).Div(sharesOutstanding)

	pb := decimal.Zero
	if !bookValuePerShare.IsZero() {
		pb = price.Div(bookValuePerShare)
	}

	ps := decimal.Zero
	if revenueUSD := financials.Income.Revenue.Mul(millions); !revenueUSD.IsZero() {
		ps = marketCap.Div(revenueUSD)
	}

	var pe *decimal.Decimal
	if financials.Income.EPS.IsPositive() {
		v := price.Div(financials.Income.EPS)
		pe = &v
	}

	totalDebt := financials.Balance.ShortTermDebt.Add(financials.Balance.BondsLoans)
	netDebtOrCash := totalDebt.Sub(financials.Balance.Cash)

	return Valuation{
		MarketCap:         marketCap,
		BookValuePerShare: bookValuePerShare,
		PB:                pb,
		PS:                ps,
		PE:                pe,
		NetDebtOrCash:     netDebtOrCash,
	}
}
