package domain

import (
	"github.com/shopspring/decimal"
)

// seedNews is the headline feed restored on every reset.
var seedNews = []string{
	"Astorium board evaluates strategic merger alternatives.",
	"Activist investors push for stronger cash discipline.",
	"Sector peers report mixed demand in enterprise hardware.",
	"Rating agency places Astorium debt on watch with negative outlook.",
	"Rumors suggest two private-equity consortia preparing bids.",
}

// EngineState is the full simulator state. It is owned exclusively by the
// orchestrator; every transition consumes one value and produces a new one,
// never mutating in place.
type EngineState struct {
	Price            decimal.Decimal   `json:"price"`
	LastChangeAmount decimal.Decimal   `json:"last_change_amount"`
	LastChangePct    decimal.Decimal   `json:"last_change_pct"`
	PriceHistory     []decimal.Decimal `json:"price_history"`
	AutoPaused       bool              `json:"auto_paused"`
	DarkMode         bool              `json:"dark_mode"`
	News             []string          `json:"news"`
	RestingOrders    []RestingOrder    `json:"resting_orders"`
	Book             OrderBook         `json:"order_book"`
	Scenario         Scenario          `json:"scenario"`
	Financials       Financials        `json:"financials"`
	Ownership        Roster            `json:"ownership"`
}

// Clone deep-copies the state so transitions can build the next value without
// touching the prior one.
func (s EngineState) Clone() EngineState {
	s.PriceHistory = append([]decimal.Decimal(nil), s.PriceHistory...)
	s.News = append([]string(nil), s.News...)
	s.RestingOrders = append([]RestingOrder(nil), s.RestingOrders...)
	s.Book = s.Book.Clone()
	s.Ownership = s.Ownership.Clone()
	return s
}

// PushPrice appends a point to the bounded price-history ring.
func (s *EngineState) PushPrice(price decimal.Decimal) {
	history := append(s.PriceHistory, price)
	if len(history) > PriceHistoryCap {
		history = history[len(history)-PriceHistoryCap:]
	}
	s.PriceHistory = history
}

// PushNews prepends a headline to the bounded feed.
func (s *EngineState) PushNews(headline string) {
	news := append([]string{headline}, s.News...)
	if len(news) > NewsCap {
		news = news[:NewsCap]
	}
	s.News = news
}

// BaselineState constructs the fresh starting state at the given price.
// The book is left empty: the orchestrator generates and merges it as part
// of its own initialisation so book randomness stays behind the injected
// sampling source.
func BaselineState(initialPrice decimal.Decimal) EngineState {
	price := initialPrice.Round(2)

	history := make([]decimal.Decimal, 0, PriceHistoryCap)
	for i := 0; i < 24; i++ {
		history = append(history, price)
	}

	return EngineState{
		Price:            price,
		LastChangeAmount: decimal.Zero,
		LastChangePct:    decimal.Zero,
		PriceHistory:     history,
		AutoPaused:       false,
		DarkMode:         true,
		News:             append([]string(nil), seedNews...),
		RestingOrders:    nil,
		Book:             OrderBook{},
		Scenario:         ScenarioNeutral,
		Financials:       BaselineFinancials(),
		Ownership:        BaselineRoster(),
	}
}
