package domain

// Market-wide constants shared by the book, the ledger and the statement engine.
// Statement values are denominated in USD millions; ownership in percentage points.
const (
	// SharesOutstanding is the fixed share count of the single listed security.
	SharesOutstanding = 1_000_000_000
	// LotSizeShares is the number of underlying shares per traded lot.
	LotSizeShares = 100

	// BookDepth is the number of synthetic levels generated per side.
	BookDepth = 20
	// RenderDepth is the maximum number of levels exposed per side after merging.
	RenderDepth = 24
	// MinLevelLots and MaxLevelLots bound the synthetic liquidity per level.
	MinLevelLots = 20_000
	MaxLevelLots = 260_000

	// PriceHistoryCap is the size of the price-history ring.
	PriceHistoryCap = 60
	// NewsCap bounds the headline feed.
	NewsCap = 50

	// FloatHolderID identifies the counterparty of last resort in the roster.
	FloatHolderID = "retail"
)
