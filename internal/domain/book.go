package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side marks an order or level as belonging to the bid or ask side.
type Side int

const (
	SideBid Side = iota
	SideAsk
)

const (
	sideStringBid = "bid"
	sideStringAsk = "ask"
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideBid:
		return sideStringBid
	case SideAsk:
		return sideStringAsk
	default:
		return "unknown"
	}
}

// ParseSide converts a string into a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case sideStringBid:
		return SideBid, true
	case sideStringAsk:
		return SideAsk, true
	}
	return SideBid, false
}

// MarshalText implements encoding.TextMarshaler so sides serialize as "bid"/"ask".
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	side, ok := ParseSide(string(text))
	if !ok {
		return fmt.Errorf("unknown side %q", string(text))
	}
	*s = side
	return nil
}

// PriceLevel is an aggregated book entry: all resting liquidity at one price.
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Lots  int64           `json:"lots"`
}

// OrderBook holds both displayable sides of the book. Bids are sorted
// descending by price, asks ascending.
type OrderBook struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

// Clone deep-copies the book.
func (b OrderBook) Clone() OrderBook {
	return OrderBook{
		Bids: append([]PriceLevel(nil), b.Bids...),
		Asks: append([]PriceLevel(nil), b.Asks...),
	}
}

// Fill is one (price, lots) slice of a matched trade against a single level.
type Fill struct {
	Price decimal.Decimal `json:"price"`
	Lots  int64           `json:"lots"`
}

// RestingOrder is a manually submitted order whose lots were not fully matched
// at submission. It persists across synthetic book regenerations until filled.
type RestingOrder struct {
	ID          string          `json:"id"`
	Side        Side            `json:"side"`
	Price       decimal.Decimal `json:"price"`
	Lots        int64           `json:"lots"`
	BidderID    string          `json:"bidder_id,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// NewRestingOrder validates and constructs a resting order.
func NewRestingOrder(id string, side Side, price decimal.Decimal, lots int64, bidderID string, submittedAt time.Time) (RestingOrder, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return RestingOrder{}, fmt.Errorf("order price must be positive, got %s", price.String())
	}
	if lots < 1 {
		return RestingOrder{}, fmt.Errorf("order lots must be >= 1, got %d", lots)
	}

	return RestingOrder{
		ID:          id,
		Side:        side,
		Price:       price.Round(2),
		Lots:        lots,
		BidderID:    bidderID,
		SubmittedAt: submittedAt,
	}, nil
}
