package domain

import (
	"github.com/shopspring/decimal"
)

// Action is the exhaustive tagged union of state transitions. Exactly one
// pure transition function consumes actions; implementations carry only the
// payload needed for their transition.
type Action interface {
	isAction()
	// Kind returns a stable snake_case tag used for logging and transport.
	Kind() string
}

// SetPrice moves the market to the requested price, regenerates the book and
// replays resting orders against it.
type SetPrice struct {
	Price decimal.Decimal
}

// NudgePrice applies a percentage move to the current price. Emitted by the
// background scheduler; ignored while auto-pause is on.
type NudgePrice struct {
	Pct decimal.Decimal
}

// SubmitOrder matches an incoming manual order against the opposing side.
type SubmitOrder struct {
	Side     Side
	Price    decimal.Decimal
	Lots     int64
	BidderID string
}

// SimulateQuarter advances the financial statements one period and derives a
// price move from the statement delta.
type SimulateQuarter struct{}

// SetScenario switches the active macro outlook.
type SetScenario struct {
	Scenario Scenario
}

// EditOwnership asks to move one holder's stake to a target percentage; the
// ledger clamps the transfer against the float and cash affordability.
type EditOwnership struct {
	HolderID     string
	TargetShares decimal.Decimal
}

// AddHeadline prepends a headline to the news feed.
type AddHeadline struct {
	Text string
}

// ToggleAuto flips the auto-pause flag consumed by the nudge scheduler.
type ToggleAuto struct{}

// ToggleTheme flips the presentation theme flag carried in state.
type ToggleTheme struct{}

// Reset restores the baseline state.
type Reset struct{}

func (SetPrice) isAction()        {}
func (NudgePrice) isAction()      {}
func (SubmitOrder) isAction()     {}
func (SimulateQuarter) isAction() {}
func (SetScenario) isAction()     {}
func (EditOwnership) isAction()   {}
func (AddHeadline) isAction()     {}
func (ToggleAuto) isAction()      {}
func (ToggleTheme) isAction()     {}
func (Reset) isAction()           {}

func (SetPrice) Kind() string        { return "set_price" }
func (NudgePrice) Kind() string      { return "nudge_price" }
func (SubmitOrder) Kind() string     { return "submit_order" }
func (SimulateQuarter) Kind() string { return "simulate_quarter" }
func (SetScenario) Kind() string     { return "set_scenario" }
func (EditOwnership) Kind() string   { return "edit_ownership" }
func (AddHeadline) Kind() string     { return "add_headline" }
func (ToggleAuto) Kind() string      { return "toggle_auto" }
func (ToggleTheme) Kind() string     { return "toggle_theme" }
func (Reset) Kind() string           { return "reset" }
