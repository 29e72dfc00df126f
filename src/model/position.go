package model

import "github.com/shopspring/decimal"

type PositionType string

const (
	PositionLong  PositionType = "long"
	PositionShort PositionType = "short"
)

// Position is one open-to-close holding of the traded asset. EntryOrder is
// always set; ExitOrder is set exactly once, when the position closes, and
// the position is immutable from then on.
type Position struct {
	Type       PositionType `json:"type"`
	EntryOrder *Order       `json:"entry_order"`
	ExitOrder  *Order       `json:"exit_order,omitempty"`
}

func NewLongPosition(entry *Order) *Position {
	return &Position{Type: PositionLong, EntryOrder: entry}
}

func (p *Position) IsOpen() bool {
	return p.ExitOrder == nil
}

// UnrealizedPnl values the open position at the given price. It is only
// meaningful while the position is open.
func (p *Position) UnrealizedPnl(currentPrice decimal.Decimal) decimal.Decimal {
	return currentPrice.Sub(p.EntryOrder.Price).Mul(p.EntryOrder.Quantity)
}

// RealizedPnl is the profit locked in by the exit order. An open position
// has no realized PnL and returns zero by convention.
func (p *Position) RealizedPnl() decimal.Decimal {
	if p.ExitOrder == nil {
		return decimal.Zero
	}
	return p.ExitOrder.Price.Sub(p.EntryOrder.Price).Mul(p.EntryOrder.Quantity)
}
