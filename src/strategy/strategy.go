// Package strategy defines the per-tick decision contract and a few
// concrete strategies. Strategies are pure with respect to the engine: they
// may keep internal state but never place orders or mutate positions.
package strategy

import (
	"github.com/shopspring/decimal"

	"spottrader/src/model"
)

// Strategy decides, given the refreshed market price and the account's
// position state, whether to emit a buy/sell signal this tick. A nil return
// means do nothing. A signal inconsistent with the account gating is a
// caller error surfaced by the account's precondition check, not by the
// strategy.
type Strategy interface {
	OnMarketRefresh(currentPrice decimal.Decimal, currentPosition *model.Position, positionHistory []*model.Position) *model.PositionSignal
}
