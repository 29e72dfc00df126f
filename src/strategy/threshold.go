package strategy

import (
	"github.com/shopspring/decimal"

	"spottrader/src/model"
	"spottrader/src/risk"
)

var thresholdBudgetFraction = decimal.RequireFromString("0.8")

// ThresholdStrategy buys when the price falls to or below a fixed entry
// level and sells the open position when it rises to or above a fixed exit
// level.
type ThresholdStrategy struct {
	buyBelow  decimal.Decimal
	sellAbove decimal.Decimal
	budget    decimal.Decimal
}

func NewThresholdStrategy(buyBelow, sellAbove, budget decimal.Decimal) *ThresholdStrategy {
	return &ThresholdStrategy{buyBelow: buyBelow, sellAbove: sellAbove, budget: budget}
}

func (s *ThresholdStrategy) OnMarketRefresh(currentPrice decimal.Decimal, currentPosition *model.Position, positionHistory []*model.Position) *model.PositionSignal {
	if currentPosition == nil {
		if currentPrice.LessThanOrEqual(s.buyBelow) {
			quantity := risk.QuantityForBudget(s.budget, currentPrice, thresholdBudgetFraction)
			if quantity.IsZero() {
				return nil
			}
			return &model.PositionSignal{Side: model.SideBuy, Quantity: quantity}
		}
		return nil
	}

	if currentPrice.GreaterThanOrEqual(s.sellAbove) {
		return &model.PositionSignal{Side: model.SideSell, Quantity: currentPosition.EntryOrder.Quantity}
	}
	return nil
}
