package strategy

import (
	"github.com/shopspring/decimal"

	"spottrader/src/model"
	"spottrader/src/risk"
)

var iterationBudgetFraction = decimal.RequireFromString("0.8")

// IterationStrategy buys at the first opportunity and sells after holding
// for a fixed number of ticks. Deterministic, mainly useful for exercising
// the engine and as a test double.
type IterationStrategy struct {
	sellAfter int
	budget    decimal.Decimal

	held int
}

// NewIterationStrategy holds each position for sellAfter ticks, sizing the
// entry from 80% of the given quote-currency budget.
func NewIterationStrategy(sellAfter int, budget decimal.Decimal) *IterationStrategy {
	return &IterationStrategy{sellAfter: sellAfter, budget: budget}
}

func (s *IterationStrategy) OnMarketRefresh(currentPrice decimal.Decimal, currentPosition *model.Position, positionHistory []*model.Position) *model.PositionSignal {
	if currentPosition == nil {
		s.held = 0
		quantity := risk.QuantityForBudget(s.budget, currentPrice, iterationBudgetFraction)
		if quantity.IsZero() {
			return nil
		}
		return &model.PositionSignal{Side: model.SideBuy, Quantity: quantity}
	}

	s.held++
	if s.held >= s.sellAfter {
		return &model.PositionSignal{Side: model.SideSell, Quantity: currentPosition.EntryOrder.Quantity}
	}
	return nil
}
