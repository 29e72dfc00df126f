package strategy

import (
	"github.com/shopspring/decimal"

	"spottrader/src/model"
	"spottrader/src/risk"
)

var smaBudgetFraction = decimal.RequireFromString("0.1")

// SimpleMovingAverageStrategy trades the crossover of a short and a long
// simple moving average: buy while the short SMA is above the long one, sell
// the open position once it drops below.
type SimpleMovingAverageStrategy struct {
	shortPeriod int
	longPeriod  int
	budget      decimal.Decimal

	priceHistory []decimal.Decimal
}

func NewSimpleMovingAverageStrategy(shortPeriod, longPeriod int, budget decimal.Decimal) *SimpleMovingAverageStrategy {
	return &SimpleMovingAverageStrategy{
		shortPeriod: shortPeriod,
		longPeriod:  longPeriod,
		budget:      budget,
	}
}

func (s *SimpleMovingAverageStrategy) sma(period int) decimal.Decimal {
	if len(s.priceHistory) < period {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, price := range s.priceHistory[len(s.priceHistory)-period:] {
		sum = sum.Add(price)
	}
	return sum.Div(decimal.NewFromInt(int64(period)))
}

func (s *SimpleMovingAverageStrategy) OnMarketRefresh(currentPrice decimal.Decimal, currentPosition *model.Position, positionHistory []*model.Position) *model.PositionSignal {
	s.priceHistory = append(s.priceHistory, currentPrice)
	if len(s.priceHistory) > s.longPeriod {
		s.priceHistory = s.priceHistory[1:]
	}
	if len(s.priceHistory) < s.longPeriod {
		return nil
	}

	shortSMA := s.sma(s.shortPeriod)
	longSMA := s.sma(s.longPeriod)

	if currentPosition == nil {
		if shortSMA.GreaterThan(longSMA) {
			quantity := risk.QuantityForBudget(s.budget, currentPrice, smaBudgetFraction)
			if quantity.IsZero() {
				return nil
			}
			return &model.PositionSignal{Side: model.SideBuy, Quantity: quantity}
		}
		return nil
	}

	if shortSMA.LessThan(longSMA) {
		return &model.PositionSignal{Side: model.SideSell, Quantity: currentPosition.EntryOrder.Quantity}
	}
	return nil
}
