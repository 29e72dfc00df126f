package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spottrader/src/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func openPosition(price, qty string) *model.Position {
	return model.NewLongPosition(&model.Order{
		OrderID:   "test-order",
		Symbol:    "BTC-BRL",
		Side:      model.SideBuy,
		Quantity:  dec(qty),
		Price:     dec(price),
		Timestamp: time.Now(),
	})
}

func TestIterationStrategyBuysFirstThenSellsAfterN(t *testing.T) {
	strat := NewIterationStrategy(3, dec("10000"))

	signal := strat.OnMarketRefresh(dec("100000"), nil, nil)
	require.NotNil(t, signal)
	assert.Equal(t, model.SideBuy, signal.Side)
	// 80% of 10000 at 100000 -> 0.08
	assert.True(t, signal.Quantity.Equal(dec("0.08")), "quantity = %s", signal.Quantity)

	pos := openPosition("100000", "0.08")

	assert.Nil(t, strat.OnMarketRefresh(dec("100500"), pos, nil))
	assert.Nil(t, strat.OnMarketRefresh(dec("101000"), pos, nil))

	signal = strat.OnMarketRefresh(dec("101500"), pos, nil)
	require.NotNil(t, signal)
	assert.Equal(t, model.SideSell, signal.Side)
	assert.True(t, signal.Quantity.Equal(dec("0.08")))

	// Flat again: the hold counter restarts with a new buy.
	signal = strat.OnMarketRefresh(dec("101500"), nil, nil)
	require.NotNil(t, signal)
	assert.Equal(t, model.SideBuy, signal.Side)
}

func TestSimpleMovingAverageStrategy(t *testing.T) {
	strat := NewSimpleMovingAverageStrategy(3, 5, dec("10000"))

	// Falling prices: no buy while the short SMA stays below the long one.
	for _, price := range []string{"100", "95", "90", "85", "80"} {
		assert.Nil(t, strat.OnMarketRefresh(dec(price), nil, nil))
	}

	// Recovery pushes the short SMA above the long one.
	var signal *model.PositionSignal
	for _, price := range []string{"85", "90", "95"} {
		signal = strat.OnMarketRefresh(dec(price), nil, nil)
	}
	require.NotNil(t, signal)
	assert.Equal(t, model.SideBuy, signal.Side)

	// A downturn while long produces the sell.
	pos := openPosition("95", "0.01")
	for _, price := range []string{"90", "85", "80", "75"} {
		signal = strat.OnMarketRefresh(dec(price), pos, nil)
		if signal != nil {
			break
		}
	}
	require.NotNil(t, signal)
	assert.Equal(t, model.SideSell, signal.Side)
	assert.True(t, signal.Quantity.Equal(dec("0.01")))
}

func TestThresholdStrategy(t *testing.T) {
	strat := NewThresholdStrategy(dec("290000"), dec("310000"), dec("10000"))

	assert.Nil(t, strat.OnMarketRefresh(dec("300000"), nil, nil), "no signal between thresholds")

	signal := strat.OnMarketRefresh(dec("289000"), nil, nil)
	require.NotNil(t, signal)
	assert.Equal(t, model.SideBuy, signal.Side)

	pos := openPosition("289000", "0.02")

	assert.Nil(t, strat.OnMarketRefresh(dec("305000"), pos, nil), "no sell below exit threshold")

	signal = strat.OnMarketRefresh(dec("311000"), pos, nil)
	require.NotNil(t, signal)
	assert.Equal(t, model.SideSell, signal.Side)
	assert.True(t, signal.Quantity.Equal(dec("0.02")))
}
