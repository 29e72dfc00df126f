package bot

import (
	"context"
	"fmt"
	"time"

	"spottrader/src/connectors"
)

// Backtest replays historical candle closes through the same tick path as a
// live session. The account should be backed by the paper client so orders
// settle in memory.
type Backtest struct {
	bot     *Bot
	candles connectors.CandleAPI
}

func NewBacktest(b *Bot, candles connectors.CandleAPI) *Backtest {
	return &Backtest{bot: b, candles: candles}
}

// Run feeds every candle in [from, to] through the bot and returns the final
// run summary.
func (bt *Backtest) Run(ctx context.Context, from, to time.Time, resolution string) (*RunSummary, error) {
	series, err := bt.candles.GetCandles(ctx, bt.bot.symbol, from, to, resolution)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("no candles for %s between %s and %s", bt.bot.symbol, from, to)
	}

	bt.bot.log.WithFields(map[string]interface{}{
		"symbol":     bt.bot.symbol,
		"candles":    series.Len(),
		"resolution": resolution,
	}).Info("backtest started")

	for i := 0; i < series.Len(); i++ {
		if ctx.Err() != nil {
			break
		}
		ticker := series.TickerAt(i, bt.bot.symbol)
		bt.bot.processTick(ctx, &ticker)
	}

	summary := bt.bot.Summary()
	bt.bot.logSummary()
	return &summary, nil
}
