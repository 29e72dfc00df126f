// Package bot orchestrates one trading session: fetch price, evaluate the
// strategy, place orders through the account, emit telemetry, sleep, repeat.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"spottrader/src/account"
	"spottrader/src/connectors"
	"spottrader/src/model"
	"spottrader/src/report"
	"spottrader/src/strategy"
)

type Bot struct {
	api      connectors.PublicAPI
	strategy strategy.Strategy
	account  *account.Account
	report   report.Report
	symbol   string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	// hold-analysis inputs, captured while ticking
	firstEntry *model.Order
	firstPrice decimal.Decimal
	lastPrice  decimal.Decimal
	havePrice  bool

	lastClosed *model.Position

	log   *logrus.Entry
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

func New(api connectors.PublicAPI, strat strategy.Strategy, acc *account.Account, rep report.Report, log *logrus.Entry) *Bot {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if rep == nil {
		rep = report.NullReport{}
	}

	b := &Bot{
		api:      api,
		strategy: strat,
		account:  acc,
		report:   rep,
		symbol:   acc.Symbol(),
		log:      log.WithField("component", "bot"),
		now:      time.Now,
	}
	b.sleep = b.wait
	return b
}

// wait blocks for the tick interval, waking early on a stop request or
// context cancellation. The inter-tick sleep is the loop's only
// cancellation point.
func (b *Bot) wait(ctx context.Context, d time.Duration) bool {
	b.mu.Lock()
	stopCh := b.stopCh
	b.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func (b *Bot) stopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.running
}

// Run drives the tick loop until Stop is called or ctx is canceled. Every
// error except a stop request is logged and retried on the next tick; the
// loop is meant to outlive transient exchange failures. Re-invoking Run
// after a stop starts a fresh session.
func (b *Bot) Run(ctx context.Context, interval time.Duration) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = true
	b.stopCh = make(chan struct{})
	b.mu.Unlock()

	b.log.WithFields(map[string]interface{}{
		"symbol":   b.symbol,
		"interval": interval,
	}).Info("bot started")

	for {
		if b.stopped() {
			return nil
		}
		if ctx.Err() != nil {
			b.Stop()
			return nil
		}

		ticker, err := b.api.GetTicker(ctx, b.symbol)
		if err != nil {
			b.log.WithError(err).Error("failed to fetch ticker, retrying next tick")
			if !b.sleep(ctx, interval) {
				b.Stop()
				return nil
			}
			continue
		}

		b.processTick(ctx, ticker)

		if !b.sleep(ctx, interval) {
			b.Stop()
			return nil
		}
	}
}

// processTick runs the per-tick protocol for one observed ticker. It never
// returns an error: failures are logged and the tick abandoned.
func (b *Bot) processTick(ctx context.Context, ticker *model.TickerData) {
	b.mu.Lock()
	defer b.mu.Unlock()

	price := ticker.Last
	if !b.havePrice {
		b.firstPrice = price
		b.havePrice = true
	}
	b.lastPrice = price

	b.log.WithFields(map[string]interface{}{
		"symbol":       b.symbol,
		"price":        price,
		"realized_pnl": b.account.GetTotalRealizedPnl(),
	}).Info("price tick")

	signal := b.strategy.OnMarketRefresh(price, b.account.GetPosition(), b.account.PositionHistory())
	if signal != nil {
		order, err := b.account.PlaceOrder(ctx, price, signal.Side, signal.Quantity)
		if err != nil {
			// A gating rejection or transport failure abandons the tick;
			// the loop carries on at the next interval.
			b.log.WithError(err).WithFields(map[string]interface{}{
				"side": signal.Side,
				"qty":  signal.Quantity,
			}).Warn("order not placed, abandoning tick")
			return
		}

		b.log.WithFields(map[string]interface{}{
			"order_id": order.OrderID,
			"side":     order.Side,
			"price":    order.Price,
			"qty":      order.Quantity,
		}).Info("order placed")

		if order.Side == model.SideBuy && b.firstEntry == nil {
			b.firstEntry = order
			b.log.Info("first entry recorded for hold analysis")
		}
	}

	position := b.account.GetPosition()
	if position != nil {
		b.log.WithFields(map[string]interface{}{
			"type":        position.Type,
			"qty":         position.EntryOrder.Quantity,
			"entry_price": position.EntryOrder.Price,
			"pnl":         position.UnrealizedPnl(price),
		}).Info("open position")
	} else if history := b.account.PositionHistory(); len(history) > 0 {
		closed := history[len(history)-1]
		if closed != b.lastClosed {
			b.lastClosed = closed
			entry := b.log.WithField("pnl", closed.RealizedPnl())
			if closed.RealizedPnl().IsPositive() {
				entry.Info("position closed with profit")
			} else {
				entry.Info("position closed with loss")
			}
		}
	}

	unrealized := b.account.GetUnrealizedPnl(price)
	realized := b.account.GetTotalRealizedPnl()
	b.log.WithFields(map[string]interface{}{
		"unrealized_pnl": unrealized,
		"realized_pnl":   realized,
	}).Info("pnl")

	// Telemetry is best effort; a sink failure never aborts the tick.
	err := b.report.SaveIterationData(ctx, report.IterationData{
		Timestamp:     ticker.Timestamp,
		Symbol:        b.symbol,
		CurrentPrice:  price,
		Position:      position,
		UnrealizedPnl: unrealized,
		RealizedPnl:   realized,
		Signal:        signal,
	})
	if err != nil {
		b.log.WithError(err).Warn("failed to save iteration data")
	}
}

// Stop is idempotent: the first call transitions the bot to stopped and
// emits the end-of-run summary; later calls do nothing.
func (b *Bot) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.stopCh)
	b.mu.Unlock()

	b.log.Info("bot stopped")
	b.logSummary()
}
