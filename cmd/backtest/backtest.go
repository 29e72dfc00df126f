package backtest

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"

	"spottrader/cmd/trade"
	"spottrader/src/account"
	"spottrader/src/bot"
	"spottrader/src/connectors"
	"spottrader/src/database"
	"spottrader/src/repository"
)

// Backtester replays the configured strategy over historical candles
// against the paper account and logs the resulting summary.
type Backtester struct {
	Log    *logger.Entry
	Config *Config
}

func (bt *Backtester) Start() error {
	bt.Config = GetConfig()
	botConfig := bot.GetConfig()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	// Backtests always run against the paper simulation.
	botConfig.PaperTrading = true

	privateAPI, err := trade.BuildPrivateAPI(botConfig)
	if err != nil {
		return err
	}

	acc, err := account.New(ctx, privateAPI, botConfig.TargetSymbol, bt.Log)
	if err != nil {
		return err
	}

	strat, err := trade.BuildStrategy(botConfig)
	if err != nil {
		return err
	}

	sink, err := trade.BuildReportSink(botConfig)
	if err != nil {
		return err
	}

	candleAPI, err := bt.buildCandleSource()
	if err != nil {
		return err
	}

	bt.Log.WithFields(map[string]interface{}{
		"symbol":     botConfig.TargetSymbol,
		"strategy":   botConfig.Strategy,
		"from":       bt.Config.From,
		"to":         bt.Config.To,
		"resolution": bt.Config.Resolution,
		"source":     bt.Config.Source,
	}).Info("Starting backtest")

	b := bot.New(nil, strat, acc, sink, bt.Log)
	runner := bot.NewBacktest(b, candleAPI)

	summary, err := runner.Run(ctx, bt.Config.From, bt.Config.To, bt.Config.Resolution)
	if err != nil {
		return err
	}

	bt.Log.WithFields(map[string]interface{}{
		"realized_pnl":    summary.RealizedPnl,
		"unrealized_pnl":  summary.UnrealizedPnl,
		"total_closed":    summary.TotalClosed,
		"profitable":      summary.Profitable,
		"price_variation": summary.PriceVariation,
	}).Info("Backtest finished")

	return nil
}

func (bt *Backtester) buildCandleSource() (connectors.CandleAPI, error) {
	switch bt.Config.Source {
	case "db":
		if err := database.InitDB(); err != nil {
			return nil, err
		}
		return repository.NewCandleStoreSource(repository.NewOHLCVRepository()), nil
	default:
		return connectors.NewPublicClient(connectors.GetConfig()), nil
	}
}
