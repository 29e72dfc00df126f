package trade

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"spottrader/src/account"
	"spottrader/src/bot"
	"spottrader/src/connectors"
	"spottrader/src/database"
	"spottrader/src/report"
	"spottrader/src/server"
	"spottrader/src/strategy"
)

// Trader wires the exchange clients, account, strategy and report sink
// into a running bot loop.
type Trader struct {
	Log *logger.Entry
}

func (t *Trader) Start() error {
	config := bot.GetConfig()
	connConfig := connectors.GetConfig()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	privateAPI, err := BuildPrivateAPI(config)
	if err != nil {
		return err
	}

	var publicAPI connectors.PublicAPI
	if config.UseStream {
		publicAPI = connectors.NewTickerStream(ctx, config.TargetSymbol, connConfig)
	} else {
		publicAPI = connectors.NewPublicClient(connConfig)
	}

	acc, err := account.New(ctx, privateAPI, config.TargetSymbol, t.Log)
	if err != nil {
		return err
	}

	strat, err := BuildStrategy(config)
	if err != nil {
		return err
	}

	sink, err := BuildReportSink(config)
	if err != nil {
		return err
	}

	b := bot.New(publicAPI, strat, acc, sink, t.Log)

	if config.StatusPort != "" {
		go server.Start(ctx, config.StatusPort, b)
	}

	t.Log.WithFields(map[string]interface{}{
		"symbol":   config.TargetSymbol,
		"strategy": config.Strategy,
		"paper":    config.PaperTrading,
		"period":   config.LoopPeriod,
	}).Info("Starting trading loop")

	return b.Run(ctx, config.LoopPeriod)
}

// BuildPrivateAPI returns the paper simulation or the authenticated
// exchange client depending on configuration.
func BuildPrivateAPI(config bot.Config) (connectors.PrivateAPI, error) {
	if config.PaperTrading {
		base, err := decimal.NewFromString(config.PaperBase)
		if err != nil {
			return nil, fmt.Errorf("invalid PAPER_BASE_BALANCE: %w", err)
		}
		quote, err := decimal.NewFromString(config.PaperQuote)
		if err != nil {
			return nil, fmt.Errorf("invalid PAPER_QUOTE_BALANCE: %w", err)
		}
		return connectors.NewFakePrivateClient(config.TargetSymbol, base, quote), nil
	}

	if config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("MB_API_KEY and MB_API_SECRET are required when paper trading is off")
	}
	return connectors.NewPrivateClient(config.APIKey, config.APISecret, connectors.GetConfig()), nil
}

// BuildStrategy constructs the configured strategy by name.
func BuildStrategy(config bot.Config) (strategy.Strategy, error) {
	budget, err := decimal.NewFromString(config.StrategyBudget)
	if err != nil {
		return nil, fmt.Errorf("invalid STRATEGY_BUDGET: %w", err)
	}

	switch config.Strategy {
	case "iteration":
		return strategy.NewIterationStrategy(config.IterationSell, budget), nil
	case "sma":
		return strategy.NewSimpleMovingAverageStrategy(config.SMAShortPeriod, config.SMALongPeriod, budget), nil
	case "threshold":
		buyBelow, err := decimal.NewFromString(config.ThresholdBuy)
		if err != nil {
			return nil, fmt.Errorf("invalid THRESHOLD_BUY_BELOW: %w", err)
		}
		sellAbove, err := decimal.NewFromString(config.ThresholdSell)
		if err != nil {
			return nil, fmt.Errorf("invalid THRESHOLD_SELL_ABOVE: %w", err)
		}
		return strategy.NewThresholdStrategy(buyBelow, sellAbove, budget), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", config.Strategy)
	}
}

// BuildReportSink constructs the configured iteration sink by name.
func BuildReportSink(config bot.Config) (report.Report, error) {
	switch config.ReportSink {
	case "none", "":
		return &report.NullReport{}, nil
	case "csv":
		return report.NewCsvReport(config.ReportDir, config.TargetSymbol)
	case "db":
		if err := database.InitDB(); err != nil {
			return nil, err
		}
		return report.NewDBReport(), nil
	default:
		return nil, fmt.Errorf("unknown report sink %q", config.ReportSink)
	}
}
