package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"spottrader/cmd/backtest"
	"spottrader/cmd/candles"
	"spottrader/cmd/trade"
)

var Version string

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.WithError(err).Debug("no .env file loaded")
	}
	SetupLogger()

	app := cli.NewApp()
	app.Name = "Spot Trader CMD"
	app.Usage = "The spot trader command line interface"
	app.Version = Version

	app.Commands = []cli.Command{
		tradeCMD,
		backtestCMD,
		candlesCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	tradeCMD = cli.Command{
		Name:        "trade",
		Usage:       "run the live trading loop",
		Action:      tradeAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the tick-driven trading loop against the exchange or the paper simulation`,
	}
	backtestCMD = cli.Command{
		Name:        "backtest",
		Usage:       "replay a strategy over historical candles",
		Action:      backtestAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Replay the configured strategy over a candle range and print the run summary`,
	}
	candlesCMD = cli.Command{
		Name:        "candles",
		Usage:       "download candles into the database",
		Action:      candlesAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Download OHLCV candles and upsert them into the candle store`,
	}
)

func tradeAction(_ *cli.Context) error {
	logger.Info("Starting trade CMD")

	t := &trade.Trader{
		Log: logger.WithField("cmd", "trade"),
	}
	if err := t.Start(); err != nil {
		logger.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func backtestAction(_ *cli.Context) error {
	logger.Info("Starting backtest CMD")

	b := &backtest.Backtester{
		Log: logger.WithField("cmd", "backtest"),
	}
	if err := b.Start(); err != nil {
		logger.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func candlesAction(_ *cli.Context) error {
	logger.Info("Starting candles CMD")

	c := &candles.Downloader{
		Log: logger.WithField("cmd", "candles"),
	}
	if err := c.Start(); err != nil {
		logger.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}
