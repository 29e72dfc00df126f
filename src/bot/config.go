package bot

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIKey    string `envconfig:"MB_API_KEY"`
	APISecret string `envconfig:"MB_API_SECRET"`

	TargetSymbol string        `envconfig:"TARGET_SYMBOL" default:"BTC-BRL"`
	LoopPeriod   time.Duration `envconfig:"LOOP_PERIOD" default:"30s"`

	// paper runs against the in-memory exchange simulation; stream sources
	// prices from the websocket feed instead of REST polling.
	PaperTrading bool   `envconfig:"PAPER_TRADING" default:"true"`
	UseStream    bool   `envconfig:"USE_TICKER_STREAM" default:"false"`
	PaperBase    string `envconfig:"PAPER_BASE_BALANCE" default:"0"`
	PaperQuote   string `envconfig:"PAPER_QUOTE_BALANCE" default:"10000"`

	Strategy         string `envconfig:"STRATEGY" default:"iteration"` // iteration | sma | threshold
	StrategyBudget   string `envconfig:"STRATEGY_BUDGET" default:"10000"`
	IterationSell    int    `envconfig:"ITERATION_SELL_AFTER" default:"10"`
	SMAShortPeriod   int    `envconfig:"SMA_SHORT_PERIOD" default:"10"`
	SMALongPeriod    int    `envconfig:"SMA_LONG_PERIOD" default:"30"`
	ThresholdBuy     string `envconfig:"THRESHOLD_BUY_BELOW" default:"0"`
	ThresholdSell    string `envconfig:"THRESHOLD_SELL_ABOVE" default:"0"`

	ReportSink string `envconfig:"REPORT_SINK" default:"none"` // none | csv | db
	ReportDir  string `envconfig:"REPORT_DIR" default:"report/data"`

	StatusPort string `envconfig:"STATUS_PORT" default:""`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
