package backtest

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	From       time.Time `envconfig:"BACKTEST_FROM" default:"2025-01-01T00:00:00Z"`
	To         time.Time `envconfig:"BACKTEST_TO" default:"2025-02-01T00:00:00Z"`
	Resolution string    `envconfig:"BACKTEST_RESOLUTION" default:"1h"`
	Source     string    `envconfig:"BACKTEST_SOURCE" default:"api"` // api | db
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
