package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL     string        `envconfig:"MB_BASE_URL" default:"https://api.mercadobitcoin.net/api/v4"`
	WSBaseURL   string        `envconfig:"MB_WS_BASE_URL" default:"wss://ws.mercadobitcoin.net/ws"`
	HTTPTimeout time.Duration `envconfig:"MB_HTTP_TIMEOUT" default:"15s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
