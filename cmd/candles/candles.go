package candles

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"spottrader/src/database"
	"spottrader/src/model"
	"spottrader/src/repository"
)

const (
	Duration1m = "1m"
	Duration1h = "1h"
)

// Downloader pulls OHLCV candles from the exchange and upserts them into
// the candle store for database-sourced backtests.
type Downloader struct {
	Log      *logger.Entry
	Config   *Config
	exchange goex.API
	repo     *repository.OHLCVRepository
}

func (d *Downloader) Start() error {
	d.Config = GetConfig()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := database.InitDB(); err != nil {
		return err
	}
	d.repo = repository.NewOHLCVRepository()
	d.exchange = newBinanceInstance()

	if d.Config.AutoMode {
		if err := d.determineStartPoint(ctx); err != nil {
			return err
		}
	}

	return d.fetchAndSave(ctx)
}

func newBinanceInstance() *binance.Binance {
	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}
	return binance.NewWithConfig(apiConfig)
}

func (d *Downloader) storedSymbol() string {
	return d.Config.Symbol + "-" + d.Config.Quote
}

func (d *Downloader) fetchAndSave(ctx context.Context) error {
	klines, err := d.fetchKlines()
	if err != nil {
		d.Log.WithError(err).Error("fetchAndSave, GetKlineRecords")
		return err
	}

	rows := make([]model.OHLCV, 0, len(klines))
	for i := range klines {
		k := klines[i]
		rows = append(rows, model.OHLCV{
			Datetime: time.Unix(k.Timestamp, 0).UTC(),
			Open:     decimal.NewFromFloat(k.Open),
			High:     decimal.NewFromFloat(k.High),
			Low:      decimal.NewFromFloat(k.Low),
			Close:    decimal.NewFromFloat(k.Close),
			Volume:   decimal.NewFromFloat(k.Vol),
			Symbol:   d.storedSymbol(),
		})
	}

	if err := d.repo.UpsertBatch(ctx, rows); err != nil {
		d.Log.WithError(err).Error("fetchAndSave, UpsertBatch")
		return err
	}

	d.Log.WithFields(logger.Fields{
		"symbol": d.storedSymbol(),
		"rows":   len(rows),
	}).Info("Candle download finished")

	return nil
}

// determineStartPoint resumes from one interval before the newest stored
// candle so the still-forming bucket gets refreshed.
func (d *Downloader) determineStartPoint(ctx context.Context) error {
	d.Config.EndDt = time.Now()

	latest, err := d.repo.LatestDatetime(ctx, d.storedSymbol())
	if err != nil {
		d.Log.WithError(err).Error("Failed to query latest datetime")
		return err
	}

	if latest.Valid {
		d.Config.StartDt = latest.Time.Add(-d.parseDuration())
		d.Log.
			WithField("StartDt", d.Config.StartDt.String()).
			WithField("EndDt", d.Config.EndDt.String()).
			Info("determineStartPoint resuming from stored data")
	} else {
		d.Log.
			WithField("StartDt", d.Config.StartDt.String()).
			WithField("EndDt", d.Config.EndDt.String()).
			Info("determineStartPoint no stored data, using configured StartDt")
	}

	return nil
}

func (d *Downloader) fetchKlines() ([]goex.Kline, error) {
	targetSymbol := goex.NewCurrencyPair(
		goex.Currency{Symbol: d.Config.Symbol},
		goex.Currency{Symbol: d.Config.Quote},
	)

	const millis = 1000
	return d.exchange.GetKlineRecords(
		targetSymbol,
		d.parseDurationToGoex(),
		d.Config.Limit,
		goex.OptionalParameter{}.
			Optional("startTime", d.Config.StartDt.Unix()*millis).
			Optional("endTime", d.Config.EndDt.Unix()*millis),
	)
}

func (d *Downloader) parseDuration() time.Duration {
	switch d.Config.DurationStr {
	case Duration1m:
		return time.Minute
	case Duration1h:
		return time.Hour
	default:
		panic("invalid DURATION env var")
	}
}

func (d *Downloader) parseDurationToGoex() goex.KlinePeriod {
	switch d.Config.DurationStr {
	case Duration1m:
		return goex.KLINE_PERIOD_1MIN
	case Duration1h:
		return goex.KLINE_PERIOD_1H
	default:
		panic("invalid DURATION env var")
	}
}
