// REST client for the Mercado Bitcoin v4 public endpoints.
// No authentication required, ideal for price-only consumers.
package connectors

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"spottrader/src/model"
)

// PublicAPI is the market-data capability the bot consumes.
type PublicAPI interface {
	GetTicker(ctx context.Context, symbol string) (*model.TickerData, error)
}

// CandleAPI fetches historical candles for backtesting.
type CandleAPI interface {
	GetCandles(ctx context.Context, symbol string, from, to time.Time, resolution string) (*model.CandleSeries, error)
}

const (
	// Default retry configuration, shared with the private client.
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 8 * time.Second
)

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return (code >= 500 && code <= 599) || code == 429 || code == 408
}

type PublicClient struct {
	http *resty.Client
}

func NewPublicClient(cfg Config) *PublicClient {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp).
		SetHeader("Content-Type", "application/json")

	return &PublicClient{http: httpClient}
}

// tickerResponse is the wire shape of GET /tickers. All numbers come back as
// strings; the date field is a unix timestamp.
type tickerResponse struct {
	Pair string          `json:"pair"`
	High decimal.Decimal `json:"high"`
	Low  decimal.Decimal `json:"low"`
	Vol  decimal.Decimal `json:"vol"`
	Last decimal.Decimal `json:"last"`
	Buy  decimal.Decimal `json:"buy"`
	Sell decimal.Decimal `json:"sell"`
	Open decimal.Decimal `json:"open"`
	Date int64           `json:"date"`
}

func (t *tickerResponse) toModel() *model.TickerData {
	return &model.TickerData{
		Pair:      t.Pair,
		Buy:       t.Buy,
		Sell:      t.Sell,
		High:      t.High,
		Low:       t.Low,
		Open:      t.Open,
		Last:      t.Last,
		Vol:       t.Vol,
		Timestamp: time.Unix(t.Date, 0),
	}
}

func (c *PublicClient) GetTicker(ctx context.Context, symbol string) (*model.TickerData, error) {
	var tickers []tickerResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbols", symbol).
		SetResult(&tickers).
		Get("/tickers")
	if err != nil {
		return nil, &model.TransportError{Op: "GetTicker", Err: err}
	}
	if resp.StatusCode() != 200 {
		return nil, &model.TransportError{
			Op:     "GetTicker",
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("unexpected response: %s", resp.String()),
		}
	}
	if len(tickers) == 0 {
		return nil, &model.TransportError{Op: "GetTicker", Err: fmt.Errorf("no ticker returned for %s", symbol)}
	}

	logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"last":   tickers[0].Last,
	}).Debug("ticker fetched")

	return tickers[0].toModel(), nil
}

// candlesResponse mirrors the TradingView-style column arrays of GET /candles.
type candlesResponse struct {
	Close     []decimal.Decimal `json:"c"`
	High      []decimal.Decimal `json:"h"`
	Low       []decimal.Decimal `json:"l"`
	Open      []decimal.Decimal `json:"o"`
	Timestamp []int64           `json:"t"`
	Volume    []decimal.Decimal `json:"v"`
}

func (c *PublicClient) GetCandles(ctx context.Context, symbol string, from, to time.Time, resolution string) (*model.CandleSeries, error) {
	var candles candlesResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     symbol,
			"resolution": resolution,
			"from":       strconv.FormatInt(from.Unix(), 10),
			"to":         strconv.FormatInt(to.Unix(), 10),
		}).
		SetResult(&candles).
		Get("/candles")
	if err != nil {
		return nil, &model.TransportError{Op: "GetCandles", Err: err}
	}
	if resp.StatusCode() != 200 {
		return nil, &model.TransportError{
			Op:     "GetCandles",
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("unexpected response: %s", resp.String()),
		}
	}

	return &model.CandleSeries{
		Open:      candles.Open,
		High:      candles.High,
		Low:       candles.Low,
		Close:     candles.Close,
		Volume:    candles.Volume,
		Timestamp: candles.Timestamp,
	}, nil
}
