package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountData identifies one exchange account (one per currency on Mercado
// Bitcoin).
type AccountData struct {
	ID           string `json:"id"`
	Currency     string `json:"currency"`
	CurrencySign string `json:"currencySign"`
	Name         string `json:"name"`
	Type         string `json:"type"`
}

// AccountBalanceData is the balance of a single currency inside an account.
type AccountBalanceData struct {
	Symbol    string          `json:"symbol"`
	Available decimal.Decimal `json:"available"`
	OnHold    decimal.Decimal `json:"on_hold"`
	Total     decimal.Decimal `json:"total"`
}

// TickerData is a public ticker snapshot for one pair.
type TickerData struct {
	Pair      string          `json:"pair"`
	Buy       decimal.Decimal `json:"buy"`
	Sell      decimal.Decimal `json:"sell"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Open      decimal.Decimal `json:"open"`
	Last      decimal.Decimal `json:"last"`
	Vol       decimal.Decimal `json:"vol"`
	Timestamp time.Time       `json:"timestamp"`
}

// CandleSeries holds a historical candle window in column form, as returned
// by the exchange candles endpoint.
type CandleSeries struct {
	Open      []decimal.Decimal
	High      []decimal.Decimal
	Low       []decimal.Decimal
	Close     []decimal.Decimal
	Volume    []decimal.Decimal
	Timestamp []int64
}

func (c *CandleSeries) Len() int {
	return len(c.Close)
}

// TickerAt builds a ticker view of the candle at index i, so backtests can
// feed candle closes through the same tick path as live tickers.
func (c *CandleSeries) TickerAt(i int, pair string) TickerData {
	return TickerData{
		Pair:      pair,
		Buy:       c.Close[i],
		Sell:      c.Close[i],
		High:      c.High[i],
		Low:       c.Low[i],
		Open:      c.Open[i],
		Last:      c.Close[i],
		Vol:       c.Volume[i],
		Timestamp: time.Unix(c.Timestamp[i], 0),
	}
}
