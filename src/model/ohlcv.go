package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OHLCV is one stored candle, downloaded by the candles command and read
// back by database-sourced backtests.
type OHLCV struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Datetime time.Time       `gorm:"uniqueIndex:idx_ohlcv_symbol_datetime" json:"datetime"`
	Open     decimal.Decimal `gorm:"type:numeric" json:"open"`
	High     decimal.Decimal `gorm:"type:numeric" json:"high"`
	Low      decimal.Decimal `gorm:"type:numeric" json:"low"`
	Close    decimal.Decimal `gorm:"type:numeric" json:"close"`
	Volume   decimal.Decimal `gorm:"type:numeric" json:"volume"`
	Symbol   string          `gorm:"size:20;uniqueIndex:idx_ohlcv_symbol_datetime" json:"symbol"`
}

func (OHLCV) TableName() string {
	return "ohlcv"
}

// ToSeries converts stored candles, ordered by datetime, into the column
// form the backtester consumes.
func ToSeries(rows []OHLCV) *CandleSeries {
	series := &CandleSeries{}
	for i := range rows {
		series.Open = append(series.Open, rows[i].Open)
		series.High = append(series.High, rows[i].High)
		series.Low = append(series.Low, rows[i].Low)
		series.Close = append(series.Close, rows[i].Close)
		series.Volume = append(series.Volume, rows[i].Volume)
		series.Timestamp = append(series.Timestamp, rows[i].Datetime.Unix())
	}
	return series
}
