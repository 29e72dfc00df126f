package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spottrader/src/database"
	"spottrader/src/model"
)

// OHLCVRepository persists downloaded candles and serves them back for
// database-sourced backtests.
type OHLCVRepository struct {
	db *gorm.DB
}

func NewOHLCVRepository() *OHLCVRepository {
	return &OHLCVRepository{
		db: database.DB,
	}
}

// WithDB overrides the gorm handle, used by tests.
func (r *OHLCVRepository) WithDB(db *gorm.DB) *OHLCVRepository {
	r.db = db
	return r
}

// UpsertBatch inserts candles, updating price columns when a row for the
// same symbol and datetime already exists.
func (r *OHLCVRepository) UpsertBatch(ctx context.Context, rows []model.OHLCV) error {
	if len(rows) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "datetime"}, {Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
		}).
		Create(&rows).Error
	if err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"symbol": rows[0].Symbol,
		"rows":   len(rows),
		"from":   rows[0].Datetime,
		"to":     rows[len(rows)-1].Datetime,
	}).Info("Stored candle batch")

	return nil
}

// FindRange returns stored candles for symbol within [from, to], ordered
// by datetime ascending.
func (r *OHLCVRepository) FindRange(ctx context.Context, symbol string, from, to time.Time) ([]model.OHLCV, error) {
	var rows []model.OHLCV
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND datetime >= ? AND datetime <= ?", symbol, from, to).
		Order("datetime ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestDatetime returns the newest stored candle time for symbol, invalid
// when no rows exist yet.
func (r *OHLCVRepository) LatestDatetime(ctx context.Context, symbol string) (sql.NullTime, error) {
	var latest sql.NullTime
	err := r.db.WithContext(ctx).
		Model(&model.OHLCV{}).
		Select("MAX(datetime)").
		Where("symbol = ?", symbol).
		Take(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return latest, err
	}
	return latest, nil
}

// CandleStoreSource adapts the stored candles to the candle fetch
// interface consumed by the backtester.
type CandleStoreSource struct {
	repo *OHLCVRepository
}

func NewCandleStoreSource(repo *OHLCVRepository) *CandleStoreSource {
	return &CandleStoreSource{repo: repo}
}

func (s *CandleStoreSource) GetCandles(ctx context.Context, symbol string, from, to time.Time, resolution string) (*model.CandleSeries, error) {
	rows, err := s.repo.FindRange(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	return model.ToSeries(rows), nil
}
