package report

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"spottrader/src/database"
	"spottrader/src/model"
)

// IterationRepository writes iteration rows through gorm.
type IterationRepository struct {
	db *gorm.DB
}

// NewIterationRepository uses the process-wide database handle.
func NewIterationRepository() *IterationRepository {
	return &IterationRepository{db: database.DB}
}

// WithDB overrides the underlying *gorm.DB instance. Useful for tests or a
// specific session/transaction.
func (r *IterationRepository) WithDB(db *gorm.DB) *IterationRepository {
	return &IterationRepository{db: db}
}

func (r *IterationRepository) Create(ctx context.Context, record *model.IterationRecord) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "IterationRepository",
			"op":   "Create",
		}).WithError(err).Error("failed to create iteration record")
		return err
	}
	return nil
}

// DBReport is the database-backed report sink.
type DBReport struct {
	repo *IterationRepository
}

func NewDBReport() *DBReport {
	return &DBReport{repo: NewIterationRepository()}
}

func (r *DBReport) SaveIterationData(ctx context.Context, data IterationData) error {
	record := &model.IterationRecord{
		Timestamp:     data.Timestamp,
		Symbol:        data.Symbol,
		Price:         data.CurrentPrice,
		UnrealizedPnl: data.UnrealizedPnl,
		RealizedPnl:   data.RealizedPnl,
	}
	if data.Position != nil {
		record.PositionType = string(data.Position.Type)
		record.PositionQuantity = data.Position.EntryOrder.Quantity
		record.PositionEntryPrice = data.Position.EntryOrder.Price
	}
	if data.Signal != nil {
		record.Signal = string(data.Signal.Side)
	}
	return r.repo.Create(ctx, record)
}
