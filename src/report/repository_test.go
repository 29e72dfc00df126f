package report

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spottrader/src/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

func TestDBReportSaveIterationData(t *testing.T) {
	mockDB, mock := newMockDB(t)
	sink := &DBReport{repo: (&IterationRepository{}).WithDB(mockDB)}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "iterations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	entry := &model.Order{
		OrderID:   "ord-1",
		Symbol:    "BTC-BRL",
		Side:      model.SideBuy,
		Quantity:  decimal.RequireFromString("0.001"),
		Price:     decimal.RequireFromString("300000"),
		Timestamp: time.Date(2025, time.March, 4, 12, 0, 0, 0, time.UTC),
	}

	err := sink.SaveIterationData(context.Background(), IterationData{
		Timestamp:     entry.Timestamp,
		Symbol:        "BTC-BRL",
		CurrentPrice:  decimal.RequireFromString("301000"),
		Position:      model.NewLongPosition(entry),
		UnrealizedPnl: decimal.RequireFromString("1"),
		RealizedPnl:   decimal.Zero,
		Signal:        &model.PositionSignal{Side: model.SideBuy, Quantity: entry.Quantity},
	})
	if err != nil {
		t.Fatalf("unexpected error saving iteration data: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
