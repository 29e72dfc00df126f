package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IterationRecord is one persisted row of per-tick telemetry written by the
// database report sink.
type IterationRecord struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Timestamp          time.Time       `gorm:"index" json:"timestamp"`
	Symbol             string          `gorm:"size:20;index" json:"symbol"`
	Price              decimal.Decimal `gorm:"type:numeric" json:"price"`
	PositionType       string          `gorm:"size:10" json:"position_type"`
	PositionQuantity   decimal.Decimal `gorm:"type:numeric" json:"position_quantity"`
	PositionEntryPrice decimal.Decimal `gorm:"type:numeric" json:"position_entry_price"`
	UnrealizedPnl      decimal.Decimal `gorm:"type:numeric" json:"unrealized_pnl"`
	RealizedPnl        decimal.Decimal `gorm:"type:numeric" json:"realized_pnl"`
	Signal             string          `gorm:"size:10" json:"signal"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (IterationRecord) TableName() string {
	return "iterations"
}
