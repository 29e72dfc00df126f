package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the order direction. The string value is the lowercase wire
// value the exchange expects.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// PositionSignal is a strategy decision for the current tick. It is produced
// fresh each tick and never persisted.
type PositionSignal struct {
	Side     OrderSide       `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Order represents a single executed market order. Immutable once created;
// it is owned by the Position that references it as entry or exit.
type Order struct {
	OrderID   string          `json:"order_id"`
	Symbol    string          `json:"symbol"`
	Side      OrderSide       `json:"side"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}
