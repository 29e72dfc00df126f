// Package report persists per-tick telemetry. Sinks are best-effort: the
// bot logs their errors and never lets them abort a tick.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spottrader/src/model"
)

// IterationData is the snapshot forwarded once per tick.
type IterationData struct {
	Timestamp     time.Time
	Symbol        string
	CurrentPrice  decimal.Decimal
	Position      *model.Position
	UnrealizedPnl decimal.Decimal
	RealizedPnl   decimal.Decimal
	Signal        *model.PositionSignal
}

type Report interface {
	SaveIterationData(ctx context.Context, data IterationData) error
}

// NullReport discards everything; the default sink.
type NullReport struct{}

func (NullReport) SaveIterationData(ctx context.Context, data IterationData) error {
	return nil
}
