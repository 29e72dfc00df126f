package bot

import (
	"github.com/shopspring/decimal"

	"spottrader/src/model"
)

var oneHundred = decimal.NewFromInt(100)

// RunSummary is the end-of-run report emitted by Stop.
type RunSummary struct {
	RealizedPnl    decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnl  decimal.Decimal `json:"unrealized_pnl"`
	TotalClosed    int             `json:"total_closed"`
	Profitable     int             `json:"profitable"`
	PriceVariation decimal.Decimal `json:"price_variation"`
	Hold           *HoldAnalysis   `json:"hold,omitempty"`
}

// HoldAnalysis compares the bot's PnL against naively buying and holding
// the first entry until the last observed price.
type HoldAnalysis struct {
	HoldPnl         decimal.Decimal `json:"hold_pnl"`
	ActualPnl       decimal.Decimal `json:"actual_pnl"`
	Difference      decimal.Decimal `json:"difference"`
	HoldReturnPct   decimal.Decimal `json:"hold_return_pct"`
	ActualReturnPct decimal.Decimal `json:"actual_return_pct"`
}

func holdAnalysis(firstEntry *model.Order, finalPrice, actualPnl decimal.Decimal) *HoldAnalysis {
	if firstEntry == nil {
		return nil
	}

	holdPnl := finalPrice.Sub(firstEntry.Price).Mul(firstEntry.Quantity)

	analysis := &HoldAnalysis{
		HoldPnl:    holdPnl,
		ActualPnl:  actualPnl,
		Difference: actualPnl.Sub(holdPnl),
	}

	investment := firstEntry.Price.Mul(firstEntry.Quantity)
	if investment.IsPositive() {
		analysis.HoldReturnPct = holdPnl.Div(investment).Mul(oneHundred)
		analysis.ActualReturnPct = actualPnl.Div(investment).Mul(oneHundred)
	}
	return analysis
}

// Summary builds the final report from the account state, the first entry
// and the last observed price.
func (b *Bot) Summary() RunSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summaryLocked()
}

func (b *Bot) summaryLocked() RunSummary {
	realized := b.account.GetTotalRealizedPnl()
	unrealized := b.account.GetUnrealizedPnl(b.lastPrice)

	summary := RunSummary{
		RealizedPnl:   realized,
		UnrealizedPnl: unrealized,
	}

	for _, pos := range b.account.PositionHistory() {
		summary.TotalClosed++
		if pos.RealizedPnl().IsPositive() {
			summary.Profitable++
		}
	}

	if b.havePrice {
		summary.PriceVariation = b.lastPrice.Sub(b.firstPrice)
	}

	summary.Hold = holdAnalysis(b.firstEntry, b.lastPrice, realized.Add(unrealized))
	return summary
}

func (b *Bot) logSummary() {
	summary := b.Summary()

	b.log.WithFields(map[string]interface{}{
		"realized_pnl":    summary.RealizedPnl,
		"unrealized_pnl":  summary.UnrealizedPnl,
		"profitable":      summary.Profitable,
		"total_closed":    summary.TotalClosed,
		"price_variation": summary.PriceVariation,
	}).Info("execution report")

	if summary.Hold == nil {
		b.log.Info("hold analysis: not enough data")
		return
	}

	b.log.WithFields(map[string]interface{}{
		"hold_pnl":          summary.Hold.HoldPnl,
		"actual_pnl":        summary.Hold.ActualPnl,
		"difference":        summary.Hold.Difference,
		"hold_return_pct":   summary.Hold.HoldReturnPct,
		"actual_return_pct": summary.Hold.ActualReturnPct,
	}).Info("hold analysis")
}

// Snapshot is the state served by the status endpoint.
type Snapshot struct {
	Symbol        string          `json:"symbol"`
	Running       bool            `json:"running"`
	LastPrice     decimal.Decimal `json:"last_price"`
	Position      *model.Position `json:"position,omitempty"`
	RealizedPnl   decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnl decimal.Decimal `json:"unrealized_pnl"`
	ClosedCount   int             `json:"closed_count"`
}

func (b *Bot) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		Symbol:        b.symbol,
		Running:       b.running,
		LastPrice:     b.lastPrice,
		Position:      b.account.GetPosition(),
		RealizedPnl:   b.account.GetTotalRealizedPnl(),
		UnrealizedPnl: b.account.GetUnrealizedPnl(b.lastPrice),
		ClosedCount:   len(b.account.PositionHistory()),
	}
}
