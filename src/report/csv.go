package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
)

const csvHeader = "timestamp,symbol,price,position_side,position_quantity,position_entry_price,unrealized_pnl,realized_pnl,signal\n"

// CsvReport appends one line per iteration to a per-run CSV file.
type CsvReport struct {
	filename string
}

func NewCsvReport(dataDir, symbol string) (*CsvReport, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	filename := filepath.Join(dataDir, fmt.Sprintf(
		"trading_data_%s_%d.csv",
		strings.ReplaceAll(symbol, "-", "_"),
		time.Now().Unix(),
	))

	if err := os.WriteFile(filename, []byte(csvHeader), 0o644); err != nil {
		return nil, fmt.Errorf("create report file: %w", err)
	}

	logger.WithField("file", filename).Info("csv report sink initialized")
	return &CsvReport{filename: filename}, nil
}

func (r *CsvReport) SaveIterationData(ctx context.Context, data IterationData) error {
	file, err := os.OpenFile(r.filename, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer file.Close()

	var side, quantity, entryPrice string
	if data.Position != nil {
		side = string(data.Position.Type)
		quantity = data.Position.EntryOrder.Quantity.String()
		entryPrice = data.Position.EntryOrder.Price.String()
	}

	var signal string
	if data.Signal != nil {
		signal = string(data.Signal.Side)
	}

	_, err = fmt.Fprintf(file, "%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
		data.Timestamp.Format(time.RFC3339),
		data.Symbol,
		data.CurrentPrice.String(),
		side,
		quantity,
		entryPrice,
		data.UnrealizedPnl.String(),
		data.RealizedPnl.String(),
		signal,
	)
	if err != nil {
		return fmt.Errorf("write report line: %w", err)
	}
	return nil
}
