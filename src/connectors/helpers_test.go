package connectors

import (
	"testing"

	"github.com/shopspring/decimal"

	"spottrader/src/model"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func balanceOf(balances []model.AccountBalanceData, symbol string) decimal.Decimal {
	for _, b := range balances {
		if b.Symbol == symbol {
			return b.Available
		}
	}
	return decimal.Zero
}
