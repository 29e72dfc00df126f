package risk

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestQuantityForBudget(t *testing.T) {
	tests := []struct {
		name     string
		budget   string
		price    string
		fraction string
		want     string
	}{
		{"full budget", "10000", "100000", "1", "0.1"},
		{"80 percent of budget", "10000", "100000", "0.8", "0.08"},
		{"fraction above one is clamped", "10000", "100000", "2", "0.1"},
		{"zero budget", "0", "100000", "0.8", "0"},
		{"zero price", "10000", "0", "0.8", "0"},
		{"zero fraction", "10000", "100000", "0", "0"},
		{"rounds down to 8 places", "100", "300000", "1", "0.00033333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuantityForBudget(
				decimal.RequireFromString(tt.budget),
				decimal.RequireFromString(tt.price),
				decimal.RequireFromString(tt.fraction),
			)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("quantity = %s, want %s", got, tt.want)
			}
		})
	}
}
