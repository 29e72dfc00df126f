// Package risk holds position-sizing helpers shared by strategies.
package risk

import "github.com/shopspring/decimal"

// QuantityPrecision is the number of base-currency decimal places an order
// quantity is rounded down to before submission.
const QuantityPrecision = 8

// QuantityForBudget converts a quote-currency budget into a base-currency
// order quantity at the given price, spending only the given fraction of the
// budget (0 < fraction <= 1). Returns zero for a non-positive budget, price
// or fraction.
func QuantityForBudget(budget, price, fraction decimal.Decimal) decimal.Decimal {
	if budget.LessThanOrEqual(decimal.Zero) ||
		price.LessThanOrEqual(decimal.Zero) ||
		fraction.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if fraction.GreaterThan(decimal.NewFromInt(1)) {
		fraction = decimal.NewFromInt(1)
	}
	return budget.Mul(fraction).Div(price).RoundDown(QuantityPrecision)
}
