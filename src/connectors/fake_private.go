package connectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"spottrader/src/model"
)

const fakeAccountID = "paper-account-1"

// FakePrivateClient simulates the private exchange API in memory: one
// account, balances settled locally, orders filled instantly at the caller's
// price. Used for paper trading and tests.
type FakePrivateClient struct {
	quoteCurrency string
	balances      map[string]decimal.Decimal
	orders        []fakeOrder
}

type fakeOrder struct {
	ID        string
	AccountID string
	Symbol    string
	Side      string
	Type      string
	Quantity  string
}

// NewFakePrivateClient builds a paper client for a pair like "BTC-BRL" with
// the given starting balances for the base and quote currencies.
func NewFakePrivateClient(symbol string, baseBalance, quoteBalance decimal.Decimal) *FakePrivateClient {
	base, quote := SplitSymbol(symbol)
	return &FakePrivateClient{
		quoteCurrency: quote,
		balances: map[string]decimal.Decimal{
			base:  baseBalance,
			quote: quoteBalance,
		},
	}
}

// SplitSymbol splits a pair like "BTC-BRL" into base and quote currency.
func SplitSymbol(symbol string) (base, quote string) {
	parts := strings.SplitN(symbol, "-", 2)
	if len(parts) != 2 {
		return symbol, ""
	}
	return parts[0], parts[1]
}

func (c *FakePrivateClient) GetAccounts(ctx context.Context) ([]model.AccountData, error) {
	return []model.AccountData{
		{
			ID:           fakeAccountID,
			Currency:     c.quoteCurrency,
			CurrencySign: "R$",
			Name:         "Paper account",
			Type:         "exchange",
		},
	}, nil
}

func (c *FakePrivateClient) GetAccountBalance(ctx context.Context, accountID string) ([]model.AccountBalanceData, error) {
	if accountID != fakeAccountID {
		return nil, nil
	}
	balances := make([]model.AccountBalanceData, 0, len(c.balances))
	for symbol, available := range c.balances {
		balances = append(balances, model.AccountBalanceData{
			Symbol:    symbol,
			Available: available,
			Total:     available,
		})
	}
	return balances, nil
}

// PlaceOrder fills the order instantly, crediting the base currency on buys
// and the quote currency on sells. There is no fill price on a market order
// request, so only the base leg is settled; the engine tracks PnL itself.
func (c *FakePrivateClient) PlaceOrder(ctx context.Context, accountID, symbol, side, orderType, quantity string) (string, error) {
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return "", fmt.Errorf("invalid quantity %q: %w", quantity, err)
	}

	base, _ := SplitSymbol(symbol)
	switch side {
	case string(model.SideBuy):
		c.balances[base] = c.balances[base].Add(qty)
	case string(model.SideSell):
		c.balances[base] = c.balances[base].Sub(qty)
	default:
		return "", fmt.Errorf("unknown order side %q", side)
	}

	order := fakeOrder{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Symbol:    symbol,
		Side:      side,
		Type:      orderType,
		Quantity:  quantity,
	}
	c.orders = append(c.orders, order)

	logger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"symbol":   symbol,
		"side":     side,
		"qty":      quantity,
	}).Info("paper order filled")

	return order.ID, nil
}

// Orders returns every order placed so far, oldest first.
func (c *FakePrivateClient) Orders() []fakeOrder {
	return c.orders
}
