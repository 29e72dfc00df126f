// Package account is the single source of truth for trading state: the open
// position, the closed-position history and the gating rules that decide
// whether an order may be placed.
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"spottrader/src/connectors"
	"spottrader/src/model"
)

var (
	// Minimum quote-currency balance needed to open a position.
	minQuoteToOperate = decimal.NewFromInt(50)
	// Minimum base-currency balance needed to close one.
	minBaseToSell = decimal.RequireFromString("0.00001")
)

type Account struct {
	api       connectors.PrivateAPI
	accountID string

	symbol        string
	baseCurrency  string
	quoteCurrency string

	currentPosition *model.Position
	positionHistory []*model.Position

	log *logrus.Entry
	now func() time.Time
}

// New resolves the exchange account bound to the pair's quote currency and
// fails fast when it does not exist. The account starts flat.
func New(ctx context.Context, api connectors.PrivateAPI, symbol string, log *logrus.Entry) (*Account, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	base, quote := connectors.SplitSymbol(symbol)
	if base == "" || quote == "" {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("invalid symbol %q", symbol)}
	}

	accounts, err := api.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}

	var accountID string
	for _, acc := range accounts {
		if acc.Currency == quote {
			accountID = acc.ID
			break
		}
	}
	if accountID == "" {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("no account found for currency %s", quote)}
	}

	log.WithFields(map[string]interface{}{
		"account_id": accountID,
		"symbol":     symbol,
	}).Info("account resolved")

	return &Account{
		api:           api,
		accountID:     accountID,
		symbol:        symbol,
		baseCurrency:  base,
		quoteCurrency: quote,
		log:           log.WithField("component", "account"),
		now:           time.Now,
	}, nil
}

func (a *Account) Symbol() string {
	return a.symbol
}

// GetBalance returns the available balance for one currency. An unknown
// currency is zero, never an error.
func (a *Account) GetBalance(ctx context.Context, currency string) (decimal.Decimal, error) {
	balances, err := a.api.GetAccountBalance(ctx, a.accountID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, balance := range balances {
		if balance.Symbol == currency {
			return balance.Available, nil
		}
	}
	return decimal.Zero, nil
}

// GetPosition returns the currently open position, or nil when flat.
func (a *Account) GetPosition() *model.Position {
	return a.currentPosition
}

// PositionHistory returns every closed position, in close order. Open
// positions never appear here.
func (a *Account) PositionHistory() []*model.Position {
	return a.positionHistory
}

// CanBuy reports whether a new position may be opened: no position open and
// enough quote currency to operate.
func (a *Account) CanBuy(ctx context.Context) (bool, error) {
	if a.currentPosition != nil && a.currentPosition.Type == model.PositionLong {
		return false, nil
	}
	balance, err := a.GetBalance(ctx, a.quoteCurrency)
	if err != nil {
		return false, err
	}
	return balance.GreaterThan(minQuoteToOperate), nil
}

// CanSell reports whether the open long may be closed: a long is open and
// there is enough base currency to sell.
func (a *Account) CanSell(ctx context.Context) (bool, error) {
	if a.currentPosition == nil || a.currentPosition.Type != model.PositionLong {
		return false, nil
	}
	balance, err := a.GetBalance(ctx, a.baseCurrency)
	if err != nil {
		return false, err
	}
	return balance.GreaterThan(minBaseToSell), nil
}

// PlaceOrder submits a market order after checking the gating rules, then
// applies the position state transition: a buy while flat opens the position,
// a sell while long closes it and appends it to the history. The
// check-then-act is not atomic against external balance changes; the loop is
// the only writer.
func (a *Account) PlaceOrder(ctx context.Context, price decimal.Decimal, side model.OrderSide, quantity decimal.Decimal) (*model.Order, error) {
	switch side {
	case model.SideBuy:
		ok, err := a.CanBuy(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &model.PreconditionError{Side: side, Reason: "position already open or insufficient " + a.quoteCurrency + " balance"}
		}
	case model.SideSell:
		ok, err := a.CanSell(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &model.PreconditionError{Side: side, Reason: "no open long position or insufficient " + a.baseCurrency + " balance"}
		}
	default:
		return nil, &model.PreconditionError{Side: side, Reason: "unknown order side"}
	}

	orderID, err := a.api.PlaceOrder(ctx, a.accountID, a.symbol, string(side), "market", quantity.String())
	if err != nil {
		a.log.WithError(err).WithFields(map[string]interface{}{
			"side": side,
			"qty":  quantity,
		}).Error("failed to execute order")
		return nil, err
	}

	order := &model.Order{
		OrderID:   orderID,
		Symbol:    a.symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Timestamp: a.now(),
	}

	if a.currentPosition == nil {
		a.currentPosition = model.NewLongPosition(order)
	} else {
		a.currentPosition.ExitOrder = order
		a.positionHistory = append(a.positionHistory, a.currentPosition)
		a.currentPosition = nil
	}

	return order, nil
}

// GetTotalRealizedPnl sums the realized PnL of every closed position.
func (a *Account) GetTotalRealizedPnl() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range a.positionHistory {
		if pos.IsOpen() {
			continue
		}
		total = total.Add(pos.RealizedPnl())
	}
	return total
}

// GetUnrealizedPnl values the open position at the given price, zero when
// flat.
func (a *Account) GetUnrealizedPnl(currentPrice decimal.Decimal) decimal.Decimal {
	if a.currentPosition == nil {
		return decimal.Zero
	}
	return a.currentPosition.UnrealizedPnl(currentPrice)
}
