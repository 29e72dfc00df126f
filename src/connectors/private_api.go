// REST client for the Mercado Bitcoin v4 private (authenticated) endpoints.
package connectors

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"spottrader/src/model"
)

// PrivateAPI is the account capability the trading engine consumes. Side is
// passed as the lowercase wire string ("buy"/"sell").
type PrivateAPI interface {
	GetAccounts(ctx context.Context) ([]model.AccountData, error)
	GetAccountBalance(ctx context.Context, accountID string) ([]model.AccountBalanceData, error)
	PlaceOrder(ctx context.Context, accountID, symbol, side, orderType, quantity string) (string, error)
}

type PrivateClient struct {
	apiKey    string
	apiSecret string
	http      *resty.Client

	mu    sync.Mutex
	token string
}

func NewPrivateClient(apiKey, apiSecret string, cfg Config) *PrivateClient {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp).
		SetHeader("Content-Type", "application/json")

	return &PrivateClient{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      httpClient,
	}
}

type authorizeResponse struct {
	AccessToken string `json:"access_token"`
	Expiration  int64  `json:"expiration"`
}

// Authorize exchanges the API key pair for a bearer token. It is called
// lazily on the first request and again whenever a call comes back 401.
func (c *PrivateClient) Authorize(ctx context.Context) error {
	var auth authorizeResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"login": c.apiKey, "password": c.apiSecret}).
		SetResult(&auth).
		Post("/authorize")
	if err != nil {
		return &model.TransportError{Op: "Authorize", Err: err}
	}
	if resp.StatusCode() != 200 {
		return &model.TransportError{
			Op:     "Authorize",
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("unexpected response: %s", resp.String()),
		}
	}

	c.mu.Lock()
	c.token = auth.AccessToken
	c.mu.Unlock()

	logger.Info("exchange authorization succeeded")
	return nil
}

func (c *PrivateClient) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token != "" {
		return token, nil
	}
	if err := c.Authorize(ctx); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, nil
}

// do performs one authenticated call, re-authorizing once on 401.
func (c *PrivateClient) do(ctx context.Context, op string, build func(r *resty.Request) (*resty.Response, error)) error {
	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < 2; attempt++ {
		resp, err := build(c.http.R().SetContext(ctx).SetAuthToken(token))
		if err != nil {
			return &model.TransportError{Op: op, Err: err}
		}
		if resp.StatusCode() == 401 && attempt == 0 {
			logger.Warn("token expired, re-authorizing")
			if err := c.Authorize(ctx); err != nil {
				return err
			}
			c.mu.Lock()
			token = c.token
			c.mu.Unlock()
			continue
		}
		if resp.StatusCode() != 200 {
			return &model.TransportError{
				Op:     op,
				Status: resp.StatusCode(),
				Err:    fmt.Errorf("unexpected response: %s", resp.String()),
			}
		}
		return nil
	}
	return &model.TransportError{Op: op, Err: fmt.Errorf("request failed after re-authorization")}
}

func (c *PrivateClient) GetAccounts(ctx context.Context) ([]model.AccountData, error) {
	var accounts []model.AccountData

	err := c.do(ctx, "GetAccounts", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&accounts).Get("/accounts")
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *PrivateClient) GetAccountBalance(ctx context.Context, accountID string) ([]model.AccountBalanceData, error) {
	var balances []model.AccountBalanceData

	err := c.do(ctx, "GetAccountBalance", func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&balances).Get(fmt.Sprintf("/accounts/%s/balances", accountID))
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

type placeOrderResponse struct {
	OrderID string `json:"orderId"`
}

func (c *PrivateClient) PlaceOrder(ctx context.Context, accountID, symbol, side, orderType, quantity string) (string, error) {
	var placed placeOrderResponse

	err := c.do(ctx, "PlaceOrder", func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(map[string]string{
				"qty":  quantity,
				"side": side,
				"type": orderType,
			}).
			SetResult(&placed).
			Post(fmt.Sprintf("/accounts/%s/%s/orders", accountID, symbol))
	})
	if err != nil {
		return "", err
	}

	logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"side":     side,
		"qty":      quantity,
		"order_id": placed.OrderID,
	}).Info("order submitted to exchange")

	return placed.OrderID, nil
}
