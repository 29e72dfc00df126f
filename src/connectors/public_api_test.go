package connectors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spottrader/src/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*PublicClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL, HTTPTimeout: 2 * time.Second}
	return NewPublicClient(cfg), srv
}

func TestGetTicker(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickers", r.URL.Path)
		assert.Equal(t, "BTC-BRL", r.URL.Query().Get("symbols"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"pair": "BTC-BRL",
			"high": "310000.00", "low": "295000.00", "vol": "12.5",
			"last": "300000.00", "buy": "299900.00", "sell": "300100.00",
			"open": "298000.00", "date": 1714000000
		}]`))
	})

	ticker, err := client.GetTicker(context.Background(), "BTC-BRL")
	require.NoError(t, err)

	assert.Equal(t, "BTC-BRL", ticker.Pair)
	assert.True(t, ticker.Last.Equal(decimal.RequireFromString("300000.00")))
	assert.Equal(t, int64(1714000000), ticker.Timestamp.Unix())
}

func TestGetTickerTransportError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	})

	_, err := client.GetTicker(context.Background(), "BTC-BRL")
	require.Error(t, err)

	var transportErr *model.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusBadRequest, transportErr.Status)
}

func TestGetTickerEmptyResponse(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.GetTicker(context.Background(), "NOPE-BRL")

	var transportErr *model.TransportError
	require.True(t, errors.As(err, &transportErr))
}

func TestGetCandles(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candles", r.URL.Path)
		assert.Equal(t, "1h", r.URL.Query().Get("resolution"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"c": ["100", "110"], "h": ["105", "112"], "l": ["98", "104"],
			"o": ["99", "100"], "t": [1714000000, 1714003600], "v": ["1.0", "2.0"]
		}`))
	})

	from := time.Unix(1714000000, 0)
	to := time.Unix(1714003600, 0)
	series, err := client.GetCandles(context.Background(), "BTC-BRL", from, to, "1h")
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	assert.True(t, series.Close[1].Equal(decimal.RequireFromString("110")))

	ticker := series.TickerAt(1, "BTC-BRL")
	assert.True(t, ticker.Last.Equal(decimal.RequireFromString("110")))
	assert.Equal(t, int64(1714003600), ticker.Timestamp.Unix())
}
