package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spottrader/src/bot"
)

type stubProvider struct {
	snapshot bot.Snapshot
}

func (s *stubProvider) Snapshot() bot.Snapshot {
	return s.snapshot
}

func TestHealthcheck(t *testing.T) {
	r := newRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestStatusEndpoint(t *testing.T) {
	provider := &stubProvider{snapshot: bot.Snapshot{
		Symbol:      "BTC-BRL",
		Running:     true,
		LastPrice:   decimal.RequireFromString("300000"),
		RealizedPnl: decimal.RequireFromString("12.5"),
		ClosedCount: 3,
	}}

	r := newRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got bot.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "BTC-BRL", got.Symbol)
	assert.True(t, got.Running)
	assert.True(t, got.RealizedPnl.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 3, got.ClosedCount)
}
