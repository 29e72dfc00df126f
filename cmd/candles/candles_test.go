package candles

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spottrader/src/repository"
)

func setupDBMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func setupMockBinanceServer() *httptest.Server {
	handler := http.NewServeMux()
	handler.HandleFunc("/api/v3/klines", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`[
			[1499040000000, "0.01634790", "0.80000000", "0.01575800", "0.01577100", "148976.11427815", 1499644799999, "2434.19055334", 308, "1756.87402397", "28.46694368", "17928899.62484339"]
		]`))
		if err != nil {
			return
		}
	})
	return httptest.NewServer(handler)
}

func TestDownloaderFetchKlines(t *testing.T) {
	server := setupMockBinanceServer()
	defer server.Close()

	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   server.URL,
	}

	d := Downloader{
		Config: &Config{
			Symbol:      "BTC",
			Quote:       "BRL",
			StartDt:     time.Now().Add(-24 * time.Hour),
			EndDt:       time.Now(),
			DurationStr: Duration1h,
		},
		exchange: binance.NewWithConfig(apiConfig),
	}

	klines, err := d.fetchKlines()
	require.NoError(t, err)
	require.Len(t, klines, 1, "Should fetch exactly one OHLCV record")
	require.InDelta(t, 0.01634790, klines[0].Open, 0, "Open price should match")
}

func TestDownloaderDetermineStartPoint(t *testing.T) {
	db, mock := setupDBMock(t)

	latest := time.Now().Add(-time.Hour).Truncate(time.Minute)
	mock.ExpectQuery(`SELECT MAX\(datetime\)`).
		WillReturnRows(sqlmock.NewRows([]string{"MAX(datetime)"}).
			AddRow(sql.NullTime{Time: latest, Valid: true}))

	d := Downloader{
		Log: logrus.NewEntry(logrus.New()),
		Config: &Config{
			Symbol:      "BTC",
			Quote:       "BRL",
			DurationStr: Duration1h,
			StartDt:     time.Now().Add(-24 * time.Hour),
		},
		repo: (&repository.OHLCVRepository{}).WithDB(db),
	}

	err := d.determineStartPoint(context.Background())
	require.NoError(t, err)
	require.Equal(t, latest.Add(-time.Hour).String(), d.Config.StartDt.String(), "Start date should be adjusted based on last datetime")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDownloaderParseDuration(t *testing.T) {
	tests := []struct {
		durationStr string
		expected    time.Duration
		shouldPanic bool
	}{
		{"1m", time.Minute, false},
		{"1h", time.Hour, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.durationStr, func(t *testing.T) {
			d := Downloader{Config: &Config{DurationStr: tt.durationStr}}

			if tt.shouldPanic {
				require.Panics(t, func() { _ = d.parseDuration() })
			} else {
				require.Equal(t, tt.expected, d.parseDuration())
			}
		})
	}
}
