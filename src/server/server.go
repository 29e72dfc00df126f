// Package server exposes a small status HTTP surface next to the running
// bot: a healthcheck and a JSON snapshot of position and PnL.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"spottrader/src/bot"
)

type StatusProvider interface {
	Snapshot() bot.Snapshot
}

func newRouter(provider StatusProvider) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(provider.Snapshot()); err != nil {
			logger.WithError(err).Error("/status encode error")
		}
	})

	return r
}

// Start serves until ctx is canceled, then shuts down gracefully.
func Start(ctx context.Context, port string, provider StatusProvider) {
	r := newRouter(provider)

	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Infof("status server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("status server crashed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("status server shutdown error")
	}
}
