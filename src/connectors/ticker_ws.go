// Streaming ticker source over the Mercado Bitcoin websocket feed. It keeps
// the latest ticker in memory so the bot loop can keep its poll-per-tick
// shape while prices arrive pushed instead of pulled.
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"spottrader/src/model"
)

const (
	wsReconnectDelay = 5 * time.Second
	wsStaleAfter     = 2 * time.Minute
)

type TickerStream struct {
	url    string
	symbol string

	mu     sync.RWMutex
	latest *model.TickerData
}

// NewTickerStream connects in the background and keeps reconnecting until
// ctx is canceled.
func NewTickerStream(ctx context.Context, symbol string, cfg Config) *TickerStream {
	s := &TickerStream{
		url:    cfg.WSBaseURL,
		symbol: symbol,
	}
	go s.run(ctx)
	return s
}

// GetTicker returns the most recent streamed ticker. It fails when nothing
// arrived yet or the last update is too old, which the loop treats like any
// other transport failure.
func (s *TickerStream) GetTicker(ctx context.Context, symbol string) (*model.TickerData, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest == nil {
		return nil, &model.TransportError{Op: "TickerStream", Err: fmt.Errorf("no ticker received yet for %s", symbol)}
	}
	if time.Since(latest.Timestamp) > wsStaleAfter {
		return nil, &model.TransportError{Op: "TickerStream", Err: fmt.Errorf("last ticker for %s is stale", symbol)}
	}
	return latest, nil
}

func (s *TickerStream) run(ctx context.Context) {
	for {
		if err := s.consume(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithError(err).Warn("ticker stream dropped, reconnecting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wsReconnectDelay):
		}
	}
}

type wsSubscribe struct {
	Type         string         `json:"type"`
	Subscription wsSubscription `json:"subscription"`
}

type wsSubscription struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type wsMessage struct {
	Type string         `json:"type"`
	ID   string         `json:"id"`
	Data tickerResponse `json:"data"`
}

// streamID converts "BTC-BRL" into the feed's "BRLBTC" channel id.
func streamID(symbol string) string {
	base, quote := SplitSymbol(symbol)
	return strings.ToUpper(quote + base)
}

func (s *TickerStream) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	sub := wsSubscribe{
		Type:         "subscribe",
		Subscription: wsSubscription{Name: "ticker", ID: streamID(s.symbol)},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	logger.WithField("symbol", s.symbol).Info("ticker stream subscribed")

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg wsMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			logger.WithError(err).Debug("skipping unparseable stream message")
			continue
		}
		if msg.Type != "ticker" {
			continue
		}

		ticker := msg.Data.toModel()
		ticker.Pair = s.symbol
		if ticker.Timestamp.IsZero() || ticker.Timestamp.Unix() == 0 {
			ticker.Timestamp = time.Now()
		}

		s.mu.Lock()
		s.latest = ticker
		s.mu.Unlock()
	}
}
