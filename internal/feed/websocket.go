package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

type subscribeMessage struct {
	Op    string `json:"op"`
	Topic string `json:"topic"`
}

type WebsocketSubscriber struct {
	url string
}

func NewWebsocketSubscriber(url string) *WebsocketSubscriber {
	return &WebsocketSubscriber{url: url}
}

// Subscribe dials the feed and streams events until the context ends,
// reconnecting with capped backoff on connection loss.
func (s *WebsocketSubscriber) Subscribe(ctx context.Context, topic string) (<-chan entity.MarketEvent, error) {
	conn, err := s.dial(ctx, topic)
	if err != nil {
		return nil, err
	}

	events := make(chan entity.MarketEvent, 64)

	go func() {
		defer close(events)

		backoff := initialBackoff

		for {
			if conn != nil {
				if err := s.read(ctx, conn, events); err != nil && ctx.Err() == nil {
					zap.L().With(zap.Error(err)).Warn("[Feed] Connection lost")
				}
				_ = conn.Close()
			}

			if ctx.Err() != nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}

			conn, err = s.dial(ctx, topic)
			if err != nil {
				zap.L().With(zap.Error(err), zap.Duration("backoff", backoff)).Warn("[Feed] Reconnect failed")
				conn = nil
				continue
			}
			backoff = initialBackoff
		}
	}()

	return events, nil
}

func (s *WebsocketSubscriber) dial(ctx context.Context, topic string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}

	if err := conn.WriteJSON(subscribeMessage{Op: "subscribe", Topic: topic}); err != nil {
		_ = conn.Close()
		return nil, err
	}

	zap.L().With(zap.String("url", s.url), zap.String("topic", topic)).Info("[Feed] Subscribed")

	return conn, nil
}

func (s *WebsocketSubscriber) read(ctx context.Context, conn *websocket.Conn, events chan<- entity.MarketEvent) error {
	// Cancellation has to unblock a reader parked in ReadMessage on an idle
	// connection, so a watcher closes the socket when the context ends.
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev entity.MarketEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			zap.L().With(zap.Error(err)).Debug("[Feed] Dropping malformed frame")
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
