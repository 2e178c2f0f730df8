package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/gorilla/websocket"
)

func TestSubscribeStreamsEvents(t *testing.T) {
	done := make(chan struct{})
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var sub subscribeMessage
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}
		if sub.Op != "subscribe" || sub.Topic != "marketplace" {
			t.Errorf("subscribe message = %+v", sub)
		}

		if err := conn.WriteJSON(entity.MarketEvent{Type: entity.DelistedEvent, ListingID: "L1", Seq: 2}); err != nil {
			t.Errorf("write event: %v", err)
		}

		<-done
	}))
	defer server.Close()
	defer close(done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	events, err := NewWebsocketSubscriber(url).Subscribe(ctx, "marketplace")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != entity.DelistedEvent || ev.ListingID != "L1" || ev.Seq != 2 {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

// Cancelling the context must close the events channel even when the
// connection is idle and the reader is parked waiting for a frame.
func TestSubscribeClosesChannelOnCancel(t *testing.T) {
	done := make(chan struct{})
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var sub subscribeMessage
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}

		// Idle from here on: no frames, connection stays open.
		<-done
	}))
	defer server.Close()
	defer close(done)

	ctx, cancel := context.WithCancel(context.Background())

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	events, err := NewWebsocketSubscriber(url).Subscribe(ctx, "marketplace")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	cancel()

	timeout := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("events channel not closed after context cancellation")
		}
	}
}

func TestSubscribeFailsWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewWebsocketSubscriber("ws://127.0.0.1:1/feed").Subscribe(ctx, "marketplace"); err == nil {
		t.Fatal("expected dial error")
	}
}
