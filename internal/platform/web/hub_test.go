package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/serpent-arena/internal/core"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversFrames(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.Clients() == 1 })

	hub.Publish(Frame{Game: "arena", Score: 30, Events: []core.Event{
		{Kind: core.EventFoodEaten, Delta: 10, Pos: core.V(1, 2)},
		{Kind: core.EventScoreChanged, Score: 30, Delta: 10},
	}})
	hub.Publish(Frame{Game: "arena", Score: 30})

	for want := uint64(1); want <= 2; want++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		if kind != websocket.BinaryMessage {
			t.Errorf("message type = %d, expected binary", kind)
		}
		f, err := DecodeFrame(data)
		if err != nil {
			t.Fatalf("DecodeFrame() error = %v", err)
		}
		if f.Seq != want {
			t.Errorf("Seq = %d, expected %d", f.Seq, want)
		}
		if want == 1 {
			if len(f.Events) != 2 || f.Events[0].Kind != core.EventFoodEaten || f.Events[0].Pos != core.V(1, 2) {
				t.Errorf("Events = %+v, expected food_eaten at (1,2) then score_changed", f.Events)
			}
		}
	}
}

func TestHubDropsForSlowClients(t *testing.T) {
	hub := NewHub(nil)
	slow := &client{id: uuid.New(), send: make(chan []byte, sendBuffer)}
	hub.register(slow)

	for range sendBuffer + 8 {
		hub.Publish(Frame{Game: "arena"})
	}
	if got := hub.Dropped(); got != 8 {
		t.Errorf("Dropped() = %d, expected 8", got)
	}
	if len(slow.send) != sendBuffer {
		t.Errorf("queued = %d, expected %d", len(slow.send), sendBuffer)
	}
}

func TestHubCloseDisconnects(t *testing.T) {
	hub := NewHub(nil)
	c := &client{id: uuid.New(), send: make(chan []byte, 1)}
	hub.register(c)

	hub.Close()
	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after Close, expected 0", hub.Clients())
	}
	if _, ok := <-c.send; ok {
		t.Errorf("client send channel still open after Close")
	}
	if hub.register(&client{id: uuid.New(), send: make(chan []byte)}) {
		t.Errorf("register() after Close = true, expected false")
	}
	// Publishing to a closed hub is a no-op.
	hub.Publish(Frame{})
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	if _, err := DecodeFrame([]byte{0xc1}); err == nil {
		t.Errorf("DecodeFrame(garbage) error = nil, expected an error")
	}
}
