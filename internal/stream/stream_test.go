package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Pursuit-Sense/internal/sim"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, have %d", want, hub.SubscriberCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)
	defer conn.Close()
	waitForSubscribers(t, hub, 1)

	sent := sim.Snapshot{Tick: 42, Mode: "chase", AgentX: 100, AgentY: 200}
	hub.Broadcast(sent)

	var got sim.Snapshot
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if got.Tick != 42 || got.Mode != "chase" || got.AgentX != 100 {
		t.Fatalf("snapshot mangled in transit: %+v", got)
	}
}

func TestHub_DropsClosedSubscriber(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	// The read pump notices the close and unregisters.
	waitForSubscribers(t, hub, 0)

	// Broadcasting to an empty hub is a no-op, not a panic.
	hub.Broadcast(sim.Snapshot{Tick: 1})
}
