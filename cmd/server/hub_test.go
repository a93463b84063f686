package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"riftrecap/internal/task"
)

// dialHub connects a websocket client and waits for the hub to register it.
func dialHub(t *testing.T, h *statusHub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.handleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Registration happens in the handler goroutine after the handshake.
	deadline := time.Now().Add(5 * time.Second)
	for {
		h.mu.Lock()
		n := len(h.clients)
		h.mu.Unlock()
		if n > 0 {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatal("Client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestStatusHub_ConcurrentBroadcasts fires broadcasts from many goroutines,
// the way workers finish, at a single client. Every event must arrive intact;
// the hub owns serializing writes onto the connection.
func TestStatusHub_ConcurrentBroadcasts(t *testing.T) {
	h := newStatusHub(zap.NewNop())
	t.Cleanup(h.closeAll)
	conn := dialHub(t, h)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.broadcast(task.Metrics{MatchID: fmt.Sprintf("NA1_%d", i), Success: true})
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for len(seen) < n {
		var m task.Metrics
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("Read failed after %d events: %v", len(seen), err)
		}
		seen[m.MatchID] = true
	}
}

// TestStatusHub_DropsClosedClient verifies a disconnected peer is removed
// rather than wedging future broadcasts.
func TestStatusHub_DropsClosedClient(t *testing.T) {
	h := newStatusHub(zap.NewNop())
	t.Cleanup(h.closeAll)
	conn := dialHub(t, h)
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		h.mu.Lock()
		n := len(h.clients)
		h.mu.Unlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("Closed client never dropped")
		}
		h.broadcast(task.Metrics{MatchID: "NA1_1"})
		time.Sleep(10 * time.Millisecond)
	}
}
