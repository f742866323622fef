package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/application/dto"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

func newTestClient(id string, queueSize int) *Client {
	return &Client{
		id:     id,
		send:   make(chan []byte, queueSize),
		logger: logger.New("error"),
	}
}

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
}

func receivePayload(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case payload := <-client.send:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatalf("client %s received no payload", client.id)
		return nil
	}
}

func TestHubBroadcastsSerializedSnapshotToAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.New("error"))
	go hub.Run(ctx)

	first := newTestClient("c1", 8)
	second := newTestClient("c2", 8)
	hub.Register(first)
	hub.Register(second)
	waitForClientCount(t, hub, 2)

	snapshot := &dto.DashboardSnapshotDTO{}
	snapshot.ActiveCalls.Count = 7
	hub.Broadcast(snapshot)

	for _, client := range []*Client{first, second} {
		payload := receivePayload(t, client)

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if msg.Type != "snapshot" {
			t.Fatalf("message type = %q, want snapshot", msg.Type)
		}
	}
}

func TestHubDisconnectsClientWithFullQueueOthersStillReceive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.New("error"))
	go hub.Run(ctx)

	fast := newTestClient("fast", 8)
	stuck := newTestClient("stuck", 0) // очередь всегда заполнена
	other := newTestClient("other", 8)

	hub.Register(fast)
	hub.Register(stuck)
	hub.Register(other)
	waitForClientCount(t, hub, 3)

	hub.Broadcast(&dto.DashboardSnapshotDTO{})

	// Остальные клиенты получают payload несмотря на отставшего
	receivePayload(t, fast)
	receivePayload(t, other)

	waitForClientCount(t, hub, 2)

	// Очередь отставшего клиента закрыта hub'ом
	select {
	case _, ok := <-stuck.send:
		if ok {
			t.Fatal("expected closed send queue for stuck client")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stuck client send queue was not closed")
	}
}

func TestHubUnregisterRemovesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.New("error"))
	go hub.Run(ctx)

	client := newTestClient("c1", 8)
	hub.Register(client)
	waitForClientCount(t, hub, 1)

	hub.Unregister(client)
	waitForClientCount(t, hub, 0)

	// Повторный unregister того же клиента безопасен
	hub.Unregister(client)
	waitForClientCount(t, hub, 0)
}

func TestHubStopsAndClosesClientsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(logger.New("error"))
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := newTestClient("c1", 8)
	hub.Register(client)
	waitForClientCount(t, hub, 1)

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop on context cancel")
	}

	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount() after stop = %d, want 0", hub.ClientCount())
	}
}
