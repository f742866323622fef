package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dreschagin/call-analytics-dashboard/internal/application/dto"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// Hub управляет WebSocket клиентами и рассылает им snapshot'ы dashboard
// Реализует интерфейс port.NotificationService
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для broadcast сообщений
	broadcast chan *dto.DashboardSnapshotDTO

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для удаления клиентов
	unregister chan *Client

	// Mutex для защиты clients map
	mu sync.RWMutex

	// Logger
	logger *logger.Logger
}

// Message представляет envelope сообщения для клиента
type Message struct {
	Type string      `json:"type"` // пока только "snapshot"
	Data interface{} `json:"data"`
}

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *dto.DashboardSnapshotDTO, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run запускает hub (должен быть запущен в отдельной goroutine).
// Завершается при отмене ctx.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Client registered", "client_id", client.id, "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Client unregistered", "client_id", client.id, "total_clients", total)

		case snapshot := <-h.broadcast:
			h.deliver(snapshot)
		}
	}
}

// deliver сериализует snapshot один раз и отправляет payload каждому клиенту.
// Клиент с заполненной очередью считается отставшим и отключается;
// остальные клиенты получают payload в любом случае.
func (h *Hub) deliver(snapshot *dto.DashboardSnapshotDTO) {
	payload, err := json.Marshal(Message{Type: "snapshot", Data: snapshot})
	if err != nil {
		h.logger.Error("Failed to serialize snapshot", err)
		return
	}

	h.mu.Lock()
	for client := range h.clients {
		select {
		case client.send <- payload:
			// Payload поставлен в очередь клиента
		default:
			// Очередь клиента заполнена, отключаем его
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn("Client queue full, disconnected", "client_id", client.id)
		}
	}
	h.mu.Unlock()
}

// closeAll закрывает очереди всех клиентов при остановке hub
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// Register регистрирует нового клиента.
// Идемпотентна для одного и того же клиента в рамках его соединения.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast отправляет snapshot всем клиентам (реализация port.NotificationService)
func (h *Hub) Broadcast(snapshot *dto.DashboardSnapshotDTO) {
	select {
	case h.broadcast <- snapshot:
		// Snapshot отправлен в канал
	default:
		h.logger.Warn("Broadcast channel full, dropping snapshot")
	}
}

// ClientCount возвращает количество подключенных клиентов (реализация port.NotificationService)
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
