package handler

import (
	"net/http"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/application/port"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// HealthAPIHandler отвечает на health-check запросы.
// Статус отражает состояние транспорта потока событий: degraded при потере
// соединения с Redis независимо от live status (который отражает объем ошибок)
type HealthAPIHandler struct {
	aggregator *service.MetricsAggregator
	stream     port.StreamHealth
	notifier   port.NotificationService
	logger     *logger.Logger
}

// NewHealthAPIHandler создает новый handler
func NewHealthAPIHandler(
	aggregator *service.MetricsAggregator,
	stream port.StreamHealth,
	notifier port.NotificationService,
	logger *logger.Logger,
) *HealthAPIHandler {
	return &HealthAPIHandler{
		aggregator: aggregator,
		stream:     stream,
		notifier:   notifier,
		logger:     logger,
	}
}

type healthResponse struct {
	Status               string    `json:"status"` // "healthy" или "degraded"
	RedisConnected       bool      `json:"redis_connected"`
	ActiveCalls          int       `json:"active_calls"`
	ErrorCount           int       `json:"error_count"`
	WebsocketConnections int       `json:"websocket_connections"`
	Message              string    `json:"message,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

// Check возвращает текущее состояние сервиса
func (h *HealthAPIHandler) Check(w http.ResponseWriter, r *http.Request) {
	connected := h.stream.Connected()

	response := healthResponse{
		Status:               "healthy",
		RedisConnected:       connected,
		ActiveCalls:          h.aggregator.ActiveCalls(),
		ErrorCount:           h.aggregator.ErrorCount(),
		WebsocketConnections: h.notifier.ClientCount(),
		Timestamp:            time.Now(),
	}

	if !connected {
		response.Status = "degraded"
		response.Message = "Event stream disconnected, dashboard data may be stale"
	}

	respondJSON(w, http.StatusOK, response)
}
