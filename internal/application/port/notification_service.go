package port

import "github.com/dreschagin/call-analytics-dashboard/internal/application/dto"

// NotificationService определяет интерфейс live-рассылки snapshot'ов (Port)
// Реализация будет в Infrastructure слое (WebSocket Hub)
type NotificationService interface {
	// Broadcast отправляет snapshot dashboard всем подключенным клиентам.
	// Сбой доставки одному клиенту не влияет на остальных и не
	// возвращается вызывающему.
	Broadcast(snapshot *dto.DashboardSnapshotDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
