package port

import (
	"context"
)

// EventPublisher определяет интерфейс публикации событий во внешний
// message broker (Port). Используется для зеркалирования alert'ов о смене
// статуса; реализация в Infrastructure слое (NATS)
type EventPublisher interface {
	// PublishEvent публикует событие в указанный subject
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close закрывает соединение с broker'ом
	Close() error
}
