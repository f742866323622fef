package entity

import (
	"errors"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
)

// ErrorEvent представляет одну ошибку из потока событий (Entity)
// Иммутабелен после создания
type ErrorEvent struct {
	timestamp      time.Time
	errorType      string
	message        string
	severity       valueobject.Severity
	conversationID string
}

// NewErrorEvent создает новое событие ошибки (Factory Method)
func NewErrorEvent(
	errorType string,
	message string,
	severity valueobject.Severity,
	conversationID string,
	timestamp time.Time,
) (*ErrorEvent, error) {
	if errorType == "" {
		return nil, errors.New("error_type is required")
	}
	if message == "" {
		return nil, errors.New("message is required")
	}
	if err := severity.Validate(); err != nil {
		return nil, err
	}
	if timestamp.IsZero() {
		return nil, errors.New("timestamp is required")
	}

	return &ErrorEvent{
		timestamp:      timestamp,
		errorType:      errorType,
		message:        message,
		severity:       severity,
		conversationID: conversationID,
	}, nil
}

// Timestamp возвращает время возникновения ошибки
func (e *ErrorEvent) Timestamp() time.Time {
	return e.timestamp
}

// ErrorType возвращает тип ошибки
func (e *ErrorEvent) ErrorType() string {
	return e.errorType
}

// Message возвращает текст ошибки
func (e *ErrorEvent) Message() string {
	return e.message
}

// Severity возвращает серьезность ошибки
func (e *ErrorEvent) Severity() valueobject.Severity {
	return e.severity
}

// ConversationID возвращает идентификатор разговора (может быть пустым)
func (e *ErrorEvent) ConversationID() string {
	return e.conversationID
}

// WithinWindow проверяет, попадает ли ошибка в окно [now-window, now]
func (e *ErrorEvent) WithinWindow(now time.Time, window time.Duration) bool {
	return now.Sub(e.timestamp) < window
}
