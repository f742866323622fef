package entity

import (
	"errors"
	"time"
)

// CallEventKind представляет вид события жизненного цикла звонка
type CallEventKind string

const (
	CallStarted CallEventKind = "call_started"
	CallEnded   CallEventKind = "call_ended"
)

// CallLifecycleEvent представляет событие начала/окончания звонка.
// Событие transient: обновляет счетчик активных звонков и не сохраняется.
type CallLifecycleEvent struct {
	kind           CallEventKind
	conversationID string
	timestamp      time.Time
}

// NewCallLifecycleEvent создает событие жизненного цикла звонка (Factory Method)
func NewCallLifecycleEvent(kind CallEventKind, conversationID string, timestamp time.Time) (*CallLifecycleEvent, error) {
	switch kind {
	case CallStarted, CallEnded:
	default:
		return nil, errors.New("invalid call event kind")
	}
	if conversationID == "" {
		return nil, errors.New("conversation_id is required")
	}
	if timestamp.IsZero() {
		return nil, errors.New("timestamp is required")
	}

	return &CallLifecycleEvent{
		kind:           kind,
		conversationID: conversationID,
		timestamp:      timestamp,
	}, nil
}

// Kind возвращает вид события
func (e *CallLifecycleEvent) Kind() CallEventKind {
	return e.kind
}

// ConversationID возвращает идентификатор разговора
func (e *CallLifecycleEvent) ConversationID() string {
	return e.conversationID
}

// Timestamp возвращает время события
func (e *CallLifecycleEvent) Timestamp() time.Time {
	return e.timestamp
}
