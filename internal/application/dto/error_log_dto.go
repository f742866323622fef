package dto

import (
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/entity"
)

// ErrorLogDTO представляет одну запись буфера ошибок для drill-down endpoint
type ErrorLogDTO struct {
	Timestamp      time.Time `json:"timestamp"`
	ErrorType      string    `json:"error_type"`
	Message        string    `json:"message"`
	Severity       string    `json:"severity"`
	ConversationID string    `json:"conversation_id,omitempty"`
}

// FromErrorEvent конвертирует событие ошибки в DTO
func FromErrorEvent(e *entity.ErrorEvent) ErrorLogDTO {
	return ErrorLogDTO{
		Timestamp:      e.Timestamp(),
		ErrorType:      e.ErrorType(),
		Message:        e.Message(),
		Severity:       e.Severity().String(),
		ConversationID: e.ConversationID(),
	}
}
