package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dreschagin/call-analytics-dashboard/internal/application/usecase"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// DemoAPIHandler обрабатывает control-запросы для демонстрации:
// инъекцию ошибок, изменение счетчика звонков и полный reset.
// Каждая операция завершается немедленным broadcast'ом.
type DemoAPIHandler struct {
	injectErrorsUC *usecase.InjectErrorsUseCase
	adjustCallsUC  *usecase.AdjustActiveCallsUseCase
	resetUC        *usecase.ResetDashboardUseCase
	logger         *logger.Logger
}

// NewDemoAPIHandler создает новый handler
func NewDemoAPIHandler(
	injectErrorsUC *usecase.InjectErrorsUseCase,
	adjustCallsUC *usecase.AdjustActiveCallsUseCase,
	resetUC *usecase.ResetDashboardUseCase,
	logger *logger.Logger,
) *DemoAPIHandler {
	return &DemoAPIHandler{
		injectErrorsUC: injectErrorsUC,
		adjustCallsUC:  adjustCallsUC,
		resetUC:        resetUC,
		logger:         logger,
	}
}

type injectErrorRequest struct {
	ErrorType      string `json:"error_type"`
	Message        string `json:"message"`
	Severity       string `json:"severity"`
	Count          int    `json:"count"`
	ConversationID string `json:"conversation_id"`
}

type adjustActiveCallsRequest struct {
	Delta int `json:"delta"`
}

// InjectError инъецирует демонстрационные ошибки в агрегатор
func (h *DemoAPIHandler) InjectError(w http.ResponseWriter, r *http.Request) {
	var req injectErrorRequest
	// Пустое тело допустимо: применяются значения по умолчанию
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	injected, err := h.injectErrorsUC.Execute(r.Context(), usecase.InjectErrorsCommand{
		ErrorType:      req.ErrorType,
		Message:        req.Message,
		Severity:       req.Severity,
		Count:          req.Count,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"injected": injected,
		"message":  fmt.Sprintf("Successfully injected %d errors", injected),
	})
}

// AdjustActiveCalls применяет дельту к счетчику активных звонков
func (h *DemoAPIHandler) AdjustActiveCalls(w http.ResponseWriter, r *http.Request) {
	var req adjustActiveCallsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	count := h.adjustCallsUC.Execute(r.Context(), req.Delta)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"active_calls": count,
	})
}

// Reset сбрасывает состояние dashboard
func (h *DemoAPIHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.resetUC.Execute(r.Context())

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Dashboard state reset",
	})
}
