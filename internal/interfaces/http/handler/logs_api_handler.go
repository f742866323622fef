package handler

import (
	"net/http"
	"strconv"

	"github.com/dreschagin/call-analytics-dashboard/internal/application/dto"
	"github.com/dreschagin/call-analytics-dashboard/internal/application/usecase"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// LogsAPIHandler обрабатывает drill-down запросы по буферу ошибок
type LogsAPIHandler struct {
	getErrorLogsUC *usecase.GetErrorLogsUseCase
	logger         *logger.Logger
}

// NewLogsAPIHandler создает новый handler
func NewLogsAPIHandler(
	getErrorLogsUC *usecase.GetErrorLogsUseCase,
	logger *logger.Logger,
) *LogsAPIHandler {
	return &LogsAPIHandler{
		getErrorLogsUC: getErrorLogsUC,
		logger:         logger,
	}
}

type errorLogsResponse struct {
	Errors []dto.ErrorLogDTO `json:"errors"`
}

// GetErrorLogs возвращает последние ошибки указанного типа, самые новые первыми
func (h *LogsAPIHandler) GetErrorLogs(w http.ResponseWriter, r *http.Request) {
	errorType := r.PathValue("error_type")
	if errorType == "" {
		http.Error(w, "Missing error_type", http.StatusBadRequest)
		return
	}

	limit := usecase.DefaultErrorLogsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	logs := h.getErrorLogsUC.Execute(errorType, limit)

	respondJSON(w, http.StatusOK, errorLogsResponse{Errors: logs})
}
