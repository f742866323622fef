package usecase

import (
	"github.com/dreschagin/call-analytics-dashboard/internal/application/dto"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// DefaultErrorLogsLimit используется когда клиент не указал limit
const DefaultErrorLogsLimit = 50

// GetErrorLogsUseCase возвращает последние ошибки указанного типа
// для drill-down просмотра, самые новые первыми
type GetErrorLogsUseCase struct {
	aggregator *service.MetricsAggregator
	logger     *logger.Logger
}

// NewGetErrorLogsUseCase создает новый use case
func NewGetErrorLogsUseCase(
	aggregator *service.MetricsAggregator,
	logger *logger.Logger,
) *GetErrorLogsUseCase {
	return &GetErrorLogsUseCase{
		aggregator: aggregator,
		logger:     logger,
	}
}

// Execute возвращает не более limit ошибок типа errorType
func (uc *GetErrorLogsUseCase) Execute(errorType string, limit int) []dto.ErrorLogDTO {
	if limit <= 0 {
		limit = DefaultErrorLogsLimit
	}

	events := uc.aggregator.RecentErrors(errorType, limit)

	logs := make([]dto.ErrorLogDTO, 0, len(events))
	for _, e := range events {
		logs = append(logs, dto.FromErrorEvent(e))
	}

	uc.logger.Debug("Error logs fetched", "error_type", errorType, "count", len(logs))

	return logs
}
