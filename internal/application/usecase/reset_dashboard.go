package usecase

import (
	"context"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// ResetDashboardUseCase очищает состояние dashboard: буфер ошибок,
// счетчик звонков и базу накопления ROI. Вызывается только явным
// control-запросом.
type ResetDashboardUseCase struct {
	aggregator *service.MetricsAggregator
	broadcast  *BroadcastSnapshotUseCase
	logger     *logger.Logger
}

// NewResetDashboardUseCase создает новый use case
func NewResetDashboardUseCase(
	aggregator *service.MetricsAggregator,
	broadcast *BroadcastSnapshotUseCase,
	logger *logger.Logger,
) *ResetDashboardUseCase {
	return &ResetDashboardUseCase{
		aggregator: aggregator,
		broadcast:  broadcast,
		logger:     logger,
	}
}

// Execute сбрасывает состояние и запускает немедленный broadcast
func (uc *ResetDashboardUseCase) Execute(ctx context.Context) {
	uc.aggregator.Reset(time.Now())

	uc.logger.Info("Dashboard state reset")

	uc.broadcast.Execute(ctx)
}
