package usecase

import (
	"context"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// AdjustActiveCallsUseCase применяет дельту к счетчику активных звонков
// (control-операция) и запускает немедленный broadcast
type AdjustActiveCallsUseCase struct {
	aggregator *service.MetricsAggregator
	broadcast  *BroadcastSnapshotUseCase
	logger     *logger.Logger
}

// NewAdjustActiveCallsUseCase создает новый use case
func NewAdjustActiveCallsUseCase(
	aggregator *service.MetricsAggregator,
	broadcast *BroadcastSnapshotUseCase,
	logger *logger.Logger,
) *AdjustActiveCallsUseCase {
	return &AdjustActiveCallsUseCase{
		aggregator: aggregator,
		broadcast:  broadcast,
		logger:     logger,
	}
}

// Execute применяет delta и возвращает новое значение счетчика
func (uc *AdjustActiveCallsUseCase) Execute(ctx context.Context, delta int) int {
	count := uc.aggregator.AdjustActiveCalls(delta, time.Now())

	uc.logger.Info("Active calls adjusted", "delta", delta, "count", count)

	uc.broadcast.Execute(ctx)

	return count
}
