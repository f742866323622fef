package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/application/dto"
	"github.com/dreschagin/call-analytics-dashboard/internal/application/port"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

// BroadcastSnapshotUseCase строит snapshot из агрегатора и рассылает его
// всем подключенным клиентам. Вызывается по таймеру и немедленно после
// control-операций (инъекция ошибок, изменение звонков, reset).
type BroadcastSnapshotUseCase struct {
	aggregator   *service.MetricsAggregator
	notifier     port.NotificationService
	alerts       port.EventPublisher // nil если broker отключен
	alertSubject string
	logger       *logger.Logger

	mu         sync.Mutex
	lastStatus valueobject.StatusLevel
}

// NewBroadcastSnapshotUseCase создает новый use case
func NewBroadcastSnapshotUseCase(
	aggregator *service.MetricsAggregator,
	notifier port.NotificationService,
	alerts port.EventPublisher,
	alertSubject string,
	logger *logger.Logger,
) *BroadcastSnapshotUseCase {
	return &BroadcastSnapshotUseCase{
		aggregator:   aggregator,
		notifier:     notifier,
		alerts:       alerts,
		alertSubject: alertSubject,
		logger:       logger,
		lastStatus:   valueobject.StatusGreen,
	}
}

// Execute выполняет один broadcast tick
func (uc *BroadcastSnapshotUseCase) Execute(ctx context.Context) {
	snapshot := uc.aggregator.Snapshot(time.Now())

	uc.notifier.Broadcast(dto.FromSnapshot(snapshot))
	uc.logger.Debug("Snapshot broadcasted",
		"client_count", uc.notifier.ClientCount(),
		"status", snapshot.LiveStatus.Status.String(),
		"active_calls", snapshot.ActiveCalls,
	)

	uc.publishStatusTransition(ctx, snapshot)
}

// publishStatusTransition зеркалирует смену статуса во внешний broker.
// Ошибка публикации логируется и не прерывает broadcast.
func (uc *BroadcastSnapshotUseCase) publishStatusTransition(ctx context.Context, snapshot service.Snapshot) {
	uc.mu.Lock()
	previous := uc.lastStatus
	current := snapshot.LiveStatus.Status
	uc.lastStatus = current
	uc.mu.Unlock()

	if uc.alerts == nil || previous == current {
		return
	}

	alert := dto.AlertDTO{
		Timestamp:      snapshot.GeneratedAt,
		Status:         current.String(),
		PreviousStatus: previous.String(),
		Message:        snapshot.LiveStatus.Message,
	}

	if err := uc.alerts.PublishEvent(ctx, uc.alertSubject, alert); err != nil {
		uc.logger.Error("Failed to publish status alert", err, "subject", uc.alertSubject)
		return
	}

	uc.logger.Info("Status transition published",
		"previous", alert.PreviousStatus,
		"current", alert.Status,
	)
}
