package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/entity"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
	"github.com/google/uuid"
)

// InjectErrorsCommand описывает запрос на инъекцию демонстрационных ошибок
type InjectErrorsCommand struct {
	ErrorType      string
	Message        string
	Severity       string
	Count          int
	ConversationID string
}

// InjectErrorsUseCase записывает в агрегатор count одинаковых ошибок
// с почти идентичными timestamp и запускает немедленный broadcast
type InjectErrorsUseCase struct {
	aggregator *service.MetricsAggregator
	broadcast  *BroadcastSnapshotUseCase
	logger     *logger.Logger
}

// NewInjectErrorsUseCase создает новый use case
func NewInjectErrorsUseCase(
	aggregator *service.MetricsAggregator,
	broadcast *BroadcastSnapshotUseCase,
	logger *logger.Logger,
) *InjectErrorsUseCase {
	return &InjectErrorsUseCase{
		aggregator: aggregator,
		broadcast:  broadcast,
		logger:     logger,
	}
}

// Execute выполняет инъекцию и возвращает количество записанных ошибок
func (uc *InjectErrorsUseCase) Execute(ctx context.Context, cmd InjectErrorsCommand) (int, error) {
	if cmd.ErrorType == "" {
		cmd.ErrorType = "DEFAULT_ERROR"
	}
	if cmd.Message == "" {
		cmd.Message = "This is a simulated error."
	}
	if cmd.Severity == "" {
		cmd.Severity = valueobject.SeverityMedium.String()
	}
	if cmd.Count <= 0 {
		cmd.Count = 1
	}
	if cmd.ConversationID == "" {
		cmd.ConversationID = "demo-" + uuid.NewString()
	}

	severity, err := valueobject.ParseSeverity(cmd.Severity)
	if err != nil {
		return 0, fmt.Errorf("invalid severity %q: %w", cmd.Severity, err)
	}

	injected := 0
	for i := 0; i < cmd.Count; i++ {
		event, err := entity.NewErrorEvent(cmd.ErrorType, cmd.Message, severity, cmd.ConversationID, time.Now())
		if err != nil {
			return injected, fmt.Errorf("failed to build error event: %w", err)
		}
		uc.aggregator.RecordError(event)
		injected++
	}

	uc.logger.Warn("Demo errors injected",
		"error_type", cmd.ErrorType,
		"severity", severity.String(),
		"count", injected,
	)

	uc.broadcast.Execute(ctx)

	return injected, nil
}
