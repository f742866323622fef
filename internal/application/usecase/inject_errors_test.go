package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

func newInjectFixture() (*service.MetricsAggregator, *fakeNotifier, *InjectErrorsUseCase) {
	agg := service.NewMetricsAggregator(time.Now())
	notifier := &fakeNotifier{}
	broadcast := NewBroadcastSnapshotUseCase(agg, notifier, nil, "", logger.New("error"))
	return agg, notifier, NewInjectErrorsUseCase(agg, broadcast, logger.New("error"))
}

func TestInjectErrorsAppliesDefaults(t *testing.T) {
	agg, notifier, uc := newInjectFixture()

	injected, err := uc.Execute(context.Background(), InjectErrorsCommand{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if injected != 1 {
		t.Fatalf("injected = %d, want 1", injected)
	}

	logs := agg.RecentErrors("DEFAULT_ERROR", 10)
	if len(logs) != 1 {
		t.Fatalf("expected one DEFAULT_ERROR entry, got %d", len(logs))
	}
	if logs[0].Message() != "This is a simulated error." {
		t.Fatalf("message = %q", logs[0].Message())
	}
	if logs[0].Severity().String() != "medium" {
		t.Fatalf("severity = %q, want medium", logs[0].Severity())
	}
	if logs[0].ConversationID() == "" {
		t.Fatal("conversation_id must be generated")
	}

	// Инъекция завершается немедленным broadcast'ом
	notifier.last(t)
}

func TestInjectErrorsRespectsCount(t *testing.T) {
	agg, _, uc := newInjectFixture()

	injected, err := uc.Execute(context.Background(), InjectErrorsCommand{
		ErrorType: "API_TIMEOUT",
		Severity:  "high",
		Count:     7,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if injected != 7 {
		t.Fatalf("injected = %d, want 7", injected)
	}
	if got := agg.ErrorCount(); got != 7 {
		t.Fatalf("ErrorCount() = %d, want 7", got)
	}
}

func TestInjectErrorsRejectsInvalidSeverity(t *testing.T) {
	agg, notifier, uc := newInjectFixture()

	injected, err := uc.Execute(context.Background(), InjectErrorsCommand{Severity: "fatal"})
	if err == nil {
		t.Fatal("expected error for invalid severity")
	}
	if injected != 0 {
		t.Fatalf("injected = %d, want 0", injected)
	}
	if agg.ErrorCount() != 0 {
		t.Fatalf("aggregator must stay untouched, got %d errors", agg.ErrorCount())
	}
	if len(notifier.snapshots) != 0 {
		t.Fatal("no broadcast expected on validation failure")
	}
}
