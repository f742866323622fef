package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/entity"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/call-analytics-dashboard/pkg/logger"
)

func TestGetErrorLogsNewestFirstWithLimit(t *testing.T) {
	agg := service.NewMetricsAggregator(time.Now())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		event, err := entity.NewErrorEvent("API_TIMEOUT", fmt.Sprintf("occurrence %d", i), valueobject.SeverityHigh, "conv-1", base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("NewErrorEvent() error = %v", err)
		}
		agg.RecordError(event)
	}

	uc := NewGetErrorLogsUseCase(agg, logger.New("error"))
	logs := uc.Execute("API_TIMEOUT", 3)

	if len(logs) != 3 {
		t.Fatalf("len = %d, want 3", len(logs))
	}
	if logs[0].Message != "occurrence 4" {
		t.Fatalf("first entry = %q, want newest", logs[0].Message)
	}
	for i := 0; i < len(logs)-1; i++ {
		if logs[i].Timestamp.Before(logs[i+1].Timestamp) {
			t.Fatal("entries not in newest-first order")
		}
	}
}

func TestGetErrorLogsDefaultsLimit(t *testing.T) {
	agg := service.NewMetricsAggregator(time.Now())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < DefaultErrorLogsLimit+10; i++ {
		event, err := entity.NewErrorEvent("E", "m", valueobject.SeverityLow, "", base.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			t.Fatalf("NewErrorEvent() error = %v", err)
		}
		agg.RecordError(event)
	}

	uc := NewGetErrorLogsUseCase(agg, logger.New("error"))

	if got := len(uc.Execute("E", 0)); got != DefaultErrorLogsLimit {
		t.Fatalf("len = %d, want default limit %d", got, DefaultErrorLogsLimit)
	}
}

func TestGetErrorLogsUnknownTypeReturnsEmpty(t *testing.T) {
	agg := service.NewMetricsAggregator(time.Now())
	uc := NewGetErrorLogsUseCase(agg, logger.New("error"))

	logs := uc.Execute("NO_SUCH_TYPE", 10)
	if logs == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(logs) != 0 {
		t.Fatalf("len = %d, want 0", len(logs))
	}
}
