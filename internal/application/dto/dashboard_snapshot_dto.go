package dto

import (
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/service"
)

// DashboardSnapshotDTO представляет snapshot состояния dashboard
// Используется для передачи через WebSocket
type DashboardSnapshotDTO struct {
	ActiveCalls     ActiveCallsDTO     `json:"active_calls"`
	ErrorSummary    []ErrorSummaryDTO  `json:"error_summary"`
	LiveStatus      LiveStatusDTO      `json:"live_status"`
	FinancialImpact FinancialImpactDTO `json:"financial_impact"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// ActiveCallsDTO представляет счетчик активных звонков
type ActiveCallsDTO struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorSummaryDTO представляет агрегат ошибок одного типа за 24 часа
type ErrorSummaryDTO struct {
	ErrorType      string    `json:"error_type"`
	Count          int       `json:"count"`
	Severity       string    `json:"severity"`
	LastOccurrence time.Time `json:"last_occurrence"`
}

// LiveStatusDTO представляет вычисленный статус системы
type LiveStatusDTO struct {
	Status      string    `json:"status"` // "green", "yellow", "red"
	Message     string    `json:"message"`
	LastUpdated time.Time `json:"last_updated"`
}

// FinancialImpactDTO представляет финансовые показатели
type FinancialImpactDTO struct {
	EstimatedRevenuePerMin      float64 `json:"estimated_revenue_per_min"`
	EstimatedCostOfRecentErrors float64 `json:"estimated_cost_of_recent_errors"`
	TotalROI                    float64 `json:"total_roi"`
}

// FromSnapshot конвертирует domain snapshot в DTO
func FromSnapshot(s service.Snapshot) *DashboardSnapshotDTO {
	summary := make([]ErrorSummaryDTO, 0, len(s.ErrorSummary))
	for _, g := range s.ErrorSummary {
		summary = append(summary, ErrorSummaryDTO{
			ErrorType:      g.ErrorType,
			Count:          g.Count,
			Severity:       g.Severity.String(),
			LastOccurrence: g.LastOccurrence,
		})
	}

	return &DashboardSnapshotDTO{
		ActiveCalls: ActiveCallsDTO{
			Count:     s.ActiveCalls,
			Timestamp: s.GeneratedAt,
		},
		ErrorSummary: summary,
		LiveStatus: LiveStatusDTO{
			Status:      s.LiveStatus.Status.String(),
			Message:     s.LiveStatus.Message,
			LastUpdated: s.LiveStatus.LastUpdated,
		},
		FinancialImpact: FinancialImpactDTO{
			EstimatedRevenuePerMin:      s.FinancialImpact.EstimatedRevenuePerMin,
			EstimatedCostOfRecentErrors: s.FinancialImpact.EstimatedCostOfRecentErrors,
			TotalROI:                    s.FinancialImpact.TotalROI,
		},
		GeneratedAt: s.GeneratedAt,
	}
}

// AlertDTO представляет уведомление о смене статуса системы.
// Публикуется во внешний message broker при переходах green/yellow/red.
type AlertDTO struct {
	Timestamp      time.Time `json:"timestamp"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
	Message        string    `json:"message"`
}
