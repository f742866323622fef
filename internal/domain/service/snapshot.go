package service

import (
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
)

// Snapshot представляет консистентный срез состояния dashboard.
// Иммутабелен после создания: строится целиком под блокировкой агрегатора.
type Snapshot struct {
	GeneratedAt     time.Time
	ActiveCalls     int
	ErrorSummary    []ErrorGroup
	LiveStatus      LiveStatus
	FinancialImpact FinancialImpact
}

// ErrorGroup представляет агрегат ошибок одного типа за отчетное окно
type ErrorGroup struct {
	ErrorType      string
	Count          int
	Severity       valueobject.Severity
	LastOccurrence time.Time
}

// LiveStatus представляет вычисленное состояние системы
type LiveStatus struct {
	Status      valueobject.StatusLevel
	Message     string
	LastUpdated time.Time
}

// FinancialImpact представляет финансовые показатели dashboard
type FinancialImpact struct {
	EstimatedRevenuePerMin      float64
	EstimatedCostOfRecentErrors float64
	TotalROI                    float64
}
