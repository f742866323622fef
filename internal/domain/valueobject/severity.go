package valueobject

import (
	"errors"
	"strings"
)

// Severity представляет серьезность ошибки (Value Object)
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Стоимость одной ошибки в долларах по уровням серьезности.
// Используется для расчета financial impact.
var severityCostUSD = map[Severity]float64{
	SeverityLow:      0.68,
	SeverityMedium:   4.70,
	SeverityHigh:     71.50,
	SeverityCritical: 117.85,
}

// ParseSeverity парсит severity из строки (case-insensitive)
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate проверяет валидность severity
func (s Severity) Validate() error {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return nil
	default:
		return errors.New("invalid severity")
	}
}

// CostUSD возвращает оценочную стоимость одной ошибки данной серьезности
func (s Severity) CostUSD() float64 {
	return severityCostUSD[s]
}

// String возвращает строковое представление severity
func (s Severity) String() string {
	return string(s)
}

// AllSeverities возвращает список всех допустимых уровней серьезности
func AllSeverities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}
