package valueobject

import "errors"

// StatusLevel представляет состояние системы на dashboard (Value Object)
type StatusLevel string

const (
	StatusGreen  StatusLevel = "green"
	StatusYellow StatusLevel = "yellow"
	StatusRed    StatusLevel = "red"
)

// Пороговые значения по количеству ошибок за последние 24 часа.
const (
	greenMaxErrors  = 3
	yellowMaxErrors = 10
)

// StatusForErrorCount возвращает статус для количества ошибок за 24 часа:
// <=3 green, 4..10 yellow, >10 red
func StatusForErrorCount(count int) StatusLevel {
	switch {
	case count <= greenMaxErrors:
		return StatusGreen
	case count <= yellowMaxErrors:
		return StatusYellow
	default:
		return StatusRed
	}
}

// Validate проверяет валидность статуса
func (s StatusLevel) Validate() error {
	switch s {
	case StatusGreen, StatusYellow, StatusRed:
		return nil
	default:
		return errors.New("invalid status level")
	}
}

// String возвращает строковое представление статуса
func (s StatusLevel) String() string {
	return string(s)
}
