package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/call-analytics-dashboard/internal/domain/entity"
	"github.com/dreschagin/call-analytics-dashboard/internal/domain/valueobject"
)

const (
	// ReportingWindow определяет горизонт "недавних" ошибок для
	// error summary, live status и стоимости ошибок.
	ReportingWindow = 24 * time.Hour

	// RatePerCallPerMinute — оценочная выручка одного активного звонка в минуту.
	RatePerCallPerMinute = 1.00
)

// MetricsAggregator владеет всем мутабельным состоянием dashboard (Domain Service):
// счетчиком активных звонков, rolling-буфером ошибок и базой накопления ROI.
// Все операции синхронизированы: consumer, control-запросы и broadcast-reader
// видят консистентное состояние.
type MetricsAggregator struct {
	mu sync.Mutex

	activeCalls int
	buffer      *entity.ErrorBuffer

	// Накопление ROI: выручка интегрируется по времени, так как
	// activeCalls меняется между событиями.
	baseline            time.Time
	revenueMark         time.Time
	accruedRevenue      float64
	cumulativeErrorCost float64
}

// NewMetricsAggregator создает агрегатор с ROI-базой от now
func NewMetricsAggregator(now time.Time) *MetricsAggregator {
	return &MetricsAggregator{
		buffer:      entity.NewErrorBuffer(entity.DefaultErrorBufferCapacity),
		baseline:    now,
		revenueMark: now,
	}
}

// RecordCallStarted увеличивает счетчик активных звонков
func (a *MetricsAggregator) RecordCallStarted(conversationID string, at time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.accrueRevenue(at)
	a.activeCalls++
	return a.activeCalls
}

// RecordCallEnded уменьшает счетчик активных звонков (не ниже нуля)
func (a *MetricsAggregator) RecordCallEnded(conversationID string, at time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.accrueRevenue(at)
	if a.activeCalls > 0 {
		a.activeCalls--
	}
	return a.activeCalls
}

// AdjustActiveCalls применяет произвольную дельту к счетчику активных звонков.
// Результат не может стать отрицательным: значение прижимается к нулю.
func (a *MetricsAggregator) AdjustActiveCalls(delta int, at time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.accrueRevenue(at)
	a.activeCalls += delta
	if a.activeCalls < 0 {
		a.activeCalls = 0
	}
	return a.activeCalls
}

// RecordError добавляет ошибку в буфер (самая старая вытесняется при переполнении)
// и учитывает ее стоимость в накопленном ROI
func (a *MetricsAggregator) RecordError(event *entity.ErrorEvent) {
	if event == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.buffer.Append(event)
	a.cumulativeErrorCost += event.Severity().CostUSD()
}

// Reset очищает буфер ошибок, обнуляет счетчик активных звонков
// и перезапускает базу накопления ROI от now
func (a *MetricsAggregator) Reset(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buffer.Clear()
	a.activeCalls = 0
	a.baseline = now
	a.revenueMark = now
	a.accruedRevenue = 0
	a.cumulativeErrorCost = 0
}

// ActiveCalls возвращает текущее количество активных звонков
func (a *MetricsAggregator) ActiveCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeCalls
}

// ErrorCount возвращает текущий размер буфера ошибок
func (a *MetricsAggregator) ErrorCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buffer.Len()
}

// RecentErrors возвращает последние ошибки указанного типа, самые новые первыми.
// Пустой errorType означает "все типы".
func (a *MetricsAggregator) RecentErrors(errorType string, limit int) []*entity.ErrorEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := a.buffer.Entries()
	result := make([]*entity.ErrorEvent, 0, limit)

	// Буфер упорядочен от старых к новым: идем с конца
	for i := len(entries) - 1; i >= 0; i-- {
		if errorType != "" && entries[i].ErrorType() != errorType {
			continue
		}
		result = append(result, entries[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result
}

// Snapshot возвращает консистентный срез состояния на момент now.
// Чистое чтение: состояние агрегатора не изменяется.
func (a *MetricsAggregator) Snapshot(now time.Time) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	recent := a.recentEntries(now)

	return Snapshot{
		GeneratedAt:     now,
		ActiveCalls:     a.activeCalls,
		ErrorSummary:    buildErrorSummary(recent),
		LiveStatus:      buildLiveStatus(len(recent), now),
		FinancialImpact: a.buildFinancialImpact(recent, now),
	}
}

// recentEntries возвращает записи буфера внутри отчетного окна (от старых к новым)
func (a *MetricsAggregator) recentEntries(now time.Time) []*entity.ErrorEvent {
	entries := a.buffer.Entries()
	recent := make([]*entity.ErrorEvent, 0, len(entries))
	for _, e := range entries {
		if e.WithinWindow(now, ReportingWindow) {
			recent = append(recent, e)
		}
	}
	return recent
}

// buildErrorSummary группирует ошибки по типу.
// Порядок групп стабилен: по первому появлению типа в буфере.
// Severity и last_occurrence берутся от самой свежей ошибки группы;
// при равных timestamp побеждает более поздняя вставка.
func buildErrorSummary(recent []*entity.ErrorEvent) []ErrorGroup {
	index := make(map[string]int, len(recent))
	groups := make([]ErrorGroup, 0, len(recent))

	for _, e := range recent {
		i, ok := index[e.ErrorType()]
		if !ok {
			index[e.ErrorType()] = len(groups)
			groups = append(groups, ErrorGroup{
				ErrorType:      e.ErrorType(),
				Count:          1,
				Severity:       e.Severity(),
				LastOccurrence: e.Timestamp(),
			})
			continue
		}

		groups[i].Count++
		if !e.Timestamp().Before(groups[i].LastOccurrence) {
			groups[i].LastOccurrence = e.Timestamp()
			groups[i].Severity = e.Severity()
		}
	}

	return groups
}

// buildLiveStatus вычисляет статус системы по количеству недавних ошибок
func buildLiveStatus(recentCount int, now time.Time) LiveStatus {
	status := valueobject.StatusForErrorCount(recentCount)

	var message string
	switch status {
	case valueobject.StatusGreen:
		if recentCount == 0 {
			message = "System healthy."
		} else {
			message = fmt.Sprintf("System healthy. %d errors in the last 24 hours.", recentCount)
		}
	case valueobject.StatusYellow:
		message = fmt.Sprintf("WARNING: %d errors in the last 24 hours. Monitor closely.", recentCount)
	case valueobject.StatusRed:
		message = fmt.Sprintf("ALERT: %d errors in the last 24 hours. Immediate attention required.", recentCount)
	}

	return LiveStatus{
		Status:      status,
		Message:     message,
		LastUpdated: now,
	}
}

// buildFinancialImpact вычисляет финансовые показатели.
// total_roi — накопленный интеграл выручки минус суммарная стоимость ошибок
// с момента baseline, а не мгновенная величина.
func (a *MetricsAggregator) buildFinancialImpact(recent []*entity.ErrorEvent, now time.Time) FinancialImpact {
	var recentCost float64
	for _, e := range recent {
		recentCost += e.Severity().CostUSD()
	}

	revenuePerMin := float64(a.activeCalls) * RatePerCallPerMinute

	earned := a.accruedRevenue
	if now.After(a.revenueMark) {
		earned += revenuePerMin * now.Sub(a.revenueMark).Minutes()
	}

	return FinancialImpact{
		EstimatedRevenuePerMin:      revenuePerMin,
		EstimatedCostOfRecentErrors: recentCost,
		TotalROI:                    earned - a.cumulativeErrorCost,
	}
}

// accrueRevenue фиксирует заработанную выручку до изменения activeCalls.
// Вызывается под блокировкой.
func (a *MetricsAggregator) accrueRevenue(at time.Time) {
	if at.After(a.revenueMark) {
		a.accruedRevenue += float64(a.activeCalls) * RatePerCallPerMinute * at.Sub(a.revenueMark).Minutes()
		a.revenueMark = at
	}
}
