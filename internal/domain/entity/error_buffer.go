package entity

// DefaultErrorBufferCapacity ограничивает размер rolling-буфера ошибок.
const DefaultErrorBufferCapacity = 1000

// ErrorBuffer хранит последние N ошибок (FIFO ring).
// При переполнении вытесняется самая старая запись.
// Буфер не синхронизирован: владелец (MetricsAggregator) отвечает за доступ.
type ErrorBuffer struct {
	entries  []*ErrorEvent
	head     int
	size     int
	capacity int
}

// NewErrorBuffer создает буфер заданной емкости
func NewErrorBuffer(capacity int) *ErrorBuffer {
	if capacity <= 0 {
		capacity = DefaultErrorBufferCapacity
	}
	return &ErrorBuffer{
		entries:  make([]*ErrorEvent, capacity),
		capacity: capacity,
	}
}

// Append добавляет ошибку в буфер, вытесняя самую старую при переполнении
func (b *ErrorBuffer) Append(event *ErrorEvent) {
	if event == nil {
		return
	}

	tail := (b.head + b.size) % b.capacity
	b.entries[tail] = event

	if b.size < b.capacity {
		b.size++
		return
	}

	// Буфер полон: tail перезаписал самую старую запись, сдвигаем head
	b.head = (b.head + 1) % b.capacity
}

// Len возвращает текущее количество записей
func (b *ErrorBuffer) Len() int {
	return b.size
}

// Capacity возвращает емкость буфера
func (b *ErrorBuffer) Capacity() int {
	return b.capacity
}

// Clear удаляет все записи
func (b *ErrorBuffer) Clear() {
	for i := range b.entries {
		b.entries[i] = nil
	}
	b.head = 0
	b.size = 0
}

// Entries возвращает копию записей от самой старой к самой новой
func (b *ErrorBuffer) Entries() []*ErrorEvent {
	result := make([]*ErrorEvent, 0, b.size)
	for i := 0; i < b.size; i++ {
		result = append(result, b.entries[(b.head+i)%b.capacity])
	}
	return result
}
