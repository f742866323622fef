package port

// StreamHealth отражает состояние транспорта потока событий (Port).
// Флаг обновляется consumer'ом на каждой успешной/неуспешной операции,
// отдельный probe-запрос к Redis не выполняется.
type StreamHealth interface {
	// Connected сообщает, жив ли транспорт потока событий
	Connected() bool
}
