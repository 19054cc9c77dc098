package domain

// BookingID — идентификатор бронирования, единица работы для операций.
// Воркеру не нужны никакие атрибуты, кроме самого id.
type BookingID int64

// Batch — упорядоченный чанк идентификаторов.
// Длина чанка всегда в диапазоне [1, ChunkSize].
type Batch []BookingID

// Len возвращает количество идентификаторов в чанке.
func (b Batch) Len() int {
	return len(b)
}

// Int64s возвращает идентификаторы как []int64 (для сериализации и логов).
func (b Batch) Int64s() []int64 {
	out := make([]int64, len(b))
	for i, id := range b {
		out[i] = int64(id)
	}
	return out
}

// Outcome — ответ processing endpoint на один чанк.
//
// Используется только для логирования и метрик, никуда не сохраняется.
type Outcome struct {
	// Message — человекочитаемое описание результата.
	Message string `json:"message"`

	// HasErrors — API обработал чанк, но часть бронирований с ошибками.
	HasErrors bool `json:"hasErrors"`
}
