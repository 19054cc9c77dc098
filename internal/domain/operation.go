package domain

import (
	"fmt"
	"time"
)

// OperationKind — тип операции.
type OperationKind string

const (
	// OperationKindBatch — fetch → partition → dispatch.
	OperationKindBatch OperationKind = "batch"

	// OperationKindNotify — один POST <process_url>/send без тела и без чанков.
	OperationKindNotify OperationKind = "notify"
)

// Shape — форма JSON-тела со списком идентификаторов.
//
// Разные семейства endpoint'ов используют разные формы, поэтому форма
// задаётся на уровне операции и одинакова для fetch и process.
type Shape string

const (
	// ShapeArray — голый массив: [1, 2, 3].
	ShapeArray Shape = "array"

	// ShapeWrapped — объект с полем-массивом: {"bookingIds": [1, 2, 3]}.
	ShapeWrapped Shape = "wrapped"
)

// DefaultWrapField — имя поля для ShapeWrapped по умолчанию.
const DefaultWrapField = "bookingIds"

// OperationSpec — описание одной операции сверки.
//
// Загружается один раз при старте и не меняется в течение прохода.
type OperationSpec struct {
	// Name — имя операции (capture, charge, cancel, ...).
	Name string

	// Kind — batch или notify.
	Kind OperationKind

	// FetchURL — абсолютный URL списка бронирований к обработке.
	FetchURL string

	// ProcessURL — абсолютный URL обработки чанка (для notify — базовый URL).
	ProcessURL string

	// ChunkSize — максимальный размер чанка.
	ChunkSize int

	// Shape — форма тела для fetch и process.
	Shape Shape

	// WrapField — имя поля-массива для ShapeWrapped.
	WrapField string

	// PointInTime — добавлять ли к FetchURL метку времени "/<ISO-8601 UTC>".
	PointInTime bool

	// DaysAhead — смещение метки времени в днях (например, charge за N дней до дедлайна).
	DaysAhead int
}

// pointInTimeLayout — round-trip формат ("o"), который ожидает API.
const pointInTimeLayout = "2006-01-02T15:04:05.0000000Z"

// ResolveFetchURL возвращает URL для GET на момент now.
func (s OperationSpec) ResolveFetchURL(now time.Time) string {
	if !s.PointInTime {
		return s.FetchURL
	}
	at := now.UTC().AddDate(0, 0, s.DaysAhead)
	return fmt.Sprintf("%s/%s", s.FetchURL, at.Format(pointInTimeLayout))
}

// FieldName возвращает имя поля-массива для ShapeWrapped.
func (s OperationSpec) FieldName() string {
	if s.WrapField == "" {
		return DefaultWrapField
	}
	return s.WrapField
}
