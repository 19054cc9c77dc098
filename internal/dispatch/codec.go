package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shaiso/Paysweep/internal/domain"
)

// DecodeIDs разбирает список идентификаторов в заданной форме.
//
// Для ShapeWrapped имя поля сравнивается без учёта регистра.
// null (как весь ответ или значение поля) трактуется как пустой список.
func DecodeIDs(body []byte, shape domain.Shape, field string) ([]domain.BookingID, error) {
	switch shape {
	case domain.ShapeArray, "":
		return decodeArray(body)
	case domain.ShapeWrapped:
		return decodeWrapped(body, field)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
}

// EncodeBatch сериализует чанк в заданной форме.
func EncodeBatch(batch domain.Batch, shape domain.Shape, field string) ([]byte, error) {
	ids := batch.Int64s()

	switch shape {
	case domain.ShapeArray, "":
		return json.Marshal(ids)
	case domain.ShapeWrapped:
		return json.Marshal(map[string][]int64{field: ids})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, shape)
	}
}

// DecodeOutcome разбирает ответ processing endpoint.
//
// Поля message / hasErrors сопоставляются без учёта регистра.
// Пустое тело — успешный результат без сообщения.
func DecodeOutcome(body []byte) (domain.Outcome, error) {
	var outcome domain.Outcome
	if len(bytes.TrimSpace(body)) == 0 {
		return outcome, nil
	}
	if err := json.Unmarshal(body, &outcome); err != nil {
		return domain.Outcome{}, fmt.Errorf("decode outcome: %w", err)
	}
	return outcome, nil
}

// decodeArray разбирает голый массив идентификаторов.
func decodeArray(body []byte) ([]domain.BookingID, error) {
	var ids []domain.BookingID
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("decode id array: %w", err)
	}
	return ids, nil
}

// decodeWrapped разбирает объект с полем-массивом идентификаторов.
func decodeWrapped(body []byte, field string) ([]domain.BookingID, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode id container: %w", err)
	}

	for key, raw := range fields {
		if strings.EqualFold(key, field) {
			return decodeArray(raw)
		}
	}

	return nil, fmt.Errorf("decode id container: field %q not found", field)
}
