package dispatch

import (
	"fmt"

	"github.com/shaiso/Paysweep/internal/domain"
)

// Partition разбивает список на упорядоченные чанки размером не больше size.
//
// Чанков ровно ceil(N/size), пустых чанков нет (в том числе когда N кратно
// size), конкатенация чанков совпадает с исходным списком. Для пустого
// списка возвращается nil.
//
// Чанки — подслайсы ids, исходный слайс не копируется.
func Partition(ids []domain.BookingID, size int) ([]domain.Batch, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}

	total := totalBatches(len(ids), size)
	if total == 0 {
		return nil, nil
	}

	batches := make([]domain.Batch, 0, total)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, domain.Batch(ids[start:end:end]))
	}

	return batches, nil
}

// totalBatches вычисляет количество чанков для n элементов.
func totalBatches(n, size int) int {
	batches := n / size
	if n%size > 0 {
		batches++
	}
	return batches
}
