package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Paysweep/internal/domain"
)

func ids(n int) []domain.BookingID {
	out := make([]domain.BookingID, n)
	for i := range out {
		out[i] = domain.BookingID(i + 1)
	}
	return out
}

func TestPartition_Completeness(t *testing.T) {
	for n := 0; n <= 40; n++ {
		for size := 1; size <= 12; size++ {
			items := ids(n)

			batches, err := Partition(items, size)
			require.NoError(t, err)

			want := (n + size - 1) / size
			require.Len(t, batches, want, "n=%d size=%d", n, size)

			var joined []domain.BookingID
			for _, b := range batches {
				require.NotEmpty(t, b, "n=%d size=%d", n, size)
				require.LessOrEqual(t, b.Len(), size, "n=%d size=%d", n, size)
				joined = append(joined, b...)
			}
			if n == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, items, joined, "n=%d size=%d", n, size)
		}
	}
}

func TestPartition_ExactMultipleHasNoTrailingBatch(t *testing.T) {
	batches, err := Partition(ids(10), 5)
	require.NoError(t, err)

	require.Len(t, batches, 2)
	assert.Equal(t, domain.Batch{1, 2, 3, 4, 5}, batches[0])
	assert.Equal(t, domain.Batch{6, 7, 8, 9, 10}, batches[1])
}

func TestPartition_SizeLargerThanList(t *testing.T) {
	batches, err := Partition(ids(3), 100)
	require.NoError(t, err)

	require.Len(t, batches, 1)
	assert.Equal(t, domain.Batch{1, 2, 3}, batches[0])
}

func TestPartition_Empty(t *testing.T) {
	batches, err := Partition(nil, 5)
	require.NoError(t, err)
	assert.Nil(t, batches)
}

func TestPartition_InvalidSize(t *testing.T) {
	_, err := Partition(ids(3), 0)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)

	_, err = Partition(ids(3), -1)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)
}

func TestPartition_BatchesDoNotAlias(t *testing.T) {
	batches, err := Partition(ids(4), 2)
	require.NoError(t, err)

	// append к первому чанку не должен затирать второй
	_ = append(batches[0], 99)
	assert.Equal(t, domain.Batch{3, 4}, batches[1])
}
