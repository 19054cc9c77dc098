package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Paysweep/internal/domain"
)

func TestDecodeIDs_Array(t *testing.T) {
	got, err := DecodeIDs([]byte(`[101, 102, 103]`), domain.ShapeArray, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.BookingID{101, 102, 103}, got)

	got, err = DecodeIDs([]byte(`null`), domain.ShapeArray, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeIDs_Wrapped(t *testing.T) {
	got, err := DecodeIDs([]byte(`{"BookingIds":[7,8]}`), domain.ShapeWrapped, "bookingIds")
	require.NoError(t, err)
	assert.Equal(t, []domain.BookingID{7, 8}, got)

	got, err = DecodeIDs([]byte(`{"bookingIds":null}`), domain.ShapeWrapped, "bookingIds")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeIDs_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		shape domain.Shape
	}{
		{"object for array", `{"bookingIds":[1]}`, domain.ShapeArray},
		{"strings in array", `["a","b"]`, domain.ShapeArray},
		{"html", `<html>`, domain.ShapeArray},
		{"array for wrapped", `[1,2]`, domain.ShapeWrapped},
		{"missing field", `{"ids":[1]}`, domain.ShapeWrapped},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeIDs([]byte(tc.body), tc.shape, "bookingIds")
			assert.Error(t, err)
		})
	}
}

func TestDecodeIDs_UnknownShape(t *testing.T) {
	_, err := DecodeIDs([]byte(`[]`), domain.Shape("csv"), "")
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestEncodeBatch(t *testing.T) {
	body, err := EncodeBatch(domain.Batch{101, 102}, domain.ShapeArray, "")
	require.NoError(t, err)
	assert.JSONEq(t, `[101,102]`, string(body))

	body, err = EncodeBatch(domain.Batch{5}, domain.ShapeWrapped, "bookingIds")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bookingIds":[5]}`, string(body))

	_, err = EncodeBatch(domain.Batch{5}, domain.Shape("csv"), "")
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestDecodeOutcome(t *testing.T) {
	got, err := DecodeOutcome([]byte(`{"message":"3 captured","hasErrors":false}`))
	require.NoError(t, err)
	assert.Equal(t, domain.Outcome{Message: "3 captured"}, got)

	got, err = DecodeOutcome([]byte(`{"Message":"1 failed","HasErrors":true}`))
	require.NoError(t, err)
	assert.Equal(t, domain.Outcome{Message: "1 failed", HasErrors: true}, got)

	got, err = DecodeOutcome([]byte("  "))
	require.NoError(t, err)
	assert.Equal(t, domain.Outcome{}, got)

	_, err = DecodeOutcome([]byte(`not json`))
	assert.Error(t, err)
}
