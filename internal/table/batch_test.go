package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		{Name: "timestamp_ns", Type: TypeUBigInt},
		{Name: "original_len", Type: TypeUInteger},
		{Name: "capture_len", Type: TypeUInteger},
		{Name: "data", Type: TypeBlob},
	}
}

func TestBatchAppendRow(t *testing.T) {
	b := NewBatch(testSchema(), 4)

	err := b.AppendRow(uint64(1_000_000_500), uint32(60), uint32(40), []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 3, b.Free())
	assert.Equal(t, uint64(1_000_000_500), b.Vector(0).U64[0])
	assert.Equal(t, uint32(60), b.Vector(1).U32[0])
	assert.Equal(t, uint32(40), b.Vector(2).U32[0])
	assert.Equal(t, []byte{1, 2, 3}, b.Vector(3).Blob[0])
}

func TestBatchBlobIsCopied(t *testing.T) {
	b := NewBatch(testSchema(), 2)

	payload := []byte{0xaa, 0xbb, 0xcc}
	require.NoError(t, b.AppendRow(uint64(1), uint32(3), uint32(3), payload))

	// Mutating the producer's buffer must not reach the batch.
	payload[0] = 0x00
	payload[1] = 0x00
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, b.Vector(3).Blob[0])
}

func TestBatchAppendRowArityMismatch(t *testing.T) {
	b := NewBatch(testSchema(), 2)
	err := b.AppendRow(uint64(1), uint32(2))
	assert.Error(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestBatchAppendRowTypeMismatch(t *testing.T) {
	b := NewBatch(testSchema(), 2)
	err := b.AppendRow("not-a-uint64", uint32(2), uint32(2), []byte{1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp_ns")
}

func TestBatchFull(t *testing.T) {
	b := NewBatch(testSchema(), 1)
	require.NoError(t, b.AppendRow(uint64(1), uint32(1), uint32(1), []byte{1}))

	err := b.AppendRow(uint64(2), uint32(2), uint32(2), []byte{2})
	assert.Error(t, err)
	assert.Equal(t, 1, b.Len())
}

func TestBatchReset(t *testing.T) {
	b := NewBatch(testSchema(), 2)
	require.NoError(t, b.AppendRow(uint64(1), uint32(1), uint32(1), []byte{1}))

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 2, b.Free())
	assert.Empty(t, b.Vector(0).U64)
	assert.Empty(t, b.Vector(3).Blob)

	require.NoError(t, b.AppendRow(uint64(2), uint32(2), uint32(2), []byte{2}))
	assert.Equal(t, uint64(2), b.Vector(0).U64[0])
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "UBIGINT", TypeUBigInt.String())
	assert.Equal(t, "UINTEGER", TypeUInteger.String())
	assert.Equal(t, "BLOB", TypeBlob.String())
	assert.Equal(t, "VARCHAR", TypeVarchar.String())
}
