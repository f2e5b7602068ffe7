package readpcap

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/pcapscan/internal/table"
)

// writePcapFile builds a little-endian microsecond capture with the given
// payloads and writes it under dir.
func writePcapFile(t *testing.T, dir string, payloads [][]byte) string {
	t.Helper()
	var buf bytes.Buffer

	hdr := make([]byte, 24)
	binary.LittleEndian.PutUint32(hdr[0:4], 0xa1b2c3d4)
	binary.LittleEndian.PutUint16(hdr[4:6], 2)
	binary.LittleEndian.PutUint16(hdr[6:8], 4)
	binary.LittleEndian.PutUint32(hdr[16:20], 65535)
	binary.LittleEndian.PutUint32(hdr[20:24], 1)
	buf.Write(hdr)

	for i, p := range payloads {
		var rec [16]byte
		binary.LittleEndian.PutUint32(rec[0:4], uint32(1700000000+i))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(i))
		binary.LittleEndian.PutUint32(rec[8:12], uint32(len(p)))
		binary.LittleEndian.PutUint32(rec[12:16], uint32(len(p)))
		buf.Write(rec[:])
		buf.Write(p)
	}

	path := filepath.Join(dir, "test.pcap")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestBindRequiresFilename(t *testing.T) {
	fn := New()

	_, err := fn.Bind(table.Arguments{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "filename parameter is required")

	_, err = fn.Bind(table.Arguments{Positional: []any{""}})
	assert.Error(t, err)

	_, err = fn.Bind(table.Arguments{Positional: []any{42}})
	assert.Error(t, err)
}

func TestBindNamedParameters(t *testing.T) {
	fn := New()

	b, err := fn.Bind(table.Arguments{
		Positional: []any{"capture.pcap"},
		Named:      map[string]any{"batch_size": 16},
	})
	require.NoError(t, err)
	assert.Equal(t, 16, b.(*binding).opts.BatchSize)

	_, err = fn.Bind(table.Arguments{
		Positional: []any{"capture.pcap"},
		Named:      map[string]any{"batch_size": "not-a-number"},
	})
	assert.Error(t, err)
}

func TestBindDefaultBatchSize(t *testing.T) {
	fn := New()
	b, err := fn.Bind(table.Arguments{Positional: []any{"capture.pcap"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, b.(*binding).opts.BatchSize)
}

func TestSchemaColumns(t *testing.T) {
	b := &binding{path: "capture.pcap"}

	schema := b.Schema()
	require.Len(t, schema, 4)
	assert.Equal(t, table.Column{Name: "timestamp_ns", Type: table.TypeUBigInt}, schema[0])
	assert.Equal(t, table.Column{Name: "original_len", Type: table.TypeUInteger}, schema[1])
	assert.Equal(t, table.Column{Name: "capture_len", Type: table.TypeUInteger}, schema[2])
	assert.Equal(t, table.Column{Name: "data", Type: table.TypeBlob}, schema[3])
}

func TestInitMissingFile(t *testing.T) {
	b := &binding{path: filepath.Join(t.TempDir(), "missing.pcap")}
	_, err := b.Init()
	assert.Error(t, err)
}

func TestScanEndToEnd(t *testing.T) {
	payloads := [][]byte{
		[]byte("first"),
		[]byte("second-longer"),
		[]byte("x"),
	}
	path := writePcapFile(t, t.TempDir(), payloads)

	reg := table.NewRegistry()
	require.NoError(t, Register(reg))
	fn, err := reg.Lookup(Name)
	require.NoError(t, err)

	b, err := fn.Bind(table.Arguments{Positional: []any{path}})
	require.NoError(t, err)

	scanner, err := b.Init()
	require.NoError(t, err)
	defer scanner.Close()

	batch := table.NewBatch(b.Schema(), 10)
	rows, done := scanner.Scan(batch)
	assert.Equal(t, 3, rows)
	assert.True(t, done)
	assert.NoError(t, scanner.Err())

	for i, p := range payloads {
		assert.Equal(t, uint64(1700000000+i)*1_000_000_000+uint64(i)*1_000, batch.Vector(0).U64[i])
		assert.Equal(t, uint32(len(p)), batch.Vector(1).U32[i])
		assert.Equal(t, uint32(len(p)), batch.Vector(2).U32[i])
		assert.Equal(t, p, batch.Vector(3).Blob[i])
	}

	// Exhausted stream keeps yielding empty batches.
	batch.Reset()
	rows, done = scanner.Scan(batch)
	assert.Equal(t, 0, rows)
	assert.True(t, done)
}

func TestScanHonorsBatchSizeParameter(t *testing.T) {
	payloads := [][]byte{{1}, {2}, {3}, {4}, {5}}
	path := writePcapFile(t, t.TempDir(), payloads)

	fn := New()
	b, err := fn.Bind(table.Arguments{
		Positional: []any{path},
		Named:      map[string]any{"batch_size": 2},
	})
	require.NoError(t, err)

	scanner, err := b.Init()
	require.NoError(t, err)
	defer scanner.Close()

	// Batch has room for 10 rows but the bound batch size caps each fill.
	batch := table.NewBatch(b.Schema(), 10)
	rows, done := scanner.Scan(batch)
	assert.Equal(t, 2, rows)
	assert.False(t, done)
}

func TestScanTruncatedCaptureKeepsRows(t *testing.T) {
	path := writePcapFile(t, t.TempDir(), [][]byte{{1, 2}, {3, 4}})

	// Chop the tail so the second record ends mid-header.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-7], 0644))

	fn := New()
	b, err := fn.Bind(table.Arguments{Positional: []any{path}})
	require.NoError(t, err)

	scanner, err := b.Init()
	require.NoError(t, err)
	defer scanner.Close()

	batch := table.NewBatch(b.Schema(), 10)
	rows, done := scanner.Scan(batch)
	assert.Equal(t, 1, rows)
	assert.True(t, done)
	assert.Error(t, scanner.Err())
}
