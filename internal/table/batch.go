package table

import "fmt"

// Vector is the typed storage of one column. Exactly one of the slices is
// in use, matching the column type.
type Vector struct {
	typ  Type
	U64  []uint64
	U32  []uint32
	Blob [][]byte
	Str  []string
}

// Type returns the column type this vector stores.
func (v *Vector) Type() Type {
	return v.typ
}

func (v *Vector) reset() {
	v.U64 = v.U64[:0]
	v.U32 = v.U32[:0]
	v.Blob = v.Blob[:0]
	v.Str = v.Str[:0]
}

// Batch is a fixed-capacity columnar output buffer owned by the host.
// Values appended to it are fully materialized: blob appends copy their
// bytes, so producers are free to reuse payload buffers.
type Batch struct {
	schema   Schema
	capacity int
	length   int
	vectors  []*Vector
}

// NewBatch creates a batch for the given schema with a fixed row capacity.
func NewBatch(schema Schema, capacity int) *Batch {
	b := &Batch{
		schema:   schema,
		capacity: capacity,
		vectors:  make([]*Vector, len(schema)),
	}
	for i, col := range schema {
		v := &Vector{typ: col.Type}
		switch col.Type {
		case TypeUBigInt:
			v.U64 = make([]uint64, 0, capacity)
		case TypeUInteger:
			v.U32 = make([]uint32, 0, capacity)
		case TypeBlob:
			v.Blob = make([][]byte, 0, capacity)
		case TypeVarchar:
			v.Str = make([]string, 0, capacity)
		}
		b.vectors[i] = v
	}
	return b
}

// Schema returns the batch schema.
func (b *Batch) Schema() Schema {
	return b.schema
}

// Len returns the number of rows currently in the batch.
func (b *Batch) Len() int {
	return b.length
}

// Cap returns the fixed row capacity.
func (b *Batch) Cap() int {
	return b.capacity
}

// Free returns the remaining row capacity.
func (b *Batch) Free() int {
	return b.capacity - b.length
}

// Vector returns the storage of column i.
func (b *Batch) Vector(i int) *Vector {
	return b.vectors[i]
}

// Reset empties the batch for reuse, keeping allocated capacity.
func (b *Batch) Reset() {
	b.length = 0
	for _, v := range b.vectors {
		v.reset()
	}
}

// AppendRow appends one row. Values must match the schema in arity and
// type; []byte values are copied into batch-owned storage.
func (b *Batch) AppendRow(values ...any) error {
	if len(values) != len(b.schema) {
		return fmt.Errorf("table: row has %d values, schema has %d columns", len(values), len(b.schema))
	}
	if b.length >= b.capacity {
		return fmt.Errorf("table: batch full (%d rows)", b.capacity)
	}
	for i, val := range values {
		col := b.schema[i]
		switch col.Type {
		case TypeUBigInt:
			x, ok := val.(uint64)
			if !ok {
				return typeMismatch(col, val)
			}
			b.vectors[i].U64 = append(b.vectors[i].U64, x)
		case TypeUInteger:
			x, ok := val.(uint32)
			if !ok {
				return typeMismatch(col, val)
			}
			b.vectors[i].U32 = append(b.vectors[i].U32, x)
		case TypeBlob:
			x, ok := val.([]byte)
			if !ok {
				return typeMismatch(col, val)
			}
			b.vectors[i].Blob = append(b.vectors[i].Blob, append([]byte(nil), x...))
		case TypeVarchar:
			x, ok := val.(string)
			if !ok {
				return typeMismatch(col, val)
			}
			b.vectors[i].Str = append(b.vectors[i].Str, x)
		default:
			return fmt.Errorf("table: column %q has invalid type", col.Name)
		}
	}
	b.length++
	return nil
}

func typeMismatch(col Column, val any) error {
	return fmt.Errorf("table: column %q expects %s, got %T", col.Name, col.Type, val)
}
