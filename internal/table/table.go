// Package table defines the host-facing surface a table-valued function
// plugs into: column types, fixed-capacity columnar batches, and the
// bind → init → scan lifecycle driven by an embedding query engine.
package table

// Type is a declared output column type.
type Type uint8

const (
	TypeUBigInt  Type = iota + 1 // unsigned 64-bit integer
	TypeUInteger                 // unsigned 32-bit integer
	TypeBlob                     // variable-length byte blob
	TypeVarchar                  // string
)

func (t Type) String() string {
	switch t {
	case TypeUBigInt:
		return "UBIGINT"
	case TypeUInteger:
		return "UINTEGER"
	case TypeBlob:
		return "BLOB"
	case TypeVarchar:
		return "VARCHAR"
	}
	return "INVALID"
}

// Column is one declared output column.
type Column struct {
	Name string
	Type Type
}

// Schema is the ordered set of output columns a binding declares.
type Schema []Column

// Arguments carry the values a function invocation was called with.
type Arguments struct {
	Positional []any
	Named      map[string]any
}

// Function is a named table-valued function. Bind validates arguments and
// produces a Binding; bind failures are fatal and produce no rows.
type Function struct {
	Name string
	Bind func(args Arguments) (Binding, error)
}

// Binding is a bound invocation: it declares the output schema and opens
// scanners. Init failures (missing file, bad header) are fatal and
// synchronous.
type Binding interface {
	Schema() Schema
	Init() (Scanner, error)
}

// Scanner produces rows into host-owned batches.
//
// Scan appends rows to batch and reports how many were added and whether
// the stream is finished; once done it keeps reporting (0, true). The host
// calls Scan repeatedly until it returns zero rows. A stream stopped by
// mid-stream corruption is simply done: Err exposes the cause as a warning,
// and rows from earlier batches remain valid.
//
// A Scanner is single-owner: at most one Scan in flight, Close exactly once.
type Scanner interface {
	Scan(batch *Batch) (rows int, done bool)
	Err() error
	Close() error
}
