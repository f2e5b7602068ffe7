// Package console implements a row sink that prints batches to a writer.
package console

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"firestige.xyz/pcapscan/internal/table"
)

const Name = "console"

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Sink prints batch rows line by line.
type Sink struct {
	w      *bufio.Writer
	format string
	schema table.Schema
}

// NewSink creates a console sink for the given schema.
func NewSink(w io.Writer, format string, schema table.Schema) (*Sink, error) {
	switch format {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("console: unsupported format %q (must be text or json)", format)
	}
	return &Sink{
		w:      bufio.NewWriter(w),
		format: format,
		schema: schema,
	}, nil
}

// Send prints every row of the batch.
func (s *Sink) Send(batch *table.Batch) error {
	for row := 0; row < batch.Len(); row++ {
		if err := s.writeRow(batch, row); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

// Close flushes buffered output.
func (s *Sink) Close() error {
	return s.w.Flush()
}

func (s *Sink) writeRow(batch *table.Batch, row int) error {
	if s.format == FormatJSON {
		obj := make(map[string]any, len(s.schema))
		for i, col := range s.schema {
			obj[col.Name] = columnValue(batch.Vector(i), row)
		}
		line, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		if _, err := s.w.Write(line); err != nil {
			return err
		}
		return s.w.WriteByte('\n')
	}

	parts := make([]string, 0, len(s.schema))
	for i, col := range s.schema {
		parts = append(parts, fmt.Sprintf("%s=%v", col.Name, columnValue(batch.Vector(i), row)))
	}
	_, err := fmt.Fprintln(s.w, strings.Join(parts, " "))
	return err
}

// columnValue renders one cell; blobs print as hex.
func columnValue(v *table.Vector, row int) any {
	switch v.Type() {
	case table.TypeUBigInt:
		return v.U64[row]
	case table.TypeUInteger:
		return v.U32[row]
	case table.TypeBlob:
		return hex.EncodeToString(v.Blob[row])
	case table.TypeVarchar:
		return v.Str[row]
	}
	return nil
}
