// Package readpcap implements the read_pcap table-valued function: it binds
// a capture file path, declares the four-column output schema, and streams
// decoded records into host batches.
package readpcap

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"firestige.xyz/pcapscan/internal/metrics"
	"firestige.xyz/pcapscan/internal/pcap"
	"firestige.xyz/pcapscan/internal/table"
)

// Name is the function name registered against the host.
const Name = "read_pcap"

// DefaultBatchSize matches the host vector size.
const DefaultBatchSize = 2048

// Options are the named parameters read_pcap accepts.
type Options struct {
	// BatchSize caps rows per Scan call. Zero means DefaultBatchSize.
	BatchSize int `mapstructure:"batch_size"`
}

// New builds the read_pcap function descriptor.
func New() *table.Function {
	return &table.Function{
		Name: Name,
		Bind: bind,
	}
}

// Register registers read_pcap with the given registry.
func Register(reg *table.Registry) error {
	return reg.Register(New())
}

func bind(args table.Arguments) (table.Binding, error) {
	if len(args.Positional) == 0 {
		return nil, fmt.Errorf("read_pcap: filename parameter is required")
	}
	path, ok := args.Positional[0].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("read_pcap: filename parameter is required")
	}

	opts := Options{BatchSize: DefaultBatchSize}
	if len(args.Named) > 0 {
		if err := mapstructure.Decode(args.Named, &opts); err != nil {
			return nil, fmt.Errorf("read_pcap: invalid named parameters: %w", err)
		}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	return &binding{path: path, opts: opts}, nil
}

type binding struct {
	path string
	opts Options
}

// Schema declares the four output columns.
func (b *binding) Schema() table.Schema {
	return table.Schema{
		{Name: "timestamp_ns", Type: table.TypeUBigInt},
		{Name: "original_len", Type: table.TypeUInteger},
		{Name: "capture_len", Type: table.TypeUInteger},
		{Name: "data", Type: table.TypeBlob},
	}
}

// Init opens the capture source and resolves its stream header.
func (b *binding) Init() (table.Scanner, error) {
	r, err := pcap.Open(b.path)
	if err != nil {
		return nil, err
	}
	return &scanner{r: r, maxRows: b.opts.BatchSize}, nil
}

type scanner struct {
	r       *pcap.Reader
	maxRows int
}

func (s *scanner) Scan(batch *table.Batch) (int, bool) {
	maxRows := batch.Free()
	if s.maxRows > 0 && s.maxRows < maxRows {
		maxRows = s.maxRows
	}
	rows, done := s.r.FillBatch(batchSink{batch: batch}, maxRows)
	metrics.BatchRows.Observe(float64(rows))
	return rows, done
}

func (s *scanner) Err() error {
	return s.r.Err()
}

func (s *scanner) Close() error {
	return s.r.Close()
}

// batchSink appends decoded rows to a batch. AppendRow copies the payload
// into batch-owned storage, which is what lets the decoder reuse its buffer.
type batchSink struct {
	batch *table.Batch
}

func (s batchSink) Push(timestampNS uint64, originalLen, captureLen uint32, payload []byte) error {
	return s.batch.AppendRow(timestampNS, originalLen, captureLen, payload)
}
