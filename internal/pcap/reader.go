package pcap

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"firestige.xyz/pcapscan/internal/log"
	"firestige.xyz/pcapscan/internal/metrics"
)

// RowSink receives decoded rows. Implementations must copy payload into
// their own storage before returning: the slice aliases the session's
// reusable buffer and is overwritten on the next record.
type RowSink interface {
	Push(timestampNS uint64, originalLen, captureLen uint32, payload []byte) error
}

// Reader is a decoder session over one capture stream. It owns the
// underlying source and a reusable payload buffer. A Reader is not safe for
// concurrent use; drive it from a single goroutine.
type Reader struct {
	src    io.Reader
	closer io.Closer // nil when the source is not owned (stdin)
	path   string

	hdr     FileHeader
	swapped bool
	nanos   bool

	recHdr  [RecordHeaderLen]byte
	payload []byte // capacity grows to the largest caplen seen, never shrinks

	done   bool
	err    error // truncation cause, surfaced as a warning only
	closed bool
}

// isStdinPath reports whether path is the non-owned standard input sentinel.
func isStdinPath(path string) bool {
	return path == "-" || path == "/dev/stdin"
}

// Open opens a capture stream by path and resolves its header. The path "-"
// (or "/dev/stdin") reads from standard input, which is never closed by the
// session; regular files are closed exactly once by Close.
func Open(path string) (*Reader, error) {
	if isStdinPath(path) {
		return NewReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap file %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	r.path = path
	return r, nil
}

// NewReader resolves the stream header from src and returns a session
// positioned at the first record. The caller retains ownership of src.
func NewReader(src io.Reader) (*Reader, error) {
	var buf [FileHeaderLen]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}

	hdr, err := parseFileHeader(buf[:])
	if err != nil {
		return nil, err
	}

	r := &Reader{
		src:     src,
		hdr:     hdr,
		swapped: hdr.ByteOrder() == OrderSwapped,
		nanos:   hdr.TimestampUnit() == UnitNanoseconds,
	}
	// snaplen is a sizing hint only; zero means grow on first record.
	if hdr.SnapLen > 0 && hdr.SnapLen <= math.MaxInt32 {
		r.payload = make([]byte, 0, hdr.SnapLen)
	}

	metrics.OpenSessions.Inc()
	log.GetLogger().WithFields(logrus.Fields{
		"byte_order":     hdr.ByteOrder().String(),
		"timestamp_unit": hdr.TimestampUnit().String(),
		"snaplen":        hdr.SnapLen,
		"link_type":      hdr.LinkType().String(),
	}).Debug("pcap stream header resolved")
	return r, nil
}

// Header returns the resolved stream header.
func (r *Reader) Header() FileHeader {
	return r.hdr
}

// Err returns the reason the stream stopped early, or nil after a clean
// end-of-stream. Rows emitted before the stop remain valid.
func (r *Reader) Err() error {
	return r.err
}

// Next decodes one record. It returns io.EOF when the stream is exhausted,
// including after mid-stream truncation; Err distinguishes the two. The
// returned record's Data aliases the session buffer and is only valid until
// the next call.
func (r *Reader) Next() (Record, error) {
	if r.done {
		return Record{}, io.EOF
	}

	n, err := io.ReadFull(r.src, r.recHdr[:])
	if err == io.EOF {
		// Zero bytes before a record header is a clean end-of-stream.
		r.done = true
		return Record{}, io.EOF
	}
	if err != nil {
		r.fail(metrics.ReasonRecordHeader, fmt.Errorf("%w after %d bytes: %v", ErrTruncatedRecordHeader, n, err))
		return Record{}, io.EOF
	}

	tsSec := binary.LittleEndian.Uint32(r.recHdr[0:4])
	tsFrac := binary.LittleEndian.Uint32(r.recHdr[4:8])
	capLen := binary.LittleEndian.Uint32(r.recHdr[8:12])
	origLen := binary.LittleEndian.Uint32(r.recHdr[12:16])
	if r.swapped {
		tsSec = swap32(tsSec)
		tsFrac = swap32(tsFrac)
		capLen = swap32(capLen)
		origLen = swap32(origLen)
	}

	// Both products are exact in 64-bit unsigned arithmetic.
	var ts uint64
	if r.nanos {
		ts = uint64(tsSec)*1_000_000_000 + uint64(tsFrac)
	} else {
		ts = uint64(tsSec)*1_000_000_000 + uint64(tsFrac)*1_000
	}

	// A caplen this size cannot be backed by real data; stop before
	// allocating, same clean-stop policy as a truncated payload.
	if capLen > math.MaxInt32 {
		r.fail(metrics.ReasonPayload, fmt.Errorf("%w: declared length %d", ErrTruncatedPayload, capLen))
		return Record{}, io.EOF
	}

	if int(capLen) > cap(r.payload) {
		// Replace, don't copy: old contents are irrelevant once a larger
		// buffer is installed.
		r.payload = make([]byte, capLen)
		metrics.BufferGrowthsTotal.Inc()
	}
	data := r.payload[:capLen]

	if _, err := io.ReadFull(r.src, data); err != nil {
		r.fail(metrics.ReasonPayload, fmt.Errorf("%w: want %d bytes: %v", ErrTruncatedPayload, capLen, err))
		return Record{}, io.EOF
	}

	metrics.RecordsDecodedTotal.Inc()
	metrics.PayloadBytesTotal.Add(float64(capLen))

	return Record{
		TimestampNS: ts,
		OriginalLen: origLen,
		CaptureLen:  capLen,
		Data:        data,
	}, nil
}

// FillBatch appends up to maxRows records to sink, reporting how many rows
// were pushed and whether the stream is finished. Mid-stream truncation is
// not an error here: the rows collected so far are returned and subsequent
// calls report zero rows.
func (r *Reader) FillBatch(sink RowSink, maxRows int) (rows int, done bool) {
	for rows < maxRows {
		rec, err := r.Next()
		if err != nil {
			return rows, true
		}
		if err := sink.Push(rec.TimestampNS, rec.OriginalLen, rec.CaptureLen, rec.Data); err != nil {
			r.fail(metrics.ReasonSink, err)
			return rows, true
		}
		rows++
	}
	return rows, r.done
}

// Close releases the session: the payload buffer is dropped and an owned
// source is closed exactly once. Standard input is never closed.
func (r *Reader) Close() error {
	if r.closed {
		return ErrSessionClosed
	}
	r.closed = true
	r.done = true
	r.payload = nil
	metrics.OpenSessions.Dec()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// fail marks the stream terminal with a recorded cause. Decoded rows stand;
// the cause is a warning for the host, not a query failure.
func (r *Reader) fail(reason string, cause error) {
	r.done = true
	r.err = cause
	metrics.TruncatedStreamsTotal.WithLabelValues(reason).Inc()
	logger := log.GetLogger().WithError(cause)
	if r.path != "" {
		logger = logger.WithField("path", r.path)
	}
	logger.Warn("pcap stream stopped early, keeping rows decoded so far")
}
