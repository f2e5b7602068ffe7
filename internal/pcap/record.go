package pcap

// Record is one decoded capture record.
//
// Data aliases the session's reusable payload buffer: it holds exactly
// CaptureLen bytes and is overwritten by the next read. Consumers that keep
// a record past the next call must copy Data. CaptureLen is not validated
// against OriginalLen; malformed captures pass through as written.
type Record struct {
	TimestampNS uint64 // nanoseconds since epoch
	OriginalLen uint32 // on-wire length before truncation
	CaptureLen  uint32 // bytes actually stored
	Data        []byte
}
