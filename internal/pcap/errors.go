package pcap

import "errors"

// Sentinel errors. Header errors are fatal and surface from Open/NewReader;
// the truncation errors are recorded on the session and exposed via Err()
// instead of failing the stream.
var (
	ErrUnrecognizedMagic     = errors.New("pcapscan: invalid pcap file magic number")
	ErrTruncatedHeader       = errors.New("pcapscan: failed to read pcap file header")
	ErrTruncatedRecordHeader = errors.New("pcapscan: truncated record header")
	ErrTruncatedPayload      = errors.New("pcapscan: truncated record payload")
	ErrSessionClosed         = errors.New("pcapscan: session already closed")
)
