// Package pcap decodes the classic libpcap capture container format into
// structured records. The payload of each record is handed on as an opaque
// byte blob; no protocol layers are parsed here.
package pcap

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket/layers"
)

// The four recognized magic numbers. The magic identifies both the byte
// order the stream was written in and the unit of the sub-second timestamp
// field of every record.
const (
	MagicMicroseconds        uint32 = 0xa1b2c3d4
	MagicMicrosecondsSwapped uint32 = 0xd4c3b2a1
	MagicNanoseconds         uint32 = 0xa1b23c4d
	MagicNanosecondsSwapped  uint32 = 0x4d3cb2a1
)

const (
	// FileHeaderLen is the fixed size of the stream header in bytes.
	FileHeaderLen = 24
	// RecordHeaderLen is the fixed size of each per-record header in bytes.
	RecordHeaderLen = 16
)

// ByteOrder reports whether record fields match the decoder's native field
// order or need a byte swap.
type ByteOrder uint8

const (
	OrderNative ByteOrder = iota
	OrderSwapped
)

func (o ByteOrder) String() string {
	if o == OrderSwapped {
		return "swapped"
	}
	return "native"
}

// TimestampUnit is the unit of the ts_frac record header field.
type TimestampUnit uint8

const (
	UnitMicroseconds TimestampUnit = iota
	UnitNanoseconds
)

func (u TimestampUnit) String() string {
	if u == UnitNanoseconds {
		return "nanoseconds"
	}
	return "microseconds"
}

// FileHeader is the parsed 24-byte stream header. All fields except Magic
// are byte-order corrected; Magic keeps the value as read so the resolved
// order and timestamp unit can be derived from it.
type FileHeader struct {
	Magic        uint32
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32
	SigFigs      uint32
	SnapLen      uint32
	Network      uint32
}

// ByteOrder derives the stream byte order from the magic number.
func (h FileHeader) ByteOrder() ByteOrder {
	switch h.Magic {
	case MagicMicrosecondsSwapped, MagicNanosecondsSwapped:
		return OrderSwapped
	}
	return OrderNative
}

// TimestampUnit derives the record timestamp precision from the magic number.
func (h FileHeader) TimestampUnit() TimestampUnit {
	switch h.Magic {
	case MagicNanoseconds, MagicNanosecondsSwapped:
		return UnitNanoseconds
	}
	return UnitMicroseconds
}

// LinkType interprets the network field as a pcap link type.
func (h FileHeader) LinkType() layers.LinkType {
	return layers.LinkType(h.Network)
}

// swap32 reverses the byte order of a 32-bit value.
func swap32(v uint32) uint32 {
	return v>>24 | v>>8&0x0000ff00 | v<<8&0x00ff0000 | v<<24
}

// swap16 reverses the byte order of a 16-bit value.
func swap16(v uint16) uint16 {
	return v>>8 | v<<8
}

// parseFileHeader interprets buf as the stream header layout. Fields are
// read in the native field order (little-endian); when the magic identifies
// a swapped stream every field is byte-swapped before use.
func parseFileHeader(buf []byte) (FileHeader, error) {
	h := FileHeader{
		Magic:        binary.LittleEndian.Uint32(buf[0:4]),
		VersionMajor: binary.LittleEndian.Uint16(buf[4:6]),
		VersionMinor: binary.LittleEndian.Uint16(buf[6:8]),
		ThisZone:     int32(binary.LittleEndian.Uint32(buf[8:12])),
		SigFigs:      binary.LittleEndian.Uint32(buf[12:16]),
		SnapLen:      binary.LittleEndian.Uint32(buf[16:20]),
		Network:      binary.LittleEndian.Uint32(buf[20:24]),
	}

	switch h.Magic {
	case MagicMicroseconds, MagicNanoseconds:
	case MagicMicrosecondsSwapped, MagicNanosecondsSwapped:
		h.VersionMajor = swap16(h.VersionMajor)
		h.VersionMinor = swap16(h.VersionMinor)
		h.ThisZone = int32(swap32(uint32(h.ThisZone)))
		h.SigFigs = swap32(h.SigFigs)
		h.SnapLen = swap32(h.SnapLen)
		h.Network = swap32(h.Network)
	default:
		return FileHeader{}, fmt.Errorf("%w: 0x%08x", ErrUnrecognizedMagic, h.Magic)
	}
	return h, nil
}
