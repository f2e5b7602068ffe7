package pcap

import (
	"time"

	"github.com/google/gopacket"
)

// ReadPacketData implements gopacket.PacketDataSource, so a session can feed
// any gopacket consumer. Unlike Next, the returned slice is a copy and safe
// to retain. Truncation surfaces as io.EOF here too; check Err afterwards.
func (r *Reader) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	rec, err := r.Next()
	if err != nil {
		return nil, gopacket.CaptureInfo{}, err
	}

	data := make([]byte, len(rec.Data))
	copy(data, rec.Data)

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Unix(0, int64(rec.TimestampNS)),
		CaptureLength: int(rec.CaptureLen),
		Length:        int(rec.OriginalLen),
	}
	return data, ci, nil
}
