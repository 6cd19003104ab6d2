package nvs

import "encoding/binary"

// PageState is the first word of a page header. Each transition only
// clears bits so it can be written in place without an erase.
type PageState uint32

const (
	PageUninitialized PageState = 0xFFFFFFFF
	PageActive        PageState = 0xFFFFFFFE
	PageFull          PageState = 0xFFFFFFFC
	PageFreeing       PageState = 0xFFFFFFF8
	PageCorrupt       PageState = 0xFFFFFFF0
)

func (s PageState) String() string {
	switch s {
	case PageUninitialized:
		return "uninitialized"
	case PageActive:
		return "active"
	case PageFull:
		return "full"
	case PageFreeing:
		return "freeing"
	case PageCorrupt:
		return "corrupt"
	default:
		return "invalid"
	}
}

// FormatVersion is the page format this package writes and understands
const FormatVersion uint8 = 2

// Header layout:
//
//	0..3   state
//	4..7   sequence number
//	8      format version
//	9..27  reserved (0xFF)
//	28..29 crc16 over bytes 4..27
//	30..31 reserved (0xFF)
const (
	headerSize     = 32
	headerCRCStart = 4
	headerCRCEnd   = 28
)

type pageHeader struct {
	State   PageState
	Seq     uint32
	Version uint8
	crc     uint16
}

func (h *pageHeader) encode() []byte {
	buf := make([]byte, headerSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	binary.LittleEndian.PutUint32(buf[0:], uint32(h.State))
	binary.LittleEndian.PutUint32(buf[4:], h.Seq)
	buf[8] = h.Version
	binary.LittleEndian.PutUint16(buf[headerCRCEnd:], crc16(buf[headerCRCStart:headerCRCEnd]))
	return buf
}

func decodeHeader(buf []byte) pageHeader {
	return pageHeader{
		State:   PageState(binary.LittleEndian.Uint32(buf[0:])),
		Seq:     binary.LittleEndian.Uint32(buf[4:]),
		Version: buf[8],
		crc:     binary.LittleEndian.Uint16(buf[headerCRCEnd:]),
	}
}

// valid reports whether the stored checksum matches the header fields
func (h *pageHeader) valid(raw []byte) bool {
	return h.crc == crc16(raw[headerCRCStart:headerCRCEnd])
}
