package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindEntry byte = 1
)

var (
	ErrCorrupt = errors.New("snapcache: corrupt entry")
	magic4     = [...]byte{'S', 'N', 'P', 'C'}
)

// Entry is one framed value with its authoritative expiry. Store TTLs are
// advisory (backends round or evict late); the framed deadline is what reads
// trust.
type Entry struct {
	Deadline int64 // unix nanos; 0 = never expires
	Payload  []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames e:
//
//	magic(4) | ver(1) | kind(1=entry) | deadline(u64 be) | vlen(u32 be) | payload(vlen)
func Encode(e Entry) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(e.Payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(e.Deadline))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(e.Payload)))
	buf.Write(u4[:])

	buf.Write(e.Payload)
	return buf.Bytes()
}

// Decode parses a frame produced by Encode. Any deviation - wrong magic,
// version or kind, truncation, trailing bytes - is ErrCorrupt; callers treat
// that as a deletable entry, never as data. The returned payload aliases b.
func Decode(b []byte) (Entry, error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return Entry{}, ErrCorrupt
	}

	off := 6

	deadline := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	if deadline < 0 {
		return Entry{}, ErrCorrupt
	}

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off {
		return Entry{}, ErrCorrupt
	}

	return Entry{Deadline: deadline, Payload: b[off : off+vlen]}, nil
}
