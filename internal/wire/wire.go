// Package wire frames cached source records so a read can verify what it got
// before handing the payload to a codec.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version    byte = 1
	kindSource byte = 1

	headerLen = 4 + 1 + 1 + 8 + 4
)

var (
	ErrCorrupt = errors.New("texcache: corrupt source record")
	magic4     = [...]byte{'T', 'X', 'S', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// EncodeSource frames payload with the generation it was written under.
//
//	magic(4) | ver(1) | kind(1=source) | gen(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeSource(gen uint64, payload []byte) []byte {
	buf := make([]byte, headerLen, headerLen+len(payload))
	copy(buf, magic4[:])
	buf[4] = version
	buf[5] = kindSource
	binary.BigEndian.PutUint64(buf[6:14], gen)
	binary.BigEndian.PutUint32(buf[14:18], uint32(len(payload)))
	return append(buf, payload...)
}

// DecodeSource validates the frame and returns the generation and a payload
// slice aliasing b.
func DecodeSource(b []byte) (gen uint64, payload []byte, err error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version || b[5] != kindSource {
		return 0, nil, ErrCorrupt
	}
	gen = binary.BigEndian.Uint64(b[6:14])
	vlen := int(binary.BigEndian.Uint32(b[14:18]))
	if vlen < 0 || vlen != len(b)-headerLen { // no short reads, no trailing bytes
		return 0, nil, ErrCorrupt
	}
	return gen, b[headerLen:], nil
}
