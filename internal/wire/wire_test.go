package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) (uint64, []byte) {
	t.Helper()
	gen, p, err := DecodeSource(b)
	if err != nil {
		t.Fatalf("DecodeSource error: %v", err)
	}
	return gen, p
}

func TestSourceRoundTrip(t *testing.T) {
	cases := []struct {
		gen     uint64
		payload []byte
	}{
		{0, nil},
		{42, []byte("GIF89a")},
		{math.MaxUint64, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		gen, p := mustDecode(t, EncodeSource(tc.gen, tc.payload))
		if gen != tc.gen {
			t.Fatalf("gen mismatch: got %d want %d", gen, tc.gen)
		}
		if !bytes.Equal(p, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, tc.payload)
		}
	}
}

func TestSourceRejectsTrailingBytes(t *testing.T) {
	enc := append(EncodeSource(7, []byte("x")), 0xDE, 0xAD)
	if _, _, err := DecodeSource(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestSourceCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeSource(1, []byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, _, err := DecodeSource(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, _, err := DecodeSource(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	badKind := append([]byte(nil), enc...)
	badKind[5] = kindSource + 1
	if _, _, err := DecodeSource(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// vlen is at offset 14..17 (4 magic +1 ver +1 kind +8 gen)
	tooLong := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(tooLong[14:18], uint32(len("abc")+1))
	if _, _, err := DecodeSource(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	if _, _, err := DecodeSource(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
	if _, _, err := DecodeSource(enc[:5]); err == nil {
		t.Fatalf("expected error on short header")
	}
}

func TestSourceZeroCopyPayload(t *testing.T) {
	enc := EncodeSource(1, []byte("Z"))
	_, p := mustDecode(t, enc)
	p[0] = 'Q'
	_, p2 := mustDecode(t, enc)
	if p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}
