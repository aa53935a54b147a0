package binread

import (
	"bytes"
	"testing"
)

func TestFixedWidthReads(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	if v, ok := U16BE(buf, 0); !ok || v != 0x0102 {
		t.Errorf("U16BE = %#x, %v", v, ok)
	}
	if v, ok := U16LE(buf, 0); !ok || v != 0x0201 {
		t.Errorf("U16LE = %#x, %v", v, ok)
	}
	if v, ok := U32BE(buf, 2); !ok || v != 0x03040506 {
		t.Errorf("U32BE = %#x, %v", v, ok)
	}
	if v, ok := U32LE(buf, 2); !ok || v != 0x06050403 {
		t.Errorf("U32LE = %#x, %v", v, ok)
	}
	if v, ok := U64BE(buf, 0); !ok || v != 0x0102030405060708 {
		t.Errorf("U64BE = %#x, %v", v, ok)
	}
	if v, ok := U64LE(buf, 0); !ok || v != 0x0807060504030201 {
		t.Errorf("U64LE = %#x, %v", v, ok)
	}
}

func TestOutOfBounds(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}

	cases := []struct {
		name string
		ok   bool
	}{
		{"U16 past end", second(U16BE(buf, 2))},
		{"U32 past end", second(U32BE(buf, 0))},
		{"negative offset", second(U16LE(buf, -1))},
	}
	for _, c := range cases {
		if c.ok {
			t.Errorf("%s: read succeeded, want failure", c.name)
		}
	}

	if _, ok := Bytes(buf, 1, 3); ok {
		t.Error("Bytes past end succeeded")
	}
	if _, ok := Bytes(buf, 0, -1); ok {
		t.Error("Bytes with negative length succeeded")
	}
}

func TestPrefixAndFourCC(t *testing.T) {
	buf := []byte("RIFF\x10\x00\x00\x00WAVE")

	if !HasPrefix(buf, 0, []byte("RIFF")) {
		t.Error("HasPrefix RIFF at 0 = false")
	}
	if HasPrefix(buf, 9, []byte("WAVE")) {
		t.Error("HasPrefix WAVE at wrong offset = true")
	}
	if HasPrefix(buf, 10, []byte("WAVE")) {
		t.Error("HasPrefix past end = true")
	}

	tag, ok := FourCC(buf, 8)
	if !ok || tag != "WAVE" {
		t.Errorf("FourCC = %q, %v", tag, ok)
	}

	b, ok := Bytes(buf, 0, 4)
	if !ok || !bytes.Equal(b, []byte("RIFF")) {
		t.Errorf("Bytes = %q, %v", b, ok)
	}
}

func second[T any](_ T, ok bool) bool { return ok }
