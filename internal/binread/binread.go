// Package binread provides bounds-checked fixed-width reads over a byte
// buffer. Every read takes an absolute offset and reports failure instead
// of panicking; dump contents are never trusted.
package binread

import "encoding/binary"

func U16BE(buf []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(buf) {
		return 0, false
	}
	return binary.BigEndian.Uint16(buf[off:]), true
}

func U16LE(buf []byte, off int) (uint16, bool) {
	if off < 0 || off+2 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(buf[off:]), true
}

func U32BE(buf []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(buf) {
		return 0, false
	}
	return binary.BigEndian.Uint32(buf[off:]), true
}

func U32LE(buf []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[off:]), true
}

func U64BE(buf []byte, off int) (uint64, bool) {
	if off < 0 || off+8 > len(buf) {
		return 0, false
	}
	return binary.BigEndian.Uint64(buf[off:]), true
}

func U64LE(buf []byte, off int) (uint64, bool) {
	if off < 0 || off+8 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[off:]), true
}

// Bytes returns a view of n bytes starting at off, without copying.
func Bytes(buf []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off+n > len(buf) {
		return nil, false
	}
	return buf[off : off+n], true
}

// HasPrefix reports whether buf at off starts with pat.
func HasPrefix(buf []byte, off int, pat []byte) bool {
	if off < 0 || off+len(pat) > len(buf) {
		return false
	}
	for i, b := range pat {
		if buf[off+i] != b {
			return false
		}
	}
	return true
}

// FourCC reads a 4-byte tag at off as a string.
func FourCC(buf []byte, off int) (string, bool) {
	b, ok := Bytes(buf, off, 4)
	if !ok {
		return "", false
	}
	return string(b), true
}
