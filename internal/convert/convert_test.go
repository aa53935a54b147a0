package convert

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"

	"dumpcarve/internal/format"
)

func beRecord(tag string, flags uint32, payload []byte) []byte {
	rec := make([]byte, 24, 24+len(payload))
	copy(rec, tag)
	binary.BigEndian.PutUint32(rec[4:], uint32(len(payload)))
	binary.BigEndian.PutUint32(rec[8:], flags)
	binary.BigEndian.PutUint32(rec[12:], 0x00012D23)
	return append(rec, payload...)
}

func TestRecordInflaterSwapsHeader(t *testing.T) {
	payload := []byte("EDID\x00\x05hello")
	rec := beRecord("NPC_", 0, payload)

	out, err := (&RecordInflater{}).Convert(rec, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(out[:4]) != "NPC_" {
		t.Errorf("tag = %q", out[:4])
	}
	if got := binary.LittleEndian.Uint32(out[4:]); got != uint32(len(payload)) {
		t.Errorf("LE data size = %d, want %d", got, len(payload))
	}
	if got := binary.LittleEndian.Uint32(out[12:]); got != 0x00012D23 {
		t.Errorf("LE form id = %08x", got)
	}
	if !bytes.Equal(out[24:], payload) {
		t.Error("payload changed for an uncompressed record")
	}
}

func TestRecordInflaterInflatesCompressedPayload(t *testing.T) {
	plain := bytes.Repeat([]byte("DATA"), 256)

	var comp bytes.Buffer
	binary.Write(&comp, binary.BigEndian, uint32(len(plain)))
	zw := zlib.NewWriter(&comp)
	zw.Write(plain)
	zw.Close()

	rec := beRecord("REFR", format.ESMFlagCompressed, comp.Bytes())

	out, err := (&RecordInflater{}).Convert(rec, 4096)
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(out[4:]); got != uint32(len(plain)) {
		t.Errorf("data size = %d, want %d", got, len(plain))
	}
	if flags := binary.LittleEndian.Uint32(out[8:]); flags&format.ESMFlagCompressed != 0 {
		t.Error("compression flag still set after inflation")
	}
	if !bytes.Equal(out[24:], plain) {
		t.Error("inflated payload mismatch")
	}
}

func TestRecordInflaterRejectsLyingSizePrefix(t *testing.T) {
	plain := []byte("short")
	var comp bytes.Buffer
	binary.Write(&comp, binary.BigEndian, uint32(len(plain)+100)) // lies
	zw := zlib.NewWriter(&comp)
	zw.Write(plain)
	zw.Close()

	rec := beRecord("REFR", format.ESMFlagCompressed, comp.Bytes())
	if _, err := (&RecordInflater{}).Convert(rec, 0); err == nil {
		t.Error("lying size prefix accepted")
	}
}

func TestRecordInflaterRejectsTruncatedCarve(t *testing.T) {
	rec := beRecord("REFR", 0, []byte("abcdef"))
	if _, err := (&RecordInflater{}).Convert(rec[:27], 0); err == nil {
		t.Error("truncated record accepted")
	}
}

func TestModelHeaderSwapper(t *testing.T) {
	data := append([]byte("Gamebryo File Format, Version 20.2.0.7\n"), 0x07, 0x00, 0x02, 0x14, 0x00)
	data = append(data, bytes.Repeat([]byte{0xCC}, 32)...)

	out, err := (&ModelHeaderSwapper{}).Convert(data, 0)
	if err != nil {
		t.Fatal(err)
	}
	nl := bytes.IndexByte(out, '\n')
	if got := binary.LittleEndian.Uint32(out[nl+1:]); got != 0x07000214 {
		t.Errorf("swapped version = %08x", got)
	}
	if out[nl+5] != 1 {
		t.Error("endian flag not set to little-endian")
	}
	if !bytes.Equal(out[nl+6:], data[nl+6:]) {
		t.Error("body bytes changed")
	}

	if _, err := (&ModelHeaderSwapper{}).Convert([]byte("not a model"), 0); err == nil {
		t.Error("non-model data accepted")
	}
}
