package format

import (
	"encoding/binary"
	"strings"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	seen := map[string]bool{}
	for _, p := range reg.Plugins() {
		d := p.Descriptor()
		if seen[d.ID] {
			t.Errorf("duplicate format id %q", d.ID)
		}
		seen[d.ID] = true

		if d.MinSize <= 0 || d.MaxSize < d.MinSize {
			t.Errorf("format %q: bad bounds [%d, %d]", d.ID, d.MinSize, d.MaxSize)
		}
		if d.DefaultSize <= 0 {
			t.Errorf("format %q: no default size", d.ID)
		}
		for _, sig := range d.Signatures {
			got, ok := reg.BySignature(sig.ID)
			if !ok || got != p {
				t.Errorf("signature %q does not dispatch to %q", sig.ID, d.ID)
			}
		}
	}

	for _, id := range []string{"dds", "ddx", "xma", "nif", "esm", "xex", "lip"} {
		if _, ok := reg.ByFormat(id); !ok {
			t.Errorf("format %q missing from registry", id)
		}
	}

	lip, _ := reg.ByFormat("lip")
	if lip.Descriptor().EnableSignatureScanning {
		t.Error("lip must not contribute scan patterns")
	}
	if len(lip.Descriptor().Signatures) != 0 {
		t.Error("lip should carry no signatures")
	}
}

func TestRegistryRejectsConflicts(t *testing.T) {
	if _, err := NewRegistry(NewDDS(), NewDDS()); err == nil {
		t.Error("duplicate plugin accepted")
	}
}

func TestDDXParse(t *testing.T) {
	buf := make([]byte, 4096)
	copy(buf, "DDX1")
	binary.BigEndian.PutUint32(buf[4:], 2048) // payload size
	binary.BigEndian.PutUint16(buf[8:], 128)  // width
	binary.BigEndian.PutUint16(buf[10:], 64)  // height

	p := NewDDX()
	res, rej := p.Parse(buf, 0)
	if rej != nil {
		t.Fatalf("reject: %v", rej.Reason)
	}
	if res.Size != 16+2048 || !res.SizeTrusted {
		t.Errorf("size = %d trusted=%v", res.Size, res.SizeTrusted)
	}
	if got := p.Describe("ddx-magic", res.Meta); !strings.Contains(got, "128x64") {
		t.Errorf("describe = %q", got)
	}

	// Zero dimensions are heap garbage, not a texture.
	binary.BigEndian.PutUint16(buf[8:], 0)
	if _, rej := p.Parse(buf, 0); rej == nil || rej.Kind != RejectSemantic {
		t.Errorf("zero width: got %+v, want semantic reject", rej)
	}

	// A match at the buffer tail cannot hold the header.
	if _, rej := p.Parse(buf, len(buf)-4); rej == nil || rej.Kind != RejectStructural {
		t.Errorf("tail match: got %+v, want structural reject", rej)
	}
}

func TestESMParseBigEndian(t *testing.T) {
	buf := make([]byte, 256)
	copy(buf, "TES4")
	binary.BigEndian.PutUint32(buf[4:], 100)               // data size
	binary.BigEndian.PutUint32(buf[8:], ESMFlagCompressed) // flags
	binary.BigEndian.PutUint32(buf[12:], 0x00012D23)       // form id

	p := NewESM()
	res, rej := p.Parse(buf, 0)
	if rej != nil {
		t.Fatalf("reject: %v", rej.Reason)
	}
	if res.Size != 24+100 {
		t.Errorf("size = %d, want 124", res.Size)
	}
	meta := res.Meta.(*ESMMeta)
	if !meta.Compressed || meta.FormID != 0x00012D23 {
		t.Errorf("meta = %+v", meta)
	}

	copy(buf, "GRUP")
	binary.BigEndian.PutUint32(buf[4:], 4000)
	res, rej = p.Parse(buf, 0)
	if rej != nil {
		t.Fatalf("group reject: %v", rej.Reason)
	}
	if res.Size != 4000 || !res.Meta.(*ESMMeta).Group {
		t.Errorf("group size = %d meta=%+v", res.Size, res.Meta)
	}

	// Group size below its own header length is garbage.
	binary.BigEndian.PutUint32(buf[4:], 8)
	if _, rej := p.Parse(buf, 0); rej == nil || rej.Kind != RejectSemantic {
		t.Errorf("tiny group: got %+v, want semantic reject", rej)
	}
}

func TestXMARejectsForeignRIFF(t *testing.T) {
	buf := make([]byte, 128)
	copy(buf, "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], 120)
	copy(buf[8:], "WAVE")
	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 32)
	binary.LittleEndian.PutUint16(buf[20:], 0x0001) // plain PCM, not XMA
	binary.LittleEndian.PutUint16(buf[22:], 2)

	p := NewXMA()
	if _, rej := p.Parse(buf, 0); rej == nil || rej.Kind != RejectSemantic {
		t.Fatalf("PCM RIFF: got %+v, want semantic reject", rej)
	}

	binary.LittleEndian.PutUint16(buf[20:], 0x0166)
	res, rej := p.Parse(buf, 0)
	if rej != nil {
		t.Fatalf("XMA2 reject: %v", rej.Reason)
	}
	if res.Size != 128 || !res.SizeTrusted {
		t.Errorf("size = %d trusted=%v", res.Size, res.SizeTrusted)
	}
}

func TestNIFParseLeavesSizeUnresolved(t *testing.T) {
	buf := make([]byte, 512)
	n := copy(buf, "Gamebryo File Format, Version 20.2.0.7\n")
	binary.LittleEndian.PutUint32(buf[n:], 0x14020007)
	buf[n+4] = 0 // big-endian flag as the 360 build writes it

	p := NewNIF()
	res, rej := p.Parse(buf, 0)
	if rej != nil {
		t.Fatalf("reject: %v", rej.Reason)
	}
	if res.SizeTrusted || res.Size != 0 {
		t.Errorf("NIF must defer to boundary resolution, got size=%d trusted=%v", res.Size, res.SizeTrusted)
	}
	meta := res.Meta.(*NIFMeta)
	if meta.VersionString != "20.2.0.7" || !meta.BigEndian {
		t.Errorf("meta = %+v", meta)
	}
}

func TestSafeParseContainsPanic(t *testing.T) {
	res, rej := SafeParse(panickyPlugin{}, make([]byte, 16), 0)
	if res != nil || rej == nil || rej.Kind != RejectFault {
		t.Fatalf("got res=%v rej=%+v, want fault reject", res, rej)
	}
}

type panickyPlugin struct{}

func (panickyPlugin) Descriptor() *Descriptor {
	return &Descriptor{ID: "boom", MinSize: 1, MaxSize: 2}
}

func (panickyPlugin) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	panic("length overflow")
}

func (panickyPlugin) Describe(string, Metadata) string { return "boom" }
