package scan

import (
	"bytes"
	"testing"

	"dumpcarve/internal/format"
)

// testPlugin is the minimal plugin carcass the scanner needs: only the
// descriptor matters here.
type testPlugin struct{ desc format.Descriptor }

func (p *testPlugin) Descriptor() *format.Descriptor { return &p.desc }
func (p *testPlugin) Parse(buf []byte, offset int) (*format.ParseResult, *format.Reject) {
	return &format.ParseResult{FormatID: p.desc.ID, Size: p.desc.MinSize, SizeTrusted: true}, nil
}
func (p *testPlugin) Describe(string, format.Metadata) string { return p.desc.ID }

func plugin(id string, category format.Category, scan bool, sigs ...format.Signature) format.Plugin {
	return &testPlugin{desc: format.Descriptor{
		ID:                      id,
		Name:                    id,
		Ext:                     id,
		Category:                category,
		MinSize:                 8,
		MaxSize:                 1 << 20,
		DefaultSize:             64,
		EnableSignatureScanning: scan,
		Signatures:              sigs,
	}}
}

func sig(id string, magic string) format.Signature {
	return format.Signature{ID: id, Magic: []byte(magic)}
}

func testRegistry(t *testing.T, plugins ...format.Plugin) *format.Registry {
	t.Helper()
	reg, err := format.NewRegistry(plugins...)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestScanFindsAllOccurrences(t *testing.T) {
	reg := testRegistry(t,
		plugin("aa", format.CategoryTexture, true, sig("aa-magic", "AAAA")),
		plugin("bb", format.CategoryModel, true, sig("bb-magic", "BBBB")),
	)
	s := New(reg, nil)

	buf := []byte("xxAAAAxxxxBBBBxxAAAAxx")
	cands := s.Collect(buf, 0, len(buf))

	want := []format.Candidate{
		{Offset: 2, SignatureID: "aa-magic", FormatID: "aa"},
		{Offset: 10, SignatureID: "bb-magic", FormatID: "bb"},
		{Offset: 16, SignatureID: "aa-magic", FormatID: "aa"},
	}
	if len(cands) != len(want) {
		t.Fatalf("got %d candidates %v, want %d", len(cands), cands, len(want))
	}
	for i, c := range cands {
		if c != want[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestScanYieldsOverlappingMatches(t *testing.T) {
	// One pattern is a suffix of a region where the other starts: both
	// claims must surface, disambiguation belongs to later stages.
	reg := testRegistry(t,
		plugin("riff", format.CategoryAudio, true, sig("riff", "RIFF")),
		plugin("iffx", format.CategoryModel, true, sig("iffx", "IFFX")),
	)
	s := New(reg, nil)

	buf := []byte("..RIFFX..")
	cands := s.Collect(buf, 0, len(buf))

	if len(cands) != 2 {
		t.Fatalf("got %v, want RIFF@2 and IFFX@3", cands)
	}
	if cands[0].Offset != 2 || cands[0].FormatID != "riff" {
		t.Errorf("first candidate %+v", cands[0])
	}
	if cands[1].Offset != 3 || cands[1].FormatID != "iffx" {
		t.Errorf("second candidate %+v", cands[1])
	}
}

func TestScanHonorsNestedPatterns(t *testing.T) {
	// A short pattern embedded inside a longer one must still fire.
	reg := testRegistry(t,
		plugin("long", format.CategoryGameData, true, sig("long", "ABCDEF")),
		plugin("short", format.CategoryUI, true, sig("short", "CD")),
	)
	s := New(reg, nil)

	cands := s.Collect([]byte("ABCDEF"), 0, 6)
	var ids []string
	for _, c := range cands {
		ids = append(ids, c.FormatID)
	}
	if len(cands) != 2 || cands[0].FormatID != "long" || cands[1].FormatID != "short" {
		t.Fatalf("got %v (%v)", ids, cands)
	}
	if cands[1].Offset != 2 {
		t.Errorf("embedded match offset = %d, want 2", cands[1].Offset)
	}
}

func TestDisabledFormatContributesNoPatterns(t *testing.T) {
	reg := testRegistry(t,
		plugin("on", format.CategoryTexture, true, sig("on", "ONON")),
		plugin("off", format.CategoryModel, false, sig("off", "OFFF")),
	)
	s := New(reg, nil)

	if s.PatternCount() != 1 {
		t.Fatalf("pattern count = %d, want 1", s.PatternCount())
	}
	cands := s.Collect([]byte("ONONOFFF"), 0, 8)
	if len(cands) != 1 || cands[0].FormatID != "on" {
		t.Errorf("got %v", cands)
	}
}

func TestAllowFilter(t *testing.T) {
	reg := testRegistry(t,
		plugin("keep", format.CategoryTexture, true, sig("keep", "KEEP")),
		plugin("drop", format.CategoryModel, true, sig("drop", "DROP")),
	)
	s := New(reg, func(id string) bool { return id == "keep" })

	cands := s.Collect([]byte("KEEPDROP"), 0, 8)
	if len(cands) != 1 || cands[0].FormatID != "keep" {
		t.Errorf("got %v", cands)
	}
}

func TestNextSignatureSkipsOwnFormat(t *testing.T) {
	reg := testRegistry(t,
		plugin("self", format.CategoryTexture, true, sig("self", "SELF")),
		plugin("other", format.CategoryModel, true, sig("other", "NEXT")),
	)
	s := New(reg, nil)

	buf := bytes.Repeat([]byte{0}, 1000)
	copy(buf[100:], "SELF")
	copy(buf[500:], "NEXT")

	off, ok := s.NextSignature(buf, 10, len(buf), "self")
	if !ok || off != 500 {
		t.Errorf("NextSignature = %d, %v, want 500", off, ok)
	}

	if _, ok := s.NextSignature(buf, 10, 400, "self"); ok {
		t.Error("found a boundary where only the excluded format matches")
	}
}

func TestScanWindowBounds(t *testing.T) {
	reg := testRegistry(t, plugin("aa", format.CategoryTexture, true, sig("aa", "AAAA")))
	s := New(reg, nil)

	buf := []byte("AAAAxxxxAAAA")
	cands := s.Collect(buf, 4, len(buf))
	if len(cands) != 1 || cands[0].Offset != 8 {
		t.Errorf("got %v, want only the match at 8", cands)
	}
}
