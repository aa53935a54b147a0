package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

// LIPMeta carries decoded lip-sync header fields.
type LIPMeta struct {
	Version     uint32
	PhonemeSize uint32
}

func (m *LIPMeta) Pairs() []Pair {
	return []Pair{
		{"version", fmt.Sprint(m.Version)},
		{"phonemes", fmt.Sprint(m.PhonemeSize)},
	}
}

// LIP labels lip-sync phoneme tracks. The header starts with a plain
// version word that collides with half the heap, so the format is never
// scanned for directly; it is only parsed when dialogue metadata points at
// a voice payload.
type LIP struct {
	desc Descriptor
}

func NewLIP() *LIP {
	return &LIP{desc: Descriptor{
		ID:                      "lip",
		Name:                    "Lip-sync track",
		Ext:                     "lip",
		Category:                CategoryGameData,
		MinSize:                 16,
		MaxSize:                 1024 * 1024,
		DefaultSize:             8 * 1024,
		EnableSignatureScanning: false,
	}}
}

func (p *LIP) Descriptor() *Descriptor { return &p.desc }

func (p *LIP) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+12 > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated LIP header at %d", offset)
	}

	version, _ := binread.U32BE(buf, offset)
	if version == 0 || version > 2 {
		return nil, Rejectf(RejectSemantic, "implausible LIP version %d", version)
	}
	phonemeSize, _ := binread.U32BE(buf, offset+4)
	if phonemeSize == 0 {
		return nil, Rejectf(RejectSemantic, "empty phoneme table")
	}

	size := 12 + int(phonemeSize)
	trusted := size >= p.desc.MinSize && size <= p.desc.MaxSize

	meta := &LIPMeta{Version: version, PhonemeSize: phonemeSize}
	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: meta}, nil
}

func (p *LIP) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*LIPMeta); ok {
		return fmt.Sprintf("lip-sync track v%d", m.Version)
	}
	return "lip-sync track"
}
