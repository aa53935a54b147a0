package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

// XEXMeta carries decoded executable header fields.
type XEXMeta struct {
	ModuleFlags uint32
	PEOffset    uint32
}

func (m *XEXMeta) Pairs() []Pair {
	return []Pair{
		{"flags", fmt.Sprintf("0x%08x", m.ModuleFlags)},
		{"peoffset", fmt.Sprintf("0x%x", m.PEOffset)},
	}
}

// XEX carves loaded executable modules. Deliberately the lowest-priority
// category: the dump is the address space of an executable, so
// executable-looking byte runs are everywhere and mostly noise. No usable
// size field survives in memory, the extent comes from boundary scanning.
type XEX struct {
	desc Descriptor
}

func NewXEX() *XEX {
	return &XEX{desc: Descriptor{
		ID:                      "xex",
		Name:                    "Xbox executable module",
		Ext:                     "xex",
		Category:                CategoryExecutable,
		MinSize:                 4 * 1024,
		MaxSize:                 32 * 1024 * 1024,
		DefaultSize:             64 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "xex-magic", Magic: []byte("XEX2"), Description: "XEX2 module header"},
		},
	}}
}

func (p *XEX) Descriptor() *Descriptor { return &p.desc }

func (p *XEX) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+24 > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated XEX header at %d", offset)
	}

	moduleFlags, _ := binread.U32BE(buf, offset+4)
	peOffset, _ := binread.U32BE(buf, offset+8)
	headerCount, _ := binread.U32BE(buf, offset+20)

	if peOffset == 0 || peOffset&0x3 != 0 {
		return nil, Rejectf(RejectSemantic, "misaligned PE data offset 0x%x", peOffset)
	}
	if headerCount == 0 || headerCount > 64 {
		return nil, Rejectf(RejectSemantic, "implausible optional header count %d", headerCount)
	}

	meta := &XEXMeta{ModuleFlags: moduleFlags, PEOffset: peOffset}
	return &ParseResult{FormatID: p.desc.ID, Size: 0, SizeTrusted: false, Meta: meta}, nil
}

func (p *XEX) Describe(signatureID string, meta Metadata) string {
	return "XEX2 executable module"
}
