package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

// SWFMeta carries decoded Flash/GFx header fields.
type SWFMeta struct {
	Variant    string
	Version    uint8
	FileLength uint32
}

func (m *SWFMeta) Pairs() []Pair {
	return []Pair{
		{"variant", m.Variant},
		{"version", fmt.Sprint(m.Version)},
		{"length", fmt.Sprint(m.FileLength)},
	}
}

// SWF carves Scaleform GFx menu movies. The game's whole UI is Flash
// content with a declared total length at a fixed header offset.
type SWF struct {
	desc Descriptor
}

func NewSWF() *SWF {
	return &SWF{desc: Descriptor{
		ID:                      "swf",
		Name:                    "Scaleform menu movie",
		Ext:                     "swf",
		Category:                CategoryUI,
		MinSize:                 16,
		MaxSize:                 16 * 1024 * 1024,
		DefaultSize:             32 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "swf-fws", Magic: []byte("FWS"), Description: "uncompressed Flash"},
			{ID: "swf-cws", Magic: []byte("CWS"), Description: "zlib-compressed Flash"},
			{ID: "swf-gfx", Magic: []byte("GFX"), Description: "Scaleform GFx"},
		},
	}}
}

func (p *SWF) Descriptor() *Descriptor { return &p.desc }

func (p *SWF) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+8 > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated SWF header at %d", offset)
	}

	variant, _ := binread.FourCC(buf, offset)
	variant = variant[:3]
	version := buf[offset+3]
	if version == 0 || version > 40 {
		return nil, Rejectf(RejectSemantic, "implausible SWF version %d", version)
	}

	length, _ := binread.U32LE(buf, offset+4)
	size := int(length)
	trusted := size >= p.desc.MinSize && size <= p.desc.MaxSize

	meta := &SWFMeta{Variant: variant, Version: version, FileLength: length}
	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: meta}, nil
}

func (p *SWF) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*SWFMeta); ok {
		return fmt.Sprintf("%s movie v%d", m.Variant, m.Version)
	}
	return "Flash movie"
}
