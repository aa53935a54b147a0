package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

// XUIMeta carries decoded XUI resource header fields.
type XUIMeta struct {
	PayloadSize uint32
}

func (m *XUIMeta) Pairs() []Pair {
	return []Pair{{"payload", fmt.Sprint(m.PayloadSize)}}
}

// XUI carves compiled Xbox dashboard UI resources (system-side overlays the
// title embeds). Big-endian declared payload size directly after the magic.
type XUI struct {
	desc Descriptor
}

func NewXUI() *XUI {
	return &XUI{desc: Descriptor{
		ID:                      "xui",
		Name:                    "Xbox UI resource",
		Ext:                     "xui",
		Category:                CategoryUI,
		MinSize:                 32,
		MaxSize:                 4 * 1024 * 1024,
		DefaultSize:             16 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "xui-magic", Magic: []byte("XUIZ"), Description: "compiled XUI resource"},
		},
	}}
}

func (p *XUI) Descriptor() *Descriptor { return &p.desc }

func (p *XUI) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+8 > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated XUI header at %d", offset)
	}

	payload, _ := binread.U32BE(buf, offset+4)
	if payload == 0 {
		return nil, Rejectf(RejectSemantic, "zero XUI payload")
	}

	size := 8 + int(payload)
	trusted := size >= p.desc.MinSize && size <= p.desc.MaxSize

	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: &XUIMeta{PayloadSize: payload}}, nil
}

func (p *XUI) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*XUIMeta); ok {
		return fmt.Sprintf("XUI resource (%d bytes)", m.PayloadSize)
	}
	return "XUI resource"
}
