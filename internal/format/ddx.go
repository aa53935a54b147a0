package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

const ddxHeaderSize = 16

// DDXMeta carries decoded DDX header fields.
type DDXMeta struct {
	Width    uint16
	Height   uint16
	DataSize uint32
}

func (m *DDXMeta) Pairs() []Pair {
	return []Pair{
		{"width", fmt.Sprint(m.Width)},
		{"height", fmt.Sprint(m.Height)},
		{"datasize", fmt.Sprint(m.DataSize)},
	}
}

// DDX carves the 360 build's packed texture container. All header fields
// are big-endian; the payload is the tiled GPU surface the PC-side
// converter untiles.
type DDX struct {
	desc Descriptor
}

func NewDDX() *DDX {
	return &DDX{desc: Descriptor{
		ID:                      "ddx",
		Name:                    "Xbox 360 packed texture",
		Ext:                     "ddx",
		Category:                CategoryTexture,
		MinSize:                 ddxHeaderSize + 64,
		MaxSize:                 32 * 1024 * 1024,
		DefaultSize:             128 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "ddx-magic", Magic: []byte("DDX1"), Description: "DDX container"},
		},
	}}
}

func (p *DDX) Descriptor() *Descriptor { return &p.desc }

func (p *DDX) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+ddxHeaderSize > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated DDX header at %d", offset)
	}

	dataSize, _ := binread.U32BE(buf, offset+4)
	width, _ := binread.U16BE(buf, offset+8)
	height, _ := binread.U16BE(buf, offset+10)

	if width == 0 || height == 0 || width > 8192 || height > 8192 {
		return nil, Rejectf(RejectSemantic, "implausible DDX dimensions %dx%d", width, height)
	}
	if dataSize == 0 {
		return nil, Rejectf(RejectSemantic, "zero DDX payload")
	}

	size := ddxHeaderSize + int(dataSize)
	trusted := size >= p.desc.MinSize && size <= p.desc.MaxSize

	meta := &DDXMeta{Width: width, Height: height, DataSize: dataSize}
	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: meta}, nil
}

func (p *DDX) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*DDXMeta); ok {
		return fmt.Sprintf("DDX texture %dx%d", m.Width, m.Height)
	}
	return "DDX texture"
}
