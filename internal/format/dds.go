package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

const (
	ddsHeaderSize = 124

	ddsdPitch      = 0x00000008
	ddsdLinearSize = 0x00080000
)

// DDSMeta carries decoded DDS header fields.
type DDSMeta struct {
	Width  uint32
	Height uint32
	FourCC string
}

func (m *DDSMeta) Pairs() []Pair {
	return []Pair{
		{"width", fmt.Sprint(m.Width)},
		{"height", fmt.Sprint(m.Height)},
		{"fourcc", m.FourCC},
	}
}

// DDS carves PC-style DirectDraw surface textures. Dumps of the 360 build
// still contain a number of these verbatim (loose override textures kept
// in their shipped layout).
type DDS struct {
	desc Descriptor
}

func NewDDS() *DDS {
	return &DDS{desc: Descriptor{
		ID:                      "dds",
		Name:                    "DirectDraw Surface",
		Ext:                     "dds",
		Category:                CategoryTexture,
		MinSize:                 4 + ddsHeaderSize,
		MaxSize:                 64 * 1024 * 1024,
		DefaultSize:             256 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "dds-magic", Magic: []byte("DDS "), Description: "DDS header"},
		},
	}}
}

func (p *DDS) Descriptor() *Descriptor { return &p.desc }

func (p *DDS) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+4+ddsHeaderSize > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated DDS header at %d", offset)
	}

	hdrSize, _ := binread.U32LE(buf, offset+4)
	if hdrSize != ddsHeaderSize {
		return nil, Rejectf(RejectSemantic, "DDS header size %d", hdrSize)
	}

	flags, _ := binread.U32LE(buf, offset+8)
	height, _ := binread.U32LE(buf, offset+12)
	width, _ := binread.U32LE(buf, offset+16)
	pitchOrLinear, _ := binread.U32LE(buf, offset+20)
	if width == 0 || height == 0 || width > 8192 || height > 8192 {
		return nil, Rejectf(RejectSemantic, "implausible DDS dimensions %dx%d", width, height)
	}

	fourcc, _ := binread.FourCC(buf, offset+4+80+4)

	meta := &DDSMeta{Width: width, Height: height, FourCC: fourcc}

	// The linear-size flag gives the top-level surface size directly;
	// pitched surfaces are pitch*height. Either way mipmaps may follow,
	// so the declared size is a floor, not the extent: leave it untrusted
	// and let the boundary scan find the real end.
	var payload uint32
	trusted := false
	switch {
	case flags&ddsdLinearSize != 0:
		payload = pitchOrLinear
		trusted = true
	case flags&ddsdPitch != 0:
		payload = pitchOrLinear * height
	default:
		payload = width * height * 4
	}

	size := 4 + ddsHeaderSize + int(payload)
	if size < p.desc.MinSize || size > p.desc.MaxSize {
		trusted = false
	}

	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: meta}, nil
}

func (p *DDS) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*DDSMeta); ok {
		return fmt.Sprintf("DDS texture %dx%d (%s)", m.Width, m.Height, m.FourCC)
	}
	return "DDS texture"
}
