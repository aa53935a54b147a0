package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

// BinkMeta carries decoded Bink header fields.
type BinkMeta struct {
	Frames uint32
	Width  uint32
	Height uint32
}

func (m *BinkMeta) Pairs() []Pair {
	return []Pair{
		{"frames", fmt.Sprint(m.Frames)},
		{"width", fmt.Sprint(m.Width)},
		{"height", fmt.Sprint(m.Height)},
	}
}

// Bink carves Bink video files (intro movies, loading screens). The header
// declares its own file size, which makes boundaries reliable.
type Bink struct {
	desc Descriptor
}

func NewBink() *Bink {
	return &Bink{desc: Descriptor{
		ID:                      "bik",
		Name:                    "Bink video",
		Ext:                     "bik",
		Category:                CategoryVideo,
		MinSize:                 44,
		MaxSize:                 512 * 1024 * 1024,
		DefaultSize:             1024 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "bik-magic", Magic: []byte("BIKi"), Description: "Bink video"},
		},
	}}
}

func (p *Bink) Descriptor() *Descriptor { return &p.desc }

func (p *Bink) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+28 > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated Bink header at %d", offset)
	}

	// Declared size excludes the 8-byte magic+size prefix.
	declared, _ := binread.U32LE(buf, offset+4)
	frames, _ := binread.U32LE(buf, offset+8)
	width, _ := binread.U32LE(buf, offset+20)
	height, _ := binread.U32LE(buf, offset+24)

	if frames == 0 || frames > 1_000_000 {
		return nil, Rejectf(RejectSemantic, "implausible frame count %d", frames)
	}
	if width == 0 || height == 0 || width > 7680 || height > 4800 {
		return nil, Rejectf(RejectSemantic, "implausible video dimensions %dx%d", width, height)
	}

	size := 8 + int(declared)
	trusted := size >= p.desc.MinSize && size <= p.desc.MaxSize

	meta := &BinkMeta{Frames: frames, Width: width, Height: height}
	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: meta}, nil
}

func (p *Bink) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*BinkMeta); ok {
		return fmt.Sprintf("Bink video %dx%d, %d frames", m.Width, m.Height, m.Frames)
	}
	return "Bink video"
}
