package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

const (
	waveFormatXMA  = 0x0165
	waveFormatXMA2 = 0x0166
)

// XMAMeta carries decoded RIFF/XMA header fields.
type XMAMeta struct {
	FormatTag uint16
	Channels  uint16
	RiffSize  uint32
}

func (m *XMAMeta) Pairs() []Pair {
	return []Pair{
		{"tag", fmt.Sprintf("0x%04x", m.FormatTag)},
		{"channels", fmt.Sprint(m.Channels)},
		{"riffsize", fmt.Sprint(m.RiffSize)},
	}
}

// XMA carves RIFF-wrapped XMA voice and music streams. The RIFF magic is a
// terrible discriminator on its own (any WAV-ish garbage matches), so the
// fmt chunk's codec tag has to check out before a candidate survives.
type XMA struct {
	desc Descriptor
}

func NewXMA() *XMA {
	return &XMA{desc: Descriptor{
		ID:                      "xma",
		Name:                    "XMA audio stream",
		Ext:                     "xma",
		Category:                CategoryAudio,
		MinSize:                 64,
		MaxSize:                 64 * 1024 * 1024,
		DefaultSize:             512 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "xma-riff", Magic: []byte("RIFF"), Description: "RIFF container"},
		},
	}}
}

func (p *XMA) Descriptor() *Descriptor { return &p.desc }

func (p *XMA) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	if offset+28 > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated RIFF header at %d", offset)
	}

	riffSize, _ := binread.U32LE(buf, offset+4)
	form, _ := binread.FourCC(buf, offset+8)
	if form != "WAVE" {
		return nil, Rejectf(RejectSemantic, "RIFF form %q is not WAVE", form)
	}
	chunk, _ := binread.FourCC(buf, offset+12)
	if chunk != "fmt " {
		return nil, Rejectf(RejectSemantic, "first RIFF chunk %q is not fmt", chunk)
	}

	tag, _ := binread.U16LE(buf, offset+20)
	if tag != waveFormatXMA && tag != waveFormatXMA2 {
		return nil, Rejectf(RejectSemantic, "codec tag 0x%04x is not XMA", tag)
	}
	channels, _ := binread.U16LE(buf, offset+22)
	if channels == 0 || channels > 8 {
		return nil, Rejectf(RejectSemantic, "implausible channel count %d", channels)
	}

	size := 8 + int(riffSize)
	trusted := size >= p.desc.MinSize && size <= p.desc.MaxSize

	meta := &XMAMeta{FormatTag: tag, Channels: channels, RiffSize: riffSize}
	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: meta}, nil
}

func (p *XMA) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*XMAMeta); ok {
		return fmt.Sprintf("XMA audio, %d channel(s)", m.Channels)
	}
	return "XMA audio"
}
