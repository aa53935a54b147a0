package format

import (
	"fmt"

	"dumpcarve/internal/binread"
)

const (
	esmRecordHeaderSize = 24

	// ESMFlagCompressed marks a record whose payload is zlib-deflated
	// behind a 4-byte decompressed-size prefix.
	ESMFlagCompressed = 0x00040000
)

// ESMMeta carries decoded record header fields.
type ESMMeta struct {
	Tag        string
	DataSize   uint32
	FormID     uint32
	Compressed bool
	Group      bool
}

func (m *ESMMeta) Pairs() []Pair {
	pairs := []Pair{
		{"tag", m.Tag},
		{"datasize", fmt.Sprint(m.DataSize)},
	}
	if m.Group {
		pairs = append(pairs, Pair{"group", "true"})
	} else {
		pairs = append(pairs, Pair{"formid", fmt.Sprintf("%08X", m.FormID)})
	}
	if m.Compressed {
		pairs = append(pairs, Pair{"compressed", "true"})
	}
	return pairs
}

// ESM carves plugin records and record groups from the in-memory master
// file. The 360 build keeps the whole record layout big-endian, the
// inverse of the shipped PC masters; the converter collaborator does the
// byte-order flip after carving.
type ESM struct {
	desc Descriptor
}

func NewESM() *ESM {
	return &ESM{desc: Descriptor{
		ID:                      "esm",
		Name:                    "Plugin record block",
		Ext:                     "esm",
		Category:                CategoryGameData,
		MinSize:                 esmRecordHeaderSize,
		MaxSize:                 64 * 1024 * 1024,
		DefaultSize:             4 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "esm-tes4", Magic: []byte("TES4"), Description: "plugin header record"},
			{ID: "esm-grup", Magic: []byte("GRUP"), Description: "record group"},
		},
	}}
}

func (p *ESM) Descriptor() *Descriptor { return &p.desc }

func (p *ESM) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	tag, ok := binread.FourCC(buf, offset)
	if !ok || offset+esmRecordHeaderSize > len(buf) {
		return nil, Rejectf(RejectStructural, "truncated record header at %d", offset)
	}

	size32, _ := binread.U32BE(buf, offset+4)
	flags, _ := binread.U32BE(buf, offset+8)

	var meta *ESMMeta
	var size int
	switch tag {
	case "GRUP":
		// Group size counts the header itself.
		if size32 < esmRecordHeaderSize {
			return nil, Rejectf(RejectSemantic, "group size %d below header size", size32)
		}
		label, _ := binread.FourCC(buf, offset+8)
		meta = &ESMMeta{Tag: label, DataSize: size32, Group: true}
		size = int(size32)
	case "TES4":
		formID, _ := binread.U32BE(buf, offset+12)
		if flags&0xFF000000 != 0 {
			// No record flag lives in the top byte; garbage match.
			return nil, Rejectf(RejectSemantic, "implausible record flags %08x", flags)
		}
		meta = &ESMMeta{
			Tag:        tag,
			DataSize:   size32,
			FormID:     formID,
			Compressed: flags&ESMFlagCompressed != 0,
		}
		size = esmRecordHeaderSize + int(size32)
	default:
		return nil, Rejectf(RejectSemantic, "record tag %q", tag)
	}

	trusted := size >= p.desc.MinSize && size <= p.desc.MaxSize
	return &ParseResult{FormatID: p.desc.ID, Size: size, SizeTrusted: trusted, Meta: meta}, nil
}

func (p *ESM) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*ESMMeta); ok {
		if m.Group {
			return fmt.Sprintf("record group %q (%d bytes)", m.Tag, m.DataSize)
		}
		return fmt.Sprintf("record %s form %08X", m.Tag, m.FormID)
	}
	return "plugin record"
}
