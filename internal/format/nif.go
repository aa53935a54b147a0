package format

import (
	"bytes"
	"fmt"

	"dumpcarve/internal/binread"
)

var nifHeaderString = []byte("Gamebryo File Format, Version ")

// NIFMeta carries decoded NIF header fields.
type NIFMeta struct {
	VersionString string
	BigEndian     bool
}

func (m *NIFMeta) Pairs() []Pair {
	endian := "little"
	if m.BigEndian {
		endian = "big"
	}
	return []Pair{
		{"version", m.VersionString},
		{"endian", endian},
	}
}

// NIF carves Gamebryo scene graphs (meshes, skeletons, collision). The
// format has no declared total size; the block sizes live deep inside the
// body, so the extent always comes from boundary resolution.
type NIF struct {
	desc Descriptor
}

func NewNIF() *NIF {
	return &NIF{desc: Descriptor{
		ID:                      "nif",
		Name:                    "Gamebryo model",
		Ext:                     "nif",
		Category:                CategoryModel,
		MinSize:                 128,
		MaxSize:                 16 * 1024 * 1024,
		DefaultSize:             64 * 1024,
		EnableSignatureScanning: true,
		Signatures: []Signature{
			{ID: "nif-header", Magic: nifHeaderString[:8], Description: "Gamebryo header string"},
		},
	}}
}

func (p *NIF) Descriptor() *Descriptor { return &p.desc }

func (p *NIF) Parse(buf []byte, offset int) (*ParseResult, *Reject) {
	// Header string, newline, then a 4-byte binary version.
	window, ok := binread.Bytes(buf, offset, len(nifHeaderString)+16)
	if !ok {
		return nil, Rejectf(RejectStructural, "truncated NIF header at %d", offset)
	}
	if !bytes.HasPrefix(window, nifHeaderString) {
		return nil, Rejectf(RejectSemantic, "NIF header string mismatch")
	}

	nl := bytes.IndexByte(window[len(nifHeaderString):], '\n')
	if nl < 0 || nl > 12 {
		return nil, Rejectf(RejectSemantic, "unterminated NIF version string")
	}
	version := string(window[len(nifHeaderString) : len(nifHeaderString)+nl])

	// Endian byte follows the binary version on 20.x files; the 360
	// build writes 0 (big-endian) where the PC release writes 1.
	endianOff := offset + len(nifHeaderString) + nl + 1 + 4
	bigEndian := false
	if b, ok := binread.Bytes(buf, endianOff, 1); ok {
		bigEndian = b[0] == 0
	}

	meta := &NIFMeta{VersionString: version, BigEndian: bigEndian}
	return &ParseResult{FormatID: p.desc.ID, Size: 0, SizeTrusted: false, Meta: meta}, nil
}

func (p *NIF) Describe(signatureID string, meta Metadata) string {
	if m, ok := meta.(*NIFMeta); ok {
		return fmt.Sprintf("Gamebryo model v%s", m.VersionString)
	}
	return "Gamebryo model"
}
