package convert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"dumpcarve/internal/binread"
	"dumpcarve/internal/format"
)

const recordHeaderSize = 24

// maxInflatedRecord bounds how large a decompressed payload may claim to
// be; the declared size comes from untrusted dump bytes.
const maxInflatedRecord = 64 * 1024 * 1024

// RecordInflater rewrites a carved big-endian plugin record into the PC
// layout: header fields byte-swapped to little-endian and, for compressed
// records, the zlib payload inflated with the compression flag cleared.
type RecordInflater struct{}

func (c *RecordInflater) Convert(data []byte, offset int64) ([]byte, error) {
	if len(data) < recordHeaderSize {
		return nil, fmt.Errorf("record at %d: %d bytes is below the header size", offset, len(data))
	}

	tag, _ := binread.FourCC(data, 0)
	if tag == "GRUP" {
		return c.convertGroup(data, offset)
	}

	dataSize, _ := binread.U32BE(data, 4)
	flags, _ := binread.U32BE(data, 8)
	if int(dataSize) > len(data)-recordHeaderSize {
		return nil, fmt.Errorf("record at %d: declared %d payload bytes, carve holds %d", offset, dataSize, len(data)-recordHeaderSize)
	}
	payload := data[recordHeaderSize : recordHeaderSize+int(dataSize)]

	if flags&format.ESMFlagCompressed != 0 {
		inflated, err := inflatePayload(payload, offset)
		if err != nil {
			return nil, err
		}
		payload = inflated
		flags &^= format.ESMFlagCompressed
		dataSize = uint32(len(payload))
	}

	out := make([]byte, 0, recordHeaderSize+len(payload))
	out = append(out, data[:4]...)
	out = binary.LittleEndian.AppendUint32(out, dataSize)
	out = binary.LittleEndian.AppendUint32(out, flags)
	for field := 12; field < recordHeaderSize; field += 4 {
		v, _ := binread.U32BE(data, field)
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return append(out, payload...), nil
}

// convertGroup swaps the group header only; member records are distinct
// carves.
func (c *RecordInflater) convertGroup(data []byte, offset int64) ([]byte, error) {
	out := make([]byte, 0, len(data))
	out = append(out, data[:4]...)
	for field := 4; field < recordHeaderSize; field += 4 {
		v, _ := binread.U32BE(data, field)
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return append(out, data[recordHeaderSize:]...), nil
}

func inflatePayload(payload []byte, offset int64) ([]byte, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("compressed record at %d: missing size prefix", offset)
	}
	declared := binary.BigEndian.Uint32(payload)
	if declared == 0 || declared > maxInflatedRecord {
		return nil, fmt.Errorf("compressed record at %d: implausible inflated size %d", offset, declared)
	}

	zr, err := zlib.NewReader(bytes.NewReader(payload[4:]))
	if err != nil {
		return nil, fmt.Errorf("compressed record at %d: %w", offset, err)
	}
	defer zr.Close()

	inflated := make([]byte, 0, declared)
	buf := bytes.NewBuffer(inflated)
	if _, err := io.Copy(buf, io.LimitReader(zr, int64(declared)+1)); err != nil {
		return nil, fmt.Errorf("compressed record at %d: %w", offset, err)
	}
	if buf.Len() != int(declared) {
		return nil, fmt.Errorf("compressed record at %d: inflated to %d bytes, header declared %d", offset, buf.Len(), declared)
	}
	return buf.Bytes(), nil
}
