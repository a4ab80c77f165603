// Package smbios decodes the raw firmware hardware-description blob into
// typed structures. The walker never reads past a structure's declared
// length and stops decoding entirely on the first malformed structure
// instead of attempting to resynchronize.
package smbios

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Structure types this engine decodes.
const (
	TypeBaseboard  = 2
	TypeChassis    = 3
	TypeProcessor  = 4
	TypeEndOfTable = 127
)

// headerSize is the fixed structure header: type, length, 2-byte handle.
const headerSize = 4

// ErrMalformed marks a structure whose declared length is below the minimum
// for its type. Decoding stops at that structure.
var ErrMalformed = errors.New("smbios: malformed structure")

// minLength holds the minimum declared length (header included) per known
// structure type. Unknown types only need to fit their header.
var minLength = map[uint8]uint8{
	TypeBaseboard: 0x08,
	TypeChassis:   0x09,
	TypeProcessor: 0x1A,
}

// Header is the fixed 4-byte structure header.
type Header struct {
	Type   uint8
	Length uint8
	Handle uint16
}

// Table is one decoded firmware structure: its header, the formatted area
// past the header, and the trailing string table.
type Table struct {
	Header    Header
	Formatted []byte
	Strings   []string
}

// StringAt resolves a 1-indexed string-table reference. Index 0 means "no
// string"; out-of-range references also resolve to the empty string.
func (t Table) StringAt(index int) string {
	if index <= 0 || index > len(t.Strings) {
		return ""
	}
	return t.Strings[index-1]
}

// ByteAt reads the byte at the given offset within the structure (offsets
// are absolute, counting from the start of the header as the firmware
// specification does). The second result is false when the declared length
// does not cover the offset.
func (t Table) ByteAt(offset int) (byte, bool) {
	i := offset - headerSize
	if i < 0 || i >= len(t.Formatted) {
		return 0, false
	}
	return t.Formatted[i], true
}

// WordAt reads the little-endian 16-bit value at the given absolute offset.
func (t Table) WordAt(offset int) (uint16, bool) {
	i := offset - headerSize
	if i < 0 || i+2 > len(t.Formatted) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(t.Formatted[i : i+2]), true
}

// Decode walks the raw firmware blob and returns the structures in table
// order. Reading stops at the end-of-table marker or the end of the blob,
// whichever comes first. On a malformed structure the already-decoded
// prefix is returned alongside a wrapped ErrMalformed.
func Decode(blob []byte) ([]Table, error) {
	var tables []Table

	off := 0
	for off+headerSize <= len(blob) {
		h := Header{
			Type:   blob[off],
			Length: blob[off+1],
			Handle: binary.LittleEndian.Uint16(blob[off+2 : off+4]),
		}

		if h.Length < headerSize {
			return tables, fmt.Errorf("%w: type %d declares length %d below header size", ErrMalformed, h.Type, h.Length)
		}
		if min, known := minLength[h.Type]; known && h.Length < min {
			return tables, fmt.Errorf("%w: type %d declares length %d, minimum is %d", ErrMalformed, h.Type, h.Length, min)
		}
		if off+int(h.Length) > len(blob) {
			return tables, fmt.Errorf("%w: type %d declares length %d past end of blob", ErrMalformed, h.Type, h.Length)
		}

		formatted := make([]byte, int(h.Length)-headerSize)
		copy(formatted, blob[off+headerSize:off+int(h.Length)])

		strs, next := readStringTable(blob, off+int(h.Length))
		tables = append(tables, Table{Header: h, Formatted: formatted, Strings: strs})

		if h.Type == TypeEndOfTable {
			break
		}
		off = next
	}

	return tables, nil
}

// readStringTable collects the run of null-terminated strings that follows
// a structure's formatted area, up to the double-null terminator. It
// returns the strings and the offset just past the terminator. A truncated
// string table consumes the remainder of the blob.
func readStringTable(blob []byte, off int) ([]string, int) {
	// An immediately doubled null means an empty string table.
	if off+1 < len(blob) && blob[off] == 0 && blob[off+1] == 0 {
		return nil, off + 2
	}

	var strs []string
	start := off
	for off < len(blob) {
		if blob[off] != 0 {
			off++
			continue
		}

		if off > start {
			strs = append(strs, string(blob[start:off]))
		}
		off++
		if off >= len(blob) || blob[off] == 0 {
			// Double null: end of this structure's string table.
			return strs, off + 1
		}
		start = off
	}

	// Ran off the end mid-string; drop the unterminated tail.
	return strs, len(blob)
}
