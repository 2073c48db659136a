package column

import "encoding/binary"

const (
	// InlineSize is the longest value stored entirely inside a StringView.
	InlineSize = 12
	// PrefixSize is the number of leading bytes a StringView keeps for arena values.
	PrefixSize = 4

	batchSize = 8
)

// StringView is the fixed-size record of one decoded value, two little-endian words.
//
// The low 32 bits of the first word hold the length and the high 32 bits the first four
// bytes of the value. For values of up to InlineSize bytes the second word holds bytes
// 4 to 11, zero padded; for longer values it holds the offset of the value in the arena.
type StringView [2]uint64

// Len returns the value length in bytes.
func (v StringView) Len() int {
	return int(uint32(v[0]))
}

// IsInline reports whether the value is stored entirely in the record.
func (v StringView) IsInline() bool {
	return v.Len() <= InlineSize
}

// Prefix returns the first four bytes of the value, zero padded.
func (v StringView) Prefix() [PrefixSize]byte {
	var p [PrefixSize]byte
	binary.LittleEndian.PutUint32(p[:], uint32(v[0]>>32))

	return p
}

func (v StringView) arenaOffset() int {
	return int(v[1])
}

// appendInline appends the bytes of an inline value to dst.
func (v StringView) appendInline(dst []byte) []byte {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:], v[0])
	binary.LittleEndian.PutUint64(buf[8:], v[1])

	return append(dst, buf[PrefixSize:PrefixSize+v.Len()]...)
}

// inlineView builds the record of a value of at most InlineSize bytes.
func inlineView(value []byte) StringView {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(value)))
	copy(buf[PrefixSize:], value)

	return StringView{binary.LittleEndian.Uint64(buf[0:]), binary.LittleEndian.Uint64(buf[8:])}
}

// arenaView builds the record of a value longer than InlineSize stored at off in the arena.
func arenaView(value []byte, off int) StringView {
	prefix := uint64(binary.LittleEndian.Uint32(value))
	return StringView{uint64(len(value)) | prefix<<32, uint64(off)}
}
