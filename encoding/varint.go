package encoding

import (
	"encoding/binary"

	"github.com/arloliu/strcol/internal/pool"
	"github.com/arloliu/strcol/stream"
)

// VarintEncoder encodes each length as an unsigned varint.
type VarintEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ LengthEncoder = (*VarintEncoder)(nil)

// NewVarintEncoder creates a new varint length encoder.
func NewVarintEncoder() *VarintEncoder {
	return &VarintEncoder{buf: pool.GetStreamBuffer()}
}

// Write encodes a single length.
func (e *VarintEncoder) Write(length uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.B = binary.AppendUvarint(e.buf.B, uint64(length))
}

// WriteSlice encodes a slice of lengths.
func (e *VarintEncoder) WriteSlice(lengths []uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count += len(lengths)
	// most lengths fit in one or two bytes
	e.buf.Grow(2 * len(lengths))
	for _, l := range lengths {
		e.buf.B = binary.AppendUvarint(e.buf.B, uint64(l))
	}
}

// Bytes returns the encoded stream.
func (e *VarintEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of encoded lengths.
func (e *VarintEncoder) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded stream.
func (e *VarintEncoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *VarintEncoder) Finish() {
	if e.buf != nil {
		pool.PutStreamBuffer(e.buf)
		e.buf = nil
	}
}

// VarintDecoder decodes a stream of unsigned varint lengths.
type VarintDecoder struct {
	cur *stream.Cursor
}

var _ LengthDecoder = (*VarintDecoder)(nil)

// NewVarintDecoder creates a decoder reading from in.
func NewVarintDecoder(in stream.Input) *VarintDecoder {
	return &VarintDecoder{cur: stream.NewCursor(in)}
}

// NextLengths implements LengthDecoder.
func (d *VarintDecoder) NextLengths(dst []uint32) error {
	for i := range dst {
		v, err := readUvarint(d.cur)
		if err != nil {
			return err
		}
		dst[i] = v
	}

	return nil
}

// Skip implements LengthDecoder.
func (d *VarintDecoder) Skip(n int) error {
	for range n {
		if _, err := readUvarint64(d.cur); err != nil {
			return err
		}
	}

	return nil
}
