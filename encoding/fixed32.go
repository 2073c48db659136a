package encoding

import (
	"fmt"

	"github.com/arloliu/strcol/endian"
	"github.com/arloliu/strcol/internal/pool"
	"github.com/arloliu/strcol/stream"
)

const fixed32Size = 4

// Fixed32Encoder encodes each length as four bytes in the configured byte order.
type Fixed32Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ LengthEncoder = (*Fixed32Encoder)(nil)

// NewFixed32Encoder creates a new fixed-width length encoder.
func NewFixed32Encoder(engine endian.EndianEngine) *Fixed32Encoder {
	return &Fixed32Encoder{
		engine: engine,
		buf:    pool.GetStreamBuffer(),
	}
}

// Write encodes a single length.
func (e *Fixed32Encoder) Write(length uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.B = e.engine.AppendUint32(e.buf.B, length)
}

// WriteSlice encodes a slice of lengths with a single buffer extension.
func (e *Fixed32Encoder) WriteSlice(lengths []uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	n := len(lengths)
	e.count += n
	if n == 0 {
		return
	}

	start := e.buf.Len()
	e.buf.ExtendOrGrow(n * fixed32Size)
	for i, l := range lengths {
		off := start + i*fixed32Size
		e.engine.PutUint32(e.buf.Slice(off, off+fixed32Size), l)
	}
}

// Bytes returns the encoded stream.
func (e *Fixed32Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of encoded lengths.
func (e *Fixed32Encoder) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded stream.
func (e *Fixed32Encoder) Size() int {
	return e.buf.Len()
}

// Finish returns the buffer to the pool.
func (e *Fixed32Encoder) Finish() {
	if e.buf != nil {
		pool.PutStreamBuffer(e.buf)
		e.buf = nil
	}
}

// Fixed32Decoder decodes fixed four-byte lengths.
type Fixed32Decoder struct {
	cur     *stream.Cursor
	engine  endian.EndianEngine
	scratch []byte
}

var _ LengthDecoder = (*Fixed32Decoder)(nil)

// NewFixed32Decoder creates a decoder reading from in.
func NewFixed32Decoder(in stream.Input, engine endian.EndianEngine) *Fixed32Decoder {
	return &Fixed32Decoder{cur: stream.NewCursor(in), engine: engine}
}

// NextLengths implements LengthDecoder.
func (d *Fixed32Decoder) NextLengths(dst []uint32) error {
	size := len(dst) * fixed32Size
	d.scratch = pool.Ensure(d.scratch, size)
	if err := d.cur.ReadBytes(d.scratch); err != nil {
		return err
	}

	for i := range dst {
		dst[i] = d.engine.Uint32(d.scratch[i*fixed32Size:])
	}

	return nil
}

// Skip implements LengthDecoder.
func (d *Fixed32Decoder) Skip(n int) error {
	if err := d.cur.Skip(int64(n) * fixed32Size); err != nil {
		return fmt.Errorf("skip %d lengths: %w", n, err)
	}

	return nil
}
