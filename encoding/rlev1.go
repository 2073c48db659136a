package encoding

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/internal/pool"
	"github.com/arloliu/strcol/stream"
)

const (
	rleMinRepeat  = 3
	rleMaxRepeat  = 127 + rleMinRepeat
	rleMaxLiteral = 128
	rleMinDelta   = -128
	rleMaxDelta   = 127
)

// RLEv1Encoder encodes lengths with ORC integer run-length encoding version 1.
//
// Runs of at least three values with a constant delta in [-128, 127] are written as
// a run; everything else is written as literal groups of up to 128 varints.
type RLEv1Encoder struct {
	buf      *pool.ByteBuffer
	count    int
	literals [rleMaxLiteral]int64
	numLit   int
	delta    int64
	repeat   bool
	tailRun  int
}

var _ LengthEncoder = (*RLEv1Encoder)(nil)

// NewRLEv1Encoder creates a new RLE v1 length encoder.
func NewRLEv1Encoder() *RLEv1Encoder {
	return &RLEv1Encoder{buf: pool.GetStreamBuffer()}
}

// Write encodes a single length.
//
// Panics if Finish() has been called.
func (e *RLEv1Encoder) Write(length uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.write(int64(length))
}

// WriteSlice encodes a slice of lengths.
//
// Panics if Finish() has been called.
func (e *RLEv1Encoder) WriteSlice(lengths []uint32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count += len(lengths)
	for _, l := range lengths {
		e.write(int64(l))
	}
}

func (e *RLEv1Encoder) write(v int64) {
	if e.numLit == 0 {
		e.literals[0] = v
		e.numLit = 1
		e.tailRun = 1

		return
	}

	if e.repeat {
		if v == e.literals[0]+e.delta*int64(e.numLit) {
			e.numLit++
			if e.numLit == rleMaxRepeat {
				e.flush()
			}

			return
		}

		e.flush()
		e.literals[0] = v
		e.numLit = 1
		e.tailRun = 1

		return
	}

	last := e.literals[e.numLit-1]
	if e.tailRun > 1 && v == last+e.delta {
		e.tailRun++
	} else {
		e.delta = v - last
		e.tailRun = 2
		if e.delta < rleMinDelta || e.delta > rleMaxDelta {
			e.tailRun = 1
		}
	}

	if e.tailRun < rleMinRepeat {
		e.literals[e.numLit] = v
		e.numLit++
		if e.numLit == rleMaxLiteral {
			e.flush()
		}

		return
	}

	// The last two literals and v form a run. Emit the literals before it, if any.
	if e.numLit+1 > rleMinRepeat {
		e.numLit -= rleMinRepeat - 1
		base := e.literals[e.numLit]
		e.flush()
		e.literals[0] = base
	}
	e.repeat = true
	e.numLit = rleMinRepeat
}

// flush writes the buffered run or literal group.
func (e *RLEv1Encoder) flush() {
	if e.numLit == 0 {
		return
	}

	b := e.buf.B
	if e.repeat {
		b = append(b, byte(e.numLit-rleMinRepeat), byte(int8(e.delta)))
		b = binary.AppendUvarint(b, uint64(e.literals[0]))
	} else {
		b = append(b, byte(-e.numLit))
		for _, v := range e.literals[:e.numLit] {
			b = binary.AppendUvarint(b, uint64(v))
		}
	}
	e.buf.B = b

	e.repeat = false
	e.numLit = 0
	e.tailRun = 0
}

// Bytes returns the encoded stream.
//
// Buffered values are flushed first, so a run in progress is closed; later writes
// start a new run.
func (e *RLEv1Encoder) Bytes() []byte {
	e.flush()
	return e.buf.Bytes()
}

// Len returns the number of encoded lengths.
func (e *RLEv1Encoder) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded stream, including buffered values.
func (e *RLEv1Encoder) Size() int {
	return len(e.Bytes())
}

// Finish returns the buffer to the pool.
func (e *RLEv1Encoder) Finish() {
	if e.buf != nil {
		pool.PutStreamBuffer(e.buf)
		e.buf = nil
	}
}

// RLEv1Decoder decodes an ORC RLE v1 unsigned integer stream.
type RLEv1Decoder struct {
	cur       *stream.Cursor
	remaining int
	repeat    bool
	delta     int64
	value     int64
}

var _ LengthDecoder = (*RLEv1Decoder)(nil)

// NewRLEv1Decoder creates a decoder reading from in.
func NewRLEv1Decoder(in stream.Input) *RLEv1Decoder {
	return &RLEv1Decoder{cur: stream.NewCursor(in)}
}

func (d *RLEv1Decoder) readHeader() error {
	h, err := d.cur.ReadByte()
	if err != nil {
		return streamError(err, "run header")
	}

	if int8(h) < 0 {
		d.repeat = false
		d.remaining = -int(int8(h))

		return nil
	}

	delta, err := d.cur.ReadByte()
	if err != nil {
		return streamError(err, "run delta")
	}
	base, err := readUvarint64(d.cur)
	if err != nil {
		return err
	}
	if base > math.MaxUint32 {
		return fmt.Errorf("%w: run base %d exceeds 32 bits", errs.ErrCorruptLengthStream, base)
	}

	d.repeat = true
	d.remaining = int(h) + rleMinRepeat
	d.delta = int64(int8(delta))
	d.value = int64(base)

	return nil
}

// NextLengths implements LengthDecoder.
func (d *RLEv1Decoder) NextLengths(dst []uint32) error {
	for len(dst) > 0 {
		if d.remaining == 0 {
			if err := d.readHeader(); err != nil {
				return err
			}
		}

		n := min(d.remaining, len(dst))
		if d.repeat {
			for i := range n {
				if d.value < 0 || d.value > math.MaxUint32 {
					return fmt.Errorf("%w: run value %d out of range", errs.ErrCorruptLengthStream, d.value)
				}
				dst[i] = uint32(d.value)
				d.value += d.delta
			}
		} else {
			for i := range n {
				v, err := readUvarint(d.cur)
				if err != nil {
					return err
				}
				dst[i] = v
			}
		}

		d.remaining -= n
		dst = dst[n:]
	}

	return nil
}

// Skip implements LengthDecoder.
func (d *RLEv1Decoder) Skip(n int) error {
	for n > 0 {
		if d.remaining == 0 {
			if err := d.readHeader(); err != nil {
				return err
			}
		}

		k := min(d.remaining, n)
		if d.repeat {
			d.value += d.delta * int64(k)
		} else {
			for range k {
				if _, err := readUvarint64(d.cur); err != nil {
					return err
				}
			}
		}

		d.remaining -= k
		n -= k
	}

	return nil
}
