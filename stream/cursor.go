package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/strcol/errs"
)

// Cursor tracks the unconsumed part of the current window of an Input.
//
// The window returned by Window always starts at the first unconsumed byte.
type Cursor struct {
	in       Input
	buf      []byte
	position int64
}

var _ io.ByteReader = (*Cursor)(nil)

// NewCursor creates a Cursor positioned at the start of in.
func NewCursor(in Input) *Cursor {
	return &Cursor{in: in}
}

// Window returns the resident unconsumed bytes. It may be empty.
func (c *Cursor) Window() []byte {
	return c.buf
}

// Position returns the number of bytes consumed since the cursor was created.
func (c *Cursor) Position() int64 {
	return c.position
}

// Advance consumes n resident bytes.
func (c *Cursor) Advance(n int) {
	if n > len(c.buf) {
		panic(fmt.Sprintf("strcol: invariant violated: advance %d bytes past window of %d", n, len(c.buf)))
	}
	c.buf = c.buf[n:]
	c.position += int64(n)
}

// fill loads windows until one is non-empty, returning io.EOF at the end of the stream.
func (c *Cursor) fill() error {
	for len(c.buf) == 0 {
		w, err := c.in.Next()
		if err != nil {
			return err
		}
		c.buf = w
	}

	return nil
}

// Refill loads the next non-empty window when the current one is exhausted.
//
// Returns an error wrapping errs.ErrUnexpectedEOF at the end of the stream.
func (c *Cursor) Refill() error {
	if err := c.fill(); err != nil {
		return eofError(err, "refill")
	}

	return nil
}

// Skip consumes n bytes. Bytes beyond the resident window are skipped in the
// underlying Input with a single call.
func (c *Cursor) Skip(n int64) error {
	if n <= int64(len(c.buf)) {
		c.Advance(int(n))
		return nil
	}

	rest := n - int64(len(c.buf))
	c.position += int64(len(c.buf))
	c.buf = nil

	if err := c.in.Skip(rest); err != nil {
		return err
	}
	c.position += rest

	return nil
}

// ReadBytes fills dst with the next len(dst) bytes, loading windows as needed.
func (c *Cursor) ReadBytes(dst []byte) error {
	for len(dst) > 0 {
		if len(c.buf) == 0 {
			if err := c.fill(); err != nil {
				return eofError(err, "read")
			}
		}

		n := copy(dst, c.buf)
		c.Advance(n)
		dst = dst[n:]
	}

	return nil
}

// ReadByte implements io.ByteReader. Returns io.EOF at a clean end of the stream.
func (c *Cursor) ReadByte() (byte, error) {
	if len(c.buf) == 0 {
		if err := c.fill(); err != nil {
			return 0, err
		}
	}

	b := c.buf[0]
	c.Advance(1)

	return b, nil
}

func eofError(err error, op string) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s past end of stream", errs.ErrUnexpectedEOF, op)
	}

	return err
}
