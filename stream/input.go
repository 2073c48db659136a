package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/strcol/compress"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/format"
)

// DefaultWindowSize is the window size used when a caller passes a non-positive size.
const DefaultWindowSize = 64 * 1024

// Input is a forward-only source of byte windows.
//
// Implementations are not safe for concurrent use.
type Input interface {
	// Next returns the next window of the stream. The slice is valid until the next call
	// to Next or Skip. Returns io.EOF when the stream is exhausted. Next may return an
	// empty window with a nil error.
	Next() ([]byte, error)

	// Skip discards n bytes following the last window returned by Next.
	//
	// Returns an error wrapping errs.ErrUnexpectedEOF if fewer than n bytes remain.
	Skip(n int64) error
}

// BytesInput hands out windows of an in-memory slice.
type BytesInput struct {
	data   []byte
	pos    int
	window int
}

var _ Input = (*BytesInput)(nil)

// NewBytesInput creates an Input over data that hands out windows of at most window bytes.
func NewBytesInput(data []byte, window int) *BytesInput {
	if window <= 0 {
		window = DefaultWindowSize
	}

	return &BytesInput{data: data, window: window}
}

// Next implements Input.
func (b *BytesInput) Next() ([]byte, error) {
	if b.pos >= len(b.data) {
		return nil, io.EOF
	}

	end := min(b.pos+b.window, len(b.data))
	w := b.data[b.pos:end]
	b.pos = end

	return w, nil
}

// Skip implements Input.
func (b *BytesInput) Skip(n int64) error {
	if n < 0 || n > int64(len(b.data)-b.pos) {
		return fmt.Errorf("%w: skip %d bytes with %d remaining", errs.ErrUnexpectedEOF, n, len(b.data)-b.pos)
	}
	b.pos += int(n)

	return nil
}

// ReaderInput fills windows from an io.Reader into a reused buffer.
type ReaderInput struct {
	r   io.Reader
	buf []byte
}

var _ Input = (*ReaderInput)(nil)

// NewReaderInput creates an Input reading r through a buffer of bufSize bytes.
func NewReaderInput(r io.Reader, bufSize int) *ReaderInput {
	if bufSize <= 0 {
		bufSize = DefaultWindowSize
	}

	return &ReaderInput{r: r, buf: make([]byte, bufSize)}
}

// Next implements Input.
func (ri *ReaderInput) Next() ([]byte, error) {
	n, err := io.ReadAtLeast(ri.r, ri.buf, 1)
	if n > 0 {
		return ri.buf[:n], nil
	}

	return nil, err
}

// Skip implements Input.
//
// Seeking past the end of a seekable reader is not detected here; the next Next
// returns io.EOF instead.
func (ri *ReaderInput) Skip(n int64) error {
	if n == 0 {
		return nil
	}

	if s, ok := ri.r.(io.Seeker); ok {
		if _, err := s.Seek(n, io.SeekCurrent); err != nil {
			return fmt.Errorf("stream: seek %d bytes: %w", n, err)
		}

		return nil
	}

	copied, err := io.CopyN(io.Discard, ri.r, n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: skipped %d of %d bytes", errs.ErrUnexpectedEOF, copied, n)
		}

		return err
	}

	return nil
}

// NewInput creates the Input for a stream encoded with the given compression.
//
// CompressionNone streams are served directly from data; other types are decoded
// chunk by chunk, each decompressed chunk becoming one window.
func NewInput(data []byte, comp format.CompressionType, window int) (Input, error) {
	raw := NewBytesInput(data, window)
	if comp == format.CompressionNone {
		return raw, nil
	}

	codec, err := compress.GetCodec(comp)
	if err != nil {
		return nil, err
	}

	return NewCompressedInput(raw, codec), nil
}
