package stream

import (
	"fmt"

	"github.com/arloliu/strcol/compress"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/format"
	"github.com/arloliu/strcol/internal/pool"
)

// DefaultChunkSize is the uncompressed chunk size used by NewWriter when none is given.
const DefaultChunkSize = 256 * 1024

// Writer produces a stream in the framing NewInput understands.
//
// The zero value is not usable; create one with NewWriter. A Writer is not safe for
// concurrent use.
type Writer struct {
	codec     compress.Compressor
	framed    bool
	chunkSize int
	pending   []byte
	out       *pool.ByteBuffer
}

// NewWriter creates a Writer for the given compression type.
//
// chunkSize bounds the uncompressed size of each chunk; non-positive values select
// DefaultChunkSize. Returns errs.ErrInvalidOption for sizes a header cannot describe.
func NewWriter(comp format.CompressionType, chunkSize int) (*Writer, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize > MaxChunkSize {
		return nil, fmt.Errorf("%w: chunk size %d exceeds %d", errs.ErrInvalidOption, chunkSize, MaxChunkSize)
	}

	w := &Writer{
		framed:    comp != format.CompressionNone,
		chunkSize: chunkSize,
		out:       pool.GetStreamBuffer(),
	}
	if w.framed {
		codec, err := compress.CreateCodec(comp, "stream writer")
		if err != nil {
			pool.PutStreamBuffer(w.out)
			return nil, err
		}
		w.codec = codec
	}

	return w, nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if !w.framed {
		w.out.MustWrite(p)
		return len(p), nil
	}

	total := len(p)
	for len(p) > 0 {
		n := min(w.chunkSize-len(w.pending), len(p))
		w.pending = append(w.pending, p[:n]...)
		p = p[n:]

		if len(w.pending) == w.chunkSize {
			if err := w.flushChunk(); err != nil {
				return total - len(p), err
			}
		}
	}

	return total, nil
}

// Flush emits the buffered partial chunk, if any.
func (w *Writer) Flush() error {
	if !w.framed || len(w.pending) == 0 {
		return nil
	}

	return w.flushChunk()
}

func (w *Writer) flushChunk() error {
	chunk := w.pending
	compressed, err := w.codec.Compress(chunk)
	if err != nil {
		return fmt.Errorf("stream: compress chunk of %d bytes: %w", len(chunk), err)
	}

	// Codecs may report an incompressible chunk as empty output.
	original := len(compressed) == 0 || len(compressed) >= len(chunk)
	body := compressed
	if original {
		body = chunk
	}

	hdr := uint32(len(body)) << 1
	if original {
		hdr |= 1
	}
	w.out.MustWrite([]byte{byte(hdr), byte(hdr >> 8), byte(hdr >> 16)})
	w.out.MustWrite(body)
	w.pending = w.pending[:0]

	return nil
}

// Len returns the number of framed bytes produced so far, excluding the pending chunk.
func (w *Writer) Len() int {
	return w.out.Len()
}

// Finish flushes the pending chunk and returns the complete stream.
//
// The Writer releases its buffer and must not be used afterwards.
func (w *Writer) Finish() ([]byte, error) {
	if err := w.Flush(); err != nil {
		return nil, err
	}

	data := make([]byte, w.out.Len())
	copy(data, w.out.Bytes())
	pool.PutStreamBuffer(w.out)
	w.out = nil

	return data, nil
}
