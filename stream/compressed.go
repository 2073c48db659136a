package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/strcol/compress"
	"github.com/arloliu/strcol/errs"
)

const (
	// ChunkHeaderSize is the size of a compressed chunk header in bytes.
	ChunkHeaderSize = 3
	// MaxChunkSize is the largest chunk length a header can describe.
	MaxChunkSize = compress.MaxChunkSize
)

// CompressedInput decodes chunk framing over a raw Input.
//
// Decompressed chunks share one buffer, so a window returned by Next is valid only
// until the following call to Next or Skip.
type CompressedInput struct {
	raw     *Cursor
	codec   compress.Decompressor
	scratch []byte
	out     []byte
	pending []byte
}

var _ Input = (*CompressedInput)(nil)

// NewCompressedInput creates an Input that decodes the chunks of raw with codec.
func NewCompressedInput(raw Input, codec compress.Decompressor) *CompressedInput {
	return &CompressedInput{raw: NewCursor(raw), codec: codec}
}

// readHeader returns the next chunk header. io.EOF means a clean end between chunks.
func (ci *CompressedInput) readHeader() (int, bool, error) {
	if err := ci.raw.fill(); err != nil {
		return 0, false, err
	}

	var hdr [ChunkHeaderSize]byte
	if err := ci.raw.ReadBytes(hdr[:]); err != nil {
		return 0, false, fmt.Errorf("%w: truncated header", errs.ErrCorruptChunkHeader)
	}

	v := uint32(hdr[0]) | uint32(hdr[1])<<8 | uint32(hdr[2])<<16

	return int(v >> 1), v&1 == 1, nil
}

// chunkBytes returns the next n raw bytes, without copying when they are resident.
func (ci *CompressedInput) chunkBytes(n int) ([]byte, error) {
	if w := ci.raw.Window(); len(w) >= n {
		ci.raw.Advance(n)
		return w[:n], nil
	}

	if cap(ci.scratch) < n {
		ci.scratch = make([]byte, n)
	}
	buf := ci.scratch[:n]
	if err := ci.raw.ReadBytes(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// Next implements Input.
func (ci *CompressedInput) Next() ([]byte, error) {
	if len(ci.pending) > 0 {
		w := ci.pending
		ci.pending = nil

		return w, nil
	}

	n, original, err := ci.readHeader()
	if err != nil {
		return nil, err
	}

	chunk, err := ci.chunkBytes(n)
	if err != nil {
		return nil, err
	}
	if original {
		return chunk, nil
	}

	return ci.decompress(chunk)
}

// Skip implements Input. Original chunks that fall entirely inside the skipped range
// are skipped without being read.
func (ci *CompressedInput) Skip(n int64) error {
	if n <= int64(len(ci.pending)) {
		ci.pending = ci.pending[n:]
		return nil
	}
	n -= int64(len(ci.pending))
	ci.pending = nil

	for n > 0 {
		size, original, err := ci.readHeader()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %d bytes left to skip", errs.ErrUnexpectedEOF, n)
			}

			return err
		}

		if original && int64(size) <= n {
			if err := ci.raw.Skip(int64(size)); err != nil {
				return err
			}
			n -= int64(size)

			continue
		}

		chunk, err := ci.chunkBytes(size)
		if err != nil {
			return err
		}
		if !original {
			if chunk, err = ci.decompress(chunk); err != nil {
				return err
			}
		}

		if int64(len(chunk)) > n {
			ci.pending = chunk[n:]
			return nil
		}
		n -= int64(len(chunk))
	}

	return nil
}

func (ci *CompressedInput) decompress(chunk []byte) ([]byte, error) {
	out, err := ci.codec.Decompress(ci.out, chunk)
	if err != nil {
		return nil, fmt.Errorf("stream: decompress chunk of %d bytes: %w", len(chunk), err)
	}
	if cap(out) > cap(ci.out) {
		ci.out = out[:0]
	}

	return out, nil
}
