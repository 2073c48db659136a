package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/arloliu/strcol/endian"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/format"
	"github.com/arloliu/strcol/stream"
)

// LengthEncoder encodes a sequence of value lengths.
type LengthEncoder interface {
	// Write encodes a single length.
	Write(length uint32)

	// WriteSlice encodes a slice of lengths.
	WriteSlice(lengths []uint32)

	// Bytes returns the encoded stream, including any buffered run.
	// The returned slice is valid until the next call to Write, WriteSlice or Finish.
	Bytes() []byte

	// Len returns the number of encoded lengths.
	Len() int

	// Size returns the size in bytes of the encoded stream.
	Size() int

	// Finish returns buffer resources to the pool. The encoder is unusable afterwards.
	Finish()
}

// LengthDecoder produces value lengths from a length stream on demand.
//
// Decoders are not safe for concurrent use.
type LengthDecoder interface {
	// NextLengths fills dst with the next len(dst) lengths.
	//
	// Returns an error wrapping errs.ErrUnexpectedEOF if the stream ends first, or
	// errs.ErrCorruptLengthStream if it cannot be decoded.
	NextLengths(dst []uint32) error

	// Skip discards the next n lengths without returning them.
	//
	// It positions the length stream alone. A caller that also owns the matching data
	// stream needs the lengths to advance it and uses NextLengths instead.
	Skip(n int) error
}

// NewLengthEncoder creates an encoder for enc. engine is used by format.LengthFixed32 only.
func NewLengthEncoder(enc format.LengthEncoding, engine endian.EndianEngine) (LengthEncoder, error) {
	switch enc {
	case format.LengthRLEv1:
		return NewRLEv1Encoder(), nil
	case format.LengthVarint:
		return NewVarintEncoder(), nil
	case format.LengthFixed32:
		return NewFixed32Encoder(engine), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedLengthEncoding, enc)
	}
}

// NewLengthDecoder creates a decoder for enc reading from in.
func NewLengthDecoder(enc format.LengthEncoding, in stream.Input, engine endian.EndianEngine) (LengthDecoder, error) {
	switch enc {
	case format.LengthRLEv1:
		return NewRLEv1Decoder(in), nil
	case format.LengthVarint:
		return NewVarintDecoder(in), nil
	case format.LengthFixed32:
		return NewFixed32Decoder(in, engine), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedLengthEncoding, enc)
	}
}

// readUvarint reads one varint length and maps decoding failures to the errs sentinels.
func readUvarint(r io.ByteReader) (uint32, error) {
	v, err := readUvarint64(r)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: length %d exceeds 32 bits", errs.ErrCorruptLengthStream, v)
	}

	return uint32(v), nil
}

func readUvarint64(r io.ByteReader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return 0, fmt.Errorf("%w: length stream", errs.ErrUnexpectedEOF)
	case errors.Is(err, errs.ErrUnexpectedEOF), errors.Is(err, errs.ErrCorruptChunkHeader):
		return 0, err
	default:
		return 0, fmt.Errorf("%w: %w", errs.ErrCorruptLengthStream, err)
	}
}

func streamError(err error, what string) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: length stream %s", errs.ErrUnexpectedEOF, what)
	}

	return err
}
