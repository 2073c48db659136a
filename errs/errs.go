// Package errs defines the sentinel errors returned by strcol packages.
//
// Errors are wrapped with additional context using fmt.Errorf and %w, so callers
// should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrUnexpectedEOF) {
//	    // stream shorter than the declared batch
//	}
package errs

import "errors"

var (
	// ErrUnexpectedEOF is returned when a length or blob stream ends before the requested data.
	ErrUnexpectedEOF = errors.New("unexpected end of stream")
	// ErrCorruptLengthStream is returned when the length stream cannot be decoded.
	ErrCorruptLengthStream = errors.New("corrupt length stream")
	// ErrCorruptChunkHeader is returned when a compressed chunk header is malformed.
	ErrCorruptChunkHeader = errors.New("corrupt compressed chunk header")
	// ErrUnsupportedCompression is returned for an unknown compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	// ErrUnsupportedLengthEncoding is returned for an unknown length encoding.
	ErrUnsupportedLengthEncoding = errors.New("unsupported length encoding")

	// ErrInvalidRowSet is returned when a row selection is empty or not strictly increasing.
	ErrInvalidRowSet = errors.New("invalid row set")
	// ErrBackwardRead is returned when a read starts before the current reader position.
	ErrBackwardRead = errors.New("read offset is behind reader position")
	// ErrRowOutOfRange is returned when a read or skip goes past the known row count.
	ErrRowOutOfRange = errors.New("row out of range")
	// ErrInvalidOption is returned when a configuration option has an invalid value.
	ErrInvalidOption = errors.New("invalid option")
	// ErrReaderClosed is returned when a closed reader is used.
	ErrReaderClosed = errors.New("reader is closed")
	// ErrWriterFinished is returned when a finished writer is used.
	ErrWriterFinished = errors.New("writer is finished")
	// ErrValueTooLarge is returned when a value length does not fit the length stream.
	ErrValueTooLarge = errors.New("value too large")
)
