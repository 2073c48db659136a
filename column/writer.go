package column

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/strcol/encoding"
	"github.com/arloliu/strcol/endian"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/format"
	"github.com/arloliu/strcol/internal/options"
	"github.com/arloliu/strcol/stream"
)

// Streams is an encoded string column: the length and data streams plus the metadata
// needed to open a Reader over them.
type Streams struct {
	Lengths        []byte
	Data           []byte
	Nulls          *bitset.BitSet
	RowCount       int64
	LengthEncoding format.LengthEncoding
	Compression    format.CompressionType
	BigEndian      bool
}

// NullCount returns the number of null rows.
func (s *Streams) NullCount() int {
	if s.Nulls == nil {
		return 0
	}

	return int(s.Nulls.Count())
}

// Writer encodes a string column into Streams.
//
// Null rows get a bit in the null bitmap and neither a length nor data bytes.
type Writer struct {
	cfg      *WriterConfig
	lengths  encoding.LengthEncoder
	data     *stream.Writer
	nulls    *bitset.BitSet
	rows     int64
	finished bool
}

// NewWriter creates a column Writer.
//
// Parameters:
//   - opts: Optional configuration (see WriterOption)
//
// Returns:
//   - *Writer: New writer with no rows
//   - error: Invalid option value or unsupported length encoding or compression
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg := defaultWriterConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	lengths, err := encoding.NewLengthEncoder(cfg.lengthEncoding, cfg.engine)
	if err != nil {
		return nil, err
	}

	data, err := stream.NewWriter(cfg.compression, cfg.chunkSize)
	if err != nil {
		lengths.Finish()
		return nil, err
	}

	return &Writer{cfg: cfg, lengths: lengths, data: data}, nil
}

// Append adds a value. The bytes are copied; value may be reused after the call.
//
// Returns:
//   - error: errs.ErrWriterFinished after Finish, errs.ErrValueTooLarge above 2^32-1
//     bytes, or a compression error
func (w *Writer) Append(value []byte) error {
	if w.finished {
		return errs.ErrWriterFinished
	}
	if uint64(len(value)) > uint64(^uint32(0)) {
		return fmt.Errorf("%w: value of %d bytes at row %d", errs.ErrValueTooLarge, len(value), w.rows)
	}

	w.lengths.Write(uint32(len(value)))
	if _, err := w.data.Write(value); err != nil {
		return fmt.Errorf("write row %d: %w", w.rows, err)
	}
	w.rows++

	return nil
}

// AppendString adds a value given as a string.
func (w *Writer) AppendString(value string) error {
	return w.Append([]byte(value))
}

// AppendNull adds a null row.
func (w *Writer) AppendNull() error {
	if w.finished {
		return errs.ErrWriterFinished
	}

	if w.nulls == nil {
		w.nulls = bitset.New(uint(w.rows + 1))
	}
	w.nulls.Set(uint(w.rows))
	w.rows++

	return nil
}

// Rows returns the number of rows appended so far.
func (w *Writer) Rows() int64 {
	return w.rows
}

// Finish completes both streams. The Writer must not be used afterwards.
//
// Returns:
//   - *Streams: The encoded column, ready for OpenReader
//   - error: errs.ErrWriterFinished on a second call, or a compression error
func (w *Writer) Finish() (*Streams, error) {
	if w.finished {
		return nil, errs.ErrWriterFinished
	}
	w.finished = true
	defer w.lengths.Finish()

	data, err := w.data.Finish()
	if err != nil {
		return nil, fmt.Errorf("finish data stream: %w", err)
	}

	lw, err := stream.NewWriter(w.cfg.compression, w.cfg.chunkSize)
	if err != nil {
		return nil, err
	}
	if _, err := lw.Write(w.lengths.Bytes()); err != nil {
		return nil, fmt.Errorf("write length stream: %w", err)
	}
	lengths, err := lw.Finish()
	if err != nil {
		return nil, fmt.Errorf("finish length stream: %w", err)
	}

	return &Streams{
		Lengths:        lengths,
		Data:           data,
		Nulls:          w.nulls,
		RowCount:       w.rows,
		LengthEncoding: w.cfg.lengthEncoding,
		Compression:    w.cfg.compression,
		BigEndian:      w.cfg.engine == endian.GetBigEndianEngine(),
	}, nil
}

// OpenReader creates a Reader over encoded streams. The null bitmap and row count of s
// are applied before opts, so opts may override them.
//
// Parameters:
//   - s: Encoded column, typically from Writer.Finish
//   - opts: Optional reader configuration (see ReaderOption)
//
// Returns:
//   - *Reader: New reader positioned at row 0
//   - error: errs.ErrInvalidOption for nil s or a bad option, or an unsupported
//     compression or length encoding
func OpenReader(s *Streams, opts ...ReaderOption) (*Reader, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil streams", errs.ErrInvalidOption)
	}

	cfg := defaultReaderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	lengthsIn, err := stream.NewInput(s.Lengths, s.Compression, cfg.windowSize)
	if err != nil {
		return nil, err
	}
	dataIn, err := stream.NewInput(s.Data, s.Compression, cfg.windowSize)
	if err != nil {
		return nil, err
	}

	engine := endian.GetLittleEndianEngine()
	if s.BigEndian {
		engine = endian.GetBigEndianEngine()
	}
	lengths, err := encoding.NewLengthDecoder(s.LengthEncoding, lengthsIn, engine)
	if err != nil {
		return nil, err
	}

	var base []ReaderOption
	if s.Nulls != nil {
		base = append(base, WithNulls(s.Nulls))
	}
	if s.RowCount > 0 {
		base = append(base, WithRowCount(s.RowCount))
	}

	return NewReader(lengths, dataIn, options.Prepend(opts, base...)...)
}
