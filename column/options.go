package column

import (
	"fmt"
	"log/slog"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/strcol/endian"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/filter"
	"github.com/arloliu/strcol/format"
	"github.com/arloliu/strcol/internal/options"
	"github.com/arloliu/strcol/internal/pool"
	"github.com/arloliu/strcol/stream"
)

// FastPath controls whether unfiltered reads may use the batch extractor.
type FastPath uint8

const (
	// FastPathAuto uses the batch extractor unless the active ISA is generic.
	FastPathAuto FastPath = iota
	// FastPathForce uses the batch extractor with the portable kernel on any CPU.
	FastPathForce
	// FastPathDisabled routes every read through the row-by-row visitor.
	FastPathDisabled
)

func (f FastPath) String() string {
	switch f {
	case FastPathAuto:
		return "auto"
	case FastPathForce:
		return "force"
	case FastPathDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ValueHook receives decoded rows instead of the reader's vector.
//
// Rows are numbered relative to the offset of the read. The value slice is only valid
// during the call.
type ValueHook interface {
	AddValue(row int32, value []byte)
	AddNull(row int32)
}

// ReaderConfig holds the configuration of a Reader.
type ReaderConfig struct {
	logger        *slog.Logger
	fastPath      FastPath
	arenaCapacity int
	nulls         *bitset.BitSet
	rowCount      int64
	filter        filter.Filter
	hook          ValueHook
	windowSize    int
}

func defaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{
		logger:        slog.New(slog.DiscardHandler),
		arenaCapacity: pool.ArenaBufferDefaultSize,
		windowSize:    stream.DefaultWindowSize,
	}
}

// ReaderOption is a functional option for configuring a Reader.
type ReaderOption = options.Option[*ReaderConfig]

// WithLogger sets the logger. Reads are logged at debug level only.
func WithLogger(logger *slog.Logger) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", errs.ErrInvalidOption)
		}
		c.logger = logger

		return nil
	})
}

// WithFastPath selects when the batch extractor is used. Default is FastPathAuto.
func WithFastPath(mode FastPath) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if mode > FastPathDisabled {
			return fmt.Errorf("%w: fast path mode %d", errs.ErrInvalidOption, mode)
		}
		c.fastPath = mode

		return nil
	})
}

// WithArenaCapacity sets the initial arena capacity in bytes.
//
// The batch extractor declines blocks that do not fit the remaining capacity; the
// scalar path grows the arena, so a small capacity costs speed, never correctness.
func WithArenaCapacity(n int) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: arena capacity %d", errs.ErrInvalidOption, n)
		}
		c.arenaCapacity = n

		return nil
	})
}

// WithNulls sets the column's null bitmap, one bit per row from the start of the
// column, 1 meaning null. Null rows have no entry in the length stream.
func WithNulls(nulls *bitset.BitSet) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.nulls = nulls
	})
}

// WithRowCount sets the number of rows in the column. Reads and skips past it fail
// with errs.ErrRowOutOfRange. Zero means unknown.
func WithRowCount(n int64) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: row count %d", errs.ErrInvalidOption, n)
		}
		c.rowCount = n

		return nil
	})
}

// WithFilter sets the filter applied to every read. Only passing rows are written
// to the vector; Reader.OutputRows lists them.
func WithFilter(f filter.Filter) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.filter = f
	})
}

// WithValueHook delivers rows to hook instead of the vector.
func WithValueHook(hook ValueHook) ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.hook = hook
	})
}

// WithWindowSize sets the window size of the in-memory streams OpenReader creates.
func WithWindowSize(n int) ReaderOption {
	return options.New(func(c *ReaderConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: window size %d", errs.ErrInvalidOption, n)
		}
		c.windowSize = n

		return nil
	})
}

// WriterConfig holds the configuration of a Writer.
type WriterConfig struct {
	lengthEncoding format.LengthEncoding
	compression    format.CompressionType
	chunkSize      int
	engine         endian.EndianEngine
}

func defaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		lengthEncoding: format.LengthRLEv1,
		compression:    format.CompressionNone,
		chunkSize:      stream.DefaultChunkSize,
		engine:         endian.GetLittleEndianEngine(),
	}
}

// WriterOption is a functional option for configuring a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithLengthEncoding sets the length stream encoding. Default is format.LengthRLEv1.
func WithLengthEncoding(enc format.LengthEncoding) WriterOption {
	return options.New(func(c *WriterConfig) error {
		switch enc {
		case format.LengthRLEv1, format.LengthVarint, format.LengthFixed32:
			c.lengthEncoding = enc
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedLengthEncoding, enc)
		}
	})
}

// WithCompression sets the compression of both streams. Default is format.CompressionNone.
func WithCompression(comp format.CompressionType) WriterOption {
	return options.New(func(c *WriterConfig) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = comp
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, comp)
		}
	})
}

// WithChunkSize sets the uncompressed size of compressed chunks.
func WithChunkSize(n int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if n <= 0 || n > stream.MaxChunkSize {
			return fmt.Errorf("%w: chunk size %d", errs.ErrInvalidOption, n)
		}
		c.chunkSize = n

		return nil
	})
}

// WithLittleEndian writes fixed-width lengths in little-endian order. This is the default.
func WithLittleEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian writes fixed-width lengths in big-endian order.
func WithBigEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.engine = endian.GetBigEndianEngine()
	})
}
