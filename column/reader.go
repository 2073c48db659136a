package column

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/strcol/encoding"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/filter"
	"github.com/arloliu/strcol/internal/cpu"
	"github.com/arloliu/strcol/internal/options"
	"github.com/arloliu/strcol/internal/pool"
	"github.com/arloliu/strcol/rowset"
	"github.com/arloliu/strcol/stream"
)

// skipChunk bounds the lengths decoded at once by Skip.
const skipChunk = 4096

// Reader decodes a direct-encoded string column selectively.
//
// Reads must be issued in increasing row order: each Read starts at or after the row
// where the previous one ended. A Reader is not safe for concurrent use.
type Reader struct {
	cfg        *ReaderConfig
	logger     *slog.Logger
	lengthsIn  encoding.LengthDecoder
	cur        *stream.Cursor
	batch      bool
	kernel     smallKernel
	kernelName string
	vector     StringVector
	visitor    visitor
	outputRows []int32
	readOffset int64
	stats      Stats
	err        error
	closed     bool

	// Per-read decode state.
	lengths     []uint32
	lengthIndex int
	bytesToSkip int64
	temp        []byte
	rangeNulls  *bitset.BitSet
	hasNulls    bool
	mapping     rowset.Mapping
	scatter     bool
}

// NewReader creates a Reader over a length decoder and the data stream of one column.
//
// The batch extractor and its kernel are chosen here from the fast path option and the
// active ISA; reads never re-probe the CPU.
//
// Parameters:
//   - lengths: Decoder of the column's length stream, one entry per non-null row
//   - data: The column's data stream, the values back to back
//   - opts: Optional configuration (see ReaderOption)
//
// Returns:
//   - *Reader: New reader positioned at row 0
//   - error: Invalid option value
func NewReader(lengths encoding.LengthDecoder, data stream.Input, opts ...ReaderOption) (*Reader, error) {
	cfg := defaultReaderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	r := &Reader{
		cfg:       cfg,
		logger:    cfg.logger,
		lengthsIn: lengths,
		cur:       stream.NewCursor(data),
	}
	r.vector.arena = newArena(cfg.arenaCapacity)

	switch cfg.fastPath {
	case FastPathAuto:
		r.batch = cpu.BatchSupported()
	case FastPathForce:
		r.batch = true
	case FastPathDisabled:
		r.batch = false
	}
	r.kernel, r.kernelName = selectKernel(cpu.ActiveISA())

	r.logger.Debug("string column reader created",
		"isa", cpu.ActiveISA().String(),
		"isa_overridden", cpu.IsOverridden(),
		"fast_path", cfg.fastPath.String(),
		"batch", r.batch,
		"kernel", r.kernelName,
		"filter", filterName(cfg.filter),
	)

	return r, nil
}

func filterName(f filter.Filter) string {
	if f == nil {
		return "none"
	}

	return f.Kind().String()
}

// Vector returns the output of the last Read.
func (r *Reader) Vector() *StringVector {
	return &r.vector
}

// OutputRows returns the rows of the last Read that produced an output position, in
// output order. Without a filter these are the requested rows.
func (r *Reader) OutputRows() []int32 {
	return r.outputRows
}

// Position returns the next row to be read.
func (r *Reader) Position() int64 {
	return r.readOffset
}

// BlobPosition returns the number of data stream bytes consumed, including skips
// that are accounted for but not yet applied to the stream.
func (r *Reader) BlobPosition() int64 {
	return r.cur.Position() + r.bytesToSkip
}

// Stats returns the reader counters.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Close releases the arena. The vector of the last read becomes invalid.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true
	r.vector.arena.release()
	r.vector.views = nil
	r.lengths = nil
	r.temp = nil

	return nil
}

func (r *Reader) usable() error {
	if r.closed {
		return errs.ErrReaderClosed
	}

	return r.err
}

// Skip passes over the next n rows without decoding them and returns the number of rows
// skipped, fewer than n only when the row count is known and the column ends first.
//
// The lengths of the skipped rows are summed and the data stream is advanced with a
// single skip.
//
// Parameters:
//   - n: Number of rows to pass over, nulls included
//
// Returns:
//   - int64: Rows actually skipped
//   - error: errs.ErrRowOutOfRange for negative n, a stream error, or the reader's
//     earlier error
func (r *Reader) Skip(n int64) (int64, error) {
	if err := r.usable(); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: skip %d rows", errs.ErrRowOutOfRange, n)
	}
	if r.cfg.rowCount > 0 {
		n = min(n, r.cfg.rowCount-r.readOffset)
	}

	if err := r.skip(n); err != nil {
		r.err = err
		return 0, err
	}

	return n, nil
}

func (r *Reader) skip(n int64) error {
	nonNull := n
	if r.cfg.nulls != nil {
		nonNull -= int64(rowset.CountNulls(r.cfg.nulls, int(r.readOffset), int(r.readOffset+n)))
	}

	for nonNull > 0 {
		k := int(min(nonNull, skipChunk))
		r.lengths = pool.Ensure(r.lengths, k)
		if err := r.lengthsIn.NextLengths(r.lengths); err != nil {
			return fmt.Errorf("skip %d rows at %d: %w", n, r.readOffset, err)
		}
		for _, l := range r.lengths {
			r.bytesToSkip += int64(l)
		}
		nonNull -= int64(k)
	}
	r.lengths = r.lengths[:0]
	r.lengthIndex = 0

	if err := r.flushSkip(); err != nil {
		return err
	}

	r.readOffset += n
	r.stats.SkippedRows += n

	return nil
}

// Read decodes the selected rows of the batch starting at row offset.
//
// rows are relative to offset; the batch spans rows.Last()+1 rows, all of which are
// consumed from the streams. offset may be ahead of the reader position, in which case
// the rows in between are skipped. incomingNulls, relative to offset, marks additional
// null rows; like column nulls they have no entry in the length stream.
//
// On error the read is abandoned and the reader keeps returning the error.
//
// Parameters:
//   - offset: First row of the batch, at or after Position()
//   - rows: Selected rows relative to offset, strictly increasing
//   - incomingNulls: Extra null rows relative to offset, or nil
//
// Returns:
//   - error: errs.ErrInvalidRowSet, errs.ErrBackwardRead, errs.ErrRowOutOfRange, or a
//     stream error wrapping errs.ErrUnexpectedEOF or errs.ErrCorruptLengthStream
func (r *Reader) Read(offset int64, rows rowset.RowSet, incomingNulls *bitset.BitSet) error {
	if err := r.usable(); err != nil {
		return err
	}
	if err := rows.Validate(); err != nil {
		return err
	}
	if offset < r.readOffset {
		return fmt.Errorf("%w: offset %d, reader at %d", errs.ErrBackwardRead, offset, r.readOffset)
	}

	numRows := rows.NumRows()
	if r.cfg.rowCount > 0 && offset+int64(numRows) > r.cfg.rowCount {
		return fmt.Errorf("%w: rows [%d, %d) of %d", errs.ErrRowOutOfRange, offset, offset+int64(numRows), r.cfg.rowCount)
	}

	if offset > r.readOffset {
		if err := r.skip(offset - r.readOffset); err != nil {
			r.err = err
			return err
		}
	}

	if err := r.read(rows, incomingNulls); err != nil {
		r.err = err
		return err
	}

	return nil
}

func (r *Reader) read(rows rowset.RowSet, incomingNulls *bitset.BitSet) error {
	numRows := rows.NumRows()
	numNulls := r.prepareNulls(numRows, incomingNulls)

	r.lengths = pool.Ensure(r.lengths, numRows-numNulls)
	if err := r.lengthsIn.NextLengths(r.lengths); err != nil {
		return fmt.Errorf("read lengths of rows [%d, %d): %w", r.readOffset, r.readOffset+int64(numRows), err)
	}
	r.lengthIndex = 0

	r.vector.reset()
	r.vector.arena.reset()
	r.outputRows = r.outputRows[:0]

	bulk := r.batch && filter.IsAlwaysTrue(r.cfg.filter) && r.cfg.hook == nil
	var err error
	if bulk {
		err = r.readBulk(rows)
	} else {
		err = r.readWithVisitor(rows)
	}
	if err != nil {
		return fmt.Errorf("read rows [%d, %d): %w", r.readOffset, r.readOffset+int64(numRows), err)
	}

	// rows after the last materialized value still own bytes in the data stream
	r.skipInDecode(len(r.lengths) - r.lengthIndex)

	if r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug("string column read",
			"offset", r.readOffset,
			"rows", len(rows),
			"span", numRows,
			"nulls", numNulls,
			"bulk", bulk,
			"outputs", r.vector.Len(),
			"arena_bytes", r.vector.arena.Len(),
		)
	}

	r.readOffset += int64(numRows)
	r.stats.Reads++

	return nil
}

// prepareNulls collects the nulls of the read range and returns their count.
func (r *Reader) prepareNulls(numRows int, incomingNulls *bitset.BitSet) int {
	r.hasNulls = false
	if r.cfg.nulls == nil && incomingNulls == nil {
		return 0
	}

	if r.rangeNulls == nil {
		r.rangeNulls = bitset.New(uint(numRows))
	} else {
		r.rangeNulls.ClearAll()
	}

	if r.cfg.nulls != nil {
		base := uint(r.readOffset)
		end := base + uint(numRows)
		for i, ok := r.cfg.nulls.NextSet(base); ok && i < end; i, ok = r.cfg.nulls.NextSet(i + 1) {
			r.rangeNulls.Set(i - base)
		}
	}
	if incomingNulls != nil {
		for i, ok := incomingNulls.NextSet(0); ok && i < uint(numRows); i, ok = incomingNulls.NextSet(i + 1) {
			r.rangeNulls.Set(i)
		}
	}

	count := int(r.rangeNulls.Count())
	r.hasNulls = count > 0

	return count
}

// readBulk extracts every selected row without a filter, scattering around nulls.
func (r *Reader) readBulk(rows rowset.RowSet) error {
	if !r.hasNulls {
		r.scatter = false
		if err := r.extractSparse(rows); err != nil {
			return err
		}
	} else {
		if rows.IsDense() {
			rowset.NonNullRowsFromDense(r.rangeNulls, len(rows), &r.mapping)
			r.vector.copyNulls(r.rangeNulls, len(rows))
		} else {
			rowset.NonNullRowsFromSparse(r.rangeNulls, rows, &r.mapping, r.vector.nullBits(len(rows)))
		}

		r.scatter = true
		r.vector.resize(len(rows))
		if err := r.extractSparse(r.mapping.Inner); err != nil {
			return err
		}
	}

	r.outputRows = append(r.outputRows, rows...)

	return nil
}

// skipInDecode accounts the next n lengths as bytes owed to the data stream.
func (r *Reader) skipInDecode(n int) {
	for _, l := range r.lengths[r.lengthIndex : r.lengthIndex+n] {
		r.bytesToSkip += int64(l)
	}
	r.lengthIndex += n
}

// skipRows accounts the non-null rows among [current, current+n).
func (r *Reader) skipRows(n, current int, nulls *bitset.BitSet) {
	if nulls != nil {
		n -= rowset.CountNulls(nulls, current, current+n)
	}
	r.skipInDecode(n)
}

// flushSkip applies the owed bytes to the data stream.
func (r *Reader) flushSkip() error {
	if r.bytesToSkip == 0 {
		return nil
	}

	if err := r.cur.Skip(r.bytesToSkip); err != nil {
		return fmt.Errorf("skip %d data bytes: %w", r.bytesToSkip, err)
	}
	r.bytesToSkip = 0

	return nil
}
