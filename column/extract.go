package column

import (
	"errors"

	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/internal/pool"
	"github.com/arloliu/strcol/rowset"
)

// extractSparse decodes the values whose length indexes are listed in rows, in blocks
// of eight. Consecutive blocks are offered to the batch extractor with their gap as a
// byte offset; other blocks go through extractNSparse.
func (r *Reader) extractSparse(rows []int32) error {
	n := len(rows)
	i := 0
	for ; i+batchSize <= n; i += batchSize {
		var err error
		if rowset.RowSet(rows).IsDenseBlock(i, batchSize) {
			err = r.extractDenseBlock(rows, i)
		} else {
			err = r.extractNSparse(rows, i, batchSize)
		}
		if err != nil {
			return err
		}
	}

	if i < n {
		return r.extractNSparse(rows, i, n-i)
	}

	return nil
}

func (r *Reader) extractDenseBlock(rows []int32, row int) error {
	if err := r.loadWindow(); err != nil {
		return err
	}

	start := r.rangeSum(0, r.lengthIndex, int(rows[row]))
	r.lengthIndex = int(rows[row])
	if r.try8Consecutive(start, rows, row, false) {
		return nil
	}

	lengths := r.lengths[r.lengthIndex : r.lengthIndex+batchSize]
	var starts [batchSize]int64
	for k, l := range lengths {
		starts[k] = start
		start += int64(l)
	}
	r.lengthIndex += batchSize
	r.stats.FallbackBlocks++

	return r.extractCrossBuffers(lengths, starts[:], row)
}

func (r *Reader) extractNSparse(rows []int32, row, n int) error {
	if n == batchSize {
		if err := r.loadWindow(); err != nil {
			return err
		}
		if r.try8Consecutive(0, rows, row, true) {
			return nil
		}
	}

	var lengths [batchSize]uint32
	var starts [batchSize]int64
	for k := range n {
		lengths[k] = r.lengths[rows[row+k]]
	}
	r.makeSparseStarts(rows, row, n, starts[:])

	if err := r.extractCrossBuffers(lengths[:n], starts[:n], row); err != nil {
		return err
	}
	r.lengthIndex = int(rows[row+n-1]) + 1
	r.stats.FallbackBlocks++

	return nil
}

// rangeSum adds the lengths at indexes [begin, end) to start.
func (r *Reader) rangeSum(start int64, begin, end int) int64 {
	for _, l := range r.lengths[begin:end] {
		start += int64(l)
	}

	return start
}

// makeSparseStarts computes the byte offset of each of the n values listed from
// rows[row], relative to the value at lengthIndex. Unselected values in between count
// toward the offsets.
func (r *Reader) makeSparseStarts(rows []int32, row, n int, starts []int64) {
	previous := r.lengthIndex
	var offset int64
	for k := range n {
		target := int(rows[row+k])
		offset = r.rangeSum(offset, previous, target)
		starts[k] = offset
		previous = target + 1
		offset += int64(r.lengths[target])
	}
}

// extractCrossBuffers decodes values one at a time given their lengths and start
// offsets. Gaps between values are owed to the stream and skipped in one call at the end.
func (r *Reader) extractCrossBuffers(lengths []uint32, starts []int64, row int) error {
	var current int64
	for k, size := range lengths {
		gap := starts[k] - current
		r.bytesToSkip += gap

		value, err := r.readValue(int(size))
		if err != nil {
			return err
		}
		current += int64(size) + gap

		if !r.scatter {
			r.vector.appendBytes(value)
		} else {
			r.vector.views[r.mapping.Outer[row+k]] = r.vector.makeView(value)
		}
	}

	return r.flushSkip()
}

// readValue returns the next length bytes of the data stream.
//
// A value inside the current window is returned in place and its bytes are owed until
// the next stream operation; otherwise it is copied out across window refills. The
// result is valid until the next call.
func (r *Reader) readValue(length int) ([]byte, error) {
	if err := r.flushSkip(); err != nil {
		return nil, err
	}

	w := r.cur.Window()
	if len(w) == 0 && length > 0 {
		if err := r.cur.Refill(); err != nil {
			return nil, err
		}
		w = r.cur.Window()
	}

	if len(w) >= length {
		r.bytesToSkip = int64(length)
		return w[:length], nil
	}

	r.temp = pool.Ensure(r.temp, length)
	if err := r.cur.ReadBytes(r.temp); err != nil {
		return nil, err
	}

	return r.temp, nil
}

// loadWindow applies the owed bytes and makes a window resident unless the data stream
// is exhausted. An exhausted stream is reported by the read that needs the bytes.
func (r *Reader) loadWindow() error {
	if err := r.flushSkip(); err != nil {
		return err
	}
	if len(r.cur.Window()) > 0 {
		return nil
	}

	if err := r.cur.Refill(); err != nil && !errors.Is(err, errs.ErrUnexpectedEOF) {
		return err
	}

	return nil
}
