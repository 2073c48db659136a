// Package rowset describes which rows of a batch a selective read materializes.
//
// A RowSet is an ascending list of row numbers relative to the start of a read. Rows
// absent from the set are skipped without being decoded. Row sets are usually built
// from a query's row bitmap with FromBitmap, or with Dense for a full batch.
package rowset

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/strcol/errs"
)

// RowSet is a strictly increasing list of non-negative row numbers.
type RowSet []int32

// Dense returns the row set {0, 1, ..., n-1}.
func Dense(n int) RowSet {
	rows := make(RowSet, n)
	for i := range rows {
		rows[i] = int32(i)
	}

	return rows
}

// FromBitmap returns the rows present in bm in ascending order.
//
// Returns errs.ErrInvalidRowSet if bm holds a row that does not fit an int32.
func FromBitmap(bm *roaring.Bitmap) (RowSet, error) {
	if bm.IsEmpty() {
		return nil, fmt.Errorf("%w: empty bitmap", errs.ErrInvalidRowSet)
	}
	if bm.Maximum() > math.MaxInt32 {
		return nil, fmt.Errorf("%w: row %d out of range", errs.ErrInvalidRowSet, bm.Maximum())
	}

	rows := make(RowSet, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		rows = append(rows, int32(it.Next()))
	}

	return rows, nil
}

// ToBitmap returns the rows as a roaring bitmap.
func (r RowSet) ToBitmap() *roaring.Bitmap {
	bm := roaring.New()
	for _, row := range r {
		bm.Add(uint32(row))
	}

	return bm
}

// Validate checks that r is non-empty, non-negative and strictly increasing.
func (r RowSet) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: empty", errs.ErrInvalidRowSet)
	}
	if r[0] < 0 {
		return fmt.Errorf("%w: negative row %d", errs.ErrInvalidRowSet, r[0])
	}
	for i := 1; i < len(r); i++ {
		if r[i] <= r[i-1] {
			return fmt.Errorf("%w: row %d at position %d does not follow %d", errs.ErrInvalidRowSet, r[i], i, r[i-1])
		}
	}

	return nil
}

// Last returns the largest row. r must not be empty.
func (r RowSet) Last() int32 {
	return r[len(r)-1]
}

// NumRows returns the number of batch rows the set spans, Last()+1.
func (r RowSet) NumRows() int {
	return int(r.Last()) + 1
}

// IsDense reports whether r is exactly {0, ..., len(r)-1}. r must be valid.
func (r RowSet) IsDense() bool {
	return len(r) > 0 && r[0] == 0 && int(r.Last()) == len(r)-1
}

// IsDenseBlock reports whether the n rows starting at position i are consecutive.
func (r RowSet) IsDenseBlock(i, n int) bool {
	return int(r[i+n-1]-r[i]) == n-1
}

// CountNulls returns the number of set bits of nulls in [begin, end). A nil bitmap has no nulls.
func CountNulls(nulls *bitset.BitSet, begin, end int) int {
	if nulls == nil || end <= begin {
		return 0
	}

	count := 0
	for i, ok := nulls.NextSet(uint(begin)); ok && i < uint(end); i, ok = nulls.NextSet(i + 1) {
		count++
	}

	return count
}

// Mapping relates the selected non-null rows of a read to the length array and the output.
//
// Inner[k] is the non-null sequence number of the k-th selected non-null row, the index
// of its length in the length array. Outer[k] is the output position the value is
// written to.
type Mapping struct {
	Inner []int32
	Outer []int32
}

// NonNullRowsFromDense fills m for the dense selection {0, ..., numRows-1}.
//
// Inner is {0, ..., k-1} and Outer lists the absolute rows of the k non-null values.
// The slices of m are reused.
func NonNullRowsFromDense(nulls *bitset.BitSet, numRows int, m *Mapping) {
	m.Inner = m.Inner[:0]
	m.Outer = m.Outer[:0]

	for row := range numRows {
		if nulls != nil && nulls.Test(uint(row)) {
			continue
		}
		m.Inner = append(m.Inner, int32(len(m.Outer)))
		m.Outer = append(m.Outer, int32(row))
	}
}

// NonNullRowsFromSparse fills m for an arbitrary selection.
//
// Outer positions index rows, and every selected null row sets its position in
// resultNulls when resultNulls is not nil. The slices of m are reused.
func NonNullRowsFromSparse(nulls *bitset.BitSet, rows RowSet, m *Mapping, resultNulls *bitset.BitSet) {
	m.Inner = m.Inner[:0]
	m.Outer = m.Outer[:0]

	nonNull := 0 // non-null rows before the current row
	prev := 0
	for i, row := range rows {
		nonNull += int(row) - prev - CountNulls(nulls, prev, int(row))
		prev = int(row) + 1

		if nulls != nil && nulls.Test(uint(row)) {
			if resultNulls != nil {
				resultNulls.Set(uint(i))
			}

			continue
		}

		m.Inner = append(m.Inner, int32(nonNull))
		m.Outer = append(m.Outer, int32(i))
		nonNull++
	}
}
