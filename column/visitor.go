package column

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/strcol/filter"
	"github.com/arloliu/strcol/rowset"
)

// visitor walks the selected rows of one read for the decode loop, applies the filter
// and delivers passing rows to the vector or the value hook.
//
// Each process method handles the row at rows[index] and returns the number of rows
// to pass over before the next selected row.
type visitor struct {
	rows       rowset.RowSet
	index      int
	filter     filter.Filter
	hook       ValueHook
	vector     *StringVector
	outputRows *[]int32
}

func (v *visitor) reset(rows rowset.RowSet, f filter.Filter, hook ValueHook, vector *StringVector, outputRows *[]int32) {
	if filter.IsAlwaysTrue(f) {
		f = nil
	}

	*v = visitor{
		rows:       rows,
		filter:     f,
		hook:       hook,
		vector:     vector,
		outputRows: outputRows,
	}
}

func (v *visitor) start() int {
	return int(v.rows[0])
}

func (v *visitor) allowNulls() bool {
	return v.filter == nil || v.filter.TestNull()
}

func (v *visitor) advance(atEnd *bool) int {
	v.index++
	if v.index == len(v.rows) {
		*atEnd = true
		return 0
	}

	return int(v.rows[v.index]-v.rows[v.index-1]) - 1
}

func (v *visitor) processNull(atEnd *bool) int {
	row := v.rows[v.index]
	if v.hook != nil {
		v.hook.AddNull(row)
	} else {
		v.vector.appendNull()
	}
	*v.outputRows = append(*v.outputRows, row)

	return v.advance(atEnd)
}

// processLength rejects the row when no value of this length can pass the filter.
func (v *visitor) processLength(length uint32, atEnd *bool) (int, bool) {
	if v.filter != nil && !v.filter.TestLength(length) {
		return v.advance(atEnd), true
	}

	return 0, false
}

func (v *visitor) process(value []byte, atEnd *bool) int {
	if v.filter == nil || v.filter.TestBytes(value) {
		row := v.rows[v.index]
		if v.hook != nil {
			v.hook.AddValue(row, value)
		} else {
			v.vector.appendBytes(value)
		}
		*v.outputRows = append(*v.outputRows, row)
	}

	return v.advance(atEnd)
}

// skipNullRows passes over selected null rows when the filter rejects nulls. It returns
// the distance from current to the next selected non-null row, or to the end of the
// read with atEnd set.
func (v *visitor) skipNullRows(nulls *bitset.BitSet, current int, atEnd *bool) int {
	for nulls.Test(uint(v.rows[v.index])) {
		v.index++
		if v.index == len(v.rows) {
			*atEnd = true
			return v.rows.NumRows() - current
		}
	}

	return int(v.rows[v.index]) - current
}

// readWithVisitor decodes the read row by row.
func (r *Reader) readWithVisitor(rows rowset.RowSet) error {
	r.stats.VisitorReads++
	r.scatter = false
	r.visitor.reset(rows, r.cfg.filter, r.cfg.hook, &r.vector, &r.outputRows)

	var nulls *bitset.BitSet
	if r.hasNulls {
		nulls = r.rangeNulls
	}

	r.skipRows(r.visitor.start(), 0, nulls)

	return r.decode(nulls, &r.visitor)
}

// decode runs the per-row state machine from the visitor's first row until the
// visitor reaches the end of the selection. lengthIndex always equals the number of
// non-null rows before current.
func (r *Reader) decode(nulls *bitset.BitSet, v *visitor) error {
	current := v.start()
	allowNulls := nulls != nil && v.allowNulls()
	atEnd := false

	for {
		var toSkip int
		if allowNulls && nulls.Test(uint(current)) {
			toSkip = v.processNull(&atEnd)
		} else {
			if nulls != nil && !allowNulls {
				skipped := v.skipNullRows(nulls, current, &atEnd)
				r.skipRows(skipped, current, nulls)
				current += skipped
				if atEnd {
					return nil
				}
			}

			length := r.lengths[r.lengthIndex]
			r.lengthIndex++
			if skip, rejected := v.processLength(length, &atEnd); rejected {
				r.bytesToSkip += int64(length)
				toSkip = skip
			} else {
				value, err := r.readValue(int(length))
				if err != nil {
					return err
				}
				toSkip = v.process(value, &atEnd)
			}
		}

		current++
		if toSkip > 0 {
			r.skipRows(toSkip, current, nulls)
			current += toSkip
		}
		if atEnd {
			return nil
		}
	}
}
