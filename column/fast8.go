package column

import (
	"encoding/binary"
	"fmt"
)

// try8Consecutive decodes the eight values listed from rows[row] straight out of the
// current window. start is the byte offset of the first value past the owed bytes;
// sparse blocks carry their gaps in the lengths instead.
//
// It either commits all eight values and advances the reader, or returns false with
// no state changed.
func (r *Reader) try8Consecutive(start int64, rows []int32, row int, sparse bool) bool {
	w := r.cur.Window()
	if int64(len(w))-r.bytesToSkip < start+batchSize*InlineSize {
		return false
	}
	pos := int(r.bytesToSkip + start)

	if !sparse {
		first := int(rows[row])
		var offsets [batchSize + 1]uint16
		if gt4, ok := r.kernel(r.lengths[first:first+batchSize], &offsets); ok {
			r.commitSmall(w, pos, &offsets, row, gt4)
			return true
		}
	}

	return r.try8General(w, pos, rows, row, sparse)
}

// commitSmall builds eight inline records whose lengths are all at most InlineSize.
// offsets holds the running sum of the lengths from pos.
func (r *Reader) commitSmall(w []byte, pos int, offsets *[batchSize + 1]uint16, row int, gt4 bool) {
	end := pos + int(offsets[batchSize])
	if pos+int(offsets[batchSize-1])+InlineSize > len(w) {
		invariant(fmt.Sprintf("small batch ending at %d overruns window of %d", end, len(w)))
	}

	data := w[pos:]
	var views [batchSize]StringView
	for k := range batchSize {
		off := int(offsets[k])
		length := uint64(offsets[k+1] - offsets[k])
		word := uint64(binary.LittleEndian.Uint32(data[off:]))

		if gt4 && length > PrefixSize {
			word2 := binary.LittleEndian.Uint64(data[off+PrefixSize:])
			mask := ^uint64(0)
			if length < InlineSize {
				mask = 1<<(8*(length-PrefixSize)) - 1
			}
			views[k] = StringView{length | word<<32, word2 & mask}
		} else {
			mask := uint64(1)<<(8*length) - 1
			views[k] = StringView{length | (word&mask)<<32, 0}
		}
	}

	r.placeViews(&views, row)
	r.cur.Advance(end)
	r.bytesToSkip = 0
	r.lengthIndex += batchSize
	r.stats.SmallBatches++
}

// try8General handles blocks with values longer than InlineSize or with gaps. Long
// values are copied past the arena watermark, which moves only once all eight fit.
func (r *Reader) try8General(w []byte, pos int, rows []int32, row int, sparse bool) bool {
	arena := r.vector.arena
	spare := arena.spare()
	used := 0
	previous := r.lengthIndex

	var views [batchSize]StringView
	for k := range batchSize {
		target := int(rows[row+k])
		if sparse {
			pos += int(r.rangeSum(0, previous, target))
			previous = target + 1
		}

		length := int(r.lengths[target])
		if pos+roundUp16(length) > len(w) {
			return false
		}

		value := w[pos : pos+length]
		pos += length
		if length <= InlineSize {
			views[k] = inlineView(value)
			continue
		}

		if used+length > len(spare) {
			return false
		}
		copy(spare[used:], value)
		views[k] = arenaView(value, arena.Len()+used)
		used += length
	}

	arena.commit(used)
	r.placeViews(&views, row)
	r.cur.Advance(pos)
	r.bytesToSkip = 0
	if sparse {
		r.lengthIndex = int(rows[row+batchSize-1]) + 1
	} else {
		r.lengthIndex += batchSize
	}
	r.stats.GeneralBatches++

	return true
}

// placeViews stores a committed block, in order or at the outer positions of its rows.
func (r *Reader) placeViews(views *[batchSize]StringView, row int) {
	if !r.scatter {
		r.vector.views = append(r.vector.views, views[:]...)
		return
	}

	for k, view := range views {
		r.vector.views[r.mapping.Outer[row+k]] = view
	}
}

func roundUp16(n int) int {
	return (n + 15) &^ 15
}
