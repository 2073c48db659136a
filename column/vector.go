package column

import "github.com/bits-and-blooms/bitset"

// StringVector is the output of a read: one StringView per output position plus a null
// bitmap.
//
// A vector is owned by its Reader and overwritten by the next Read.
type StringVector struct {
	views    []StringView
	arena    *Arena
	nulls    *bitset.BitSet
	hasNulls bool
}

// Len returns the number of output positions.
func (v *StringVector) Len() int {
	return len(v.views)
}

// IsNull reports whether position i is null.
func (v *StringVector) IsNull(i int) bool {
	return v.hasNulls && v.nulls.Test(uint(i))
}

// HasNulls reports whether any position is null.
func (v *StringVector) HasNulls() bool {
	return v.hasNulls && v.nulls.Any()
}

// NullCount returns the number of null positions.
func (v *StringVector) NullCount() int {
	if !v.hasNulls {
		return 0
	}

	return int(v.nulls.Count())
}

// View returns the record at position i. Null positions hold a zero record.
func (v *StringVector) View(i int) StringView {
	return v.views[i]
}

// Views returns all records. The slice is valid until the next Read.
func (v *StringVector) Views() []StringView {
	return v.views
}

// AppendValue appends the bytes of position i to dst. Nulls append nothing.
func (v *StringVector) AppendValue(dst []byte, i int) []byte {
	view := v.views[i]
	if view.IsInline() {
		return view.appendInline(dst)
	}

	return append(dst, v.arena.Bytes(view.arenaOffset(), view.Len())...)
}

// Value returns the bytes of position i, or nil for a null.
//
// Values longer than InlineSize are returned without copying and are valid until the
// next Read; shorter values are copied out of the record.
func (v *StringVector) Value(i int) []byte {
	if v.IsNull(i) {
		return nil
	}

	view := v.views[i]
	if view.IsInline() {
		return view.appendInline(make([]byte, 0, view.Len()))
	}

	return v.arena.Bytes(view.arenaOffset(), view.Len())
}

// String returns position i as a string. Nulls return "".
func (v *StringVector) String(i int) string {
	return string(v.AppendValue(nil, i))
}

func (v *StringVector) reset() {
	v.views = v.views[:0]
	if v.hasNulls {
		v.nulls.ClearAll()
		v.hasNulls = false
	}
}

// resize sets the length to n with zero records. Used by scatter writes.
func (v *StringVector) resize(n int) {
	if cap(v.views) < n {
		v.views = make([]StringView, n)
		return
	}

	v.views = v.views[:n]
	clear(v.views)
}

// appendBytes appends value, copying it into the arena when it is not inline.
func (v *StringVector) appendBytes(value []byte) {
	v.views = append(v.views, v.makeView(value))
}

func (v *StringVector) makeView(value []byte) StringView {
	if len(value) <= InlineSize {
		return inlineView(value)
	}

	return arenaView(value, v.arena.append(value))
}

func (v *StringVector) appendNull() {
	v.setNull(len(v.views))
	v.views = append(v.views, StringView{})
}

func (v *StringVector) setNull(i int) {
	if v.nulls == nil {
		v.nulls = bitset.New(uint(i + 1))
	}
	v.nulls.Set(uint(i))
	v.hasNulls = true
}

// copyNulls sets the first n null bits from src.
func (v *StringVector) copyNulls(src *bitset.BitSet, n int) {
	for i, ok := src.NextSet(0); ok && i < uint(n); i, ok = src.NextSet(i + 1) {
		v.setNull(int(i))
	}
}

// nullBits returns the cleared null bitmap for n positions, to be filled by the caller.
func (v *StringVector) nullBits(n int) *bitset.BitSet {
	if v.nulls == nil {
		v.nulls = bitset.New(uint(n))
	}
	v.hasNulls = true

	return v.nulls
}
