package filter

import (
	"bytes"

	"github.com/arloliu/strcol/internal/hash"
)

// BytesValues accepts values equal to one of a fixed set.
//
// Values are bucketed by their 64-bit hash; a bucket holds every value with that
// hash, so collisions cost a comparison and never a false positive.
type BytesValues struct {
	buckets     map[uint64][][]byte
	lengths     map[uint32]struct{}
	nullAllowed bool
}

var _ Filter = (*BytesValues)(nil)

// NewBytesValues creates a filter accepting the given values. The values are copied.
func NewBytesValues(values [][]byte, nullAllowed bool) *BytesValues {
	f := newBytesValues(len(values), nullAllowed)
	for _, v := range values {
		f.add(hash.Bytes(v), bytes.Clone(v))
	}

	return f
}

// NewStringValues is NewBytesValues for string values.
func NewStringValues(values []string, nullAllowed bool) *BytesValues {
	f := newBytesValues(len(values), nullAllowed)
	for _, v := range values {
		f.add(hash.String(v), []byte(v))
	}

	return f
}

func newBytesValues(n int, nullAllowed bool) *BytesValues {
	return &BytesValues{
		buckets:     make(map[uint64][][]byte, n),
		lengths:     make(map[uint32]struct{}),
		nullAllowed: nullAllowed,
	}
}

func (f *BytesValues) add(h uint64, value []byte) {
	for _, candidate := range f.buckets[h] {
		if bytes.Equal(candidate, value) {
			return
		}
	}
	f.buckets[h] = append(f.buckets[h], value)
	f.lengths[uint32(len(value))] = struct{}{}
}

func (f *BytesValues) contains(value []byte) bool {
	for _, candidate := range f.buckets[hash.Bytes(value)] {
		if bytes.Equal(candidate, value) {
			return true
		}
	}

	return false
}

func (f *BytesValues) Kind() Kind     { return KindBytesValues }
func (f *BytesValues) TestNull() bool { return f.nullAllowed }

// Len returns the number of distinct values.
func (f *BytesValues) Len() int {
	n := 0
	for _, b := range f.buckets {
		n += len(b)
	}

	return n
}

func (f *BytesValues) TestLength(length uint32) bool {
	_, ok := f.lengths[length]
	return ok
}

func (f *BytesValues) TestBytes(value []byte) bool {
	return f.contains(value)
}
