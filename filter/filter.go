// Package filter provides the pushdown predicates a selective string read can apply.
//
// A Filter is evaluated in three stages so that rows can be rejected as early as
// possible: TestNull for null rows, TestLength before the value bytes are read, and
// TestBytes on the materialized value. TestLength must return true whenever some value
// of that length could pass TestBytes.
package filter

import "bytes"

// Kind identifies a filter implementation.
type Kind uint8

const (
	KindAlwaysTrue Kind = iota
	KindIsNull
	KindIsNotNull
	KindLengthRange
	KindBytesRange
	KindBytesValues
	KindPrefix
	KindNot
)

func (k Kind) String() string {
	switch k {
	case KindAlwaysTrue:
		return "AlwaysTrue"
	case KindIsNull:
		return "IsNull"
	case KindIsNotNull:
		return "IsNotNull"
	case KindLengthRange:
		return "LengthRange"
	case KindBytesRange:
		return "BytesRange"
	case KindBytesValues:
		return "BytesValues"
	case KindPrefix:
		return "Prefix"
	case KindNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// Filter is a predicate over the values of a string column.
type Filter interface {
	Kind() Kind
	// TestNull reports whether null rows pass.
	TestNull() bool
	// TestLength reports whether a value of the given length may pass.
	TestLength(length uint32) bool
	// TestBytes reports whether the value passes.
	TestBytes(value []byte) bool
}

// IsAlwaysTrue reports whether f accepts every row, including nulls. A nil filter is always true.
func IsAlwaysTrue(f Filter) bool {
	return f == nil || f.Kind() == KindAlwaysTrue
}

// AlwaysTrue accepts every row.
type AlwaysTrue struct{}

func (AlwaysTrue) Kind() Kind             { return KindAlwaysTrue }
func (AlwaysTrue) TestNull() bool         { return true }
func (AlwaysTrue) TestLength(uint32) bool { return true }
func (AlwaysTrue) TestBytes([]byte) bool  { return true }

// IsNull accepts only null rows.
type IsNull struct{}

func (IsNull) Kind() Kind             { return KindIsNull }
func (IsNull) TestNull() bool         { return true }
func (IsNull) TestLength(uint32) bool { return false }
func (IsNull) TestBytes([]byte) bool  { return false }

// IsNotNull accepts every non-null row.
type IsNotNull struct{}

func (IsNotNull) Kind() Kind             { return KindIsNotNull }
func (IsNotNull) TestNull() bool         { return false }
func (IsNotNull) TestLength(uint32) bool { return true }
func (IsNotNull) TestBytes([]byte) bool  { return true }

// LengthRange accepts values whose length is in [Min, Max].
type LengthRange struct {
	Min, Max    uint32
	NullAllowed bool
}

func (f LengthRange) Kind() Kind     { return KindLengthRange }
func (f LengthRange) TestNull() bool { return f.NullAllowed }

func (f LengthRange) TestLength(length uint32) bool {
	return length >= f.Min && length <= f.Max
}

func (f LengthRange) TestBytes(value []byte) bool {
	return f.TestLength(uint32(len(value)))
}

// BytesRange accepts values within a lexicographic range. A nil bound is unbounded.
type BytesRange struct {
	Lower, Upper                   []byte
	LowerExclusive, UpperExclusive bool
	NullAllowed                    bool
}

func (f BytesRange) Kind() Kind             { return KindBytesRange }
func (f BytesRange) TestNull() bool         { return f.NullAllowed }
func (f BytesRange) TestLength(uint32) bool { return true }

func (f BytesRange) TestBytes(value []byte) bool {
	if f.Lower != nil {
		c := bytes.Compare(value, f.Lower)
		if c < 0 || c == 0 && f.LowerExclusive {
			return false
		}
	}
	if f.Upper != nil {
		c := bytes.Compare(value, f.Upper)
		if c > 0 || c == 0 && f.UpperExclusive {
			return false
		}
	}

	return true
}

// Prefix accepts values starting with a byte prefix.
type Prefix struct {
	Prefix      []byte
	NullAllowed bool
}

func (f Prefix) Kind() Kind     { return KindPrefix }
func (f Prefix) TestNull() bool { return f.NullAllowed }

func (f Prefix) TestLength(length uint32) bool {
	return int(length) >= len(f.Prefix)
}

func (f Prefix) TestBytes(value []byte) bool {
	return bytes.HasPrefix(value, f.Prefix)
}

// Not negates another filter.
type Not struct {
	Filter Filter
}

func (f Not) Kind() Kind     { return KindNot }
func (f Not) TestNull() bool { return !f.Filter.TestNull() }

// TestLength negates the inner filter only when its verdict depends on length alone.
func (f Not) TestLength(length uint32) bool {
	switch f.Filter.Kind() {
	case KindLengthRange, KindIsNull, KindIsNotNull, KindAlwaysTrue:
		return !f.Filter.TestLength(length)
	default:
		return true
	}
}

func (f Not) TestBytes(value []byte) bool {
	return !f.Filter.TestBytes(value)
}
