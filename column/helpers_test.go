package column

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/strcol/rowset"
)

// ==============================================================================
// Helper Functions

// testColumn is the plain form of a column: a value per row and the null rows.
type testColumn struct {
	values []string
	nulls  map[int]bool
}

func newTestColumn(values []string, nullRows ...int) testColumn {
	c := testColumn{values: values, nulls: make(map[int]bool, len(nullRows))}
	for _, row := range nullRows {
		c.nulls[row] = true
	}

	return c
}

// randomColumn generates n values with lengths in [0, maxLen] and roughly one null
// row in nullEvery when nullEvery is positive.
func randomColumn(seed uint64, n, maxLen, nullEvery int) testColumn {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	values := make([]string, n)
	var nullRows []int
	for i := range values {
		if nullEvery > 0 && rng.IntN(nullEvery) == 0 {
			nullRows = append(nullRows, i)
			continue
		}

		var sb strings.Builder
		length := rng.IntN(maxLen + 1)
		for range length {
			sb.WriteByte(byte('a' + rng.IntN(26)))
		}
		values[i] = sb.String()
	}

	return newTestColumn(values, nullRows...)
}

func (c testColumn) write(t testing.TB, opts ...WriterOption) *Streams {
	t.Helper()

	w, err := NewWriter(opts...)
	require.NoError(t, err)
	for i, v := range c.values {
		if c.nulls[i] {
			require.NoError(t, w.AppendNull())
		} else {
			require.NoError(t, w.AppendString(v))
		}
	}

	s, err := w.Finish()
	require.NoError(t, err)

	return s
}

// expected returns the vector content of reading rows at offset: a string per value
// and nil per null.
func (c testColumn) expected(offset int64, rows rowset.RowSet) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		abs := int(offset) + int(row)
		if c.nulls[abs] {
			out = append(out, nil)
		} else {
			out = append(out, c.values[abs])
		}
	}

	return out
}

// dataBytes returns the data stream size of rows [begin, end).
func (c testColumn) dataBytes(begin, end int) int64 {
	var n int64
	for i := begin; i < end; i++ {
		if !c.nulls[i] {
			n += int64(len(c.values[i]))
		}
	}

	return n
}

func openTestReader(t *testing.T, s *Streams, opts ...ReaderOption) *Reader {
	t.Helper()

	r, err := OpenReader(s, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r
}

func vectorContent(v *StringVector) []any {
	out := make([]any, v.Len())
	for i := range out {
		if v.IsNull(i) {
			out[i] = nil
		} else {
			out[i] = v.String(i)
		}
	}

	return out
}

func bitsOf(n int, rows ...int) *bitset.BitSet {
	b := bitset.New(uint(n))
	for _, row := range rows {
		b.Set(uint(row))
	}

	return b
}

func everyNth(n, step, from int) rowset.RowSet {
	var rows rowset.RowSet
	for i := from; i < n; i += step {
		rows = append(rows, int32(i))
	}

	return rows
}

// recordingHook collects what a reader hands to its value hook.
type recordingHook struct {
	rows   []int32
	values []any
}

func (h *recordingHook) AddValue(row int32, value []byte) {
	h.rows = append(h.rows, row)
	h.values = append(h.values, string(value))
}

func (h *recordingHook) AddNull(row int32) {
	h.rows = append(h.rows, row)
	h.values = append(h.values, nil)
}
