package column

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/strcol/internal/cpu"
)

func TestStringView(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		inline bool
		prefix [PrefixSize]byte
	}{
		{name: "empty", value: "", inline: true},
		{name: "short", value: "ab", inline: true, prefix: [PrefixSize]byte{'a', 'b'}},
		{name: "prefix only", value: "abcd", inline: true, prefix: [PrefixSize]byte{'a', 'b', 'c', 'd'}},
		{name: "longest inline", value: "abcdefghijkl", inline: true, prefix: [PrefixSize]byte{'a', 'b', 'c', 'd'}},
		{name: "arena", value: "abcdefghijklm", inline: false, prefix: [PrefixSize]byte{'a', 'b', 'c', 'd'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var view StringView
			if tt.inline {
				view = inlineView([]byte(tt.value))
				assert.Equal(t, tt.value, string(view.appendInline(nil)))
			} else {
				view = arenaView([]byte(tt.value), 42)
				assert.Equal(t, 42, view.arenaOffset())
			}

			assert.Equal(t, len(tt.value), view.Len())
			assert.Equal(t, tt.inline, view.IsInline())
			assert.Equal(t, tt.prefix, view.Prefix())
		})
	}
}

func TestStringView_Layout(t *testing.T) {
	view := inlineView([]byte("hello, world"))

	// length in the low half, first four bytes in the high half
	assert.Equal(t, uint64(12)|uint64(0x6c6c6568)<<32, view[0])
	assert.Equal(t, uint64(0x646c726f77202c6f), view[1])
}

func TestSmallKernels(t *testing.T) {
	tests := []struct {
		name    string
		lengths []uint32
		ok      bool
		gt4     bool
	}{
		{name: "zeros", lengths: []uint32{0, 0, 0, 0, 0, 0, 0, 0}, ok: true},
		{name: "up to four", lengths: []uint32{4, 3, 2, 1, 0, 4, 4, 4}, ok: true},
		{name: "five", lengths: []uint32{0, 0, 0, 0, 0, 0, 0, 5}, ok: true, gt4: true},
		{name: "all twelve", lengths: []uint32{12, 12, 12, 12, 12, 12, 12, 12}, ok: true, gt4: true},
		{name: "thirteen", lengths: []uint32{1, 13, 1, 1, 1, 1, 1, 1}},
		{name: "last lane", lengths: []uint32{1, 1, 1, 1, 1, 1, 1, 13}},
		{name: "huge", lengths: []uint32{0, 0, 0xffffffff, 0, 0, 0, 0, 0}},
		{name: "top bit", lengths: []uint32{0x80000000, 0, 0, 0, 0, 0, 0, 0}},
		{name: "carry candidate", lengths: []uint32{0x8000000d, 0, 0, 0, 0, 0, 0, 0}},
	}

	kernels := map[string]smallKernel{
		"generic": allSmallEnoughGeneric,
		"swar":    allSmallEnoughSWAR,
	}

	for kname, kernel := range kernels {
		for _, tt := range tests {
			t.Run(kname+"/"+tt.name, func(t *testing.T) {
				var offsets [batchSize + 1]uint16
				gt4, ok := kernel(tt.lengths, &offsets)
				require.Equal(t, tt.ok, ok)
				if !ok {
					return
				}

				assert.Equal(t, tt.gt4, gt4)
				var sum uint16
				for k, l := range tt.lengths {
					assert.Equal(t, sum, offsets[k])
					sum += uint16(l)
				}
				assert.Equal(t, sum, offsets[batchSize])
			})
		}
	}
}

func TestSmallKernels_Random(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	lengths := make([]uint32, batchSize)

	for range 10000 {
		for k := range lengths {
			lengths[k] = uint32(rng.IntN(16))
		}

		var want, got [batchSize + 1]uint16
		wantGT4, wantOK := allSmallEnoughGeneric(lengths, &want)
		gotGT4, gotOK := allSmallEnoughSWAR(lengths, &got)
		require.Equal(t, wantOK, gotOK, "lengths %v", lengths)
		if wantOK {
			require.Equal(t, wantGT4, gotGT4, "lengths %v", lengths)
			require.Equal(t, want, got, "lengths %v", lengths)
		}
	}
}

func TestSelectKernel(t *testing.T) {
	_, name := selectKernel(cpu.Generic)
	assert.Equal(t, "generic", name)

	for _, isa := range []cpu.ISA{cpu.SWAR, cpu.AVX2, cpu.NEON} {
		_, name = selectKernel(isa)
		assert.Equal(t, "swar", name)
	}
}
