package cpu

import (
	"fmt"
	"math/bits"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	fmt.Printf("cpu: GOARCH=%s active=%s overridden=%v avx2=%v asimd=%v\n",
		runtime.GOARCH, ActiveISA(), IsOverridden(), HasAVX2(), HasASIMD())
	os.Exit(m.Run())
}

func TestParseISA(t *testing.T) {
	tests := []struct {
		in   string
		want ISA
		ok   bool
	}{
		{"generic", Generic, true},
		{"SWAR", SWAR, true},
		{" avx2 ", AVX2, true},
		{"neon", NEON, true},
		{"sse4", Generic, false},
		{"", Generic, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseISA(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestISAString(t *testing.T) {
	for _, isa := range []ISA{Generic, SWAR, AVX2, NEON} {
		parsed, ok := ParseISA(isa.String())
		require.True(t, ok)
		assert.Equal(t, isa, parsed)
	}
	assert.Equal(t, "unknown", ISA(42).String())
}

func TestActiveISAIsAvailable(t *testing.T) {
	assert.True(t, isISAAvailable(ActiveISA()))
	assert.Equal(t, ActiveISA() != Generic, BatchSupported())
}

func TestSelectBestISA(t *testing.T) {
	savedAVX2, savedASIMD := hasAVX2, hasASIMD
	t.Cleanup(func() { hasAVX2, hasASIMD = savedAVX2, savedASIMD })

	tests := []struct {
		name  string
		avx2  bool
		asimd bool
		want  ISA
	}{
		{name: "avx2", avx2: true, want: AVX2},
		{name: "asimd", asimd: true, want: NEON},
		{name: "no vector unit", want: SWAR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if bits.UintSize != 64 && tt.want == SWAR {
				t.Skip("32-bit platforms fall back to generic")
			}
			hasAVX2, hasASIMD = tt.avx2, tt.asimd
			assert.Equal(t, tt.want, selectBestISA())
		})
	}
}

func TestInitCapabilitiesOverride(t *testing.T) {
	saved, savedOverride := activeISA, hasOverride
	t.Cleanup(func() { activeISA, hasOverride = saved, savedOverride })

	t.Run("available override wins", func(t *testing.T) {
		t.Setenv(EnvOverride, "swar")
		hasOverride = false
		initCapabilities()
		assert.Equal(t, SWAR, ActiveISA())
		assert.True(t, IsOverridden())
		assert.True(t, BatchSupported())
	})

	t.Run("generic override disables batch", func(t *testing.T) {
		t.Setenv(EnvOverride, "generic")
		hasOverride = false
		initCapabilities()
		assert.Equal(t, Generic, ActiveISA())
		assert.False(t, BatchSupported())
	})

	t.Run("unknown override falls back to detection", func(t *testing.T) {
		t.Setenv(EnvOverride, "mmx")
		hasOverride = false
		initCapabilities()
		assert.Equal(t, selectBestISA(), ActiveISA())
		assert.False(t, IsOverridden())
	})
}
