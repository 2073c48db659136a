// Package cpu selects the instruction set the batch string extractor is allowed to use.
//
// Detection runs once at package init. The STRCOL_ISA environment variable overrides the
// selection when the requested ISA is available on the running CPU; an unavailable or
// unparsable override falls back to auto-detection.
//
// The batch kernels are pure Go on 64-bit words, so every 64-bit platform gets at least
// SWAR. Generic is chosen on 32-bit platforms, where each word operation splits in two,
// or when STRCOL_ISA=generic asks for the scalar path.
package cpu

import (
	"math/bits"
	"os"
	"strings"
)

// ISA represents an instruction set class for the batch extractor.
type ISA uint8

const (
	// Generic disables the batch extractor; every value goes through the scalar path.
	Generic ISA = iota
	// SWAR enables the batch extractor with a portable 64-bit word kernel.
	SWAR
	// AVX2 represents x86-64 with AVX2.
	AVX2
	// NEON represents ARM64 with Advanced SIMD.
	NEON
)

// EnvOverride names the environment variable consulted at init.
const EnvOverride = "STRCOL_ISA"

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case SWAR:
		return "swar"
	case AVX2:
		return "avx2"
	case NEON:
		return "neon"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "swar":
		return SWAR, true
	case "avx2":
		return AVX2, true
	case "neon":
		return NEON, true
	default:
		return Generic, false
	}
}

var (
	activeISA   ISA
	hasOverride bool

	// set by platform-specific init
	hasAVX2  bool
	hasASIMD bool
)

func initCapabilities() {
	if override := os.Getenv(EnvOverride); override != "" {
		if isa, ok := ParseISA(override); ok && isISAAvailable(isa) {
			hasOverride = true
			activeISA = isa

			return
		}
	}

	activeISA = selectBestISA()
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic, SWAR:
		return true
	case AVX2:
		return hasAVX2
	case NEON:
		return hasASIMD
	default:
		return false
	}
}

func selectBestISA() ISA {
	switch {
	case hasAVX2:
		return AVX2
	case hasASIMD:
		return NEON
	case bits.UintSize == 64:
		return SWAR
	default:
		return Generic
	}
}

// ActiveISA returns the currently active ISA.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden returns true if STRCOL_ISA selected the active ISA.
func IsOverridden() bool {
	return hasOverride
}

// HasAVX2 returns true if x86-64 AVX2 is available.
func HasAVX2() bool {
	return hasAVX2
}

// HasASIMD returns true if ARM64 Advanced SIMD is available.
func HasASIMD() bool {
	return hasASIMD
}

// BatchSupported reports whether the active ISA permits the eight-value batch extractor.
func BatchSupported() bool {
	return activeISA != Generic
}
