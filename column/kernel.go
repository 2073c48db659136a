package column

import "github.com/arloliu/strcol/internal/cpu"

// smallKernel checks whether all eight lengths are at most InlineSize and, if so, fills
// offsets with their running sum, offsets[0] being 0. gt4 reports whether any length
// exceeds PrefixSize.
type smallKernel func(lengths []uint32, offsets *[batchSize + 1]uint16) (gt4, ok bool)

func selectKernel(isa cpu.ISA) (smallKernel, string) {
	if isa == cpu.Generic {
		return allSmallEnoughGeneric, "generic"
	}

	return allSmallEnoughSWAR, "swar"
}

func allSmallEnoughGeneric(lengths []uint32, offsets *[batchSize + 1]uint16) (gt4, ok bool) {
	lengths = lengths[:batchSize]
	for _, l := range lengths {
		if l > InlineSize {
			return false, false
		}
		gt4 = gt4 || l > PrefixSize
	}

	offsets[0] = 0
	for k, l := range lengths {
		offsets[k+1] = offsets[k] + uint16(l)
	}

	return gt4, true
}

const (
	laneHigh   = 0x80000000_80000000
	laneOver12 = 0x7ffffff3_7ffffff3 // (0x80000000 - InlineSize - 1) per 32-bit lane
	laneOver4  = 0x7ffffffb_7ffffffb // (0x80000000 - PrefixSize - 1) per 32-bit lane
)

// allSmallEnoughSWAR compares two lengths per 64-bit word and computes the running sum
// over eight byte lanes of one word.
func allSmallEnoughSWAR(lengths []uint32, offsets *[batchSize + 1]uint16) (gt4, ok bool) {
	lengths = lengths[:batchSize]
	w0 := uint64(lengths[0]) | uint64(lengths[1])<<32
	w1 := uint64(lengths[2]) | uint64(lengths[3])<<32
	w2 := uint64(lengths[4]) | uint64(lengths[5])<<32
	w3 := uint64(lengths[6]) | uint64(lengths[7])<<32

	// A lane exceeds 12 when its top bit is set before or after adding laneOver12.
	// A lane that carries into its neighbor already has its own top bit set.
	over := w0 | (w0 + laneOver12) | w1 | (w1 + laneOver12) |
		w2 | (w2 + laneOver12) | w3 | (w3 + laneOver12)
	if over&laneHigh != 0 {
		return false, false
	}
	above4 := (w0 + laneOver4) | (w1 + laneOver4) | (w2 + laneOver4) | (w3 + laneOver4)
	gt4 = above4&laneHigh != 0

	// every lane is at most 12, so byte lanes hold sums up to 96 without carries
	x := uint64(lengths[0]) | uint64(lengths[1])<<8 | uint64(lengths[2])<<16 | uint64(lengths[3])<<24 |
		uint64(lengths[4])<<32 | uint64(lengths[5])<<40 | uint64(lengths[6])<<48 | uint64(lengths[7])<<56
	x += x << 8
	x += x << 16
	x += x << 32

	offsets[0] = 0
	for k := range batchSize {
		offsets[k+1] = uint16(byte(x >> (8 * k)))
	}

	return gt4, true
}
