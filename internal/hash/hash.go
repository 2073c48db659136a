// Package hash provides the 64-bit hash used to key byte-string sets.
package hash

import "github.com/cespare/xxhash/v2"

// Bytes computes the xxHash64 of b.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// String computes the xxHash64 of s without converting it to a byte slice.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}
