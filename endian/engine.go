// Package endian provides byte order engines for the strcol stream and record formats.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so that
// encoders can append fixed-width integers without scratch buffers while decoders
// read them back through the same value.
//
// Two places depend on byte order:
//
//   - Fixed-width length streams (format.LengthFixed32) are written with a
//     configurable engine, little-endian by default.
//   - The 16-byte string record used by the column decoder is always defined in
//     little-endian words, independent of the host, so the fast and the scalar
//     extractors build bit-identical records.
//
// # Thread Safety
//
// The returned engines are immutable and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian satisfy this interface.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
