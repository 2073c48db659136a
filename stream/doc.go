// Package stream provides the byte sources a string column decoder reads from.
//
// An Input hands out consecutive windows of a forward-only byte stream and can skip
// bytes without handing them out. Three implementations are provided:
//
//   - BytesInput: windows over an in-memory slice, no copying.
//   - ReaderInput: windows filled from an io.Reader; skips seek when the reader is an io.Seeker.
//   - CompressedInput: ORC-style compressed chunk framing over another Input; every
//     decompressed chunk becomes one window.
//
// A Cursor tracks the unconsumed part of the current window and implements the
// operations a decoder needs on top of an Input: skip, copy-out across window
// refills, and single byte reads for varint decoding.
//
// Chunk framing:
//
//	┌────────────────────────────┬──────────────────────┐
//	│ header (3 bytes, LE)       │ chunk (len bytes)    │ ...
//	│ (len << 1) | isOriginal    │ compressed or raw    │
//	└────────────────────────────┴──────────────────────┘
//
// Writer produces this framing; streams written with format.CompressionNone carry
// no framing at all.
package stream
