// Package encoding implements the length streams of a direct-encoded string column.
//
// A string column stores the byte length of every non-null value in a length stream,
// separate from the concatenated value bytes. Three encodings are supported:
//
//   - format.LengthRLEv1: ORC integer run-length encoding, version 1, unsigned.
//     A header byte h >= 0 starts a run of h+3 values given by a signed delta byte
//     and a varint base; h < 0 starts -h literal varints.
//   - format.LengthVarint: one unsigned varint per value.
//   - format.LengthFixed32: four bytes per value in the configured byte order.
//
// Encoders accumulate into pooled buffers and must be released with Finish.
// Decoders pull from a stream.Input on demand, so a length stream can be consumed
// in batches without being decoded up front.
package encoding
