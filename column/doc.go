// Package column decodes direct-encoded string columns selectively.
//
// A direct string column is stored as two streams: a length stream with the byte length
// of every non-null value, and a data stream with the value bytes concatenated in row
// order. A Reader consumes both streams batch by batch and materializes only the rows a
// caller selects, skipping the rest by length arithmetic instead of decoding them.
//
// # Output
//
// Decoded values are written to a StringVector as 16-byte StringView records. Values of
// up to 12 bytes are stored inline in the record; longer values keep a 4-byte prefix in
// the record and their full content in an arena owned by the reader. The vector and the
// arena stay valid until the next call to Read.
//
// # Read paths
//
// An unfiltered read with no value hook takes the bulk path when the CPU supports the
// batch extractor: rows are processed in blocks of eight, each block first offered to a
// batch extractor that either commits all eight values or nothing, with a scalar
// extractor as fallback. Every other read goes through a row-by-row visitor that applies
// the filter in stages (null, length, bytes). Both paths produce identical vectors for
// the same rows.
//
// # Concurrency
//
// A Reader is not safe for concurrent use. Decode independent columns in parallel with
// one Reader each.
package column
