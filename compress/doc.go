// Package compress provides the chunk codecs used by compressed strcol streams.
//
// Length and blob streams are cut into chunks (see package stream); every chunk is
// compressed independently with one of the codecs below and framed with a 3-byte
// header. The decoder sees each decompressed chunk as one buffer window.
//
// Supported algorithms:
//   - None: no compression, streams are written without framing
//   - Zstd: best ratio, moderate speed (klauspost/compress/zstd, or valyala/gozstd with the cgo variant)
//   - S2: balanced ratio and speed (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4/v4 block format)
//
// All codecs are stateless values backed by pooled encoder/decoder state, and are
// safe for concurrent use.
//
// Example:
//
//	codec, err := compress.CreateCodec(format.CompressionS2, "blob stream")
//	if err != nil {
//	    return err
//	}
//	chunk, err := codec.Compress(raw)
package compress
