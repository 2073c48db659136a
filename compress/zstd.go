package compress

// ZstdCompressor provides Zstandard compression for stream chunks.
//
// Zstd gives the best ratio of the supported codecs and is the usual choice for
// blob streams of text-like values that are written once and scanned many times.
//
// The default build uses klauspost/compress/zstd with pooled encoders and decoders.
// The cgo variant (valyala/gozstd) is kept behind a build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
