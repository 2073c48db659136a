package compress

// NoOpCompressor passes chunks through unchanged.
//
// Streams configured with format.CompressionNone never reach a codec, the writer
// emits them without framing; NoOpCompressor exists so that callers can treat all
// compression types uniformly.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, without copying.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress copies src over dst.
func (c NoOpCompressor) Decompress(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}
