package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor hash tables between chunks.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor provides LZ4 block compression for stream chunks.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the chunk using a pooled lz4.Compressor.
//
// Returns an empty result for input LZ4 cannot shrink; the stream writer stores such
// chunks original.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block.
//
// The block format does not record the decoded size. Decoding starts in dst, or in a
// buffer of 4x the compressed size when dst is smaller, and doubles the buffer on
// lz4.ErrInvalidSourceShortBuffer up to MaxChunkSize.
func (c LZ4Compressor) Decompress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	buf := dst[:cap(dst)]
	if len(buf) < len(src)*4 {
		buf = make([]byte, min(len(src)*4, MaxChunkSize))
	}

	for {
		n, err := lz4.UncompressBlock(src, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || len(buf) >= MaxChunkSize {
			return nil, err
		}

		buf = make([]byte, min(len(buf)*2, MaxChunkSize))
	}
}
