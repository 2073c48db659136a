//go:build nobuild

package compress

import (
	"github.com/valyala/gozstd"
)

// zstdLevel matches the default level of the pure Go encoder.
const zstdLevel = 3

// Compress compresses the chunk through cgo libzstd.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, zstdLevel), nil
}

// Decompress decompresses a Zstandard chunk through cgo, appending to dst[:0].
func (c ZstdCompressor) Decompress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}

	return gozstd.Decompress(dst[:0], src)
}
