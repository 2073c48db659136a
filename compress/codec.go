package compress

import (
	"fmt"

	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/format"
)

// MaxChunkSize is the largest decompressed chunk a codec produces, the largest length a
// 3-byte chunk header can describe.
const MaxChunkSize = 1<<23 - 1

// Compressor compresses a single stream chunk.
type Compressor interface {
	// Compress compresses the input chunk and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a single stream chunk.
//
// Implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses a chunk produced by the matching Compressor.
	//
	// The result is written over dst when its capacity suffices, so a stream can reuse
	// one buffer for all its chunks. The result never aliases src.
	//
	// Returns an error if the chunk is corrupted or was produced by another algorithm.
	Decompress(dst, src []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: ErrUnsupportedCompression for an unknown type
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression: %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}
