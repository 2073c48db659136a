package format

type (
	CompressionType uint8
	LengthEncoding  uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	LengthRLEv1   LengthEncoding = 0x1 // LengthRLEv1 represents ORC integer run-length encoding v1.
	LengthVarint  LengthEncoding = 0x2 // LengthVarint represents plain unsigned varints.
	LengthFixed32 LengthEncoding = 0x3 // LengthFixed32 represents fixed 4-byte lengths.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (e LengthEncoding) String() string {
	switch e {
	case LengthRLEv1:
		return "RLEv1"
	case LengthVarint:
		return "Varint"
	case LengthFixed32:
		return "Fixed32"
	default:
		return "Unknown"
	}
}
