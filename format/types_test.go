package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		typ  CompressionType
		want string
	}{
		{CompressionNone, "None"},
		{CompressionZstd, "Zstd"},
		{CompressionS2, "S2"},
		{CompressionLZ4, "LZ4"},
		{CompressionType(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.typ.String())
	}
}

func TestLengthEncoding_String(t *testing.T) {
	require.Equal(t, "RLEv1", LengthRLEv1.String())
	require.Equal(t, "Varint", LengthVarint.String())
	require.Equal(t, "Fixed32", LengthFixed32.String())
	require.Equal(t, "Unknown", LengthEncoding(0).String())
}
