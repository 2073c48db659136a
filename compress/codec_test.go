package compress

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/format"
)

// chunkPayload builds a blob-stream-like chunk: concatenated short strings with repetition.
func chunkPayload(size int) []byte {
	words := [][]byte{
		[]byte("alpha"), []byte("beta"), []byte("gamma-ray"), []byte("delta-force-unit"),
		[]byte(""), []byte("x"), []byte("a-much-longer-value-that-lives-in-the-arena"),
	}
	rng := rand.New(rand.NewPCG(7, 11))

	var buf bytes.Buffer
	for buf.Len() < size {
		buf.Write(words[rng.IntN(len(words))])
	}

	return buf.Bytes()[:size]
}

func allCodecs() map[format.CompressionType]Codec {
	return map[format.CompressionType]Codec{
		format.CompressionNone: NewNoOpCompressor(),
		format.CompressionZstd: NewZstdCompressor(),
		format.CompressionS2:   NewS2Compressor(),
		format.CompressionLZ4:  NewLZ4Compressor(),
	}
}

func TestCreateCodec(t *testing.T) {
	for typ := range allCodecs() {
		codec, err := CreateCodec(typ, "blob")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0x7F), "blob")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	require.Contains(t, err.Error(), "invalid blob compression")
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(format.CompressionS2)
	require.NoError(t, err)
	require.IsType(t, S2Compressor{}, codec)

	_, err = GetCodec(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	// LZ4 reports tiny incompressible blocks as empty output; the stream writer
	// stores those chunks original, so round trips start at compressible sizes.
	sizes := []int{1024, 4096, 64 * 1024}

	for typ, codec := range allCodecs() {
		for _, size := range sizes {
			t.Run(fmt.Sprintf("%s/%d", typ, size), func(t *testing.T) {
				payload := chunkPayload(size)

				compressed, err := codec.Compress(payload)
				require.NoError(t, err)

				restored, err := codec.Decompress(nil, compressed)
				require.NoError(t, err)
				require.Equal(t, payload, restored)
			})
		}
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for typ, codec := range allCodecs() {
		t.Run(typ.String(), func(t *testing.T) {
			restored, err := codec.Decompress(nil, nil)
			require.NoError(t, err)
			require.Empty(t, restored)
		})
	}
}

func TestCodecs_InvalidData(t *testing.T) {
	garbage := []byte{0xFF, 0xFE, 0xFD, 0xFC, 0x00, 0x01, 0x02}

	for _, typ := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		codec, err := GetCodec(typ)
		require.NoError(t, err)

		_, err = codec.Decompress(nil, garbage)
		require.Error(t, err, typ.String())
	}
}

func TestAllCodecs_ReuseBuffer(t *testing.T) {
	first := chunkPayload(16 * 1024)
	second := chunkPayload(4 * 1024)

	for typ, codec := range allCodecs() {
		t.Run(typ.String(), func(t *testing.T) {
			c1, err := codec.Compress(first)
			require.NoError(t, err)
			c2, err := codec.Compress(second)
			require.NoError(t, err)

			buf, err := codec.Decompress(nil, c1)
			require.NoError(t, err)
			require.Equal(t, first, buf)

			out, err := codec.Decompress(buf, c2)
			require.NoError(t, err)
			require.Equal(t, second, out)
			require.Same(t, &buf[:1][0], &out[:1][0], "smaller chunk decodes in place")
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	payload := chunkPayload(8 * 1024)

	for typ, codec := range allCodecs() {
		t.Run(typ.String(), func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, 16)

			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					compressed, err := codec.Compress(payload)
					if err != nil {
						errCh <- err
						return
					}
					restored, err := codec.Decompress(nil, compressed)
					if err != nil {
						errCh <- err
						return
					}
					if !bytes.Equal(payload, restored) {
						errCh <- fmt.Errorf("%s: round trip mismatch", typ)
					}
				}()
			}
			wg.Wait()
			close(errCh)

			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}

func TestLZ4_HighExpansionRatio(t *testing.T) {
	codec := NewLZ4Compressor()
	payload := bytes.Repeat([]byte{'z'}, 256*1024)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Less(t, len(compressed)*4, len(payload), "expansion must exceed the initial 4x guess")

	restored, err := codec.Decompress(nil, compressed)
	require.NoError(t, err)
	require.Equal(t, payload, restored)
}

func BenchmarkCodecs_Decompress(b *testing.B) {
	payload := chunkPayload(256 * 1024)

	for typ, codec := range allCodecs() {
		compressed, err := codec.Compress(payload)
		require.NoError(b, err)

		b.Run(typ.String(), func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			b.ReportAllocs()
			var out []byte
			for b.Loop() {
				out, _ = codec.Decompress(out, compressed)
			}
		})
	}
}
