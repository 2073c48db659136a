package encoding

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/strcol/endian"
	"github.com/arloliu/strcol/errs"
	"github.com/arloliu/strcol/format"
	"github.com/arloliu/strcol/stream"
)

var allEncodings = []format.LengthEncoding{format.LengthRLEv1, format.LengthVarint, format.LengthFixed32}

func encodeLengths(t *testing.T, enc format.LengthEncoding, lengths []uint32) []byte {
	t.Helper()

	e, err := NewLengthEncoder(enc, endian.GetLittleEndianEngine())
	require.NoError(t, err)
	defer e.Finish()

	e.WriteSlice(lengths)
	require.Equal(t, len(lengths), e.Len())

	out := append([]byte(nil), e.Bytes()...)
	require.Equal(t, len(out), e.Size())

	return out
}

func newDecoder(t *testing.T, enc format.LengthEncoding, data []byte, window int) LengthDecoder {
	t.Helper()

	d, err := NewLengthDecoder(enc, stream.NewBytesInput(data, window), endian.GetLittleEndianEngine())
	require.NoError(t, err)

	return d
}

func lengthPatterns() map[string][]uint32 {
	r := rand.New(rand.NewSource(7))
	random := make([]uint32, 1000)
	for i := range random {
		random[i] = uint32(r.Intn(40))
	}

	constant := make([]uint32, 300)
	for i := range constant {
		constant[i] = 12
	}

	ramp := make([]uint32, 260)
	for i := range ramp {
		ramp[i] = uint32(1000 - 3*i)
	}

	mixed := []uint32{5, 5, 5, 5, 1, 9, 100000, 4294967295, 0, 0, 0, 7, 8, 9, 10, 3}

	return map[string][]uint32{
		"single":   {42},
		"random":   random,
		"constant": constant,
		"ramp":     ramp,
		"mixed":    mixed,
		"empty":    {},
	}
}

func TestLengthRoundTrip(t *testing.T) {
	for _, enc := range allEncodings {
		for name, lengths := range lengthPatterns() {
			t.Run(enc.String()+"/"+name, func(t *testing.T) {
				data := encodeLengths(t, enc, lengths)
				d := newDecoder(t, enc, data, 7)

				// decode in uneven batches so runs straddle calls
				got := make([]uint32, 0, len(lengths))
				for batch := 1; len(got) < len(lengths); batch = batch*2 + 1 {
					n := min(batch, len(lengths)-len(got))
					dst := make([]uint32, n)
					require.NoError(t, d.NextLengths(dst))
					got = append(got, dst...)
				}
				require.Equal(t, lengths, append([]uint32{}, got...))

				require.ErrorIs(t, d.NextLengths(make([]uint32, 1)), errs.ErrUnexpectedEOF)
			})
		}
	}
}

func TestLengthSkip(t *testing.T) {
	lengths := lengthPatterns()["random"]
	lengths = append(lengths, lengthPatterns()["ramp"]...)

	for _, enc := range allEncodings {
		for _, skip := range []int{0, 1, 2, 127, 128, 129, 500, 1000, 1200} {
			data := encodeLengths(t, enc, lengths)
			d := newDecoder(t, enc, data, 16)

			head := make([]uint32, 3)
			require.NoError(t, d.NextLengths(head))
			require.NoError(t, d.Skip(skip), "%s skip %d", enc, skip)

			dst := make([]uint32, 50)
			require.NoError(t, d.NextLengths(dst))
			require.Equal(t, lengths[3+skip:3+skip+50], dst, "%s skip %d", enc, skip)
		}
	}
}

func TestRLEv1Layout(t *testing.T) {
	tests := []struct {
		name    string
		lengths []uint32
		want    []byte
	}{
		{
			name:    "repeated value run",
			lengths: repeatValue(7, 100),
			want:    []byte{0x61, 0x00, 0x07},
		},
		{
			name:    "literal group",
			lengths: []uint32{2, 3, 6, 7, 11},
			want:    []byte{0xfb, 0x02, 0x03, 0x06, 0x07, 0x0b},
		},
		{
			name:    "descending run",
			lengths: []uint32{10, 9, 8, 7},
			want:    []byte{0x01, 0xff, 0x0a},
		},
		{
			name:    "literals then run",
			lengths: []uint32{1, 50, 4, 4, 4},
			want:    []byte{0xfe, 0x01, 0x32, 0x00, 0x00, 0x04},
		},
		{
			name:    "delta too wide for a run",
			lengths: []uint32{0, 200, 400},
			want:    []byte{0xfd, 0x00, 0xc8, 0x01, 0x90, 0x03},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, encodeLengths(t, format.LengthRLEv1, tt.lengths))
		})
	}
}

func TestRLEv1LongRunsSplit(t *testing.T) {
	// 130 is the longest run a header can describe
	data := encodeLengths(t, format.LengthRLEv1, repeatValue(3, 300))
	require.Equal(t, []byte{0x7f, 0x00, 0x03, 0x7f, 0x00, 0x03, 0x25, 0x00, 0x03}, data)
}

func TestFixed32ByteOrder(t *testing.T) {
	e := NewFixed32Encoder(endian.GetBigEndianEngine())
	defer e.Finish()

	e.Write(0x01020304)
	require.Equal(t, []byte{1, 2, 3, 4}, e.Bytes())

	d := NewFixed32Decoder(stream.NewBytesInput(e.Bytes(), 0), endian.GetBigEndianEngine())
	dst := make([]uint32, 1)
	require.NoError(t, d.NextLengths(dst))
	require.Equal(t, uint32(0x01020304), dst[0])
}

func TestLengthDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		enc  format.LengthEncoding
		data []byte
		want error
	}{
		{"rle truncated run", format.LengthRLEv1, []byte{0x00}, errs.ErrUnexpectedEOF},
		{"rle truncated literal", format.LengthRLEv1, []byte{0xfe, 0x01}, errs.ErrUnexpectedEOF},
		{"rle run leaves 32 bits", format.LengthRLEv1, []byte{0x00, 0x01, 0xff, 0xff, 0xff, 0xff, 0x0f}, errs.ErrCorruptLengthStream},
		{"rle negative run", format.LengthRLEv1, []byte{0x00, 0xff, 0x00}, errs.ErrCorruptLengthStream},
		{"varint too wide", format.LengthVarint, []byte{0x80, 0x80, 0x80, 0x80, 0x10}, errs.ErrCorruptLengthStream},
		{"varint overflow", format.LengthVarint, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, errs.ErrCorruptLengthStream},
		{"varint truncated", format.LengthVarint, []byte{0x80}, errs.ErrUnexpectedEOF},
		{"fixed truncated", format.LengthFixed32, []byte{1, 2, 3}, errs.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDecoder(t, tt.enc, tt.data, 0)
			require.ErrorIs(t, d.NextLengths(make([]uint32, 3)), tt.want)
		})
	}
}

func TestUnsupportedLengthEncoding(t *testing.T) {
	_, err := NewLengthEncoder(format.LengthEncoding(0), nil)
	require.ErrorIs(t, err, errs.ErrUnsupportedLengthEncoding)

	_, err = NewLengthDecoder(format.LengthEncoding(9), nil, nil)
	require.ErrorIs(t, err, errs.ErrUnsupportedLengthEncoding)
}

func TestEncoderWriteAfterFinishPanics(t *testing.T) {
	for _, enc := range allEncodings {
		e, err := NewLengthEncoder(enc, endian.GetLittleEndianEngine())
		require.NoError(t, err)
		e.Finish()
		require.Panics(t, func() { e.Write(1) }, enc.String())
	}
}

func repeatValue(v uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func BenchmarkRLEv1Decode(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	lengths := make([]uint32, 4096)
	for i := range lengths {
		lengths[i] = uint32(r.Intn(24))
	}

	e := NewRLEv1Encoder()
	e.WriteSlice(lengths)
	data := append([]byte(nil), e.Bytes()...)
	e.Finish()

	dst := make([]uint32, len(lengths))
	for b.Loop() {
		d := NewRLEv1Decoder(stream.NewBytesInput(data, 0))
		if err := d.NextLengths(dst); err != nil {
			b.Fatal(err)
		}
	}
}
