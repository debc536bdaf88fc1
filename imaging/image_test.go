package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privateimg/fhimg/fhe"
)

func TestNewRejectsWrongLength(t *testing.T) {
	_, err := New([]uint8{1, 2, 3}, Size{Width: 2, Height: 2}, Rgb)
	require.Error(t, err)
}

func TestGetPixelBounds(t *testing.T) {
	img, err := New([]uint8{1, 2, 3, 4, 5, 6}, Size{Width: 2, Height: 1}, Rgb)
	require.NoError(t, err)

	pixel, ok := img.GetPixel(1, 0)
	require.True(t, ok)
	require.Equal(t, []uint8{4, 5, 6}, pixel)

	_, ok = img.GetPixel(5, 0)
	require.False(t, ok)
}

func TestSizeMinusOne(t *testing.T) {
	require.Equal(t, Size{Width: 0, Height: 3}, Size{Width: 0, Height: 4}.MinusOne())
	require.Equal(t, Size{Width: 1, Height: 1}, Size{Width: 2, Height: 2}.MinusOne())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	params, err := fhe.NewParametersFromLiteral(fhe.ParamMessage2Carry2)
	require.NoError(t, err)
	ck, _, err := fhe.NewKeyGenerator(params).GenKeyPair()
	require.NoError(t, err)

	plain, err := NewPlaintext([]uint8{10, 20, 30, 40, 50, 60}, Size{Width: 2, Height: 1}, Rgb)
	require.NoError(t, err)

	enc, err := EncryptImage(plain, ck)
	require.NoError(t, err)
	require.Equal(t, plain.Size, enc.Size)
	require.Equal(t, plain.ColorType, enc.ColorType)

	back, err := DecryptImage(enc, ck)
	require.NoError(t, err)
	require.Equal(t, plain, back)
}

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 200})

	img, err := Decode(bytes.NewReader(encodeTestPNG(t, src)))
	require.NoError(t, err)
	require.Equal(t, Rgba, img.ColorType)
	require.Equal(t, []uint8{10, 20, 30, 200}, img.Data)
}

func TestDecodeGrayscale(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 5})
	src.SetGray(1, 0, color.Gray{Y: 250})

	img, err := Decode(bytes.NewReader(encodeTestPNG(t, src)))
	require.NoError(t, err)
	require.Equal(t, Grayscale, img.ColorType)
	require.Equal(t, []uint8{5, 250}, img.Data)
}

func TestEncodeWritesColorSpaceChunks(t *testing.T) {
	plain, err := NewPlaintext([]uint8{1, 2, 3}, Size{Width: 1, Height: 1}, Rgb)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, plain))

	raw := buf.Bytes()
	for _, chunk := range []string{"sRGB", "gAMA", "cHRM"} {
		require.True(t, bytes.Contains(raw, []byte(chunk)), "missing %s chunk", chunk)
	}

	var again bytes.Buffer
	require.NoError(t, Encode(&again, plain))
	require.Equal(t, raw, again.Bytes())

	_, err = Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	plain, err := NewPlaintext([]uint8{10, 20, 30, 200, 1, 2, 3, 4}, Size{Width: 2, Height: 1}, Rgba)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, plain))

	back, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, plain, back)
}
