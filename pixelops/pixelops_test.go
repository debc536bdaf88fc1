package pixelops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/privateimg/fhimg/fhe"
	"github.com/privateimg/fhimg/imaging"
)

type fixture struct {
	ck   fhe.ClientKey
	eval fhe.Evaluator
}

func setup(t *testing.T) fixture {
	t.Helper()
	params, err := fhe.NewParametersFromLiteral(fhe.ParamMessage2Carry2)
	require.NoError(t, err)
	ck, sk, err := fhe.NewKeyGenerator(params).GenKeyPair()
	require.NoError(t, err)
	return fixture{ck: ck, eval: fhe.NewEvaluator(sk)}
}

func encryptPlain(t *testing.T, f fixture, data []uint8, size imaging.Size, ct imaging.ColorType) imaging.EncryptedImage {
	t.Helper()
	plain, err := imaging.NewPlaintext(data, size, ct)
	require.NoError(t, err)
	enc, err := imaging.EncryptImage(plain, f.ck)
	require.NoError(t, err)
	return enc
}

func decryptAll(t *testing.T, f fixture, img imaging.EncryptedImage) imaging.PlaintextImage {
	t.Helper()
	p, err := imaging.DecryptImage(img, f.ck)
	require.NoError(t, err)
	return p
}

// S5: 1x1 RGBA (10,20,30,200) -> Invert yields (245,235,225,200).
func TestInvertRGBA(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, []uint8{10, 20, 30, 200}, imaging.Size{Width: 1, Height: 1}, imaging.Rgba)

	out, err := Invert(f.eval, enc)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	require.Equal(t, []uint8{245, 235, 225, 200}, plain.Data)
	require.Equal(t, imaging.Rgba, plain.ColorType)
}

func TestInvertNoAlpha(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, []uint8{0, 128, 255}, imaging.Size{Width: 1, Height: 1}, imaging.Rgb)

	out, err := Invert(f.eval, enc)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	require.Equal(t, []uint8{255, 127, 0}, plain.Data)
}

func TestInvertInvolution(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, []uint8{3, 200, 77, 9}, imaging.Size{Width: 1, Height: 1}, imaging.Rgba)

	once, err := Invert(f.eval, enc)
	require.NoError(t, err)
	twice, err := Invert(f.eval, once)
	require.NoError(t, err)

	plain := decryptAll(t, f, twice)
	require.Equal(t, []uint8{3, 200, 77, 9}, plain.Data)
}

// S6: 1x1 RGBA (90,150,210,77) -> Grayscale yields GrayscaleAlpha (150±1, 77).
func TestGrayscaleRGBA(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, []uint8{90, 150, 210, 77}, imaging.Size{Width: 1, Height: 1}, imaging.Rgba)

	out, ok, err := Grayscale(f.eval, enc)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, imaging.GrayscaleAlpha, out.ColorType)

	plain := decryptAll(t, f, out)
	require.InDelta(t, 150, plain.Data[0], 1)
	require.Equal(t, uint8(77), plain.Data[1])
}

func TestGrayscaleRGB(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, []uint8{9, 99, 189}, imaging.Size{Width: 1, Height: 1}, imaging.Rgb)

	out, ok, err := Grayscale(f.eval, enc)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, imaging.Grayscale, out.ColorType)

	plain := decryptAll(t, f, out)
	require.InDelta(t, 99, plain.Data[0], 1)
}

func TestGrayscaleUndefinedForNonRGB(t *testing.T) {
	f := setup(t)
	for _, ct := range []imaging.ColorType{imaging.Grayscale, imaging.Indexed, imaging.GrayscaleAlpha} {
		channels, _ := ct.ChannelCount()
		data := make([]uint8, channels)
		enc := encryptPlain(t, f, data, imaging.Size{Width: 1, Height: 1}, ct)

		_, ok, err := Grayscale(f.eval, enc)
		require.NoError(t, err)
		require.False(t, ok)
	}
}
