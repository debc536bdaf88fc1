package rescale

import (
	"context"
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

// S2: 2x2 RGB upscaled 2x with Nearest replicates each source pixel into a
// 2x2 block, row-major.
func TestNearestUpscale2x(t *testing.T) {
	f := setup(t)
	data := []uint8{
		0, 0, 0, 255, 0, 0,
		0, 255, 0, 0, 0, 255,
	}
	enc := encryptPlain(t, f, data, imaging.Size{Width: 2, Height: 2}, imaging.Rgb)

	out, err := Rescale(context.Background(), f.eval, enc, imaging.Size{Width: 4, Height: 4}, Nearest)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	want := []uint8{
		0, 0, 0, 0, 0, 0, 255, 0, 0, 255, 0, 0,
		0, 0, 0, 0, 0, 0, 255, 0, 0, 255, 0, 0,
		0, 255, 0, 0, 255, 0, 0, 0, 255, 0, 0, 255,
		0, 255, 0, 0, 255, 0, 0, 0, 255, 0, 0, 255,
	}
	require.Equal(t, want, plain.Data)
}

// S3: 4x4 gradient v(x,y)=16y+4x downscaled to 2x2 with Nearest samples
// (0,0),(2,0),(0,2),(2,2) = [0,8,32,40].
func TestNearestDownscale(t *testing.T) {
	f := setup(t)
	data := make([]uint8, 16)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			data[y*4+x] = uint8(16*y + 4*x)
		}
	}
	enc := encryptPlain(t, f, data, imaging.Size{Width: 4, Height: 4}, imaging.Grayscale)

	out, err := Rescale(context.Background(), f.eval, enc, imaging.Size{Width: 2, Height: 2}, Nearest)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	require.Equal(t, []uint8{0, 8, 32, 40}, plain.Data)
}

func TestNearestIdentity(t *testing.T) {
	f := setup(t)
	data := []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	size := imaging.Size{Width: 2, Height: 2}
	enc := encryptPlain(t, f, data, size, imaging.Rgb)

	out, err := Rescale(context.Background(), f.eval, enc, size, Nearest)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	require.Equal(t, data, plain.Data)
}

// S4: 2x1 Grayscale [0,128] bilinear to 3x1 yields [0, 64±1, 128].
func TestBilinearMidpoint(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, []uint8{0, 128}, imaging.Size{Width: 2, Height: 1}, imaging.Grayscale)

	out, err := Rescale(context.Background(), f.eval, enc, imaging.Size{Width: 3, Height: 1}, Bilinear)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	require.Equal(t, uint8(0), plain.Data[0])
	require.InDelta(t, 64, plain.Data[1], 1)
	require.Equal(t, uint8(128), plain.Data[2])
}

func TestBilinearVerticalStrip(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, []uint8{0, 128}, imaging.Size{Width: 1, Height: 2}, imaging.Grayscale)

	out, err := Rescale(context.Background(), f.eval, enc, imaging.Size{Width: 1, Height: 3}, Bilinear)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	require.Equal(t, uint8(0), plain.Data[0])
	require.InDelta(t, 64, plain.Data[1], 1)
	require.Equal(t, uint8(128), plain.Data[2])
}

func TestBilinearIdentity(t *testing.T) {
	f := setup(t)
	data := []uint8{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160, 170, 180}
	size := imaging.Size{Width: 3, Height: 2}
	enc := encryptPlain(t, f, data, size, imaging.Rgb)

	out, err := Rescale(context.Background(), f.eval, enc, size, Bilinear)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	for i := range data {
		require.InDelta(t, data[i], plain.Data[i], 1)
	}
}

func TestBilinearConstantImage(t *testing.T) {
	f := setup(t)
	data := make([]uint8, 9)
	for i := range data {
		data[i] = 77
	}
	enc := encryptPlain(t, f, data, imaging.Size{Width: 3, Height: 3}, imaging.Grayscale)

	out, err := Rescale(context.Background(), f.eval, enc, imaging.Size{Width: 5, Height: 5}, Bilinear)
	require.NoError(t, err)

	plain := decryptAll(t, f, out)
	for _, v := range plain.Data {
		require.InDelta(t, 77, v, 1)
	}
}

func TestRescaleShapeInvariant(t *testing.T) {
	f := setup(t)
	enc := encryptPlain(t, f, make([]uint8, 4*4*4), imaging.Size{Width: 4, Height: 4}, imaging.Rgba)

	out, err := Rescale(context.Background(), f.eval, enc, imaging.Size{Width: 6, Height: 2}, Bilinear)
	require.NoError(t, err)
	require.Len(t, out.Data, 6*2*4)
}
