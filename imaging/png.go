package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// ErrUnsupportedBitDepth is returned by Load when the source PNG uses a bit
// depth other than 8 (spec.md §4.1, Non-goals).
var ErrUnsupportedBitDepth = errors.New("imaging: unsupported bit depth, only 8-bit PNG is supported")

// pngSignature is the 8-byte magic every PNG stream starts with.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// PNG color-type byte values from the IHDR chunk (not to be confused with
// this package's ColorType).
const (
	pngColorGrayscale      = 0
	pngColorTrueColor      = 2
	pngColorIndexed        = 3
	pngColorGrayscaleAlpha = 4
	pngColorTrueColorAlpha = 6
)

// Load decodes an 8-bit PNG from path into a PlaintextImage, recording its
// color type from the PNG header.
func Load(path string) (PlaintextImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return PlaintextImage{}, fmt.Errorf("imaging: opening %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads an 8-bit PNG from r into a PlaintextImage. The color type and
// bit depth are read directly from the IHDR chunk (spec.md §4.1: "Records
// color_type from the PNG header") rather than inferred from the decoded
// image's Go type, since Go's standard decoder promotes both
// grayscale-alpha and true-color-alpha sources to the same *image.NRGBA and
// would otherwise conflate the two.
func Decode(r io.Reader) (PlaintextImage, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return PlaintextImage{}, fmt.Errorf("imaging: reading png: %w", err)
	}

	bitDepth, pngColorType, err := readIHDR(raw)
	if err != nil {
		return PlaintextImage{}, err
	}
	if bitDepth != 8 {
		return PlaintextImage{}, ErrUnsupportedBitDepth
	}

	colorType, err := fromPNGColorType(pngColorType)
	if err != nil {
		return PlaintextImage{}, err
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return PlaintextImage{}, fmt.Errorf("imaging: decoding png: %w", err)
	}

	bounds := img.Bounds()
	size := Size{Width: uint16(bounds.Dx()), Height: uint16(bounds.Dy())}

	channels, err := colorType.ChannelCount()
	if err != nil {
		return PlaintextImage{}, err
	}

	data := make([]uint8, 0, int(size.Width)*int(size.Height)*channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			data = appendSamples(data, img, colorType, x, y)
		}
	}

	return NewPlaintext(data, size, colorType)
}

// readIHDR parses the bit depth and PNG color-type byte out of the file's
// leading IHDR chunk: an 8-byte signature, a 4-byte length, the 4-byte
// ASCII chunk type, then the chunk payload (width, height, bit depth,
// color type, compression, filter, interlace).
func readIHDR(raw []byte) (bitDepth, colorType uint8, err error) {
	const headerLen = 8 + 4 + 4 + 13 // signature + length + "IHDR" + payload
	if len(raw) < headerLen || !bytes.Equal(raw[:8], pngSignature) {
		return 0, 0, errors.New("imaging: not a PNG file")
	}
	if string(raw[12:16]) != "IHDR" {
		return 0, 0, errors.New("imaging: PNG missing leading IHDR chunk")
	}

	payload := raw[16:29]
	bitDepth = payload[8]
	colorType = payload[9]

	return bitDepth, colorType, nil
}

func fromPNGColorType(pngColorType uint8) (ColorType, error) {
	switch pngColorType {
	case pngColorGrayscale:
		return Grayscale, nil
	case pngColorIndexed:
		return Indexed, nil
	case pngColorGrayscaleAlpha:
		return GrayscaleAlpha, nil
	case pngColorTrueColor:
		return Rgb, nil
	case pngColorTrueColorAlpha:
		return Rgba, nil
	default:
		return 0, fmt.Errorf("imaging: unsupported PNG color type %d", pngColorType)
	}
}

func appendSamples(data []uint8, img image.Image, ct ColorType, x, y int) []uint8 {
	switch ct {
	case Grayscale:
		g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
		return append(data, g.Y)
	case Indexed:
		g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
		return append(data, g.Y)
	case GrayscaleAlpha:
		r, _, _, a := nonPremultiplied(img.At(x, y))
		return append(data, r, a)
	case Rgb:
		r, g, b, _ := img.At(x, y).RGBA()
		return append(data, uint8(r>>8), uint8(g>>8), uint8(b>>8))
	case Rgba:
		r, g, b, a := nonPremultiplied(img.At(x, y))
		return append(data, r, g, b, a)
	default:
		return data
	}
}

// nonPremultiplied extracts straight-alpha RGBA samples, undoing Go's
// default alpha premultiplication so round-tripping through Save reproduces
// the original channel values.
func nonPremultiplied(c color.Color) (r, g, b, a uint8) {
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return nrgba.R, nrgba.G, nrgba.B, nrgba.A
}

// Save encodes img as an 8-bit PNG to path, color type mirrored from img.
func Save(path string, img PlaintextImage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imaging: creating %s: %w", path, err)
	}
	defer f.Close()

	return Encode(f, img)
}

// Encode writes img as an 8-bit PNG to w. Go's encoder emits no color-space
// metadata, so the fixed sRGB/gAMA/cHRM chunks are spliced in directly after
// the IHDR chunk, where the PNG spec requires them (before PLTE and IDAT).
// Every encoded file therefore carries the same color-space chunks,
// byte-for-byte.
func Encode(w io.Writer, img PlaintextImage) error {
	if _, err := img.ColorType.ChannelCount(); err != nil {
		return err
	}

	dst, err := toStdImage(img)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return fmt.Errorf("imaging: encoding png: %w", err)
	}

	return writeWithColorChunks(w, buf.Bytes())
}

// Fixed color-space chunk payloads: perceptual sRGB rendering intent, the
// sRGB transfer gamma of 1/2.2, and the Rec.709 primaries with D65 white
// point, all in the PNG spec's 1e-5 fixed-point units. These are the
// fallback values the spec pairs with an sRGB chunk.
const (
	srgbIntentPerceptual = 0
	srgbGamma            = 45455
)

var srgbChromaticities = [8]uint32{
	31270, 32900, // white
	64000, 33000, // red
	30000, 60000, // green
	15000, 6000, // blue
}

// writeWithColorChunks copies an encoded PNG stream to w, inserting the
// fixed sRGB, gAMA, and cHRM chunks between the IHDR chunk and whatever
// follows it.
func writeWithColorChunks(w io.Writer, raw []byte) error {
	const ihdrEnd = 8 + 4 + 4 + 13 + 4 // signature + length + "IHDR" + payload + crc
	if len(raw) < ihdrEnd || !bytes.Equal(raw[:8], pngSignature) || string(raw[12:16]) != "IHDR" {
		return errors.New("imaging: encoder produced a stream without a leading IHDR chunk")
	}

	if _, err := w.Write(raw[:ihdrEnd]); err != nil {
		return fmt.Errorf("imaging: writing png header: %w", err)
	}

	if err := writeChunk(w, "sRGB", []byte{srgbIntentPerceptual}); err != nil {
		return err
	}

	var gama [4]byte
	binary.BigEndian.PutUint32(gama[:], srgbGamma)
	if err := writeChunk(w, "gAMA", gama[:]); err != nil {
		return err
	}

	var chrm [32]byte
	for i, v := range srgbChromaticities {
		binary.BigEndian.PutUint32(chrm[i*4:], v)
	}
	if err := writeChunk(w, "cHRM", chrm[:]); err != nil {
		return err
	}

	if _, err := w.Write(raw[ihdrEnd:]); err != nil {
		return fmt.Errorf("imaging: writing png data: %w", err)
	}
	return nil
}

// writeChunk emits one PNG chunk: payload length, 4-byte type, payload, and
// a CRC-32 over the type and payload.
func writeChunk(w io.Writer, name string, payload []byte) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(payload)))
	copy(header[4:], name)

	crc := crc32.NewIEEE()
	crc.Write(header[4:8])
	crc.Write(payload)
	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())

	for _, part := range [][]byte{header[:], payload, footer[:]} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("imaging: writing %s chunk: %w", name, err)
		}
	}
	return nil
}

func toStdImage(img PlaintextImage) (image.Image, error) {
	bounds := image.Rect(0, 0, int(img.Size.Width), int(img.Size.Height))

	switch img.ColorType {
	case Grayscale, Indexed:
		dst := image.NewGray(bounds)
		for y := 0; y < int(img.Size.Height); y++ {
			for x := 0; x < int(img.Size.Width); x++ {
				pixel, _ := img.GetPixel(uint16(x), uint16(y))
				dst.SetGray(x, y, color.Gray{Y: pixel[0]})
			}
		}
		return dst, nil
	case GrayscaleAlpha:
		dst := image.NewNRGBA(bounds)
		for y := 0; y < int(img.Size.Height); y++ {
			for x := 0; x < int(img.Size.Width); x++ {
				pixel, _ := img.GetPixel(uint16(x), uint16(y))
				dst.SetNRGBA(x, y, color.NRGBA{R: pixel[0], G: pixel[0], B: pixel[0], A: pixel[1]})
			}
		}
		return dst, nil
	case Rgb:
		dst := image.NewNRGBA(bounds)
		for y := 0; y < int(img.Size.Height); y++ {
			for x := 0; x < int(img.Size.Width); x++ {
				pixel, _ := img.GetPixel(uint16(x), uint16(y))
				dst.SetNRGBA(x, y, color.NRGBA{R: pixel[0], G: pixel[1], B: pixel[2], A: 255})
			}
		}
		return dst, nil
	case Rgba:
		dst := image.NewNRGBA(bounds)
		for y := 0; y < int(img.Size.Height); y++ {
			for x := 0; x < int(img.Size.Width); x++ {
				pixel, _ := img.GetPixel(uint16(x), uint16(y))
				dst.SetNRGBA(x, y, color.NRGBA{R: pixel[0], G: pixel[1], B: pixel[2], A: pixel[3]})
			}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("imaging: unknown color type %d", img.ColorType)
	}
}
