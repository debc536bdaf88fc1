// Package pixelops implements the per-pixel transformations of spec.md
// §4.3: invert and grayscale. Invert is dispatched on ColorType.HasAlpha()
// rather than a type switch per color type (§9 design note); Grayscale
// switches on the two color types it is defined for, Rgb and Rgba.
package pixelops

import (
	"github.com/privateimg/fhimg/fhe"
	"github.com/privateimg/fhimg/imaging"
	"github.com/privateimg/fhimg/kernel"
)

// Invert returns a new EncryptedImage with every non-alpha sample replaced
// by its 255-complement. Alpha channels, if present, are copied unchanged.
func Invert(eval fhe.Evaluator, img imaging.EncryptedImage) (imaging.EncryptedImage, error) {
	channels := img.ChannelCount()
	out := make([]fhe.CtInt, len(img.Data))

	if !img.ColorType.HasAlpha() {
		for i, x := range img.Data {
			out[i] = kernel.InvertU8(eval, x)
		}
		return imaging.NewEncrypted(out, img.Size, img.ColorType)
	}

	for y := uint16(0); y < img.Size.Height; y++ {
		for x := uint16(0); x < img.Size.Width; x++ {
			pixel, ok := img.GetPixel(x, y)
			if !ok {
				continue
			}
			base := (int(y)*int(img.Size.Width) + int(x)) * channels
			for i := 0; i < channels-1; i++ {
				out[base+i] = kernel.InvertU8(eval, pixel[i])
			}
			out[base+channels-1] = pixel[channels-1]
		}
	}

	return imaging.NewEncrypted(out, img.Size, img.ColorType)
}

// Grayscale averages the R, G, B samples of every pixel into a single
// channel. It is defined only for Rgb and Rgba inputs; ok is false
// otherwise, matching spec.md §4.3's "grayscale(img) -> EncryptedImage |
// none".
func Grayscale(eval fhe.Evaluator, img imaging.EncryptedImage) (out imaging.EncryptedImage, ok bool, err error) {
	var outColorType imaging.ColorType
	switch img.ColorType {
	case imaging.Rgb:
		outColorType = imaging.Grayscale
	case imaging.Rgba:
		outColorType = imaging.GrayscaleAlpha
	default:
		return imaging.EncryptedImage{}, false, nil
	}

	outChannels, _ := outColorType.ChannelCount()
	data := make([]fhe.CtInt, 0, int(img.Size.Width)*int(img.Size.Height)*outChannels)

	for y := uint16(0); y < img.Size.Height; y++ {
		for x := uint16(0); x < img.Size.Width; x++ {
			pixel, got := img.GetPixel(x, y)
			if !got {
				continue
			}

			data = append(data, kernel.Avg3(eval, pixel[0], pixel[1], pixel[2]))
			if img.ColorType == imaging.Rgba {
				data = append(data, pixel[3])
			}
		}
	}

	out, err = imaging.NewEncrypted(data, img.Size, outColorType)
	if err != nil {
		return imaging.EncryptedImage{}, false, err
	}
	return out, true, nil
}
