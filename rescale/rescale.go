// Package rescale implements the geometric resampling operations of
// spec.md §4.4: nearest-neighbour and bilinear interpolation.
package rescale

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/privateimg/fhimg/fhe"
	"github.com/privateimg/fhimg/imaging"
	"github.com/privateimg/fhimg/kernel"
)

// Kind selects the resampling algorithm, mirroring the wire protocol's
// InterpolationKind (§6).
type Kind uint8

const (
	Nearest Kind = iota
	Bilinear
)

// scale is the internal width/height ratio used to map a destination
// coordinate back to a source coordinate (§4.4).
type scale struct {
	width  float64
	height float64
}

func scaleFromSizes(from, to imaging.Size) scale {
	return scale{
		width:  float64(from.Width) / float64(to.Width),
		height: float64(from.Height) / float64(to.Height),
	}
}

// inclusiveScale computes the endpoint-inclusive ratios the bilinear path
// samples with, from the MinusOne'd source and target sizes (§4.4). A
// 1-pixel-wide or 1-pixel-tall target has an inclusive span of 0 in that
// dimension; coordinate 0 is then the only sample there, so the ratio pins
// to 0 rather than dividing by 0.
func inclusiveScale(from, to imaging.Size) scale {
	var s scale
	if to.Width > 0 {
		s.width = float64(from.Width) / float64(to.Width)
	}
	if to.Height > 0 {
		s.height = float64(from.Height) / float64(to.Height)
	}
	return s
}

// Rescale dispatches to Nearest or Bilinear, matching spec.md §4.4's
// `rescale(img, key, size, kind)` entry point.
func Rescale(ctx context.Context, eval fhe.Evaluator, img imaging.EncryptedImage, newSize imaging.Size, kind Kind) (imaging.EncryptedImage, error) {
	switch kind {
	case Nearest:
		return nearest(img, newSize)
	case Bilinear:
		return bilinear(ctx, eval, img, newSize)
	default:
		return imaging.EncryptedImage{}, fmt.Errorf("rescale: unknown interpolation kind %d", kind)
	}
}

// nearest maps each output pixel to floor(x*w_ratio), floor(y*h_ratio) in
// the source image and copies all of its channels.
func nearest(img imaging.EncryptedImage, newSize imaging.Size) (imaging.EncryptedImage, error) {
	channels := img.ChannelCount()
	s := scaleFromSizes(img.Size, newSize)

	data := make([]fhe.CtInt, 0, int(newSize.Width)*int(newSize.Height)*channels)
	for y := uint16(0); y < newSize.Height; y++ {
		sy := uint16(float64(y) * s.height)
		for x := uint16(0); x < newSize.Width; x++ {
			sx := uint16(float64(x) * s.width)
			pixel, ok := img.GetPixel(sx, sy)
			if !ok {
				return imaging.EncryptedImage{}, fmt.Errorf("rescale: source pixel (%d,%d) out of bounds", sx, sy)
			}
			data = append(data, pixel...)
		}
	}

	return imaging.NewEncrypted(data, newSize, img.ColorType)
}

// bilinear operates on an inclusive-endpoint scale (computed from
// src.MinusOne() and newSize.MinusOne(), per §4.4) so that a same-size
// rescale samples exact integer coordinates and an upscale's last row/column
// lands exactly on the source's final row/column. Output pixels are farmed
// out to a bounded worker pool sized to GOMAXPROCS, writing each result into
// a pre-sized slice at its row-major index so output ordering never depends
// on scheduling (§5).
func bilinear(ctx context.Context, eval fhe.Evaluator, img imaging.EncryptedImage, newSize imaging.Size) (imaging.EncryptedImage, error) {
	channels := img.ChannelCount()
	s := inclusiveScale(img.Size.MinusOne(), newSize.MinusOne())

	total := int(newSize.Width) * int(newSize.Height)
	data := make([]fhe.CtInt, total*channels)

	workers := runtime.GOMAXPROCS(0)
	if workers > total && total > 0 {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, total)
	for i := 0; i < total; i++ {
		jobs <- i
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workerEval := eval.ShallowCopy()
			for idx := range jobs {
				y := idx / int(newSize.Width)
				x := idx % int(newSize.Width)

				pixel, err := bilinearPixel(ctx, workerEval, img, s, uint16(x), uint16(y), channels)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}

				copy(data[idx*channels:(idx+1)*channels], pixel)
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return imaging.EncryptedImage{}, firstErr
	}

	return imaging.NewEncrypted(data, newSize, img.ColorType)
}

func bilinearPixel(ctx context.Context, eval fhe.Evaluator, img imaging.EncryptedImage, s scale, x, y uint16, channels int) ([]fhe.CtInt, error) {
	xf, yf := float64(x)*s.width, float64(y)*s.height
	x0, x1 := uint16(math.Floor(xf)), uint16(math.Ceil(xf))
	y0, y1 := uint16(math.Floor(yf)), uint16(math.Ceil(yf))
	wx, wy := xf-math.Floor(xf), yf-math.Floor(yf)

	// Accumulated float error in x*ratio can push ceil one past the final
	// source row/column when the product lands epsilon above an integer.
	if maxX := img.Size.Width - 1; x1 > maxX {
		x1 = maxX
	}
	if maxY := img.Size.Height - 1; y1 > maxY {
		y1 = maxY
	}

	a, ok := img.GetPixel(x0, y0)
	if !ok {
		return nil, fmt.Errorf("rescale: source pixel (%d,%d) out of bounds", x0, y0)
	}
	b, ok := img.GetPixel(x1, y0)
	if !ok {
		return nil, fmt.Errorf("rescale: source pixel (%d,%d) out of bounds", x1, y0)
	}
	c, ok := img.GetPixel(x0, y1)
	if !ok {
		return nil, fmt.Errorf("rescale: source pixel (%d,%d) out of bounds", x0, y1)
	}
	d, ok := img.GetPixel(x1, y1)
	if !ok {
		return nil, fmt.Errorf("rescale: source pixel (%d,%d) out of bounds", x1, y1)
	}

	out := make([]fhe.CtInt, channels)
	for i := 0; i < channels; i++ {
		v, err := kernel.BilinearInterp(ctx, eval, a[i], b[i], c[i], d[i], wx, wy)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

