package imaging

import "fmt"

// Image is a generic container over a sample type T, holding the same
// structure for plaintext (uint8) and encrypted (fhe.CtInt) images rather
// than duplicating the type (§9 design note: "the same structure holds u8
// and opaque ciphertext values; implement as a parameterised container").
//
// Pixel (x,y) occupies Data[((y*Width)+x)*c : ((y*Width)+x)*c+c), channels
// contiguous with alpha (if any) last. Images are immutable after
// construction: transformations always produce a new Image.
type Image[T any] struct {
	Data      []T
	Size      Size
	ColorType ColorType
}

// New constructs an Image, enforcing the data.len() == width*height*c
// invariant named in spec.md §3.
func New[T any](data []T, size Size, colorType ColorType) (Image[T], error) {
	channels, err := size.Channels(colorType)
	if err != nil {
		return Image[T]{}, err
	}

	want := int(size.Width) * int(size.Height) * channels
	if len(data) != want {
		return Image[T]{}, fmt.Errorf(
			"imaging: data has %d samples, want %d for size %s with %d channels",
			len(data), want, size, channels)
	}

	return Image[T]{Data: data, Size: size, ColorType: colorType}, nil
}

// ChannelCount returns the per-pixel sample count of the image's color type.
func (img Image[T]) ChannelCount() int {
	c, _ := img.ColorType.ChannelCount()
	return c
}

// GetPixel returns the channel-contiguous samples at (x,y), or ok=false if
// any component index would fall outside Data.
func (img Image[T]) GetPixel(x, y uint16) (pixel []T, ok bool) {
	c := img.ChannelCount()
	start := (int(y)*int(img.Size.Width) + int(x)) * c
	end := start + c
	if start < 0 || end > len(img.Data) {
		return nil, false
	}
	return img.Data[start:end], true
}
