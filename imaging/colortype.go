package imaging

import "fmt"

// ColorType is the tagged variant spec.md §3 maps to a channel count:
// Grayscale=1, Indexed=1, GrayscaleAlpha=2, Rgb=3, Rgba=4.
type ColorType uint8

const (
	Grayscale ColorType = iota
	Indexed
	GrayscaleAlpha
	Rgb
	Rgba
)

// ChannelCount returns the number of samples per pixel for ct.
func (ct ColorType) ChannelCount() (int, error) {
	switch ct {
	case Grayscale, Indexed:
		return 1, nil
	case GrayscaleAlpha:
		return 2, nil
	case Rgb:
		return 3, nil
	case Rgba:
		return 4, nil
	default:
		return 0, fmt.Errorf("imaging: unknown color type %d", ct)
	}
}

// HasAlpha reports whether ct's last channel is an alpha channel that must
// be treated as opaque data and never transformed arithmetically (§3). This
// is queried at the operation level rather than encoded as a stored boolean
// field, per SPEC_FULL.md §9: it keeps dispatch total and future color types
// additive.
func (ct ColorType) HasAlpha() bool {
	return ct == GrayscaleAlpha || ct == Rgba
}

// String renders a human-readable name, used in log fields and error
// messages.
func (ct ColorType) String() string {
	switch ct {
	case Grayscale:
		return "grayscale"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case Rgb:
		return "rgb"
	case Rgba:
		return "rgba"
	default:
		return fmt.Sprintf("colortype(%d)", uint8(ct))
	}
}
