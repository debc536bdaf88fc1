package imaging

import "fmt"

// Size is a (width, height) pair of unsigned 16-bit values (spec.md §3).
type Size struct {
	Width  uint16
	Height uint16
}

// String formats the size as "WxH", matching the teacher's Debug impl for
// the original Rust Size type.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// MinusOne clamps each field to w-1/h-1, floored at 0 — used by the
// bilinear path to compute an inclusive-endpoint scale (§4.4).
func (s Size) MinusOne() Size {
	out := s
	if out.Width > 0 {
		out.Width--
	}
	if out.Height > 0 {
		out.Height--
	}
	return out
}

// Channels returns the per-pixel sample count for ct and validates that
// width*height*channels fits a 32-bit index space (the Size invariant of
// §3).
func (s Size) Channels(ct ColorType) (int, error) {
	c, err := ct.ChannelCount()
	if err != nil {
		return 0, err
	}

	total := uint64(s.Width) * uint64(s.Height) * uint64(c)
	if total > uint64(^uint32(0)) {
		return 0, fmt.Errorf("imaging: size %s with %d channels overflows 32-bit index space", s, c)
	}

	return c, nil
}
