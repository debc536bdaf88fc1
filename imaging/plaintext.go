package imaging

// PlaintextImage is an Image of raw 8-bit samples.
type PlaintextImage = Image[uint8]

// NewPlaintext constructs a PlaintextImage, enforcing the data-length
// invariant.
func NewPlaintext(data []uint8, size Size, colorType ColorType) (PlaintextImage, error) {
	return New(data, size, colorType)
}
