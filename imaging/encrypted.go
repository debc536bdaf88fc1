package imaging

import (
	"fmt"

	"github.com/privateimg/fhimg/fhe"
)

// EncryptedImage is an Image of CtInt ciphertexts, one per sample, with no
// packing across samples (spec.md §3).
type EncryptedImage = Image[fhe.CtInt]

// NewEncrypted constructs an EncryptedImage, enforcing the data-length
// invariant.
func NewEncrypted(data []fhe.CtInt, size Size, colorType ColorType) (EncryptedImage, error) {
	return New(data, size, colorType)
}

// EncryptImage encrypts every sample of p independently under key,
// producing an EncryptedImage of the same size and color type.
func EncryptImage(p PlaintextImage, key fhe.ClientKey) (EncryptedImage, error) {
	enc := fhe.NewEncryptor(key)

	data := make([]fhe.CtInt, len(p.Data))
	for i, v := range p.Data {
		ct, err := enc.EncryptNew(uint64(v))
		if err != nil {
			return EncryptedImage{}, fmt.Errorf("imaging: encrypting sample %d: %w", i, err)
		}
		data[i] = ct
	}

	return NewEncrypted(data, p.Size, p.ColorType)
}

// DecryptImage decrypts every sample of e independently under key.
func DecryptImage(e EncryptedImage, key fhe.ClientKey) (PlaintextImage, error) {
	dec := fhe.NewDecryptor(key)

	data := make([]uint8, len(e.Data))
	for i, ct := range e.Data {
		data[i] = uint8(dec.DecryptNew(ct))
	}

	return NewPlaintext(data, e.Size, e.ColorType)
}
