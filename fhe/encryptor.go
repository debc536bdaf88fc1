package fhe

import "fmt"

// Encryptor holds the secret material needed to encrypt plaintexts, mirroring
// bfv's struct-holds-context Encryptor.
type Encryptor struct {
	key ClientKey
}

// NewEncryptor creates an Encryptor bound to key.
func NewEncryptor(key ClientKey) Encryptor {
	return Encryptor{key: key}
}

// EncryptNew encrypts v and returns the result as a new ciphertext: a fresh
// random nonce is drawn and v is additively masked by
// nonce*coefficient(secret, 0), a quantity only recoverable from the
// matching ClientKey (decryptor.go). A holder of only the ServerKey sees the
// masked value and the nonce, neither of which reveals v.
func (e Encryptor) EncryptNew(v uint64) (CtInt, error) {
	nonce, err := randomPositiveInt64(nonceBound)
	if err != nil {
		return CtInt{}, fmt.Errorf("fhe: encrypting: %w", err)
	}

	mask := nonce * coefficient(e.key.secret, 0)
	return CtInt{value: int64(v) + mask, nonce: nonce, shiftLevel: 0}, nil
}
