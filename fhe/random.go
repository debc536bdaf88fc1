package fhe

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// secretBound and nonceBound cap the magnitude of the secret scalar and the
// per-encryption mask nonce. A fresh masked value fits int64, but the scalar
// multiplications the kernel chains on top of it can exceed int64 and wrap.
// Wrapping keeps every value correct modulo 2^64, and ScalarRightShift turns
// a wrapped multiple of 2^64 into a multiple of 2^56, so the result is still
// correct modulo the plaintext window that decryptor.go reduces into.
const (
	secretBound = int64(1) << 20
	nonceBound  = int64(1) << 20
)

// randomPositiveInt64 draws a uniform random value in [1, bound].
func randomPositiveInt64(bound int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(bound))
	if err != nil {
		return 0, fmt.Errorf("fhe: drawing random scalar: %w", err)
	}
	return n.Int64() + 1, nil
}
