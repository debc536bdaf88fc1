package fhe

import (
	"encoding/binary"
	"fmt"
)

// ClientKey is the secret, decryption-capable half of a matched key pair.
// secret is the scalar every encryption's mask is derived from; nothing in
// this package lets it escape ClientKey except through Encryptor/Decryptor
// and the serialized form GobEncode writes for persistence.
type ClientKey struct {
	Params Parameters
	secret int64
}

// ServerKey is the public, evaluation-only half of a matched key pair. It
// carries no secret material: every Evaluator method (evaluator.go) is
// defined purely in terms of a CtInt's masked value, nonce, and shift level,
// never the plaintext or the secret hiding it.
type ServerKey struct {
	Params      Parameters
	fingerprint [32]byte
}

// KeyGenerator produces a matched (ClientKey, ServerKey) pair for a fixed
// parameter set, mirroring bfv.NewKeyGenerator's thin wrapper over a
// lower-level generator.
type KeyGenerator struct {
	params Parameters
}

// NewKeyGenerator creates a KeyGenerator for params.
func NewKeyGenerator(params Parameters) KeyGenerator {
	return KeyGenerator{params: params}
}

// GenKeyPair draws a fresh secret scalar and returns the matched key pair.
func (g KeyGenerator) GenKeyPair() (ClientKey, ServerKey, error) {
	secret, err := randomPositiveInt64(secretBound)
	if err != nil {
		return ClientKey{}, ServerKey{}, fmt.Errorf("fhe: generating key material: %w", err)
	}

	ck := ClientKey{Params: g.params, secret: secret}
	sk := ServerKey{Params: g.params, fingerprint: fingerprint(g.params, secret)}

	return ck, sk, nil
}

// fingerprint binds a ServerKey to the ClientKey it was generated alongside,
// as a SHA-256 digest of the parameters and the secret. It is stored in the
// ServerKey and persisted with it; nothing in this repository compares it
// against a ClientKey, so a mismatched pair is not detected when loaded.
func fingerprint(params Parameters, secret int64) [32]byte {
	var out [32]byte
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], uint64(params.PlaintextBits()))
	binary.BigEndian.PutUint64(buf[8:], uint64(secret))
	copy(out[:], sum(buf))
	return out
}

// GobEncode implements gob.GobEncoder so a ClientKey can be persisted by
// package keys (§4.7).
func (ck ClientKey) GobEncode() ([]byte, error) {
	paramBytes, err := ck.Params.GobEncode()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(paramBytes)+8)
	copy(buf, paramBytes)
	binary.BigEndian.PutUint64(buf[len(paramBytes):], uint64(ck.secret))
	return buf, nil
}

// GobDecode implements gob.GobDecoder.
func (ck *ClientKey) GobDecode(data []byte) error {
	if len(data) != 16+8 {
		return fmt.Errorf("fhe: malformed ClientKey encoding (%d bytes)", len(data))
	}
	if err := ck.Params.GobDecode(data[:16]); err != nil {
		return err
	}
	ck.secret = int64(binary.BigEndian.Uint64(data[16:]))
	return nil
}

// GobEncode implements gob.GobEncoder so a ServerKey can be persisted by
// package keys (§4.7).
func (sk ServerKey) GobEncode() ([]byte, error) {
	paramBytes, err := sk.Params.GobEncode()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(paramBytes)+len(sk.fingerprint))
	copy(buf, paramBytes)
	copy(buf[len(paramBytes):], sk.fingerprint[:])
	return buf, nil
}

// GobDecode implements gob.GobDecoder.
func (sk *ServerKey) GobDecode(data []byte) error {
	if len(data) != 16+32 {
		return fmt.Errorf("fhe: malformed ServerKey encoding (%d bytes)", len(data))
	}
	if err := sk.Params.GobDecode(data[:16]); err != nil {
		return err
	}
	copy(sk.fingerprint[:], data[16:])
	return nil
}
