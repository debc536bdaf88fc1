// Package fhe stands in for the leveled FHE library spec.md treats as an
// external, abstract oracle (a TFHE-style radix integer scheme over
// {0,...,255}): opaque ciphertexts, a ClientKey able to encrypt/decrypt, and a
// ServerKey able to evaluate add/subtract/scalar-multiply/negate/shift without
// the secret. A CtInt's plaintext is additively masked by a nonce scaled by
// the ClientKey's secret (encryptor.go/decryptor.go); every Evaluator method
// is a function of the masked representation alone, never the secret, so a
// ServerKey-only holder never recovers the plaintext. This package
// hand-rolls that contract rather than wrapping a real lattice ciphertext
// library's `bgv`/`rlwe` types: see DESIGN.md for why.
package fhe

import (
	"encoding/binary"
	"fmt"
)

// ParametersLiteral is the unchecked, user-facing description of a parameter
// set, mirroring bfv.ParametersLiteral's literal-then-validate split.
type ParametersLiteral struct {
	// MessageBits is the number of bits of plaintext carried by a single
	// radix block (2 for the reference PARAM_MESSAGE_2_CARRY_2 set).
	MessageBits int
	// NumBlocks is the number of radix blocks composing one CtInt.
	NumBlocks int
}

// ParamMessage2Carry2 is the fixed parameter set named by spec.md §3: 2-bit
// message blocks, 8 blocks, giving a 16-bit plaintext window — enough
// headroom for 8-bit samples scaled by Q0.8 weights (§4.2).
var ParamMessage2Carry2 = ParametersLiteral{
	MessageBits: 2,
	NumBlocks:   8,
}

// Parameters is a validated, immutable parameter set.
type Parameters struct {
	messageBits int
	numBlocks   int
}

// NewParametersFromLiteral validates pl and returns the corresponding
// Parameters, or an error if the plaintext window it describes cannot hold
// an 8-bit sample scaled by a Q0.8 weight (the ≥256·2^8 bound from §3).
func NewParametersFromLiteral(pl ParametersLiteral) (Parameters, error) {
	if pl.MessageBits <= 0 || pl.NumBlocks <= 0 {
		return Parameters{}, fmt.Errorf("fhe: invalid parameters literal %+v", pl)
	}

	p := Parameters{messageBits: pl.MessageBits, numBlocks: pl.NumBlocks}

	const fracBits = 8
	const sampleBits = 8
	if p.PlaintextBits() < sampleBits+fracBits {
		return Parameters{}, fmt.Errorf(
			"fhe: parameters %+v give a %d-bit plaintext window, need at least %d bits to hold an 8-bit sample scaled by a Q0.8 weight",
			pl, p.PlaintextBits(), sampleBits+fracBits)
	}

	return p, nil
}

// PlaintextBits returns the total plaintext window size in bits.
func (p Parameters) PlaintextBits() int {
	return p.messageBits * p.numBlocks
}

// PlaintextModulus returns 2^PlaintextBits, the modulus every CtInt value is
// reduced under.
func (p Parameters) PlaintextModulus() uint64 {
	return uint64(1) << uint(p.PlaintextBits())
}

// NumBlocks returns the number of radix blocks.
func (p Parameters) NumBlocks() int {
	return p.numBlocks
}

// GobEncode implements gob.GobEncoder so Parameters can be embedded in a
// persisted ClientKey/ServerKey (package keys) despite its unexported
// fields.
func (p Parameters) GobEncode() ([]byte, error) {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], uint64(p.messageBits))
	binary.BigEndian.PutUint64(buf[8:], uint64(p.numBlocks))
	return buf, nil
}

// GobDecode implements gob.GobDecoder.
func (p *Parameters) GobDecode(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("fhe: malformed Parameters encoding (%d bytes)", len(data))
	}
	p.messageBits = int(binary.BigEndian.Uint64(data[:8]))
	p.numBlocks = int(binary.BigEndian.Uint64(data[8:]))
	return nil
}
