package fhe

import "fmt"

// maxShiftLevels bounds how many times ScalarRightShift may be applied along
// one ciphertext's lineage. weight_mul shifts once; bilinear_interp nests
// two weight_muls (once inside each inner linear_interp, once more in the
// outer one feeding on those results), the deepest chain this kernel builds,
// so 2 is exactly the budget this repo exercises.
const maxShiftLevels = 2

// coefficient returns the multiplier tying a ciphertext's nonce to its mask
// at a given shift level: secret*256^(maxShiftLevels-level). Dropping the
// bottom 8 bits of a masked value (ScalarRightShift) divides its mask by
// exactly 256 along with the plaintext whenever the mask is itself a
// multiple of 256 — which coefficient(secret, level) guarantees by
// construction for every level below the cap. See ScalarRightShift.
func coefficient(secret int64, level int8) int64 {
	return secret * pow256(maxShiftLevels-int(level))
}

func pow256(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 256
	}
	return result
}

// Evaluator is bound to a ServerKey and exposes the homomorphic operations
// named in spec.md §4.2: add, subtract, negate, scalar-add, scalar-sub,
// scalar-multiply, scalar-right-shift. Naming follows the teacher's
// Op/OpNew convention (bgv.Evaluator: Add/AddNew, Neg/NegNew, ...). None of
// these methods ever reads a secret — each is a pure function of a CtInt's
// (value, nonce, shiftLevel), which is what keeps a ServerKey-only evaluator
// from ever observing the plaintext it operates over.
type Evaluator struct {
	key ServerKey
}

// NewEvaluator creates an Evaluator bound to key.
func NewEvaluator(key ServerKey) Evaluator {
	return Evaluator{key: key}
}

// ShallowCopy returns an independent Evaluator sharing the same read-only
// ServerKey, safe to hand to a separate goroutine — mirrors
// bgv.Evaluator.ShallowCopy, used by package kernel's parallel join points.
func (e Evaluator) ShallowCopy() Evaluator {
	return Evaluator{key: e.key}
}

// WithKey returns an Evaluator bound to a different ServerKey.
func (e Evaluator) WithKey(key ServerKey) Evaluator {
	return Evaluator{key: key}
}

func (e Evaluator) modulus() uint64 {
	return e.key.Params.PlaintextModulus()
}

// requireSameLevel panics when two ciphertexts being combined don't share a
// shift level — matching a different shift history means their masks no
// longer cancel linearly, a caller bug rather than a ciphertext fault.
func requireSameLevel(x, y CtInt) {
	if x.shiftLevel != y.shiftLevel {
		panic(fmt.Sprintf("fhe: combining ciphertexts at mismatched shift levels %d and %d", x.shiftLevel, y.shiftLevel))
	}
}

// Add returns x+y.
func (e Evaluator) Add(x, y CtInt) CtInt {
	requireSameLevel(x, y)
	return CtInt{value: x.value + y.value, nonce: x.nonce + y.nonce, shiftLevel: x.shiftLevel}
}

// Sub returns x-y.
func (e Evaluator) Sub(x, y CtInt) CtInt {
	requireSameLevel(x, y)
	return CtInt{value: x.value - y.value, nonce: x.nonce - y.nonce, shiftLevel: x.shiftLevel}
}

// Neg returns -x.
func (e Evaluator) Neg(x CtInt) CtInt {
	return CtInt{value: -x.value, nonce: -x.nonce, shiftLevel: x.shiftLevel}
}

// ScalarAdd returns x+s for a public scalar s.
func (e Evaluator) ScalarAdd(x CtInt, s uint64) CtInt {
	return CtInt{value: x.value + int64(s), nonce: x.nonce, shiftLevel: x.shiftLevel}
}

// ScalarSub returns x-s for a public scalar s.
func (e Evaluator) ScalarSub(x CtInt, s uint64) CtInt {
	return CtInt{value: x.value - int64(s), nonce: x.nonce, shiftLevel: x.shiftLevel}
}

// ScalarMul returns s*x for a public scalar s.
func (e Evaluator) ScalarMul(x CtInt, s uint64) CtInt {
	sv := int64(s)
	return CtInt{value: sv * x.value, nonce: sv * x.nonce, shiftLevel: x.shiftLevel}
}

// ScalarRightShift returns x with its plaintext arithmetically shifted right
// by k bits (an exact bit-drop, not a division). This toy oracle only
// supports k == 8, the one shift width kernel.FracBits ever asks for, and
// only up to maxShiftLevels applications per ciphertext lineage — narrower
// than the real oracle spec.md treats as an unconditional primitive, but
// sufficient for every call this repo makes (see DESIGN.md).
func (e Evaluator) ScalarRightShift(x CtInt, k uint) CtInt {
	if k != 8 {
		panic(fmt.Sprintf("fhe: ScalarRightShift only supports an 8-bit shift, got %d", k))
	}
	if int(x.shiftLevel) >= maxShiftLevels {
		panic("fhe: ciphertext has exhausted its shift budget")
	}
	return CtInt{value: x.value >> k, nonce: x.nonce, shiftLevel: x.shiftLevel + 1}
}

// EncryptZero returns an encryption of zero with the ciphertext shape of x,
// used by weight_mul's w=0 shortcut (§4.2: "preserves ciphertext shape
// without re-encryption").
func (e Evaluator) EncryptZero(x CtInt) CtInt {
	return e.ScalarMul(x, 0)
}
