package fhe

// Decryptor holds the secret material needed to decrypt ciphertexts.
type Decryptor struct {
	key ClientKey
}

// NewDecryptor creates a Decryptor bound to key.
func NewDecryptor(key ClientKey) Decryptor {
	return Decryptor{key: key}
}

// DecryptNew removes ct's mask using the ClientKey's secret and reduces the
// recovered integer into the parameter set's plaintext window.
func (d Decryptor) DecryptNew(ct CtInt) uint64 {
	mask := ct.nonce * coefficient(d.key.secret, ct.shiftLevel)
	raw := ct.value - mask

	m := int64(d.key.Params.PlaintextModulus())
	reduced := ((raw % m) + m) % m
	return uint64(reduced)
}
