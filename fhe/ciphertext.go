package fhe

import (
	"encoding/binary"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// CtInt is an opaque radix ciphertext representing an integer modulo
// 2^PlaintextBits. value is the plaintext additively masked by
// nonce*coefficient(shiftLevel) (evaluator.go); coefficient is only
// computable from a ClientKey's secret, so value alone never reveals the
// plaintext to a holder of only a ServerKey. shiftLevel is public metadata
// recording how many ScalarRightShifts this ciphertext's lineage has been
// through — akin to the scale/level tag a real leveled scheme carries
// alongside its ciphertexts — and by itself leaks nothing about the masked
// value. Fields are unexported: callers only ever see a CtInt through
// Encryptor/Decryptor/Evaluator, matching the spec's framing of the FHE
// library as an abstract oracle.
type CtInt struct {
	value      int64
	nonce      int64
	shiftLevel int8
}

// GobEncode implements gob.GobEncoder so a CtInt can ride inside an
// EncryptedImage across the wire (protocol package) without exposing its
// fields to other packages.
func (c CtInt) GobEncode() ([]byte, error) {
	buf := make([]byte, 17)
	binary.BigEndian.PutUint64(buf[0:8], uint64(c.value))
	binary.BigEndian.PutUint64(buf[8:16], uint64(c.nonce))
	buf[16] = byte(c.shiftLevel)
	return buf, nil
}

// GobDecode implements gob.GobDecoder.
func (c *CtInt) GobDecode(data []byte) error {
	if len(data) != 17 {
		return fmt.Errorf("fhe: malformed CtInt encoding (%d bytes)", len(data))
	}
	c.value = int64(binary.BigEndian.Uint64(data[0:8]))
	c.nonce = int64(binary.BigEndian.Uint64(data[8:16]))
	c.shiftLevel = int8(data[16])
	return nil
}

// Equal reports whether two ciphertexts carry the same representation,
// compared over their serialized forms. It is exposed only for tests that
// want to distinguish "same ciphertext" from "decrypts to the same value".
func (c CtInt) Equal(other CtInt) bool {
	return cmp.Equal(mustEncode(c), mustEncode(other))
}

func mustEncode(c CtInt) []byte {
	b, _ := c.GobEncode()
	return b
}
