package fhe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) Parameters {
	t.Helper()
	p, err := NewParametersFromLiteral(ParamMessage2Carry2)
	require.NoError(t, err)
	return p
}

func testKeys(t *testing.T) (ClientKey, ServerKey) {
	t.Helper()
	ck, sk, err := NewKeyGenerator(testParams(t)).GenKeyPair()
	require.NoError(t, err)
	return ck, sk
}

func TestRoundTrip(t *testing.T) {
	ck, _ := testKeys(t)
	enc := NewEncryptor(ck)
	dec := NewDecryptor(ck)

	for _, v := range []uint64{0, 1, 42, 255, 65535} {
		ct, err := enc.EncryptNew(v)
		require.NoError(t, err)
		require.Equal(t, v, dec.DecryptNew(ct))
	}
}

func TestAddSubNeg(t *testing.T) {
	ck, sk := testKeys(t)
	enc := NewEncryptor(ck)
	dec := NewDecryptor(ck)
	eval := NewEvaluator(sk)

	a, err := enc.EncryptNew(100)
	require.NoError(t, err)
	b, err := enc.EncryptNew(28)
	require.NoError(t, err)

	require.Equal(t, uint64(128), dec.DecryptNew(eval.Add(a, b)))
	require.Equal(t, uint64(72), dec.DecryptNew(eval.Sub(a, b)))
	require.Equal(t, uint64(65436), dec.DecryptNew(eval.Neg(a)))
	require.Equal(t, uint64(110), dec.DecryptNew(eval.ScalarAdd(a, 10)))
	require.Equal(t, uint64(90), dec.DecryptNew(eval.ScalarSub(a, 10)))
	require.Equal(t, uint64(200), dec.DecryptNew(eval.ScalarMul(a, 2)))
}

func TestScalarRightShift(t *testing.T) {
	ck, sk := testKeys(t)
	enc := NewEncryptor(ck)
	dec := NewDecryptor(ck)
	eval := NewEvaluator(sk)

	ct, err := enc.EncryptNew(65280) // 255*256
	require.NoError(t, err)
	shifted := eval.ScalarRightShift(eval.ScalarMul(ct, 1), 8)
	require.Equal(t, uint64(255), dec.DecryptNew(shifted))
}

func TestShallowCopyIndependence(t *testing.T) {
	_, sk := testKeys(t)
	eval := NewEvaluator(sk)
	copyEval := eval.ShallowCopy()
	require.Equal(t, eval.modulus(), copyEval.modulus())
}
