// Package kernel implements the ciphertext arithmetic primitives of spec.md
// §4.2: weighted multiplication, linear and bilinear interpolation, 3-way
// add/average, and 8-bit inversion. Every primitive operates on fhe.CtInt
// through an fhe.Evaluator bound to the server's key, and never touches a
// ClientKey.
package kernel

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/privateimg/fhimg/fhe"
)

// FracBits is the number of fractional bits in the Q0.8 fixed-point weight
// encoding used by WeightMul (§4.2).
const FracBits = 8

// weightToFixed rounds a weight in [0,1] to its Q0.8 representation.
func weightToFixed(w float64) uint64 {
	return uint64(math.Round(w * float64(uint64(1)<<FracBits)))
}

// WeightMul computes v*wq/2^8 rounded to the nearest integer under
// decryption, where wq = round(w*256) is the Q0.8 weight: half of 2^8 is
// added before the right shift so the shift rounds rather than truncates.
// w=1 and w=0 take the documented shortcuts.
func WeightMul(eval fhe.Evaluator, x fhe.CtInt, w float64) fhe.CtInt {
	switch w {
	case 1.0:
		return x
	case 0.0:
		return eval.EncryptZero(x)
	}

	scaled := eval.ScalarMul(x, weightToFixed(w))
	scaled = eval.ScalarAdd(scaled, uint64(1)<<(FracBits-1))
	return eval.ScalarRightShift(scaled, FracBits)
}

// LinearInterp computes add(WeightMul(x,1-w), WeightMul(y,w)). The two
// WeightMul calls are independent and run concurrently, joined before the
// final add, per §5's mandatory parallel point.
func LinearInterp(ctx context.Context, eval fhe.Evaluator, x, y fhe.CtInt, w float64) (fhe.CtInt, error) {
	var xScaled, yScaled fhe.CtInt

	g, _ := errgroup.WithContext(ctx)
	xEval, yEval := eval.ShallowCopy(), eval.ShallowCopy()
	g.Go(func() error {
		xScaled = WeightMul(xEval, x, 1-w)
		return nil
	})
	g.Go(func() error {
		yScaled = WeightMul(yEval, y, w)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fhe.CtInt{}, err
	}

	return eval.Add(xScaled, yScaled), nil
}

// BilinearInterp computes
// LinearInterp(LinearInterp(a,b,wx), LinearInterp(c,d,wx), wy). The two inner
// LinearInterp calls are independent and run concurrently, per §5.
func BilinearInterp(ctx context.Context, eval fhe.Evaluator, a, b, c, d fhe.CtInt, wx, wy float64) (fhe.CtInt, error) {
	var top, bottom fhe.CtInt

	g, gctx := errgroup.WithContext(ctx)
	topEval, bottomEval := eval.ShallowCopy(), eval.ShallowCopy()
	g.Go(func() error {
		var err error
		top, err = LinearInterp(gctx, topEval, a, b, wx)
		return err
	})
	g.Go(func() error {
		var err error
		bottom, err = LinearInterp(gctx, bottomEval, c, d, wx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fhe.CtInt{}, err
	}

	return LinearInterp(ctx, eval, top, bottom, wy)
}

// Add3 returns add(add(x0,x1),x2), unchecked: the caller must ensure the
// accumulated plaintext stays representable (§4.2).
func Add3(eval fhe.Evaluator, x0, x1, x2 fhe.CtInt) fhe.CtInt {
	return eval.Add(eval.Add(x0, x1), x2)
}

// oneThird is the weight 1/3 (85 once WeightMul encodes it in Q0.8), shared
// by every Avg3 call so the
// scale happens once over the sum rather than three separate weight_muls
// (§4.2's rationale for avg3 over three WeightMul calls).
const oneThird = 1.0 / 3.0

// Avg3 returns WeightMul(Add3(x0,x1,x2), 1/3).
func Avg3(eval fhe.Evaluator, x0, x1, x2 fhe.CtInt) fhe.CtInt {
	return WeightMul(eval, Add3(eval, x0, x1, x2), oneThird)
}

// InvertU8 returns negate(scalar_sub(x, 255)), which decrypts to 255-v.
func InvertU8(eval fhe.Evaluator, x fhe.CtInt) fhe.CtInt {
	return eval.Neg(eval.ScalarSub(x, 255))
}
