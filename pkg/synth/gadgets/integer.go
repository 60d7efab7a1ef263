// Copyright Quill Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package gadgets

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/r1cs"
)

// ErrDivisionByZero is returned when dividing by a provably-zero integer.
var ErrDivisionByZero = errors.New("division by zero")

// maxSafeBits bounds the bit patterns which embed injectively into the
// field: every value below 2^252 is below the BLS12-377 scalar modulus.
const maxSafeBits = 252

// AddInt adds two integers of the same width, wrapping modulo 2^width.  The
// raw sum fits width+1 bits; its low width bits are the result.
func AddInt(sys *r1cs.System, a, b Int) (Int, error) {
	pattern := new(uint256.Int).Add(a.Witness, b.Witness)
	pattern.And(pattern, widthMask(a.Width))
	//
	if a.Const && b.Const {
		return NewInt(a.Width, a.Signed, pattern), nil
	}
	//
	raw := new(uint256.Int).Add(a.Witness, b.Witness)
	//
	wire, err := truncate(sys, a.Wire.Add(b.Wire), raw, a.Width+1, a.Width)
	if err != nil {
		return Int{}, err
	}
	//
	return Int{a.Width, a.Signed, wire, pattern, false}, nil
}

// SubInt subtracts two integers of the same width, wrapping modulo 2^width.
// The difference is offset by 2^width to keep the raw value non-negative.
func SubInt(sys *r1cs.System, a, b Int) (Int, error) {
	modulus := widthModulus(a.Width)
	//
	pattern := new(uint256.Int).Add(a.Witness, modulus)
	pattern.Sub(pattern, b.Witness)
	raw := pattern.Clone()
	pattern.And(pattern, widthMask(a.Width))
	//
	if a.Const && b.Const {
		return NewInt(a.Width, a.Signed, pattern), nil
	}
	//
	offset := r1cs.NewConstant(frPowerOfTwo(a.Width))
	//
	wire, err := truncate(sys, a.Wire.Sub(b.Wire).Add(offset), raw, a.Width+1, a.Width)
	if err != nil {
		return Int{}, err
	}
	//
	return Int{a.Width, a.Signed, wire, pattern, false}, nil
}

// NegInt negates an integer, wrapping modulo 2^width (thus the minimum
// signed value negates to itself).
func NegInt(sys *r1cs.System, a Int) (Int, error) {
	modulus := widthModulus(a.Width)
	//
	pattern := new(uint256.Int).Sub(modulus, a.Witness)
	raw := pattern.Clone()
	pattern.And(pattern, widthMask(a.Width))
	//
	if a.Const {
		return NewInt(a.Width, a.Signed, pattern), nil
	}
	//
	offset := r1cs.NewConstant(frPowerOfTwo(a.Width))
	//
	wire, err := truncate(sys, offset.Sub(a.Wire), raw, a.Width+1, a.Width)
	if err != nil {
		return Int{}, err
	}
	//
	return Int{a.Width, a.Signed, wire, pattern, false}, nil
}

// MulInt multiplies two integers of the same width, wrapping modulo 2^width.
// When the double-width product embeds safely in the field, the product wire
// is simply truncated; otherwise the multiplicand is split into 64-bit limbs
// whose partial products each embed safely.
func MulInt(sys *r1cs.System, a, b Int) (Int, error) {
	pattern := new(uint256.Int).MulMod(a.Witness, b.Witness, widthModulus(a.Width))
	//
	if a.Const && b.Const {
		return NewInt(a.Width, a.Signed, pattern), nil
	}
	//
	var (
		wire r1cs.LinearCombination
		err  error
	)
	//
	if 2*a.Width <= maxSafeBits {
		wire, err = mulDirect(sys, a, b)
	} else {
		wire, err = mulLimbs(sys, a, b)
	}
	//
	if err != nil {
		return Int{}, err
	}
	//
	return Int{a.Width, a.Signed, wire, pattern, false}, nil
}

func mulDirect(sys *r1cs.System, a, b Int) (r1cs.LinearCombination, error) {
	product := new(uint256.Int).Mul(a.Witness, b.Witness)
	//
	wire, err := sys.AllocInternal(frFromPattern(product))
	if err != nil {
		return nil, err
	}
	//
	p := r1cs.NewTerm(wire)
	//
	if err := sys.Enforce(a.Wire, b.Wire, p, "imul"); err != nil {
		return nil, err
	}
	//
	return truncate(sys, p, product, 2*a.Width, a.Width)
}

// mulLimbs multiplies via 64-bit limbs of a: with a = a0 + 2^64 a1, the
// result modulo 2^width is (a0 b mod 2^width) + 2^64 (a1 b mod 2^(width-64)),
// reduced once more modulo 2^width.
func mulLimbs(sys *r1cs.System, a, b Int) (r1cs.LinearCombination, error) {
	const limb = 64
	//
	width := a.Width
	//
	aBits, err := decomposeBits(sys, a.Wire, a.Witness, width)
	if err != nil {
		return nil, err
	}
	//
	var (
		lowLC  = sumBits(aBits, 0, limb)
		highLC = sumBits(aBits, limb, width)
		lowVal = new(uint256.Int).And(a.Witness, widthMask(limb))
		hiVal  = new(uint256.Int).Rsh(a.Witness, limb)
	)
	// t0 = a0 * b mod 2^width
	t0, t0Val, err := limbProduct(sys, lowLC, lowVal, b, width)
	if err != nil {
		return nil, err
	}
	// t1 = a1 * b mod 2^(width-64)
	t1, t1Val, err := limbProduct(sys, highLC, hiVal, b, width-limb)
	if err != nil {
		return nil, err
	}
	// raw = t0 + 2^64 t1, which fits width+1 bits.
	raw := new(uint256.Int).Lsh(t1Val, limb)
	raw.Add(raw, t0Val)
	//
	lc := t0.Add(t1.Scale(frPowerOfTwo(limb)))
	//
	return truncate(sys, lc, raw, width+1, width)
}

// limbProduct emits limb * b == p and truncates p to keep bits.  The limb is
// at most 64 bits wide, hence the product embeds safely for widths up to 188.
func limbProduct(sys *r1cs.System, limbLC r1cs.LinearCombination, limbVal *uint256.Int,
	b Int, keep uint) (r1cs.LinearCombination, *uint256.Int, error) {
	//
	product := new(uint256.Int).Mul(limbVal, b.Witness)
	//
	wire, err := sys.AllocInternal(frFromPattern(product))
	if err != nil {
		return nil, nil, err
	}
	//
	p := r1cs.NewTerm(wire)
	//
	if err := sys.Enforce(limbLC, b.Wire, p, "imul"); err != nil {
		return nil, nil, err
	}
	//
	lc, err := truncate(sys, p, product, 64+b.Width, keep)
	if err != nil {
		return nil, nil, err
	}
	//
	return lc, new(uint256.Int).And(product, widthMask(keep)), nil
}

// DivInt divides two integers, truncating toward zero.  A provably-zero
// divisor is rejected at synthesis time; a zero witness behind a non-constant
// divisor merely leaves the emitted constraints unsatisfiable.
func DivInt(sys *r1cs.System, a, b Int) (Int, error) {
	return DivIntWhen(sys, NewBool(true), a, b)
}

// DivIntWhen divides two integers under a guard.  When the guard is false the
// divisor is replaced by one, so a zero divisor witness on a path never
// executed cannot render the system unsatisfiable.
func DivIntWhen(sys *r1cs.System, guard Bool, a, b Int) (Int, error) {
	q, _, err := divMod(sys, guard, a, b)
	return q, err
}

// ModInt computes the division remainder, whose sign follows the dividend.
func ModInt(sys *r1cs.System, a, b Int) (Int, error) {
	return ModIntWhen(sys, NewBool(true), a, b)
}

// ModIntWhen computes the division remainder under a guard, with the same
// divisor replacement as DivIntWhen.
func ModIntWhen(sys *r1cs.System, guard Bool, a, b Int) (Int, error) {
	_, r, err := divMod(sys, guard, a, b)
	return r, err
}

func divMod(sys *r1cs.System, guard Bool, a, b Int) (Int, Int, error) {
	if b.Const && b.Witness.IsZero() {
		return Int{}, Int{}, ErrDivisionByZero
	}
	// Divide by one instead of the real divisor wherever the guard is false,
	// keeping every emitted constraint satisfiable on untaken paths.
	safe, err := selectInt(sys, guard, b, NewInt(b.Width, b.Signed, uint256.NewInt(1)))
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	if !a.Signed {
		return divModUnsigned(sys, a, safe)
	}
	//
	return divModSigned(sys, a, safe)
}

// divModUnsigned witnesses quotient and remainder, range checks both, and
// pins them with q * b == a - r together with r < b.
func divModUnsigned(sys *r1cs.System, a, b Int) (Int, Int, error) {
	var (
		qVal = new(uint256.Int).Div(a.Witness, b.Witness)
		rVal = new(uint256.Int).Mod(a.Witness, b.Witness)
	)
	//
	if a.Const && b.Const {
		return NewInt(a.Width, a.Signed, qVal), NewInt(a.Width, a.Signed, rVal), nil
	}
	//
	qLC, err := allocRanged(sys, qVal, a.Width)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	rLC, err := allocRanged(sys, rVal, a.Width)
	if err != nil {
		return Int{}, Int{}, err
	}
	// q * b == a - r
	if err := sys.Enforce(qLC, b.Wire, a.Wire.Sub(rLC), "divmod"); err != nil {
		return Int{}, Int{}, err
	}
	// r < b
	lt, err := ltPattern(sys, rLC, rVal, b.Wire, b.Witness, a.Width)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	if err := AssertTrue(sys, lt, "divmod"); err != nil {
		return Int{}, Int{}, err
	}
	//
	q := Int{a.Width, a.Signed, qLC, qVal, false}
	r := Int{a.Width, a.Signed, rLC, rVal, false}
	//
	return q, r, nil
}

// divModSigned divides on magnitudes and restores signs afterwards: the
// quotient is negative when operand signs differ, the remainder follows the
// dividend.
func divModSigned(sys *r1cs.System, a, b Int) (Int, Int, error) {
	magA, signA, err := splitSign(sys, a)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	magB, signB, err := splitSign(sys, b)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	q, r, err := divModUnsigned(sys, magA, magB)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	qNegative, err := Xor(sys, signA, signB)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	q, err = condNegate(sys, qNegative, q)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	r, err = condNegate(sys, signA, r)
	if err != nil {
		return Int{}, Int{}, err
	}
	//
	q.Signed, r.Signed = true, true
	//
	return q, r, nil
}

// splitSign decomposes a signed integer into its magnitude (as an unsigned
// pattern) and sign bit.
func splitSign(sys *r1cs.System, a Int) (Int, Bool, error) {
	negative := patternBit(a.Witness, a.Width-1)
	//
	if a.Const {
		magnitude := a.Witness
		//
		if negative {
			magnitude = new(uint256.Int).Sub(widthModulus(a.Width), a.Witness)
		}
		//
		mag := NewInt(a.Width, false, magnitude)
		//
		return mag, NewBool(negative), nil
	}
	//
	bits, err := decomposeBits(sys, a.Wire, a.Witness, a.Width)
	if err != nil {
		return Int{}, Bool{}, err
	}
	//
	sign := Bool{bits[a.Width-1], negative, false}
	//
	magnitude, err := condNegate(sys, sign, Int{a.Width, false, a.Wire, a.Witness, false})
	if err != nil {
		return Int{}, Bool{}, err
	}
	//
	return magnitude, sign, nil
}

// condNegate negates an integer when the flag is set.
func condNegate(sys *r1cs.System, flag Bool, a Int) (Int, error) {
	if flag.Const {
		if !flag.Witness {
			return a, nil
		}
		//
		return NegInt(sys, a)
	}
	//
	negated, err := NegInt(sys, a)
	if err != nil {
		return Int{}, err
	}
	//
	return selectInt(sys, flag, negated, a)
}

// EqInt tests two integers of the same width for equality.
func EqInt(sys *r1cs.System, a, b Int) (Bool, error) {
	aElem := frFromPattern(a.Witness)
	bElem := frFromPattern(b.Witness)
	aElem.Sub(&aElem, &bElem)
	//
	return IsZero(sys, a.Wire.Sub(b.Wire), aElem)
}

// LtInt tests a < b.  Signed operands are compared by biasing both patterns
// with 2^(width-1), which maps two's complement onto the unsigned order.
func LtInt(sys *r1cs.System, a, b Int) (Bool, error) {
	if !a.Signed {
		return ltPattern(sys, a.Wire, a.Witness, b.Wire, b.Witness, a.Width)
	}
	//
	aLC, aVal, err := bias(sys, a)
	if err != nil {
		return Bool{}, err
	}
	//
	bLC, bVal, err := bias(sys, b)
	if err != nil {
		return Bool{}, err
	}
	//
	return ltPattern(sys, aLC, aVal, bLC, bVal, a.Width)
}

// GtInt tests a > b.
func GtInt(sys *r1cs.System, a, b Int) (Bool, error) {
	return LtInt(sys, b, a)
}

// LeInt tests a <= b.
func LeInt(sys *r1cs.System, a, b Int) (Bool, error) {
	gt, err := GtInt(sys, a, b)
	if err != nil {
		return Bool{}, err
	}
	//
	return Not(gt), nil
}

// GeInt tests a >= b.
func GeInt(sys *r1cs.System, a, b Int) (Bool, error) {
	lt, err := LtInt(sys, a, b)
	if err != nil {
		return Bool{}, err
	}
	//
	return Not(lt), nil
}

// PowInt raises an integer to a constant exponent by square and multiply,
// wrapping modulo 2^width.
func PowInt(sys *r1cs.System, a Int, exponent *uint256.Int) (Int, error) {
	var (
		result = NewInt(a.Width, a.Signed, uint256.NewInt(1))
		square = a
		err    error
	)
	//
	for i := 0; i < exponent.BitLen(); i++ {
		if patternBit(exponent, uint(i)) {
			if result, err = MulInt(sys, result, square); err != nil {
				return Int{}, err
			}
		}
		//
		if i+1 < exponent.BitLen() {
			if square, err = MulInt(sys, square, square); err != nil {
				return Int{}, err
			}
		}
	}
	//
	return result, nil
}

// ltPattern tests two width-bit patterns for unsigned order: the difference
// a - b + 2^width fits width+1 bits, and its top bit is set exactly when
// a >= b.
func ltPattern(sys *r1cs.System, aLC r1cs.LinearCombination, aVal *uint256.Int,
	bLC r1cs.LinearCombination, bVal *uint256.Int, width uint) (Bool, error) {
	//
	_, aConst := aLC.IsConstant()
	_, bConst := bLC.IsConstant()
	//
	if aConst && bConst {
		return NewBool(aVal.Lt(bVal)), nil
	}
	//
	raw := new(uint256.Int).Add(aVal, widthModulus(width))
	raw.Sub(raw, bVal)
	//
	offset := r1cs.NewConstant(frPowerOfTwo(width))
	//
	bits, err := decomposeBits(sys, aLC.Sub(bLC).Add(offset), raw, width+1)
	if err != nil {
		return Bool{}, err
	}
	//
	geq := Bool{bits[width], !aVal.Lt(bVal), false}
	//
	return Not(geq), nil
}

// bias shifts a signed pattern by 2^(width-1) modulo 2^width, making the
// most negative value smallest under the unsigned order.
func bias(sys *r1cs.System, a Int) (r1cs.LinearCombination, *uint256.Int, error) {
	half := widthModulus(a.Width - 1)
	//
	raw := new(uint256.Int).Add(a.Witness, half)
	biased := new(uint256.Int).And(raw, widthMask(a.Width))
	//
	if a.Const {
		return r1cs.NewConstant(frFromPattern(biased)), biased, nil
	}
	//
	offset := r1cs.NewConstant(frPowerOfTwo(a.Width - 1))
	//
	lc, err := truncate(sys, a.Wire.Add(offset), raw, a.Width+1, a.Width)
	if err != nil {
		return nil, nil, err
	}
	//
	return lc, biased, nil
}
