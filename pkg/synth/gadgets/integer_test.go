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
	"testing"

	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/r1cs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// witnessInt allocates a non-constant integer, so that gadgets under test
// emit constraints rather than folding.
func witnessInt(t *testing.T, sys *r1cs.System, width uint, signed bool, value int64) Int {
	t.Helper()
	//
	v, err := AllocInt(sys, "x", r1cs.PrivateInput, width, signed, pattern64(value, width))
	require.NoError(t, err)
	//
	return v
}

// pattern64 reduces a small signed value to its two's-complement bit pattern.
func pattern64(value int64, width uint) *uint256.Int {
	pattern := uint256.NewInt(uint64(value))
	//
	if value < 0 {
		pattern.Add(widthModulus(width), pattern)
		pattern.And(pattern, widthMask(width))
	}
	//
	return pattern
}

func checkBinary(t *testing.T, width uint, signed bool, a, b int64,
	op func(*r1cs.System, Int, Int) (Int, error), expected int64) {
	t.Helper()
	//
	sys := r1cs.NewSystem(0)
	//
	result, err := op(sys, witnessInt(t, sys, width, signed, a),
		witnessInt(t, sys, width, signed, b))
	require.NoError(t, err)
	//
	assert.Equal(t, pattern64(expected, width), result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_AddInt_01(t *testing.T) {
	checkBinary(t, 8, false, 3, 4, AddInt, 7)
}

func Test_AddInt_02(t *testing.T) {
	// u8 wraps modulo 256
	checkBinary(t, 8, false, 250, 10, AddInt, 4)
}

func Test_AddInt_03(t *testing.T) {
	// i8 overflow wraps to the minimum
	checkBinary(t, 8, true, 127, 1, AddInt, -128)
}

func Test_AddInt_04(t *testing.T) {
	checkBinary(t, 64, false, 1<<62, 1<<62, AddInt, -9223372036854775808)
}

func Test_SubInt_01(t *testing.T) {
	checkBinary(t, 8, false, 10, 3, SubInt, 7)
}

func Test_SubInt_02(t *testing.T) {
	// u8 underflow wraps
	checkBinary(t, 8, false, 3, 5, SubInt, 254)
}

func Test_SubInt_03(t *testing.T) {
	// i8 underflow wraps to the maximum
	checkBinary(t, 8, true, -128, 1, SubInt, 127)
}

func Test_NegInt_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	result, err := NegInt(sys, witnessInt(t, sys, 8, true, 7))
	require.NoError(t, err)
	//
	assert.Equal(t, pattern64(-7, 8), result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_NegInt_02(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// The minimum has no positive counterpart, so negation wraps onto itself.
	result, err := NegInt(sys, witnessInt(t, sys, 8, true, -128))
	require.NoError(t, err)
	//
	assert.Equal(t, pattern64(-128, 8), result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_MulInt_01(t *testing.T) {
	checkBinary(t, 8, false, 12, 13, MulInt, 156)
}

func Test_MulInt_02(t *testing.T) {
	// u16 wraps modulo 65536: 300 * 300 = 90000 -> 24464
	checkBinary(t, 16, false, 300, 300, MulInt, 24464)
}

func Test_MulInt_03(t *testing.T) {
	checkBinary(t, 8, true, -3, 5, MulInt, -15)
}

func Test_MulInt_Limbs_01(t *testing.T) {
	// Width 128 exceeds the field's safe capacity for a direct product, so
	// multiplication splits into 64-bit limbs.
	sys := r1cs.NewSystem(0)
	//
	a := new(uint256.Int).Add(widthModulus(64), uint256.NewInt(3))
	b := new(uint256.Int).Add(widthModulus(64), uint256.NewInt(5))
	//
	av, err := AllocInt(sys, "a", r1cs.PrivateInput, 128, false, a)
	require.NoError(t, err)
	bv, err := AllocInt(sys, "b", r1cs.PrivateInput, 128, false, b)
	require.NoError(t, err)
	//
	result, err := MulInt(sys, av, bv)
	require.NoError(t, err)
	// (2^64+3)(2^64+5) mod 2^128 = 8*2^64 + 15
	expected := new(uint256.Int).Mul(widthModulus(64), uint256.NewInt(8))
	expected.Add(expected, uint256.NewInt(15))
	//
	assert.Equal(t, expected, result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_DivInt_01(t *testing.T) {
	checkBinary(t, 8, false, 7, 2, DivInt, 3)
}

func Test_DivInt_02(t *testing.T) {
	checkBinary(t, 8, false, 7, 2, ModInt, 1)
}

func Test_DivInt_03(t *testing.T) {
	// Signed division truncates towards zero
	checkBinary(t, 8, true, -7, 2, DivInt, -3)
}

func Test_DivInt_04(t *testing.T) {
	// Remainder takes the sign of the dividend
	checkBinary(t, 8, true, -7, 2, ModInt, -1)
}

func Test_DivInt_05(t *testing.T) {
	checkBinary(t, 32, false, 100, 10, DivInt, 10)
}

func Test_DivInt_Zero_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// Division by a constant zero fails at synthesis time.
	a := witnessInt(t, sys, 8, false, 7)
	zero := NewInt(8, false, uint256.NewInt(0))
	//
	_, err := DivInt(sys, a, zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func Test_DivInt_When_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// Behind a false guard a zero divisor witness cannot fail the system:
	// the divided-by operand becomes one.
	guard, err := AllocBool(sys, "g", r1cs.PrivateInput, false)
	require.NoError(t, err)
	//
	a := witnessInt(t, sys, 8, false, 7)
	zero := witnessInt(t, sys, 8, false, 0)
	//
	_, err = DivIntWhen(sys, guard, a, zero)
	require.NoError(t, err)
	assert.NoError(t, sys.Verify())
}

func Test_DivInt_When_02(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// A true (non-constant) guard keeps ordinary division semantics
	guard, err := AllocBool(sys, "g", r1cs.PrivateInput, true)
	require.NoError(t, err)
	//
	result, err := DivIntWhen(sys, guard,
		witnessInt(t, sys, 8, false, 7), witnessInt(t, sys, 8, false, 2))
	require.NoError(t, err)
	//
	assert.Equal(t, uint256.NewInt(3), result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_CmpInt_01(t *testing.T) {
	checkCmp(t, 8, false, 3, 5, LtInt, true)
	checkCmp(t, 8, false, 5, 3, LtInt, false)
	checkCmp(t, 8, false, 5, 5, LtInt, false)
}

func Test_CmpInt_02(t *testing.T) {
	// Unsigned order: 255 is the maximum
	checkCmp(t, 8, false, 255, 0, GtInt, true)
}

func Test_CmpInt_03(t *testing.T) {
	// Signed order: -1 sits below 1 despite its larger bit pattern
	checkCmp(t, 8, true, -1, 1, LtInt, true)
	checkCmp(t, 8, true, -128, 127, LtInt, true)
}

func Test_CmpInt_04(t *testing.T) {
	checkCmp(t, 8, true, 5, 5, LeInt, true)
	checkCmp(t, 8, true, 5, 5, GeInt, true)
	checkCmp(t, 8, true, -3, -4, GeInt, true)
}

func Test_CmpInt_05(t *testing.T) {
	checkCmp(t, 8, false, 7, 7, EqInt, true)
	checkCmp(t, 8, false, 7, 8, EqInt, false)
}

func checkCmp(t *testing.T, width uint, signed bool, a, b int64,
	op func(*r1cs.System, Int, Int) (Bool, error), expected bool) {
	t.Helper()
	//
	sys := r1cs.NewSystem(0)
	//
	result, err := op(sys, witnessInt(t, sys, width, signed, a),
		witnessInt(t, sys, width, signed, b))
	require.NoError(t, err)
	//
	assert.Equal(t, expected, result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_PowInt_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	result, err := PowInt(sys, witnessInt(t, sys, 8, false, 3), uint256.NewInt(4))
	require.NoError(t, err)
	//
	assert.Equal(t, uint256.NewInt(81), result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_PowInt_02(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// 2^9 wraps to zero at width 8
	result, err := PowInt(sys, witnessInt(t, sys, 8, false, 2), uint256.NewInt(9))
	require.NoError(t, err)
	//
	assert.Equal(t, uint256.NewInt(0), result.Witness)
	assert.NoError(t, sys.Verify())
}

func Test_PowInt_03(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// Zero exponent yields one
	result, err := PowInt(sys, witnessInt(t, sys, 8, false, 200), uint256.NewInt(0))
	require.NoError(t, err)
	//
	assert.Equal(t, uint256.NewInt(1), result.Witness)
	assert.NoError(t, sys.Verify())
}
