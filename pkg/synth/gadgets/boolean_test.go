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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/quill-zk/quill/pkg/r1cs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func witnessBool(t *testing.T, sys *r1cs.System, value bool) Bool {
	t.Helper()
	//
	v, err := AllocBool(sys, "b", r1cs.PrivateInput, value)
	require.NoError(t, err)
	//
	return v
}

func witnessField(t *testing.T, sys *r1cs.System, value uint64) Field {
	t.Helper()
	//
	v, err := AllocField(sys, "f", r1cs.PrivateInput, fr.NewElement(value))
	require.NoError(t, err)
	//
	return v
}

func checkLogical(t *testing.T, op func(*r1cs.System, Bool, Bool) (Bool, error),
	table [4]bool) {
	t.Helper()
	//
	for i, a := range []bool{false, false, true, true} {
		b := i%2 == 1
		//
		sys := r1cs.NewSystem(0)
		//
		result, err := op(sys, witnessBool(t, sys, a), witnessBool(t, sys, b))
		require.NoError(t, err)
		//
		assert.Equal(t, table[i], result.Witness, "%t op %t", a, b)
		assert.NoError(t, sys.Verify())
	}
}

func Test_And_01(t *testing.T) {
	checkLogical(t, And, [4]bool{false, false, false, true})
}

func Test_Or_01(t *testing.T) {
	checkLogical(t, Or, [4]bool{false, true, true, true})
}

func Test_Xor_01(t *testing.T) {
	checkLogical(t, Xor, [4]bool{false, true, true, false})
}

func Test_BoolEq_01(t *testing.T) {
	checkLogical(t, BoolEq, [4]bool{true, false, false, true})
}

func Test_Not_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := witnessBool(t, sys, true)
	result := Not(a)
	//
	assert.False(t, result.Witness)
	// Negation is linear, so no constraints beyond the bit check
	value := sys.Eval(result.Wire)
	assert.True(t, value.IsZero())
}

func Test_FieldArith_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := witnessField(t, sys, 10)
	b := witnessField(t, sys, 4)
	//
	sum := FieldAdd(a, b)
	expected := fr.NewElement(14)
	assert.True(t, expected.Equal(&sum.Witness))
	//
	diff := FieldSub(a, b)
	expected = fr.NewElement(6)
	assert.True(t, expected.Equal(&diff.Witness))
	//
	product, err := FieldMul(sys, a, b)
	require.NoError(t, err)
	expected = fr.NewElement(40)
	assert.True(t, expected.Equal(&product.Witness))
	//
	assert.NoError(t, sys.Verify())
}

func Test_FieldDiv_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := witnessField(t, sys, 40)
	b := witnessField(t, sys, 4)
	//
	quotient, err := FieldDiv(sys, a, b)
	require.NoError(t, err)
	// Division is exact in the field: (a/b)*b = a
	back, err := FieldMul(sys, quotient, b)
	require.NoError(t, err)
	//
	assert.True(t, a.Witness.Equal(&back.Witness))
	assert.NoError(t, sys.Verify())
}

func Test_FieldDiv_Zero_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := witnessField(t, sys, 1)
	zero := NewField(fr.NewElement(0))
	//
	_, err := FieldDiv(sys, a, zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoInverse))
}

func Test_FieldDiv_When_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// Behind a false guard a zero divisor witness still satisfies: the
	// inverted operand is one, not the divisor.
	guard, err := AllocBool(sys, "g", r1cs.PrivateInput, false)
	require.NoError(t, err)
	//
	a := witnessField(t, sys, 5)
	zero := witnessField(t, sys, 0)
	//
	_, err = FieldDivWhen(sys, guard, a, zero)
	require.NoError(t, err)
	assert.NoError(t, sys.Verify())
}

func Test_FieldEq_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := witnessField(t, sys, 7)
	b := witnessField(t, sys, 7)
	c := witnessField(t, sys, 8)
	//
	eq, err := FieldEq(sys, a, b)
	require.NoError(t, err)
	assert.True(t, eq.Witness)
	//
	neq, err := FieldEq(sys, a, c)
	require.NoError(t, err)
	assert.False(t, neq.Witness)
	//
	assert.NoError(t, sys.Verify())
}
