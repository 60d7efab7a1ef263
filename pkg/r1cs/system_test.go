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
package r1cs

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_System_Product(t *testing.T) {
	sys := NewSystem(0)
	//
	a, err := sys.AllocInput("a", PrivateInput, fr.NewElement(3))
	require.NoError(t, err)
	b, err := sys.AllocInput("b", PrivateInput, fr.NewElement(5))
	require.NoError(t, err)
	c, err := sys.AllocInput("c", PublicInput, fr.NewElement(15))
	require.NoError(t, err)
	// a * b = c
	err = sys.Enforce(NewTerm(a), NewTerm(b), NewTerm(c), "product")
	require.NoError(t, err)
	//
	assert.True(t, sys.IsSatisfied())
	assert.NoError(t, sys.Verify())
}

func Test_System_Violation(t *testing.T) {
	sys := NewSystem(0)
	//
	a, err := sys.AllocInput("a", PrivateInput, fr.NewElement(3))
	require.NoError(t, err)
	// a * a = 10 does not hold for a = 3
	err = sys.Enforce(NewTerm(a), NewTerm(a), NewConstant64(10), "square")
	require.NoError(t, err)
	//
	assert.False(t, sys.IsSatisfied())
	assert.Error(t, sys.Verify())
}

func Test_System_Eval(t *testing.T) {
	sys := NewSystem(0)
	//
	a, err := sys.AllocInput("a", PrivateInput, fr.NewElement(7))
	require.NoError(t, err)
	// 2a + 3
	lc := NewTerm(a).Scale(fr.NewElement(2)).Add(NewConstant64(3))
	//
	expected := fr.NewElement(17)
	actual := sys.Eval(lc)
	//
	assert.True(t, expected.Equal(&actual))
}

func Test_System_Inputs(t *testing.T) {
	sys := NewSystem(0)
	//
	_, err := sys.AllocInput("x", PublicInput, fr.NewElement(1))
	require.NoError(t, err)
	_, err = sys.AllocInput("y", PrivateInput, fr.NewElement(2))
	require.NoError(t, err)
	_, err = sys.AllocInput("z", PublicInput, fr.NewElement(3))
	require.NoError(t, err)
	_, err = sys.AllocInternal(fr.NewElement(4))
	require.NoError(t, err)
	//
	publics := sys.PublicInputs()
	require.Len(t, publics, 2)
	assert.Equal(t, "x", publics[0].Name)
	assert.Equal(t, "z", publics[1].Name)
	//
	privates := sys.PrivateInputs()
	require.Len(t, privates, 1)
	assert.Equal(t, "y", privates[0].Name)
}

func Test_System_Ceiling(t *testing.T) {
	sys := NewSystem(4)
	//
	var err error
	// Wire 0 is the one-wire, so only three allocations fit.
	for i := 0; err == nil && i < 10; i++ {
		_, err = sys.AllocInternal(fr.NewElement(uint64(i)))
	}
	//
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func Test_LinearCombination_Merge(t *testing.T) {
	sys := NewSystem(0)
	//
	a, err := sys.AllocInput("a", PrivateInput, fr.NewElement(2))
	require.NoError(t, err)
	// a + a - 2a should compact to the empty combination
	lc := NewTerm(a).Add(NewTerm(a)).Sub(NewTerm(a).Scale(fr.NewElement(2)))
	//
	assert.Empty(t, lc)
	//
	value, constant := lc.IsConstant()
	assert.True(t, constant)
	assert.True(t, value.IsZero())
}
