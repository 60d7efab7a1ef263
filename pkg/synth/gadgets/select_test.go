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
	"testing"

	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/r1cs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Select_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	cond := witnessBool(t, sys, true)
	then := witnessInt(t, sys, 8, false, 10)
	els := witnessInt(t, sys, 8, false, 20)
	//
	result, err := Select(sys, cond, then, els)
	require.NoError(t, err)
	//
	assert.Equal(t, uint256.NewInt(10), result.(Int).Witness)
	assert.NoError(t, sys.Verify())
}

func Test_Select_02(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	cond := witnessBool(t, sys, false)
	then := witnessInt(t, sys, 8, false, 10)
	els := witnessInt(t, sys, 8, false, 20)
	//
	result, err := Select(sys, cond, then, els)
	require.NoError(t, err)
	//
	assert.Equal(t, uint256.NewInt(20), result.(Int).Witness)
	assert.NoError(t, sys.Verify())
}

func Test_Select_03(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// A constant condition folds without constraints
	then := NewInt(8, false, uint256.NewInt(1))
	els := NewInt(8, false, uint256.NewInt(2))
	//
	result, err := Select(sys, NewBool(true), then, els)
	require.NoError(t, err)
	//
	assert.Equal(t, uint256.NewInt(1), result.(Int).Witness)
	assert.Equal(t, uint(0), sys.NumConstraints())
}

func Test_Select_Aggregate_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	cond := witnessBool(t, sys, false)
	//
	then := Tuple{Elements: []Value{
		witnessInt(t, sys, 8, false, 1),
		witnessBool(t, sys, true),
	}}
	els := Tuple{Elements: []Value{
		witnessInt(t, sys, 8, false, 2),
		witnessBool(t, sys, false),
	}}
	//
	result, err := Select(sys, cond, then, els)
	require.NoError(t, err)
	//
	tuple := result.(Tuple)
	require.Len(t, tuple.Elements, 2)
	assert.Equal(t, uint256.NewInt(2), tuple.Elements[0].(Int).Witness)
	assert.False(t, tuple.Elements[1].(Bool).Witness)
	//
	assert.NoError(t, sys.Verify())
}

func Test_AssertEqual_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := witnessInt(t, sys, 8, false, 42)
	b := witnessInt(t, sys, 8, false, 42)
	//
	require.NoError(t, AssertEqual(sys, a, b))
	assert.NoError(t, sys.Verify())
}

func Test_AssertEqual_02(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := witnessInt(t, sys, 8, false, 42)
	b := witnessInt(t, sys, 8, false, 43)
	//
	require.NoError(t, AssertEqual(sys, a, b))
	// The constraint is emitted, but the witness cannot satisfy it
	assert.Error(t, sys.Verify())
}

func Test_AssertEqualWhen_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// A false guard neutralises the assertion entirely
	guard := witnessBool(t, sys, false)
	a := witnessInt(t, sys, 8, false, 1)
	b := witnessInt(t, sys, 8, false, 2)
	//
	require.NoError(t, AssertEqualWhen(sys, guard, a, b))
	assert.NoError(t, sys.Verify())
}

func Test_AssertEqualWhen_02(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	guard := witnessBool(t, sys, true)
	a := witnessInt(t, sys, 8, false, 1)
	b := witnessInt(t, sys, 8, false, 2)
	//
	require.NoError(t, AssertEqualWhen(sys, guard, a, b))
	assert.Error(t, sys.Verify())
}

func Test_ValuesEqual_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	a := Array{Element: Int{Width: 8}.Type(), Elements: []Value{
		witnessInt(t, sys, 8, false, 1),
		witnessInt(t, sys, 8, false, 2),
	}}
	b := Array{Element: Int{Width: 8}.Type(), Elements: []Value{
		witnessInt(t, sys, 8, false, 1),
		witnessInt(t, sys, 8, false, 2),
	}}
	c := Array{Element: Int{Width: 8}.Type(), Elements: []Value{
		witnessInt(t, sys, 8, false, 1),
		witnessInt(t, sys, 8, false, 3),
	}}
	//
	eq, err := ValuesEqual(sys, a, b)
	require.NoError(t, err)
	assert.True(t, eq.Witness)
	//
	neq, err := ValuesEqual(sys, a, c)
	require.NoError(t, err)
	assert.False(t, neq.Witness)
	//
	assert.NoError(t, sys.Verify())
}
