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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"github.com/quill-zk/quill/pkg/r1cs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// basePoint returns the generator of the embedded twisted-Edwards curve.
func basePoint() (fr.Element, fr.Element) {
	base := twistededwards.GetEdwardsCurve().Base
	return base.X, base.Y
}

func witnessGroup(t *testing.T, sys *r1cs.System, x, y fr.Element) Group {
	t.Helper()
	//
	v, err := AllocGroup(sys, "g", r1cs.PrivateInput, x, y)
	require.NoError(t, err)
	//
	return v
}

func Test_OnCurve_01(t *testing.T) {
	x, y := basePoint()
	//
	assert.True(t, OnCurve(x, y))
	// Identity
	var zero, one fr.Element
	one.SetOne()
	assert.True(t, OnCurve(zero, one))
	// Perturbed point
	var bad fr.Element
	bad.Add(&x, &one)
	assert.False(t, OnCurve(bad, y))
}

func Test_GroupAdd_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// g + identity = g
	x, y := basePoint()
	g := witnessGroup(t, sys, x, y)
	id := witnessGroup(t, sys, fr.NewElement(0), fr.NewElement(1))
	//
	sum, err := GroupAdd(sys, g, id)
	require.NoError(t, err)
	//
	assert.True(t, x.Equal(&sum.WitnessX))
	assert.True(t, y.Equal(&sum.WitnessY))
	assert.NoError(t, sys.Verify())
}

func Test_GroupAdd_02(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// The sum of two curve points stays on the curve
	x, y := basePoint()
	g := witnessGroup(t, sys, x, y)
	//
	double, err := GroupAdd(sys, g, g)
	require.NoError(t, err)
	//
	assert.True(t, OnCurve(double.WitnessX, double.WitnessY))
	assert.NoError(t, sys.Verify())
}

func Test_GroupAdd_03(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// Doubling agrees with the reference implementation
	var expected twistededwards.PointAffine
	//
	base := twistededwards.GetEdwardsCurve().Base
	expected.Double(&base)
	//
	g := witnessGroup(t, sys, base.X, base.Y)
	//
	double, err := GroupAdd(sys, g, g)
	require.NoError(t, err)
	//
	assert.True(t, expected.X.Equal(&double.WitnessX))
	assert.True(t, expected.Y.Equal(&double.WitnessY))
}

func Test_GroupNeg_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	// g + (-g) = identity
	x, y := basePoint()
	g := witnessGroup(t, sys, x, y)
	//
	sum, err := GroupAdd(sys, g, GroupNeg(g))
	require.NoError(t, err)
	//
	assert.True(t, sum.WitnessX.IsZero())
	assert.True(t, sum.WitnessY.IsOne())
	assert.NoError(t, sys.Verify())
}

func Test_GroupSub_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	x, y := basePoint()
	g := witnessGroup(t, sys, x, y)
	//
	diff, err := GroupSub(sys, g, g)
	require.NoError(t, err)
	//
	assert.True(t, diff.WitnessX.IsZero())
	assert.True(t, diff.WitnessY.IsOne())
	assert.NoError(t, sys.Verify())
}

func Test_GroupEq_01(t *testing.T) {
	sys := r1cs.NewSystem(0)
	//
	x, y := basePoint()
	g := witnessGroup(t, sys, x, y)
	h := witnessGroup(t, sys, x, y)
	id := witnessGroup(t, sys, fr.NewElement(0), fr.NewElement(1))
	//
	eq, err := GroupEq(sys, g, h)
	require.NoError(t, err)
	assert.True(t, eq.Witness)
	//
	neq, err := GroupEq(sys, g, id)
	require.NoError(t, err)
	assert.False(t, neq.Witness)
	//
	assert.NoError(t, sys.Verify())
}
