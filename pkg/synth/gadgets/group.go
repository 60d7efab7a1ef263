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
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/quill-zk/quill/pkg/r1cs"
)

// edwardsD is the d coefficient of the embedded twisted-Edwards curve
// -x^2 + y^2 = 1 + d x^2 y^2 over the BLS12-377 scalar field.
var edwardsD = fr.NewElement(3021)

// OnCurve checks whether affine coordinates satisfy the curve equation.
func OnCurve(x, y fr.Element) bool {
	var xx, yy, lhs, rhs fr.Element
	//
	xx.Square(&x)
	yy.Square(&y)
	lhs.Sub(&yy, &xx)
	//
	rhs.Mul(&xx, &yy)
	rhs.Mul(&rhs, &edwardsD)
	//
	var one fr.Element
	one.SetOne()
	rhs.Add(&rhs, &one)
	//
	return lhs.Equal(&rhs)
}

// GroupAdd adds two group elements using the complete twisted-Edwards
// addition law: the denominators 1 +/- d x1 x2 y1 y2 are never zero for
// points on the curve, hence no inversion can fail.
func GroupAdd(sys *r1cs.System, a, b Group) (Group, error) {
	var (
		x1 = Field{a.X, a.WitnessX, a.Const}
		y1 = Field{a.Y, a.WitnessY, a.Const}
		x2 = Field{b.X, b.WitnessX, b.Const}
		y2 = Field{b.Y, b.WitnessY, b.Const}
	)
	//
	x1y2, err := FieldMul(sys, x1, y2)
	if err != nil {
		return Group{}, err
	}
	//
	y1x2, err := FieldMul(sys, y1, x2)
	if err != nil {
		return Group{}, err
	}
	//
	x1x2, err := FieldMul(sys, x1, x2)
	if err != nil {
		return Group{}, err
	}
	//
	y1y2, err := FieldMul(sys, y1, y2)
	if err != nil {
		return Group{}, err
	}
	// t = d x1 x2 y1 y2
	t, err := FieldMul(sys, x1x2, y1y2)
	if err != nil {
		return Group{}, err
	}
	//
	t, err = FieldMul(sys, t, NewField(edwardsD))
	if err != nil {
		return Group{}, err
	}
	//
	var one fr.Element
	one.SetOne()
	// x3 = (x1 y2 + y1 x2) / (1 + t)
	x3, err := FieldDiv(sys, FieldAdd(x1y2, y1x2), FieldAdd(NewField(one), t))
	if err != nil {
		return Group{}, err
	}
	// y3 = (y1 y2 + x1 x2) / (1 - t), using a = -1.
	y3, err := FieldDiv(sys, FieldAdd(y1y2, x1x2), FieldSub(NewField(one), t))
	if err != nil {
		return Group{}, err
	}
	//
	return Group{x3.Wire, y3.Wire, x3.Witness, y3.Witness, x3.Const && y3.Const}, nil
}

// GroupNeg negates a group element by negating its x coordinate.
func GroupNeg(a Group) Group {
	var x fr.Element
	x.Neg(&a.WitnessX)
	//
	return Group{a.X.Negate(), a.Y, x, a.WitnessY, a.Const}
}

// GroupSub subtracts two group elements.
func GroupSub(sys *r1cs.System, a, b Group) (Group, error) {
	return GroupAdd(sys, a, GroupNeg(b))
}

// GroupEq tests two group elements for equality of both affine coordinates.
func GroupEq(sys *r1cs.System, a, b Group) (Bool, error) {
	xEq, err := FieldEq(sys, Field{a.X, a.WitnessX, a.Const}, Field{b.X, b.WitnessX, b.Const})
	if err != nil {
		return Bool{}, err
	}
	//
	yEq, err := FieldEq(sys, Field{a.Y, a.WitnessY, a.Const}, Field{b.Y, b.WitnessY, b.Const})
	if err != nil {
		return Bool{}, err
	}
	//
	return And(sys, xEq, yEq)
}
