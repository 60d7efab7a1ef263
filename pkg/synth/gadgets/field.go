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

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/quill-zk/quill/pkg/r1cs"
)

// ErrNoInverse is returned when dividing by a value which provably has no
// multiplicative inverse.
var ErrNoInverse = errors.New("no multiplicative inverse")

// FieldAdd adds two field elements.  Addition is linear and emits no
// constraints.
func FieldAdd(a, b Field) Field {
	var witness fr.Element
	witness.Add(&a.Witness, &b.Witness)
	//
	return Field{a.Wire.Add(b.Wire), witness, a.Const && b.Const}
}

// FieldSub subtracts two field elements.
func FieldSub(a, b Field) Field {
	var witness fr.Element
	witness.Sub(&a.Witness, &b.Witness)
	//
	return Field{a.Wire.Sub(b.Wire), witness, a.Const && b.Const}
}

// FieldNeg negates a field element.
func FieldNeg(a Field) Field {
	var witness fr.Element
	witness.Neg(&a.Witness)
	//
	return Field{a.Wire.Negate(), witness, a.Const}
}

// FieldMul multiplies two field elements.  Multiplication by a constant is
// linear; the general case allocates a product wire and emits a * b == r.
func FieldMul(sys *r1cs.System, a, b Field) (Field, error) {
	var witness fr.Element
	witness.Mul(&a.Witness, &b.Witness)
	//
	if a.Const {
		return Field{b.Wire.Scale(a.Witness), witness, b.Const}, nil
	} else if b.Const {
		return Field{a.Wire.Scale(b.Witness), witness, false}, nil
	}
	//
	wire, err := sys.AllocInternal(witness)
	if err != nil {
		return Field{}, err
	}
	//
	r := r1cs.NewTerm(wire)
	//
	if err := sys.Enforce(a.Wire, b.Wire, r, "fmul"); err != nil {
		return Field{}, err
	}
	//
	return Field{r, witness, false}, nil
}

// FieldDiv divides two field elements.  Division by a constant zero is
// rejected outright; a non-constant divisor is inverted via a witnessed
// inverse pinned by b * inv == 1, which no witness satisfies when b is zero.
func FieldDiv(sys *r1cs.System, a, b Field) (Field, error) {
	return FieldDivWhen(sys, NewBool(true), a, b)
}

// FieldDivWhen divides two field elements under a guard.  When the guard is
// false the divisor is replaced by one, so a zero divisor witness on a path
// never executed still admits an inverse.
func FieldDivWhen(sys *r1cs.System, guard Bool, a, b Field) (Field, error) {
	if b.Const {
		if b.Witness.IsZero() {
			return Field{}, ErrNoInverse
		}
		//
		var inv fr.Element
		inv.Inverse(&b.Witness)
		//
		return FieldMul(sys, a, NewField(inv))
	}
	// Invert one instead of the real divisor wherever the guard is false.
	safe, err := Select(sys, guard, b, NewField(fr.One()))
	if err != nil {
		return Field{}, err
	}
	//
	b = safe.(Field)
	//
	var invVal fr.Element
	invVal.Inverse(&b.Witness)
	//
	wire, err := sys.AllocInternal(invVal)
	if err != nil {
		return Field{}, err
	}
	//
	inv := r1cs.NewTerm(wire)
	// b * inv == 1
	if err := sys.Enforce(b.Wire, inv, r1cs.NewConstant64(1), "finv"); err != nil {
		return Field{}, err
	}
	//
	return FieldMul(sys, a, Field{inv, invVal, false})
}

// FieldEq tests two field elements for equality.
func FieldEq(sys *r1cs.System, a, b Field) (Bool, error) {
	var diff fr.Element
	diff.Sub(&a.Witness, &b.Witness)
	//
	return IsZero(sys, a.Wire.Sub(b.Wire), diff)
}
