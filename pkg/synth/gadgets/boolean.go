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

// Not negates a boolean.  Negation is linear (1 - b) and emits no
// constraints.
func Not(a Bool) Bool {
	return Bool{r1cs.NewConstant64(1).Sub(a.Wire), !a.Witness, a.Const}
}

// And conjoins two booleans, emitting a * b == r.  A constant operand folds
// to the identity or the annihilator.
func And(sys *r1cs.System, a, b Bool) (Bool, error) {
	if a.Const {
		if !a.Witness {
			return NewBool(false), nil
		}
		//
		return b, nil
	} else if b.Const {
		if !b.Witness {
			return NewBool(false), nil
		}
		//
		return a, nil
	}
	//
	witness := a.Witness && b.Witness
	//
	r, err := allocBit(sys, witness)
	if err != nil {
		return Bool{}, err
	}
	// a * b == r
	if err := sys.Enforce(a.Wire, b.Wire, r, "and"); err != nil {
		return Bool{}, err
	}
	//
	return Bool{r, witness, false}, nil
}

// Or disjoins two booleans, emitting a * b == a + b - r.
func Or(sys *r1cs.System, a, b Bool) (Bool, error) {
	if a.Const {
		if a.Witness {
			return NewBool(true), nil
		}
		//
		return b, nil
	} else if b.Const {
		if b.Witness {
			return NewBool(true), nil
		}
		//
		return a, nil
	}
	//
	witness := a.Witness || b.Witness
	//
	r, err := allocBit(sys, witness)
	if err != nil {
		return Bool{}, err
	}
	// a * b == a + b - r
	if err := sys.Enforce(a.Wire, b.Wire, a.Wire.Add(b.Wire).Sub(r), "or"); err != nil {
		return Bool{}, err
	}
	//
	return Bool{r, witness, false}, nil
}

// Xor computes exclusive or, emitting 2a * b == a + b - r.
func Xor(sys *r1cs.System, a, b Bool) (Bool, error) {
	if a.Const {
		if a.Witness {
			return Not(b), nil
		}
		//
		return b, nil
	} else if b.Const {
		if b.Witness {
			return Not(a), nil
		}
		//
		return a, nil
	}
	//
	witness := a.Witness != b.Witness
	//
	r, err := allocBit(sys, witness)
	if err != nil {
		return Bool{}, err
	}
	// 2a * b == a + b - r
	two := fr.NewElement(2)
	//
	if err := sys.Enforce(a.Wire.Scale(two), b.Wire, a.Wire.Add(b.Wire).Sub(r), "xor"); err != nil {
		return Bool{}, err
	}
	//
	return Bool{r, witness, false}, nil
}

// BoolEq tests two booleans for equality (exclusive nor).
func BoolEq(sys *r1cs.System, a, b Bool) (Bool, error) {
	xor, err := Xor(sys, a, b)
	if err != nil {
		return Bool{}, err
	}
	//
	return Not(xor), nil
}

// AssertTrue pins a boolean to one: b * 1 == 1.  On a false witness the
// constraint is simply unsatisfied.
func AssertTrue(sys *r1cs.System, b Bool, label string) error {
	one := r1cs.NewConstant64(1)
	return sys.Enforce(b.Wire, one, one, label)
}

// allocBit allocates an internal wire carrying a 0/1 witness.  The caller is
// responsible for constraining it (directly or via the emitted relation).
func allocBit(sys *r1cs.System, value bool) (r1cs.LinearCombination, error) {
	var witness fr.Element
	//
	if value {
		witness.SetOne()
	}
	//
	wire, err := sys.AllocInternal(witness)
	if err != nil {
		return nil, err
	}
	//
	return r1cs.NewTerm(wire), nil
}
