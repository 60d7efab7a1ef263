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

// Select chooses between two structurally-identical values under a boolean
// condition.  This single gadget replaces all data-dependent control flow:
// conditionals synthesize both branches and select the results, leaf by
// leaf.  A constant condition folds to the chosen operand outright.
func Select(sys *r1cs.System, cond Bool, then, els Value) (Value, error) {
	if cond.Const {
		if cond.Witness {
			return then, nil
		}
		//
		return els, nil
	}
	//
	switch t := then.(type) {
	case Bool:
		e := els.(Bool)
		//
		wire, _, err := selectLeaf(sys, cond, t.Wire, e.Wire, boolElem(t.Witness), boolElem(e.Witness))
		if err != nil {
			return nil, err
		}
		//
		witness := e.Witness
		if cond.Witness {
			witness = t.Witness
		}
		//
		return Bool{wire, witness, false}, nil
	case Int:
		return selectInt(sys, cond, t, els.(Int))
	case Field:
		e := els.(Field)
		//
		wire, witness, err := selectLeaf(sys, cond, t.Wire, e.Wire, t.Witness, e.Witness)
		if err != nil {
			return nil, err
		}
		//
		return Field{wire, witness, false}, nil
	case Group:
		e := els.(Group)
		//
		x, xv, err := selectLeaf(sys, cond, t.X, e.X, t.WitnessX, e.WitnessX)
		if err != nil {
			return nil, err
		}
		//
		y, yv, err := selectLeaf(sys, cond, t.Y, e.Y, t.WitnessY, e.WitnessY)
		if err != nil {
			return nil, err
		}
		//
		return Group{x, y, xv, yv, false}, nil
	case Array:
		elements, err := selectAll(sys, cond, t.Elements, els.(Array).Elements)
		if err != nil {
			return nil, err
		}
		//
		return Array{t.Element, elements}, nil
	case Tuple:
		elements, err := selectAll(sys, cond, t.Elements, els.(Tuple).Elements)
		if err != nil {
			return nil, err
		}
		//
		return Tuple{elements}, nil
	case Circuit:
		fields, err := selectAll(sys, cond, t.Fields, els.(Circuit).Fields)
		if err != nil {
			return nil, err
		}
		//
		return Circuit{t.CircuitType, fields}, nil
	}
	//
	panic("unknown value")
}

// selectInt selects between two integer values of the same type.  Both
// operands are already range constrained, hence so is the selection.
func selectInt(sys *r1cs.System, cond Bool, then, els Int) (Int, error) {
	if cond.Const {
		if cond.Witness {
			return then, nil
		}
		//
		return els, nil
	}
	//
	wire, _, err := selectLeaf(sys, cond, then.Wire, els.Wire,
		frFromPattern(then.Witness), frFromPattern(els.Witness))
	if err != nil {
		return Int{}, err
	}
	//
	pattern := els.Witness
	if cond.Witness {
		pattern = then.Witness
	}
	//
	return Int{then.Width, then.Signed, wire, pattern, false}, nil
}

func selectAll(sys *r1cs.System, cond Bool, then, els []Value) ([]Value, error) {
	selected := make([]Value, len(then))
	//
	for i := range then {
		s, err := Select(sys, cond, then[i], els[i])
		if err != nil {
			return nil, err
		}
		//
		selected[i] = s
	}
	//
	return selected, nil
}

// selectLeaf selects between two wires: r = cond ? a : b, pinned by
// cond * (a - b) == r - b.
func selectLeaf(sys *r1cs.System, cond Bool, a, b r1cs.LinearCombination,
	aVal, bVal fr.Element) (r1cs.LinearCombination, fr.Element, error) {
	//
	witness := bVal
	if cond.Witness {
		witness = aVal
	}
	//
	wire, err := sys.AllocInternal(witness)
	if err != nil {
		return nil, fr.Element{}, err
	}
	//
	r := r1cs.NewTerm(wire)
	//
	if err := sys.Enforce(cond.Wire, a.Sub(b), r.Sub(b), "select"); err != nil {
		return nil, fr.Element{}, err
	}
	//
	return r, witness, nil
}

// AssertEqual pins two structurally-identical values to be equal, leaf by
// leaf: (a - b) * 1 == 0.  On unequal witnesses the constraints are simply
// unsatisfied.
func AssertEqual(sys *r1cs.System, a, b Value) error {
	switch t := a.(type) {
	case Bool:
		return assertLeaf(sys, t.Wire, b.(Bool).Wire)
	case Int:
		return assertLeaf(sys, t.Wire, b.(Int).Wire)
	case Field:
		return assertLeaf(sys, t.Wire, b.(Field).Wire)
	case Group:
		o := b.(Group)
		//
		if err := assertLeaf(sys, t.X, o.X); err != nil {
			return err
		}
		//
		return assertLeaf(sys, t.Y, o.Y)
	case Array:
		return assertAll(sys, t.Elements, b.(Array).Elements)
	case Tuple:
		return assertAll(sys, t.Elements, b.(Tuple).Elements)
	case Circuit:
		return assertAll(sys, t.Fields, b.(Circuit).Fields)
	}
	//
	panic("unknown value")
}

func assertAll(sys *r1cs.System, a, b []Value) error {
	for i := range a {
		if err := AssertEqual(sys, a[i], b[i]); err != nil {
			return err
		}
	}
	//
	return nil
}

func assertLeaf(sys *r1cs.System, a, b r1cs.LinearCombination) error {
	one := r1cs.NewConstant64(1)
	return sys.Enforce(a.Sub(b), one, r1cs.LinearCombination{}, "assert")
}

// AssertEqualWhen pins two values equal only under a guard, leaf by leaf:
// guard * (a - b) == 0.  With a constant guard this folds to AssertEqual or
// to nothing, which is what keeps assertions inside untaken constant
// branches from binding.
func AssertEqualWhen(sys *r1cs.System, guard Bool, a, b Value) error {
	if guard.Const {
		if !guard.Witness {
			return nil
		}
		//
		return AssertEqual(sys, a, b)
	}
	//
	switch t := a.(type) {
	case Bool:
		return assertLeafWhen(sys, guard, t.Wire, b.(Bool).Wire)
	case Int:
		return assertLeafWhen(sys, guard, t.Wire, b.(Int).Wire)
	case Field:
		return assertLeafWhen(sys, guard, t.Wire, b.(Field).Wire)
	case Group:
		o := b.(Group)
		//
		if err := assertLeafWhen(sys, guard, t.X, o.X); err != nil {
			return err
		}
		//
		return assertLeafWhen(sys, guard, t.Y, o.Y)
	case Array:
		return assertAllWhen(sys, guard, t.Elements, b.(Array).Elements)
	case Tuple:
		return assertAllWhen(sys, guard, t.Elements, b.(Tuple).Elements)
	case Circuit:
		return assertAllWhen(sys, guard, t.Fields, b.(Circuit).Fields)
	}
	//
	panic("unknown value")
}

func assertAllWhen(sys *r1cs.System, guard Bool, a, b []Value) error {
	for i := range a {
		if err := AssertEqualWhen(sys, guard, a[i], b[i]); err != nil {
			return err
		}
	}
	//
	return nil
}

func assertLeafWhen(sys *r1cs.System, guard Bool, a, b r1cs.LinearCombination) error {
	return sys.Enforce(guard.Wire, a.Sub(b), r1cs.LinearCombination{}, "assert")
}

// ValuesEqual tests two structurally-identical values for equality: leaves
// compare through the zero test, aggregates conjoin their element
// comparisons.
func ValuesEqual(sys *r1cs.System, a, b Value) (Bool, error) {
	switch t := a.(type) {
	case Bool:
		return BoolEq(sys, t, b.(Bool))
	case Int:
		return EqInt(sys, t, b.(Int))
	case Field:
		return FieldEq(sys, t, b.(Field))
	case Group:
		return GroupEq(sys, t, b.(Group))
	case Array:
		return allEqual(sys, t.Elements, b.(Array).Elements)
	case Tuple:
		return allEqual(sys, t.Elements, b.(Tuple).Elements)
	case Circuit:
		return allEqual(sys, t.Fields, b.(Circuit).Fields)
	}
	//
	panic("unknown value")
}

func allEqual(sys *r1cs.System, a, b []Value) (Bool, error) {
	result := NewBool(true)
	//
	for i := range a {
		eq, err := ValuesEqual(sys, a[i], b[i])
		if err != nil {
			return Bool{}, err
		}
		//
		if result, err = And(sys, result, eq); err != nil {
			return Bool{}, err
		}
	}
	//
	return result, nil
}

// boolElem lifts a boolean witness into the field.
func boolElem(b bool) fr.Element {
	if b {
		return fr.NewElement(1)
	}
	//
	return fr.Element{}
}
