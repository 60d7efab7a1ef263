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
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/r1cs"
)

// AllocBool allocates a named input wire carrying a boolean, constrained to
// be a bit.
func AllocBool(sys *r1cs.System, name string, visibility r1cs.Visibility, value bool) (Bool, error) {
	wire, err := sys.AllocInput(name, visibility, boolElem(value))
	if err != nil {
		return Bool{}, err
	}
	//
	lc := r1cs.NewTerm(wire)
	// b * (b - 1) == 0
	one := r1cs.NewConstant64(1)
	//
	if err := sys.Enforce(lc, lc.Sub(one), r1cs.LinearCombination{}, "input"); err != nil {
		return Bool{}, err
	}
	//
	return Bool{lc, value, false}, nil
}

// AllocInt allocates a named input wire carrying an integer bit pattern,
// range constrained to its width by decomposition.
func AllocInt(sys *r1cs.System, name string, visibility r1cs.Visibility,
	width uint, signed bool, pattern *uint256.Int) (Int, error) {
	//
	wire, err := sys.AllocInput(name, visibility, frFromPattern(pattern))
	if err != nil {
		return Int{}, err
	}
	//
	lc := r1cs.NewTerm(wire)
	//
	if _, err := decomposeBits(sys, lc, pattern, width); err != nil {
		return Int{}, err
	}
	//
	return Int{width, signed, lc, pattern, false}, nil
}

// AllocField allocates a named input wire carrying a field element.
func AllocField(sys *r1cs.System, name string, visibility r1cs.Visibility,
	value fr.Element) (Field, error) {
	//
	wire, err := sys.AllocInput(name, visibility, value)
	if err != nil {
		return Field{}, err
	}
	//
	return Field{r1cs.NewTerm(wire), value, false}, nil
}

// AllocGroup allocates named input wires carrying affine group coordinates.
// The caller is expected to have checked the point lies on the curve.
func AllocGroup(sys *r1cs.System, name string, visibility r1cs.Visibility,
	x, y fr.Element) (Group, error) {
	//
	xWire, err := sys.AllocInput(name+".x", visibility, x)
	if err != nil {
		return Group{}, err
	}
	//
	yWire, err := sys.AllocInput(name+".y", visibility, y)
	if err != nil {
		return Group{}, err
	}
	//
	return Group{r1cs.NewTerm(xWire), r1cs.NewTerm(yWire), x, y, false}, nil
}

// Publish allocates named public wires mirroring a value's leaves and pins
// them equal, exposing the value in the public statement.
func Publish(sys *r1cs.System, name string, v Value) error {
	switch t := v.(type) {
	case Bool:
		return publishLeaf(sys, name, t.Wire, boolElem(t.Witness))
	case Int:
		return publishLeaf(sys, name, t.Wire, frFromPattern(t.Witness))
	case Field:
		return publishLeaf(sys, name, t.Wire, t.Witness)
	case Group:
		if err := publishLeaf(sys, name+".x", t.X, t.WitnessX); err != nil {
			return err
		}
		//
		return publishLeaf(sys, name+".y", t.Y, t.WitnessY)
	case Array:
		return publishAll(sys, name, t.Elements)
	case Tuple:
		return publishAll(sys, name, t.Elements)
	case Circuit:
		for i, f := range t.Fields {
			if err := Publish(sys, fmt.Sprintf("%s.%d", name, i), f); err != nil {
				return err
			}
		}
		//
		return nil
	}
	//
	panic("unknown value")
}

func publishAll(sys *r1cs.System, name string, elements []Value) error {
	for i, e := range elements {
		if err := Publish(sys, fmt.Sprintf("%s[%d]", name, i), e); err != nil {
			return err
		}
	}
	//
	return nil
}

func publishLeaf(sys *r1cs.System, name string, lc r1cs.LinearCombination, value fr.Element) error {
	wire, err := sys.AllocInput(name, r1cs.PublicInput, value)
	if err != nil {
		return err
	}
	//
	one := r1cs.NewConstant64(1)
	//
	return sys.Enforce(lc.Sub(r1cs.NewTerm(wire)), one, r1cs.LinearCombination{}, "publish")
}
