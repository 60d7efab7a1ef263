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

// Package gadgets implements the primitive building blocks from which the
// synthesizer assembles circuits: boolean logic, fixed-width integer
// arithmetic with exact wrapping semantics, native field arithmetic and
// twisted-Edwards group arithmetic, plus the conditional-select gadget which
// replaces all data-dependent branching.
//
// Every gadget operates on values: a tagged union pairing the wires of a
// lowered expression with its eagerly-evaluated witness.  A value also
// tracks whether it is a compile-time constant, in which case gadgets fold
// the operation at construction time and emit no constraints.
package gadgets

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/asg"
	"github.com/quill-zk/quill/pkg/r1cs"
)

// Value is one or more circuit wires together with the witness they evaluate
// to under the concrete inputs being synthesised against.  Operator gadgets
// match on operand variants; a variant mismatch after type resolution
// succeeded is a compiler defect and panics rather than reporting a user
// error.
type Value interface {
	// Type returns the semantic type this value lowers.
	Type() asg.Type
	// Constant indicates whether this value is a compile-time constant.
	Constant() bool
	// String renders the witness value, for console interpolation and
	// diagnostics.
	String() string
	// value restricts implementations to this package.
	value()
}

// Bool is a lowered boolean: a single wire constrained to 0 or 1.
type Bool struct {
	// Wire evaluating to 0 or 1.
	Wire r1cs.LinearCombination
	// Witness value.
	Witness bool
	// Compile-time constant marker.
	Const bool
}

// NewBool constructs a constant boolean value.
func NewBool(value bool) Bool {
	var wire r1cs.LinearCombination
	//
	if value {
		wire = r1cs.NewConstant64(1)
	} else {
		wire = r1cs.LinearCombination{}
	}
	//
	return Bool{wire, value, true}
}

// Type returns the semantic type this value lowers.
func (p Bool) Type() asg.Type { return asg.BoolType{} }

// Constant indicates whether this value is a compile-time constant.
func (p Bool) Constant() bool { return p.Const }

func (p Bool) String() string { return fmt.Sprintf("%t", p.Witness) }

func (p Bool) value() {}

// Int is a lowered fixed-width integer.  The wire evaluates to the unsigned
// bit pattern of the value; for signed types, the pattern is the two's
// complement encoding.
type Int struct {
	// Width in bits.
	Width uint
	// Two's-complement interpretation.
	Signed bool
	// Wire evaluating to the unsigned bit pattern (always < 2^Width).
	Wire r1cs.LinearCombination
	// Witness bit pattern.
	Witness *uint256.Int
	// Compile-time constant marker.
	Const bool
}

// NewInt constructs a constant integer value from a bit pattern.
func NewInt(width uint, signed bool, pattern *uint256.Int) Int {
	var elem fr.Element
	elem.SetBigInt(pattern.ToBig())
	//
	return Int{width, signed, r1cs.NewConstant(elem), pattern, true}
}

// Type returns the semantic type this value lowers.
func (p Int) Type() asg.Type { return asg.IntType{Width: p.Width, Signed: p.Signed} }

// Constant indicates whether this value is a compile-time constant.
func (p Int) Constant() bool { return p.Const }

func (p Int) String() string {
	return SignedString(p.Witness, p.Width, p.Signed)
}

func (p Int) value() {}

// SignedString renders a bit pattern under its two's-complement
// interpretation.
func SignedString(pattern *uint256.Int, width uint, signed bool) string {
	if signed && pattern.Clone().Rsh(pattern, width-1).Uint64() == 1 {
		// Negative: render -(2^width - pattern).
		magnitude := new(uint256.Int).Sub(widthModulus(width), pattern)
		return "-" + magnitude.Dec()
	}
	//
	return pattern.Dec()
}

// widthModulus returns 2^width.
func widthModulus(width uint) *uint256.Int {
	return new(uint256.Int).Lsh(uint256.NewInt(1), width)
}

// widthMask returns 2^width - 1.
func widthMask(width uint) *uint256.Int {
	modulus := widthModulus(width)
	return modulus.Sub(modulus, uint256.NewInt(1))
}

// Field is a lowered native field element.
type Field struct {
	// Wire evaluating to the element.
	Wire r1cs.LinearCombination
	// Witness value.
	Witness fr.Element
	// Compile-time constant marker.
	Const bool
}

// NewField constructs a constant field value.
func NewField(value fr.Element) Field {
	return Field{r1cs.NewConstant(value), value, true}
}

// NewFieldFromBig constructs a constant field value, reducing modulo the
// field order.
func NewFieldFromBig(value *big.Int) Field {
	var elem fr.Element
	elem.SetBigInt(value)
	//
	return NewField(elem)
}

// Type returns the semantic type this value lowers.
func (p Field) Type() asg.Type { return asg.FieldType{} }

// Constant indicates whether this value is a compile-time constant.
func (p Field) Constant() bool { return p.Const }

func (p Field) String() string { return p.Witness.String() }

func (p Field) value() {}

// Group is a lowered group element in affine twisted-Edwards coordinates
// over the native field.
type Group struct {
	// Wires evaluating to the affine coordinates.
	X, Y r1cs.LinearCombination
	// Witness coordinates.
	WitnessX, WitnessY fr.Element
	// Compile-time constant marker.
	Const bool
}

// NewGroup constructs a constant group value from affine coordinates.
func NewGroup(x, y fr.Element) Group {
	return Group{r1cs.NewConstant(x), r1cs.NewConstant(y), x, y, true}
}

// GroupIdentity returns the additive identity (0, 1).
func GroupIdentity() Group {
	var one fr.Element
	one.SetOne()
	//
	var zero fr.Element
	//
	return NewGroup(zero, one)
}

// Type returns the semantic type this value lowers.
func (p Group) Type() asg.Type { return asg.GroupType{} }

// Constant indicates whether this value is a compile-time constant.
func (p Group) Constant() bool { return p.Const }

func (p Group) String() string {
	return fmt.Sprintf("(%s, %s)", p.WitnessX.String(), p.WitnessY.String())
}

func (p Group) value() {}

// Array is a lowered fixed-length array.
type Array struct {
	// Element type.
	Element asg.Type
	// Lowered elements.
	Elements []Value
}

// Type returns the semantic type this value lowers.
func (p Array) Type() asg.Type {
	return asg.ArrayType{Element: p.Element, Size: uint(len(p.Elements))}
}

// Constant indicates whether this value is a compile-time constant.
func (p Array) Constant() bool {
	for _, e := range p.Elements {
		if !e.Constant() {
			return false
		}
	}
	//
	return true
}

func (p Array) String() string {
	elems := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		elems[i] = e.String()
	}
	//
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}

func (p Array) value() {}

// Tuple is a lowered fixed-arity tuple.
type Tuple struct {
	// Lowered elements.
	Elements []Value
}

// Type returns the semantic type this value lowers.
func (p Tuple) Type() asg.Type {
	types := make([]asg.Type, len(p.Elements))
	for i, e := range p.Elements {
		types[i] = e.Type()
	}
	//
	return asg.TupleType{Elements: types}
}

// Constant indicates whether this value is a compile-time constant.
func (p Tuple) Constant() bool {
	for _, e := range p.Elements {
		if !e.Constant() {
			return false
		}
	}
	//
	return true
}

func (p Tuple) String() string {
	elems := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		elems[i] = e.String()
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

func (p Tuple) value() {}

// Circuit is a lowered circuit instance.
type Circuit struct {
	// Semantic type of this instance.
	CircuitType asg.CircuitType
	// Lowered field values, in field-declaration order.
	Fields []Value
}

// Type returns the semantic type this value lowers.
func (p Circuit) Type() asg.Type { return p.CircuitType }

// Constant indicates whether this value is a compile-time constant.
func (p Circuit) Constant() bool {
	for _, f := range p.Fields {
		if !f.Constant() {
			return false
		}
	}
	//
	return true
}

func (p Circuit) String() string {
	fields := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = f.String()
	}
	//
	return fmt.Sprintf("%s { %s }", p.CircuitType.Name, strings.Join(fields, ", "))
}

func (p Circuit) value() {}
