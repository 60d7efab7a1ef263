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
package asg

import (
	"fmt"
	"strings"
)

// DefaultIntWidth is the width given to an untyped numeric literal whose
// width is not fixed by its surrounding context.
const DefaultIntWidth = 32

// Type represents a concrete, fully-resolved semantic type.  Every expression
// in the semantic graph carries exactly one concrete type.
type Type interface {
	// String returns the source-level rendering of this type.
	String() string
	// Equals performs a structural equality check against another type.
	// Circuit types compare by declaration handle rather than structurally.
	Equals(Type) bool
}

// BoolType is the type of boolean values.
type BoolType struct{}

func (p BoolType) String() string { return "bool" }

// Equals performs a structural equality check against another type.
func (p BoolType) Equals(other Type) bool {
	_, ok := other.(BoolType)
	return ok
}

// IntType is the type of fixed-width integers.  Arithmetic on integer values
// wraps modulo 2^Width, with Signed determining the two's-complement
// interpretation of the bit pattern.
type IntType struct {
	// Width in bits.
	Width uint
	// Two's-complement interpretation.
	Signed bool
}

func (p IntType) String() string {
	if p.Signed {
		return fmt.Sprintf("i%d", p.Width)
	}
	//
	return fmt.Sprintf("u%d", p.Width)
}

// Equals performs a structural equality check against another type.
func (p IntType) Equals(other Type) bool {
	o, ok := other.(IntType)
	return ok && o.Width == p.Width && o.Signed == p.Signed
}

// FieldType is the type of native field elements.
type FieldType struct{}

func (p FieldType) String() string { return "field" }

// Equals performs a structural equality check against another type.
func (p FieldType) Equals(other Type) bool {
	_, ok := other.(FieldType)
	return ok
}

// GroupType is the type of elliptic-curve group elements, represented in
// affine coordinates over the native field.
type GroupType struct{}

func (p GroupType) String() string { return "group" }

// Equals performs a structural equality check against another type.
func (p GroupType) Equals(other Type) bool {
	_, ok := other.(GroupType)
	return ok
}

// ArrayType is the type of fixed-length homogeneous arrays.
type ArrayType struct {
	// Element type.
	Element Type
	// Number of elements.
	Size uint
}

func (p ArrayType) String() string {
	return fmt.Sprintf("[%s; %d]", p.Element.String(), p.Size)
}

// Equals performs a structural equality check against another type.
func (p ArrayType) Equals(other Type) bool {
	o, ok := other.(ArrayType)
	return ok && o.Size == p.Size && p.Element.Equals(o.Element)
}

// TupleType is the type of fixed-arity heterogeneous tuples.
type TupleType struct {
	// Element types.
	Elements []Type
}

func (p TupleType) String() string {
	elems := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		elems[i] = e.String()
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// Equals performs a structural equality check against another type.
func (p TupleType) Equals(other Type) bool {
	o, ok := other.(TupleType)
	//
	if !ok || len(o.Elements) != len(p.Elements) {
		return false
	}
	//
	for i := range p.Elements {
		if !p.Elements[i].Equals(o.Elements[i]) {
			return false
		}
	}
	//
	return true
}

// CircuitType is the type of instances of a given circuit declaration.
type CircuitType struct {
	// Handle of the circuit declaration within the arena.
	Circuit CircuitId
	// Name of the circuit declaration, retained for diagnostics.
	Name string
}

func (p CircuitType) String() string { return p.Name }

// Equals performs a structural equality check against another type.  Two
// circuit types are equal exactly when they refer to the same declaration.
func (p CircuitType) Equals(other Type) bool {
	o, ok := other.(CircuitType)
	return ok && o.Circuit == p.Circuit
}

// IsNumeric indicates whether a given type supports arithmetic operators.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case IntType, FieldType, GroupType:
		return true
	}
	//
	return false
}
