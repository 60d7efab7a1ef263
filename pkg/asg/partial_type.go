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

// PartialType describes an expectation placed on the type of an expression
// under construction.  Expectations are propagated top-down: for example,
// when building the value of a definition "let x: u8 = e", the builder
// constructs e expecting u8, which (among other things) fixes the width of
// any untyped literals within e.  A partial type is either unconstrained,
// constrained to be numeric (some integer or field, width unknown), or a
// concrete type.
type PartialType struct {
	kind partialKind
	// Concrete expectation (only for partialConcrete).
	concrete Type
}

type partialKind uint

const (
	partialAny partialKind = iota
	partialNumeric
	partialConcrete
)

// AnyType returns the unconstrained expectation.
func AnyType() PartialType {
	return PartialType{partialAny, nil}
}

// NumericType returns the expectation of some numeric type whose width is not
// yet known (e.g. the operands of a comparison whose result type gives no
// width information).
func NumericType() PartialType {
	return PartialType{partialNumeric, nil}
}

// Expecting returns the expectation of exactly the given concrete type.
func Expecting(t Type) PartialType {
	if t == nil {
		return AnyType()
	}
	//
	return PartialType{partialConcrete, t}
}

// IsConcrete indicates whether this expectation names a single concrete type.
func (p PartialType) IsConcrete() bool {
	return p.kind == partialConcrete
}

// Concrete returns the concrete expectation, or nil if there is none.
func (p PartialType) Concrete() Type {
	return p.concrete
}

// Unifies checks whether a given concrete type satisfies this expectation.
func (p PartialType) Unifies(actual Type) bool {
	switch p.kind {
	case partialAny:
		return true
	case partialNumeric:
		return IsNumeric(actual)
	default:
		return p.concrete.Equals(actual)
	}
}

// Element returns the expectation placed on the elements of an array
// expression constructed under this expectation.
func (p PartialType) Element() PartialType {
	if arr, ok := p.concrete.(ArrayType); p.kind == partialConcrete && ok {
		return Expecting(arr.Element)
	}
	//
	return AnyType()
}

// TupleElement returns the expectation placed on the ith element of a tuple
// expression constructed under this expectation.
func (p PartialType) TupleElement(i uint) PartialType {
	if tup, ok := p.concrete.(TupleType); p.kind == partialConcrete && ok && i < uint(len(tup.Elements)) {
		return Expecting(tup.Elements[i])
	}
	//
	return AnyType()
}

func (p PartialType) String() string {
	switch p.kind {
	case partialAny:
		return "_"
	case partialNumeric:
		return "numeric"
	default:
		return p.concrete.String()
	}
}
