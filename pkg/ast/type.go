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
package ast

import (
	"fmt"
	"strings"

	"github.com/quill-zk/quill/pkg/util/source"
)

// Type represents a syntactic type annotation, as written in the source
// program.  Syntactic types are resolved into concrete semantic types during
// construction of the semantic graph.
type Type interface {
	Node
	// String returns the source-level rendering of this type.
	String() string
}

// BoolType is the type of boolean values.
type BoolType struct {
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *BoolType) Span() source.Span { return p.Source }

func (p *BoolType) String() string { return "bool" }

// IntType is the type of fixed-width integers (e.g. u8, i128).
type IntType struct {
	// Width of this integer type in bits.
	Width uint
	// Indicates two's-complement signed interpretation.
	Signed bool
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *IntType) Span() source.Span { return p.Source }

func (p *IntType) String() string {
	if p.Signed {
		return fmt.Sprintf("i%d", p.Width)
	}
	//
	return fmt.Sprintf("u%d", p.Width)
}

// FieldType is the type of native field elements.
type FieldType struct {
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *FieldType) Span() source.Span { return p.Source }

func (p *FieldType) String() string { return "field" }

// GroupType is the type of elliptic-curve group elements.
type GroupType struct {
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *GroupType) Span() source.Span { return p.Source }

func (p *GroupType) String() string { return "group" }

// ArrayType is the type of fixed-length homogeneous arrays.
type ArrayType struct {
	// Element type.
	Element Type
	// Number of elements.
	Size uint
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *ArrayType) Span() source.Span { return p.Source }

func (p *ArrayType) String() string {
	return fmt.Sprintf("[%s; %d]", p.Element.String(), p.Size)
}

// TupleType is the type of fixed-arity heterogeneous tuples.
type TupleType struct {
	// Element types.
	Elements []Type
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *TupleType) Span() source.Span { return p.Source }

func (p *TupleType) String() string {
	elems := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		elems[i] = e.String()
	}
	//
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// NamedType refers to a circuit declaration by name.
type NamedType struct {
	// Name of the circuit being referred to.
	Name string
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *NamedType) Span() source.Span { return p.Source }

func (p *NamedType) String() string { return p.Name }

// SelfType refers to the enclosing circuit declaration.  It is only
// meaningful within the body of a circuit function.
type SelfType struct {
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *SelfType) Span() source.Span { return p.Source }

func (p *SelfType) String() string { return "Self" }
