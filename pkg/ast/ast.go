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

// Package ast defines the syntax tree produced by the external parser.  Nodes
// are plain data: they carry a source span for diagnostics, but no resolved
// scope or type information.  That information is attached during construction
// of the semantic graph (see pkg/asg), which never mutates these nodes.
package ast

import (
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// Node is an arbitrary element of the syntax tree.  Every node carries the
// span of original source text from which it was parsed.
type Node interface {
	// Span returns the location of this node in its original source file.
	Span() source.Span
}

// Program represents a single parsed source program (i.e. one package).
type Program struct {
	// Name of this program, as given by its enclosing package.
	Name string
	// Imports declared at the head of this program.
	Imports []Import
	// Circuit (i.e. structure) declarations.
	Circuits []Circuit
	// Top-level function declarations, including main.
	Functions []Function
}

// Import represents a single import declaration, bringing public symbols of
// another package into scope.
type Import struct {
	// Path of the package being imported (e.g. "core/unstable/blake2s").
	Path util.Path
	// Indicates a star import (i.e. all public symbols).
	Star bool
	// Selected symbols (unless star import).
	Symbols []ImportSymbol
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Import) Span() source.Span { return p.Source }

// ImportSymbol identifies one imported symbol, along with an optional alias
// under which it is brought into the importing scope.
type ImportSymbol struct {
	// Name of the symbol within the imported package.
	Name string
	// Optional alias (i.e. "as" name) for the symbol.
	Alias util.Option[string]
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *ImportSymbol) Span() source.Span { return p.Source }

// Circuit represents a struct-like circuit declaration, comprising zero or
// more fields along with static and instance functions.  Note this is
// distinct from the arithmetic circuit being synthesised.
type Circuit struct {
	// Name of this circuit type.
	Name string
	// Field declarations.
	Fields []CircuitField
	// Static and instance function declarations.
	Functions []Function
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Circuit) Span() source.Span { return p.Source }

// CircuitField represents a single named field of a circuit declaration.
type CircuitField struct {
	// Name of this field.
	Name string
	// Declared type of this field.
	Type Type
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *CircuitField) Span() source.Span { return p.Source }

// Function represents a function declaration, either at the top level or
// within a circuit declaration.
type Function struct {
	// Name of this function.
	Name string
	// Indicates a static function (only meaningful within a circuit
	// declaration).  An instance function receives an implicit "self"
	// parameter bound to the receiving circuit value.
	Static bool
	// Declared parameters.
	Parameters []Parameter
	// Declared return type, or nil for a void function.
	Return Type
	// Function body.
	Body Block
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Function) Span() source.Span { return p.Source }

// Visibility determines whether a function input is allocated as a public or
// private wire in the synthesised circuit.
type Visibility uint

const (
	// Private inputs are known only to the prover.
	Private Visibility = iota
	// Public inputs are shared with the verifier.
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	//
	return "private"
}

// Parameter represents a single declared function parameter.
type Parameter struct {
	// Name of this parameter.
	Name string
	// Declared type of this parameter.
	Type Type
	// Indicates whether this parameter can be reassigned within the body.
	Mutable bool
	// Determines public versus private wire allocation for entry-point
	// parameters.
	Visibility Visibility
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Parameter) Span() source.Span { return p.Source }
