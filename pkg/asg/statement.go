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
	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util/source"
)

// Statement represents a scope- and type-resolved statement in the semantic
// graph.
type Statement interface {
	// Span returns the location of this statement in its original source.
	Span() source.Span
	// statement restricts implementations to this package, keeping type
	// switches over statements exhaustive.
	statement()
}

// Definition introduces a new binding.
type Definition struct {
	// Handle of the variable being introduced.
	Variable VariableId
	// Value being bound.
	Value Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this statement in its original source.
func (p *Definition) Span() source.Span { return p.Source }

func (p *Definition) statement() {}

// AccessKind distinguishes the steps of an assignment target path.
type AccessKind uint

const (
	// ArrayElement selects an array element by (possibly runtime) index.
	ArrayElement AccessKind = iota
	// TupleElement selects a tuple element by constant position.
	TupleElement
	// CircuitMember selects a circuit field by index.
	CircuitMember
)

// Access is one step of an assignment target path.  For example, the target
// "xs[0].y" is the variable xs followed by an array element step and a
// circuit member step.
type Access struct {
	// Kind of this access.
	Kind AccessKind
	// Index expression (ArrayElement only).
	Index Expression
	// Constant element position (TupleElement and CircuitMember).
	Element uint
}

// Assignment overwrites an existing mutable binding, or one element of the
// structure bound to it.  Synthesis re-synthesises only the affected
// sub-structure, leaving sibling wires shared with the previous value.
type Assignment struct {
	// Handle of the variable being assigned.
	Variable VariableId
	// Access path into the variable's structure (empty for a plain
	// assignment).
	Path []Access
	// Value being assigned.
	Value Expression
	// Source location (of the assigning statement, not the declaration).
	Source source.Span
}

// Span returns the location of this statement in its original source.
func (p *Assignment) Span() source.Span { return p.Source }

func (p *Assignment) statement() {}

// Return terminates the enclosing function with an optional value.
type Return struct {
	// Value being returned, or nil for a void return.
	Value Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this statement in its original source.
func (p *Return) Span() source.Span { return p.Source }

func (p *Return) statement() {}

// Conditional is a resolved if/else statement.  Both branches are always
// synthesised, since the target has no data-dependent branching; assignments
// within each branch take effect through conditional-select gadgets.
type Conditional struct {
	// Condition determining which branch is observed.
	Condition Expression
	// Branch taken when the condition holds.
	Then []Statement
	// Branch taken otherwise (possibly empty).
	Else []Statement
	// Source location.
	Source source.Span
}

// Span returns the location of this statement in its original source.
func (p *Conditional) Span() source.Span { return p.Source }

func (p *Conditional) statement() {}

// Iteration is a resolved bounded loop.  The bounds must synthesise to
// compile-time constants; the body is then synthesised once per integer in
// the half-open range with the index variable bound to that constant.
type Iteration struct {
	// Handle of the index variable.
	Variable VariableId
	// Bounds of the iteration range.
	Start, Stop Expression
	// Loop body.
	Body []Statement
	// Source location.
	Source source.Span
}

// Span returns the location of this statement in its original source.
func (p *Iteration) Span() source.Span { return p.Source }

func (p *Iteration) statement() {}

// Console is a resolved console statement.  An assert_eq lowers to an
// equality constraint; the remaining kinds add no constraints and format
// using evaluated witness values.
type Console struct {
	// Kind of this console statement.
	Kind ast.ConsoleKind
	// Format string (unused for assert_eq).
	Format string
	// Argument expressions.
	Arguments []Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this statement in its original source.
func (p *Console) Span() source.Span { return p.Source }

func (p *Console) statement() {}

// Expr evaluates an expression for its effect (e.g. a call to a void
// function).
type Expr struct {
	// Expression being evaluated.
	Expression Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this statement in its original source.
func (p *Expr) Span() source.Span { return p.Source }

func (p *Expr) statement() {}
