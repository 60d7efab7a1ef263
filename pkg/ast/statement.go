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
	"github.com/quill-zk/quill/pkg/util/source"
)

// Statement represents an arbitrary statement in the syntax tree.
type Statement interface {
	Node
	// statement is a marker restricting implementations to this package,
	// which in turn keeps type switches over statements exhaustive.
	statement()
}

// Block is a brace-delimited sequence of statements, which introduces a new
// scope.
type Block struct {
	// Statements comprising this block.
	Statements []Statement
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Block) Span() source.Span { return p.Source }

// Definition introduces a new binding (e.g. "let mut x: u32 = 1").
type Definition struct {
	// Indicates whether the binding can be reassigned.
	Mutable bool
	// Name of the binding.
	Name string
	// Optional declared type.  When given, the value expression must unify
	// with it; otherwise the type is inferred.
	Type Type
	// Value being bound.
	Value Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Definition) Span() source.Span { return p.Source }

func (p *Definition) statement() {}

// Assignment overwrites an existing binding, or one element of an
// array/tuple/circuit bound to it (e.g. "xs[0] = 1").  The target must be an
// identifier, possibly wrapped in access expressions.
type Assignment struct {
	// Target of this assignment.
	Target Expression
	// Value being assigned.
	Value Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Assignment) Span() source.Span { return p.Source }

func (p *Assignment) statement() {}

// Return terminates the enclosing function, yielding an optional value.
type Return struct {
	// Value being returned, or nil for a void return.
	Value Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Return) Span() source.Span { return p.Source }

func (p *Return) statement() {}

// Conditional is an if/else-if/else statement.
type Conditional struct {
	// Condition determining which branch executes.
	Condition Expression
	// Branch taken when the condition holds.
	Then Block
	// Branch taken otherwise, or nil.  An else-if chain is represented as an
	// else block holding a single nested conditional.
	Else *Block
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Conditional) Span() source.Span { return p.Source }

func (p *Conditional) statement() {}

// Iteration is a bounded loop "for i in start..stop { ... }".  Both bounds
// must evaluate to compile-time constants, since the loop is unrolled during
// synthesis.
type Iteration struct {
	// Name of the index variable.
	Variable string
	// Bounds of the (half-open) iteration range.
	Start, Stop Expression
	// Loop body.
	Body Block
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Iteration) Span() source.Span { return p.Source }

func (p *Iteration) statement() {}

// ConsoleKind identifies a console statement.
type ConsoleKind uint

const (
	// ConsoleAssert compiles to an equality constraint between two operands.
	ConsoleAssert ConsoleKind = iota
	// ConsoleLog formats its arguments using evaluated witness values.
	ConsoleLog
	// ConsoleDebug is as ConsoleLog, but only shown at debug verbosity.
	ConsoleDebug
	// ConsoleError is as ConsoleLog, but reported at error severity.
	ConsoleError
)

func (k ConsoleKind) String() string {
	switch k {
	case ConsoleAssert:
		return "assert_eq"
	case ConsoleLog:
		return "log"
	case ConsoleDebug:
		return "debug"
	case ConsoleError:
		return "error"
	}
	//
	panic("unknown console kind")
}

// Console is a console statement.  An assert_eq takes exactly two arguments
// and adds an equality constraint; the remaining kinds take a format string
// whose "{}" placeholders are interpolated with evaluated witness values, and
// add no constraints.
type Console struct {
	// Kind of this console statement.
	Kind ConsoleKind
	// Format string (unused for assert_eq).
	Format string
	// Argument expressions.
	Arguments []Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Console) Span() source.Span { return p.Source }

func (p *Console) statement() {}

// ExpressionStatement evaluates an expression for its effect (e.g. a call to
// a void function).
type ExpressionStatement struct {
	// Expression being evaluated.
	Expression Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *ExpressionStatement) Span() source.Span { return p.Source }

func (p *ExpressionStatement) statement() {}
