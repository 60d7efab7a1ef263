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
	"math/big"

	"github.com/quill-zk/quill/pkg/util/source"
)

// Expression represents an arbitrary expression in the syntax tree.
type Expression interface {
	Node
	// expression is a marker restricting implementations to this package,
	// which in turn keeps type switches over expressions exhaustive.
	expression()
}

// BinaryOp identifies a binary operator.
type BinaryOp uint

// The set of binary operators.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
	Eq
	Neq
	Lt
	LtEq
	Gt
	GtEq
	And
	Or
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "**"
	case Eq:
		return "=="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Gt:
		return ">"
	case GtEq:
		return ">="
	case And:
		return "&&"
	case Or:
		return "||"
	}
	//
	panic("unknown binary operator")
}

// IsComparison indicates whether this operator compares its (numeric)
// operands, producing a boolean.
func (op BinaryOp) IsComparison() bool {
	return op >= Eq && op <= GtEq
}

// IsLogical indicates whether this operator requires boolean operands.
func (op BinaryOp) IsLogical() bool {
	return op == And || op == Or
}

// UnaryOp identifies a unary operator.
type UnaryOp uint

// The set of unary operators.
const (
	// Not is logical negation of a boolean.
	Not UnaryOp = iota
	// Negate is arithmetic negation of a signed integer, field or group.
	Negate
)

func (op UnaryOp) String() string {
	if op == Not {
		return "!"
	}
	//
	return "-"
}

// IntLiteral is an integer literal, optionally carrying a width suffix (e.g.
// "1u8").  A literal without a suffix takes its type from the surrounding
// context.
type IntLiteral struct {
	// Value of this literal.
	Value *big.Int
	// Optional suffix type (e.g. u8).
	Suffix *IntType
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *IntLiteral) Span() source.Span { return p.Source }

func (p *IntLiteral) expression() {}

// BoolLiteral is a boolean literal (true or false).
type BoolLiteral struct {
	// Value of this literal.
	Value bool
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *BoolLiteral) Span() source.Span { return p.Source }

func (p *BoolLiteral) expression() {}

// FieldLiteral is a field-element literal (e.g. "1field").
type FieldLiteral struct {
	// Value of this literal (reduced modulo the field order).
	Value *big.Int
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *FieldLiteral) Span() source.Span { return p.Source }

func (p *FieldLiteral) expression() {}

// GroupLiteral is a group-element literal, given as an affine coordinate pair
// (e.g. "(0, 1)group").
type GroupLiteral struct {
	// Affine coordinates of this literal.
	X, Y *big.Int
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *GroupLiteral) Span() source.Span { return p.Source }

func (p *GroupLiteral) expression() {}

// Identifier is a reference to a named binding (variable, parameter, function
// or the implicit "self" receiver).
type Identifier struct {
	// Name being referred to.
	Name string
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Identifier) Span() source.Span { return p.Source }

func (p *Identifier) expression() {}

// Binary is the application of a binary operator to two operands.
type Binary struct {
	// Operator being applied.
	Op BinaryOp
	// Operands.
	Left, Right Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Binary) Span() source.Span { return p.Source }

func (p *Binary) expression() {}

// Unary is the application of a unary operator to a single operand.
type Unary struct {
	// Operator being applied.
	Op UnaryOp
	// Operand.
	Operand Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Unary) Span() source.Span { return p.Source }

func (p *Unary) expression() {}

// Ternary is a conditional expression "cond ? then : else".
type Ternary struct {
	// Condition determining which branch is selected.
	Condition Expression
	// Branches.
	Then, Else Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Ternary) Span() source.Span { return p.Source }

func (p *Ternary) expression() {}

// Call is the invocation of a function, being either a top-level function, a
// static circuit function or an instance function on a receiver.
type Call struct {
	// Function being invoked, as an identifier, static access or member
	// access.
	Function Expression
	// Argument expressions.
	Arguments []Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *Call) Span() source.Span { return p.Source }

func (p *Call) expression() {}

// ArrayInline is an array literal listing every element (e.g. "[1, 2, 3]").
type ArrayInline struct {
	// Element expressions.
	Elements []Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *ArrayInline) Span() source.Span { return p.Source }

func (p *ArrayInline) expression() {}

// ArrayRepeat is an array literal repeating one element (e.g. "[0u8; 32]").
type ArrayRepeat struct {
	// Element expression.
	Element Expression
	// Number of repetitions.
	Count uint
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *ArrayRepeat) Span() source.Span { return p.Source }

func (p *ArrayRepeat) expression() {}

// ArrayAccess selects one element of an array.  When the index is not a
// compile-time constant, the access is lowered via a conditional-select over
// all elements.
type ArrayAccess struct {
	// Array being accessed.
	Array Expression
	// Index expression.
	Index Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *ArrayAccess) Span() source.Span { return p.Source }

func (p *ArrayAccess) expression() {}

// TupleInit is a tuple literal (e.g. "(1u8, true)").
type TupleInit struct {
	// Element expressions.
	Elements []Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *TupleInit) Span() source.Span { return p.Source }

func (p *TupleInit) expression() {}

// TupleAccess selects one element of a tuple by constant position.
type TupleAccess struct {
	// Tuple being accessed.
	Tuple Expression
	// Element position (always a compile-time constant).
	Index uint
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *TupleAccess) Span() source.Span { return p.Source }

func (p *TupleAccess) expression() {}

// CircuitInit instantiates a circuit type, giving a value for every field.
type CircuitInit struct {
	// Name of the circuit type being instantiated.
	Name string
	// Field initialisers.
	Members []CircuitInitMember
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *CircuitInit) Span() source.Span { return p.Source }

func (p *CircuitInit) expression() {}

// CircuitInitMember gives the value of one field in a circuit instantiation.
type CircuitInitMember struct {
	// Name of the field being initialised.
	Name string
	// Value of the field.
	Value Expression
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *CircuitInitMember) Span() source.Span { return p.Source }

// MemberAccess selects a field or instance function of a circuit value (e.g.
// "point.x").
type MemberAccess struct {
	// Circuit value being accessed.
	Target Expression
	// Name of the member.
	Member string
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *MemberAccess) Span() source.Span { return p.Source }

func (p *MemberAccess) expression() {}

// StaticAccess selects a static function of a circuit type (e.g.
// "Point::origin").  Unlike all other expressions, a static access does not
// itself denote a value, and hence carries no resolved type in the semantic
// graph; it may only appear as the target of a call.
type StaticAccess struct {
	// Name of the circuit type, or "Self" within a circuit function.
	Circuit string
	// Name of the static member.
	Member string
	// Source location.
	Source source.Span
}

// Span returns the location of this node in its original source file.
func (p *StaticAccess) Span() source.Span { return p.Source }

func (p *StaticAccess) expression() {}

// SpanOf returns the span of an expression, or the given default for nil.
func SpanOf(expr Expression, def source.Span) source.Span {
	if expr == nil {
		return def
	}
	//
	return expr.Span()
}
