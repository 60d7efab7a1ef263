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
	"math/big"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// Expression represents a scope- and type-resolved expression in the semantic
// graph.  Invariant: every expression carries a resolved concrete type.  This
// holds after construction and is relied upon, unchecked, by the synthesizer.
type Expression interface {
	// Type returns the resolved concrete type of this expression.
	Type() Type
	// Span returns the location of this expression in its original source.
	Span() source.Span
	// expression restricts implementations to this package, keeping type
	// switches over expressions exhaustive.
	expression()
}

// IntConstant is a resolved integer literal.  The value is stored as the
// mathematical integer (i.e. possibly negative for signed types); reduction
// to a two's-complement bit pattern happens during synthesis.
type IntConstant struct {
	// Value of this constant.
	Value *big.Int
	// Resolved integer type.
	IntType IntType
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *IntConstant) Type() Type { return p.IntType }

// Span returns the location of this expression in its original source.
func (p *IntConstant) Span() source.Span { return p.Source }

func (p *IntConstant) expression() {}

// BoolConstant is a resolved boolean literal.
type BoolConstant struct {
	// Value of this constant.
	Value bool
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *BoolConstant) Type() Type { return BoolType{} }

// Span returns the location of this expression in its original source.
func (p *BoolConstant) Span() source.Span { return p.Source }

func (p *BoolConstant) expression() {}

// FieldConstant is a resolved field-element literal.
type FieldConstant struct {
	// Value of this constant (not yet reduced modulo the field order).
	Value *big.Int
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *FieldConstant) Type() Type { return FieldType{} }

// Span returns the location of this expression in its original source.
func (p *FieldConstant) Span() source.Span { return p.Source }

func (p *FieldConstant) expression() {}

// GroupConstant is a resolved group-element literal in affine coordinates.
type GroupConstant struct {
	// Affine coordinates of this constant.
	X, Y *big.Int
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *GroupConstant) Type() Type { return GroupType{} }

// Span returns the location of this expression in its original source.
func (p *GroupConstant) Span() source.Span { return p.Source }

func (p *GroupConstant) expression() {}

// VariableRef is a resolved reference to a variable.
type VariableRef struct {
	// Handle of the variable being referenced.
	Variable VariableId
	// Resolved type (copied from the variable declaration).
	VarType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *VariableRef) Type() Type { return p.VarType }

// Span returns the location of this expression in its original source.
func (p *VariableRef) Span() source.Span { return p.Source }

func (p *VariableRef) expression() {}

// Binary is a resolved binary operation.
type Binary struct {
	// Operator being applied.
	Op ast.BinaryOp
	// Operands.
	Left, Right Expression
	// Resolved result type.
	ResultType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *Binary) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *Binary) Span() source.Span { return p.Source }

func (p *Binary) expression() {}

// Unary is a resolved unary operation (logical not or arithmetic negation).
type Unary struct {
	// Operator being applied.
	Op ast.UnaryOp
	// Operand.
	Operand Expression
	// Resolved result type.
	ResultType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *Unary) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *Unary) Span() source.Span { return p.Source }

func (p *Unary) expression() {}

// Ternary is a resolved conditional expression.  Both branches are always
// synthesised; the condition wire merely selects between the results.
type Ternary struct {
	// Condition determining which branch result is selected.
	Condition Expression
	// Branches, which must share one type.
	Then, Else Expression
	// Resolved result type.
	ResultType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *Ternary) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *Ternary) Span() source.Span { return p.Source }

func (p *Ternary) expression() {}

// Call is a resolved function invocation.  Calls are inlined during
// synthesis: the callee body is synthesised in a fresh scope with parameters
// bound to the caller's argument wires.
type Call struct {
	// Handle of the function being invoked.
	Function FunctionId
	// Receiver value, for instance-function calls only.
	Receiver util.Option[Expression]
	// Arguments, in parameter order.
	Arguments []Expression
	// Resolved result type, or nil for a void callee.  A call to a void
	// function may only appear as an expression statement; elsewhere the
	// expression invariant applies.
	ResultType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *Call) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *Call) Span() source.Span { return p.Source }

func (p *Call) expression() {}

// ArrayInit is a resolved array literal, with repeat literals expanded to
// their elements.
type ArrayInit struct {
	// Element expressions.
	Elements []Expression
	// Resolved array type.
	ResultType ArrayType
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *ArrayInit) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *ArrayInit) Span() source.Span { return p.Source }

func (p *ArrayInit) expression() {}

// ArrayAccess is a resolved array element access.  When the index is not a
// compile-time constant, synthesis lowers the access via a conditional-select
// gadget over all elements, which is why all elements must share one type.
type ArrayAccess struct {
	// Array being accessed.
	Array Expression
	// Index expression.
	Index Expression
	// Resolved element type.
	ResultType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *ArrayAccess) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *ArrayAccess) Span() source.Span { return p.Source }

func (p *ArrayAccess) expression() {}

// TupleInit is a resolved tuple literal.
type TupleInit struct {
	// Element expressions.
	Elements []Expression
	// Resolved tuple type.
	ResultType TupleType
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *TupleInit) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *TupleInit) Span() source.Span { return p.Source }

func (p *TupleInit) expression() {}

// TupleAccess is a resolved tuple element access.  The index is always a
// compile-time constant.
type TupleAccess struct {
	// Tuple being accessed.
	Tuple Expression
	// Element position.
	Index uint
	// Resolved element type.
	ResultType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *TupleAccess) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *TupleAccess) Span() source.Span { return p.Source }

func (p *TupleAccess) expression() {}

// CircuitInit is a resolved circuit instantiation, with member values given
// in field-declaration order.
type CircuitInit struct {
	// Handle of the circuit being instantiated.
	Circuit CircuitId
	// Member values, in field-declaration order.
	Members []Expression
	// Resolved circuit type.
	ResultType CircuitType
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *CircuitInit) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *CircuitInit) Span() source.Span { return p.Source }

func (p *CircuitInit) expression() {}

// CircuitAccess is a resolved access of a circuit field.
type CircuitAccess struct {
	// Circuit value being accessed.
	Target Expression
	// Index of the field being accessed.
	Field uint
	// Resolved field type.
	ResultType Type
	// Source location.
	Source source.Span
}

// Type returns the resolved concrete type of this expression.
func (p *CircuitAccess) Type() Type { return p.ResultType }

// Span returns the location of this expression in its original source.
func (p *CircuitAccess) Span() source.Span { return p.Source }

func (p *CircuitAccess) expression() {}

// Children returns the immediate sub-expressions of a given expression, in
// evaluation order.  This is the traversal primitive underpinning the
// reducer framework.
func Children(expr Expression) []Expression {
	switch e := expr.(type) {
	case *IntConstant, *BoolConstant, *FieldConstant, *GroupConstant, *VariableRef:
		return nil
	case *Binary:
		return []Expression{e.Left, e.Right}
	case *Unary:
		return []Expression{e.Operand}
	case *Ternary:
		return []Expression{e.Condition, e.Then, e.Else}
	case *Call:
		children := make([]Expression, 0, len(e.Arguments)+1)
		if e.Receiver.HasValue() {
			children = append(children, e.Receiver.Unwrap())
		}
		//
		return append(children, e.Arguments...)
	case *ArrayInit:
		return e.Elements
	case *ArrayAccess:
		return []Expression{e.Array, e.Index}
	case *TupleInit:
		return e.Elements
	case *TupleAccess:
		return []Expression{e.Tuple}
	case *CircuitInit:
		return e.Members
	case *CircuitAccess:
		return []Expression{e.Target}
	}
	//
	panic("unknown expression")
}
