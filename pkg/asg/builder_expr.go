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

// buildExpression constructs the semantic node for a given expression under a
// given expectation.  Contract: on success, the returned expression carries a
// concrete type which unifies with the expectation; otherwise construction
// fails with a type mismatch at the offending span.
func (p *builder) buildExpression(scope ScopeId, expr ast.Expression,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	built, err := p.buildExpressionInner(scope, expr, expected)
	if err != nil {
		return nil, err
	}
	//
	if actual := built.Type(); actual == nil || !expected.Unifies(actual) {
		return nil, p.typeMismatch(expr.Span(), expected, actual)
	}
	//
	return built, nil
}

func (p *builder) typeMismatch(span source.Span, expected PartialType, actual Type) *source.SyntaxError {
	name := "none"
	if actual != nil {
		name = actual.String()
	}
	//
	return p.syntaxError(span, source.TypeMismatch,
		"expected type %s (found %s)", expected.String(), name)
}

//nolint:gocyclo
func (p *builder) buildExpressionInner(scope ScopeId, expr ast.Expression,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return p.buildIntLiteral(e, expected)
	case *ast.BoolLiteral:
		return &BoolConstant{e.Value, e.Source}, nil
	case *ast.FieldLiteral:
		return &FieldConstant{e.Value, e.Source}, nil
	case *ast.GroupLiteral:
		return &GroupConstant{e.X, e.Y, e.Source}, nil
	case *ast.Identifier:
		return p.buildIdentifier(scope, e)
	case *ast.Binary:
		return p.buildBinary(scope, e, expected)
	case *ast.Unary:
		return p.buildUnary(scope, e, expected)
	case *ast.Ternary:
		return p.buildTernary(scope, e, expected)
	case *ast.Call:
		return p.buildCall(scope, e, false)
	case *ast.ArrayInline:
		return p.buildArrayInline(scope, e, expected)
	case *ast.ArrayRepeat:
		element, err := p.buildExpression(scope, e.Element, expected.Element())
		if err != nil {
			return nil, err
		}
		//
		elements := make([]Expression, e.Count)
		for i := range elements {
			elements[i] = element
		}
		//
		return &ArrayInit{elements, ArrayType{element.Type(), e.Count}, e.Source}, nil
	case *ast.ArrayAccess:
		return p.buildArrayAccess(scope, e)
	case *ast.TupleInit:
		return p.buildTupleInit(scope, e, expected)
	case *ast.TupleAccess:
		return p.buildTupleAccess(scope, e)
	case *ast.CircuitInit:
		return p.buildCircuitInit(scope, e)
	case *ast.MemberAccess:
		return p.buildMemberAccess(scope, e)
	case *ast.StaticAccess:
		// A static access does not denote a value; it may only appear as the
		// target of a call, which is handled by buildCall.
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"static function \"%s::%s\" used as a value", e.Circuit, e.Member)
	}
	//
	panic("unknown expression")
}

// buildIntLiteral resolves the type of an integer literal, either from its
// suffix or from the surrounding context.  An untyped literal in a context
// fixing no width defaults to u32.  Note that a literal may also take on the
// field type when context requires it.
func (p *builder) buildIntLiteral(e *ast.IntLiteral, expected PartialType) (Expression, *source.SyntaxError) {
	var intType IntType
	//
	switch {
	case e.Suffix != nil:
		intType = IntType{e.Suffix.Width, e.Suffix.Signed}
	case expected.IsConcrete():
		switch t := expected.Concrete().(type) {
		case IntType:
			intType = t
		case FieldType:
			return &FieldConstant{e.Value, e.Source}, nil
		default:
			intType = IntType{DefaultIntWidth, false}
		}
	default:
		intType = IntType{DefaultIntWidth, false}
	}
	// Reject literals whose value does not fit the resolved width.
	if !fitsWidth(e.Value, intType) {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"literal %s out of range for %s", e.Value.String(), intType.String())
	}
	//
	return &IntConstant{e.Value, intType, e.Source}, nil
}

// fitsWidth checks a literal value lies within the representable range of a
// given integer type.
func fitsWidth(value *big.Int, t IntType) bool {
	var lo, hi big.Int
	//
	if t.Signed {
		hi.Lsh(big.NewInt(1), t.Width-1)
		lo.Neg(&hi)
		hi.Sub(&hi, big.NewInt(1))
	} else {
		hi.Lsh(big.NewInt(1), t.Width)
		hi.Sub(&hi, big.NewInt(1))
	}
	//
	return value.Cmp(&lo) >= 0 && value.Cmp(&hi) <= 0
}

func (p *builder) buildIdentifier(scope ScopeId, e *ast.Identifier) (Expression, *source.SyntaxError) {
	binding, ok := p.arena.Resolve(scope, e.Name)
	//
	if !ok {
		return nil, p.syntaxError(e.Source, source.UndefinedReference,
			"undefined variable \"%s\"", e.Name)
	} else if binding.Kind != VariableBinding {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"%s \"%s\" used as a value", binding.Kind, e.Name)
	}
	//
	return &VariableRef{binding.Variable, p.arena.Variable(binding.Variable).Type, e.Source}, nil
}

// isUntypedLiteral identifies a numeric literal carrying no width suffix,
// whose type is therefore free to coerce to its sibling operand.
func isUntypedLiteral(expr ast.Expression) bool {
	lit, ok := expr.(*ast.IntLiteral)
	return ok && lit.Suffix == nil
}

func (p *builder) buildBinary(scope ScopeId, e *ast.Binary,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	switch {
	case e.Op.IsLogical():
		return p.buildLogical(scope, e)
	case e.Op.IsComparison():
		return p.buildComparison(scope, e)
	default:
		return p.buildArithmetic(scope, e, expected)
	}
}

// buildLogical builds && and ||, which require boolean operands on both
// sides.
func (p *builder) buildLogical(scope ScopeId, e *ast.Binary) (Expression, *source.SyntaxError) {
	left, err := p.buildExpression(scope, e.Left, Expecting(BoolType{}))
	if err != nil {
		return nil, err
	}
	//
	right, err := p.buildExpression(scope, e.Right, Expecting(BoolType{}))
	if err != nil {
		return nil, err
	}
	//
	return &Binary{e.Op, left, right, BoolType{}, e.Source}, nil
}

// buildOperands builds the two operands of a comparison or arithmetic
// operator, requiring equal (or literal-coercible) types.  When exactly one
// operand is an untyped literal, the other operand is built first and its
// type fixes the literal's.
func (p *builder) buildOperands(scope ScopeId, e *ast.Binary,
	expected PartialType) (Expression, Expression, *source.SyntaxError) {
	//
	if isUntypedLiteral(e.Left) && !isUntypedLiteral(e.Right) {
		right, err := p.buildExpression(scope, e.Right, expected)
		if err != nil {
			return nil, nil, err
		}
		//
		left, err := p.buildExpression(scope, e.Left, Expecting(right.Type()))
		if err != nil {
			return nil, nil, err
		}
		//
		return left, right, nil
	}
	//
	left, err := p.buildExpression(scope, e.Left, expected)
	if err != nil {
		return nil, nil, err
	}
	//
	right, err := p.buildExpression(scope, e.Right, Expecting(left.Type()))
	if err != nil {
		return nil, nil, err
	}
	//
	return left, right, nil
}

// buildComparison builds ==, !=, <, <=, > and >=, all of which produce a
// boolean.  Equality applies to any operand type; ordering requires integer
// operands.
func (p *builder) buildComparison(scope ScopeId, e *ast.Binary) (Expression, *source.SyntaxError) {
	left, right, err := p.buildOperands(scope, e, AnyType())
	if err != nil {
		return nil, err
	}
	//
	if e.Op != ast.Eq && e.Op != ast.Neq {
		if _, ok := left.Type().(IntType); !ok {
			return nil, p.syntaxError(e.Source, source.TypeMismatch,
				"operator %s requires integer operands (found %s)", e.Op, left.Type())
		}
	}
	//
	return &Binary{e.Op, left, right, BoolType{}, e.Source}, nil
}

// buildArithmetic builds +, -, *, / and **, whose result type is the operand
// type.
func (p *builder) buildArithmetic(scope ScopeId, e *ast.Binary,
	expected PartialType) (Expression, *source.SyntaxError) {
	// Exponentiation is asymmetric: the exponent is an independent integer.
	if e.Op == ast.Pow {
		return p.buildExponent(scope, e, expected)
	}
	//
	left, right, err := p.buildOperands(scope, e, numericExpectation(expected))
	if err != nil {
		return nil, err
	}
	//
	if !IsNumeric(left.Type()) {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"operator %s requires numeric operands (found %s)", e.Op, left.Type())
	}
	// Group elements support addition and subtraction only.
	if _, ok := left.Type().(GroupType); ok && e.Op != ast.Add && e.Op != ast.Sub {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"operator %s not supported on group elements", e.Op)
	}
	//
	return &Binary{e.Op, left, right, left.Type(), e.Source}, nil
}

func (p *builder) buildExponent(scope ScopeId, e *ast.Binary,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	base, err := p.buildExpression(scope, e.Left, numericExpectation(expected))
	if err != nil {
		return nil, err
	}
	//
	if _, ok := base.Type().(IntType); !ok {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"operator ** requires an integer base (found %s)", base.Type())
	}
	// The exponent's width is independent of the base; it must however be a
	// compile-time constant, which is checked during synthesis.
	exponent, err := p.buildExpression(scope, e.Right, NumericType())
	if err != nil {
		return nil, err
	}
	//
	if _, ok := exponent.Type().(IntType); !ok {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"operator ** requires an integer exponent (found %s)", exponent.Type())
	}
	//
	return &Binary{ast.Pow, base, exponent, base.Type(), e.Source}, nil
}

// numericExpectation narrows an expectation for use on the operands of an
// arithmetic operator: a concrete expectation passes through, anything else
// becomes the bare numeric expectation.
func numericExpectation(expected PartialType) PartialType {
	if expected.IsConcrete() && IsNumeric(expected.Concrete()) {
		return expected
	}
	//
	return NumericType()
}

func (p *builder) buildUnary(scope ScopeId, e *ast.Unary,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	if e.Op == ast.Not {
		operand, err := p.buildExpression(scope, e.Operand, Expecting(BoolType{}))
		if err != nil {
			return nil, err
		}
		//
		return &Unary{ast.Not, operand, BoolType{}, e.Source}, nil
	}
	// Arithmetic negation.
	operand, err := p.buildExpression(scope, e.Operand, numericExpectation(expected))
	if err != nil {
		return nil, err
	}
	//
	if t, ok := operand.Type().(IntType); ok && !t.Signed {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"cannot negate unsigned integer (found %s)", t)
	}
	//
	return &Unary{ast.Negate, operand, operand.Type(), e.Source}, nil
}

// buildTernary builds a conditional expression.  Both branches must be
// well-typed (and share one type), since both are synthesised regardless of
// the condition's runtime value.
func (p *builder) buildTernary(scope ScopeId, e *ast.Ternary,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	condition, err := p.buildExpression(scope, e.Condition, Expecting(BoolType{}))
	if err != nil {
		return nil, err
	}
	//
	thenBranch, err := p.buildExpression(scope, e.Then, expected)
	if err != nil {
		return nil, err
	}
	//
	elseBranch, err := p.buildExpression(scope, e.Else, Expecting(thenBranch.Type()))
	if err != nil {
		return nil, err
	}
	//
	return &Ternary{condition, thenBranch, elseBranch, thenBranch.Type(), e.Source}, nil
}

func (p *builder) buildArrayInline(scope ScopeId, e *ast.ArrayInline,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	if len(e.Elements) == 0 {
		if arr, ok := expected.Concrete().(ArrayType); ok && arr.Size == 0 {
			return &ArrayInit{nil, arr, e.Source}, nil
		}
		//
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"cannot infer type of empty array")
	}
	//
	elements := make([]Expression, len(e.Elements))
	// First element fixes the element type for the rest.
	first, err := p.buildExpression(scope, e.Elements[0], expected.Element())
	if err != nil {
		return nil, err
	}
	//
	elements[0] = first
	//
	for i := 1; i < len(e.Elements); i++ {
		element, err := p.buildExpression(scope, e.Elements[i], Expecting(first.Type()))
		if err != nil {
			return nil, err
		}
		//
		elements[i] = element
	}
	//
	return &ArrayInit{elements, ArrayType{first.Type(), uint(len(elements))}, e.Source}, nil
}

// buildArrayAccess builds an array element access.  Type resolution requires
// an array operand whose elements (necessarily) share one type; whether the
// index is constant matters only to synthesis.
func (p *builder) buildArrayAccess(scope ScopeId, e *ast.ArrayAccess) (Expression, *source.SyntaxError) {
	array, err := p.buildExpression(scope, e.Array, AnyType())
	if err != nil {
		return nil, err
	}
	//
	arrType, ok := array.Type().(ArrayType)
	if !ok {
		return nil, p.syntaxError(e.Array.Span(), source.TypeMismatch,
			"expected array (found %s)", array.Type())
	}
	//
	index, err := p.buildExpression(scope, e.Index, NumericType())
	if err != nil {
		return nil, err
	}
	//
	if _, ok := index.Type().(IntType); !ok {
		return nil, p.syntaxError(e.Index.Span(), source.TypeMismatch,
			"expected integer index (found %s)", index.Type())
	}
	//
	return &ArrayAccess{array, index, arrType.Element, e.Source}, nil
}

func (p *builder) buildTupleInit(scope ScopeId, e *ast.TupleInit,
	expected PartialType) (Expression, *source.SyntaxError) {
	//
	var (
		elements = make([]Expression, len(e.Elements))
		types    = make([]Type, len(e.Elements))
	)
	//
	for i, element := range e.Elements {
		built, err := p.buildExpression(scope, element, expected.TupleElement(uint(i)))
		if err != nil {
			return nil, err
		}
		//
		elements[i] = built
		types[i] = built.Type()
	}
	//
	return &TupleInit{elements, TupleType{types}, e.Source}, nil
}

func (p *builder) buildTupleAccess(scope ScopeId, e *ast.TupleAccess) (Expression, *source.SyntaxError) {
	tuple, err := p.buildExpression(scope, e.Tuple, AnyType())
	if err != nil {
		return nil, err
	}
	//
	tupType, ok := tuple.Type().(TupleType)
	if !ok {
		return nil, p.syntaxError(e.Tuple.Span(), source.TypeMismatch,
			"expected tuple (found %s)", tuple.Type())
	} else if e.Index >= uint(len(tupType.Elements)) {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"tuple index %d out of bounds for %s", e.Index, tupType)
	}
	//
	return &TupleAccess{tuple, e.Index, tupType.Elements[e.Index], e.Source}, nil
}

func (p *builder) buildCircuitInit(scope ScopeId, e *ast.CircuitInit) (Expression, *source.SyntaxError) {
	cid, err := p.resolveCircuitName(scope, e.Name, e.Source)
	if err != nil {
		return nil, err
	}
	//
	circ := p.arena.Circuit(cid)
	members := make([]Expression, len(circ.Fields))
	// Build every member under its field's declared type, ordering members
	// into field-declaration order.
	for i := range e.Members {
		member := &e.Members[i]
		//
		index := circ.FieldIndex(member.Name)
		if index.IsEmpty() {
			return nil, p.syntaxError(member.Source, source.UndefinedReference,
				"circuit \"%s\" has no field \"%s\"", circ.Name, member.Name)
		} else if members[index.Unwrap()] != nil {
			return nil, p.syntaxError(member.Source, source.DuplicateDefinition,
				"field \"%s\" initialised twice", member.Name)
		}
		//
		built, err := p.buildExpression(scope, member.Value,
			Expecting(circ.Fields[index.Unwrap()].Type))
		if err != nil {
			return nil, err
		}
		//
		members[index.Unwrap()] = built
	}
	//
	for i, member := range members {
		if member == nil {
			return nil, p.syntaxError(e.Source, source.TypeMismatch,
				"missing value for field \"%s\"", circ.Fields[i].Name)
		}
	}
	//
	return &CircuitInit{cid, members, CircuitType{cid, circ.Name}, e.Source}, nil
}

// resolveCircuitName resolves a circuit name, including the Self keyword
// within circuit functions.
func (p *builder) resolveCircuitName(scope ScopeId, name string,
	span source.Span) (CircuitId, *source.SyntaxError) {
	//
	if name == SelfKeyword {
		self := p.arena.SelfType(scope)
		//
		if self.IsEmpty() {
			return 0, p.syntaxError(span, source.UndefinedReference,
				"Self used outside of a circuit")
		}
		//
		return self.Unwrap(), nil
	}
	//
	binding, ok := p.arena.Resolve(scope, name)
	if !ok || binding.Kind != CircuitBinding {
		return 0, p.syntaxError(span, source.UndefinedReference,
			"undefined circuit \"%s\"", name)
	}
	//
	return binding.Circuit, nil
}

func (p *builder) buildMemberAccess(scope ScopeId, e *ast.MemberAccess) (Expression, *source.SyntaxError) {
	target, err := p.buildExpression(scope, e.Target, AnyType())
	if err != nil {
		return nil, err
	}
	//
	circType, ok := target.Type().(CircuitType)
	if !ok {
		return nil, p.syntaxError(e.Target.Span(), source.TypeMismatch,
			"expected circuit (found %s)", target.Type())
	}
	//
	circ := p.arena.Circuit(circType.Circuit)
	//
	index := circ.FieldIndex(e.Member)
	if index.IsEmpty() {
		return nil, p.syntaxError(e.Source, source.UndefinedReference,
			"circuit \"%s\" has no field \"%s\"", circ.Name, e.Member)
	}
	//
	return &CircuitAccess{target, index.Unwrap(), circ.Fields[index.Unwrap()].Type, e.Source}, nil
}

// buildCall builds a function invocation, being either a top-level call, a
// static circuit call or an instance call on a receiver.  When allowVoid is
// set (i.e. the call is an expression statement), the callee may be void;
// elsewhere every expression must carry a type.
func (p *builder) buildCall(scope ScopeId, e *ast.Call, allowVoid bool) (Expression, *source.SyntaxError) {
	var (
		fid      FunctionId
		receiver = util.None[Expression]()
	)
	//
	switch callee := e.Function.(type) {
	case *ast.Identifier:
		binding, ok := p.arena.Resolve(scope, callee.Name)
		if !ok || binding.Kind != FunctionBinding {
			return nil, p.syntaxError(callee.Source, source.UndefinedReference,
				"undefined function \"%s\"", callee.Name)
		}
		//
		fid = binding.Function
	case *ast.StaticAccess:
		cid, err := p.resolveCircuitName(scope, callee.Circuit, callee.Source)
		if err != nil {
			return nil, err
		}
		//
		circ := p.arena.Circuit(cid)
		//
		id, ok := circ.Functions[callee.Member]
		if !ok {
			return nil, p.syntaxError(callee.Source, source.UndefinedReference,
				"circuit \"%s\" has no function \"%s\"", circ.Name, callee.Member)
		} else if !p.arena.Function(id).Static {
			return nil, p.syntaxError(callee.Source, source.TypeMismatch,
				"instance function \"%s::%s\" called without a receiver", circ.Name, callee.Member)
		}
		//
		fid = id
	case *ast.MemberAccess:
		target, err := p.buildExpression(scope, callee.Target, AnyType())
		if err != nil {
			return nil, err
		}
		//
		circType, ok := target.Type().(CircuitType)
		if !ok {
			return nil, p.syntaxError(callee.Target.Span(), source.TypeMismatch,
				"expected circuit (found %s)", target.Type())
		}
		//
		circ := p.arena.Circuit(circType.Circuit)
		//
		id, ok := circ.Functions[callee.Member]
		if !ok {
			return nil, p.syntaxError(callee.Source, source.UndefinedReference,
				"circuit \"%s\" has no function \"%s\"", circ.Name, callee.Member)
		} else if p.arena.Function(id).Static {
			return nil, p.syntaxError(callee.Source, source.TypeMismatch,
				"static function \"%s::%s\" called on a receiver", circ.Name, callee.Member)
		}
		//
		fid = id
		receiver = util.Some(target)
	default:
		return nil, p.syntaxError(e.Function.Span(), source.TypeMismatch,
			"expression is not callable")
	}
	//
	fn := p.arena.Function(fid)
	//
	if len(e.Arguments) != len(fn.Parameters) {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"function \"%s\" expects %d arguments (found %d)",
			fn.Name, len(fn.Parameters), len(e.Arguments))
	}
	//
	if fn.Return == nil && !allowVoid {
		return nil, p.syntaxError(e.Source, source.TypeMismatch,
			"void function \"%s\" used as a value", fn.Name)
	}
	//
	args := make([]Expression, len(e.Arguments))
	//
	for i, arg := range e.Arguments {
		ptype := p.arena.Variable(fn.Parameters[i]).Type
		//
		built, err := p.buildExpression(scope, arg, Expecting(ptype))
		if err != nil {
			return nil, err
		}
		//
		args[i] = built
	}
	//
	return &Call{fid, receiver, args, fn.Return, e.Source}, nil
}
