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
package synth

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/asg"
	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/synth/gadgets"
	"github.com/quill-zk/quill/pkg/util/source"
)

// lowerExpression lowers a resolved expression to its value.  The result is
// nil only for a call to a void function, which the builder confines to
// statement position.
func (p *synthesizer) lowerExpression(f *frame, expr asg.Expression) (gadgets.Value, *source.SyntaxError) {
	switch e := expr.(type) {
	case *asg.IntConstant:
		return gadgets.NewInt(e.IntType.Width, e.IntType.Signed,
			patternOf(e.Value, e.IntType.Width)), nil
	case *asg.BoolConstant:
		return gadgets.NewBool(e.Value), nil
	case *asg.FieldConstant:
		return gadgets.NewFieldFromBig(e.Value), nil
	case *asg.GroupConstant:
		var x, y fr.Element
		x.SetBigInt(e.X)
		y.SetBigInt(e.Y)
		//
		if !gadgets.OnCurve(x, y) {
			return nil, p.syntaxError(e.Source, source.TypeMismatch,
				"literal is not a point on the curve")
		}
		//
		return gadgets.NewGroup(x, y), nil
	case *asg.VariableRef:
		return f.lookup(e.Variable), nil
	case *asg.Binary:
		return p.lowerBinary(f, e)
	case *asg.Unary:
		return p.lowerUnary(f, e)
	case *asg.Ternary:
		return p.lowerTernary(f, e)
	case *asg.Call:
		return p.lowerCall(f, e)
	case *asg.ArrayInit:
		elements, err := p.lowerAll(f, e.Elements)
		if err != nil {
			return nil, err
		}
		//
		return gadgets.Array{Element: e.ResultType.Element, Elements: elements}, nil
	case *asg.ArrayAccess:
		return p.lowerArrayAccess(f, e)
	case *asg.TupleInit:
		elements, err := p.lowerAll(f, e.Elements)
		if err != nil {
			return nil, err
		}
		//
		return gadgets.Tuple{Elements: elements}, nil
	case *asg.TupleAccess:
		tuple, err := p.lowerExpression(f, e.Tuple)
		if err != nil {
			return nil, err
		}
		//
		return tuple.(gadgets.Tuple).Elements[e.Index], nil
	case *asg.CircuitInit:
		members, err := p.lowerAll(f, e.Members)
		if err != nil {
			return nil, err
		}
		//
		return gadgets.Circuit{CircuitType: e.ResultType, Fields: members}, nil
	case *asg.CircuitAccess:
		target, err := p.lowerExpression(f, e.Target)
		if err != nil {
			return nil, err
		}
		//
		return target.(gadgets.Circuit).Fields[e.Field], nil
	}
	//
	panic("unknown expression")
}

func (p *synthesizer) lowerAll(f *frame, exprs []asg.Expression) ([]gadgets.Value, *source.SyntaxError) {
	values := make([]gadgets.Value, len(exprs))
	//
	for i, expr := range exprs {
		value, err := p.lowerExpression(f, expr)
		if err != nil {
			return nil, err
		}
		//
		values[i] = value
	}
	//
	return values, nil
}

func (p *synthesizer) lowerBinary(f *frame, e *asg.Binary) (gadgets.Value, *source.SyntaxError) {
	left, err := p.lowerExpression(f, e.Left)
	if err != nil {
		return nil, err
	}
	//
	right, err := p.lowerExpression(f, e.Right)
	if err != nil {
		return nil, err
	}
	// Logical operators evaluate both sides; there is no short circuit
	// inside a circuit.
	if e.Op.IsLogical() {
		return p.lowerLogical(e, left.(gadgets.Bool), right.(gadgets.Bool))
	} else if e.Op.IsComparison() {
		return p.lowerComparison(e, left, right)
	}
	//
	return p.lowerArithmetic(f, e, left, right)
}

func (p *synthesizer) lowerLogical(e *asg.Binary, left, right gadgets.Bool) (gadgets.Value, *source.SyntaxError) {
	var (
		result gadgets.Bool
		err    error
	)
	//
	if e.Op == ast.And {
		result, err = gadgets.And(p.sys, left, right)
	} else {
		result, err = gadgets.Or(p.sys, left, right)
	}
	//
	if err != nil {
		return nil, p.gadgetError(e.Source, err)
	}
	//
	return result, nil
}

func (p *synthesizer) lowerComparison(e *asg.Binary, left, right gadgets.Value) (gadgets.Value, *source.SyntaxError) {
	var (
		result gadgets.Bool
		err    error
	)
	//
	switch e.Op {
	case ast.Eq:
		result, err = gadgets.ValuesEqual(p.sys, left, right)
	case ast.Neq:
		if result, err = gadgets.ValuesEqual(p.sys, left, right); err == nil {
			result = gadgets.Not(result)
		}
	case ast.Lt:
		result, err = gadgets.LtInt(p.sys, left.(gadgets.Int), right.(gadgets.Int))
	case ast.LtEq:
		result, err = gadgets.LeInt(p.sys, left.(gadgets.Int), right.(gadgets.Int))
	case ast.Gt:
		result, err = gadgets.GtInt(p.sys, left.(gadgets.Int), right.(gadgets.Int))
	case ast.GtEq:
		result, err = gadgets.GeInt(p.sys, left.(gadgets.Int), right.(gadgets.Int))
	default:
		panic("unknown comparison")
	}
	//
	if err != nil {
		return nil, p.gadgetError(e.Source, err)
	}
	//
	return result, nil
}

func (p *synthesizer) lowerArithmetic(f *frame, e *asg.Binary, left, right gadgets.Value) (gadgets.Value, *source.SyntaxError) {
	if e.Op == ast.Pow {
		return p.lowerExponent(e, left.(gadgets.Int), right.(gadgets.Int))
	}
	//
	switch l := left.(type) {
	case gadgets.Int:
		return p.lowerIntArithmetic(f, e, l, right.(gadgets.Int))
	case gadgets.Field:
		return p.lowerFieldArithmetic(f, e, l, right.(gadgets.Field))
	case gadgets.Group:
		return p.lowerGroupArithmetic(e, l, right.(gadgets.Group))
	}
	//
	panic("unknown arithmetic operand")
}

func (p *synthesizer) lowerIntArithmetic(f *frame, e *asg.Binary, left, right gadgets.Int) (gadgets.Value, *source.SyntaxError) {
	var (
		result gadgets.Int
		err    error
	)
	//
	switch e.Op {
	case ast.Add:
		result, err = gadgets.AddInt(p.sys, left, right)
	case ast.Sub:
		result, err = gadgets.SubInt(p.sys, left, right)
	case ast.Mul:
		result, err = gadgets.MulInt(p.sys, left, right)
	case ast.Div:
		// The divisor only binds on live paths.
		live, lerr := f.liveGuard(p.sys)
		if lerr != nil {
			return nil, p.gadgetError(e.Source, lerr)
		}
		//
		result, err = gadgets.DivIntWhen(p.sys, live, left, right)
	default:
		panic("unknown integer operator")
	}
	//
	if err != nil {
		return nil, p.gadgetError(e.Source, err)
	}
	//
	return result, nil
}

func (p *synthesizer) lowerFieldArithmetic(f *frame, e *asg.Binary, left, right gadgets.Field) (gadgets.Value, *source.SyntaxError) {
	switch e.Op {
	case ast.Add:
		return gadgets.FieldAdd(left, right), nil
	case ast.Sub:
		return gadgets.FieldSub(left, right), nil
	case ast.Mul:
		result, err := gadgets.FieldMul(p.sys, left, right)
		if err != nil {
			return nil, p.gadgetError(e.Source, err)
		}
		//
		return result, nil
	case ast.Div:
		live, lerr := f.liveGuard(p.sys)
		if lerr != nil {
			return nil, p.gadgetError(e.Source, lerr)
		}
		//
		result, err := gadgets.FieldDivWhen(p.sys, live, left, right)
		if err != nil {
			return nil, p.gadgetError(e.Source, err)
		}
		//
		return result, nil
	}
	//
	panic("unknown field operator")
}

func (p *synthesizer) lowerGroupArithmetic(e *asg.Binary, left, right gadgets.Group) (gadgets.Value, *source.SyntaxError) {
	var (
		result gadgets.Group
		err    error
	)
	//
	switch e.Op {
	case ast.Add:
		result, err = gadgets.GroupAdd(p.sys, left, right)
	case ast.Sub:
		result, err = gadgets.GroupSub(p.sys, left, right)
	default:
		panic("unknown group operator")
	}
	//
	if err != nil {
		return nil, p.gadgetError(e.Source, err)
	}
	//
	return result, nil
}

// lowerExponent raises an integer base to an exponent, which must fold to a
// non-negative compile-time constant: a variable exponent would require a
// data-dependent number of multiplications.
func (p *synthesizer) lowerExponent(e *asg.Binary, base, exponent gadgets.Int) (gadgets.Value, *source.SyntaxError) {
	if !exponent.Const {
		return nil, p.syntaxError(e.Right.Span(), source.UnsupportedOperation,
			"exponent must be a compile-time constant")
	} else if signedBig(exponent).Sign() < 0 {
		return nil, p.syntaxError(e.Right.Span(), source.UnsupportedOperation,
			"exponent must be non-negative")
	}
	//
	result, err := gadgets.PowInt(p.sys, base, exponent.Witness)
	if err != nil {
		return nil, p.gadgetError(e.Source, err)
	}
	//
	return result, nil
}

func (p *synthesizer) lowerUnary(f *frame, e *asg.Unary) (gadgets.Value, *source.SyntaxError) {
	operand, err := p.lowerExpression(f, e.Operand)
	if err != nil {
		return nil, err
	}
	//
	if e.Op == ast.Not {
		return gadgets.Not(operand.(gadgets.Bool)), nil
	}
	//
	switch o := operand.(type) {
	case gadgets.Int:
		result, gerr := gadgets.NegInt(p.sys, o)
		if gerr != nil {
			return nil, p.gadgetError(e.Source, gerr)
		}
		//
		return result, nil
	case gadgets.Field:
		return gadgets.FieldNeg(o), nil
	case gadgets.Group:
		return gadgets.GroupNeg(o), nil
	}
	//
	panic("unknown negation operand")
}

func (p *synthesizer) lowerTernary(f *frame, e *asg.Ternary) (gadgets.Value, *source.SyntaxError) {
	cond, err := p.lowerExpression(f, e.Condition)
	if err != nil {
		return nil, err
	}
	// Both branches synthesise regardless of the condition's witness.
	thenValue, err := p.lowerExpression(f, e.Then)
	if err != nil {
		return nil, err
	}
	//
	elseValue, err := p.lowerExpression(f, e.Else)
	if err != nil {
		return nil, err
	}
	//
	result, gerr := gadgets.Select(p.sys, cond.(gadgets.Bool), thenValue, elseValue)
	if gerr != nil {
		return nil, p.gadgetError(e.Source, gerr)
	}
	//
	return result, nil
}

// lowerCall inlines the callee's body with parameters bound to the lowered
// arguments.  The in-progress set catches direct and mutual recursion, which
// cannot unroll into a finite circuit.
func (p *synthesizer) lowerCall(f *frame, e *asg.Call) (gadgets.Value, *source.SyntaxError) {
	fn := p.arena.Function(e.Function)
	//
	if p.inlining[e.Function] {
		return nil, p.syntaxError(e.Source, source.RecursiveCallError,
			"function \"%s\" recurses (directly or mutually)", fn.Name)
	}
	//
	live, gerr := f.liveGuard(p.sys)
	if gerr != nil {
		return nil, p.gadgetError(e.Source, gerr)
	}
	//
	callee := newFrame()
	callee.guard = live
	//
	if e.Receiver.HasValue() {
		receiver, err := p.lowerExpression(f, e.Receiver.Unwrap())
		if err != nil {
			return nil, err
		}
		//
		callee.bind(fn.Receiver.Unwrap(), receiver)
	}
	//
	for i, arg := range e.Arguments {
		value, err := p.lowerExpression(f, arg)
		if err != nil {
			return nil, err
		}
		//
		callee.bind(fn.Parameters[i], value)
	}
	//
	p.inlining[e.Function] = true
	err := p.lowerStatements(callee, fn.Body)
	delete(p.inlining, e.Function)
	//
	if err != nil {
		return nil, err
	}
	//
	return callee.result, nil
}

func (p *synthesizer) lowerArrayAccess(f *frame, e *asg.ArrayAccess) (gadgets.Value, *source.SyntaxError) {
	array, err := p.lowerExpression(f, e.Array)
	if err != nil {
		return nil, err
	}
	//
	index, err := p.lowerExpression(f, e.Index)
	if err != nil {
		return nil, err
	}
	//
	return p.selectElement(f, array.(gadgets.Array), index.(gadgets.Int), e.Source)
}

// selectElement reads an array element.  A constant index is a direct (bounds
// checked) read; otherwise the element is chosen by a select chain over
// index-equality flags, with the index constrained in range under the current
// guard.
func (p *synthesizer) selectElement(f *frame, arr gadgets.Array, idx gadgets.Int,
	span source.Span) (gadgets.Value, *source.SyntaxError) {
	//
	if idx.Const {
		i := idx.Witness.Uint64()
		//
		if !idx.Witness.IsUint64() || i >= uint64(len(arr.Elements)) {
			return nil, p.syntaxError(span, source.TypeMismatch,
				"array index %s out of bounds", idx.String())
		}
		//
		return arr.Elements[i], nil
	}
	//
	if err := p.assertIndexInRange(f, idx, uint(len(arr.Elements)), span); err != nil {
		return nil, err
	}
	//
	result := arr.Elements[0]
	//
	for i := 1; i < len(arr.Elements); i++ {
		eq, gerr := gadgets.EqInt(p.sys, idx, indexConstant(idx, uint64(i)))
		if gerr != nil {
			return nil, p.gadgetError(span, gerr)
		}
		//
		if result, gerr = gadgets.Select(p.sys, eq, arr.Elements[i], result); gerr != nil {
			return nil, p.gadgetError(span, gerr)
		}
	}
	//
	return result, nil
}

// assertIndexInRange pins a runtime index below the array size, under the
// live guard of the current path.
func (p *synthesizer) assertIndexInRange(f *frame, idx gadgets.Int, size uint,
	span source.Span) *source.SyntaxError {
	//
	inRange, err := gadgets.LtInt(p.sys, idx, indexConstant(idx, uint64(size)))
	if err != nil {
		return p.gadgetError(span, err)
	}
	// A signed index must additionally be non-negative.
	if idx.Signed {
		nonNegative, gerr := gadgets.GeInt(p.sys, idx, indexConstant(idx, 0))
		if gerr != nil {
			return p.gadgetError(span, gerr)
		}
		//
		if inRange, gerr = gadgets.And(p.sys, inRange, nonNegative); gerr != nil {
			return p.gadgetError(span, gerr)
		}
	}
	//
	live, gerr := f.liveGuard(p.sys)
	if gerr != nil {
		return p.gadgetError(span, gerr)
	}
	//
	if err := gadgets.AssertEqualWhen(p.sys, live, inRange, gadgets.NewBool(true)); err != nil {
		return p.gadgetError(span, err)
	}
	//
	return nil
}

// indexConstant lifts a small constant to the index's integer type.
func indexConstant(idx gadgets.Int, value uint64) gadgets.Int {
	return gadgets.NewInt(idx.Width, idx.Signed, uint256.NewInt(value))
}
