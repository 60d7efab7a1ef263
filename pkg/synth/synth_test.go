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
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/asg"
	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/synth/gadgets"
	"github.com/quill-zk/quill/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compact constructors for syntax trees under test.  Spans are immaterial.

func sp() source.Span { return source.NewSpan(0, 1) }

func intLit(v int64, width uint, signed bool) ast.Expression {
	return &ast.IntLiteral{
		Value:  big.NewInt(v),
		Suffix: &ast.IntType{Width: width, Signed: signed, Source: sp()},
		Source: sp(),
	}
}

func u8(v int64) ast.Expression { return intLit(v, 8, false) }
func i8(v int64) ast.Expression { return intLit(v, 8, true) }

func fieldLit(v int64) ast.Expression {
	return &ast.FieldLiteral{Value: big.NewInt(v), Source: sp()}
}

func boolLit(v bool) ast.Expression {
	return &ast.BoolLiteral{Value: v, Source: sp()}
}

func ident(name string) ast.Expression {
	return &ast.Identifier{Name: name, Source: sp()}
}

func bin(op ast.BinaryOp, l, r ast.Expression) ast.Expression {
	return &ast.Binary{Op: op, Left: l, Right: r, Source: sp()}
}

func member(target ast.Expression, name string) ast.Expression {
	return &ast.MemberAccess{Target: target, Member: name, Source: sp()}
}

func ret(value ast.Expression) ast.Statement {
	return &ast.Return{Value: value, Source: sp()}
}

func let(name string, mutable bool, value ast.Expression) ast.Statement {
	return &ast.Definition{Mutable: mutable, Name: name, Value: value, Source: sp()}
}

func assign(name string, value ast.Expression) ast.Statement {
	return &ast.Assignment{Target: ident(name), Value: value, Source: sp()}
}

func iff(c ast.Expression, then, els []ast.Statement) ast.Statement {
	conditional := &ast.Conditional{
		Condition: c,
		Then:      ast.Block{Statements: then, Source: sp()},
		Source:    sp(),
	}
	//
	if els != nil {
		conditional.Else = &ast.Block{Statements: els, Source: sp()}
	}
	//
	return conditional
}

func loop(variable string, start, stop ast.Expression, body ...ast.Statement) ast.Statement {
	return &ast.Iteration{
		Variable: variable,
		Start:    start,
		Stop:     stop,
		Body:     ast.Block{Statements: body, Source: sp()},
		Source:   sp(),
	}
}

func param(name string, typ ast.Type, public bool) ast.Parameter {
	visibility := ast.Private
	if public {
		visibility = ast.Public
	}
	//
	return ast.Parameter{Name: name, Type: typ, Visibility: visibility, Source: sp()}
}

func u8Type() ast.Type   { return &ast.IntType{Width: 8, Source: sp()} }
func i8Type() ast.Type   { return &ast.IntType{Width: 8, Signed: true, Source: sp()} }
func boolType() ast.Type { return &ast.BoolType{Source: sp()} }

func mainFn(params []ast.Parameter, retType ast.Type, body ...ast.Statement) *ast.Program {
	return &ast.Program{
		Name: "test",
		Functions: []ast.Function{{
			Name:       "main",
			Parameters: params,
			Return:     retType,
			Body:       ast.Block{Statements: body, Source: sp()},
			Source:     sp(),
		}},
	}
}

// synthesize resolves and lowers a program, requiring success.
func synthesize(t *testing.T, program *ast.Program, inputs *Inputs) *Result {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test", nil)
	//
	resolved, err := asg.BuildProgram(srcfile, program, nil)
	require.Nil(t, err)
	//
	result, err := Build(srcfile, resolved, inputs, 0)
	require.Nil(t, err)
	//
	return result
}

// synthesizeErr resolves and lowers a program, requiring a synthesis error.
func synthesizeErr(t *testing.T, program *ast.Program, inputs *Inputs,
	ceiling uint) source.ErrorCode {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test", nil)
	//
	resolved, err := asg.BuildProgram(srcfile, program, nil)
	require.Nil(t, err)
	//
	_, err = Build(srcfile, resolved, inputs, ceiling)
	require.NotNil(t, err)
	//
	return err.Code()
}

func outputInt(t *testing.T, result *Result) *uint256.Int {
	t.Helper()
	//
	value, ok := result.Output.(gadgets.Int)
	require.True(t, ok)
	//
	return value.Witness
}

func Test_Synth_Add_01(t *testing.T) {
	program := mainFn(
		[]ast.Parameter{param("a", u8Type(), true), param("b", u8Type(), false)},
		u8Type(),
		ret(bin(ast.Add, ident("a"), ident("b"))),
	)
	//
	result := synthesize(t, program, &Inputs{
		Public:  Section{"a": IntInput{big.NewInt(3)}},
		Private: Section{"b": IntInput{big.NewInt(4)}},
	})
	//
	assert.Equal(t, uint256.NewInt(7), outputInt(t, result))
	assert.NoError(t, result.System.Verify())
	// Both the parameter and the published output are public
	publics := result.System.PublicInputs()
	require.Len(t, publics, 2)
	assert.Equal(t, "a", publics[0].Name)
	assert.Equal(t, "output", publics[1].Name)
}

func Test_Synth_Wrap_01(t *testing.T) {
	// i8 overflow wraps: 127 + 1 = -128
	program := mainFn(nil, i8Type(), ret(bin(ast.Add, i8(127), i8(1))))
	//
	result := synthesize(t, program, &Inputs{})
	//
	assert.Equal(t, uint256.NewInt(128), outputInt(t, result))
	assert.Equal(t, "-128", result.Output.String())
}

func Test_Synth_Ternary_01(t *testing.T) {
	program := mainFn(
		[]ast.Parameter{param("c", boolType(), false)},
		u8Type(),
		ret(&ast.Ternary{Condition: ident("c"), Then: u8(1), Else: u8(2), Source: sp()}),
	)
	//
	result := synthesize(t, program, &Inputs{
		Private: Section{"c": BoolInput(false)},
	})
	//
	assert.Equal(t, uint256.NewInt(2), outputInt(t, result))
	assert.NoError(t, result.System.Verify())
}

func Test_Synth_Conditional_01(t *testing.T) {
	// Return inside one branch merges with the fall-through return
	program := func() *ast.Program {
		return mainFn(
			[]ast.Parameter{param("c", boolType(), false)},
			u8Type(),
			iff(ident("c"), []ast.Statement{ret(u8(1))}, nil),
			ret(u8(2)),
		)
	}
	//
	taken := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(true)}})
	assert.Equal(t, uint256.NewInt(1), outputInt(t, taken))
	assert.NoError(t, taken.System.Verify())
	//
	fallthru := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(false)}})
	assert.Equal(t, uint256.NewInt(2), outputInt(t, fallthru))
	assert.NoError(t, fallthru.System.Verify())
}

func Test_Synth_Conditional_02(t *testing.T) {
	// A mutation inside a branch only sticks when the branch is taken
	program := func() *ast.Program {
		return mainFn(
			[]ast.Parameter{param("c", boolType(), false)},
			u8Type(),
			let("x", true, u8(10)),
			iff(ident("c"), []ast.Statement{assign("x", u8(20))}, nil),
			ret(ident("x")),
		)
	}
	//
	taken := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(true)}})
	assert.Equal(t, uint256.NewInt(20), outputInt(t, taken))
	//
	skipped := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(false)}})
	assert.Equal(t, uint256.NewInt(10), outputInt(t, skipped))
}

func Test_Synth_Loop_01(t *testing.T) {
	// Accumulating onto a witness, so each unrolled addition emits
	// constraints
	program := func(stop int64) *ast.Program {
		return mainFn(
			[]ast.Parameter{param("a", u8Type(), false)},
			u8Type(),
			let("acc", true, ident("a")),
			loop("i", u8(0), u8(stop),
				assign("acc", bin(ast.Add, ident("acc"), ident("i")))),
			ret(ident("acc")),
		)
	}
	//
	inputs := func() *Inputs {
		return &Inputs{Private: Section{"a": IntInput{big.NewInt(5)}}}
	}
	// for i in 0..5 unrolls five times: 5 + (0+1+2+3+4) = 15
	five := synthesize(t, program(5), inputs())
	assert.Equal(t, uint256.NewInt(15), outputInt(t, five))
	assert.NoError(t, five.System.Verify())
	// The body unrolls exactly once per index: five iterations cost five
	// times what one does over the empty baseline
	empty := synthesize(t, program(0), inputs()).System.NumConstraints()
	once := synthesize(t, program(1), inputs()).System.NumConstraints()
	//
	require.Greater(t, once, empty)
	assert.Equal(t, empty+5*(once-empty), five.System.NumConstraints())
}

func Test_Synth_Loop_02(t *testing.T) {
	// A non-constant bound cannot unroll
	program := mainFn(
		[]ast.Parameter{param("n", u8Type(), false)},
		u8Type(),
		let("acc", true, u8(0)),
		loop("i", u8(0), ident("n"),
			assign("acc", bin(ast.Add, ident("acc"), ident("i")))),
		ret(ident("acc")),
	)
	//
	code := synthesizeErr(t, program, &Inputs{
		Private: Section{"n": IntInput{big.NewInt(3)}},
	}, 0)
	//
	assert.Equal(t, source.NonConstantLoopBound, code)
}

func Test_Synth_Call_01(t *testing.T) {
	// Calls inline the callee body
	program := &ast.Program{
		Name: "test",
		Functions: []ast.Function{
			{
				Name: "double",
				Parameters: []ast.Parameter{
					{Name: "x", Type: u8Type(), Source: sp()},
				},
				Return: u8Type(),
				Body: ast.Block{Statements: []ast.Statement{
					ret(bin(ast.Add, ident("x"), ident("x"))),
				}, Source: sp()},
				Source: sp(),
			},
			{
				Name:   "main",
				Return: u8Type(),
				Body: ast.Block{Statements: []ast.Statement{
					ret(&ast.Call{Function: ident("double"),
						Arguments: []ast.Expression{u8(21)}, Source: sp()}),
				}, Source: sp()},
				Source: sp(),
			},
		},
	}
	//
	result := synthesize(t, program, &Inputs{})
	//
	assert.Equal(t, uint256.NewInt(42), outputInt(t, result))
}

func Test_Synth_Recursion_01(t *testing.T) {
	program := &ast.Program{
		Name: "test",
		Functions: []ast.Function{
			{
				Name:   "f",
				Return: u8Type(),
				Body: ast.Block{Statements: []ast.Statement{
					ret(&ast.Call{Function: ident("f"), Source: sp()}),
				}, Source: sp()},
				Source: sp(),
			},
			{
				Name:   "main",
				Return: u8Type(),
				Body: ast.Block{Statements: []ast.Statement{
					ret(&ast.Call{Function: ident("f"), Source: sp()}),
				}, Source: sp()},
				Source: sp(),
			},
		},
	}
	//
	srcfile := source.NewSourceFile("test", nil)
	resolved, err := asg.BuildProgram(srcfile, program, nil)
	require.Nil(t, err)
	//
	_, err = Build(srcfile, resolved, &Inputs{}, 0)
	require.NotNil(t, err)
	assert.Equal(t, source.RecursiveCallError, err.Code())
}

func Test_Synth_DivZero_01(t *testing.T) {
	program := mainFn(nil, u8Type(), ret(bin(ast.Div, u8(7), u8(0))))
	//
	code := synthesizeErr(t, program, &Inputs{}, 0)
	assert.Equal(t, source.DivisionByZero, code)
}

func Test_Synth_Ceiling_01(t *testing.T) {
	program := mainFn(
		[]ast.Parameter{param("a", u8Type(), false)},
		u8Type(),
		ret(bin(ast.Mul, ident("a"), ident("a"))),
	)
	// A tiny ceiling cannot even hold the range-checked input
	code := synthesizeErr(t, program, &Inputs{
		Private: Section{"a": IntInput{big.NewInt(3)}},
	}, 3)
	//
	assert.Equal(t, source.CircuitTooLarge, code)
}

func Test_Synth_MissingInput_01(t *testing.T) {
	program := mainFn(
		[]ast.Parameter{param("a", u8Type(), false)},
		u8Type(),
		ret(ident("a")),
	)
	//
	code := synthesizeErr(t, program, &Inputs{}, 0)
	assert.Equal(t, source.UndefinedReference, code)
}

func Test_Synth_InputRange_01(t *testing.T) {
	program := mainFn(
		[]ast.Parameter{param("a", u8Type(), false)},
		u8Type(),
		ret(ident("a")),
	)
	// 256 does not fit u8
	code := synthesizeErr(t, program, &Inputs{
		Private: Section{"a": IntInput{big.NewInt(256)}},
	}, 0)
	//
	assert.Equal(t, source.TypeMismatch, code)
}

func Test_Synth_Array_01(t *testing.T) {
	// Non-constant index lowers to a select chain over all elements
	program := mainFn(
		[]ast.Parameter{param("i", u8Type(), false)},
		u8Type(),
		let("xs", false, &ast.ArrayInline{Elements: []ast.Expression{
			u8(10), u8(20), u8(30),
		}, Source: sp()}),
		ret(&ast.ArrayAccess{Array: ident("xs"), Index: ident("i"), Source: sp()}),
	)
	//
	result := synthesize(t, program, &Inputs{
		Private: Section{"i": IntInput{big.NewInt(1)}},
	})
	//
	assert.Equal(t, uint256.NewInt(20), outputInt(t, result))
	assert.NoError(t, result.System.Verify())
}

func Test_Synth_Assert_01(t *testing.T) {
	// An assert inside an untaken branch cannot fail the witness
	program := func() *ast.Program {
		return mainFn(
			[]ast.Parameter{param("c", boolType(), false)},
			u8Type(),
			iff(ident("c"), []ast.Statement{
				&ast.Console{Kind: ast.ConsoleAssert,
					Arguments: []ast.Expression{u8(1), u8(2)}, Source: sp()},
			}, nil),
			ret(u8(0)),
		)
	}
	//
	skipped := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(false)}})
	assert.NoError(t, skipped.System.Verify())
	//
	taken := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(true)}})
	assert.Error(t, taken.System.Verify())
}

func Test_Synth_Assert_02(t *testing.T) {
	// An assert after a conditional return binds only on the paths which
	// actually reach it
	program := func() *ast.Program {
		return mainFn(
			[]ast.Parameter{param("c", boolType(), false)},
			u8Type(),
			iff(ident("c"), []ast.Statement{ret(u8(1))}, nil),
			&ast.Console{Kind: ast.ConsoleAssert,
				Arguments: []ast.Expression{u8(1), u8(2)}, Source: sp()},
			ret(u8(0)),
		)
	}
	//
	returned := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(true)}})
	assert.Equal(t, uint256.NewInt(1), outputInt(t, returned))
	assert.NoError(t, returned.System.Verify())
	//
	reached := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(false)}})
	assert.Error(t, reached.System.Verify())
}

func Test_Synth_Assert_03(t *testing.T) {
	// With a constant condition the return is unconditional and the dead
	// assert folds away entirely
	program := mainFn(nil, u8Type(),
		iff(boolLit(true), []ast.Statement{ret(u8(1))}, nil),
		&ast.Console{Kind: ast.ConsoleAssert,
			Arguments: []ast.Expression{u8(1), u8(2)}, Source: sp()},
		ret(u8(0)),
	)
	//
	result := synthesize(t, program, &Inputs{})
	//
	assert.Equal(t, uint256.NewInt(1), outputInt(t, result))
	assert.NoError(t, result.System.Verify())
}

func Test_Synth_DivZero_02(t *testing.T) {
	// A witness-zero divisor inside an untaken branch leaves the system
	// satisfiable
	program := func() *ast.Program {
		return mainFn(
			[]ast.Parameter{param("c", boolType(), false), param("b", u8Type(), false)},
			u8Type(),
			let("x", true, u8(0)),
			iff(ident("c"), []ast.Statement{
				assign("x", bin(ast.Div, u8(6), ident("b"))),
			}, nil),
			ret(ident("x")),
		)
	}
	//
	skipped := synthesize(t, program(), &Inputs{Private: Section{
		"c": BoolInput(false), "b": IntInput{big.NewInt(0)},
	}})
	assert.Equal(t, uint256.NewInt(0), outputInt(t, skipped))
	assert.NoError(t, skipped.System.Verify())
	//
	taken := synthesize(t, program(), &Inputs{Private: Section{
		"c": BoolInput(true), "b": IntInput{big.NewInt(3)},
	}})
	assert.Equal(t, uint256.NewInt(2), outputInt(t, taken))
	assert.NoError(t, taken.System.Verify())
}

func Test_Synth_Console_01(t *testing.T) {
	program := mainFn(nil, u8Type(),
		let("x", false, u8(42)),
		&ast.Console{Kind: ast.ConsoleLog, Format: "x is {}",
			Arguments: []ast.Expression{ident("x")}, Source: sp()},
		ret(ident("x")),
	)
	//
	result := synthesize(t, program, &Inputs{})
	//
	require.Len(t, result.Trace.Lines, 1)
	assert.Equal(t, ast.ConsoleLog, result.Trace.Lines[0].Kind)
	assert.Equal(t, "x is 42", result.Trace.Lines[0].Message)
}

func Test_Synth_Console_02(t *testing.T) {
	// Console output after a conditional return renders only on witnesses
	// which did not take the return
	program := func() *ast.Program {
		return mainFn(
			[]ast.Parameter{param("c", boolType(), false)},
			u8Type(),
			iff(ident("c"), []ast.Statement{ret(u8(1))}, nil),
			&ast.Console{Kind: ast.ConsoleLog, Format: "fell through", Source: sp()},
			ret(u8(0)),
		)
	}
	//
	returned := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(true)}})
	assert.Empty(t, returned.Trace.Lines)
	//
	reached := synthesize(t, program(), &Inputs{Private: Section{"c": BoolInput(false)}})
	require.Len(t, reached.Trace.Lines, 1)
	assert.Equal(t, "fell through", reached.Trace.Lines[0].Message)
}

func Test_Synth_Circuit_01(t *testing.T) {
	// Instance functions bind the receiver and inline like any call
	program := &ast.Program{
		Name: "test",
		Circuits: []ast.Circuit{{
			Name: "Point",
			Fields: []ast.CircuitField{
				{Name: "x", Type: &ast.FieldType{Source: sp()}, Source: sp()},
				{Name: "y", Type: &ast.FieldType{Source: sp()}, Source: sp()},
			},
			Functions: []ast.Function{{
				Name:   "sum",
				Return: &ast.FieldType{Source: sp()},
				Body: ast.Block{Statements: []ast.Statement{
					ret(bin(ast.Add, member(ident("self"), "x"), member(ident("self"), "y"))),
				}, Source: sp()},
				Source: sp(),
			}},
			Source: sp(),
		}},
		Functions: []ast.Function{{
			Name:   "main",
			Return: &ast.FieldType{Source: sp()},
			Body: ast.Block{Statements: []ast.Statement{
				let("p", false, &ast.CircuitInit{Name: "Point",
					Members: []ast.CircuitInitMember{
						{Name: "x", Value: fieldLit(1), Source: sp()},
						{Name: "y", Value: fieldLit(2), Source: sp()},
					}, Source: sp()}),
				ret(&ast.Call{Function: member(ident("p"), "sum"), Source: sp()}),
			}, Source: sp()},
			Source: sp(),
		}},
	}
	//
	result := synthesize(t, program, &Inputs{})
	//
	value, ok := result.Output.(gadgets.Field)
	require.True(t, ok)
	assert.Equal(t, "3", value.Witness.String())
}
