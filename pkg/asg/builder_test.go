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
	"fmt"
	"math/big"
	"testing"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compact constructors for syntax trees under test.  Spans are immaterial.

func sp() source.Span { return source.NewSpan(0, 1) }

func u8(v int64) ast.Expression {
	return &ast.IntLiteral{
		Value:  big.NewInt(v),
		Suffix: &ast.IntType{Width: 8, Source: sp()},
		Source: sp(),
	}
}

func boolLit(v bool) ast.Expression {
	return &ast.BoolLiteral{Value: v, Source: sp()}
}

func ident(name string) ast.Expression {
	return &ast.Identifier{Name: name, Source: sp()}
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

func cond(c ast.Expression, then, els []ast.Statement) ast.Statement {
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

func fn(name string, ret ast.Type, body ...ast.Statement) ast.Function {
	return ast.Function{
		Name:   name,
		Return: ret,
		Body:   ast.Block{Statements: body, Source: sp()},
		Source: sp(),
	}
}

func u8Type() ast.Type { return &ast.IntType{Width: 8, Source: sp()} }

func build(program *ast.Program) (*Program, *source.SyntaxError) {
	return BuildProgram(source.NewSourceFile("test", nil), program, nil)
}

func Test_Build_Main_01(t *testing.T) {
	prog, err := build(&ast.Program{
		Name:      "test",
		Functions: []ast.Function{fn("main", u8Type(), ret(u8(1)))},
	})
	//
	require.Nil(t, err)
	assert.True(t, prog.Main.HasValue())
	assert.Len(t, prog.Functions, 1)
}

func Test_Build_Main_02(t *testing.T) {
	prog, err := build(&ast.Program{
		Name:      "test",
		Functions: []ast.Function{fn("helper", u8Type(), ret(u8(1)))},
	})
	//
	require.Nil(t, err)
	assert.True(t, prog.Main.IsEmpty())
}

func Test_Build_MissingReturn_01(t *testing.T) {
	_, err := build(&ast.Program{
		Name:      "test",
		Functions: []ast.Function{fn("main", u8Type())},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.MissingReturn, err.Code())
}

func Test_Build_MissingReturn_02(t *testing.T) {
	// Only one branch returns
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			cond(boolLit(true), []ast.Statement{ret(u8(1))}, nil),
		)},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.MissingReturn, err.Code())
}

func Test_Build_MissingReturn_03(t *testing.T) {
	// Both branches return, so the trailing path is unreachable
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			cond(boolLit(true),
				[]ast.Statement{ret(u8(1))},
				[]ast.Statement{ret(u8(2))}),
		)},
	})
	//
	assert.Nil(t, err)
}

func Test_Build_DuplicateDefinition_01(t *testing.T) {
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{
			fn("helper", u8Type(), ret(u8(1))),
			fn("helper", u8Type(), ret(u8(2))),
		},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.DuplicateDefinition, err.Code())
}

func Test_Build_DuplicateDefinition_02(t *testing.T) {
	// Shadowing within the same scope is rejected
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			let("x", false, u8(1)),
			let("x", false, u8(2)),
			ret(ident("x")),
		)},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.DuplicateDefinition, err.Code())
}

func Test_Build_ImmutableAssignment_01(t *testing.T) {
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			let("x", false, u8(1)),
			assign("x", u8(2)),
			ret(ident("x")),
		)},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.ImmutableAssignment, err.Code())
}

func Test_Build_ImmutableAssignment_02(t *testing.T) {
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			let("x", true, u8(1)),
			assign("x", u8(2)),
			ret(ident("x")),
		)},
	})
	//
	assert.Nil(t, err)
}

func Test_Build_UndefinedReference_01(t *testing.T) {
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			ret(ident("nope")),
		)},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.UndefinedReference, err.Code())
}

func Test_Build_TypeMismatch_01(t *testing.T) {
	// bool + u8 cannot unify
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			ret(&ast.Binary{Op: ast.Add, Left: boolLit(true), Right: u8(1), Source: sp()}),
		)},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.TypeMismatch, err.Code())
}

func Test_Build_TypeMismatch_02(t *testing.T) {
	// Declared type disagrees with the bound value
	_, err := build(&ast.Program{
		Name: "test",
		Functions: []ast.Function{fn("main", u8Type(),
			&ast.Definition{Name: "x", Type: &ast.BoolType{Source: sp()}, Value: u8(1), Source: sp()},
			ret(u8(0)),
		)},
	})
	//
	require.NotNil(t, err)
	assert.Equal(t, source.TypeMismatch, err.Code())
}

// mapLoader resolves imports from an in-memory package table.
type mapLoader map[string]*ast.Program

func (m mapLoader) Load(path util.Path) (*source.File, *ast.Program, error) {
	program, ok := m[path.String()]
	if !ok {
		return nil, nil, fmt.Errorf("not found")
	}
	//
	return source.NewSourceFile(path.String(), nil), program, nil
}

func imports(paths ...string) []ast.Import {
	imps := make([]ast.Import, len(paths))
	//
	for i, p := range paths {
		imps[i] = ast.Import{Path: util.ParsePath(p), Star: true, Source: sp()}
	}
	//
	return imps
}

func Test_Build_Import_01(t *testing.T) {
	loader := mapLoader{
		"lib": {
			Name:      "lib",
			Functions: []ast.Function{fn("helper", u8Type(), ret(u8(7)))},
		},
	}
	//
	program := &ast.Program{
		Name:    "test",
		Imports: imports("lib"),
		Functions: []ast.Function{fn("main", u8Type(),
			ret(&ast.Call{Function: ident("helper"), Source: sp()}),
		)},
	}
	//
	prog, err := BuildProgram(source.NewSourceFile("test", nil), program, loader)
	require.Nil(t, err)
	assert.True(t, prog.Main.HasValue())
}

func Test_Build_CircularImport_01(t *testing.T) {
	loader := mapLoader{
		"a": {Name: "a", Imports: imports("b")},
		"b": {Name: "b", Imports: imports("a")},
	}
	//
	program := &ast.Program{Name: "test", Imports: imports("a")}
	//
	_, err := BuildProgram(source.NewSourceFile("test", nil), program, loader)
	require.NotNil(t, err)
	assert.Equal(t, source.CircularImport, err.Code())
}

func Test_Build_UnknownImport_01(t *testing.T) {
	program := &ast.Program{Name: "test", Imports: imports("nowhere")}
	//
	_, err := BuildProgram(source.NewSourceFile("test", nil), program, mapLoader{})
	require.NotNil(t, err)
	assert.Equal(t, source.UndefinedReference, err.Code())
}

func Test_Monoid_01(t *testing.T) {
	assert.True(t, AndMonoid.CombineAll())
	assert.True(t, AndMonoid.CombineAll(true, true))
	assert.False(t, AndMonoid.CombineAll(true, false, true))
	//
	assert.False(t, OrMonoid.CombineAll())
	assert.True(t, OrMonoid.CombineAll(false, true))
	//
	assert.Equal(t, uint(6), SumMonoid.CombineAll(1, 2, 3))
}
