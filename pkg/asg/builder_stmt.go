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
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// buildBlock builds the statements of a block within a fresh scope nested in
// the given parent.  The scope is abandoned on exit; any variables it
// declared remain interned in the arena, referenced by handle from the built
// statements.
func (p *builder) buildBlock(parent ScopeId, block *ast.Block, fnReturn Type) ([]Statement, *source.SyntaxError) {
	scope := p.arena.NewScope(util.Some(parent))
	//
	return p.buildStatements(scope, block.Statements, fnReturn)
}

func (p *builder) buildStatements(scope ScopeId, stmts []ast.Statement,
	fnReturn Type) ([]Statement, *source.SyntaxError) {
	//
	built := make([]Statement, len(stmts))
	//
	for i, stmt := range stmts {
		s, err := p.buildStatement(scope, stmt, fnReturn)
		if err != nil {
			return nil, err
		}
		//
		built[i] = s
	}
	//
	return built, nil
}

func (p *builder) buildStatement(scope ScopeId, stmt ast.Statement,
	fnReturn Type) (Statement, *source.SyntaxError) {
	//
	switch s := stmt.(type) {
	case *ast.Definition:
		return p.buildDefinition(scope, s)
	case *ast.Assignment:
		return p.buildAssignment(scope, s)
	case *ast.Return:
		return p.buildReturn(scope, s, fnReturn)
	case *ast.Conditional:
		return p.buildConditional(scope, s, fnReturn)
	case *ast.Iteration:
		return p.buildIteration(scope, s, fnReturn)
	case *ast.Console:
		return p.buildConsole(scope, s)
	case *ast.ExpressionStatement:
		// Calls are built directly such that a void callee is permitted in
		// statement position.
		if call, ok := s.Expression.(*ast.Call); ok {
			expr, err := p.buildCall(scope, call, true)
			if err != nil {
				return nil, err
			}
			//
			return &Expr{expr, s.Source}, nil
		}
		//
		expr, err := p.buildExpression(scope, s.Expression, AnyType())
		if err != nil {
			return nil, err
		}
		//
		return &Expr{expr, s.Source}, nil
	}
	//
	panic("unknown statement")
}

func (p *builder) buildDefinition(scope ScopeId, s *ast.Definition) (Statement, *source.SyntaxError) {
	expected := AnyType()
	// Resolve the declared type (if any) and propagate it into the value.
	if s.Type != nil {
		declared, err := p.resolveType(scope, s.Type)
		if err != nil {
			return nil, err
		}
		//
		expected = Expecting(declared)
	}
	//
	value, err := p.buildExpression(scope, s.Value, expected)
	if err != nil {
		return nil, err
	}
	//
	vid := p.arena.InternVariable(Variable{
		Name:    s.Name,
		Type:    value.Type(),
		Mutable: s.Mutable,
		Scope:   scope,
		Source:  s.Source,
	})
	//
	if !p.arena.Declare(scope, s.Name, BindVariable(vid)) {
		return nil, p.syntaxError(s.Source, source.DuplicateDefinition,
			"variable \"%s\" already defined", s.Name)
	}
	//
	return &Definition{vid, value, s.Source}, nil
}

// buildAssignment builds an assignment to a variable, or to one element of
// the array/tuple/circuit bound to it.  The mutability check reports against
// the assigning statement's span, not the declaration's.
func (p *builder) buildAssignment(scope ScopeId, s *ast.Assignment) (Statement, *source.SyntaxError) {
	vid, path, targetType, err := p.buildTarget(scope, s.Target)
	if err != nil {
		return nil, err
	}
	//
	if !p.arena.Variable(vid).Mutable {
		return nil, p.syntaxError(s.Source, source.ImmutableAssignment,
			"cannot assign to immutable variable \"%s\"", p.arena.Variable(vid).Name)
	}
	//
	value, err := p.buildExpression(scope, s.Value, Expecting(targetType))
	if err != nil {
		return nil, err
	}
	//
	return &Assignment{vid, path, value, s.Source}, nil
}

// buildTarget unwinds an assignment target into its base variable and the
// access path into that variable's structure, returning the type at the end
// of the path.
func (p *builder) buildTarget(scope ScopeId,
	target ast.Expression) (VariableId, []Access, Type, *source.SyntaxError) {
	//
	switch t := target.(type) {
	case *ast.Identifier:
		binding, ok := p.arena.Resolve(scope, t.Name)
		if !ok || binding.Kind != VariableBinding {
			return 0, nil, nil, p.syntaxError(t.Source, source.UndefinedReference,
				"undefined variable \"%s\"", t.Name)
		}
		//
		return binding.Variable, nil, p.arena.Variable(binding.Variable).Type, nil
	case *ast.ArrayAccess:
		vid, path, prefixType, err := p.buildTarget(scope, t.Array)
		if err != nil {
			return 0, nil, nil, err
		}
		//
		arrType, ok := prefixType.(ArrayType)
		if !ok {
			return 0, nil, nil, p.syntaxError(t.Array.Span(), source.TypeMismatch,
				"expected array (found %s)", prefixType)
		}
		//
		index, serr := p.buildExpression(scope, t.Index, NumericType())
		if serr != nil {
			return 0, nil, nil, serr
		}
		//
		path = append(path, Access{Kind: ArrayElement, Index: index})
		//
		return vid, path, arrType.Element, nil
	case *ast.TupleAccess:
		vid, path, prefixType, err := p.buildTarget(scope, t.Tuple)
		if err != nil {
			return 0, nil, nil, err
		}
		//
		tupType, ok := prefixType.(TupleType)
		if !ok {
			return 0, nil, nil, p.syntaxError(t.Tuple.Span(), source.TypeMismatch,
				"expected tuple (found %s)", prefixType)
		} else if t.Index >= uint(len(tupType.Elements)) {
			return 0, nil, nil, p.syntaxError(t.Source, source.TypeMismatch,
				"tuple index %d out of bounds for %s", t.Index, tupType)
		}
		//
		path = append(path, Access{Kind: TupleElement, Element: t.Index})
		//
		return vid, path, tupType.Elements[t.Index], nil
	case *ast.MemberAccess:
		vid, path, prefixType, err := p.buildTarget(scope, t.Target)
		if err != nil {
			return 0, nil, nil, err
		}
		//
		circType, ok := prefixType.(CircuitType)
		if !ok {
			return 0, nil, nil, p.syntaxError(t.Target.Span(), source.TypeMismatch,
				"expected circuit (found %s)", prefixType)
		}
		//
		circ := p.arena.Circuit(circType.Circuit)
		//
		index := circ.FieldIndex(t.Member)
		if index.IsEmpty() {
			return 0, nil, nil, p.syntaxError(t.Source, source.UndefinedReference,
				"circuit \"%s\" has no field \"%s\"", circ.Name, t.Member)
		}
		//
		path = append(path, Access{Kind: CircuitMember, Element: index.Unwrap()})
		//
		return vid, path, circ.Fields[index.Unwrap()].Type, nil
	}
	//
	return 0, nil, nil, p.syntaxError(target.Span(), source.TypeMismatch,
		"invalid assignment target")
}

func (p *builder) buildReturn(scope ScopeId, s *ast.Return, fnReturn Type) (Statement, *source.SyntaxError) {
	if s.Value == nil {
		if fnReturn != nil {
			return nil, p.syntaxError(s.Source, source.TypeMismatch,
				"expected return value of type %s", fnReturn)
		}
		//
		return &Return{nil, s.Source}, nil
	} else if fnReturn == nil {
		return nil, p.syntaxError(s.Source, source.TypeMismatch,
			"unexpected return value in void function")
	}
	//
	value, err := p.buildExpression(scope, s.Value, Expecting(fnReturn))
	if err != nil {
		return nil, err
	}
	//
	return &Return{value, s.Source}, nil
}

func (p *builder) buildConditional(scope ScopeId, s *ast.Conditional,
	fnReturn Type) (Statement, *source.SyntaxError) {
	//
	condition, err := p.buildExpression(scope, s.Condition, Expecting(BoolType{}))
	if err != nil {
		return nil, err
	}
	// Both branches are built (and later synthesised) regardless of the
	// condition's runtime value.
	thenBranch, err := p.buildBlock(scope, &s.Then, fnReturn)
	if err != nil {
		return nil, err
	}
	//
	var elseBranch []Statement
	//
	if s.Else != nil {
		if elseBranch, err = p.buildBlock(scope, s.Else, fnReturn); err != nil {
			return nil, err
		}
	}
	//
	return &Conditional{condition, thenBranch, elseBranch, s.Source}, nil
}

func (p *builder) buildIteration(scope ScopeId, s *ast.Iteration,
	fnReturn Type) (Statement, *source.SyntaxError) {
	//
	start, err := p.buildExpression(scope, s.Start, NumericType())
	if err != nil {
		return nil, err
	}
	//
	if _, ok := start.Type().(IntType); !ok {
		return nil, p.syntaxError(s.Start.Span(), source.TypeMismatch,
			"expected integer loop bound (found %s)", start.Type())
	}
	//
	stop, err := p.buildExpression(scope, s.Stop, Expecting(start.Type()))
	if err != nil {
		return nil, err
	}
	// The index variable lives in a scope bracketing the body, bound afresh
	// to each constant in the range during unrolling.
	bodyScope := p.arena.NewScope(util.Some(scope))
	//
	vid := p.arena.InternVariable(Variable{
		Name:   s.Variable,
		Type:   start.Type(),
		Scope:  bodyScope,
		Source: s.Source,
	})
	//
	p.arena.Declare(bodyScope, s.Variable, BindVariable(vid))
	//
	body, err := p.buildStatements(bodyScope, s.Body.Statements, fnReturn)
	if err != nil {
		return nil, err
	}
	//
	return &Iteration{vid, start, stop, body, s.Source}, nil
}

func (p *builder) buildConsole(scope ScopeId, s *ast.Console) (Statement, *source.SyntaxError) {
	if s.Kind == ast.ConsoleAssert {
		if len(s.Arguments) != 2 {
			return nil, p.syntaxError(s.Source, source.TypeMismatch,
				"assert_eq expects exactly 2 arguments (found %d)", len(s.Arguments))
		}
		//
		left, err := p.buildExpression(scope, s.Arguments[0], AnyType())
		if err != nil {
			return nil, err
		}
		//
		right, err := p.buildExpression(scope, s.Arguments[1], Expecting(left.Type()))
		if err != nil {
			return nil, err
		}
		//
		return &Console{s.Kind, "", []Expression{left, right}, s.Source}, nil
	}
	//
	args := make([]Expression, len(s.Arguments))
	//
	for i, arg := range s.Arguments {
		built, err := p.buildExpression(scope, arg, AnyType())
		if err != nil {
			return nil, err
		}
		//
		args[i] = built
	}
	//
	return &Console{s.Kind, s.Format, args, s.Source}, nil
}
