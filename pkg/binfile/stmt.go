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
package binfile

import (
	"fmt"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util/source"
)

// jsonStatement is a union over statement forms: exactly one variant field
// is set.
type jsonStatement struct {
	Let     *jsonDefinition  `json:"let,omitempty"`
	Assign  *jsonAssignment  `json:"assign,omitempty"`
	Return  *jsonReturn      `json:"return,omitempty"`
	If      *jsonConditional `json:"if,omitempty"`
	For     *jsonIteration   `json:"for,omitempty"`
	Console *jsonConsole     `json:"console,omitempty"`
	Expr    *jsonExpression  `json:"expr,omitempty"`
	Span    jsonSpan         `json:"span"`
}

type jsonDefinition struct {
	Mutable bool           `json:"mutable,omitempty"`
	Name    string         `json:"name"`
	Type    *jsonType      `json:"type,omitempty"`
	Value   jsonExpression `json:"value"`
}

type jsonAssignment struct {
	Target jsonExpression `json:"target"`
	Value  jsonExpression `json:"value"`
}

type jsonReturn struct {
	Value *jsonExpression `json:"value,omitempty"`
}

type jsonConditional struct {
	Condition jsonExpression  `json:"condition"`
	Then      []jsonStatement `json:"then"`
	Else      []jsonStatement `json:"else,omitempty"`
}

type jsonIteration struct {
	Variable string          `json:"variable"`
	Start    jsonExpression  `json:"start"`
	Stop     jsonExpression  `json:"stop"`
	Body     []jsonStatement `json:"body"`
}

type jsonConsole struct {
	Kind      string           `json:"kind"`
	Format    string           `json:"format,omitempty"`
	Arguments []jsonExpression `json:"arguments,omitempty"`
}

func statementsToAst(stmts []jsonStatement) ([]ast.Statement, error) {
	if len(stmts) == 0 {
		return nil, nil
	}
	//
	built := make([]ast.Statement, len(stmts))
	//
	for i := range stmts {
		stmt, err := stmts[i].toAst()
		if err != nil {
			return nil, err
		}
		//
		built[i] = stmt
	}
	//
	return built, nil
}

func (p *jsonStatement) toAst() (ast.Statement, error) {
	span := p.Span.toSpan()
	//
	switch {
	case p.Let != nil:
		return p.Let.toAst(span)
	case p.Assign != nil:
		return p.Assign.toAst(span)
	case p.Return != nil:
		var (
			value ast.Expression
			err   error
		)
		//
		if p.Return.Value != nil {
			if value, err = p.Return.Value.toAst(); err != nil {
				return nil, err
			}
		}
		//
		return &ast.Return{Value: value, Source: span}, nil
	case p.If != nil:
		return p.If.toAst(span)
	case p.For != nil:
		return p.For.toAst(span)
	case p.Console != nil:
		return p.Console.toAst(span)
	case p.Expr != nil:
		expr, err := p.Expr.toAst()
		if err != nil {
			return nil, err
		}
		//
		return &ast.ExpressionStatement{Expression: expr, Source: span}, nil
	}
	//
	return nil, fmt.Errorf("malformed statement node")
}

func (p *jsonDefinition) toAst(span source.Span) (ast.Statement, error) {
	var (
		declared ast.Type
		err      error
	)
	//
	if p.Type != nil {
		if declared, err = p.Type.toAst(); err != nil {
			return nil, err
		}
	}
	//
	value, err := p.Value.toAst()
	if err != nil {
		return nil, err
	}
	//
	return &ast.Definition{
		Mutable: p.Mutable,
		Name:    p.Name,
		Type:    declared,
		Value:   value,
		Source:  span,
	}, nil
}

func (p *jsonAssignment) toAst(span source.Span) (ast.Statement, error) {
	target, err := p.Target.toAst()
	if err != nil {
		return nil, err
	}
	//
	value, err := p.Value.toAst()
	if err != nil {
		return nil, err
	}
	//
	return &ast.Assignment{Target: target, Value: value, Source: span}, nil
}

func (p *jsonConditional) toAst(span source.Span) (ast.Statement, error) {
	condition, err := p.Condition.toAst()
	if err != nil {
		return nil, err
	}
	//
	thenBranch, err := statementsToAst(p.Then)
	if err != nil {
		return nil, err
	}
	//
	conditional := &ast.Conditional{
		Condition: condition,
		Then:      ast.Block{Statements: thenBranch, Source: span},
		Source:    span,
	}
	//
	if p.Else != nil {
		elseBranch, err := statementsToAst(p.Else)
		if err != nil {
			return nil, err
		}
		//
		conditional.Else = &ast.Block{Statements: elseBranch, Source: span}
	}
	//
	return conditional, nil
}

func (p *jsonIteration) toAst(span source.Span) (ast.Statement, error) {
	start, err := p.Start.toAst()
	if err != nil {
		return nil, err
	}
	//
	stop, err := p.Stop.toAst()
	if err != nil {
		return nil, err
	}
	//
	body, err := statementsToAst(p.Body)
	if err != nil {
		return nil, err
	}
	//
	return &ast.Iteration{
		Variable: p.Variable,
		Start:    start,
		Stop:     stop,
		Body:     ast.Block{Statements: body, Source: span},
		Source:   span,
	}, nil
}

func (p *jsonConsole) toAst(span source.Span) (ast.Statement, error) {
	arguments, err := expressionsToAst(p.Arguments)
	if err != nil {
		return nil, err
	}
	//
	var kind ast.ConsoleKind
	//
	switch p.Kind {
	case "assert_eq":
		kind = ast.ConsoleAssert
	case "log":
		kind = ast.ConsoleLog
	case "debug":
		kind = ast.ConsoleDebug
	case "error":
		kind = ast.ConsoleError
	default:
		return nil, fmt.Errorf("unknown console kind \"%s\"", p.Kind)
	}
	//
	return &ast.Console{
		Kind:      kind,
		Format:    p.Format,
		Arguments: arguments,
		Source:    span,
	}, nil
}
