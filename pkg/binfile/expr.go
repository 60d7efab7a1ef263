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
	"math/big"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util/source"
)

// jsonExpression is a union over expression forms: exactly one variant field
// is set.
type jsonExpression struct {
	Int     *jsonIntLiteral    `json:"int,omitempty"`
	Bool    *bool              `json:"bool,omitempty"`
	Field   *string            `json:"field,omitempty"`
	Group   *jsonGroupLiteral  `json:"group,omitempty"`
	Var     *string            `json:"var,omitempty"`
	Binary  *jsonBinary        `json:"binary,omitempty"`
	Unary   *jsonUnary         `json:"unary,omitempty"`
	Ternary *jsonTernary       `json:"ternary,omitempty"`
	Call    *jsonCall          `json:"call,omitempty"`
	Array   []jsonExpression   `json:"array,omitempty"`
	Repeat  *jsonRepeat        `json:"repeat,omitempty"`
	Index   *jsonIndex         `json:"index,omitempty"`
	Tuple   []jsonExpression   `json:"tuple,omitempty"`
	TupleAt *jsonTupleAt       `json:"tuple_at,omitempty"`
	New     *jsonCircuitInit   `json:"new,omitempty"`
	Member  *jsonMemberAccess  `json:"member,omitempty"`
	Static  *jsonStaticAccess  `json:"static,omitempty"`
	Span    jsonSpan           `json:"span"`
}

type jsonIntLiteral struct {
	// Decimal rendering of the value.
	Value string `json:"value"`
	// Optional width suffix (e.g. "u8").
	Suffix string `json:"suffix,omitempty"`
}

type jsonGroupLiteral struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type jsonBinary struct {
	Op    string         `json:"op"`
	Left  jsonExpression `json:"left"`
	Right jsonExpression `json:"right"`
}

type jsonUnary struct {
	Op      string         `json:"op"`
	Operand jsonExpression `json:"operand"`
}

type jsonTernary struct {
	Condition jsonExpression `json:"condition"`
	Then      jsonExpression `json:"then"`
	Else      jsonExpression `json:"else"`
}

type jsonCall struct {
	Function  jsonExpression   `json:"function"`
	Arguments []jsonExpression `json:"arguments,omitempty"`
}

type jsonRepeat struct {
	Element jsonExpression `json:"element"`
	Count   uint           `json:"count"`
}

type jsonIndex struct {
	Array jsonExpression `json:"array"`
	Index jsonExpression `json:"index"`
}

type jsonTupleAt struct {
	Tuple jsonExpression `json:"tuple"`
	Index uint           `json:"index"`
}

type jsonCircuitInit struct {
	Name    string           `json:"name"`
	Members []jsonInitMember `json:"members,omitempty"`
}

type jsonInitMember struct {
	Name  string         `json:"name"`
	Value jsonExpression `json:"value"`
	Span  jsonSpan       `json:"span"`
}

type jsonMemberAccess struct {
	Target jsonExpression `json:"target"`
	Member string         `json:"member"`
}

type jsonStaticAccess struct {
	Circuit string `json:"circuit"`
	Member  string `json:"member"`
}

func (p *jsonExpression) toAst() (ast.Expression, error) {
	span := p.Span.toSpan()
	//
	switch {
	case p.Int != nil:
		value, err := parseBigInt(p.Int.Value)
		if err != nil {
			return nil, err
		}
		//
		literal := &ast.IntLiteral{Value: value, Source: span}
		//
		if p.Int.Suffix != "" {
			suffix, err := primitiveType(p.Int.Suffix, span)
			if err != nil {
				return nil, err
			}
			//
			intType, ok := suffix.(*ast.IntType)
			if !ok {
				return nil, fmt.Errorf("invalid integer suffix \"%s\"", p.Int.Suffix)
			}
			//
			literal.Suffix = intType
		}
		//
		return literal, nil
	case p.Bool != nil:
		return &ast.BoolLiteral{Value: *p.Bool, Source: span}, nil
	case p.Field != nil:
		value, err := parseBigInt(*p.Field)
		if err != nil {
			return nil, err
		}
		//
		return &ast.FieldLiteral{Value: value, Source: span}, nil
	case p.Group != nil:
		x, err := parseBigInt(p.Group.X)
		if err != nil {
			return nil, err
		}
		//
		y, err := parseBigInt(p.Group.Y)
		if err != nil {
			return nil, err
		}
		//
		return &ast.GroupLiteral{X: x, Y: y, Source: span}, nil
	case p.Var != nil:
		return &ast.Identifier{Name: *p.Var, Source: span}, nil
	case p.Binary != nil:
		return p.Binary.toAst(span)
	case p.Unary != nil:
		return p.Unary.toAst(span)
	case p.Ternary != nil:
		return p.Ternary.toAst(span)
	case p.Call != nil:
		return p.Call.toAst(span)
	case p.Array != nil:
		elements, err := expressionsToAst(p.Array)
		if err != nil {
			return nil, err
		}
		//
		return &ast.ArrayInline{Elements: elements, Source: span}, nil
	case p.Repeat != nil:
		element, err := p.Repeat.Element.toAst()
		if err != nil {
			return nil, err
		}
		//
		return &ast.ArrayRepeat{Element: element, Count: p.Repeat.Count, Source: span}, nil
	case p.Index != nil:
		array, err := p.Index.Array.toAst()
		if err != nil {
			return nil, err
		}
		//
		index, err := p.Index.Index.toAst()
		if err != nil {
			return nil, err
		}
		//
		return &ast.ArrayAccess{Array: array, Index: index, Source: span}, nil
	case p.Tuple != nil:
		elements, err := expressionsToAst(p.Tuple)
		if err != nil {
			return nil, err
		}
		//
		return &ast.TupleInit{Elements: elements, Source: span}, nil
	case p.TupleAt != nil:
		tuple, err := p.TupleAt.Tuple.toAst()
		if err != nil {
			return nil, err
		}
		//
		return &ast.TupleAccess{Tuple: tuple, Index: p.TupleAt.Index, Source: span}, nil
	case p.New != nil:
		return p.New.toAst(span)
	case p.Member != nil:
		target, err := p.Member.Target.toAst()
		if err != nil {
			return nil, err
		}
		//
		return &ast.MemberAccess{Target: target, Member: p.Member.Member, Source: span}, nil
	case p.Static != nil:
		return &ast.StaticAccess{
			Circuit: p.Static.Circuit,
			Member:  p.Static.Member,
			Source:  span,
		}, nil
	}
	//
	return nil, fmt.Errorf("malformed expression node")
}

func (p *jsonBinary) toAst(span source.Span) (ast.Expression, error) {
	op, err := parseBinaryOp(p.Op)
	if err != nil {
		return nil, err
	}
	//
	left, err := p.Left.toAst()
	if err != nil {
		return nil, err
	}
	//
	right, err := p.Right.toAst()
	if err != nil {
		return nil, err
	}
	//
	return &ast.Binary{Op: op, Left: left, Right: right, Source: span}, nil
}

func (p *jsonUnary) toAst(span source.Span) (ast.Expression, error) {
	operand, err := p.Operand.toAst()
	if err != nil {
		return nil, err
	}
	//
	switch p.Op {
	case "!":
		return &ast.Unary{Op: ast.Not, Operand: operand, Source: span}, nil
	case "-":
		return &ast.Unary{Op: ast.Negate, Operand: operand, Source: span}, nil
	}
	//
	return nil, fmt.Errorf("unknown unary operator \"%s\"", p.Op)
}

func (p *jsonTernary) toAst(span source.Span) (ast.Expression, error) {
	condition, err := p.Condition.toAst()
	if err != nil {
		return nil, err
	}
	//
	thenBranch, err := p.Then.toAst()
	if err != nil {
		return nil, err
	}
	//
	elseBranch, err := p.Else.toAst()
	if err != nil {
		return nil, err
	}
	//
	return &ast.Ternary{
		Condition: condition,
		Then:      thenBranch,
		Else:      elseBranch,
		Source:    span,
	}, nil
}

func (p *jsonCall) toAst(span source.Span) (ast.Expression, error) {
	function, err := p.Function.toAst()
	if err != nil {
		return nil, err
	}
	//
	arguments, err := expressionsToAst(p.Arguments)
	if err != nil {
		return nil, err
	}
	//
	return &ast.Call{Function: function, Arguments: arguments, Source: span}, nil
}

func (p *jsonCircuitInit) toAst(span source.Span) (ast.Expression, error) {
	init := &ast.CircuitInit{Name: p.Name, Source: span}
	//
	for i := range p.Members {
		value, err := p.Members[i].Value.toAst()
		if err != nil {
			return nil, err
		}
		//
		init.Members = append(init.Members, ast.CircuitInitMember{
			Name:   p.Members[i].Name,
			Value:  value,
			Source: p.Members[i].Span.toSpan(),
		})
	}
	//
	return init, nil
}

func expressionsToAst(exprs []jsonExpression) ([]ast.Expression, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	//
	built := make([]ast.Expression, len(exprs))
	//
	for i := range exprs {
		expr, err := exprs[i].toAst()
		if err != nil {
			return nil, err
		}
		//
		built[i] = expr
	}
	//
	return built, nil
}

func parseBinaryOp(op string) (ast.BinaryOp, error) {
	switch op {
	case "+":
		return ast.Add, nil
	case "-":
		return ast.Sub, nil
	case "*":
		return ast.Mul, nil
	case "/":
		return ast.Div, nil
	case "**":
		return ast.Pow, nil
	case "==":
		return ast.Eq, nil
	case "!=":
		return ast.Neq, nil
	case "<":
		return ast.Lt, nil
	case "<=":
		return ast.LtEq, nil
	case ">":
		return ast.Gt, nil
	case ">=":
		return ast.GtEq, nil
	case "&&":
		return ast.And, nil
	case "||":
		return ast.Or, nil
	}
	//
	return 0, fmt.Errorf("unknown binary operator \"%s\"", op)
}

// parseBigInt parses a (possibly negative) decimal integer of arbitrary
// magnitude.
func parseBigInt(s string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed integer \"%s\"", s)
	}
	//
	return value, nil
}
