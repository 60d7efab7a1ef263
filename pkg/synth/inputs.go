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
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/asg"
	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/r1cs"
	"github.com/quill-zk/quill/pkg/synth/gadgets"
	"github.com/quill-zk/quill/pkg/util/source"
)

// InputValue is one concrete input literal, already decoded from whatever
// file format the front end uses.  Shapes are checked against the declared
// parameter types during binding.
type InputValue interface {
	inputValue()
}

// BoolInput is a boolean input literal.
type BoolInput bool

// IntInput is an integer or field-element input literal.
type IntInput struct {
	Value *big.Int
}

// GroupInput is a group-element input literal in affine coordinates.
type GroupInput struct {
	X, Y *big.Int
}

// ListInput is an aggregate input literal, covering arrays, tuples and
// circuit instances (in field-declaration order).
type ListInput []InputValue

func (BoolInput) inputValue()  {}
func (IntInput) inputValue()   {}
func (GroupInput) inputValue() {}
func (ListInput) inputValue()  {}

// Section maps entry-point parameter names to input literals.
type Section map[string]InputValue

// Inputs holds the canonical input sections.  A public parameter binds from
// the public section; a private parameter binds from the private, record or
// state section (searched in that order), all of which allocate private
// wires.
type Inputs struct {
	Public  Section
	Private Section
	Record  Section
	State   Section
}

// lookup finds the input literal for a parameter of a given visibility.
func (p *Inputs) lookup(name string, visibility ast.Visibility) (InputValue, bool) {
	if p == nil {
		return nil, false
	}
	//
	if visibility == ast.Public {
		value, ok := p.Public[name]
		return value, ok
	}
	//
	for _, section := range []Section{p.Private, p.Record, p.State} {
		if value, ok := section[name]; ok {
			return value, true
		}
	}
	//
	return nil, false
}

// bindParameters allocates input wires for every entry-point parameter and
// binds them into the environment.
func (p *synthesizer) bindParameters(frame *frame, fn *asg.Function,
	inputs *Inputs) *source.SyntaxError {
	//
	for _, vid := range fn.Parameters {
		v := p.arena.Variable(vid)
		//
		raw, ok := inputs.lookup(v.Name, v.Visibility)
		if !ok {
			return p.syntaxError(v.Source, source.UndefinedReference,
				"no input value for parameter \"%s\"", v.Name)
		}
		//
		visibility := r1cs.PrivateInput
		if v.Visibility == ast.Public {
			visibility = r1cs.PublicInput
		}
		//
		value, err := p.allocValue(v.Name, v.Type, raw, visibility, v.Source)
		if err != nil {
			return err
		}
		//
		frame.env[vid] = value
	}
	//
	return nil
}

// allocValue allocates input wires for one (possibly aggregate) input
// literal, checking its shape against the declared type.
func (p *synthesizer) allocValue(name string, typ asg.Type, raw InputValue,
	visibility r1cs.Visibility, span source.Span) (gadgets.Value, *source.SyntaxError) {
	//
	switch t := typ.(type) {
	case asg.BoolType:
		b, ok := raw.(BoolInput)
		if !ok {
			return nil, p.inputMismatch(name, typ, span)
		}
		//
		value, err := gadgets.AllocBool(p.sys, name, visibility, bool(b))
		if err != nil {
			return nil, p.gadgetError(span, err)
		}
		//
		return value, nil
	case asg.IntType:
		i, ok := raw.(IntInput)
		if !ok {
			return nil, p.inputMismatch(name, typ, span)
		} else if !fitsInt(i.Value, t.Width, t.Signed) {
			return nil, p.syntaxError(span, source.TypeMismatch,
				"input \"%s\" out of range for %s", name, t)
		}
		//
		value, err := gadgets.AllocInt(p.sys, name, visibility, t.Width, t.Signed,
			patternOf(i.Value, t.Width))
		if err != nil {
			return nil, p.gadgetError(span, err)
		}
		//
		return value, nil
	case asg.FieldType:
		i, ok := raw.(IntInput)
		if !ok {
			return nil, p.inputMismatch(name, typ, span)
		}
		//
		var elem fr.Element
		elem.SetBigInt(i.Value)
		//
		value, err := gadgets.AllocField(p.sys, name, visibility, elem)
		if err != nil {
			return nil, p.gadgetError(span, err)
		}
		//
		return value, nil
	case asg.GroupType:
		g, ok := raw.(GroupInput)
		if !ok {
			return nil, p.inputMismatch(name, typ, span)
		}
		//
		var x, y fr.Element
		x.SetBigInt(g.X)
		y.SetBigInt(g.Y)
		//
		if !gadgets.OnCurve(x, y) {
			return nil, p.syntaxError(span, source.TypeMismatch,
				"input \"%s\" is not a point on the curve", name)
		}
		//
		value, err := gadgets.AllocGroup(p.sys, name, visibility, x, y)
		if err != nil {
			return nil, p.gadgetError(span, err)
		}
		//
		return value, nil
	case asg.ArrayType:
		list, ok := raw.(ListInput)
		if !ok || uint(len(list)) != t.Size {
			return nil, p.inputMismatch(name, typ, span)
		}
		//
		elements := make([]gadgets.Value, len(list))
		//
		for i, e := range list {
			element, err := p.allocValue(fmt.Sprintf("%s[%d]", name, i), t.Element,
				e, visibility, span)
			if err != nil {
				return nil, err
			}
			//
			elements[i] = element
		}
		//
		return gadgets.Array{Element: t.Element, Elements: elements}, nil
	case asg.TupleType:
		list, ok := raw.(ListInput)
		if !ok || len(list) != len(t.Elements) {
			return nil, p.inputMismatch(name, typ, span)
		}
		//
		elements := make([]gadgets.Value, len(list))
		//
		for i, e := range list {
			element, err := p.allocValue(fmt.Sprintf("%s.%d", name, i), t.Elements[i],
				e, visibility, span)
			if err != nil {
				return nil, err
			}
			//
			elements[i] = element
		}
		//
		return gadgets.Tuple{Elements: elements}, nil
	case asg.CircuitType:
		circ := p.arena.Circuit(t.Circuit)
		//
		list, ok := raw.(ListInput)
		if !ok || len(list) != len(circ.Fields) {
			return nil, p.inputMismatch(name, typ, span)
		}
		//
		fields := make([]gadgets.Value, len(list))
		//
		for i, e := range list {
			field, err := p.allocValue(fmt.Sprintf("%s.%s", name, circ.Fields[i].Name),
				circ.Fields[i].Type, e, visibility, span)
			if err != nil {
				return nil, err
			}
			//
			fields[i] = field
		}
		//
		return gadgets.Circuit{CircuitType: t, Fields: fields}, nil
	}
	//
	panic("unknown type")
}

func (p *synthesizer) inputMismatch(name string, typ asg.Type,
	span source.Span) *source.SyntaxError {
	//
	return p.syntaxError(span, source.TypeMismatch,
		"input \"%s\" does not match declared type %s", name, typ)
}

// bindOutput exposes the entry point's return value as named public wires.
func (p *synthesizer) bindOutput(result gadgets.Value, span source.Span) *source.SyntaxError {
	if err := gadgets.Publish(p.sys, "output", result); err != nil {
		return p.gadgetError(span, err)
	}
	//
	return nil
}

// fitsInt checks an integer literal against the representable range of a
// given width.
func fitsInt(value *big.Int, width uint, signed bool) bool {
	if signed {
		var (
			max = new(big.Int).Lsh(big.NewInt(1), width-1)
			min = new(big.Int).Neg(max)
		)
		//
		max.Sub(max, big.NewInt(1))
		//
		return value.Cmp(min) >= 0 && value.Cmp(max) <= 0
	}
	//
	bound := new(big.Int).Lsh(big.NewInt(1), width)
	//
	return value.Sign() >= 0 && value.Cmp(bound) < 0
}

// patternOf reduces a (possibly negative) integer to its two's-complement
// bit pattern at a given width.
func patternOf(value *big.Int, width uint) *uint256.Int {
	reduced := value
	//
	if value.Sign() < 0 {
		modulus := new(big.Int).Lsh(big.NewInt(1), width)
		reduced = new(big.Int).Add(modulus, value)
	}
	//
	pattern, _ := uint256.FromBig(reduced)
	//
	return pattern
}
