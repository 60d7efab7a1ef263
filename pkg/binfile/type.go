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
	"strconv"
	"strings"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util/source"
)

// jsonType is a union over syntactic type forms.  Primitive types are given
// by name (e.g. "bool", "u32"); exactly one variant field is set otherwise.
type jsonType struct {
	Primitive string         `json:"primitive,omitempty"`
	Array     *jsonArrayType `json:"array,omitempty"`
	Tuple     []jsonType     `json:"tuple,omitempty"`
	Named     string         `json:"named,omitempty"`
	Span      jsonSpan       `json:"span"`
}

type jsonArrayType struct {
	Element jsonType `json:"element"`
	Size    uint     `json:"size"`
}

func (p *jsonType) toAst() (ast.Type, error) {
	span := p.Span.toSpan()
	//
	switch {
	case p.Primitive != "":
		return primitiveType(p.Primitive, span)
	case p.Array != nil:
		element, err := p.Array.Element.toAst()
		if err != nil {
			return nil, err
		}
		//
		return &ast.ArrayType{Element: element, Size: p.Array.Size, Source: span}, nil
	case p.Tuple != nil:
		elements := make([]ast.Type, len(p.Tuple))
		//
		for i := range p.Tuple {
			element, err := p.Tuple[i].toAst()
			if err != nil {
				return nil, err
			}
			//
			elements[i] = element
		}
		//
		return &ast.TupleType{Elements: elements, Source: span}, nil
	case p.Named == "Self":
		return &ast.SelfType{Source: span}, nil
	case p.Named != "":
		return &ast.NamedType{Name: p.Named, Source: span}, nil
	}
	//
	return nil, fmt.Errorf("malformed type node")
}

// primitiveType parses a primitive type name (bool, field, group, or an
// integer type such as u8 or i128).
func primitiveType(name string, span source.Span) (ast.Type, error) {
	switch name {
	case "bool":
		return &ast.BoolType{Source: span}, nil
	case "field":
		return &ast.FieldType{Source: span}, nil
	case "group":
		return &ast.GroupType{Source: span}, nil
	}
	//
	if strings.HasPrefix(name, "u") || strings.HasPrefix(name, "i") {
		width, err := strconv.ParseUint(name[1:], 10, 16)
		//
		if err == nil && validWidth(uint(width)) {
			return &ast.IntType{
				Width:  uint(width),
				Signed: name[0] == 'i',
				Source: span,
			}, nil
		}
	}
	//
	return nil, fmt.Errorf("unknown primitive type \"%s\"", name)
}

// validWidth restricts integer types to the supported widths.
func validWidth(width uint) bool {
	switch width {
	case 8, 16, 32, 64, 128:
		return true
	}
	//
	return false
}
