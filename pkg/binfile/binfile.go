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

// Package binfile decodes the JSON exchange format in which the external
// parser serialises syntax trees, along with the JSON input files carrying
// concrete values for entry-point parameters.  Union nodes are encoded as
// objects with exactly one variant field set; decoding checks this and
// rejects anything malformed, since the bytes cross a tool boundary.
package binfile

import (
	"encoding/json"
	"fmt"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// jsonSpan is a [start, end) pair of source offsets.
type jsonSpan [2]int

func (s jsonSpan) toSpan() source.Span {
	return source.NewSpan(s[0], s[1])
}

// jsonProgram mirrors ast.Program.
type jsonProgram struct {
	Name      string         `json:"name"`
	Imports   []jsonImport   `json:"imports,omitempty"`
	Circuits  []jsonCircuit  `json:"circuits,omitempty"`
	Functions []jsonFunction `json:"functions,omitempty"`
}

type jsonImport struct {
	Path    string             `json:"path"`
	Star    bool               `json:"star,omitempty"`
	Symbols []jsonImportSymbol `json:"symbols,omitempty"`
	Span    jsonSpan           `json:"span"`
}

type jsonImportSymbol struct {
	Name  string   `json:"name"`
	Alias string   `json:"alias,omitempty"`
	Span  jsonSpan `json:"span"`
}

type jsonCircuit struct {
	Name      string             `json:"name"`
	Fields    []jsonCircuitField `json:"fields,omitempty"`
	Functions []jsonFunction     `json:"functions,omitempty"`
	Span      jsonSpan           `json:"span"`
}

type jsonCircuitField struct {
	Name string   `json:"name"`
	Type jsonType `json:"type"`
	Span jsonSpan `json:"span"`
}

type jsonFunction struct {
	Name       string          `json:"name"`
	Static     bool            `json:"static,omitempty"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	Return     *jsonType       `json:"return,omitempty"`
	Body       []jsonStatement `json:"body"`
	Span       jsonSpan        `json:"span"`
}

type jsonParameter struct {
	Name    string   `json:"name"`
	Type    jsonType `json:"type"`
	Mutable bool     `json:"mutable,omitempty"`
	Public  bool     `json:"public,omitempty"`
	Span    jsonSpan `json:"span"`
}

// ProgramFromJSON decodes a serialised syntax tree.
func ProgramFromJSON(data []byte) (*ast.Program, error) {
	var jp jsonProgram
	//
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, err
	}
	//
	return jp.toAst()
}

func (p *jsonProgram) toAst() (*ast.Program, error) {
	program := &ast.Program{Name: p.Name}
	//
	for i := range p.Imports {
		imp, err := p.Imports[i].toAst()
		if err != nil {
			return nil, err
		}
		//
		program.Imports = append(program.Imports, imp)
	}
	//
	for i := range p.Circuits {
		circuit, err := p.Circuits[i].toAst()
		if err != nil {
			return nil, err
		}
		//
		program.Circuits = append(program.Circuits, circuit)
	}
	//
	for i := range p.Functions {
		fn, err := p.Functions[i].toAst()
		if err != nil {
			return nil, err
		}
		//
		program.Functions = append(program.Functions, fn)
	}
	//
	return program, nil
}

func (p *jsonImport) toAst() (ast.Import, error) {
	imp := ast.Import{
		Path:   util.ParsePath(p.Path),
		Star:   p.Star,
		Source: p.Span.toSpan(),
	}
	//
	if p.Star && len(p.Symbols) > 0 {
		return ast.Import{}, fmt.Errorf("import \"%s\" is both starred and selective", p.Path)
	}
	//
	for _, sym := range p.Symbols {
		alias := util.None[string]()
		if sym.Alias != "" {
			alias = util.Some(sym.Alias)
		}
		//
		imp.Symbols = append(imp.Symbols, ast.ImportSymbol{
			Name:   sym.Name,
			Alias:  alias,
			Source: sym.Span.toSpan(),
		})
	}
	//
	return imp, nil
}

func (p *jsonCircuit) toAst() (ast.Circuit, error) {
	circuit := ast.Circuit{Name: p.Name, Source: p.Span.toSpan()}
	//
	for i := range p.Fields {
		typ, err := p.Fields[i].Type.toAst()
		if err != nil {
			return ast.Circuit{}, err
		}
		//
		circuit.Fields = append(circuit.Fields, ast.CircuitField{
			Name:   p.Fields[i].Name,
			Type:   typ,
			Source: p.Fields[i].Span.toSpan(),
		})
	}
	//
	for i := range p.Functions {
		fn, err := p.Functions[i].toAst()
		if err != nil {
			return ast.Circuit{}, err
		}
		//
		circuit.Functions = append(circuit.Functions, fn)
	}
	//
	return circuit, nil
}

func (p *jsonFunction) toAst() (ast.Function, error) {
	fn := ast.Function{
		Name:   p.Name,
		Static: p.Static,
		Source: p.Span.toSpan(),
	}
	//
	for _, param := range p.Parameters {
		typ, err := param.Type.toAst()
		if err != nil {
			return ast.Function{}, err
		}
		//
		visibility := ast.Private
		if param.Public {
			visibility = ast.Public
		}
		//
		fn.Parameters = append(fn.Parameters, ast.Parameter{
			Name:       param.Name,
			Type:       typ,
			Mutable:    param.Mutable,
			Visibility: visibility,
			Source:     param.Span.toSpan(),
		})
	}
	//
	if p.Return != nil {
		ret, err := p.Return.toAst()
		if err != nil {
			return ast.Function{}, err
		}
		//
		fn.Return = ret
	}
	//
	body, err := statementsToAst(p.Body)
	if err != nil {
		return ast.Function{}, err
	}
	//
	fn.Body = ast.Block{Statements: body, Source: p.Span.toSpan()}
	//
	return fn, nil
}
