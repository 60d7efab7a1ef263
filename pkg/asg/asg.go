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

// Package asg implements the semantic graph sitting between the raw syntax
// tree and constraint synthesis.  The graph is built once, top-down, with
// scope push/pop bracketing function and block bodies, and is immutable
// thereafter.  Scopes, variables, functions and circuits live in a central
// arena addressed by integer handles, with parent links as optional handles;
// this avoids ownership cycles between (for example) a circuit and the
// functions declared within it.
package asg

import (
	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// ScopeId is an arena handle identifying a scope.
type ScopeId uint

// VariableId is an arena handle identifying a variable.
type VariableId uint

// FunctionId is an arena handle identifying a function.
type FunctionId uint

// CircuitId is an arena handle identifying a circuit declaration.
type CircuitId uint

// Variable describes a single named binding, being either a declared local,
// a function parameter or a loop index.
type Variable struct {
	// Name of this variable.
	Name string
	// Resolved type of this variable.
	Type Type
	// Indicates whether this variable can be reassigned.
	Mutable bool
	// Determines public versus private wire allocation when this variable is
	// an entry-point parameter.
	Visibility ast.Visibility
	// Scope in which this variable was declared.
	Scope ScopeId
	// Location of the declaration, for diagnostics.
	Source source.Span
}

// Function describes a single resolved function, either top-level or
// declared within a circuit.
type Function struct {
	// Name of this function.
	Name string
	// Enclosing circuit, if any.
	Circuit util.Option[CircuitId]
	// Indicates a static circuit function (i.e. one without a receiver).
	Static bool
	// Receiver variable ("self"), for instance functions only.
	Receiver util.Option[VariableId]
	// Declared parameters, in order.
	Parameters []VariableId
	// Resolved return type, or nil for a void function.
	Return Type
	// Scope enclosing the function body (parameters are declared here).
	Scope ScopeId
	// Resolved function body.
	Body []Statement
	// Location of the declaration, for diagnostics.
	Source source.Span
}

// Field describes a single named field of a circuit declaration.
type Field struct {
	// Name of this field.
	Name string
	// Resolved type of this field.
	Type Type
}

// Circuit describes a single resolved circuit declaration.
type Circuit struct {
	// Name of this circuit.
	Name string
	// Resolved fields, in declaration order.
	Fields []Field
	// Static and instance functions, keyed by name.
	Functions map[string]FunctionId
	// Location of the declaration, for diagnostics.
	Source source.Span
}

// FieldIndex returns the index of the named field, if it exists.
func (p *Circuit) FieldIndex(name string) util.Option[uint] {
	for i, f := range p.Fields {
		if f.Name == name {
			return util.Some(uint(i))
		}
	}
	//
	return util.None[uint]()
}

// Program is a completed semantic graph for a single package, along with all
// packages it (transitively) imported.  Handles held by nodes of this graph
// index into the shared arena.
type Program struct {
	// Name of this program.
	Name string
	// Arena holding every scope, variable, function and circuit of this
	// program and its imports.
	arena *Arena
	// Root scope of this program.
	Root ScopeId
	// Entry point, if one was declared.
	Main util.Option[FunctionId]
	// Top-level functions declared by this program (excluding imports).
	Functions []FunctionId
	// Circuits declared by this program (excluding imports).
	Circuits []CircuitId
}

// Arena returns the arena backing this program.
func (p *Program) Arena() *Arena {
	return p.arena
}

// Arena is the central store for all entities of a semantic graph.
// Definitions are interned exactly once and referenced by handle thereafter.
type Arena struct {
	scopes    []scopeData
	variables []Variable
	functions []Function
	circuits  []Circuit
}

// NewArena constructs an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Variable returns the variable identified by a given handle.
func (p *Arena) Variable(id VariableId) *Variable {
	return &p.variables[id]
}

// Function returns the function identified by a given handle.
func (p *Arena) Function(id FunctionId) *Function {
	return &p.functions[id]
}

// Circuit returns the circuit identified by a given handle.
func (p *Arena) Circuit(id CircuitId) *Circuit {
	return &p.circuits[id]
}

// InternVariable adds a variable to this arena, returning its handle.
func (p *Arena) InternVariable(v Variable) VariableId {
	id := VariableId(len(p.variables))
	p.variables = append(p.variables, v)
	//
	return id
}

// InternFunction adds a function to this arena, returning its handle.
func (p *Arena) InternFunction(f Function) FunctionId {
	id := FunctionId(len(p.functions))
	p.functions = append(p.functions, f)
	//
	return id
}

// InternCircuit adds a circuit to this arena, returning its handle.
func (p *Arena) InternCircuit(c Circuit) CircuitId {
	id := CircuitId(len(p.circuits))
	p.circuits = append(p.circuits, c)
	//
	return id
}
