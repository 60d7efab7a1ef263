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
	"github.com/quill-zk/quill/pkg/util"
)

// BindingKind distinguishes the forms a name can be bound to within a scope.
type BindingKind uint

const (
	// VariableBinding binds a name to a variable.
	VariableBinding BindingKind = iota
	// FunctionBinding binds a name to a (top-level) function.
	FunctionBinding
	// CircuitBinding binds a name to a circuit declaration.
	CircuitBinding
)

func (k BindingKind) String() string {
	switch k {
	case VariableBinding:
		return "variable"
	case FunctionBinding:
		return "function"
	case CircuitBinding:
		return "circuit"
	}
	//
	panic("unknown binding kind")
}

// Binding associates a name with a declaration.  Exactly one of the handle
// fields is meaningful, as determined by the kind.
type Binding struct {
	// Kind of this binding.
	Kind BindingKind
	// Bound variable (VariableBinding only).
	Variable VariableId
	// Bound function (FunctionBinding only).
	Function FunctionId
	// Bound circuit (CircuitBinding only).
	Circuit CircuitId
}

// BindVariable constructs a variable binding.
func BindVariable(id VariableId) Binding {
	return Binding{Kind: VariableBinding, Variable: id}
}

// BindFunction constructs a function binding.
func BindFunction(id FunctionId) Binding {
	return Binding{Kind: FunctionBinding, Function: id}
}

// BindCircuit constructs a circuit binding.
func BindCircuit(id CircuitId) Binding {
	return Binding{Kind: CircuitBinding, Circuit: id}
}

// scopeData is the arena representation of a single scope.  The parent link
// is an optional handle rather than a pointer, keeping the arena free of
// ownership cycles.
type scopeData struct {
	// Enclosing scope, if any.
	parent util.Option[ScopeId]
	// Bindings declared directly within this scope.
	names map[string]Binding
	// Circuit whose functions are in scope via the Self keyword, if any.
	selfType util.Option[CircuitId]
}

// NewScope creates a fresh scope with an optional parent, returning its
// handle.  Scopes behave as a stack during construction: one is created on
// entering a function, block or loop-iteration body, and abandoned on exit.
func (p *Arena) NewScope(parent util.Option[ScopeId]) ScopeId {
	id := ScopeId(len(p.scopes))
	selfType := util.None[CircuitId]()
	// Inherit the enclosing self type, such that Self remains meaningful in
	// nested blocks of a circuit function.
	if parent.HasValue() {
		selfType = p.scopes[parent.Unwrap()].selfType
	}
	//
	p.scopes = append(p.scopes, scopeData{parent, make(map[string]Binding), selfType})
	//
	return id
}

// FixSelfType records the circuit to which the Self keyword resolves within a
// given scope (and, via inheritance, its children).
func (p *Arena) FixSelfType(scope ScopeId, circuit CircuitId) {
	p.scopes[scope].selfType = util.Some(circuit)
}

// SelfType returns the circuit to which the Self keyword resolves within a
// given scope, if any.
func (p *Arena) SelfType(scope ScopeId) util.Option[CircuitId] {
	return p.scopes[scope].selfType
}

// Declare binds a name within a given scope.  This fails (returning false)
// if the name is already bound in that exact scope; shadowing a binding of an
// ancestor scope is permitted.
func (p *Arena) Declare(scope ScopeId, name string, binding Binding) bool {
	data := &p.scopes[scope]
	//
	if _, ok := data.names[name]; ok {
		return false
	}
	//
	data.names[name] = binding
	//
	return true
}

// Resolve looks up a name starting from a given scope and walking the parent
// chain.  The second result indicates whether a binding was found; reporting
// the failure (as an undefined variable, function or circuit) is left to the
// caller, which knows what kind of binding it expected.
func (p *Arena) Resolve(scope ScopeId, name string) (Binding, bool) {
	for {
		data := &p.scopes[scope]
		//
		if binding, ok := data.names[name]; ok {
			return binding, true
		} else if data.parent.IsEmpty() {
			return Binding{}, false
		}
		//
		scope = data.parent.Unwrap()
	}
}

// ResolveLocal looks up a name in a given scope only (i.e. without walking
// the parent chain).
func (p *Arena) ResolveLocal(scope ScopeId, name string) (Binding, bool) {
	binding, ok := p.scopes[scope].names[name]
	return binding, ok
}

// BindingsOf returns the names bound directly within a given scope.  Order is
// unspecified; callers requiring determinism must sort.
func (p *Arena) BindingsOf(scope ScopeId) map[string]Binding {
	return p.scopes[scope].names
}
