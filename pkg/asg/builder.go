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

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// MainFunction is the name of the program entry point.
const MainFunction = "main"

// SelfVariable is the name of the implicit receiver of an instance function.
const SelfVariable = "self"

// SelfKeyword is the name under which the enclosing circuit type is in scope
// within a circuit function.
const SelfKeyword = "Self"

// BuildProgram converts a parsed program into a completed semantic graph,
// resolving imports through the given loader.  Construction is fail-fast:
// the first error aborts the build.
func BuildProgram(srcfile *source.File, program *ast.Program, loader Loader) (*Program, *source.SyntaxError) {
	builder := &builder{
		arena:    NewArena(),
		resolver: newResolver(loader),
	}
	// Guard the root program against transitive self-import.
	builder.resolver.open(program.Name)
	//
	return builder.buildProgram(srcfile, program)
}

// builder holds the state threaded through construction of one semantic
// graph, including all imported packages (which share the arena).
type builder struct {
	arena *Arena
	// Source file currently being built, for error construction.
	srcfile *source.File
	// Import resolution state.
	resolver *resolver
	// Circuit enclosing the function currently being built, if any.
	enclosing util.Option[CircuitId]
}

// syntaxError constructs a syntax error against the current source file.
func (p *builder) syntaxError(span source.Span, code source.ErrorCode, format string,
	args ...any) *source.SyntaxError {
	return p.srcfile.SyntaxError(span, code, fmt.Sprintf(format, args...))
}

// buildProgram builds the semantic graph for one program into the shared
// arena.  Imported programs are built recursively through the resolver before
// the importing graph is finalised.
func (p *builder) buildProgram(srcfile *source.File, program *ast.Program) (*Program, *source.SyntaxError) {
	var (
		prevfile = p.srcfile
		root     = p.arena.NewScope(util.None[ScopeId]())
		prog     = &Program{Name: program.Name, arena: p.arena, Root: root, Main: util.None[FunctionId]()}
	)
	//
	p.srcfile = srcfile
	// Restore the enclosing file on exit, since imports recurse through here.
	defer func() { p.srcfile = prevfile }()
	// Splice imported symbols into the root scope first, such that
	// declarations of this program may refer to them.
	if err := p.resolveImports(prog, program.Imports); err != nil {
		return nil, err
	}
	// Declare circuit names ahead of resolving any signature, since circuits
	// may refer to each other regardless of declaration order.
	if err := p.declareCircuits(prog, program.Circuits); err != nil {
		return nil, err
	}
	// Resolve circuit fields and all function signatures.
	if err := p.declareSignatures(prog, program); err != nil {
		return nil, err
	}
	// Finally, build every function body.
	if err := p.buildBodies(prog, program); err != nil {
		return nil, err
	}
	//
	return prog, nil
}

// declareCircuits interns a shell for every circuit declared by the program,
// binding its name in the root scope.
func (p *builder) declareCircuits(prog *Program, circuits []ast.Circuit) *source.SyntaxError {
	for i := range circuits {
		decl := &circuits[i]
		cid := p.arena.InternCircuit(Circuit{
			Name:      decl.Name,
			Functions: make(map[string]FunctionId),
			Source:    decl.Source,
		})
		//
		if !p.arena.Declare(prog.Root, decl.Name, BindCircuit(cid)) {
			return p.syntaxError(decl.Source, source.DuplicateDefinition,
				"circuit \"%s\" already defined", decl.Name)
		}
		//
		prog.Circuits = append(prog.Circuits, cid)
	}
	//
	return nil
}

// declareSignatures resolves the fields of every circuit along with the
// signature of every (top-level and circuit) function, interning functions
// with empty bodies.  Bodies are built afterwards, such that any function may
// call any other regardless of declaration order.
func (p *builder) declareSignatures(prog *Program, program *ast.Program) *source.SyntaxError {
	// Circuit fields first, as function signatures may mention circuit types.
	for i := range program.Circuits {
		var (
			decl = &program.Circuits[i]
			cid  = prog.Circuits[i]
		)
		//
		for _, field := range decl.Fields {
			ftype, err := p.resolveType(prog.Root, field.Type)
			if err != nil {
				return err
			}
			//
			circ := p.arena.Circuit(cid)
			//
			if circ.FieldIndex(field.Name).HasValue() {
				return p.syntaxError(field.Source, source.DuplicateDefinition,
					"field \"%s\" already defined", field.Name)
			}
			//
			circ.Fields = append(circ.Fields, Field{field.Name, ftype})
		}
	}
	// Top-level function signatures.
	for i := range program.Functions {
		decl := &program.Functions[i]
		//
		fid, err := p.declareFunction(prog, decl, util.None[CircuitId]())
		if err != nil {
			return err
		}
		//
		if !p.arena.Declare(prog.Root, decl.Name, BindFunction(fid)) {
			return p.syntaxError(decl.Source, source.DuplicateDefinition,
				"function \"%s\" already defined", decl.Name)
		}
		//
		prog.Functions = append(prog.Functions, fid)
		//
		if decl.Name == MainFunction {
			prog.Main = util.Some(fid)
		}
	}
	// Circuit function signatures.
	for i := range program.Circuits {
		var (
			decl = &program.Circuits[i]
			cid  = prog.Circuits[i]
		)
		//
		for j := range decl.Functions {
			fdecl := &decl.Functions[j]
			//
			fid, err := p.declareFunction(prog, fdecl, util.Some(cid))
			if err != nil {
				return err
			}
			//
			circ := p.arena.Circuit(cid)
			//
			if _, ok := circ.Functions[fdecl.Name]; ok {
				return p.syntaxError(fdecl.Source, source.DuplicateDefinition,
					"function \"%s\" already defined", fdecl.Name)
			}
			//
			circ.Functions[fdecl.Name] = fid
		}
	}
	//
	return nil
}

// declareFunction resolves a function signature, interning the function with
// an empty body and a fresh scope holding its parameters.
func (p *builder) declareFunction(prog *Program, decl *ast.Function,
	circuit util.Option[CircuitId]) (FunctionId, *source.SyntaxError) {
	//
	scope := p.arena.NewScope(util.Some(prog.Root))
	receiver := util.None[VariableId]()
	// Fix the Self keyword inside circuit functions.
	if circuit.HasValue() {
		p.arena.FixSelfType(scope, circuit.Unwrap())
		// Instance functions receive an implicit immutable "self" binding;
		// static functions have no receiver binding at all.
		if !decl.Static {
			selfVar := p.arena.InternVariable(Variable{
				Name:   SelfVariable,
				Type:   CircuitType{circuit.Unwrap(), p.arena.Circuit(circuit.Unwrap()).Name},
				Scope:  scope,
				Source: decl.Source,
			})
			p.arena.Declare(scope, SelfVariable, BindVariable(selfVar))
			receiver = util.Some(selfVar)
		}
	}
	//
	params := make([]VariableId, len(decl.Parameters))
	//
	for i := range decl.Parameters {
		param := &decl.Parameters[i]
		//
		ptype, err := p.resolveType(scope, param.Type)
		if err != nil {
			return 0, err
		}
		//
		vid := p.arena.InternVariable(Variable{
			Name:       param.Name,
			Type:       ptype,
			Mutable:    param.Mutable,
			Visibility: param.Visibility,
			Scope:      scope,
			Source:     param.Source,
		})
		//
		if !p.arena.Declare(scope, param.Name, BindVariable(vid)) {
			return 0, p.syntaxError(param.Source, source.DuplicateDefinition,
				"parameter \"%s\" already defined", param.Name)
		}
		//
		params[i] = vid
	}
	//
	var ret Type
	//
	if decl.Return != nil {
		var err *source.SyntaxError
		//
		if ret, err = p.resolveType(scope, decl.Return); err != nil {
			return 0, err
		}
	}
	//
	return p.arena.InternFunction(Function{
		Name:       decl.Name,
		Circuit:    circuit,
		Static:     decl.Static,
		Receiver:   receiver,
		Parameters: params,
		Return:     ret,
		Scope:      scope,
		Source:     decl.Source,
	}), nil
}

// buildBodies builds the body of every declared function, and validates that
// every non-void body returns on all control paths.
func (p *builder) buildBodies(prog *Program, program *ast.Program) *source.SyntaxError {
	for i := range program.Functions {
		if err := p.buildBody(prog.Functions[i], &program.Functions[i].Body); err != nil {
			return err
		}
	}
	//
	for i := range program.Circuits {
		decl := &program.Circuits[i]
		//
		for j := range decl.Functions {
			var (
				fdecl = &decl.Functions[j]
				fid   = p.arena.Circuit(prog.Circuits[i]).Functions[fdecl.Name]
			)
			//
			if err := p.buildBody(fid, &fdecl.Body); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

func (p *builder) buildBody(fid FunctionId, body *ast.Block) *source.SyntaxError {
	fn := p.arena.Function(fid)
	p.enclosing = fn.Circuit
	//
	stmts, err := p.buildBlock(fn.Scope, body, fn.Return)
	if err != nil {
		return err
	}
	// Validate the return-path property using the boolean-AND monoid (via
	// ReturnsOnAllPaths) before the body is published into the graph.
	if fn.Return != nil && !ReturnsOnAllPaths(stmts) {
		return p.syntaxError(fn.Source, source.MissingReturn,
			"function \"%s\" does not return on all paths", fn.Name)
	}
	// Re-fetch: building the body may have grown the arena.
	p.arena.Function(fid).Body = stmts
	//
	return nil
}

// resolveType converts a syntactic type annotation into a concrete semantic
// type, resolving named circuit references against the given scope.
func (p *builder) resolveType(scope ScopeId, t ast.Type) (Type, *source.SyntaxError) {
	switch t := t.(type) {
	case *ast.BoolType:
		return BoolType{}, nil
	case *ast.IntType:
		return IntType{t.Width, t.Signed}, nil
	case *ast.FieldType:
		return FieldType{}, nil
	case *ast.GroupType:
		return GroupType{}, nil
	case *ast.ArrayType:
		element, err := p.resolveType(scope, t.Element)
		if err != nil {
			return nil, err
		}
		//
		return ArrayType{element, t.Size}, nil
	case *ast.TupleType:
		elements := make([]Type, len(t.Elements))
		//
		for i, e := range t.Elements {
			element, err := p.resolveType(scope, e)
			if err != nil {
				return nil, err
			}
			//
			elements[i] = element
		}
		//
		return TupleType{elements}, nil
	case *ast.NamedType:
		binding, ok := p.arena.Resolve(scope, t.Name)
		if !ok || binding.Kind != CircuitBinding {
			return nil, p.syntaxError(t.Source, source.UndefinedReference,
				"undefined circuit \"%s\"", t.Name)
		}
		//
		return CircuitType{binding.Circuit, t.Name}, nil
	case *ast.SelfType:
		self := p.arena.SelfType(scope)
		//
		if self.IsEmpty() {
			return nil, p.syntaxError(t.Source, source.UndefinedReference,
				"Self used outside of a circuit")
		}
		//
		return CircuitType{self.Unwrap(), p.arena.Circuit(self.Unwrap()).Name}, nil
	}
	//
	panic("unknown syntactic type")
}
