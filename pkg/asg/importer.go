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
	"strings"

	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/util"
	"github.com/quill-zk/quill/pkg/util/source"
)

// Loader maps a package path to its parsed program, according to some
// external package-layout convention (e.g. a directory tree, or a registry).
// The loader is consulted once per package; results are cached across the
// whole build.
type Loader interface {
	// Load locates and parses the package identified by a given path.
	Load(path util.Path) (*source.File, *ast.Program, error)
}

// importState tracks progress of the depth-first resolution of one package.
type importState uint

const (
	// unvisited packages have not been seen yet.  Absence from the state
	// table means the same thing; the constant exists for documentation.
	unvisited importState = iota
	// inProgress packages are somewhere on the current resolution path.
	// Encountering one again is exactly a circular import.
	inProgress
	// done packages are fully resolved and cached.
	done
)

// resolver performs recursive import resolution with cycle detection, caching
// each package's semantic graph so that diamond imports resolve the package
// once.
type resolver struct {
	loader Loader
	// Visited-state table keyed by canonical package path.
	states map[string]importState
	// Current resolution path, for reporting the cycle.
	chain []string
	// Fully resolved packages.
	cache map[string]*Program
}

func newResolver(loader Loader) *resolver {
	return &resolver{
		loader: loader,
		states: make(map[string]importState),
		cache:  make(map[string]*Program),
	}
}

// open marks a package as being on the current resolution path.
func (r *resolver) open(path string) {
	r.states[path] = inProgress
	r.chain = append(r.chain, path)
}

// close marks a package as fully resolved.
func (r *resolver) close(path string) {
	r.states[path] = done
	r.chain = r.chain[:len(r.chain)-1]
}

// resolveImports resolves every import of a program and splices the selected
// public symbols into its root scope.  Cycles are reported before any
// constraint could be emitted, since imports resolve during graph
// construction.
func (p *builder) resolveImports(prog *Program, imports []ast.Import) *source.SyntaxError {
	for i := range imports {
		if err := p.resolveImport(prog, &imports[i]); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *builder) resolveImport(prog *Program, imp *ast.Import) *source.SyntaxError {
	var (
		r   = p.resolver
		key = imp.Path.String()
	)
	//
	switch r.states[key] {
	case inProgress:
		chain := strings.Join(append(r.chain, key), " -> ")
		return p.syntaxError(imp.Source, source.CircularImport,
			"package \"%s\" transitively imports itself (%s)", key, chain)
	case done:
		return p.splice(prog, r.cache[key], imp)
	}
	//
	srcfile, program, err := r.loader.Load(imp.Path)
	if err != nil {
		return p.syntaxError(imp.Source, source.UndefinedReference,
			"unknown package \"%s\": %s", key, err.Error())
	}
	//
	r.open(key)
	// Build the imported package's graph into the shared arena.
	sub, serr := p.buildProgram(srcfile, program)
	if serr != nil {
		return serr
	}
	//
	r.close(key)
	r.cache[key] = sub
	//
	return p.splice(prog, sub, imp)
}

// splice merges selected (or starred) public symbols of an imported package
// into the importing program's root scope, applying any aliases.  Only
// symbols the package itself declares are public; symbols it imported are
// not re-exported.
func (p *builder) splice(prog *Program, sub *Program, imp *ast.Import) *source.SyntaxError {
	if imp.Star {
		// Star import: every public symbol under its own name, in
		// declaration order for determinism.
		for _, cid := range sub.Circuits {
			name := p.arena.Circuit(cid).Name
			//
			if err := p.spliceBinding(prog, name, BindCircuit(cid), imp.Span()); err != nil {
				return err
			}
		}
		//
		for _, fid := range sub.Functions {
			name := p.arena.Function(fid).Name
			// The entry point of a package is not importable.
			if name == MainFunction {
				continue
			}
			//
			if err := p.spliceBinding(prog, name, BindFunction(fid), imp.Span()); err != nil {
				return err
			}
		}
		//
		return nil
	}
	//
	for i := range imp.Symbols {
		sym := &imp.Symbols[i]
		//
		binding, ok := p.publicSymbol(sub, sym.Name)
		if !ok {
			return p.syntaxError(sym.Source, source.UndefinedReference,
				"package \"%s\" has no symbol \"%s\"", imp.Path.String(), sym.Name)
		}
		//
		name := sym.Alias.UnwrapOr(sym.Name)
		//
		if err := p.spliceBinding(prog, name, binding, sym.Source); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *builder) spliceBinding(prog *Program, name string, binding Binding,
	span source.Span) *source.SyntaxError {
	//
	if !p.arena.Declare(prog.Root, name, binding) {
		return p.syntaxError(span, source.DuplicateImport,
			"imported symbol \"%s\" collides with an existing definition", name)
	}
	//
	return nil
}

// publicSymbol looks up a symbol among those a package itself declares.
func (p *builder) publicSymbol(sub *Program, name string) (Binding, bool) {
	for _, cid := range sub.Circuits {
		if p.arena.Circuit(cid).Name == name {
			return BindCircuit(cid), true
		}
	}
	//
	for _, fid := range sub.Functions {
		if fn := p.arena.Function(fid); fn.Name == name && name != MainFunction {
			return BindFunction(fid), true
		}
	}
	//
	return Binding{}, false
}
