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

// Package synth lowers a resolved semantic graph into a rank-1 constraint
// system against concrete inputs.  The synthesizer performs a single
// in-order walk of the entry point's body: conditionals lower both branches
// and merge environments through conditional selects, bounded loops unroll
// with the index bound to successive constants, and calls inline the callee
// body with parameters bound to argument wires.  Witness values are
// evaluated eagerly alongside wire allocation, which is what makes console
// statements and constant folding possible during the walk itself.
package synth

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/quill-zk/quill/pkg/asg"
	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/r1cs"
	"github.com/quill-zk/quill/pkg/synth/gadgets"
	"github.com/quill-zk/quill/pkg/util/source"
)

// Result packages the artifacts of a successful synthesis.
type Result struct {
	// Synthesised constraint system, with its witness.
	System *r1cs.System
	// Console output recorded during synthesis.
	Trace *Trace
	// Lowered return value of the entry point, or nil for a void entry
	// point.  Output wires are public.
	Output gadgets.Value
}

// Trace records console output lines in synthesis order, with argument
// values interpolated from the witness.
type Trace struct {
	Lines []TraceLine
}

// TraceLine is a single rendered console statement.
type TraceLine struct {
	// Kind of console statement which produced this line.
	Kind ast.ConsoleKind
	// Rendered message.
	Message string
}

// Build synthesises the entry point of a program into a constraint system,
// binding its parameters to the given concrete inputs.  The ceiling bounds
// wires plus constraints (zero meaning the default); exceeding it reports
// CircuitTooLarge.
func Build(srcfile *source.File, program *asg.Program, inputs *Inputs,
	ceiling uint) (*Result, *source.SyntaxError) {
	//
	if program.Main.IsEmpty() {
		return nil, srcfile.SyntaxError(source.NewSpan(0, 0), source.UndefinedReference,
			"program declares no main function")
	}
	//
	p := &synthesizer{
		sys:      r1cs.NewSystem(ceiling),
		arena:    program.Arena(),
		srcfile:  srcfile,
		trace:    &Trace{},
		inlining: make(map[asg.FunctionId]bool),
	}
	//
	main := program.Main.Unwrap()
	fn := p.arena.Function(main)
	//
	log.Debugf("synthesising entry point \"%s\" (%d parameters)", fn.Name, len(fn.Parameters))
	//
	frame := newFrame()
	// Bind entry-point parameters to freshly allocated input wires.
	if err := p.bindParameters(frame, fn, inputs); err != nil {
		return nil, err
	}
	//
	p.inlining[main] = true
	//
	if err := p.lowerStatements(frame, fn.Body); err != nil {
		return nil, err
	}
	//
	if frame.result != nil {
		if err := p.bindOutput(frame.result, fn.Source); err != nil {
			return nil, err
		}
	}
	//
	log.Debugf("synthesised %d wires, %d constraints",
		p.sys.NumWires(), p.sys.NumConstraints())
	//
	return &Result{p.sys, p.trace, frame.result}, nil
}

// synthesizer carries the mutable state of one synthesis run.
type synthesizer struct {
	sys     *r1cs.System
	arena   *asg.Arena
	srcfile *source.File
	trace   *Trace
	// Functions currently being inlined somewhere up the walk.  Re-entering
	// one is exactly a recursive call.
	inlining map[asg.FunctionId]bool
}

// frame is the lowering state of one function body: the environment mapping
// variables to their current lowered values, the condition under which this
// code executes, and the accumulated return value.
type frame struct {
	env map[asg.VariableId]gadgets.Value
	// Variables bound since this frame was opened, for branch merging.
	dirty map[asg.VariableId]bool
	// Condition under which this code path executes.  Assertions are guarded
	// by it; a branch never taken at witness time still synthesises, but
	// cannot render its constraints unsatisfiable.
	guard gadgets.Bool
	// Condition under which the function has already returned.
	returned gadgets.Bool
	// Accumulated return value (nil until the first return statement).
	result gadgets.Value
	// Indicates the return state changed since this frame was opened.
	resultDirty bool
	// Indicates this frame's statements ended in an unconditional return.
	terminated bool
}

func newFrame() *frame {
	return &frame{
		env:      make(map[asg.VariableId]gadgets.Value),
		dirty:    make(map[asg.VariableId]bool),
		guard:    gadgets.NewBool(true),
		returned: gadgets.NewBool(false),
	}
}

// bind records a variable's (new) lowered value.
func (p *frame) bind(vid asg.VariableId, value gadgets.Value) {
	p.env[vid] = value
	p.dirty[vid] = true
}

// lookup returns a variable's current lowered value.
func (p *frame) lookup(vid asg.VariableId) gadgets.Value {
	value, ok := p.env[vid]
	if !ok {
		panic("unbound variable")
	}
	//
	return value
}

// liveGuard is the condition under which the current statement actually
// executes: this path is taken and the function has not yet returned.
// Assertions and divisors bind under it, so code following a conditional
// return cannot constrain witnesses which took the return.
func (p *frame) liveGuard(sys *r1cs.System) (gadgets.Bool, error) {
	return gadgets.And(sys, p.guard, gadgets.Not(p.returned))
}

// branch derives the frame for one arm of a conditional.
func (p *frame) branch(sys *r1cs.System, cond gadgets.Bool) (*frame, error) {
	guard, err := gadgets.And(sys, p.guard, cond)
	if err != nil {
		return nil, err
	}
	//
	env := make(map[asg.VariableId]gadgets.Value, len(p.env))
	for k, v := range p.env {
		env[k] = v
	}
	//
	return &frame{
		env:      env,
		dirty:    make(map[asg.VariableId]bool),
		guard:    guard,
		returned: p.returned,
		result:   p.result,
	}, nil
}

// syntaxError constructs a syntax error against the source file being
// synthesised.
func (p *synthesizer) syntaxError(span source.Span, code source.ErrorCode,
	msg string, args ...any) *source.SyntaxError {
	//
	return p.srcfile.SyntaxError(span, code, fmt.Sprintf(msg, args...))
}

// gadgetError maps an error escaping a gadget onto the reporting taxonomy at
// a given span.
func (p *synthesizer) gadgetError(span source.Span, err error) *source.SyntaxError {
	switch {
	case errors.Is(err, r1cs.ErrTooLarge):
		return p.syntaxError(span, source.CircuitTooLarge,
			"circuit exceeds the configured ceiling")
	case errors.Is(err, gadgets.ErrDivisionByZero):
		return p.syntaxError(span, source.DivisionByZero, "division by zero")
	case errors.Is(err, gadgets.ErrNoInverse):
		return p.syntaxError(span, source.NoInverse, "division by zero has no inverse")
	}
	//
	return p.syntaxError(span, source.UnsupportedOperation, "%s", err.Error())
}
