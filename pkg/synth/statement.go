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
	"math/big"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/quill-zk/quill/pkg/asg"
	"github.com/quill-zk/quill/pkg/ast"
	"github.com/quill-zk/quill/pkg/synth/gadgets"
	"github.com/quill-zk/quill/pkg/util/source"
)

// lowerStatements lowers a statement sequence into the frame.  Statements
// following an unconditional return are dead and skipped.
func (p *synthesizer) lowerStatements(f *frame, stmts []asg.Statement) *source.SyntaxError {
	for _, stmt := range stmts {
		terminated, err := p.lowerStatement(f, stmt)
		if err != nil {
			return err
		} else if terminated {
			f.terminated = true
			break
		}
	}
	//
	return nil
}

func (p *synthesizer) lowerStatement(f *frame, stmt asg.Statement) (bool, *source.SyntaxError) {
	switch s := stmt.(type) {
	case *asg.Definition:
		value, err := p.lowerExpression(f, s.Value)
		if err != nil {
			return false, err
		}
		//
		f.bind(s.Variable, value)
		//
		return false, nil
	case *asg.Assignment:
		return false, p.lowerAssignment(f, s)
	case *asg.Return:
		return true, p.lowerReturn(f, s)
	case *asg.Conditional:
		return p.lowerConditional(f, s)
	case *asg.Iteration:
		return p.lowerIteration(f, s)
	case *asg.Console:
		return false, p.lowerConsole(f, s)
	case *asg.Expr:
		_, err := p.lowerExpression(f, s.Expression)
		return false, err
	}
	//
	panic("unknown statement")
}

func (p *synthesizer) lowerAssignment(f *frame, s *asg.Assignment) *source.SyntaxError {
	value, err := p.lowerExpression(f, s.Value)
	if err != nil {
		return err
	}
	//
	if len(s.Path) > 0 {
		if value, err = p.assignPath(f, f.lookup(s.Variable), s.Path, value, s.Source); err != nil {
			return err
		}
	}
	//
	f.bind(s.Variable, value)
	//
	return nil
}

// assignPath rebuilds the spine of an aggregate along an access path, leaving
// sibling wires shared with the previous value.  A non-constant array index
// rewrites every element through a select against an index-equality flag.
func (p *synthesizer) assignPath(f *frame, container gadgets.Value, path []asg.Access,
	value gadgets.Value, span source.Span) (gadgets.Value, *source.SyntaxError) {
	//
	if len(path) == 0 {
		return value, nil
	}
	//
	step := path[0]
	//
	switch step.Kind {
	case asg.ArrayElement:
		arr := container.(gadgets.Array)
		//
		index, err := p.lowerExpression(f, step.Index)
		if err != nil {
			return nil, err
		}
		//
		idx := index.(gadgets.Int)
		//
		if idx.Const {
			i := idx.Witness.Uint64()
			//
			if !idx.Witness.IsUint64() || i >= uint64(len(arr.Elements)) {
				return nil, p.syntaxError(span, source.TypeMismatch,
					"array index %s out of bounds", idx.String())
			}
			//
			element, serr := p.assignPath(f, arr.Elements[i], path[1:], value, span)
			if serr != nil {
				return nil, serr
			}
			//
			elements := make([]gadgets.Value, len(arr.Elements))
			copy(elements, arr.Elements)
			elements[i] = element
			//
			return gadgets.Array{Element: arr.Element, Elements: elements}, nil
		}
		//
		if err := p.assertIndexInRange(f, idx, uint(len(arr.Elements)), span); err != nil {
			return nil, err
		}
		//
		elements := make([]gadgets.Value, len(arr.Elements))
		//
		for i := range arr.Elements {
			eq, gerr := gadgets.EqInt(p.sys, idx, indexConstant(idx, uint64(i)))
			if gerr != nil {
				return nil, p.gadgetError(span, gerr)
			}
			//
			updated, serr := p.assignPath(f, arr.Elements[i], path[1:], value, span)
			if serr != nil {
				return nil, serr
			}
			//
			selected, gerr := gadgets.Select(p.sys, eq, updated, arr.Elements[i])
			if gerr != nil {
				return nil, p.gadgetError(span, gerr)
			}
			//
			elements[i] = selected
		}
		//
		return gadgets.Array{Element: arr.Element, Elements: elements}, nil
	case asg.TupleElement:
		tup := container.(gadgets.Tuple)
		//
		element, err := p.assignPath(f, tup.Elements[step.Element], path[1:], value, span)
		if err != nil {
			return nil, err
		}
		//
		elements := make([]gadgets.Value, len(tup.Elements))
		copy(elements, tup.Elements)
		elements[step.Element] = element
		//
		return gadgets.Tuple{Elements: elements}, nil
	case asg.CircuitMember:
		circ := container.(gadgets.Circuit)
		//
		field, err := p.assignPath(f, circ.Fields[step.Element], path[1:], value, span)
		if err != nil {
			return nil, err
		}
		//
		fields := make([]gadgets.Value, len(circ.Fields))
		copy(fields, circ.Fields)
		fields[step.Element] = field
		//
		return gadgets.Circuit{CircuitType: circ.CircuitType, Fields: fields}, nil
	}
	//
	panic("unknown access kind")
}

// lowerReturn folds a return value into the frame's accumulated result,
// keeping any earlier return's value on paths which already returned.
func (p *synthesizer) lowerReturn(f *frame, s *asg.Return) *source.SyntaxError {
	if s.Value != nil {
		value, err := p.lowerExpression(f, s.Value)
		if err != nil {
			return err
		}
		//
		if f.result == nil {
			f.result = value
		} else {
			merged, gerr := gadgets.Select(p.sys, f.returned, f.result, value)
			if gerr != nil {
				return p.gadgetError(s.Source, gerr)
			}
			//
			f.result = merged
		}
	}
	//
	returned, gerr := gadgets.Or(p.sys, f.returned, f.guard)
	if gerr != nil {
		return p.gadgetError(s.Source, gerr)
	}
	//
	f.returned = returned
	f.resultDirty = true
	//
	return nil
}

// lowerConditional synthesises both branches against copies of the
// environment and merges every binding either branch touched through a
// conditional select.
func (p *synthesizer) lowerConditional(f *frame, s *asg.Conditional) (bool, *source.SyntaxError) {
	condValue, err := p.lowerExpression(f, s.Condition)
	if err != nil {
		return false, err
	}
	//
	cond := condValue.(gadgets.Bool)
	//
	thenFrame, gerr := f.branch(p.sys, cond)
	if gerr != nil {
		return false, p.gadgetError(s.Source, gerr)
	}
	//
	if err := p.lowerStatements(thenFrame, s.Then); err != nil {
		return false, err
	}
	//
	elseFrame, gerr := f.branch(p.sys, gadgets.Not(cond))
	if gerr != nil {
		return false, p.gadgetError(s.Source, gerr)
	}
	//
	if err := p.lowerStatements(elseFrame, s.Else); err != nil {
		return false, err
	}
	// Merge bindings either branch reassigned.
	for vid := range union(thenFrame.dirty, elseFrame.dirty) {
		if _, ok := f.env[vid]; !ok {
			// Declared within the branch, hence out of scope here.
			continue
		}
		//
		merged, gerr := gadgets.Select(p.sys, cond, thenFrame.env[vid], elseFrame.env[vid])
		if gerr != nil {
			return false, p.gadgetError(s.Source, gerr)
		}
		//
		f.bind(vid, merged)
	}
	// Merge return state, if either branch returned.
	if thenFrame.resultDirty || elseFrame.resultDirty {
		if err := p.mergeReturns(f, cond, thenFrame, elseFrame, s.Source); err != nil {
			return false, err
		}
	}
	// Terminated only when both branches unconditionally returned.
	return thenFrame.terminated && elseFrame.terminated, nil
}

func (p *synthesizer) mergeReturns(f *frame, cond gadgets.Bool,
	thenFrame, elseFrame *frame, span source.Span) *source.SyntaxError {
	//
	returned, gerr := gadgets.Select(p.sys, cond, thenFrame.returned, elseFrame.returned)
	if gerr != nil {
		return p.gadgetError(span, gerr)
	}
	//
	f.returned = returned.(gadgets.Bool)
	f.resultDirty = true
	// A branch which never returned contributes a placeholder; its guard is
	// provably false on that path.
	thenResult, elseResult := thenFrame.result, elseFrame.result
	//
	if thenResult == nil {
		thenResult = elseResult
	} else if elseResult == nil {
		elseResult = thenResult
	}
	//
	if thenResult == nil {
		return nil
	}
	//
	result, gerr := gadgets.Select(p.sys, cond, thenResult, elseResult)
	if gerr != nil {
		return p.gadgetError(span, gerr)
	}
	//
	f.result = result
	//
	return nil
}

// lowerIteration unrolls a bounded loop, binding the index variable to each
// constant of the half-open range in turn.
func (p *synthesizer) lowerIteration(f *frame, s *asg.Iteration) (bool, *source.SyntaxError) {
	start, err := p.lowerConstantBound(f, s.Start)
	if err != nil {
		return false, err
	}
	//
	stop, err := p.lowerConstantBound(f, s.Stop)
	if err != nil {
		return false, err
	}
	//
	var (
		ty   = p.arena.Variable(s.Variable).Type.(asg.IntType)
		from = signedBig(start)
		to   = signedBig(stop)
		one  = big.NewInt(1)
	)
	//
	for v := from; v.Cmp(to) < 0; v = new(big.Int).Add(v, one) {
		f.bind(s.Variable, gadgets.NewInt(ty.Width, ty.Signed, patternOf(v, ty.Width)))
		//
		for _, stmt := range s.Body {
			terminated, err := p.lowerStatement(f, stmt)
			if err != nil {
				return false, err
			} else if terminated {
				// A return cuts the unrolling short: later iterations are
				// dead code.
				return true, nil
			}
		}
	}
	//
	return false, nil
}

// lowerConstantBound lowers a loop bound, which must fold to a compile-time
// constant.
func (p *synthesizer) lowerConstantBound(f *frame, bound asg.Expression) (gadgets.Int, *source.SyntaxError) {
	value, err := p.lowerExpression(f, bound)
	if err != nil {
		return gadgets.Int{}, err
	}
	//
	i := value.(gadgets.Int)
	//
	if !i.Const {
		return gadgets.Int{}, p.syntaxError(bound.Span(), source.NonConstantLoopBound,
			"loop bound must be a compile-time constant")
	}
	//
	return i, nil
}

// lowerConsole lowers an assert_eq into a guarded equality constraint, and
// renders the remaining kinds into the trace (and the log) with witness
// values interpolated.  A console statement on a path not live at witness
// time (branch untaken, or already returned) emits nothing.
func (p *synthesizer) lowerConsole(f *frame, s *asg.Console) *source.SyntaxError {
	args := make([]gadgets.Value, len(s.Arguments))
	//
	for i, arg := range s.Arguments {
		value, err := p.lowerExpression(f, arg)
		if err != nil {
			return err
		}
		//
		args[i] = value
	}
	//
	if s.Kind == ast.ConsoleAssert {
		live, gerr := f.liveGuard(p.sys)
		if gerr != nil {
			return p.gadgetError(s.Source, gerr)
		}
		//
		if err := gadgets.AssertEqualWhen(p.sys, live, args[0], args[1]); err != nil {
			return p.gadgetError(s.Source, err)
		}
		//
		return nil
	}
	//
	if !f.guard.Witness || f.returned.Witness {
		return nil
	}
	//
	message := interpolate(s.Format, args)
	p.trace.Lines = append(p.trace.Lines, TraceLine{s.Kind, message})
	//
	switch s.Kind {
	case ast.ConsoleLog:
		log.Info(message)
	case ast.ConsoleDebug:
		log.Debug(message)
	case ast.ConsoleError:
		log.Error(message)
	}
	//
	return nil
}

// interpolate substitutes successive "{}" placeholders with rendered witness
// values.
func interpolate(format string, args []gadgets.Value) string {
	var sb strings.Builder
	//
	rest := format
	//
	for _, arg := range args {
		i := strings.Index(rest, "{}")
		if i < 0 {
			break
		}
		//
		sb.WriteString(rest[:i])
		sb.WriteString(arg.String())
		rest = rest[i+2:]
	}
	//
	sb.WriteString(rest)
	//
	return sb.String()
}

// signedBig interprets a constant integer under its declared signedness.
func signedBig(i gadgets.Int) *big.Int {
	value := i.Witness.ToBig()
	//
	if i.Signed && value.Bit(int(i.Width-1)) == 1 {
		modulus := new(big.Int).Lsh(big.NewInt(1), i.Width)
		value.Sub(value, modulus)
	}
	//
	return value
}

// union merges two variable sets.
func union(a, b map[asg.VariableId]bool) map[asg.VariableId]bool {
	merged := make(map[asg.VariableId]bool, len(a)+len(b))
	//
	for k := range a {
		merged[k] = true
	}
	//
	for k := range b {
		merged[k] = true
	}
	//
	return merged
}
