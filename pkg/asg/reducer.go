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

// Monoid is an algebraic fold contract: an identity value together with an
// associative combine operation satisfying combine(x, identity) == x.  Since
// combine is associative, the aggregate of a property over sibling nodes is
// independent of traversal order.  Cross-cutting analyses over the semantic
// graph (e.g. return-path validation, constant-folding aids) are expressed as
// monoid folds rather than bespoke traversals.
type Monoid[T any] struct {
	// Identity value of this monoid.
	Identity T
	// Associative combine operation.
	Combine func(T, T) T
	// Absorbed indicates a value x for which combine(x, y) == x for all y.
	// When an accumulator reaches such a value the fold can stop early,
	// keeping eager analyses short-circuit-safe.  May be nil when no such
	// value exists.
	Absorbed func(T) bool
}

// CombineAll folds a sequence left-to-right from the identity, stopping early
// once the accumulator is absorbing.
func (m Monoid[T]) CombineAll(items ...T) T {
	acc := m.Identity
	//
	for _, item := range items {
		if m.Absorbed != nil && m.Absorbed(acc) {
			return acc
		}
		//
		acc = m.Combine(acc, item)
	}
	//
	return acc
}

// AndMonoid is the boolean-AND monoid (identity true), short-circuiting on
// the first false.
var AndMonoid = Monoid[bool]{
	Identity: true,
	Combine:  func(l bool, r bool) bool { return l && r },
	Absorbed: func(v bool) bool { return !v },
}

// OrMonoid is the boolean-OR monoid (identity false), short-circuiting on
// the first true.
var OrMonoid = Monoid[bool]{
	Identity: false,
	Combine:  func(l bool, r bool) bool { return l || r },
	Absorbed: func(v bool) bool { return v },
}

// SumMonoid is the unsigned-sum monoid, used (for example) to count nodes of
// interest across the graph.
var SumMonoid = Monoid[uint]{
	Identity: 0,
	Combine:  func(l uint, r uint) uint { return l + r },
}

// ReduceExpression performs a post-order fold of a given function over every
// node of an expression tree, combining results with a given monoid.
func ReduceExpression[T any](m Monoid[T], fn func(Expression) T, expr Expression) T {
	acc := m.Identity
	//
	for _, child := range Children(expr) {
		if m.Absorbed != nil && m.Absorbed(acc) {
			return acc
		}
		//
		acc = m.Combine(acc, ReduceExpression(m, fn, child))
	}
	//
	return m.Combine(acc, fn(expr))
}

// ReduceStatements performs a post-order fold of a given function over every
// expression node reachable from a sequence of statements, combining results
// with a given monoid.
func ReduceStatements[T any](m Monoid[T], fn func(Expression) T, stmts []Statement) T {
	acc := m.Identity
	//
	for _, stmt := range stmts {
		if m.Absorbed != nil && m.Absorbed(acc) {
			return acc
		}
		//
		acc = m.Combine(acc, reduceStatement(m, fn, stmt))
	}
	//
	return acc
}

func reduceStatement[T any](m Monoid[T], fn func(Expression) T, stmt Statement) T {
	switch s := stmt.(type) {
	case *Definition:
		return ReduceExpression(m, fn, s.Value)
	case *Assignment:
		acc := m.Identity
		//
		for _, step := range s.Path {
			if step.Kind == ArrayElement {
				acc = m.Combine(acc, ReduceExpression(m, fn, step.Index))
			}
		}
		//
		return m.Combine(acc, ReduceExpression(m, fn, s.Value))
	case *Return:
		if s.Value == nil {
			return m.Identity
		}
		//
		return ReduceExpression(m, fn, s.Value)
	case *Conditional:
		acc := ReduceExpression(m, fn, s.Condition)
		acc = m.Combine(acc, ReduceStatements(m, fn, s.Then))
		//
		return m.Combine(acc, ReduceStatements(m, fn, s.Else))
	case *Iteration:
		acc := ReduceExpression(m, fn, s.Start)
		acc = m.Combine(acc, ReduceExpression(m, fn, s.Stop))
		//
		return m.Combine(acc, ReduceStatements(m, fn, s.Body))
	case *Console:
		acc := m.Identity
		//
		for _, arg := range s.Arguments {
			acc = m.Combine(acc, ReduceExpression(m, fn, arg))
		}
		//
		return acc
	case *Expr:
		return ReduceExpression(m, fn, s.Expression)
	}
	//
	panic("unknown statement")
}

// ReturnsOnAllPaths checks whether a sequence of statements is guaranteed to
// execute a return statement, whichever branches are observed.  A sequence
// returns if any of its statements does; a conditional returns only when
// both branches do (combined with the boolean-AND monoid); a loop never
// guarantees a return, since its range may be empty.
func ReturnsOnAllPaths(stmts []Statement) bool {
	acc := OrMonoid.Identity
	//
	for _, stmt := range stmts {
		if OrMonoid.Absorbed(acc) {
			return acc
		}
		//
		acc = OrMonoid.Combine(acc, statementReturns(stmt))
	}
	//
	return acc
}

func statementReturns(stmt Statement) bool {
	switch s := stmt.(type) {
	case *Return:
		return true
	case *Conditional:
		return AndMonoid.CombineAll(
			ReturnsOnAllPaths(s.Then),
			ReturnsOnAllPaths(s.Else),
		)
	}
	//
	return false
}
