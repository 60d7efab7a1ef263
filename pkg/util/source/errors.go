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
package source

import "fmt"

// ErrorCode classifies the kinds of error which can arise during semantic
// analysis or constraint synthesis.  Every reportable error carries exactly one
// code.  Internal invariant violations (e.g. an operand variant mismatch after
// type checking succeeded) are not represented here, since they indicate a
// compiler defect and result in a panic instead.
type ErrorCode uint

const (
	// UndefinedReference indicates a variable, function or circuit name which
	// could not be resolved in any enclosing scope.
	UndefinedReference ErrorCode = iota
	// TypeMismatch indicates an expression whose concrete type failed to unify
	// with the expected type propagated from its context.
	TypeMismatch
	// DuplicateDefinition indicates a name declared twice within the same
	// (not an ancestor) scope.
	DuplicateDefinition
	// DuplicateImport indicates an imported symbol which collides with an
	// existing binding in the importing scope.
	DuplicateImport
	// ImmutableAssignment indicates an assignment to a binding which was not
	// declared mutable.  Reported at the assigning statement.
	ImmutableAssignment
	// MissingReturn indicates a non-void function body which does not return
	// on every control path.
	MissingReturn
	// NonConstantLoopBound indicates a loop bound which could not be evaluated
	// at circuit-construction time.
	NonConstantLoopBound
	// RecursiveCallError indicates a (directly or mutually) recursive function
	// call, which cannot be inlined into a loop-free circuit.
	RecursiveCallError
	// DivisionByZero indicates division by a compile-time constant zero.
	DivisionByZero
	// NoInverse indicates field or group division by a provable additive
	// identity.
	NoInverse
	// CircularImport indicates a package which transitively imports itself.
	CircularImport
	// CircuitTooLarge indicates the synthesised circuit exceeded the
	// configured wire or constraint ceiling.
	CircuitTooLarge
	// UnsupportedOperation indicates an operation which cannot be lowered into
	// constraints (e.g. exponentiation by a non-constant exponent).
	UnsupportedOperation
)

func (c ErrorCode) String() string {
	switch c {
	case UndefinedReference:
		return "undefined reference"
	case TypeMismatch:
		return "type mismatch"
	case DuplicateDefinition:
		return "duplicate definition"
	case DuplicateImport:
		return "duplicate import"
	case ImmutableAssignment:
		return "immutable assignment"
	case MissingReturn:
		return "missing return"
	case NonConstantLoopBound:
		return "non-constant loop bound"
	case RecursiveCallError:
		return "recursive call"
	case DivisionByZero:
		return "division by zero"
	case NoInverse:
		return "no inverse"
	case CircularImport:
		return "circular import"
	case CircuitTooLarge:
		return "circuit too large"
	case UnsupportedOperation:
		return "unsupported operation"
	}
	//
	panic("unknown error code")
}

// SyntaxError is a structured error which retains the index into the original
// string where an error occurred, along with an error code and message.
type SyntaxError struct {
	srcfile *File
	// Byte index into string being parsed where error arose.
	span Span
	// Classification of this error.
	code ErrorCode
	// Error message being reported
	msg string
}

// SourceFile returns the underlying source file that this syntax error covers.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Code returns the classification of this error.
func (p *SyntaxError) Code() ErrorCode {
	return p.code
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d:%s: %s", p.span.Start(), p.span.End(), p.code, p.Message())
}

// FirstEnclosingLine determines the first line in this source file to which
// this error is associated. Observe that, if the position is beyond the bounds
// of the source file then the last physical line is returned.  Also, the
// returned line is not guaranteed to enclose the entire span, as these can
// cross multiple lines.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}
