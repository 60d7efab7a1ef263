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

// Package r1cs implements the rank-1 constraint-system sink into which the
// synthesizer emits wires and constraints of the form A·B = C.  The system
// eagerly evaluates a witness as wires are allocated, such that satisfaction
// can be checked (and console output rendered) without a separate solving
// pass.  Wire and constraint counts are bounded by an explicit ceiling:
// since loop unrolling and call inlining make circuit size linear in the
// unrolled program, the sink fails fast rather than exhaust memory.
package r1cs

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// ErrTooLarge is returned when allocating a wire or constraint would exceed
// the configured ceiling.
var ErrTooLarge = errors.New("constraint system exceeds configured ceiling")

// Wire identifies an allocated value slot in the constraint system.
type Wire uint

// OneWire is the distinguished wire holding the constant one.  It exists in
// every system and is public by construction.
const OneWire Wire = 0

// Visibility classifies how a wire's value is provided.
type Visibility uint

const (
	// PublicInput wires carry statement values shared with the verifier.
	PublicInput Visibility = iota
	// PrivateInput wires carry witness values known only to the prover.
	PrivateInput
	// Internal wires carry values computed by gadgets.
	Internal
)

func (v Visibility) String() string {
	switch v {
	case PublicInput:
		return "public"
	case PrivateInput:
		return "private"
	case Internal:
		return "internal"
	}
	//
	panic("unknown visibility")
}

// Constraint is a single rank-1 constraint A·B = C over linear combinations
// of wires.
type Constraint struct {
	// Operands of this constraint.
	A, B, C LinearCombination
	// Label identifying the gadget which emitted this constraint, for
	// debugging only.
	Label string
}

// DefaultCeiling bounds wires plus constraints when no explicit ceiling is
// configured.
const DefaultCeiling = 1 << 22

// System is an in-memory rank-1 constraint system under construction,
// together with its eagerly-evaluated witness.
type System struct {
	// Witness value of each allocated wire, indexed by wire.
	witness []fr.Element
	// Visibility of each allocated wire, indexed by wire.
	visibility []Visibility
	// Name of each allocated wire (empty for internal wires).
	names []string
	// Constraints in emission order.
	constraints []Constraint
	// Ceiling on wires plus constraints.
	ceiling uint
}

// NewSystem constructs an empty system with a given ceiling on wires plus
// constraints (zero meaning the default ceiling).  The one-wire is allocated
// immediately.
func NewSystem(ceiling uint) *System {
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	//
	var one fr.Element
	one.SetOne()
	//
	return &System{
		witness:    []fr.Element{one},
		visibility: []Visibility{PublicInput},
		names:      []string{"one"},
		ceiling:    ceiling,
	}
}

// AllocInput allocates a named input wire with a given visibility and
// witness value.
func (p *System) AllocInput(name string, visibility Visibility, value fr.Element) (Wire, error) {
	return p.alloc(name, visibility, value)
}

// AllocInternal allocates an unnamed internal wire with a given witness
// value.
func (p *System) AllocInternal(value fr.Element) (Wire, error) {
	return p.alloc("", Internal, value)
}

func (p *System) alloc(name string, visibility Visibility, value fr.Element) (Wire, error) {
	if p.size() >= p.ceiling {
		return 0, ErrTooLarge
	}
	//
	wire := Wire(len(p.witness))
	p.witness = append(p.witness, value)
	p.visibility = append(p.visibility, visibility)
	p.names = append(p.names, name)
	//
	return wire, nil
}

// Enforce emits the constraint A·B = C.  Emission order affects only gate
// count and trace ordering, never satisfiability.
func (p *System) Enforce(a, b, c LinearCombination, label string) error {
	if p.size() >= p.ceiling {
		return ErrTooLarge
	}
	//
	p.constraints = append(p.constraints, Constraint{a, b, c, label})
	//
	return nil
}

func (p *System) size() uint {
	return uint(len(p.witness) + len(p.constraints))
}

// Eval evaluates a linear combination against the current witness.
func (p *System) Eval(lc LinearCombination) fr.Element {
	var (
		acc  fr.Element
		term fr.Element
	)
	//
	for _, t := range lc {
		term.Mul(&t.Coefficient, &p.witness[t.Wire])
		acc.Add(&acc, &term)
	}
	//
	return acc
}

// Witness returns the witness value of a given wire.
func (p *System) Witness(wire Wire) fr.Element {
	return p.witness[wire]
}

// NumWires returns the number of allocated wires (including the one-wire).
func (p *System) NumWires() uint {
	return uint(len(p.witness))
}

// NumConstraints returns the number of emitted constraints.
func (p *System) NumConstraints() uint {
	return uint(len(p.constraints))
}

// Constraints returns the emitted constraints in emission order.
func (p *System) Constraints() []Constraint {
	return p.constraints
}

// PublicInputs returns name and witness value of every public input wire, in
// allocation order.
func (p *System) PublicInputs() []NamedValue {
	return p.inputs(PublicInput)
}

// PrivateInputs returns name and witness value of every private input wire,
// in allocation order.
func (p *System) PrivateInputs() []NamedValue {
	return p.inputs(PrivateInput)
}

// NamedValue pairs an input wire's name with its witness value.
type NamedValue struct {
	Name  string
	Value fr.Element
}

func (p *System) inputs(visibility Visibility) []NamedValue {
	var values []NamedValue
	//
	for i := 1; i < len(p.witness); i++ {
		if p.visibility[i] == visibility {
			values = append(values, NamedValue{p.names[i], p.witness[i]})
		}
	}
	//
	return values
}

// Verify checks every constraint against the current witness, returning an
// error describing the first violated constraint (if any).  A violation
// indicates the witness cannot yield a valid proof; it is not a synthesis
// error.
func (p *System) Verify() error {
	for i, c := range p.constraints {
		var (
			a  = p.Eval(c.A)
			b  = p.Eval(c.B)
			cv = p.Eval(c.C)
			ab fr.Element
		)
		//
		ab.Mul(&a, &b)
		//
		if !ab.Equal(&cv) {
			return fmt.Errorf("constraint %d (%s) violated: %s * %s != %s",
				i, c.Label, a.String(), b.String(), cv.String())
		}
	}
	//
	return nil
}

// IsSatisfied checks every constraint against the current witness.
func (p *System) IsSatisfied() bool {
	return p.Verify() == nil
}
