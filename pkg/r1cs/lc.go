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
package r1cs

import (
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// Term is a single coefficient-wire product within a linear combination.
type Term struct {
	// Coefficient applied to the wire's value.
	Coefficient fr.Element
	// Wire whose value is being scaled.
	Wire Wire
}

// LinearCombination is a sum of coefficient-wire products.  A constant is
// expressed as a coefficient on the distinguished one-wire.  Linear
// combinations are value types: operations return fresh combinations rather
// than mutating their operands.
type LinearCombination []Term

// NewConstant constructs a linear combination evaluating to a given constant.
func NewConstant(value fr.Element) LinearCombination {
	if value.IsZero() {
		return LinearCombination{}
	}
	//
	return LinearCombination{{value, OneWire}}
}

// NewConstant64 constructs a linear combination evaluating to a given small
// constant.
func NewConstant64(value uint64) LinearCombination {
	return NewConstant(fr.NewElement(value))
}

// NewTerm constructs a linear combination comprising a single wire.
func NewTerm(wire Wire) LinearCombination {
	var one fr.Element
	one.SetOne()
	//
	return LinearCombination{{one, wire}}
}

// Add returns the sum of this combination and another, merging terms over the
// same wire.
func (lc LinearCombination) Add(other LinearCombination) LinearCombination {
	result := make(LinearCombination, len(lc), len(lc)+len(other))
	copy(result, lc)
	//
outer:
	for _, t := range other {
		for i := range result {
			if result[i].Wire == t.Wire {
				result[i].Coefficient.Add(&result[i].Coefficient, &t.Coefficient)
				continue outer
			}
		}
		//
		result = append(result, t)
	}
	//
	return result.compact()
}

// Sub returns the difference of this combination and another.
func (lc LinearCombination) Sub(other LinearCombination) LinearCombination {
	return lc.Add(other.Negate())
}

// Negate returns this combination with every coefficient negated.
func (lc LinearCombination) Negate() LinearCombination {
	result := make(LinearCombination, len(lc))
	//
	for i, t := range lc {
		result[i].Wire = t.Wire
		result[i].Coefficient.Neg(&t.Coefficient)
	}
	//
	return result
}

// Scale returns this combination with every coefficient multiplied by a
// given constant.
func (lc LinearCombination) Scale(factor fr.Element) LinearCombination {
	if factor.IsZero() {
		return LinearCombination{}
	}
	//
	result := make(LinearCombination, len(lc))
	//
	for i, t := range lc {
		result[i].Wire = t.Wire
		result[i].Coefficient.Mul(&t.Coefficient, &factor)
	}
	//
	return result
}

// IsConstant checks whether this combination references only the one-wire,
// returning its constant value if so.
func (lc LinearCombination) IsConstant() (fr.Element, bool) {
	var value fr.Element
	//
	for _, t := range lc {
		if t.Wire != OneWire {
			return value, false
		}
		//
		value.Add(&value, &t.Coefficient)
	}
	//
	return value, true
}

// compact drops zero-coefficient terms.
func (lc LinearCombination) compact() LinearCombination {
	result := lc[:0]
	//
	for _, t := range lc {
		if !t.Coefficient.IsZero() {
			result = append(result, t)
		}
	}
	//
	return result
}

func (lc LinearCombination) String() string {
	if len(lc) == 0 {
		return "0"
	}
	//
	terms := make([]string, len(lc))
	//
	for i, t := range lc {
		if t.Wire == OneWire {
			terms[i] = t.Coefficient.String()
		} else {
			terms[i] = fmt.Sprintf("%s*w%d", t.Coefficient.String(), t.Wire)
		}
	}
	//
	return strings.Join(terms, " + ")
}
