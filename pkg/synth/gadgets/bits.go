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
package gadgets

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/holiman/uint256"
	"github.com/quill-zk/quill/pkg/r1cs"
)

// frFromPattern lifts an unsigned bit pattern into the field.
func frFromPattern(pattern *uint256.Int) fr.Element {
	var elem fr.Element
	elem.SetBigInt(pattern.ToBig())
	//
	return elem
}

// frPowerOfTwo returns 2^n as a field element.
func frPowerOfTwo(n uint) fr.Element {
	var elem fr.Element
	elem.SetBigInt(new(big.Int).Lsh(big.NewInt(1), n))
	//
	return elem
}

// patternBit extracts bit i of a pattern.
func patternBit(pattern *uint256.Int, i uint) bool {
	bit := new(uint256.Int).Rsh(pattern, i)
	return bit.And(bit, uint256.NewInt(1)).Uint64() == 1
}

// decomposeBits allocates nbits fresh wires witnessing the binary
// decomposition of value (least significant first), constrains each to be
// boolean and constrains their weighted sum to equal lc.  This is the
// workhorse behind wrapping arithmetic: the low bits of the decomposition are
// exactly the operation's result modulo 2^width.
func decomposeBits(sys *r1cs.System, lc r1cs.LinearCombination, value *uint256.Int,
	nbits uint) ([]r1cs.LinearCombination, error) {
	//
	var (
		one  = r1cs.NewConstant64(1)
		bits = make([]r1cs.LinearCombination, nbits)
		sum  r1cs.LinearCombination
	)
	//
	for i := uint(0); i < nbits; i++ {
		var witness fr.Element
		//
		if patternBit(value, i) {
			witness.SetOne()
		}
		//
		wire, err := sys.AllocInternal(witness)
		if err != nil {
			return nil, err
		}
		//
		bits[i] = r1cs.NewTerm(wire)
		// bit * (bit - 1) == 0
		if err := sys.Enforce(bits[i], bits[i].Sub(one), r1cs.LinearCombination{}, "bit"); err != nil {
			return nil, err
		}
		//
		sum = sum.Add(bits[i].Scale(frPowerOfTwo(i)))
	}
	// sum * 1 == lc
	if err := sys.Enforce(sum, one, lc, "unpack"); err != nil {
		return nil, err
	}
	//
	return bits, nil
}

// sumBits recomposes a contiguous bit range [from, to) into a linear
// combination, weighted from 2^0 upward.
func sumBits(bits []r1cs.LinearCombination, from, to uint) r1cs.LinearCombination {
	var sum r1cs.LinearCombination
	//
	for i := from; i < to; i++ {
		sum = sum.Add(bits[i].Scale(frPowerOfTwo(i - from)))
	}
	//
	return sum
}

// truncate constrains lc (known to fit nbits bits) to its binary
// decomposition and returns the recomposition of its low width bits, i.e. lc
// modulo 2^width.
func truncate(sys *r1cs.System, lc r1cs.LinearCombination, value *uint256.Int,
	nbits, width uint) (r1cs.LinearCombination, error) {
	//
	bits, err := decomposeBits(sys, lc, value, nbits)
	if err != nil {
		return nil, err
	}
	//
	return sumBits(bits, 0, width), nil
}

// allocRanged allocates width fresh bit wires witnessing value and returns
// their weighted sum: a linear combination carrying value and provably below
// 2^width.  Used for nondeterministic witnesses (e.g. quotients) which must
// be range checked.
func allocRanged(sys *r1cs.System, value *uint256.Int, width uint) (r1cs.LinearCombination, error) {
	var (
		one = r1cs.NewConstant64(1)
		sum r1cs.LinearCombination
	)
	//
	for i := uint(0); i < width; i++ {
		var witness fr.Element
		//
		if patternBit(value, i) {
			witness.SetOne()
		}
		//
		wire, err := sys.AllocInternal(witness)
		if err != nil {
			return nil, err
		}
		//
		bit := r1cs.NewTerm(wire)
		//
		if err := sys.Enforce(bit, bit.Sub(one), r1cs.LinearCombination{}, "bit"); err != nil {
			return nil, err
		}
		//
		sum = sum.Add(bit.Scale(frPowerOfTwo(i)))
	}
	//
	return sum, nil
}

// IsZero tests whether a linear combination evaluates to zero, given its
// witness value.  The zero flag r is witnessed directly and pinned by two
// constraints: lc * inv == 1 - r and lc * r == 0, where inv witnesses the
// inverse of the value (or anything, when the value is zero).
func IsZero(sys *r1cs.System, lc r1cs.LinearCombination, value fr.Element) (Bool, error) {
	if constant, ok := lc.IsConstant(); ok {
		return NewBool(constant.IsZero()), nil
	}
	//
	var (
		one     = r1cs.NewConstant64(1)
		isZero  = value.IsZero()
		rVal    fr.Element
		invVal  fr.Element
	)
	//
	if isZero {
		rVal.SetOne()
	} else {
		invVal.Inverse(&value)
	}
	//
	r, err := sys.AllocInternal(rVal)
	if err != nil {
		return Bool{}, err
	}
	//
	inv, err := sys.AllocInternal(invVal)
	if err != nil {
		return Bool{}, err
	}
	//
	rLC := r1cs.NewTerm(r)
	// lc * inv == 1 - r
	if err := sys.Enforce(lc, r1cs.NewTerm(inv), one.Sub(rLC), "iszero"); err != nil {
		return Bool{}, err
	}
	// lc * r == 0
	if err := sys.Enforce(lc, rLC, r1cs.LinearCombination{}, "iszero"); err != nil {
		return Bool{}, err
	}
	//
	return Bool{rLC, isZero, false}, nil
}
