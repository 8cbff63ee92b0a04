// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package partition

import (
	"iter"
	"slices"
	"strings"
)

// OperandSet is an immutable set of transferring operands, sorted by ID.
type OperandSet struct {
	ops []*Operand
}

// NewOperandSet returns a set containing the given operands.
func NewOperandSet(ops ...*Operand) OperandSet {
	var s OperandSet
	for _, op := range ops {
		s = s.Insert(op)
	}

	return s
}

func cmpOperand(a, b *Operand) int { return a.ID - b.ID }

// Insert returns a set that additionally contains op.
func (s OperandSet) Insert(op *Operand) OperandSet {
	i, found := slices.BinarySearchFunc(s.ops, op, cmpOperand)
	if found {
		return s
	}

	return OperandSet{ops: slices.Insert(slices.Clip(s.ops), i, op)}
}

// Union returns the union of both sets.
func (s OperandSet) Union(o OperandSet) OperandSet {
	switch {
	case len(o.ops) == 0:
		return s

	case len(s.ops) == 0:
		return o
	}

	ops := make([]*Operand, 0, len(s.ops)+len(o.ops))

	i, j := 0, 0
	for i < len(s.ops) && j < len(o.ops) {
		switch c := cmpOperand(s.ops[i], o.ops[j]); {
		case c < 0:
			ops = append(ops, s.ops[i])
			i++

		case c > 0:
			ops = append(ops, o.ops[j])
			j++

		default:
			ops = append(ops, s.ops[i])
			i++
			j++
		}
	}

	ops = append(ops, s.ops[i:]...)
	ops = append(ops, o.ops[j:]...)

	return OperandSet{ops: ops}
}

// Contains reports whether op is in the set.
func (s OperandSet) Contains(op *Operand) bool {
	_, found := slices.BinarySearchFunc(s.ops, op, cmpOperand)

	return found
}

// Len returns the number of operands in the set.
func (s OperandSet) Len() int { return len(s.ops) }

// All iterates over the operands in ID order.
func (s OperandSet) All() iter.Seq[*Operand] { return slices.Values(s.ops) }

// Equal reports whether both sets contain the same operands.
func (s OperandSet) Equal(o OperandSet) bool { return slices.Equal(s.ops, o.ops) }

func (s OperandSet) String() string {
	var b strings.Builder

	b.WriteByte('{')

	for i, op := range s.ops {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(op.String())
	}

	b.WriteByte('}')

	return b.String()
}
