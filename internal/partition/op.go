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
	"fmt"
	"strings"
)

// OpKind is the kind of a partition operation.
type OpKind uint8

//go:generate go tool stringer -type OpKind -linecomment
const (
	// Assign puts the first argument into the region of the second.
	Assign OpKind = iota // assign

	// AssignFresh tracks the argument in a new singleton region.
	AssignFresh // assign_fresh

	// Merge unions the regions of both arguments.
	Merge // merge

	// Transfer hands the region of the argument over to another goroutine.
	Transfer // transfer

	// UndoTransfer reacquires the region of the argument.
	UndoTransfer // undo_transfer

	// Require marks a use of the argument.
	Require // require
)

// Op is a single partition operation.
type Op struct {
	kind    OpKind
	args    [2]Element
	nargs   uint8
	instr   Instruction
	operand *Operand
}

// NewAssign returns an [Assign] operation.
func NewAssign(target, source Element, instr Instruction) Op {
	return Op{kind: Assign, args: [2]Element{target, source}, nargs: 2, instr: instr}
}

// NewAssignFresh returns an [AssignFresh] operation.
func NewAssignFresh(target Element, instr Instruction) Op {
	return Op{kind: AssignFresh, args: [2]Element{target}, nargs: 1, instr: instr}
}

// NewMerge returns a [Merge] operation.
func NewMerge(a, b Element, instr Instruction) Op {
	return Op{kind: Merge, args: [2]Element{a, b}, nargs: 2, instr: instr}
}

// NewTransfer returns a [Transfer] operation of target through the given operand.
func NewTransfer(target Element, operand *Operand) Op {
	if operand == nil {
		panic("transfer without operand")
	}

	return Op{kind: Transfer, args: [2]Element{target}, nargs: 1, instr: operand.User, operand: operand}
}

// NewUndoTransfer returns an [UndoTransfer] operation.
func NewUndoTransfer(target Element, instr Instruction) Op {
	return Op{kind: UndoTransfer, args: [2]Element{target}, nargs: 1, instr: instr}
}

// NewRequire returns a [Require] operation.
func NewRequire(target Element, instr Instruction) Op {
	return Op{kind: Require, args: [2]Element{target}, nargs: 1, instr: instr}
}

// Kind returns the operation kind.
func (o Op) Kind() OpKind { return o.kind }

// Args returns the element arguments.
func (o Op) Args() []Element { return o.args[:o.nargs] }

// Arg returns the i-th element argument.
func (o Op) Arg(i int) Element {
	if i >= int(o.nargs) {
		panic(fmt.Sprintf("%s has no argument %d", o.kind, i))
	}

	return o.args[i]
}

// Instruction returns the instruction this operation was created from.
func (o Op) Instruction() Instruction { return o.instr }

// Operand returns the transferring operand of a [Transfer] operation.
func (o Op) Operand() *Operand {
	if o.kind != Transfer {
		panic(fmt.Sprintf("operand of %s", o.kind))
	}

	return o.operand
}

func (o Op) String() string {
	var b strings.Builder

	b.WriteString(o.kind.String())

	for i, e := range o.Args() {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteByte(' ')
		b.WriteString(e.String())
	}

	if o.instr != nil {
		b.WriteString("  ; ")
		b.WriteString(o.instr.String())
	}

	return b.String()
}
