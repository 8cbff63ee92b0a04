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

package lower

import (
	"go/token"
	"go/types"
	"slices"

	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/transferguard/internal/partition"
)

// instruction appends the operations of instr.
func (l *lowerer) instruction(instr ssa.Instruction) {
	switch instr := instr.(type) {
	case *ssa.Alloc, *ssa.MakeMap, *ssa.MakeSlice, *ssa.MakeChan:
		l.fresh(instr.(ssa.Value), instr)

	case *ssa.MakeClosure:
		l.derive(instr, instr, instr.Bindings...)

	case *ssa.Range, *ssa.Phi:
		// Ranges alias their operand, phis are assigned at the end of their predecessors.

	case *ssa.FieldAddr, *ssa.Field, *ssa.IndexAddr, *ssa.Slice,
		*ssa.Convert, *ssa.ChangeType, *ssa.MultiConvert, *ssa.SliceToArrayPointer,
		*ssa.ChangeInterface, *ssa.MakeInterface, *ssa.TypeAssert, *ssa.Extract:
		l.derive(instr.(ssa.Value), instr, operands(instr)...)

	case *ssa.Index:
		l.load(instr, instr, instr.X)

	case *ssa.Lookup:
		l.load(instr, instr, instr.X)

	case *ssa.Next:
		l.load(instr, instr, instr.Iter)

	case *ssa.UnOp:
		switch instr.Op {
		case token.ARROW:
			l.fresh(instr, instr)

		case token.MUL:
			if _, ok := instr.X.(*ssa.Global); ok {
				// Package state stays package state.
				l.derive(instr, instr, instr.X)
			} else {
				l.load(instr, instr, instr.X)
			}

		default:
			l.derive(instr, instr, instr.X)
		}

	case *ssa.BinOp:
		// Comparing references does not access memory.

	case *ssa.Store:
		l.combine(instr, l.elements(instr.Addr, instr.Val))

	case *ssa.MapUpdate:
		l.combine(instr, l.elements(instr.Map, instr.Key, instr.Value))

	case *ssa.Send:
		l.send(instr, instr.X)

	case *ssa.Select:
		for _, st := range instr.States {
			if st.Dir == types.SendOnly {
				l.send(instr, st.Send)
			}
		}

		l.fresh(instr, instr)

	case *ssa.Go:
		l.transfer(instr, spawnedValues(instr.Common()))

	case *ssa.Call:
		l.call(instr)

	case *ssa.Defer:
		l.require(instr, l.elements(callValues(instr.Common())...))

	case *ssa.Return:
		l.require(instr, l.elements(instr.Results...))

	case *ssa.If, *ssa.Jump, *ssa.DebugRef, *ssa.RunDefers:

	default:
		l.require(instr, l.elements(operands(instr)...))
	}
}

func (l *lowerer) call(instr *ssa.Call) {
	c := instr.Common()

	switch {
	case l.calls(c, l.syncs):
		l.reacquire(instr)

	case l.calls(c, l.spawns):
		l.transfer(instr, c.Args[1:])

	default:
		l.derive(instr, instr, callValues(c)...)
	}
}

// callValues returns the arguments of c, with the callee when it is a closure.
func callValues(c *ssa.CallCommon) []ssa.Value {
	if c.IsInvoke() {
		return c.Args
	}

	return append(slices.Clip(c.Args), c.Value)
}

func (l *lowerer) emit(op partition.Op) {
	l.ops = append(l.ops, op)
}

// fresh gives a tracked v a new region.
func (l *lowerer) fresh(v ssa.Value, instr ssa.Instruction) {
	if e, ok := l.element(v); ok {
		l.emit(partition.NewAssignFresh(e, instr))
	}
}

// derive assigns result the region of sources.
// An untracked result combines the sources instead.
func (l *lowerer) derive(result ssa.Value, instr ssa.Instruction, sources ...ssa.Value) {
	srcs := l.elements(sources...)

	r, ok := l.element(result)
	switch {
	case !ok:
		l.combine(instr, srcs)

	case len(srcs) == 0:
		l.emit(partition.NewAssignFresh(r, instr))

	default:
		l.emit(partition.NewAssign(r, srcs[0], instr))

		for _, s := range srcs[1:] {
			l.emit(partition.NewMerge(r, s, instr))
		}
	}
}

// load reads result from the memory of source.
// References loaded from memory start in a new region.
func (l *lowerer) load(result ssa.Value, instr ssa.Instruction, source ssa.Value) {
	l.require(instr, l.elements(source))
	l.fresh(result, instr)
}

// combine merges the regions of elems, requiring a single one.
func (l *lowerer) combine(instr ssa.Instruction, elems []partition.Element) {
	switch len(elems) {
	case 0:

	case 1:
		l.emit(partition.NewRequire(elems[0], instr))

	default:
		for _, e := range elems[1:] {
			l.emit(partition.NewMerge(elems[0], e, instr))
		}
	}
}

func (l *lowerer) require(instr ssa.Instruction, elems []partition.Element) {
	for _, e := range elems {
		l.emit(partition.NewRequire(e, instr))
	}
}

func (l *lowerer) send(instr ssa.Instruction, v ssa.Value) {
	if !l.cfg.TransferOnSend {
		l.require(instr, l.elements(v))

		return
	}

	l.transfer(instr, []ssa.Value{v})
}

// transfer moves the regions of values to another goroutine.
//
// The values are required or merged into a single region first, so the transfer is a single
// operation and transferring an already transferred region is a use.
func (l *lowerer) transfer(instr ssa.Instruction, values []ssa.Value) {
	var (
		elems    []partition.Element
		index    int
		captured []partition.Element
	)

	for i, v := range values {
		e, ok := l.element(v)
		if !ok {
			continue
		}

		if len(elems) == 0 {
			index = i
		}

		if !slices.Contains(elems, e) {
			elems = append(elems, e)
		}

		if mc, ok := v.(*ssa.MakeClosure); ok {
			captured = append(captured, l.elements(mc.Bindings...)...)
		}
	}

	if len(elems) == 0 {
		return
	}

	l.combine(instr, elems)

	op := &partition.Operand{ID: len(l.f.operands), User: instr, Index: index}
	l.f.operands = append(l.f.operands, op)
	l.f.sites[op] = Site{Block: l.block, Index: len(l.ops)}

	if len(captured) > 0 {
		l.f.captured[op] = captured
	}

	l.emit(partition.NewTransfer(elems[0], op))
}

// reacquire undoes the transfers of goroutines that are known to have started before instr.
func (l *lowerer) reacquire(instr ssa.Instruction) {
	var elems []partition.Element

	for _, s := range l.spawned {
		if !l.dominates(s, instr) {
			continue
		}

		for _, e := range l.elements(s.values...) {
			if !slices.Contains(elems, e) {
				elems = append(elems, e)
			}
		}
	}

	for _, e := range elems {
		l.emit(partition.NewUndoTransfer(e, instr))
	}
}

// phiEdges assigns the phis of the successors of b their incoming value from b.
//
// Edges reading another phi of the same block are assigned first, so they see the previous value.
func (l *lowerer) phiEdges(b *ssa.BasicBlock) {
	for i, s := range b.Succs {
		if slices.Contains(b.Succs[:i], s) {
			continue
		}

		var late []partition.Op

		for _, instr := range s.Instrs {
			phi, ok := instr.(*ssa.Phi)
			if !ok {
				break
			}

			target, ok := l.element(phi)
			if !ok {
				continue
			}

			edge := phi.Edges[slices.Index(s.Preds, b)]

			op := partition.NewAssignFresh(target, phi)
			if src, ok := l.element(edge); ok {
				op = partition.NewAssign(target, src, phi)
			}

			if p, ok := edge.(*ssa.Phi); ok && p.Block() == s {
				l.emit(op)
			} else {
				late = append(late, op)
			}
		}

		l.ops = append(l.ops, late...)
	}
}

// operands returns the non-nil operands of instr.
func operands(instr ssa.Instruction) []ssa.Value {
	var values []ssa.Value

	for _, r := range instr.Operands(nil) {
		if *r != nil {
			values = append(values, *r)
		}
	}

	return values
}
