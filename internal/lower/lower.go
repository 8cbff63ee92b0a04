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

// Package lower translates SSA functions into partition operations.
package lower

import (
	"go/types"
	"slices"

	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/transferguard/internal/cfg"
	"fillmore-labs.com/transferguard/internal/isolation"
	"fillmore-labs.com/transferguard/internal/partition"
)

// Function is the partition operation form of an SSA function.
type Function struct {
	// Fn is the translated function.
	Fn *ssa.Function

	// Graph is the control-flow graph, indexed like Fn.Blocks.
	Graph *cfg.Graph

	// Blocks holds the operations of every block.
	Blocks [][]partition.Op

	// Entry is the partition at function entry.
	Entry *partition.Partition

	values    []ssa.Value
	ids       map[ssa.Value]partition.Element
	isolation map[partition.Element]isolation.Info
	captured  map[*partition.Operand][]partition.Element
	sites     map[*partition.Operand]Site
	operands  []*partition.Operand
}

// Site locates an operation.
type Site struct {
	Block, Index int
}

// Value returns the SSA value of e.
func (f *Function) Value(e partition.Element) ssa.Value { return f.values[e] }

// Len returns the number of elements.
func (f *Function) Len() int { return len(f.values) }

// Element returns the element of v.
func (f *Function) Element(v ssa.Value) (partition.Element, bool) {
	if r, ok := v.(*ssa.Range); ok {
		v = r.X
	}

	e, ok := f.ids[v]

	return e, ok
}

// Isolation returns the static isolation of e.
func (f *Function) Isolation(e partition.Element) isolation.Info { return f.isolation[e] }

// IsClosureCaptured reports whether e is bound by the closure transferred through op.
func (f *Function) IsClosureCaptured(e partition.Element, op *partition.Operand) bool {
	return slices.Contains(f.captured[op], e)
}

// Operands returns the transferring operands in creation order.
func (f *Function) Operands() []*partition.Operand { return f.operands }

// Site returns the location of the transfer of op.
func (f *Function) Site(op *partition.Operand) (Site, bool) {
	s, ok := f.sites[op]

	return s, ok
}

// Lower translates fn.
func Lower(fn *ssa.Function, factory *partition.Factory, c Config) *Function {
	l := &lowerer{
		cfg:    c,
		fn:     fn,
		index:  make(map[ssa.Instruction]int),
		syncs:  setOf(c.SyncPoints),
		spawns: setOf(c.TransferringFunctions),
		f: &Function{
			Fn:        fn,
			Graph:     cfg.FromSSA(fn),
			Blocks:    make([][]partition.Op, len(fn.Blocks)),
			ids:       make(map[ssa.Value]partition.Element),
			isolation: make(map[partition.Element]isolation.Info),
			captured:  make(map[*partition.Operand][]partition.Element),
			sites:     make(map[*partition.Operand]Site),
		},
	}

	l.f.Entry = partition.SeparateRegions(factory.History(), l.entryElements(), nil)
	l.collectSpawns()

	for _, b := range fn.Blocks {
		l.block = b.Index
		l.ops = nil

		for i, instr := range b.Instrs {
			l.index[instr] = i
			l.instruction(instr)
		}

		l.phiEdges(b)
		l.f.Blocks[b.Index] = l.ops
	}

	return l.f
}

type lowerer struct {
	cfg Config
	fn  *ssa.Function
	f   *Function

	index map[ssa.Instruction]int

	syncs, spawns map[string]struct{}
	spawned       []spawn

	block int
	ops   []partition.Op
}

// spawn is an instruction starting a goroutine with the values it transfers.
type spawn struct {
	instr  ssa.Instruction
	values []ssa.Value
}

func setOf(names []string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}

	return s
}

// element returns the element of v, allocating a new one on first sight.
func (l *lowerer) element(v ssa.Value) (partition.Element, bool) {
	if r, ok := v.(*ssa.Range); ok {
		v = r.X
	}

	if !l.trackedValue(v) {
		return 0, false
	}

	if e, ok := l.f.ids[v]; ok {
		return e, true
	}

	e := partition.Element(len(l.f.values))
	l.f.ids[v] = e
	l.f.values = append(l.f.values, v)

	if _, ok := v.(*ssa.Global); ok {
		l.f.isolation[e] = isolation.ActorIsolated(PackageState)
	}

	return e, true
}

// elements returns the tracked elements of values, without duplicates.
func (l *lowerer) elements(values ...ssa.Value) []partition.Element {
	var elems []partition.Element

	for _, v := range values {
		if e, ok := l.element(v); ok && !slices.Contains(elems, e) {
			elems = append(elems, e)
		}
	}

	return elems
}

// entryElements returns the parameters, free variables and referenced globals.
func (l *lowerer) entryElements() []partition.Element {
	var values []ssa.Value
	for _, p := range l.fn.Params {
		values = append(values, p)
	}

	for _, fv := range l.fn.FreeVars {
		values = append(values, fv)
	}

	if l.cfg.TrackGlobals {
		var rands []*ssa.Value
		for _, b := range l.fn.Blocks {
			for _, instr := range b.Instrs {
				rands = instr.Operands(rands[:0])
				for _, r := range rands {
					if g, ok := (*r).(*ssa.Global); ok && !slices.Contains(values, ssa.Value(g)) {
						values = append(values, g)
					}
				}
			}
		}
	}

	return l.elements(values...)
}

// collectSpawns finds the goroutines started by fn, so sync points can reacquire them.
func (l *lowerer) collectSpawns() {
	for _, b := range l.fn.Blocks {
		for _, instr := range b.Instrs {
			switch instr := instr.(type) {
			case *ssa.Go:
				l.spawned = append(l.spawned, spawn{instr: instr, values: spawnedValues(instr.Common())})

			case *ssa.Call:
				if l.calls(instr.Common(), l.spawns) {
					l.spawned = append(l.spawned, spawn{instr: instr, values: instr.Call.Args[1:]})
				}
			}
		}
	}
}

// spawnedValues returns the values transferred by a go statement.
func spawnedValues(c *ssa.CallCommon) []ssa.Value {
	values := slices.Clone(c.Args)
	if !c.IsInvoke() {
		values = append(values, c.Value)
	}

	return values
}

// calls reports whether c statically calls a function named in names.
func (l *lowerer) calls(c *ssa.CallCommon, names map[string]struct{}) bool {
	if len(names) == 0 || c.IsInvoke() {
		return false
	}

	callee := c.StaticCallee()
	if callee == nil {
		return false
	}

	if o := callee.Origin(); o != nil {
		callee = o
	}

	fun, ok := callee.Object().(*types.Func)
	if !ok {
		return false
	}

	_, ok = names[fun.FullName()]

	return ok
}

// dominates reports whether spawn s executes before instr on every path.
func (l *lowerer) dominates(s spawn, instr ssa.Instruction) bool {
	sb, ib := s.instr.Block(), instr.Block()
	if sb == ib {
		i, ok := l.index[s.instr]

		return ok && i < l.index[instr]
	}

	return sb.Dominates(ib)
}
