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

// Package report turns converged partitions into diagnostics.
package report

import (
	"cmp"
	"context"
	"fmt"
	"go/token"
	"runtime/trace"
	"slices"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/transferguard/internal/dataflow"
	"fillmore-labs.com/transferguard/internal/evaluator"
	"fillmore-labs.com/transferguard/internal/isolation"
	"fillmore-labs.com/transferguard/internal/lower"
	"fillmore-labs.com/transferguard/internal/partition"
)

// Reporter receives diagnostics, usually [analysis.Pass.Report].
type Reporter func(analysis.Diagnostic)

// Transfers replays every reachable block of fn from its converged entry partition
// and reports uses after transfer and transfers of non-transferable values.
func Transfers(ctx context.Context, report Reporter, fn *lower.Function, res *dataflow.Result,
	states *evaluator.TransferStates, base evaluator.BasePolicy,
) {
	defer trace.StartRegion(ctx, "ReportTransfers").End()

	c := &collector{
		Policy: lower.Policy{BasePolicy: base, Fn: fn},
		states: states,
		uses:   make(map[*partition.Operand][]use),
	}

	ev := evaluator.New(fn.Entry, c, states)

	for _, b := range res.Order {
		entry := res.Entry[b]
		if entry == nil {
			continue
		}

		c.current = entry.Clone()
		c.block = b
		ev.Reset(c.current)

		for i, op := range fn.Blocks[b] {
			c.index = i
			ev.Apply(op)
		}
	}

	var diagnostics []analysis.Diagnostic

	reported := make(map[partition.Instruction]struct{})

	for _, op := range fn.Operands() {
		site, ok := fn.Site(op)
		if !ok {
			continue
		}

		st, _ := states.Get(op)

		for _, u := range requireLiveness(fn, site, c.uses[op]) {
			instr := u.op.Instruction()
			if _, ok := reported[instr]; ok {
				continue
			}

			reported[instr] = struct{}{}

			diagnostics = append(diagnostics, useDiagnostic(fn, u, op, st))
		}
	}

	for _, n := range c.nonTransferable {
		instr := n.op.Instruction()
		if _, ok := reported[instr]; ok {
			continue
		}

		reported[instr] = struct{}{}

		diagnostics = append(diagnostics, analysis.Diagnostic{
			Pos: position(fn.Fn, instr),
			Message: fmt.Sprintf("value derived from %s %s transferred to another goroutine (tg:ntr)",
				n.info.Instance(), fn.Describe(n.bound)),
		})
	}

	slices.SortStableFunc(diagnostics, func(a, b analysis.Diagnostic) int { return cmp.Compare(a.Pos, b.Pos) })

	for _, d := range diagnostics {
		report(d)
	}
}

func useDiagnostic(fn *lower.Function, u use, op *partition.Operand, st evaluator.TransferState) analysis.Diagnostic {
	transferred := "transferred here"
	if st.ClosureCaptured {
		transferred = "captured by a goroutine here"
	}

	related := []analysis.RelatedInformation{{Pos: position(fn.Fn, op.User), Message: transferred}}

	if _, closure := u.merge.(*ssa.MakeClosure); u.merge != nil && !(closure && st.ClosureCaptured) {
		if pos := u.merge.Pos(); pos.IsValid() {
			related = append(related, analysis.RelatedInformation{Pos: pos, Message: "merged with the transferred value here"})
		}
	}

	return analysis.Diagnostic{
		Pos:     position(fn.Fn, u.op.Instruction()),
		Message: fmt.Sprintf("%s used after transfer to another goroutine (tg:uat)", fn.Describe(u.element)),
		Related: related,
	}
}

// position returns the source position of instr, falling back to the closest preceding instruction.
func position(fn *ssa.Function, instr partition.Instruction) token.Pos {
	if pos := instr.Pos(); pos.IsValid() {
		return pos
	}

	if si, ok := instr.(ssa.Instruction); ok {
		if b := si.Block(); b != nil {
			if i := slices.Index(b.Instrs, si); i >= 0 {
				for _, prev := range slices.Backward(b.Instrs[:i]) {
					if pos := prev.Pos(); pos.IsValid() {
						return pos
					}
				}
			}
		}
	}

	return fn.Pos()
}

// use is a use after transfer found while replaying block.
type use struct {
	block, index int
	op           partition.Op
	element      partition.Element
	merge        partition.Instruction
}

type nonTransferable struct {
	op    partition.Op
	bound partition.Element
	info  isolation.Info
}

// collector is the [evaluator.Policy] of the diagnostic replay.
type collector struct {
	lower.Policy

	states  *evaluator.TransferStates
	current *partition.Partition

	block, index int

	uses            map[*partition.Operand][]use
	nonTransferable []nonTransferable
}

// HandleLocalUseAfterTransfer implements [evaluator.Policy].
func (c *collector) HandleLocalUseAfterTransfer(op partition.Op, e partition.Element, transferring *partition.Operand) {
	// Phi assignments only propagate regions.
	if _, ok := op.Instruction().(*ssa.Phi); ok {
		return
	}

	u := use{block: c.block, index: c.index, op: op, element: e}

	if st, ok := c.states.Get(transferring); ok && st.Element != e && c.current.IsTracked(st.Element) {
		if mp, ok := partition.FindMergePoint(c.current, e, st.Element); ok {
			u.merge = mp.Instruction
		}
	}

	c.uses[transferring] = append(c.uses[transferring], u)
}

// HandleTransferNonTransferrable implements [evaluator.Policy].
func (c *collector) HandleTransferNonTransferrable(op partition.Op, e partition.Element, info isolation.Info) {
	bound := e

	for _, r := range c.current.RegionElements(e) {
		if c.Fn.Isolation(r).Kind() != isolation.Unknown {
			bound = r

			break
		}
	}

	c.nonTransferable = append(c.nonTransferable, nonTransferable{op: op, bound: bound, info: info})
}
