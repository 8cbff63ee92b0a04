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

// Package evaluator applies partition operations to a [partition.Partition].
package evaluator

import (
	"context"
	"log/slog"

	"fillmore-labs.com/transferguard/internal/isolation"
	"fillmore-labs.com/transferguard/internal/partition"
)

// Evaluator applies [partition.Op]s to a partition, reporting violations to its [Policy].
//
// Instantiate with a concrete policy type for static dispatch,
// or with [Policy] itself for dynamic dispatch.
type Evaluator[P Policy] struct {
	p      *partition.Partition
	policy P
	states *TransferStates
}

// New creates an [Evaluator] mutating p.
func New[P Policy](p *partition.Partition, policy P, states *TransferStates) *Evaluator[P] {
	if states == nil {
		states = NewTransferStates()
	}

	return &Evaluator[P]{p: p, policy: policy, states: states}
}

// Partition returns the partition being mutated.
func (ev *Evaluator[P]) Partition() *partition.Partition { return ev.p }

// Reset switches to mutating p.
func (ev *Evaluator[P]) Reset(p *partition.Partition) { ev.p = p }

// States returns the transferring operand states.
func (ev *Evaluator[P]) States() *TransferStates { return ev.states }

// ApplyAll applies ops in order.
func (ev *Evaluator[P]) ApplyAll(ops []partition.Op) {
	for _, op := range ops {
		ev.Apply(op)
	}
}

// Apply applies a single operation.
func (ev *Evaluator[P]) Apply(op partition.Op) {
	if ev.policy.ShouldEmitVerboseLogging() {
		before := ev.p.String()
		defer func() {
			ev.policy.Logger().LogAttrs(context.Background(), slog.LevelDebug, "Applied partition op",
				slog.String("op", op.String()),
				slog.String("before", before),
				slog.String("after", ev.p.String()))
		}()
	}

	switch op.Kind() {
	case partition.Assign:
		ev.p.PushSequenceBoundary(partition.BoundaryAssign, op.Instruction())

		target, source := op.Arg(0), op.Arg(1)
		ev.require(op, source)
		ev.p.AssignElement(target, source)

	case partition.AssignFresh:
		ev.p.PushSequenceBoundary(partition.BoundaryAssignFresh, op.Instruction())
		ev.p.TrackNewElement(op.Arg(0))

	case partition.Merge:
		ev.p.PushSequenceBoundary(partition.BoundaryMerge, op.Instruction())

		a, b := op.Arg(0), op.Arg(1)
		ev.require(op, a)

		if !ev.p.InSameRegion(a, b) {
			ev.require(op, b)
		}

		ev.p.Merge(a, b)

	case partition.Transfer:
		ev.transfer(op)

	case partition.UndoTransfer:
		ev.p.UndoTransfer(op.Arg(0))

	case partition.Require:
		ev.require(op, op.Arg(0))
	}
}

// transfer marks the region of the argument transferred, unless it is bound to a domain.
func (ev *Evaluator[P]) transfer(op partition.Op) {
	target, operand := op.Arg(0), op.Operand()

	// An already transferred target is not checked here, lowering emits a require first.
	var (
		info     isolation.Info
		captured bool
	)

	for _, e := range ev.p.RegionElements(target) {
		info = info.Merge(ev.elementIsolation(e))

		if ev.policy.IsClosureCaptured(e, operand) {
			captured = true
		}
	}

	// A transfer within the same domain does not leave the domain.
	if info.HasSameIsolation(ev.policy.InstructionIsolation(op.Instruction())) {
		return
	}

	if !info.IsDisconnected() {
		ev.policy.HandleTransferNonTransferrable(op, target, info)

		return
	}

	ev.states.update(operand, target, info, captured)
	ev.p.MarkTransferred(target, partition.NewOperandSet(operand))
}

func (ev *Evaluator[P]) elementIsolation(e partition.Element) isolation.Info {
	if info := ev.policy.IsolationRegionInfo(e); info.Kind() != isolation.Unknown {
		return info
	}

	switch {
	case ev.policy.IsActorDerived(e):
		return isolation.ActorIsolated("")

	case ev.policy.IsTaskIsolatedDerived(e):
		return isolation.TaskIsolated("")

	default:
		return isolation.DisconnectedInfo()
	}
}

// require reports a use of e by op for every operand that transferred its region.
func (ev *Evaluator[P]) require(op partition.Op, e partition.Element) {
	set, ok := ev.p.Transferred(e)
	if !ok {
		return
	}

	for operand := range set.All() {
		ev.useAfterTransfer(op, e, operand)
	}
}

// useAfterTransfer forwards to the policy, unless squelched.
func (ev *Evaluator[P]) useAfterTransfer(op partition.Op, e partition.Element, transferring *partition.Operand) {
	if ev.policy.ShouldTryToSquelchErrors() {
		use := ev.policy.InstructionIsolation(op.Instruction())
		if use.HasSameIsolation(ev.policy.InstructionIsolation(transferring.User)) {
			return
		}
	}

	ev.policy.HandleLocalUseAfterTransfer(op, e, transferring)
}
