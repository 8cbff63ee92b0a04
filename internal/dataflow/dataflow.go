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

// Package dataflow computes partitions at block boundaries to a fixed point.
package dataflow

import (
	"context"
	"log/slog"
	"runtime/trace"

	"fillmore-labs.com/transferguard/internal/cfg"
	"fillmore-labs.com/transferguard/internal/evaluator"
	"fillmore-labs.com/transferguard/internal/partition"
)

// Result holds the converged partitions at block boundaries.
// Blocks not reachable from the entry have nil partitions.
type Result struct {
	Entry, Exit []*partition.Partition

	// Order lists the reachable blocks in reverse postorder.
	Order []int

	// Iterations is the number of passes over the blocks.
	Iterations int
}

// maxIterations bounds the passes over all blocks.
const maxIterations = 1000

// Solve applies the operations blocks[b] of every block b of g in reverse postorder,
// until no block entry partition changes.
//
// The entry partition of block 0 is entry, the entry partition of every
// other block is the join of the exit partitions of its predecessors.
// The evaluations use policy, which should not report diagnostics.
func Solve[P evaluator.Policy](ctx context.Context, g *cfg.Graph, blocks [][]partition.Op,
	entry *partition.Partition, policy P, states *evaluator.TransferStates,
) *Result {
	defer trace.StartRegion(ctx, "Solve").End()

	n := g.Len()
	r := &Result{
		Entry: make([]*partition.Partition, n),
		Exit:  make([]*partition.Partition, n),
		Order: g.ReversePostorder(),
	}

	ev := evaluator.New(entry, policy, states)

	for changed := true; changed; {
		if r.Iterations == maxIterations {
			policy.Logger().LogAttrs(ctx, slog.LevelWarn, "Dataflow did not converge",
				slog.Int("iterations", r.Iterations))

			break
		}

		r.Iterations++
		changed = false

		for _, b := range r.Order {
			in := joinPredecessors(g, b, entry, r.Exit)

			if old := r.Entry[b]; old != nil && partition.Equals(old, in) {
				continue
			}

			changed = true
			r.Entry[b] = in

			ev.Reset(in.Clone())
			ev.ApplyAll(blocks[b])
			r.Exit[b] = ev.Partition()
		}
	}

	return r
}

// joinPredecessors returns the entry partition of block b.
func joinPredecessors(g *cfg.Graph, b int, entry *partition.Partition, exits []*partition.Partition) *partition.Partition {
	var in *partition.Partition
	if b == 0 {
		in = entry.Clone()
	} else {
		in = partition.New(entry.History().Factory().History())
	}

	for _, pred := range g.Preds(b) {
		if exits[pred] == nil {
			continue
		}

		in = partition.Join(in, exits[pred], pred, b)
	}

	return in
}
