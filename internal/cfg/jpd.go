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

package cfg

// JointPostDominanceSetComputer completes sets of blocks to joint post-dominating sets.
//
// The scratch state is reused between calls. It is reset by [JointPostDominanceSetComputer.Clear],
// which every query calls on entry.
type JointPostDominanceSetComputer struct {
	deadEnds *DeadEndBlocks

	// Reusable walk state to avoid allocations on each query
	worklist []int
	visited  []bool
	initial  []bool
	leaking  []bool
	loop     bool
}

// NewJointPostDominanceSetComputer creates a computer ignoring the dead ends in d.
func NewJointPostDominanceSetComputer(d *DeadEndBlocks) *JointPostDominanceSetComputer {
	n := d.Graph().Len()

	return &JointPostDominanceSetComputer{
		deadEnds: d,
		worklist: make([]int, 0, n),
		visited:  make([]bool, n),
		initial:  make([]bool, n),
		leaking:  make([]bool, n),
	}
}

// Clear resets the scratch state.
func (c *JointPostDominanceSetComputer) Clear() {
	c.worklist = c.worklist[:0]
	clear(c.visited)
	clear(c.initial)
	clear(c.leaking)
	c.loop = false
}

// FindJointPostDominatingSet completes partial to a set of blocks that jointly
// post-dominates dominating, ignoring paths through dead-end blocks.
//
// The blocks in partial must be dominated by dominating. The walk proceeds
// backwards from partial up to dominating, every successor of a walked block
// that is never walked leaks: a path through it reaches an exit while
// avoiding partial. These blocks are passed to result in ascending order.
//
// When the walk reaches a block of partial from a block outside of partial,
// partial spans a loop back edge and cannot be completed. Then the leaking
// blocks, exiting the loop, are passed to loopBlock and result is not called.
func (c *JointPostDominanceSetComputer) FindJointPostDominatingSet(
	dominating int, partial []int, result, loopBlock func(block int),
) {
	c.Clear()

	if len(partial) == 1 && partial[0] == dominating {
		return
	}

	g := c.deadEnds.Graph()

	for _, b := range partial {
		if c.visited[b] {
			continue
		}

		c.visited[b] = true
		c.initial[b] = true
		c.worklist = append(c.worklist, b)
	}

	for len(c.worklist) > 0 {
		b := c.worklist[len(c.worklist)-1]
		c.worklist = c.worklist[:len(c.worklist)-1]

		c.leaking[b] = false

		if !c.initial[b] {
			for _, succ := range g.Succs(b) {
				if c.visited[succ] || c.deadEnds.IsDeadEnd(succ) {
					continue
				}

				c.leaking[succ] = true
			}
		}

		if b == dominating {
			continue
		}

		for _, pred := range g.Preds(b) {
			if c.initial[pred] {
				if !c.initial[b] {
					c.loop = true
				}

				continue
			}

			if c.visited[pred] {
				continue
			}

			c.visited[pred] = true
			c.worklist = append(c.worklist, pred)
		}
	}

	report := result
	if c.loop {
		report = loopBlock
	}

	for b, leaks := range c.leaking {
		if leaks && !c.visited[b] {
			report(b)
		}
	}
}
