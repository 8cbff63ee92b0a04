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

// DeadEndBlocks determines the blocks from which no path reaches a function exit.
//
// The set is computed on first use and cached.
type DeadEndBlocks struct {
	g *Graph

	// Lazy evaluation: reverse reachability is computed on the first query
	reachesExit []bool
}

// NewDeadEndBlocks creates a [DeadEndBlocks] for g.
func NewDeadEndBlocks(g *Graph) *DeadEndBlocks {
	return &DeadEndBlocks{g: g}
}

// Graph returns the analyzed graph.
func (d *DeadEndBlocks) Graph() *Graph { return d.g }

// IsDeadEnd reports whether no path from b reaches an exit.
func (d *DeadEndBlocks) IsDeadEnd(b int) bool {
	if d.reachesExit == nil {
		d.compute()
	}

	return !d.reachesExit[b]
}

// IsEmpty reports whether every block reaches an exit.
func (d *DeadEndBlocks) IsEmpty() bool {
	for b := range d.g.Len() {
		if d.IsDeadEnd(b) {
			return false
		}
	}

	return true
}

// compute propagates backwards from the exits using BFS.
func (d *DeadEndBlocks) compute() {
	n := d.g.Len()
	d.reachesExit = make([]bool, n)
	queue := make([]int, 0, n)

	for b := range n {
		if d.g.IsExit(b) {
			d.reachesExit[b] = true
			queue = append(queue, b)
		}
	}

	for qHead := 0; qHead < len(queue); qHead++ {
		for _, pred := range d.g.Preds(queue[qHead]) {
			if d.reachesExit[pred] {
				continue
			}
			d.reachesExit[pred] = true

			queue = append(queue, pred)
		}
	}
}
