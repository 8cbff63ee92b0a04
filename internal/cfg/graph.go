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

// Package cfg provides control-flow graph utilities over integer block indices.
package cfg

import (
	"golang.org/x/tools/go/ssa"
)

// Graph is a [control-flow graph] with blocks numbered from 0. Block 0 is the entry.
//
// [control-flow graph]: https://en.wikipedia.org/wiki/Control-flow_graph
type Graph struct {
	preds, succs [][]int
	exit         []bool
}

// New creates a [Graph] with n blocks and no edges.
func New(n int) *Graph {
	return &Graph{
		preds: make([][]int, n),
		succs: make([][]int, n),
		exit:  make([]bool, n),
	}
}

// FromSSA creates the [Graph] of an SSA function.
//
// Blocks ending in a return are exits. Blocks ending in a panic or calling a
// function that [CantReturn] have no successors and are dead ends.
// The recover block is not reachable from the entry.
func FromSSA(fn *ssa.Function) *Graph {
	g := New(len(fn.Blocks))

	for _, b := range fn.Blocks {
		if cantReturn(b) {
			continue
		}

		for _, s := range b.Succs {
			g.AddEdge(b.Index, s.Index)
		}

		if n := len(b.Instrs); n > 0 {
			if _, ok := b.Instrs[n-1].(*ssa.Return); ok {
				g.SetExit(b.Index)
			}
		}
	}

	return g
}

// AddEdge adds an edge from -> to.
func (g *Graph) AddEdge(from, to int) {
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// SetExit marks b as a normal function exit.
func (g *Graph) SetExit(b int) { g.exit[b] = true }

// Len returns the number of blocks.
func (g *Graph) Len() int { return len(g.succs) }

// Preds returns the predecessors of b.
func (g *Graph) Preds(b int) []int { return g.preds[b] }

// Succs returns the successors of b.
func (g *Graph) Succs(b int) []int { return g.succs[b] }

// IsExit reports whether b is a normal function exit.
func (g *Graph) IsExit(b int) bool { return g.exit[b] }

// ReversePostorder returns the blocks reachable from the entry in reverse postorder.
func (g *Graph) ReversePostorder() []int {
	if g.Len() == 0 {
		return nil
	}

	type frame struct{ block, next int }

	seen := make([]bool, g.Len())
	post := make([]int, 0, g.Len())
	stack := []frame{{block: 0}}
	seen[0] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if succs := g.succs[top.block]; top.next < len(succs) {
			s := succs[top.next]
			top.next++

			if !seen[s] {
				seen[s] = true
				stack = append(stack, frame{block: s})
			}

			continue
		}

		post = append(post, top.block)
		stack = stack[:len(stack)-1]
	}

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}

	return post
}
