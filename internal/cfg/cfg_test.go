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

package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/ssa"

	. "fillmore-labs.com/transferguard/internal/cfg"
	"fillmore-labs.com/transferguard/internal/testsource"
)

type edge struct{ from, to int }

func graph(n int, edges []edge, exits ...int) *Graph {
	g := New(n)
	for _, e := range edges {
		g.AddEdge(e.from, e.to)
	}

	for _, b := range exits {
		g.SetExit(b)
	}

	return g
}

type found struct {
	result, loop []int
}

func find(c *JointPostDominanceSetComputer, dominating int, partial ...int) found {
	var f found

	c.FindJointPostDominatingSet(dominating, partial,
		func(b int) { f.result = append(f.result, b) },
		func(b int) { f.loop = append(f.loop, b) })

	return f
}

func TestReversePostorder(t *testing.T) {
	t.Parallel()

	// 0 -> 1 -> 3, 0 -> 2 -> 3, 4 unreachable
	g := graph(5, []edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {4, 3}}, 3)

	rpo := g.ReversePostorder()

	require.Len(t, rpo, 4)
	assert.Equal(t, 0, rpo[0])
	assert.Equal(t, 3, rpo[3])
	assert.NotContains(t, rpo, 4)
}

func TestDeadEndBlocks(t *testing.T) {
	t.Parallel()

	// 0 -> 1 (exit), 0 -> 2 -> 3 (panics), 4 loops forever
	g := graph(5, []edge{{0, 1}, {0, 2}, {2, 3}, {0, 4}, {4, 4}}, 1)
	d := NewDeadEndBlocks(g)

	tests := []struct {
		block int
		want  bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
		{4, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, d.IsDeadEnd(tt.block), "block %d", tt.block)
	}

	assert.False(t, d.IsEmpty())
	assert.True(t, NewDeadEndBlocks(graph(2, []edge{{0, 1}}, 1)).IsEmpty())
}

func TestJointPostDominance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		graph      *Graph
		dominating int
		partial    []int
		want       found
	}{
		{
			// if/else, both branches end the scope, joining in 3
			name:       "Diamond",
			graph:      graph(4, []edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, 3),
			dominating: 0,
			partial:    []int{1, 2},
		},
		{
			name:       "OneBranch",
			graph:      graph(4, []edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, 3),
			dominating: 0,
			partial:    []int{1},
			want:       found{result: []int{2}},
		},
		{
			name:       "DominatingBlock",
			graph:      graph(2, []edge{{0, 1}}, 1),
			dominating: 0,
			partial:    []int{0},
		},
		{
			// the else branch panics
			name:       "DeadEnd",
			graph:      graph(4, []edge{{0, 1}, {0, 2}, {1, 3}}, 3),
			dominating: 0,
			partial:    []int{1},
		},
		{
			name:       "Nested",
			graph:      graph(6, []edge{{0, 1}, {1, 2}, {1, 3}, {2, 5}, {3, 5}, {0, 4}, {4, 5}}, 5),
			dominating: 0,
			partial:    []int{2},
			want:       found{result: []int{3, 4}},
		},
		{
			// 1 falls through to 2, the else branch 3 leaks
			name:       "AdjacentPartial",
			graph:      graph(5, []edge{{0, 1}, {1, 2}, {2, 4}, {0, 3}, {3, 4}}, 4),
			dominating: 0,
			partial:    []int{1, 2},
			want:       found{result: []int{3}},
		},
		{
			// 0 -> 1 (header) -> 2 (body) -> 1, 1 -> 3 (exit)
			name:       "Loop",
			graph:      graph(4, []edge{{0, 1}, {1, 2}, {2, 1}, {1, 3}}, 3),
			dominating: 0,
			partial:    []int{2},
			want:       found{loop: []int{3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewJointPostDominanceSetComputer(NewDeadEndBlocks(tt.graph))

			assert.Equal(t, tt.want, find(c, tt.dominating, tt.partial...))
		})
	}
}

func TestJointPostDominanceReuse(t *testing.T) {
	t.Parallel()

	g := graph(4, []edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, 3)
	c := NewJointPostDominanceSetComputer(NewDeadEndBlocks(g))

	assert.Equal(t, found{result: []int{2}}, find(c, 0, 1))
	assert.Equal(t, found{result: []int{1}}, find(c, 0, 2))
	assert.Equal(t, found{}, find(c, 0, 2, 1, 2))
}

func TestFromSSA(t *testing.T) {
	t.Parallel()

	const src = `func f(c bool) int {
	if c {
		panic("c")
	}
	return 1
}
`

	fn := testsource.Func(t, src, "f")
	g := FromSSA(fn)

	require.Equal(t, len(fn.Blocks), g.Len())

	d := NewDeadEndBlocks(g)

	var panics, returns int

	for _, b := range fn.Blocks {
		switch b.Instrs[len(b.Instrs)-1].(type) {
		case *ssa.Panic:
			panics++

			assert.True(t, d.IsDeadEnd(b.Index))

		case *ssa.Return:
			returns++

			assert.True(t, g.IsExit(b.Index))
			assert.False(t, d.IsDeadEnd(b.Index))
		}
	}

	assert.Equal(t, 1, panics)
	assert.Equal(t, 1, returns)
	assert.False(t, d.IsDeadEnd(0))
}

func TestFromSSACantReturn(t *testing.T) {
	t.Parallel()

	const src = `import "os"

func f(c bool) int {
	if c {
		os.Exit(1)
	}
	return 1
}
`

	fn := testsource.Func(t, src, "f")
	g := FromSSA(fn)
	d := NewDeadEndBlocks(g)

	var exits int

	for _, b := range fn.Blocks {
		if g.IsExit(b.Index) {
			exits++

			continue
		}

		if b.Index != 0 {
			assert.Empty(t, g.Succs(b.Index))
			assert.True(t, d.IsDeadEnd(b.Index))
		}
	}

	assert.Equal(t, 1, exits)
	assert.False(t, d.IsDeadEnd(0))
}

func TestCantReturn(t *testing.T) {
	t.Parallel()

	const src = `import (
	"log"
	"os"
	"testing"
)

func f(t *testing.T, tb testing.TB, l *log.Logger) {
	os.Exit(1)
	log.Fatal("x")
	l.Fatalf("x")
	t.Fatal("x")
	tb.SkipNow()
	println("x")
}
`

	fn := testsource.Func(t, src, "f")

	var calls []bool

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if call, ok := instr.(*ssa.Call); ok {
				calls = append(calls, CantReturn(call.Common()))
			}
		}
	}

	assert.Equal(t, []bool{true, true, true, true, true, false}, calls)
}
