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

package partition_test

import (
	"go/token"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/transferguard/internal/partition"
)

type instr string

func (instr) Pos() token.Pos   { return token.NoPos }
func (i instr) String() string { return string(i) }

func elements(n int) []Element {
	es := make([]Element, n)
	for i := range es {
		es[i] = Element(i)
	}

	return es
}

func TestTrackNewElement(t *testing.T) {
	t.Parallel()

	var f Factory

	p := New(f.History())
	p.TrackNewElement(0)
	p.TrackNewElement(1)
	p.Merge(0, 1)

	require.True(t, p.InSameRegion(0, 1))

	p.TrackNewElement(1)

	assert.False(t, p.InSameRegion(0, 1))
	assert.Equal(t, "[(0) (1)]", p.String())

	kinds := []NodeKind{}
	for n := p.History().Head(); n != nil; n = n.Parent() {
		kinds = append(kinds, n.Kind())
	}

	assert.Equal(t, []NodeKind{
		AddNewRegionForElement,
		RemoveElementFromRegion,
		MergeElementRegions,
		AddNewRegionForElement,
		AddNewRegionForElement,
	}, kinds)
}

func TestTrackNewElementDropsTransferState(t *testing.T) {
	t.Parallel()

	var f Factory

	op := &Operand{ID: 1, User: instr("go")}

	p := SeparateRegions(f.History(), elements(2), nil)
	p.MarkTransferred(0, NewOperandSet(op))
	p.TrackNewElement(0)

	assert.False(t, p.IsTransferred(0))
	assert.Equal(t, RemoveLastElementFromRegion, p.History().Head().Parent().Kind())
	require.NoError(t, p.Validate())
}

func TestUntrackedElementPanics(t *testing.T) {
	t.Parallel()

	var f Factory

	p := New(f.History())

	assert.Panics(t, func() { p.Region(7) })
	assert.Panics(t, func() { p.AssignElement(0, 7) })
	assert.Panics(t, func() { p.Merge(7, 8) })
}

func TestAssignElement(t *testing.T) {
	t.Parallel()

	var f Factory

	p := SeparateRegions(f.History(), elements(3), nil)

	p.AssignElement(2, 0)
	assert.True(t, p.InSameRegion(0, 2))
	assert.False(t, p.InSameRegion(1, 2))

	p.AssignElement(2, 1)
	assert.True(t, p.InSameRegion(1, 2))
	assert.False(t, p.InSameRegion(0, 2))

	p.AssignElement(5, 1)
	assert.Equal(t, []Element{1, 2, 5}, p.RegionElements(5))
	assert.Equal(t, "[(0) (1 2 5)]", p.String())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	var f Factory

	op := &Operand{ID: 3, User: instr("send")}

	p := SeparateRegions(f.History(), elements(4), nil)
	p.MarkTransferred(3, NewOperandSet(op))

	assert.Equal(t, Region(1), p.Merge(3, 1))
	assert.True(t, p.IsTransferred(1))

	set, ok := p.Transferred(3)
	require.True(t, ok)
	assert.True(t, set.Contains(op))

	head := p.History().Head()
	require.Equal(t, MergeElementRegions, head.Kind())
	assert.Equal(t, Element(1), head.Element())
	assert.Equal(t, []Element{3}, head.MergedElements())

	assert.Equal(t, "[(0) {(1 3){op3[0]}} (2)]", p.String())
	assert.Equal(t, []Element{1, 3}, p.TransferredElements())
	assert.Equal(t, [][]Element{{0}, {2}}, p.NonTransferredRegions())
	require.NoError(t, p.Validate())
}

func TestTransferAndUndo(t *testing.T) {
	t.Parallel()

	var f Factory

	a, b := &Operand{ID: 1, User: instr("a")}, &Operand{ID: 2, User: instr("b")}

	p := SeparateRegions(f.History(), elements(2), nil)
	p.MarkTransferred(0, NewOperandSet(b))
	p.MarkTransferred(0, NewOperandSet(a))

	set, ok := p.Transferred(0)
	require.True(t, ok)
	assert.Equal(t, 2, set.Len())
	assert.False(t, p.IsTransferred(1))

	assert.True(t, p.UndoTransfer(0))
	assert.False(t, p.IsTransferred(0))
	assert.False(t, p.UndoTransfer(0))

	p.MarkTransferred(1, NewOperandSet(a))
	q := p.RemovingTransferState()
	assert.False(t, q.IsTransferred(1))
	assert.True(t, p.IsTransferred(1))
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	var f Factory

	r := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		p := randomPartition(r, &f, 8, 20)

		p.Canonicalize()
		require.True(t, p.IsCanonical())
		require.NoError(t, p.Validate())

		snapshot := p.String()
		c := p.Clone()

		p.Canonicalize()
		assert.Equal(t, snapshot, p.String())
		assert.True(t, Equals(p, c))
	}
}

func TestEquivalenceRelation(t *testing.T) {
	t.Parallel()

	var f Factory

	r := rand.New(rand.NewPCG(3, 4))

	const universe = 6

	p := New(f.History())
	for _, e := range elements(universe) {
		p.TrackNewElement(e)
	}

	for range 200 {
		applyRandom(r, p, universe)

		for _, a := range p.Elements() {
			require.True(t, p.InSameRegion(a, a))

			for _, b := range p.Elements() {
				require.Equal(t, p.InSameRegion(a, b), p.InSameRegion(b, a))

				for _, c := range p.Elements() {
					if p.InSameRegion(a, b) && p.InSameRegion(b, c) {
						require.True(t, p.InSameRegion(a, c))
					}
				}
			}
		}
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	var f Factory

	// P1 has 1 and 2 merged, P2 keeps them separate.
	p1 := SeparateRegions(f.History(), []Element{1, 2}, nil)
	p1.Merge(1, 2)

	p2 := SeparateRegions(f.History(), []Element{1, 2}, nil)

	s := Join(Join(New(f.History()), p1, 1, 3), p2, 2, 3)

	assert.True(t, s.InSameRegion(1, 2))
	assert.Equal(t, "[(1 2)]", s.String())

	type edge struct{ pred, succ int }

	var edges []edge

	for n := s.History().Head(); n != nil; n = n.Parent() {
		if n.Kind() == CFGHistoryJoin {
			_, pred, succ := n.JoinedHistory()
			edges = append(edges, edge{pred, succ})
		}
	}

	assert.Equal(t, []edge{{2, 3}, {1, 3}}, edges)
}

func TestJoinTransferred(t *testing.T) {
	t.Parallel()

	var f Factory

	a, b := &Operand{ID: 1, User: instr("a")}, &Operand{ID: 2, User: instr("b")}

	p1 := SeparateRegions(f.History(), elements(3), nil)
	p1.MarkTransferred(1, NewOperandSet(a))

	p2 := SeparateRegions(f.History(), elements(3), nil)
	p2.Merge(1, 2)
	p2.MarkTransferred(2, NewOperandSet(b))

	s := Join(p1, p2, 0, 1)

	set, ok := s.Transferred(2)
	require.True(t, ok)
	assert.True(t, set.Contains(a))
	assert.True(t, set.Contains(b))
	assert.False(t, s.IsTransferred(0))
	require.NoError(t, s.Validate())

	// Joining does not modify the first input.
	assert.False(t, p1.InSameRegion(1, 2))
}

func TestJoinProperties(t *testing.T) {
	t.Parallel()

	var f Factory

	r := rand.New(rand.NewPCG(5, 6))

	const universe = 7

	for range 100 {
		a := randomPartition(r, &f, universe, 6)
		b := randomPartition(r, &f, universe, 6)

		ab, ba := Join(a, b, 0, 2), Join(b, a, 1, 2)

		require.True(t, Equals(ab, ba), "join(%s, %s) = %s, join(%s, %s) = %s", a, b, ab, b, a, ba)

		for _, x := range a.Elements() {
			for _, y := range a.Elements() {
				if a.InSameRegion(x, y) || b.InSameRegion(x, y) {
					require.True(t, ab.InSameRegion(x, y))
				}
			}
		}
	}
}

func TestEquals(t *testing.T) {
	t.Parallel()

	var f Factory

	p := New(f.History())
	p.TrackNewElement(2)
	p.TrackNewElement(1)
	p.AssignElement(3, 2)

	q := New(f.History())
	q.TrackNewElement(3)
	q.TrackNewElement(1)

	assert.Panics(t, func() { q.Merge(2, 3) }, "2 is not tracked")

	q.AssignElement(2, 3)
	assert.True(t, Equals(p, q))

	q.MarkTransferred(1, NewOperandSet(&Operand{ID: 1, User: instr("go")}))
	assert.False(t, Equals(p, q))
}

func TestHistoryRewind(t *testing.T) {
	t.Parallel()

	var f Factory

	r := rand.New(rand.NewPCG(7, 8))

	const universe = 6

	p := SeparateRegions(f.History(), elements(universe), nil)

	var snapshots []string

	for range 40 {
		snapshots = append(snapshots, p.RemovingTransferState().String())

		p.PushSequenceBoundary(BoundaryAssign, nil)
		applyRandom(r, p, universe)
	}

	for i := len(snapshots) - 1; i >= 0; i-- {
		n, ok := p.PopHistory(nil)
		require.True(t, ok)
		require.Equal(t, SequenceBoundary, n.Kind())

		assert.Equal(t, snapshots[i], p.RemovingTransferState().String(), "step %d", i)
	}
}

func TestFindMergePoint(t *testing.T) {
	t.Parallel()

	var f Factory

	p := SeparateRegions(f.History(), elements(4), instr("entry"))

	p.PushSequenceBoundary(BoundaryMerge, instr("merge"))
	p.Merge(0, 1)

	p.PushSequenceBoundary(BoundaryAssign, instr("assign"))
	p.AssignElement(2, 1)

	before := p.String()

	mp, ok := FindMergePoint(p, 0, 2)
	require.True(t, ok)
	assert.Equal(t, BoundaryAssign, mp.Semantics)
	assert.Equal(t, instr("assign"), mp.Instruction)

	mp, ok = FindMergePoint(p, 1, 0)
	require.True(t, ok)
	assert.Equal(t, instr("merge"), mp.Instruction)

	_, ok = FindMergePoint(p, 0, 3)
	assert.False(t, ok)

	assert.Equal(t, before, p.String())
}

func TestFindMergePointAcrossJoin(t *testing.T) {
	t.Parallel()

	var f Factory

	p1 := SeparateRegions(f.History(), elements(2), nil)
	p1.PushSequenceBoundary(BoundaryMerge, instr("merge"))
	p1.Merge(0, 1)

	s := Join(New(f.History()), p1, 1, 2)

	mp, ok := FindMergePoint(s, 0, 1)
	require.True(t, ok)
	assert.Equal(t, BoundaryCFGJoin, mp.Semantics)
	assert.Len(t, mp.Joined, 1)
	assert.Equal(t, p1.History().Head(), mp.Joined[0].Head())
}

func TestSingleRegion(t *testing.T) {
	t.Parallel()

	var f Factory

	p := SingleRegion(f.History(), []Element{4, 2, 9}, instr("entry"))

	assert.True(t, p.InSameRegion(4, 9))
	assert.Equal(t, Region(2), p.Region(9))
	assert.True(t, p.IsCanonical())

	var boundary *Node
	for n := p.History().Head(); n != nil; n = n.Parent() {
		boundary = n
	}

	semantics, i := boundary.Boundary()
	assert.Equal(t, BoundarySingleRegion, semantics)
	assert.Equal(t, instr("entry"), i)
}

func randomPartition(r *rand.Rand, f *Factory, universe, steps int) *Partition {
	p := SeparateRegions(f.History(), elements(universe), nil)

	for range steps {
		applyRandom(r, p, universe)
	}

	return p
}

func applyRandom(r *rand.Rand, p *Partition, universe int) {
	a, b := Element(r.IntN(universe)), Element(r.IntN(universe))

	switch r.IntN(3) {
	case 0:
		p.TrackNewElement(a)

	case 1:
		p.AssignElement(a, b)

	default:
		p.Merge(a, b)
	}
}
