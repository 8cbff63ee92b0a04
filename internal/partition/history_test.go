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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/transferguard/internal/partition"
)

func TestFactory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count int
	}{
		{"Empty", 0},
		{"Single", 1},
		{"ChunkSize", ChunkSize},
		{"ChunkSizePlusOne", ChunkSize + 1},
		{"MultipleChunks", 2*ChunkSize + 46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var f Factory

			h := f.History()
			for i := range tt.count {
				h.PushNewElementRegion(Element(i))
			}

			assert.Equal(t, tt.count, f.Len())
			assert.Equal(t, tt.count, h.Len())

			want := Element(tt.count - 1)
			for n := h.Head(); n != nil; n = n.Parent() {
				require.Equal(t, want, n.Element())
				want--
			}
		})
	}
}

func TestHistorySharing(t *testing.T) {
	t.Parallel()

	var f Factory

	h := f.History()
	h.PushNewElementRegion(0)

	a, b := h, h
	a.PushNewElementRegion(1)
	b.PushRemoveLastElementFromRegion(0)

	assert.Same(t, a.Head().Parent(), b.Head().Parent())
	assert.Equal(t, 1, h.Len())

	n := a.Pop()
	assert.Equal(t, Element(1), n.Element())
	assert.Same(t, h.Head(), a.Head())
	assert.Equal(t, 3, f.Len())
}

func TestNodeAccessors(t *testing.T) {
	t.Parallel()

	var f Factory

	h := f.History()

	boundary := h.PushSequenceBoundary(BoundaryMerge, instr("x"))
	remove := h.PushRemoveElementFromRegion(3, 4)
	merge := h.PushMergeElementRegions(1, []Element{2, 5})

	assert.Equal(t, Element(4), remove.Element())
	assert.Equal(t, Element(3), remove.OtherElement())
	assert.Equal(t, Element(1), merge.Element())
	assert.Equal(t, []Element{2, 5}, merge.MergedElements())

	semantics, i := boundary.Boundary()
	assert.Equal(t, BoundaryMerge, semantics)
	assert.Equal(t, instr("x"), i)

	assert.Panics(t, func() { boundary.Element() })
	assert.Panics(t, func() { merge.OtherElement() })
	assert.Panics(t, func() { remove.MergedElements() })
	assert.Panics(t, func() { merge.JoinedHistory() })
	assert.Panics(t, func() { remove.Boundary() })
}

func TestHistoryPrint(t *testing.T) {
	t.Parallel()

	var f Factory

	base := f.History()
	base.PushNewElementRegion(0)

	left, right := base, base
	left.PushNewElementRegion(1)
	right.PushMergeElementRegions(0, []Element{1})

	joined := left
	joined.PushCFGHistoryJoin(right, 2, 3)

	var b strings.Builder
	require.NoError(t, joined.Print(&b))

	const want = `cfg_history_join bb2 -> bb3
  merge_element_regions 0 <- [1]
  add_new_region_for_element 0
add_new_region_for_element 1
...
`

	assert.Equal(t, want, b.String())
}

func TestOperandSet(t *testing.T) {
	t.Parallel()

	a, b, c := &Operand{ID: 1}, &Operand{ID: 2}, &Operand{ID: 3}

	s := NewOperandSet(c, a)
	u := s.Union(NewOperandSet(b, c))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, u.Len())
	assert.True(t, u.Contains(b))
	assert.False(t, s.Contains(b))
	assert.True(t, u.Equal(NewOperandSet(a, b, c)))
	assert.Equal(t, "{op1[0] op2[0] op3[0]}", u.String())

	var ids []int
	for op := range u.All() {
		ids = append(ids, op.ID)
	}

	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestOp(t *testing.T) {
	t.Parallel()

	operand := &Operand{ID: 7, User: instr("go f(x)")}

	transfer := NewTransfer(2, operand)
	assert.Equal(t, Transfer, transfer.Kind())
	assert.Equal(t, []Element{2}, transfer.Args())
	assert.Same(t, operand, transfer.Operand())
	assert.Equal(t, "transfer 2  ; go f(x)", transfer.String())

	assign := NewAssign(1, 0, nil)
	assert.Equal(t, "assign 1, 0", assign.String())
	assert.Panics(t, func() { assign.Operand() })
	assert.Panics(t, func() { NewRequire(1, nil).Arg(1) })
	assert.Panics(t, func() { NewTransfer(1, nil) })
}
