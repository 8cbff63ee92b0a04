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

package partition

import (
	"fmt"
	"io"
	"slices"
)

// History is a persistent list of the mutations applied to a [Partition].
//
// A History is a head pointer into nodes owned by a [Factory]. Copying a History
// is cheap, copies share all nodes and diverge on the next push.
type History struct {
	factory *Factory
	head    *Node
}

// Head returns the newest node, nil for an empty history.
func (h History) Head() *Node { return h.head }

// Factory returns the allocating factory.
func (h History) Factory() *Factory { return h.factory }

// Empty reports whether no node has been pushed.
func (h History) Empty() bool { return h.head == nil }

func (h *History) push(kind NodeKind, s subject) *Node {
	if h.factory == nil {
		panic("history without factory")
	}

	h.head = h.factory.newNode(kind, h.head, s)

	return h.head
}

// PushNewElementRegion records that e was tracked in a new region.
func (h *History) PushNewElementRegion(e Element) *Node {
	return h.push(AddNewRegionForElement, elementSubject{element: e})
}

// PushRemoveLastElementFromRegion records that e was removed from its singleton region.
func (h *History) PushRemoveLastElementFromRegion(e Element) *Node {
	return h.push(RemoveLastElementFromRegion, elementSubject{element: e})
}

// PushRemoveElementFromRegion records that e was removed from the region it shared with other.
func (h *History) PushRemoveElementFromRegion(other, e Element) *Node {
	return h.push(RemoveElementFromRegion, removeSubject{other: other, element: e})
}

// PushMergeElementRegions records that the region containing others was merged into the region of primary.
func (h *History) PushMergeElementRegions(primary Element, others []Element) *Node {
	return h.push(MergeElementRegions, mergeSubject{primary: primary, others: slices.Clone(others)})
}

// PushCFGHistoryJoin records that the history joined was merged in along the edge pred -> succ.
func (h *History) PushCFGHistoryJoin(joined History, pred, succ int) *Node {
	return h.push(CFGHistoryJoin, joinSubject{head: joined.head, pred: pred, succ: succ})
}

// PushSequenceBoundary starts a group of nodes pushed by one operation.
func (h *History) PushSequenceBoundary(semantics SequenceBoundarySemantics, instr Instruction) *Node {
	return h.push(SequenceBoundary, boundarySubject{semantics: semantics, instr: instr})
}

// Pop drops the head node and returns it. It returns nil for an empty history.
func (h *History) Pop() *Node {
	n := h.head
	if n != nil {
		h.head = n.parent
	}

	return n
}

// Len returns the number of nodes on the primary chain, not following joins.
func (h History) Len() int {
	l := 0
	for n := h.head; n != nil; n = n.parent {
		l++
	}

	return l
}

// Print writes the history newest first, descending into joined histories.
// Each node is printed at most once.
func (h History) Print(w io.Writer) error {
	p := historyPrinter{w: w, seen: make(map[*Node]struct{})}
	p.print(h.head, 0)

	return p.err
}

type historyPrinter struct {
	w    io.Writer
	seen map[*Node]struct{}
	err  error
}

func (p *historyPrinter) print(n *Node, depth int) {
	for ; n != nil && p.err == nil; n = n.parent {
		if _, ok := p.seen[n]; ok {
			p.printf(depth, "...")

			return
		}

		p.seen[n] = struct{}{}
		p.printf(depth, "%s", n)

		if n.kind == CFGHistoryJoin {
			head, _, _ := n.JoinedHistory()
			p.print(head, depth+1)
		}
	}
}

func (p *historyPrinter) printf(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}

	for range depth {
		if _, p.err = io.WriteString(p.w, "  "); p.err != nil {
			return
		}
	}

	if _, p.err = fmt.Fprintf(p.w, format, args...); p.err != nil {
		return
	}

	_, p.err = io.WriteString(p.w, "\n")
}
