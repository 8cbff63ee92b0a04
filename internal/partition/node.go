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
	"strings"
)

// NodeKind is the kind of mutation a history [Node] records.
type NodeKind uint8

//go:generate go tool stringer -type NodeKind -linecomment
const (
	// AddNewRegionForElement records tracking an element in a new region.
	AddNewRegionForElement NodeKind = iota // add_new_region_for_element

	// RemoveLastElementFromRegion records removing the only element of a region.
	RemoveLastElementFromRegion // remove_last_element_from_region

	// RemoveElementFromRegion records removing an element that had siblings.
	RemoveElementFromRegion // remove_element_from_region

	// MergeElementRegions records absorbing elements into the region of a primary element.
	MergeElementRegions // merge_element_regions

	// CFGHistoryJoin links the history of a joined predecessor.
	CFGHistoryJoin // cfg_history_join

	// SequenceBoundary groups the nodes pushed by one operation.
	SequenceBoundary // sequence_boundary
)

// SequenceBoundarySemantics describes the operation that pushed a [SequenceBoundary].
type SequenceBoundarySemantics uint8

//go:generate go tool stringer -type SequenceBoundarySemantics -linecomment
const (
	BoundaryAssign          SequenceBoundarySemantics = iota // assign
	BoundaryAssignFresh                                      // assign_fresh
	BoundaryMerge                                            // merge
	BoundarySingleRegion                                     // single_region
	BoundarySeparateRegions                                  // separate_regions
	BoundaryCFGJoin                                          // cfg_join
)

// Node is an immutable entry in a [History].
type Node struct {
	kind    NodeKind
	parent  *Node
	subject subject
}

// subject is the kind specific payload of a [Node].
type subject interface{ isSubject() }

type (
	elementSubject struct{ element Element }

	removeSubject struct{ other, element Element }

	mergeSubject struct {
		primary Element
		others  []Element
	}

	joinSubject struct {
		head       *Node
		pred, succ int
	}

	boundarySubject struct {
		semantics SequenceBoundarySemantics
		instr     Instruction
	}
)

func (elementSubject) isSubject()  {}
func (removeSubject) isSubject()   {}
func (mergeSubject) isSubject()    {}
func (joinSubject) isSubject()     {}
func (boundarySubject) isSubject() {}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Parent returns the previous node, nil at the start of the history.
func (n *Node) Parent() *Node { return n.parent }

// Element returns the element a node is about.
//
// For [MergeElementRegions] this is the primary element.
// It panics for [CFGHistoryJoin] and [SequenceBoundary] nodes.
func (n *Node) Element() Element {
	switch s := n.subject.(type) {
	case elementSubject:
		return s.element

	case removeSubject:
		return s.element

	case mergeSubject:
		return s.primary

	default:
		panic(fmt.Sprintf("%s node has no element", n.kind))
	}
}

// OtherElement returns the sibling that stayed in the region of a [RemoveElementFromRegion] node.
func (n *Node) OtherElement() Element {
	s, ok := n.subject.(removeSubject)
	if !ok {
		panic(fmt.Sprintf("%s node has no other element", n.kind))
	}

	return s.other
}

// MergedElements returns the elements absorbed by a [MergeElementRegions] node.
func (n *Node) MergedElements() []Element {
	s, ok := n.subject.(mergeSubject)
	if !ok {
		panic(fmt.Sprintf("%s node has no merged elements", n.kind))
	}

	return s.others
}

// JoinedHistory returns the head of the joined history and the joined edge of a [CFGHistoryJoin] node.
func (n *Node) JoinedHistory() (head *Node, pred, succ int) {
	s, ok := n.subject.(joinSubject)
	if !ok {
		panic(fmt.Sprintf("%s node has no joined history", n.kind))
	}

	return s.head, s.pred, s.succ
}

// Boundary returns the semantics and the source instruction of a [SequenceBoundary] node.
// The instruction is nil for boundaries not caused by an instruction.
func (n *Node) Boundary() (SequenceBoundarySemantics, Instruction) {
	s, ok := n.subject.(boundarySubject)
	if !ok {
		panic(fmt.Sprintf("%s node is not a sequence boundary", n.kind))
	}

	return s.semantics, s.instr
}

func (n *Node) String() string {
	var b strings.Builder

	b.WriteString(n.kind.String())

	switch s := n.subject.(type) {
	case elementSubject:
		fmt.Fprintf(&b, " %s", s.element)

	case removeSubject:
		fmt.Fprintf(&b, " %s (sibling %s)", s.element, s.other)

	case mergeSubject:
		fmt.Fprintf(&b, " %s <- %v", s.primary, s.others)

	case joinSubject:
		fmt.Fprintf(&b, " bb%d -> bb%d", s.pred, s.succ)

	case boundarySubject:
		b.WriteString(" " + s.semantics.String())

		if s.instr != nil {
			b.WriteString(": " + s.instr.String())
		}
	}

	return b.String()
}
