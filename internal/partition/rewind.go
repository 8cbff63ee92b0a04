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

// PopHistory rewinds p by one operation, up to and including the previous [SequenceBoundary] node.
//
// It returns the boundary node, or false when the history is exhausted.
// Histories joined in by the rewound nodes are appended to joined, when not nil.
// Transfer state is not rewound.
func (p *Partition) PopHistory(joined *[]History) (*Node, bool) {
	for {
		n := p.history.Pop()
		if n == nil {
			return nil, false
		}

		switch n.kind {
		case AddNewRegionForElement:
			p.untrack(n.Element())

		case RemoveLastElementFromRegion:
			e := n.Element()
			p.untrack(e)
			p.elementToRegion[e] = p.newLabel()

		case RemoveElementFromRegion:
			e, other := n.Element(), n.OtherElement()
			p.untrack(e)

			if r, ok := p.elementToRegion[other]; ok {
				p.elementToRegion[e] = r
			} else {
				p.elementToRegion[e] = p.newLabel()
			}

		case MergeElementRegions:
			r := p.newLabel()

			for _, e := range n.MergedElements() {
				if _, ok := p.elementToRegion[e]; ok {
					p.elementToRegion[e] = r
				}
			}

		case CFGHistoryJoin:
			if joined != nil {
				head, _, _ := n.JoinedHistory()
				*joined = append(*joined, History{factory: p.history.factory, head: head})
			}

		case SequenceBoundary:
			return n, true
		}
	}
}

func (p *Partition) newLabel() Region {
	r := p.freshLabel
	p.freshLabel++
	p.canonical = false

	return r
}

// untrack removes e, dropping the transfer state of its region with the last element.
func (p *Partition) untrack(e Element) {
	r, ok := p.elementToRegion[e]
	if !ok {
		return
	}

	delete(p.elementToRegion, e)

	if _, ok := p.siblingOf(e, r); !ok {
		delete(p.regionToTransferred, r)
	}

	p.canonical = false
}

// MergePoint describes where two elements ended up in the same region.
type MergePoint struct {
	// Semantics of the operation that merged the regions.
	Semantics SequenceBoundarySemantics

	// Instruction that merged the regions, nil for joins and initial regions.
	Instruction Instruction

	// Joined lists the predecessor histories met while rewinding.
	Joined []History
}

// FindMergePoint rewinds a copy of p until a and b are no longer in the same region.
//
// It reports false when a and b are not in the same region, or when they
// already shared a region at the start of the history.
func FindMergePoint(p *Partition, a, b Element) (MergePoint, bool) {
	if !p.IsTracked(a) || !p.IsTracked(b) || !p.InSameRegion(a, b) {
		return MergePoint{}, false
	}

	c := p.Clone()

	var joined []History

	for {
		n, ok := c.PopHistory(&joined)
		if !ok {
			return MergePoint{Joined: joined}, false
		}

		if together(c, a, b) {
			continue
		}

		semantics, instr := n.Boundary()

		return MergePoint{Semantics: semantics, Instruction: instr, Joined: joined}, true
	}
}

func together(p *Partition, a, b Element) bool {
	ra, ok := p.elementToRegion[a]
	if !ok {
		return false
	}

	rb, ok := p.elementToRegion[b]

	return ok && ra == rb
}
