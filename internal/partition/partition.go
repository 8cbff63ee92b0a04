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
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Partition maps tracked elements to regions and records transferred regions.
//
// Querying an untracked element panics: the producer of operations
// must track every element before its first use.
type Partition struct {
	elementToRegion     map[Element]Region
	regionToTransferred map[Region]OperandSet

	// freshLabel is larger than every region label in use.
	freshLabel Region

	// canonical indicates every region is labeled with its smallest element.
	canonical bool

	history History
}

// New returns an empty [Partition] recording its mutations in h.
func New(h History) *Partition {
	return &Partition{
		elementToRegion:     make(map[Element]Region),
		regionToTransferred: make(map[Region]OperandSet),
		canonical:           true,
		history:             h,
	}
}

// SingleRegion returns a [Partition] tracking all elements in one region.
func SingleRegion(h History, elements []Element, instr Instruction) *Partition {
	p := New(h)
	p.history.PushSequenceBoundary(BoundarySingleRegion, instr)

	if len(elements) > 0 {
		first := elements[0]
		p.TrackNewElement(first)

		for _, e := range elements[1:] {
			p.AssignElement(e, first)
		}
	}

	p.Canonicalize()

	return p
}

// SeparateRegions returns a [Partition] tracking every element in its own region.
func SeparateRegions(h History, elements []Element, instr Instruction) *Partition {
	p := New(h)
	p.history.PushSequenceBoundary(BoundarySeparateRegions, instr)

	for _, e := range elements {
		if !p.IsTracked(e) {
			p.TrackNewElement(e)
		}
	}

	p.Canonicalize()

	return p
}

// Clone returns an independent copy of p sharing its history.
func (p *Partition) Clone() *Partition {
	return &Partition{
		elementToRegion:     maps.Clone(p.elementToRegion),
		regionToTransferred: maps.Clone(p.regionToTransferred),
		freshLabel:          p.freshLabel,
		canonical:           p.canonical,
		history:             p.history,
	}
}

// History returns the current history.
func (p *Partition) History() History { return p.history }

// HistorySize returns the number of nodes on the primary history chain.
func (p *Partition) HistorySize() int { return p.history.Len() }

// PushSequenceBoundary starts a group of history nodes belonging to one operation.
func (p *Partition) PushSequenceBoundary(semantics SequenceBoundarySemantics, instr Instruction) {
	p.history.PushSequenceBoundary(semantics, instr)
}

// IsTracked reports whether e is tracked.
func (p *Partition) IsTracked(e Element) bool {
	_, ok := p.elementToRegion[e]

	return ok
}

// Region returns the region of e.
func (p *Partition) Region(e Element) Region {
	r, ok := p.elementToRegion[e]
	if !ok {
		panic(fmt.Sprintf("element %s is not tracked", e))
	}

	return r
}

// InSameRegion reports whether a and b are in the same region.
func (p *Partition) InSameRegion(a, b Element) bool {
	return p.Region(a) == p.Region(b)
}

// Len returns the number of tracked elements.
func (p *Partition) Len() int { return len(p.elementToRegion) }

// Elements returns all tracked elements in ascending order.
func (p *Partition) Elements() []Element {
	return slices.Sorted(maps.Keys(p.elementToRegion))
}

// RegionElements returns the elements in the region of e in ascending order.
func (p *Partition) RegionElements(e Element) []Element {
	return p.elementsIn(p.Region(e))
}

func (p *Partition) elementsIn(r Region) []Element {
	var elements []Element

	for e, er := range p.elementToRegion {
		if er == r {
			elements = append(elements, e)
		}
	}

	slices.Sort(elements)

	return elements
}

// siblingOf returns the smallest element other than e in region r.
func (p *Partition) siblingOf(e Element, r Region) (Element, bool) {
	var (
		sibling Element
		found   bool
	)

	for o, or := range p.elementToRegion {
		if or != r || o == e {
			continue
		}

		if !found || o < sibling {
			sibling, found = o, true
		}
	}

	return sibling, found
}

// TrackNewElement puts e into a new singleton region, removing it from its previous region first.
func (p *Partition) TrackNewElement(e Element) {
	if r, ok := p.elementToRegion[e]; ok {
		p.removeFromRegion(e, r)
	}

	p.elementToRegion[e] = p.freshLabel
	p.history.PushNewElementRegion(e)
	p.freshLabel++
	p.canonical = false
}

// removeFromRegion records the removal of e from region r.
// The transfer state of r is dropped with its last element.
func (p *Partition) removeFromRegion(e Element, r Region) {
	if other, ok := p.siblingOf(e, r); ok {
		p.history.PushRemoveElementFromRegion(other, e)

		return
	}

	delete(p.regionToTransferred, r)
	p.history.PushRemoveLastElementFromRegion(e)
}

// AssignElement puts target into the region of source.
// target does not need to be tracked.
func (p *Partition) AssignElement(target, source Element) {
	if target == source {
		return
	}

	r := p.Region(source)

	if old, ok := p.elementToRegion[target]; ok {
		if old == r {
			return
		}

		p.removeFromRegion(target, old)
	} else {
		p.history.PushNewElementRegion(target)
	}

	p.elementToRegion[target] = r
	p.history.PushMergeElementRegions(source, []Element{target})
	p.canonical = false
}

// Merge unions the regions of a and b and returns the resulting region.
// The region with the smaller label survives.
func (p *Partition) Merge(a, b Element) Region {
	ra, rb := p.Region(a), p.Region(b)
	if ra == rb {
		return ra
	}

	if ra > rb {
		a, b = b, a
		ra, rb = rb, ra
	}

	merged := p.horizontalUpdate(rb, ra)

	if set, ok := p.regionToTransferred[rb]; ok {
		delete(p.regionToTransferred, rb)
		p.regionToTransferred[ra] = p.regionToTransferred[ra].Union(set)
	}

	p.history.PushMergeElementRegions(a, merged)

	return ra
}

// horizontalUpdate moves all elements of region from into region to and returns them in ascending order.
func (p *Partition) horizontalUpdate(from, to Region) []Element {
	var moved []Element

	for e, r := range p.elementToRegion {
		if r == from {
			p.elementToRegion[e] = to
			moved = append(moved, e)
		}
	}

	slices.Sort(moved)

	return moved
}

// MarkTransferred marks the region of e as transferred by the operands in set.
func (p *Partition) MarkTransferred(e Element, set OperandSet) {
	r := p.Region(e)
	p.regionToTransferred[r] = p.regionToTransferred[r].Union(set)
}

// UndoTransfer clears the transferred mark of the region of e and reports whether it was set.
func (p *Partition) UndoTransfer(e Element) bool {
	r := p.Region(e)
	if _, ok := p.regionToTransferred[r]; !ok {
		return false
	}

	delete(p.regionToTransferred, r)

	return true
}

// IsTransferred reports whether the region of e is transferred.
func (p *Partition) IsTransferred(e Element) bool {
	_, ok := p.regionToTransferred[p.Region(e)]

	return ok
}

// Transferred returns the operands that transferred the region of e.
func (p *Partition) Transferred(e Element) (OperandSet, bool) {
	set, ok := p.regionToTransferred[p.Region(e)]

	return set, ok
}

// TransferredElements returns all elements in transferred regions in ascending order.
func (p *Partition) TransferredElements() []Element {
	var elements []Element

	for e, r := range p.elementToRegion {
		if _, ok := p.regionToTransferred[r]; ok {
			elements = append(elements, e)
		}
	}

	slices.Sort(elements)

	return elements
}

// NonTransferredRegions returns the elements of every region not transferred,
// grouped by region and ordered by the smallest element.
func (p *Partition) NonTransferredRegions() [][]Element {
	var regions [][]Element

	for _, group := range p.groups() {
		if _, ok := p.regionToTransferred[p.elementToRegion[group[0]]]; !ok {
			regions = append(regions, group)
		}
	}

	return regions
}

// RemovingTransferState returns a copy of p without transferred regions.
func (p *Partition) RemovingTransferState() *Partition {
	c := p.Clone()
	clear(c.regionToTransferred)

	return c
}

// groups returns the elements grouped by region, ordered by the smallest element.
func (p *Partition) groups() [][]Element {
	index := make(map[Region]int)

	var groups [][]Element

	for _, e := range p.Elements() {
		r := p.elementToRegion[e]

		i, ok := index[r]
		if !ok {
			i = len(groups)
			index[r] = i
			groups = append(groups, nil)
		}

		groups[i] = append(groups[i], e)
	}

	return groups
}

// Canonicalize relabels every region with its smallest element.
func (p *Partition) Canonicalize() {
	if p.canonical {
		return
	}

	relabel := make(map[Region]Region)
	next := Region(0)

	for _, e := range p.Elements() {
		r := p.elementToRegion[e]

		nr, ok := relabel[r]
		if !ok {
			nr = Region(e)
			relabel[r] = nr
		}

		p.elementToRegion[e] = nr
		next = Region(e) + 1
	}

	transferred := make(map[Region]OperandSet, len(p.regionToTransferred))
	for r, set := range p.regionToTransferred {
		nr, ok := relabel[r]
		if !ok {
			panic(fmt.Sprintf("transferred region %s has no elements", r))
		}

		transferred[nr] = set
	}

	p.regionToTransferred = transferred
	p.freshLabel = max(p.freshLabel, next)
	p.canonical = true
}

// IsCanonical reports whether every region is labeled with its smallest element.
func (p *Partition) IsCanonical() bool {
	smallest := make(map[Region]Element)

	for e, r := range p.elementToRegion {
		if s, ok := smallest[r]; !ok || e < s {
			smallest[r] = e
		}
	}

	for r, e := range smallest {
		if Region(e) != r {
			return false
		}
	}

	return true
}

// ErrDanglingRegion is returned by [Partition.Validate] for transferred regions without elements.
var ErrDanglingRegion = errors.New("transferred region without elements")

// Validate checks the internal consistency of p.
func (p *Partition) Validate() error {
	live := make(map[Region]struct{}, len(p.elementToRegion))
	for _, r := range p.elementToRegion {
		if r >= p.freshLabel {
			return fmt.Errorf("region %s not below fresh label %s", r, p.freshLabel)
		}

		live[r] = struct{}{}
	}

	for r := range p.regionToTransferred {
		if _, ok := live[r]; !ok {
			return fmt.Errorf("region %s: %w", r, ErrDanglingRegion)
		}
	}

	if p.canonical && !p.IsCanonical() {
		return errors.New("partition marked canonical is not canonical")
	}

	return nil
}

// Equals reports whether both partitions have the same regions and transferred regions.
// Both partitions are canonicalized.
func Equals(fst, snd *Partition) bool {
	fst.Canonicalize()
	snd.Canonicalize()

	return maps.Equal(fst.elementToRegion, snd.elementToRegion) &&
		maps.EqualFunc(fst.regionToTransferred, snd.regionToTransferred, OperandSet.Equal)
}

func (p *Partition) String() string {
	c := p.Clone()
	c.Canonicalize()

	var b strings.Builder

	b.WriteByte('[')

	for i, group := range c.groups() {
		if i > 0 {
			b.WriteByte(' ')
		}

		set, transferred := c.regionToTransferred[c.elementToRegion[group[0]]]
		if transferred {
			b.WriteByte('{')
		}

		b.WriteByte('(')

		for j, e := range group {
			if j > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(e.String())
		}

		b.WriteByte(')')

		if transferred {
			b.WriteString(set.String())
			b.WriteByte('}')
		}
	}

	b.WriteByte(']')

	return b.String()
}
