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

// Factory allocates history [Node]s in a [slab list].
//
// Nodes live as long as the factory. Use one factory per analyzed function
// and do not share it between goroutines.
//
// [slab list]: https://en.wikipedia.org/wiki/Slab_allocation
type Factory struct {
	start, current *chunk
	count, total   int
}

// chunk is a linked list of fixed-size arrays of Nodes.
type chunk struct {
	nodes [ChunkSize]Node
	next  *chunk
}

// ChunkSize defines the number of Nodes stored in a single chunk.
const ChunkSize = 255

// History returns an empty [History] allocating from this factory.
func (f *Factory) History() History {
	return History{factory: f}
}

// Len returns the number of nodes allocated so far.
func (f *Factory) Len() int {
	return f.total + f.count
}

func (f *Factory) newNode(kind NodeKind, parent *Node, s subject) *Node {
	if f.count == ChunkSize {
		f.current.next = new(chunk)
		f.current = f.current.next
		f.count = 0
		f.total += ChunkSize
	} else if f.current == nil {
		f.current = new(chunk)
		f.start = f.current
	}

	f.count++

	node := &f.current.nodes[f.count-1]
	*node = Node{kind: kind, parent: parent, subject: s}

	return node
}
