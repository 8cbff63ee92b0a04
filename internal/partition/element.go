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

// Package partition implements region tracking for values in a function.
//
// A [Partition] maps tracked [Element]s to [Region]s. Elements in the same region
// may alias each other, so handing one of them to another goroutine hands over all of them.
// Every mutation is recorded in an [History], which allows rewinding a partition
// to find the operation that first put two elements into the same region.
package partition

import (
	"go/token"
	"strconv"
)

// Element identifies a tracked value.
type Element int

func (e Element) String() string { return strconv.Itoa(int(e)) }

// Region labels an equivalence class of elements.
//
// In canonical form a region is labeled with its smallest element.
type Region int

func (r Region) String() string { return "%" + strconv.Itoa(int(r)) }

// Instruction is the source of a partition operation, used for diagnostics only.
type Instruction interface {
	Pos() token.Pos
	String() string
}

// Operand references an operand of a transferring instruction.
// Operands are compared by identity and ordered by ID.
type Operand struct {
	ID    int
	User  Instruction
	Index int
}

func (o *Operand) String() string {
	if o == nil {
		return "<nil>"
	}

	return "op" + strconv.Itoa(o.ID) + "[" + strconv.Itoa(o.Index) + "]"
}
