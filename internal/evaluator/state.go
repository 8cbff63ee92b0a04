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

package evaluator

import (
	"fillmore-labs.com/transferguard/internal/isolation"
	"fillmore-labs.com/transferguard/internal/partition"
)

// TransferState is what is known about a transferring operand.
type TransferState struct {
	// Element is the element the operand transferred.
	Element partition.Element

	// Isolation is the merged isolation of the transferred region.
	Isolation isolation.Info

	// ClosureCaptured is set when the transferred region holds values captured by a transferred closure.
	ClosureCaptured bool
}

// TransferStates maps transferring operands to their [TransferState].
// It is shared between the evaluators of one function.
type TransferStates struct {
	states map[*partition.Operand]TransferState
}

// NewTransferStates returns an empty [TransferStates].
func NewTransferStates() *TransferStates {
	return &TransferStates{states: make(map[*partition.Operand]TransferState)}
}

// Get returns the state of op.
func (s *TransferStates) Get(op *partition.Operand) (TransferState, bool) {
	st, ok := s.states[op]

	return st, ok
}

// Len returns the number of known operands.
func (s *TransferStates) Len() int { return len(s.states) }

func (s *TransferStates) update(op *partition.Operand, e partition.Element, info isolation.Info, captured bool) {
	st, ok := s.states[op]
	if !ok {
		s.states[op] = TransferState{Element: e, Isolation: info, ClosureCaptured: captured}

		return
	}

	st.Isolation = st.Isolation.Merge(info)
	st.ClosureCaptured = st.ClosureCaptured || captured
	s.states[op] = st
}
