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
	"log/slog"

	"fillmore-labs.com/transferguard/internal/isolation"
	"fillmore-labs.com/transferguard/internal/partition"
)

// Policy supplies isolation information and receives diagnostics from an [Evaluator].
type Policy interface {
	// Logger receives verbose evaluation logs.
	Logger() *slog.Logger

	// ShouldEmitVerboseLogging enables logging every applied operation.
	ShouldEmitVerboseLogging() bool

	// ShouldTryToSquelchErrors enables suppressing uses after transfer
	// where the use and the transfer share a bound isolation domain.
	ShouldTryToSquelchErrors() bool

	// HandleLocalUseAfterTransfer is called for every operand that transferred
	// the region of element e used by op.
	HandleLocalUseAfterTransfer(op partition.Op, e partition.Element, transferring *partition.Operand)

	// HandleTransferNonTransferrable is called when op transfers a region bound to a domain.
	HandleTransferNonTransferrable(op partition.Op, e partition.Element, info isolation.Info)

	// IsActorDerived reports whether e is derived from actor state.
	IsActorDerived(e partition.Element) bool

	// IsTaskIsolatedDerived reports whether e is derived from task state.
	IsTaskIsolatedDerived(e partition.Element) bool

	// IsClosureCaptured reports whether e is captured by the closure transferred by op.
	IsClosureCaptured(e partition.Element, op *partition.Operand) bool

	// IsolationRegionInfo returns the static isolation of e, [isolation.Unknown] when not known.
	IsolationRegionInfo(e partition.Element) isolation.Info

	// InstructionIsolation returns the isolation an instruction executes in.
	InstructionIsolation(i partition.Instruction) isolation.Info
}

// BasePolicy is a [Policy] that knows nothing and reports nothing.
// Embed it to implement only some capabilities.
type BasePolicy struct {
	// Log receives verbose logs, nil discards them.
	Log *slog.Logger

	// Verbose enables logging every applied operation.
	Verbose bool

	// Squelch enables error squelching. It is off by default since it can hide true positives.
	Squelch bool
}

var _ Policy = BasePolicy{}

// Logger implements [Policy].
func (b BasePolicy) Logger() *slog.Logger {
	if b.Log == nil {
		return slog.New(slog.DiscardHandler)
	}

	return b.Log
}

// ShouldEmitVerboseLogging implements [Policy].
func (b BasePolicy) ShouldEmitVerboseLogging() bool { return b.Verbose }

// ShouldTryToSquelchErrors implements [Policy].
func (b BasePolicy) ShouldTryToSquelchErrors() bool { return b.Squelch }

// HandleLocalUseAfterTransfer implements [Policy].
func (BasePolicy) HandleLocalUseAfterTransfer(partition.Op, partition.Element, *partition.Operand) {}

// HandleTransferNonTransferrable implements [Policy].
func (BasePolicy) HandleTransferNonTransferrable(partition.Op, partition.Element, isolation.Info) {}

// IsActorDerived implements [Policy].
func (BasePolicy) IsActorDerived(partition.Element) bool { return false }

// IsTaskIsolatedDerived implements [Policy].
func (BasePolicy) IsTaskIsolatedDerived(partition.Element) bool { return false }

// IsClosureCaptured implements [Policy].
func (BasePolicy) IsClosureCaptured(partition.Element, *partition.Operand) bool { return false }

// IsolationRegionInfo implements [Policy].
func (BasePolicy) IsolationRegionInfo(partition.Element) isolation.Info { return isolation.Info{} }

// InstructionIsolation implements [Policy].
func (BasePolicy) InstructionIsolation(partition.Instruction) isolation.Info { return isolation.Info{} }
