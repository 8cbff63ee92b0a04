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

package config

// AnalyzerFlags represents specific analyzers.
type AnalyzerFlags uint8

const (
	// TransferAnalyzer enables reporting uses of values after their transfer to another goroutine.
	TransferAnalyzer AnalyzerFlags = 1 << iota

	// LockScopeAnalyzer enables reporting mutex locks not released on all paths.
	LockScopeAnalyzer
)

// Analyzers is the set of enabled analyzers.
type Analyzers = BitMask[AnalyzerFlags]

// DefaultAnalyzers returns the analyzers enabled by default.
func DefaultAnalyzers() Analyzers {
	return NewBitMask(TransferAnalyzer | LockScopeAnalyzer)
}

// Config represents configuration options for the analyzers.
type Config uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated Config = 1 << iota

	// TrackGlobals reports transfers of values derived from package-level variables.
	TrackGlobals

	// TransferOnSend treats values sent on channels as transferred.
	TransferOnSend
)

// Behavior holds behavioral options.
type Behavior = BitMask[Config]

// DefaultBehavior returns the default behavioral options.
func DefaultBehavior() Behavior {
	return NewBitMask(TransferOnSend)
}
