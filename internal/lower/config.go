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

package lower

// Config configures the translation of SSA to partition operations.
type Config struct {
	// SyncPoints are functions waiting for spawned goroutines, by [types.Func.FullName].
	// A call reacquires everything transferred to goroutines spawned in dominating blocks.
	SyncPoints []string

	// TransferringFunctions are functions whose function value arguments run on another goroutine.
	TransferringFunctions []string

	// TrackGlobals tracks package-level variables as non-transferable package state.
	TrackGlobals bool

	// TransferOnSend treats values sent on channels as transferred.
	TransferOnSend bool
}

// DefaultSyncPoints returns the default sync points.
func DefaultSyncPoints() []string {
	return []string{
		"(*sync.WaitGroup).Wait",
		"(*golang.org/x/sync/errgroup.Group).Wait",
	}
}

// DefaultTransferringFunctions returns the default transferring functions.
func DefaultTransferringFunctions() []string {
	return []string{
		"(*sync.WaitGroup).Go",
		"(*golang.org/x/sync/errgroup.Group).Go",
		"(*golang.org/x/sync/errgroup.Group).TryGo",
	}
}

// PackageState is the isolation domain name of package-level variables.
const PackageState = "package state"
