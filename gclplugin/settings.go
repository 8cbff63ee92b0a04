// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

package gclplugin

import transferguard "fillmore-labs.com/transferguard/analyzer"

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// Transfer enables use after transfer checks.
	Transfer *bool `json:"transfer,omitzero"`
	// LockScope enables lock scope checks.
	LockScope *bool `json:"lockscope,omitzero"`
	// Globals enables reporting transfers of package-level state.
	Globals *bool `json:"globals,omitzero"`
	// Send enables treating channel sends as transfers.
	Send *bool `json:"send,omitzero"`
	// Config names a YAML configuration file.
	Config *string `json:"config,omitzero"`
	// SyncPoints are additional functions waiting for spawned goroutines.
	SyncPoints []string `json:"sync-points,omitzero"`
	// TransferringFunctions are additional functions running their arguments on another goroutine.
	TransferringFunctions []string `json:"transferring-functions,omitzero"`
}

// Options converts [Settings] into a list of [transferguard.Option] for the transferguard analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []transferguard.Option {
	var opts []transferguard.Option

	opts = appendOption(opts, s.Transfer, transferguard.WithTransfer)
	opts = appendOption(opts, s.LockScope, transferguard.WithLockScope)
	opts = appendOption(opts, s.Globals, transferguard.WithGlobals)
	opts = appendOption(opts, s.Send, transferguard.WithSend)
	opts = appendOption(opts, s.Config, transferguard.WithConfigFile)

	if len(s.SyncPoints) > 0 {
		opts = append(opts, transferguard.WithSyncPoints(s.SyncPoints...))
	}

	if len(s.TransferringFunctions) > 0 {
		opts = append(opts, transferguard.WithTransferringFunctions(s.TransferringFunctions...))
	}

	return opts
}

// appendOption appends a non-nil setting to a [transferguard.Option] list.
func appendOption[T any](opts []transferguard.Option, value *T, constructor func(T) transferguard.Option) []transferguard.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
