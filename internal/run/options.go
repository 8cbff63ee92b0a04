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

package run

import (
	"log/slog"
	"sync"

	"fillmore-labs.com/transferguard/internal/config"
	"fillmore-labs.com/transferguard/internal/lower"
)

// Options represent configuration options for the transferguard analyzer.
type Options struct {
	// Analyzers represent the Analyzers to be enabled.
	Analyzers config.Analyzers

	// Behavior holds behavioral options.
	Behavior config.Behavior

	// SyncPoints are additional functions waiting for spawned goroutines.
	SyncPoints []string

	// TransferringFunctions are additional functions running their function arguments on another goroutine.
	TransferringFunctions []string

	// ConfigFile is an optional YAML configuration file, read on first use.
	ConfigFile string

	// Logger receives debug logs, nil discards them.
	Logger *slog.Logger

	once     sync.Once
	settings settings
	err      error
}

// settings are the options merged with the configuration file.
type settings struct {
	analyzers config.Analyzers
	behavior  config.Behavior
	lower     lower.Config
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{
		Analyzers: config.DefaultAnalyzers(),
		Behavior:  config.DefaultBehavior(),
	}
}

func (r *Options) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return r.Logger
}

// resolved returns the settings, loading the configuration file once.
func (r *Options) resolved() (settings, error) {
	r.once.Do(func() { r.settings, r.err = r.resolve() })

	return r.settings, r.err
}

func (r *Options) resolve() (settings, error) {
	s := settings{analyzers: r.Analyzers, behavior: r.Behavior}

	syncPoints := append(lower.DefaultSyncPoints(), r.SyncPoints...)
	transferring := append(lower.DefaultTransferringFunctions(), r.TransferringFunctions...)

	if r.ConfigFile != "" {
		f, err := config.LoadFile(r.ConfigFile)
		if err != nil {
			return settings{}, err
		}

		f.Apply(&s.analyzers, &s.behavior)

		syncPoints = append(syncPoints, f.SyncPoints...)
		transferring = append(transferring, f.TransferringFunctions...)
	}

	s.lower = lower.Config{
		SyncPoints:            syncPoints,
		TransferringFunctions: transferring,
		TrackGlobals:          s.behavior.Enabled(config.TrackGlobals),
		TransferOnSend:        s.behavior.Enabled(config.TransferOnSend),
	}

	return s, nil
}
