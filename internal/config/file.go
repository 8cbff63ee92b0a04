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

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML configuration file:
//
//	sync-points:
//	  - (*example.com/pool.Pool).Wait
//	transferring-functions:
//	  - (*example.com/pool.Pool).Submit
//	globals: true
//	send: false
//	lockscope: true
//
// Unset values keep the configured defaults.
type File struct {
	// SyncPoints are additional functions waiting for spawned goroutines.
	SyncPoints []string `yaml:"sync-points"`

	// TransferringFunctions are additional functions running their function arguments on another goroutine.
	TransferringFunctions []string `yaml:"transferring-functions"`

	// Globals enables tracking package-level variables.
	Globals *bool `yaml:"globals"`

	// Send enables treating channel sends as transfers.
	Send *bool `yaml:"send"`

	// LockScope enables the lock scope analyzer.
	LockScope *bool `yaml:"lockscope"`
}

// LoadFile reads the configuration file name.
func LoadFile(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("can't read config: %w", err)
	}

	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}

	return f, nil
}

// Parse decodes a configuration file, rejecting unknown keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &f, nil
}

// Apply overrides the flags set in f.
func (f *File) Apply(analyzers *Analyzers, behavior *Behavior) {
	if f.Globals != nil {
		behavior.Set(TrackGlobals, *f.Globals)
	}

	if f.Send != nil {
		behavior.Set(TransferOnSend, *f.Send)
	}

	if f.LockScope != nil {
		analyzers.Set(LockScopeAnalyzer, *f.LockScope)
	}
}
