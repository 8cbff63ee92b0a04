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

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "fillmore-labs.com/transferguard/internal/config"
)

func TestBitMask(t *testing.T) {
	t.Parallel()

	b := NewBitMask(TrackGlobals)

	assert.True(t, b.Enabled(TrackGlobals))
	assert.False(t, b.Enabled(TransferOnSend))

	b.Set(TransferOnSend, true)
	b.Disable(TrackGlobals)

	assert.False(t, b.Enabled(TrackGlobals))
	assert.True(t, b.Enabled(TransferOnSend))
	assert.Equal(t, uint64(TransferOnSend), b.LogValue().Uint64())
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	a := DefaultAnalyzers()
	assert.True(t, a.Enabled(TransferAnalyzer))
	assert.True(t, a.Enabled(LockScopeAnalyzer))

	b := DefaultBehavior()
	assert.True(t, b.Enabled(TransferOnSend))
	assert.False(t, b.Enabled(TrackGlobals))
	assert.False(t, b.Enabled(IncludeGenerated))
}

func TestParse(t *testing.T) {
	t.Parallel()

	const src = `sync-points:
  - (*example.com/pool.Pool).Wait
transferring-functions:
  - (*example.com/pool.Pool).Submit
globals: true
lockscope: false
`

	f, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"(*example.com/pool.Pool).Wait"}, f.SyncPoints)
	assert.Equal(t, []string{"(*example.com/pool.Pool).Submit"}, f.TransferringFunctions)

	analyzers, behavior := DefaultAnalyzers(), DefaultBehavior()
	f.Apply(&analyzers, &behavior)

	assert.True(t, behavior.Enabled(TrackGlobals))
	assert.True(t, behavior.Enabled(TransferOnSend), "unset values keep their default")
	assert.False(t, analyzers.Enabled(LockScopeAnalyzer))
	assert.True(t, analyzers.Enabled(TransferAnalyzer))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, src string
		ok        bool
	}{
		{"empty", "", true},
		{"unknown key", "squelch: true\n", false},
		{"wrong type", "globals: [1]\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.src))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name := filepath.Join(dir, "transferguard.yaml")
	require.NoError(t, os.WriteFile(name, []byte("send: false\n"), 0o600))

	f, err := LoadFile(name)
	require.NoError(t, err)
	require.NotNil(t, f.Send)
	assert.False(t, *f.Send)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
