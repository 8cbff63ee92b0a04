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

package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/transferguard/internal/dataflow"
	"fillmore-labs.com/transferguard/internal/evaluator"
	"fillmore-labs.com/transferguard/internal/lower"
	"fillmore-labs.com/transferguard/internal/partition"
	. "fillmore-labs.com/transferguard/internal/report"
	"fillmore-labs.com/transferguard/internal/testsource"
)

const header = `import "sync"

type T struct{ n int }

func use(*T) {}

var _ sync.WaitGroup
`

func diagnose(t *testing.T, src, name string, c lower.Config) []analysis.Diagnostic {
	t.Helper()

	fn := testsource.Func(t, header+src, name)

	var factory partition.Factory

	lf := lower.Lower(fn, &factory, c)
	states := evaluator.NewTransferStates()
	base := evaluator.BasePolicy{}

	res := dataflow.Solve(t.Context(), lf.Graph, lf.Blocks, lf.Entry, lower.Policy{BasePolicy: base, Fn: lf}, states)

	var diagnostics []analysis.Diagnostic
	Transfers(t.Context(), func(d analysis.Diagnostic) { diagnostics = append(diagnostics, d) }, lf, res, states, base)

	return diagnostics
}

func config() lower.Config {
	return lower.Config{
		SyncPoints:            lower.DefaultSyncPoints(),
		TransferringFunctions: lower.DefaultTransferringFunctions(),
		TrackGlobals:          true,
		TransferOnSend:        true,
	}
}

func messages(diagnostics []analysis.Diagnostic) []string {
	var m []string
	for _, d := range diagnostics {
		m = append(m, d.Message)
	}

	return m
}

func TestTransfers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, src string
		want      []string
	}{
		{
			name: "use after go",
			src: `
func f() {
	d := &T{}
	go use(d)
	d.n = 1
}
`,
			want: []string{"value used after transfer to another goroutine (tg:uat)"},
		},
		{
			name: "waited",
			src: `
func f(d *T) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		use(d)
	}()
	wg.Wait()
	d.n = 1
}
`,
		},
		{
			name: "first use only",
			src: `
func f(c bool, d *T) {
	if c {
		go use(d)
	}
	use(d)
	use(d)
}
`,
			want: []string{`"d" used after transfer to another goroutine (tg:uat)`},
		},
		{
			name: "loop",
			src: `
func f(ds []*T) {
	for _, d := range ds {
		go use(d)
	}
}
`,
		},
		{
			name: "send",
			src: `
func f(ch chan<- *T, d *T) {
	ch <- d
	d.n = 1
}
`,
			want: []string{`"d" used after transfer to another goroutine (tg:uat)`},
		},
		{
			name: "package state",
			src: `
var state = &T{}

func f() {
	go use(state)
}
`,
			want: []string{`value derived from package state "state" transferred to another goroutine (tg:ntr)`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := diagnose(t, tt.src, "f", config())
			assert.Equal(t, tt.want, messages(got))
		})
	}
}

func TestClosureCaptured(t *testing.T) {
	t.Parallel()

	const src = `
func f() {
	x := 0
	go func() { x++ }()
	x = 2
}
`

	got := diagnose(t, src, "f", config())

	require.Len(t, got, 1)
	assert.Equal(t, `"x" used after transfer to another goroutine (tg:uat)`, got[0].Message)
	require.Len(t, got[0].Related, 1)
	assert.Equal(t, "captured by a goroutine here", got[0].Related[0].Message)
	assert.True(t, got[0].Related[0].Pos.IsValid())
}

func TestMergePoint(t *testing.T) {
	t.Parallel()

	const src = `
func f(d *T) {
	p := &d.n
	go use(d)
	*p = 1
}
`

	got := diagnose(t, src, "f", config())

	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0].Message, `"d.n" used after transfer`), got[0].Message)

	related := relatedMessages(got[0].Related)
	assert.Equal(t, []string{"transferred here", "merged with the transferred value here"}, related)
}

func relatedMessages(related []analysis.RelatedInformation) []string {
	m := make([]string, 0, len(related))
	for _, r := range related {
		m = append(m, r.Message)
	}

	return m
}
