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

// Package run drives the transferguard analyses over the functions of a package.
package run

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/transferguard/internal/astutil"
	"fillmore-labs.com/transferguard/internal/config"
	"fillmore-labs.com/transferguard/internal/dataflow"
	"fillmore-labs.com/transferguard/internal/evaluator"
	"fillmore-labs.com/transferguard/internal/lockscope"
	"fillmore-labs.com/transferguard/internal/lower"
	"fillmore-labs.com/transferguard/internal/partition"
	"fillmore-labs.com/transferguard/internal/report"
)

// ErrResultMissing is returned when a required analyzer result is missing.
// This typically indicates a configuration error where the analyzer's
// Requires field is not properly set.
var ErrResultMissing = errors.New("analyzer result missing")

// Run executes the transferguard analyzer's pipeline.
func (r *Options) Run(p *analysis.Pass) (any, error) {
	// Retrieves the SSA form from the pass results.
	ssaInfo, ok := p.ResultOf[buildssa.Analyzer].(*buildssa.SSA)
	if !ok {
		return nil, fmt.Errorf("transferguard: %s %w", buildssa.Analyzer.Name, ErrResultMissing)
	}

	s, err := r.resolved()
	if err != nil {
		return nil, fmt.Errorf("transferguard: %w", err)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "TransferGuard")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	log := r.logger()
	log.LogAttrs(ctx, slog.LevelDebug, "Analyzing package",
		slog.String("package", p.Pkg.Path()),
		slog.Any("analyzers", s.analyzers),
		slog.Any("behavior", s.behavior))

	files := make([]astutil.CurrentFile, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, astutil.NewCurrentFile(p.Fset, f))
	}

	for _, fn := range ssaInfo.SrcFuncs {
		pos := fn.Pos()
		if !pos.IsValid() {
			continue
		}

		currentFile, ok := fileOf(files, pos)
		if !ok {
			astutil.InternalError(p, syntax(fn), "Function %s without file info", fn.Name())

			continue
		}

		// Skip generated files
		if currentFile.Generated() && !s.behavior.Enabled(config.IncludeGenerated) {
			continue
		}

		// Skip files and functions with nolint comment
		if currentFile.NoLint() || noLint(fn) {
			continue
		}

		rep := func(d analysis.Diagnostic) {
			if !currentFile.NoLintComment(d.Pos) {
				p.Report(d)
			}
		}

		r.function(ctx, p, rep, fn, s)
	}

	return nil, nil
}

// function runs the enabled analyses on fn.
func (r *Options) function(ctx context.Context, p *analysis.Pass, rep report.Reporter, fn *ssa.Function, s settings) {
	defer astutil.RecoverInternalError(p, syntax(fn), fn.Name())

	defer trace.StartRegion(ctx, "Function").End()

	if s.analyzers.Enabled(config.TransferAnalyzer) {
		var factory partition.Factory

		lf := lower.Lower(fn, &factory, s.lower)
		if len(lf.Operands()) > 0 {
			base := evaluator.BasePolicy{Log: r.Logger}
			states := evaluator.NewTransferStates()

			res := dataflow.Solve(ctx, lf.Graph, lf.Blocks, lf.Entry, lower.Policy{BasePolicy: base, Fn: lf}, states)
			report.Transfers(ctx, rep, lf, res, states, base)
		}
	}

	if s.analyzers.Enabled(config.LockScopeAnalyzer) {
		lockscope.Check(ctx, rep, fn)
	}
}

func fileOf(files []astutil.CurrentFile, pos token.Pos) (astutil.CurrentFile, bool) {
	for _, f := range files {
		if f.Contains(pos) {
			return f, f.Valid()
		}
	}

	return astutil.CurrentFile{}, false
}

// noLint reports whether fn or an enclosing function has a nolint doc comment.
func noLint(fn *ssa.Function) bool {
	for f := fn; f != nil; f = f.Parent() {
		decl, ok := f.Syntax().(*ast.FuncDecl)
		if ok && decl.Doc != nil && astutil.CommentHasNoLint(decl.Doc.List[len(decl.Doc.List)-1]) {
			return true
		}
	}

	return false
}

type posRange token.Pos

func (r posRange) Pos() token.Pos { return token.Pos(r) }
func (r posRange) End() token.Pos { return token.Pos(r) }

func syntax(fn *ssa.Function) analysis.Range {
	if n := fn.Syntax(); n != nil {
		return n
	}

	return posRange(fn.Pos())
}
