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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/transferguard/internal/dataflow"
	"fillmore-labs.com/transferguard/internal/evaluator"
	"fillmore-labs.com/transferguard/internal/lower"
	"fillmore-labs.com/transferguard/internal/partition"
)

type dumpOptions struct {
	config  lower.Config
	history bool
	logger  *slog.Logger
	verbose bool
}

// dump writes the lowered operations of fn and the converged partitions of every block to w.
func dump(ctx context.Context, w io.Writer, fn *ssa.Function, opts dumpOptions) error {
	var factory partition.Factory

	lf := lower.Lower(fn, &factory, opts.config)

	base := evaluator.BasePolicy{Log: opts.logger, Verbose: opts.verbose}
	res := dataflow.Solve(ctx, lf.Graph, lf.Blocks, lf.Entry, lower.Policy{BasePolicy: base, Fn: lf}, evaluator.NewTransferStates())

	d := dumper{w: w}

	d.printf("func %s (%d iterations)\n", fn, res.Iterations)

	for i := range lf.Len() {
		e := partition.Element(i)
		d.printf("  %s = %s %s\n", e, lf.Describe(e), lf.Isolation(e))
	}

	for b, ops := range lf.Blocks {
		d.printf("  block %d %s:\n", b, fn.Blocks[b].Comment)

		if res.Entry[b] == nil {
			d.printf("    unreachable\n")

			continue
		}

		d.printf("    entry %s\n", res.Entry[b])

		for _, op := range ops {
			d.printf("    %s\n", op)
		}

		exit := res.Exit[b]
		d.printf("    exit  %s (history %d)\n", exit, exit.HistorySize())

		if err := exit.Validate(); err != nil {
			base.Logger().LogAttrs(ctx, slog.LevelWarn, "Invalid partition",
				slog.String("func", fn.String()), slog.Int("block", b), slog.Any("error", err))
		}

		if opts.history && d.err == nil {
			d.err = exit.History().Print(w)
		}
	}

	d.printf("\n")

	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(format string, args ...any) {
	if d.err != nil {
		return
	}

	_, d.err = fmt.Fprintf(d.w, format, args...)
}
