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
	"os"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"fillmore-labs.com/transferguard/internal/lower"
)

var (
	funcPattern string
	verbose     bool
	globals     bool
	send        bool
	history     bool
)

var rootCmd = &cobra.Command{
	Use:   "regiondump [flags] packages...",
	Short: "Print region partitions of Go functions",
	Long: `regiondump lowers the SSA form of Go functions to partition operations,
solves the region dataflow and prints the operations with the partitions at
block entry and exit.

Example:
  regiondump ./...
  regiondump --func '^Serve$' --history ./server`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.Flags().StringVar(&funcPattern, "func", "", "Dump only functions matching the regular expression")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every applied operation")
	rootCmd.Flags().BoolVar(&globals, "globals", false, "Track package-level variables")
	rootCmd.Flags().BoolVar(&send, "send", true, "Treat channel sends as transfers")
	rootCmd.Flags().BoolVar(&history, "history", false, "Print the region history at block exit")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, patterns []string) error {
	var filter *regexp.Regexp
	if funcPattern != "" {
		var err error
		if filter, err = regexp.Compile(funcPattern); err != nil {
			return fmt.Errorf("invalid function pattern: %w", err)
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fns, err := load(ctx, patterns)
	if err != nil {
		return err
	}

	if filter != nil {
		fns = slices.DeleteFunc(fns, func(fn *ssa.Function) bool { return !filter.MatchString(fn.String()) })
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "Loaded functions", slog.Int("count", len(fns)))

	opts := dumpOptions{
		config: lower.Config{
			SyncPoints:            lower.DefaultSyncPoints(),
			TransferringFunctions: lower.DefaultTransferringFunctions(),
			TrackGlobals:          globals,
			TransferOnSend:        send,
		},
		history: history,
		logger:  logger,
		verbose: verbose,
	}

	out := make([]strings.Builder, len(fns))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, fn := range fns {
		g.Go(func() error { return dump(ctx, &out[i], fn, opts) })
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i := range out {
		if _, err := io.WriteString(w, out[i].String()); err != nil {
			return err
		}
	}

	return nil
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedTypesSizes

// load returns the source functions of the packages matching patterns, in source order.
func load(ctx context.Context, patterns []string) ([]*ssa.Function, error) {
	pkgs, err := packages.Load(&packages.Config{Context: ctx, Mode: loadMode}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("can't load packages: %w", err)
	}

	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, fmt.Errorf("%d errors loading packages", n)
	}

	prog, initial := ssautil.Packages(pkgs, ssa.InstantiateGenerics)
	prog.Build()

	selected := make(map[*ssa.Package]struct{}, len(initial))
	for _, pkg := range initial {
		if pkg != nil {
			selected[pkg] = struct{}{}
		}
	}

	var fns []*ssa.Function
	for fn := range ssautil.AllFunctions(prog) {
		if fn.Synthetic != "" || fn.Origin() != nil || len(fn.Blocks) == 0 {
			continue
		}

		if _, ok := selected[fn.Pkg]; !ok {
			continue
		}

		fns = append(fns, fn)
	}

	slices.SortFunc(fns, func(a, b *ssa.Function) int {
		if c := strings.Compare(a.Pkg.Pkg.Path(), b.Pkg.Pkg.Path()); c != 0 {
			return c
		}

		if c := int(a.Pos()) - int(b.Pos()); c != 0 {
			return c
		}

		return strings.Compare(a.String(), b.String())
	})

	return fns, nil
}
