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

// Package testsource provides utilities for building SSA from Go source code in tests.
//
// It is designed to simplify testing of the transferguard analysis by handling common
// boilerplate code for parsing, type-checking and building Go source files.
package testsource

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const testpkg = "test"

// Build parses, type checks and builds the SSA form of a Go source file.
// The provided source `src` is automatically prefixed with the package clause
// `package test`, so it starts with imports or declarations.
//
// Imports are resolved with [importer.Default], only the standard library is available.
func Build(tb testing.TB, src string) *ssa.Package {
	tb.Helper()

	const filename = "test.go"

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, filename, wrapSource(src), parser.SkipObjectResolution)
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", src, err)
	}

	conf := &types.Config{Importer: importer.Default()}

	pkg, _, err := ssautil.BuildPackage(conf, fset, types.NewPackage(testpkg, testpkg), []*ast.File{f}, ssa.SanityCheckFunctions)
	if err != nil {
		tb.Fatalf("Failed to build source: %v", err)
	}

	return pkg
}

// Func builds src using [Build] and returns the function called name.
func Func(tb testing.TB, src, name string) *ssa.Function {
	tb.Helper()

	pkg := Build(tb, src)

	fn := pkg.Func(name)
	if fn == nil {
		tb.Fatalf("Can't find function %s", name)
	}

	return fn
}

func wrapSource(src string) *bytes.Buffer {
	const header = "package " + testpkg + "\n\n"

	var srcFile bytes.Buffer
	srcFile.Grow(len(header) + len(src))

	srcFile.WriteString(header) // ignore error
	srcFile.WriteString(src)    // ignore error

	return &srcFile
}
