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

import (
	"go/types"
	"strconv"

	"golang.org/x/tools/go/ssa"
)

// sharedPackages hold types designed for concurrent use.
var sharedPackages = map[string]struct{}{
	"sync":                           {},
	"sync/atomic":                    {},
	"testing":                        {},
	"log":                            {},
	"log/slog":                       {},
	"golang.org/x/sync/errgroup":     {},
	"golang.org/x/sync/semaphore":    {},
	"golang.org/x/sync/singleflight": {},
}

// trackedValue reports whether v can refer to mutable memory shared by aliasing.
func (l *lowerer) trackedValue(v ssa.Value) bool {
	switch v := v.(type) {
	case nil, *ssa.Const, *ssa.Function, *ssa.Builtin:
		return false

	case *ssa.Global:
		return l.cfg.TrackGlobals

	case *ssa.MakeClosure:
		return true

	case *ssa.Range:
		return l.trackedValue(v.X)

	default:
		return trackedType(v.Type())
	}
}

// trackedType reports whether values of type t can alias mutable memory.
//
// Interfaces, channels and function values are not tracked.
func trackedType(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Pointer:
		return !sharedType(u.Elem())

	case *types.Slice, *types.Map:
		return true

	case *types.Array:
		return trackedType(u.Elem())

	case *types.Struct:
		for f := range u.Fields() {
			if trackedType(f.Type()) {
				return true
			}
		}

		return false

	case *types.Tuple:
		for v := range u.Variables() {
			if trackedType(v.Type()) {
				return true
			}
		}

		return false

	default:
		return false
	}
}

// sharedType reports whether t is a named type from a package designed for concurrent use.
func sharedType(t types.Type) bool {
	n, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}

	pkg := n.Obj().Pkg()
	if pkg == nil {
		return false
	}

	_, ok = sharedPackages[pkg.Path()]

	return ok
}

// fieldName returns the name of field i of the struct x or *x.
func fieldName(x ssa.Value, i int) string {
	t := x.Type().Underlying()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem().Underlying()
	}

	if s, ok := t.(*types.Struct); ok && i < s.NumFields() {
		return s.Field(i).Name()
	}

	return "field" + strconv.Itoa(i)
}
