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
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/transferguard/internal/partition"
)

// Describe returns a source-level description of e, like `"d"` or `"d.items"`.
func (f *Function) Describe(e partition.Element) string {
	if name, ok := sourceName(f.Value(e)); ok {
		return strconv.Quote(name)
	}

	return "value"
}

func sourceName(v ssa.Value) (string, bool) {
	switch v := v.(type) {
	case *ssa.Parameter, *ssa.FreeVar, *ssa.Global:
		return v.Name(), true

	case *ssa.Alloc:
		return v.Comment, v.Comment != "" && v.Comment != "complit" && v.Comment != "varargs" && v.Comment != "slicelit"

	case *ssa.UnOp:
		if v.Op == token.MUL {
			return sourceName(v.X)
		}

	case *ssa.FieldAddr:
		if x, ok := sourceName(v.X); ok {
			return x + "." + fieldName(v.X, v.Field), true
		}

	case *ssa.Field:
		if x, ok := sourceName(v.X); ok {
			return x + "." + fieldName(v.X, v.Field), true
		}
	}

	return "", false
}
