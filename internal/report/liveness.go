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

package report

import (
	"slices"

	"fillmore-labs.com/transferguard/internal/lower"
)

// requireLiveness returns the uses of a transfer at site that are the first ones on some path
// from the transfer. uses are ordered by block replay and operation index.
func requireLiveness(fn *lower.Function, site lower.Site, uses []use) []use {
	if len(uses) == 0 {
		return nil
	}

	byBlock := make(map[int][]use)
	for _, u := range uses {
		byBlock[u.block] = append(byBlock[u.block], u)
	}

	first := func(b, after int) (use, bool) {
		for _, u := range byBlock[b] {
			if u.index > after {
				return u, true
			}
		}

		return use{}, false
	}

	if u, ok := first(site.Block, site.Index); ok {
		return []use{u}
	}

	g := fn.Graph

	var (
		live     []use
		visited  = make([]bool, g.Len())
		worklist = slices.Clone(g.Succs(site.Block))
	)

	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if visited[b] {
			continue
		}

		visited[b] = true

		// Uses in the transfer block here precede the transfer, reached around a loop.
		if u, ok := first(b, -1); ok {
			live = append(live, u)

			continue
		}

		worklist = append(worklist, g.Succs(b)...)
	}

	return live
}
