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

package partition

// Join returns the coarsest partition consistent with fst and snd.
//
// Regions sharing an element in either input are merged, a region transferred
// in either input is transferred in the result. The history of the result
// continues the history of fst and links the history of snd through a
// [CFGHistoryJoin] node tagged with the edge pred -> succ.
//
// Both inputs are canonicalized, fst is not modified otherwise.
func Join(fst, snd *Partition, pred, succ int) *Partition {
	result := fst.Clone()
	result.Canonicalize()
	snd.Canonicalize()

	result.history.PushSequenceBoundary(BoundaryCFGJoin, nil)

	// Sorted order visits the representative of each region of snd first.
	for _, e := range snd.Elements() {
		r := snd.elementToRegion[e]

		if rep := Element(r); rep != e {
			if result.IsTracked(e) {
				result.Merge(rep, e)
			} else {
				result.AssignElement(e, rep)
			}

			continue
		}

		if !result.IsTracked(e) {
			result.TrackNewElement(e)
		}

		if set, ok := snd.regionToTransferred[r]; ok {
			result.MarkTransferred(e, set)
		}
	}

	result.history.PushCFGHistoryJoin(snd.history, pred, succ)

	return result
}
