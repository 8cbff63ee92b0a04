// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

// Package analyzer implements the transferguard static analysis pass.
//
// # Overview
//
// TransferGuard detects Go values that are used after they have been handed
// to another goroutine. A value is transferred when it is passed to a go
// statement, captured by a goroutine closure, sent on a channel, or passed to
// a function like [sync.WaitGroup.Go] that runs its argument concurrently.
//
// Values are tracked in regions: a pointer derived from another one, like
// a field address or a slice of an array, shares its region. Transferring a
// value transfers its whole region, and any later access to the region in
// the spawning goroutine is reported.
//
// # Example
//
//	func process(d *Data) {
//	    go publish(d)
//	    d.Count++ // "d" used after transfer to another goroutine
//	}
//
// Waiting for the goroutine with [sync.WaitGroup.Wait] or [errgroup.Group.Wait]
// hands the values back.
//
// # Lock Scope
//
// The analyzer also reports [sync.Mutex] and [sync.RWMutex] locks that are
// released on some, but not all, paths of a function.
//
// [errgroup.Group.Wait]: https://pkg.go.dev/golang.org/x/sync/errgroup#Group.Wait
package analyzer
