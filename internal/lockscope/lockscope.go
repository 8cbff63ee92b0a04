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

// Package lockscope reports mutex locks that are not released on all paths.
package lockscope

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"runtime/trace"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ssa"

	"fillmore-labs.com/transferguard/internal/cfg"
	"fillmore-labs.com/transferguard/internal/report"
)

// unlocks maps lock methods to their release.
var unlocks = map[string]string{
	"(*sync.Mutex).Lock":    "(*sync.Mutex).Unlock",
	"(*sync.RWMutex).Lock":  "(*sync.RWMutex).Unlock",
	"(*sync.RWMutex).RLock": "(*sync.RWMutex).RUnlock",
}

var releaseNames = map[string]struct{}{
	"(*sync.Mutex).Unlock":    {},
	"(*sync.RWMutex).Unlock":  {},
	"(*sync.RWMutex).RUnlock": {},
}

// call is a lock or unlock call.
type call struct {
	instr ssa.CallInstruction
	name  string
	recv  ssa.Value
	index int
}

// Check reports the locks in fn that are released on some, but not all, paths.
//
// Locks without any release in fn, with deferred releases and locks
// released inside loops are not reported.
func Check(ctx context.Context, rep report.Reporter, fn *ssa.Function) {
	defer trace.StartRegion(ctx, "LockScope").End()

	locks, releases, deferred, ok := collect(fn)
	if !ok || len(locks) == 0 {
		return
	}

	g := cfg.FromSSA(fn)
	jpd := cfg.NewJointPostDominanceSetComputer(cfg.NewDeadEndBlocks(g))

	for _, lock := range locks {
		unlock := unlocks[lock.name]

		if released(deferred, unlock, lock.recv) {
			continue
		}

		partial, sameBlock := unlockBlocks(lock, releases, unlock)
		if sameBlock || len(partial) == 0 {
			continue
		}

		var leaking []int

		jpd.FindJointPostDominatingSet(lock.instr.Block().Index, partial,
			func(b int) { leaking = append(leaking, b) },
			func(int) {})

		if len(leaking) == 0 {
			continue
		}

		related := make([]analysis.RelatedInformation, 0, len(leaking))
		for _, b := range leaking {
			related = append(related, analysis.RelatedInformation{
				Pos:     blockPos(fn.Blocks[b]),
				Message: "not released on this path",
			})
		}

		rep(analysis.Diagnostic{
			Pos:     lock.instr.Pos(),
			Message: fmt.Sprintf("%s is not released on all paths (tg:lck)", shortName(lock.name)),
			Related: related,
		})
	}
}

// collect finds lock and unlock calls. It reports false when a deferred
// closure might release a lock.
func collect(fn *ssa.Function) (locks, releases, deferred []call, ok bool) {
	for _, b := range fn.Blocks {
		for i, instr := range b.Instrs {
			ci, isCall := instr.(ssa.CallInstruction)
			if !isCall {
				continue
			}

			c := ci.Common()
			if _, isDefer := ci.(*ssa.Defer); isDefer {
				if callee := c.StaticCallee(); callee != nil && callee.Parent() != nil {
					return nil, nil, nil, false
				}
			}

			name, recv, isMethod := method(c)
			if !isMethod {
				continue
			}

			lc := call{instr: ci, name: name, recv: recv, index: i}

			switch _, isLock := unlocks[name]; {
			case isLock:
				if _, isCall := ci.(*ssa.Call); isCall {
					locks = append(locks, lc)
				}

			case isUnlock(name):
				if _, isDefer := ci.(*ssa.Defer); isDefer {
					deferred = append(deferred, lc)
				} else {
					releases = append(releases, lc)
				}
			}
		}
	}

	return locks, releases, deferred, true
}

func isUnlock(name string) bool {
	_, ok := releaseNames[name]

	return ok
}

// method returns the full name and receiver of a static method call.
func method(c *ssa.CallCommon) (string, ssa.Value, bool) {
	if c.IsInvoke() || len(c.Args) == 0 {
		return "", nil, false
	}

	callee := c.StaticCallee()
	if callee == nil || callee.Signature.Recv() == nil {
		return "", nil, false
	}

	fun, ok := callee.Object().(*types.Func)
	if !ok {
		return "", nil, false
	}

	return fun.FullName(), c.Args[0], true
}

func released(calls []call, name string, recv ssa.Value) bool {
	for _, c := range calls {
		if c.name == name && sameRef(c.recv, recv) {
			return true
		}
	}

	return false
}

// unlockBlocks returns the blocks dominated by the lock releasing it.
// sameBlock is set when the lock is released later in its own block.
func unlockBlocks(lock call, releases []call, unlock string) (partial []int, sameBlock bool) {
	lb := lock.instr.Block()

	for _, r := range releases {
		if r.name != unlock || !sameRef(r.recv, lock.recv) {
			continue
		}

		rb := r.instr.Block()
		if rb == lb {
			if r.index > lock.index {
				return nil, true
			}

			continue
		}

		if lb.Dominates(rb) && !slices.Contains(partial, rb.Index) {
			partial = append(partial, rb.Index)
		}
	}

	return partial, false
}

// sameRef reports whether a and b refer to the same mutex.
func sameRef(a, b ssa.Value) bool {
	if a == b {
		return true
	}

	switch a := a.(type) {
	case *ssa.FieldAddr:
		b, ok := b.(*ssa.FieldAddr)

		return ok && a.Field == b.Field && sameRef(a.X, b.X)

	case *ssa.UnOp:
		b, ok := b.(*ssa.UnOp)

		return ok && a.Op == b.Op && a.Op == token.MUL && sameRef(a.X, b.X)

	default:
		return false
	}
}

func blockPos(b *ssa.BasicBlock) token.Pos {
	for _, instr := range b.Instrs {
		if pos := instr.Pos(); pos.IsValid() {
			return pos
		}
	}

	return b.Parent().Pos()
}

// shortName turns "(*sync.RWMutex).RLock" into "RWMutex.RLock".
func shortName(name string) string {
	if rest, ok := strings.CutPrefix(name, "(*sync."); ok {
		if typ, meth, ok := strings.Cut(rest, ")"); ok {
			return typ + meth
		}
	}

	return name
}
