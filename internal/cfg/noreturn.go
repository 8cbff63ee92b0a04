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

package cfg

import (
	"go/types"

	"golang.org/x/tools/go/ssa"
)

// noReturn are functions that do not return, by [types.Func.FullName].
var noReturn = map[string]struct{}{
	"log.Fatal":             {},
	"log.Fatalf":            {},
	"log.Fatalln":           {},
	"log.Panic":             {},
	"log.Panicf":            {},
	"log.Panicln":           {},
	"(*log.Logger).Fatal":   {},
	"(*log.Logger).Fatalf":  {},
	"(*log.Logger).Fatalln": {},
	"(*log.Logger).Panic":   {},
	"(*log.Logger).Panicf":  {},
	"(*log.Logger).Panicln": {},
	"os.Exit":               {},
	"syscall.Exit":          {},
	"runtime.Goexit":        {},

	"(*testing.common).Fatal":   {},
	"(*testing.common).Fatalf":  {},
	"(*testing.common).FailNow": {},
	"(*testing.common).Skip":    {},
	"(*testing.common).Skipf":   {},
	"(*testing.common).SkipNow": {},
	"(testing.TB).Fatal":        {},
	"(testing.TB).Fatalf":       {},
	"(testing.TB).FailNow":      {},
	"(testing.TB).Skip":         {},
	"(testing.TB).Skipf":        {},
	"(testing.TB).SkipNow":      {},

	"(*github.com/sirupsen/logrus.Entry).Panic":    {},
	"(*github.com/sirupsen/logrus.Entry).Panicf":   {},
	"(*github.com/sirupsen/logrus.Entry).Panicln":  {},
	"(*github.com/sirupsen/logrus.Logger).Exit":    {},
	"(*github.com/sirupsen/logrus.Logger).Panic":   {},
	"(*github.com/sirupsen/logrus.Logger).Panicf":  {},
	"(*github.com/sirupsen/logrus.Logger).Panicln": {},
	"(*go.uber.org/zap.Logger).Fatal":              {},
	"(*go.uber.org/zap.Logger).Panic":              {},
	"(*go.uber.org/zap.SugaredLogger).Fatal":       {},
	"(*go.uber.org/zap.SugaredLogger).Fatalf":      {},
	"(*go.uber.org/zap.SugaredLogger).Fatalln":     {},
	"(*go.uber.org/zap.SugaredLogger).Fatalw":      {},
	"(*go.uber.org/zap.SugaredLogger).Panic":       {},
	"(*go.uber.org/zap.SugaredLogger).Panicf":      {},
	"(*go.uber.org/zap.SugaredLogger).Panicln":     {},
	"(*go.uber.org/zap.SugaredLogger).Panicw":      {},
	"k8s.io/klog.Exit":                             {},
	"k8s.io/klog.Exitf":                            {},
	"k8s.io/klog.Fatal":                            {},
	"k8s.io/klog.Fatalf":                           {},
	"k8s.io/klog/v2.Exit":                          {},
	"k8s.io/klog/v2.Exitf":                         {},
	"k8s.io/klog/v2.Fatal":                         {},
	"k8s.io/klog/v2.Fatalf":                        {},
}

// CantReturn reports whether the call never returns to its caller.
func CantReturn(c *ssa.CallCommon) bool {
	var name string

	switch {
	case c.IsInvoke():
		name = c.Method.FullName()

	default:
		fn := c.StaticCallee()
		if fn == nil {
			return false
		}

		if fn.Origin() != nil {
			fn = fn.Origin()
		}

		fun, ok := fn.Object().(*types.Func)
		if !ok {
			return false
		}

		name = fun.FullName()
	}

	_, ok := noReturn[name]

	return ok
}

// cantReturn reports whether b contains a call that never returns.
func cantReturn(b *ssa.BasicBlock) bool {
	for _, instr := range b.Instrs {
		if call, ok := instr.(*ssa.Call); ok && CantReturn(call.Common()) {
			return true
		}
	}

	return false
}
