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

package a

import "sync"

type data struct {
	n     int
	items []int
}

func consume(*data) {}

func useAfterGo() {
	d := &data{}
	go consume(d)
	d.n = 1 // want "value used after transfer to another goroutine"
}

func paramUse(d *data) {
	go consume(d)
	consume(d) // want `"d" used after transfer to another goroutine`
}

func captured() {
	x := 0
	go func() { x++ }()
	x = 2 // want `"x" used after transfer to another goroutine`
}

func waited(d *data) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consume(d)
	}()
	wg.Wait()
	d.n = 1
}

func branch(c bool, d *data) {
	if c {
		go consume(d)
	}
	consume(d) // want `"d" used after transfer to another goroutine`
	consume(d)
}

func loop(ds []*data) {
	for _, d := range ds {
		go consume(d)
	}
}

func send(ch chan<- *data, d *data) {
	ch <- d
	d.n = 1 // want `"d" used after transfer to another goroutine`
}

func merged(d *data) {
	p := &d.n
	go consume(d)
	*p = 1 // want `"d.n" used after transfer to another goroutine`
}

func suppressed(d *data) {
	go consume(d)
	d.n = 1 //nolint:transferguard
}

//nolint:transferguard
func suppressedFunc(d *data) {
	go consume(d)
	d.n = 1
}
