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

package locks

import (
	"log"
	"sync"
)

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) leak(skip bool) int {
	c.mu.Lock() // want "Mutex.Lock is not released on all paths"
	if skip {
		return 0
	}
	c.mu.Unlock()
	return c.n
}

func (c *counter) deferred(skip bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if skip {
		return 0
	}
	return c.n
}

func (c *counter) balanced(skip bool) int {
	c.mu.Lock()
	if skip {
		c.mu.Unlock()
		return 0
	}
	n := c.n
	c.mu.Unlock()
	return n
}

func (c *counter) fatal(fail bool) int {
	c.mu.Lock()
	if fail {
		log.Fatal("fail")
	}
	n := c.n
	c.mu.Unlock()
	return n
}
