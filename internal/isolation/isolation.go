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

// Package isolation describes the isolation domain of values and instructions.
package isolation

import (
	"fmt"
	"log/slog"
)

// Kind classifies an isolation domain. Kinds are ordered
// Unknown < Disconnected < Task < Actor.
type Kind uint8

//go:generate go tool stringer -type Kind -linecomment
const (
	// Unknown is used when nothing is known about the domain.
	Unknown Kind = iota // unknown

	// Disconnected values are not bound to any domain and can be transferred.
	Disconnected // disconnected

	// Task values are bound to a running task.
	Task // task

	// Actor values are bound to an actor, a serialized shared domain.
	Actor // actor
)

// Info is an isolation domain, a [Kind] plus an instance for task and actor domains.
type Info struct {
	kind     Kind
	instance string
}

// DisconnectedInfo returns the [Disconnected] domain.
func DisconnectedInfo() Info { return Info{kind: Disconnected} }

// TaskIsolated returns the [Task] domain of the named task.
func TaskIsolated(task string) Info { return Info{kind: Task, instance: task} }

// ActorIsolated returns the [Actor] domain of the named actor.
func ActorIsolated(actor string) Info { return Info{kind: Actor, instance: actor} }

// Kind returns the domain kind.
func (i Info) Kind() Kind { return i.kind }

// Instance returns the task or actor name.
func (i Info) Instance() string { return i.instance }

// IsDisconnected reports whether values in the domain can be transferred.
func (i Info) IsDisconnected() bool { return i.kind == Disconnected }

// Merge returns the join of both domains.
//
// It panics when both domains are bound and differ, this indicates
// inconsistent isolation information, not a user error.
func (i Info) Merge(o Info) Info {
	if i.kind < o.kind {
		i, o = o, i
	}

	if o.kind <= Disconnected || i == o {
		return i
	}

	panic(fmt.Sprintf("merging isolation %s with %s", i, o))
}

// HasSameIsolation reports whether both are the same bound domain.
// [Unknown] and [Disconnected] domains are never the same as anything.
func (i Info) HasSameIsolation(o Info) bool {
	return i.kind >= Task && i == o
}

func (i Info) String() string {
	if i.instance == "" {
		return i.kind.String()
	}

	return i.kind.String() + "(" + i.instance + ")"
}

// LogValue implements [slog.LogValuer].
func (i Info) LogValue() slog.Value {
	return slog.StringValue(i.String())
}
