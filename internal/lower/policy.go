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
	"fillmore-labs.com/transferguard/internal/evaluator"
	"fillmore-labs.com/transferguard/internal/isolation"
	"fillmore-labs.com/transferguard/internal/partition"
)

// Policy is an [evaluator.Policy] answering isolation queries for a lowered function.
type Policy struct {
	evaluator.BasePolicy

	Fn *Function
}

// IsolationRegionInfo implements [evaluator.Policy].
func (p Policy) IsolationRegionInfo(e partition.Element) isolation.Info { return p.Fn.Isolation(e) }

// IsClosureCaptured implements [evaluator.Policy].
func (p Policy) IsClosureCaptured(e partition.Element, op *partition.Operand) bool {
	return p.Fn.IsClosureCaptured(e, op)
}
