// Copyright 2025 Google LLC
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

package ctx

import "sync/atomic"

// Stats counts allocations of the objects of a context.
type Stats struct {
	ExprsAllocated  atomic.Int64
	ExprsDuplicated atomic.Int64
	ExprsFreed      atomic.Int64

	NodesAllocated  atomic.Int64
	NodesDuplicated atomic.Int64
	NodesFreed      atomic.Int64

	ListsAllocated  atomic.Int64
	ListsDuplicated atomic.Int64
	ListsFreed      atomic.Int64
}

// Allocated returns the total number of objects allocated, including duplicates.
func (s *Stats) Allocated() int64 {
	return s.ExprsAllocated.Load() + s.NodesAllocated.Load() + s.ListsAllocated.Load()
}

// Duplicated returns the total number of objects duplicated by copy-on-write.
func (s *Stats) Duplicated() int64 {
	return s.ExprsDuplicated.Load() + s.NodesDuplicated.Load() + s.ListsDuplicated.Load()
}

// Live returns the number of objects allocated and not yet freed.
func (s *Stats) Live() int64 {
	return s.Allocated() - s.ExprsFreed.Load() - s.NodesFreed.Load() - s.ListsFreed.Load()
}
