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

// Package ordered provides a map that remembers the insertion order of its keys.
package ordered

import (
	"iter"
	"maps"
	"slices"
)

// Map is a map iterating over its entries in insertion order.
type Map[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

// NewMap returns a new empty map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Store a key,value pair. The previous value, if any, is returned.
// Storing an existing key keeps its position.
func (m *Map[K, V]) Store(k K, v V) (prev V, replaced bool) {
	prev, replaced = m.m[k]
	if !replaced {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
	return
}

// Load returns a value given a key.
func (m *Map[K, V]) Load(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Iter returns an iterator to range over the elements of the map.
func (m *Map[K, V]) Iter() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.m[k]) {
				break
			}
		}
	}
}

// Clone creates a new map with the same keys and values.
// This is a shallow clone.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{
		keys: slices.Clone(m.keys),
		m:    maps.Clone(m.m),
	}
}

// Size returns the number of elements in the map.
func (m *Map[K, V]) Size() int {
	return len(m.keys)
}
