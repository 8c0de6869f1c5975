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

package ast

import (
	"iter"

	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
)

type (
	// Element is a reference counted object stored in a list.
	Element[T any] interface {
		comparable
		Copy() T
		Free() T
		IsEqual(T) (bool, error)
	}

	// List is a reference counted copy-on-write sequence of elements.
	// The list owns a reference to each of its elements.
	List[T Element[T]] struct {
		ctx *ctx.Ctx
		ref int
		p   []T
	}

	// ExprList is a list of expressions.
	ExprList = List[*Expr]

	// NodeList is a list of nodes.
	NodeList = List[*Node]
)

// NewList returns a new empty list with a given capacity.
func NewList[T Element[T]](c *ctx.Ctx, capacity int) *List[T] {
	if c == nil {
		return nil
	}
	if capacity < 0 {
		c.SetErr(fmterr.Invalidf("negative list capacity %d", capacity))
		return nil
	}
	c.Stats().ListsAllocated.Add(1)
	return &List[T]{ctx: c.Ref(), ref: 1, p: make([]T, 0, capacity)}
}

// NewExprList returns a new empty list of expressions.
func NewExprList(c *ctx.Ctx, capacity int) *ExprList {
	return NewList[*Expr](c, capacity)
}

// NewNodeList returns a new empty list of nodes.
func NewNodeList(c *ctx.Ctx, capacity int) *NodeList {
	return NewList[*Node](c, capacity)
}

// ListOf returns a list given its elements. The list takes ownership of the
// elements. If any element is nil, all the elements are freed and nil is
// returned.
func ListOf[T Element[T]](c *ctx.Ctx, els ...T) *List[T] {
	l := NewList[T](c, len(els))
	for _, el := range els {
		l = l.Add(el)
	}
	return l
}

// Ctx returns the context of the list.
func (l *List[T]) Ctx() *ctx.Ctx {
	if l == nil {
		return nil
	}
	return l.ctx
}

// Copy returns a new reference to the list.
func (l *List[T]) Copy() *List[T] {
	if l == nil {
		return nil
	}
	l.ref++
	return l
}

// Free releases a reference to the list. Always returns nil.
func (l *List[T]) Free() *List[T] {
	if l == nil {
		return nil
	}
	l.ref--
	if l.ref > 0 {
		return nil
	}
	for _, el := range l.p {
		el.Free()
	}
	l.p = nil
	l.ctx.Stats().ListsFreed.Add(1)
	l.ctx.Deref()
	return nil
}

// Dup returns a new list with new references to the same elements.
func (l *List[T]) Dup() *List[T] {
	if l == nil {
		return nil
	}
	dup := NewList[T](l.ctx, len(l.p))
	l.ctx.Stats().ListsDuplicated.Add(1)
	for _, el := range l.p {
		dup.p = append(dup.p, el.Copy())
	}
	return dup
}

func (l *List[T]) cow() *List[T] {
	if l == nil {
		return nil
	}
	if l.ref == 1 {
		return l
	}
	l.ref--
	return l.Dup()
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.p)
}

func (l *List[T]) checkIndex(i int) error {
	if i < 0 || i >= len(l.p) {
		return fmterr.Invalidf("index %d out of bounds [0, %d)", i, len(l.p))
	}
	return nil
}

// Get returns a new reference to the element at index i.
func (l *List[T]) Get(i int) (T, error) {
	var zero T
	if l == nil {
		return zero, fmterr.Invalidf("nil list")
	}
	if err := l.checkIndex(i); err != nil {
		return zero, err
	}
	return l.p[i].Copy(), nil
}

// All returns an iterator over the elements of the list.
// The elements are borrowed: they are only valid while the list is alive and
// must not be freed by the caller.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}
		for i, el := range l.p {
			if !yield(i, el) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements of the list.
// As for All, the elements are borrowed.
func (l *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, el := range l.All() {
			if !yield(el) {
				return
			}
		}
	}
}

func (l *List[T]) fail(err error) *List[T] {
	l.ctx.SetErr(err)
	return l.Free()
}

// Add appends an element to the list.
func (l *List[T]) Add(el T) *List[T] {
	return l.Insert(l.Len(), el)
}

// Insert inserts an element at a given position.
func (l *List[T]) Insert(pos int, el T) *List[T] {
	var zero T
	if l == nil || el == zero {
		el.Free()
		return l.Free()
	}
	if pos < 0 || pos > len(l.p) {
		el.Free()
		return l.fail(fmterr.Invalidf("insertion index %d out of bounds [0, %d]", pos, len(l.p)))
	}
	l = l.cow()
	l.p = append(l.p, zero)
	copy(l.p[pos+1:], l.p[pos:])
	l.p[pos] = el
	return l
}

// SetAt replaces the element at index i.
func (l *List[T]) SetAt(i int, el T) *List[T] {
	var zero T
	if l == nil || el == zero {
		el.Free()
		return l.Free()
	}
	if err := l.checkIndex(i); err != nil {
		el.Free()
		return l.fail(err)
	}
	if l.p[i] == el {
		el.Free()
		return l
	}
	l = l.cow()
	l.p[i].Free()
	l.p[i] = el
	return l
}

// takeAt detaches the element at index i from a list referenced once.
// The list must be restored with restoreAt before it is used again.
// If the list is shared, a new reference to the element is returned instead.
func (l *List[T]) takeAt(i int) T {
	var zero T
	if l == nil {
		return zero
	}
	if err := l.checkIndex(i); err != nil {
		l.ctx.SetErr(err)
		return zero
	}
	if l.ref != 1 {
		return l.p[i].Copy()
	}
	el := l.p[i]
	l.p[i] = zero
	return el
}

// restoreAt reattaches an element taken by takeAt.
func (l *List[T]) restoreAt(i int, el T) *List[T] {
	var zero T
	if l != nil && l.ref == 1 && l.checkIndex(i) == nil && l.p[i] == zero && el != zero {
		l.p[i] = el
		return l
	}
	return l.SetAt(i, el)
}

// Map replaces each element by the result of f.
// f takes ownership of its argument. If f returns nil, the list is freed
// and nil is returned.
func (l *List[T]) Map(f func(T) T) *List[T] {
	var zero T
	for i := range l.Len() {
		el := f(l.takeAt(i))
		if el == zero {
			return l.Free()
		}
		l = l.restoreAt(i, el)
		if l == nil {
			return nil
		}
	}
	return l
}

// IsEqual returns true if both lists have the same length and equal elements.
func (l *List[T]) IsEqual(other *List[T]) (bool, error) {
	if l == nil || other == nil {
		return false, fmterr.Invalidf("nil list")
	}
	if l == other {
		return true, nil
	}
	if len(l.p) != len(other.p) {
		return false, nil
	}
	for i, el := range l.p {
		eq, err := el.IsEqual(other.p[i])
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}
