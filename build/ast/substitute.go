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
	"github.com/gx-org/polyast/base/ordered"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
)

// IDToExpr is a reference counted map from identifiers to expressions.
// The map owns its keys and values. Entries are kept in insertion order.
type IDToExpr struct {
	ctx *ctx.Ctx
	ref int
	m   *ordered.Map[*ctx.ID, *Expr]
}

// NewIDToExpr returns an empty map.
func NewIDToExpr(c *ctx.Ctx) *IDToExpr {
	if c == nil {
		return nil
	}
	return &IDToExpr{ctx: c.Ref(), ref: 1, m: ordered.NewMap[*ctx.ID, *Expr]()}
}

// Copy returns a new reference to the map.
func (m *IDToExpr) Copy() *IDToExpr {
	if m == nil {
		return nil
	}
	m.ref++
	return m
}

// Free releases a reference to the map. Always returns nil.
func (m *IDToExpr) Free() *IDToExpr {
	if m == nil {
		return nil
	}
	m.ref--
	if m.ref > 0 {
		return nil
	}
	for id, expr := range m.m.Iter() {
		id.Free()
		expr.Free()
	}
	m.m = nil
	m.ctx.Deref()
	return nil
}

func (m *IDToExpr) cow() *IDToExpr {
	if m.ref == 1 {
		return m
	}
	m.ref--
	dup := &IDToExpr{ctx: m.ctx.Ref(), ref: 1, m: m.m.Clone()}
	for id, expr := range dup.m.Iter() {
		id.Copy()
		expr.Copy()
	}
	return dup
}

// Set maps an identifier to an expression, replacing the previous mapping of
// the identifier, if any.
func (m *IDToExpr) Set(id *ctx.ID, expr *Expr) *IDToExpr {
	if m == nil || id == nil || expr == nil {
		id.Free()
		expr.Free()
		return m.Free()
	}
	m = m.cow()
	if prev, replaced := m.m.Store(id, expr); replaced {
		// The map already owns a reference to the key.
		id.Free()
		prev.Free()
	}
	return m
}

// TryGet returns a new reference to the expression mapped to id, or nil if
// id is not in the map.
func (m *IDToExpr) TryGet(id *ctx.ID) (*Expr, bool) {
	if m == nil {
		return nil, false
	}
	expr, ok := m.m.Load(id)
	if !ok {
		return nil, false
	}
	return expr.Copy(), true
}

// Size returns the number of entries in the map.
func (m *IDToExpr) Size() int {
	if m == nil {
		return 0
	}
	return m.m.Size()
}

// SubstituteIDs replaces every identifier of e which is a key of m by a copy
// of its mapped expression. The map is released once the substitution is
// done. Subtrees without any key of m are left untouched and stay shared.
func (e *Expr) SubstituteIDs(m *IDToExpr) *Expr {
	if e == nil || m == nil {
		m.Free()
		return e.Free()
	}
	e = substitute(e, m)
	m.Free()
	return e
}

func substitute(e *Expr, m *IDToExpr) *Expr {
	switch u := e.u.(type) {
	case *intExpr:
		return e
	case *idExpr:
		expr, ok := m.TryGet(u.id)
		if !ok {
			return e
		}
		e.Free()
		return expr
	case *opExpr:
		args := e.takeArgs()
		args = args.Map(func(arg *Expr) *Expr {
			return substitute(arg, m)
		})
		return e.restoreArgs(args)
	}
	e.ctx.SetErr(fmterr.Internalf("cannot substitute identifiers in a %s expression", e.Type()))
	return e.Free()
}
