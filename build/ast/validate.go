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
	"fmt"

	"go.uber.org/multierr"

	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/fmterr"
)

type validator struct {
	errs fmterr.Errors
}

// Validate checks the invariants of a tree. All the violations found are
// returned combined in a single error (see multierr.Errors to split them).
func Validate(node *Node) error {
	if node == nil {
		return fmterr.Invalidf("nil node")
	}
	var v validator
	v.node(node)
	return multierr.Combine(v.errs.Errors()...)
}

// ValidateExpr checks the invariants of an expression.
func ValidateExpr(expr *Expr) error {
	if expr == nil {
		return fmterr.Invalidf("nil expression")
	}
	var v validator
	v.expr(expr)
	return multierr.Combine(v.errs.Errors()...)
}

func (v *validator) expr(expr *Expr) {
	switch u := expr.u.(type) {
	case *intExpr:
		if !u.v.IsInt() {
			v.errs.Appendf(fmterr.Invalid, "literal %s is not an integer", u.v)
		}
	case *idExpr:
	case *opExpr:
		if err := checkArgs(u.op, u.args); err != nil {
			v.errs.Append(err)
		}
		for i, arg := range u.args.All() {
			if arg == nil {
				v.errs.Appendf(fmterr.Invalid, "argument %d of %s is missing", i, u.op)
				continue
			}
			v.errs.Push(fmterr.PrefixWith("%s argument %d: ", u.op, i))
			v.expr(arg)
			v.errs.Pop()
		}
	default:
		v.errs.Appendf(fmterr.Invalid, "invalid expression")
	}
}

func (v *validator) optional(name string, expr *Expr) {
	if expr == nil {
		return
	}
	v.errs.Push(fmterr.PrefixWith("%s: ", name))
	v.expr(expr)
	v.errs.Pop()
}

func (v *validator) required(name string, expr *Expr) {
	if expr == nil {
		v.errs.Appendf(fmterr.Invalid, "missing %s", name)
		return
	}
	v.optional(name, expr)
}

func (v *validator) child(name string, node *Node) {
	v.errs.Push(fmterr.PrefixWith("%s: ", name))
	v.node(node)
	v.errs.Pop()
}

func (v *validator) node(node *Node) {
	switch u := node.u.(type) {
	case *forNode:
		if u.iterator.Type() != astkind.ExprID {
			v.errs.Appendf(fmterr.Invalid, "for iterator is not an identifier")
		}
		v.required("for init", u.init)
		if u.degenerate {
			if u.cond != nil || u.inc != nil {
				v.errs.Appendf(fmterr.Invalid, "degenerate for stores a condition or an increment")
			}
		} else {
			v.required("for cond", u.cond)
			v.required("for inc", u.inc)
		}
		if u.body != nil {
			v.child("for body", u.body)
		}
	case *ifNode:
		v.required("if guard", u.guard)
		if u.then == nil {
			v.errs.Appendf(fmterr.Invalid, "missing if then branch")
		} else {
			v.child("if then", u.then)
		}
		if u.els != nil {
			v.child("if else", u.els)
		}
	case *blockNode:
		for i, child := range u.children.All() {
			v.child(fmt.Sprintf("block child %d", i), child)
		}
	case *markNode:
		v.child("mark "+u.mark.Name(), u.node)
	case *userNode:
		v.required("user expression", u.expr)
	default:
		v.errs.Appendf(fmterr.Invalid, "invalid node")
	}
}
