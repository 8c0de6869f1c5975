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

package printer

import (
	"slices"

	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/fmterr"
)

func (p *Printer) expr(e *ast.Expr, names *OpNames) {
	if p.err != nil {
		return
	}
	if e == nil {
		p.fail(fmterr.Invalidf("cannot print a nil expression"))
		return
	}
	switch e.Type() {
	case astkind.ExprInt:
		val, err := e.Val()
		if err != nil {
			p.fail(err)
			return
		}
		p.Print(val.String())
	case astkind.ExprID:
		id, err := e.ID()
		if err != nil {
			p.fail(err)
			return
		}
		p.Print(id.Name())
		id.Free()
	case astkind.ExprOp:
		p.op(e, names)
	default:
		p.fail(fmterr.Internalf("cannot print a %s expression", e.Type()))
	}
}

// subExpr prints an operand of op, with parentheses if required.
func (p *Printer) subExpr(op astkind.OpType, arg *ast.Expr, left bool, names *OpNames) {
	parens := false
	if arg.Type() == astkind.ExprOp {
		sub, _ := arg.OpType()
		parens = needParens(op, sub, left)
	}
	if parens {
		p.Print("(")
	}
	p.expr(arg, names)
	if parens {
		p.Print(")")
	}
}

// startsWithMinus returns true if the C code of e starts with a minus sign.
func startsWithMinus(e *ast.Expr) bool {
	switch e.Type() {
	case astkind.ExprInt:
		val, _ := e.Val()
		return val != nil && val.Sign() < 0
	case astkind.ExprOp:
		op, _ := e.OpType()
		return op == astkind.OpMinus
	}
	return false
}

func (p *Printer) op(e *ast.Expr, names *OpNames) {
	op, err := e.OpType()
	if err != nil {
		p.fail(err)
		return
	}
	argList, err := e.Args()
	if err != nil {
		p.fail(err)
		return
	}
	defer argList.Free()
	args := slices.Collect(argList.Values())
	if len(args) == 0 {
		p.fail(fmterr.Invalidf("operation %s has no argument", op))
		return
	}
	switch {
	case op == astkind.OpCall:
		p.expr(args[0], names)
		p.Print("(")
		for i, arg := range args[1:] {
			if i > 0 {
				p.Print(", ")
			}
			p.expr(arg, names)
		}
		p.Print(")")
	case op == astkind.OpAccess:
		p.expr(args[0], names)
		for _, arg := range args[1:] {
			p.Print("[")
			p.expr(arg, names)
			p.Print("]")
		}
	case op == astkind.OpMin || op == astkind.OpMax:
		name := names.Name(op)
		for range args[1:] {
			p.Print(name + "(")
		}
		p.expr(args[0], names)
		for _, arg := range args[1:] {
			p.Print(", ")
			p.expr(arg, names)
			p.Print(")")
		}
	case len(args) == 1:
		p.Print(names.Name(op))
		if op == astkind.OpMinus && startsWithMinus(args[0]) {
			p.Print("(")
			p.expr(args[0], names)
			p.Print(")")
			return
		}
		p.subExpr(op, args[0], false, names)
	case op == astkind.OpFDivQ:
		p.Print(names.Name(op) + "(")
		p.expr(args[0], names)
		p.Print(", ")
		p.expr(args[1], names)
		p.Print(")")
	case op == astkind.OpCond || op == astkind.OpSelect:
		if len(args) != 3 {
			p.fail(fmterr.Internalf("operation %s should have 3 arguments, got %d", op, len(args)))
			return
		}
		p.expr(args[0], names)
		p.Print(" ? ")
		p.expr(args[1], names)
		p.Print(" : ")
		p.expr(args[2], names)
	case len(args) != 2:
		p.fail(fmterr.Internalf("operation %s should have 2 arguments, got %d", op, len(args)))
	default:
		p.subExpr(op, args[0], true, names)
		if op == astkind.OpMember {
			p.Print(names.Name(op))
		} else {
			p.Print(" " + names.Name(op) + " ")
		}
		p.subExpr(op, args[1], false, names)
	}
}
