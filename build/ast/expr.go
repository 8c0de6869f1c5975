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
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
)

func newExpr(c *ctx.Ctx, u exprValue) *Expr {
	c.Stats().ExprsAllocated.Add(1)
	return &Expr{ctx: c.Ref(), ref: 1, u: u}
}

// ExprFromInt returns an integer literal.
func ExprFromInt(c *ctx.Ctx, i int64) *Expr {
	if c == nil {
		return nil
	}
	return newExpr(c, &intExpr{v: ctx.NewValInt(c, i)})
}

// ExprFromVal returns an integer literal given a value.
// The value must be an integer.
func ExprFromVal(v *ctx.Val) *Expr {
	if v == nil {
		return nil
	}
	if !v.IsInt() {
		fail(v.Ctx(), fmterr.Invalidf("expecting integer value, got %s", v))
		return nil
	}
	return newExpr(v.Ctx(), &intExpr{v: v})
}

// ExprFromID returns a reference to an identifier.
func ExprFromID(id *ctx.ID) *Expr {
	if id == nil {
		return nil
	}
	return newExpr(id.Ctx(), &idExpr{id: id})
}

// AllocOp returns an operation without arguments.
// nArg is the expected number of arguments added later with AddArg.
func AllocOp(c *ctx.Ctx, op astkind.OpType, nArg int) *Expr {
	if c == nil {
		return nil
	}
	if !op.IsValid() {
		c.SetErr(fmterr.Invalidf("invalid operator %d", int(op)))
		return nil
	}
	args := NewExprList(c, nArg)
	if args == nil {
		return nil
	}
	return newExpr(c, &opExpr{op: op, args: args})
}

// OpWithArgs returns an operation given its complete list of arguments.
func OpWithArgs(op astkind.OpType, args *ExprList) *Expr {
	if args == nil {
		return nil
	}
	c := args.Ctx()
	if !op.IsValid() {
		c.SetErr(fmterr.Invalidf("invalid operator %d", int(op)))
		args.Free()
		return nil
	}
	if err := checkArgs(op, args); err != nil {
		c.SetErr(err)
		args.Free()
		return nil
	}
	return newExpr(c, &opExpr{op: op, args: args})
}

func checkArgs(op astkind.OpType, args *ExprList) error {
	n := args.Len()
	if !op.AcceptsArgs(n) {
		return fmterr.Invalidf("operator %s does not accept %d argument(s)", op, n)
	}
	if op != astkind.OpAddressOf {
		return nil
	}
	for _, arg := range args.All() {
		if arg == nil {
			return fmterr.Invalidf("missing argument to %s", op)
		}
		argOp, ok := arg.u.(*opExpr)
		if !ok || argOp.op != astkind.OpAccess {
			return fmterr.Invalidf("can only take address of access expressions")
		}
	}
	return nil
}

// AllocUnary returns an operation with a single argument.
func AllocUnary(op astkind.OpType, arg *Expr) *Expr {
	if arg == nil {
		return nil
	}
	return OpWithArgs(op, ListOf(arg.ctx, arg))
}

// AllocBinary returns an operation with two arguments.
func AllocBinary(op astkind.OpType, x, y *Expr) *Expr {
	if x == nil || y == nil {
		x.Free()
		y.Free()
		return nil
	}
	return OpWithArgs(op, ListOf(x.ctx, x, y))
}

// Neg returns -arg.
func Neg(arg *Expr) *Expr { return AllocUnary(astkind.OpMinus, arg) }

// AddressOf returns &arg. arg must be an access operation.
func AddressOf(arg *Expr) *Expr { return AllocUnary(astkind.OpAddressOf, arg) }

// Add returns x + y.
func Add(x, y *Expr) *Expr { return AllocBinary(astkind.OpAdd, x, y) }

// Sub returns x - y.
func Sub(x, y *Expr) *Expr { return AllocBinary(astkind.OpSub, x, y) }

// Mul returns x * y.
func Mul(x, y *Expr) *Expr { return AllocBinary(astkind.OpMul, x, y) }

// Div returns x / y where the division is exact.
func Div(x, y *Expr) *Expr { return AllocBinary(astkind.OpDiv, x, y) }

// PDivQ returns x / y where x is known to be non-negative.
func PDivQ(x, y *Expr) *Expr { return AllocBinary(astkind.OpPDivQ, x, y) }

// PDivR returns x % y where x is known to be non-negative.
func PDivR(x, y *Expr) *Expr { return AllocBinary(astkind.OpPDivR, x, y) }

// FDivQ returns floor(x / y).
func FDivQ(x, y *Expr) *Expr { return AllocBinary(astkind.OpFDivQ, x, y) }

// ZDivR returns x % y where the result is only compared to zero.
func ZDivR(x, y *Expr) *Expr { return AllocBinary(astkind.OpZDivR, x, y) }

// And returns x && y.
func And(x, y *Expr) *Expr { return AllocBinary(astkind.OpAnd, x, y) }

// AndThen returns x && y where y is only evaluated if x is true.
func AndThen(x, y *Expr) *Expr { return AllocBinary(astkind.OpAndThen, x, y) }

// Or returns x || y.
func Or(x, y *Expr) *Expr { return AllocBinary(astkind.OpOr, x, y) }

// OrElse returns x || y where y is only evaluated if x is false.
func OrElse(x, y *Expr) *Expr { return AllocBinary(astkind.OpOrElse, x, y) }

// Eq returns x == y.
func Eq(x, y *Expr) *Expr { return AllocBinary(astkind.OpEq, x, y) }

// Le returns x <= y.
func Le(x, y *Expr) *Expr { return AllocBinary(astkind.OpLe, x, y) }

// Lt returns x < y.
func Lt(x, y *Expr) *Expr { return AllocBinary(astkind.OpLt, x, y) }

// Ge returns x >= y.
func Ge(x, y *Expr) *Expr { return AllocBinary(astkind.OpGe, x, y) }

// Gt returns x > y.
func Gt(x, y *Expr) *Expr { return AllocBinary(astkind.OpGt, x, y) }

// prepend inserts head at the beginning of a list.
func prepend(head *Expr, tail *ExprList) *ExprList {
	if head == nil || tail == nil {
		head.Free()
		return tail.Free()
	}
	return tail.Insert(0, head)
}

// Access returns array[indices[0]][indices[1]]...
func Access(array *Expr, indices *ExprList) *Expr {
	return OpWithArgs(astkind.OpAccess, prepend(array, indices))
}

// Call returns fn(args...).
func Call(fn *Expr, args *ExprList) *Expr {
	return OpWithArgs(astkind.OpCall, prepend(fn, args))
}

// Ctx returns the context of the expression.
func (e *Expr) Ctx() *ctx.Ctx {
	if e == nil {
		return nil
	}
	return e.ctx
}

// Type returns the variant of the expression.
func (e *Expr) Type() astkind.ExprType {
	if e == nil || e.u == nil {
		return astkind.ExprError
	}
	return e.u.exprType()
}

// Refs returns the number of references to the expression.
func (e *Expr) Refs() int {
	if e == nil {
		return 0
	}
	return e.ref
}

// Copy returns a new reference to the expression.
func (e *Expr) Copy() *Expr {
	if e == nil {
		return nil
	}
	e.ref++
	return e
}

// Free releases a reference to the expression. Always returns nil.
func (e *Expr) Free() *Expr {
	if e == nil {
		return nil
	}
	e.ref--
	if e.ref > 0 {
		return nil
	}
	switch u := e.u.(type) {
	case *idExpr:
		u.id.Free()
	case *opExpr:
		u.args.Free()
	}
	e.u = nil
	e.ctx.Stats().ExprsFreed.Add(1)
	e.ctx.Deref()
	return nil
}

// Dup returns a new expression, with a single reference, equal to e.
// Children are shared.
func (e *Expr) Dup() *Expr {
	if e == nil {
		return nil
	}
	var u exprValue
	switch v := e.u.(type) {
	case *intExpr:
		u = &intExpr{v: v.v}
	case *idExpr:
		u = &idExpr{id: v.id.Copy()}
	case *opExpr:
		u = &opExpr{op: v.op, args: v.args.Copy()}
	default:
		u = &errorExpr{}
	}
	e.ctx.Stats().ExprsDuplicated.Add(1)
	e.ctx.Logger().Debug("expression duplicated", "type", e.Type())
	return newExpr(e.ctx, u)
}

func (e *Expr) cow() *Expr {
	if e == nil {
		return nil
	}
	if e.ref == 1 {
		return e
	}
	e.ref--
	return e.Dup()
}

func exprAs[V exprValue](e *Expr) (V, error) {
	var zero V
	if e == nil {
		return zero, fmterr.Invalidf("nil expression")
	}
	u, ok := e.u.(V)
	if !ok {
		err := fmterr.Invalidf("expecting a %s expression, got %s", zero.exprType(), e.Type())
		e.ctx.SetErr(err)
		return zero, err
	}
	return u, nil
}

// Val returns the value of an integer literal.
func (e *Expr) Val() (*ctx.Val, error) {
	u, err := exprAs[*intExpr](e)
	if err != nil {
		return nil, err
	}
	return u.v, nil
}

// ID returns a new reference to the identifier of an identifier expression.
func (e *Expr) ID() (*ctx.ID, error) {
	u, err := exprAs[*idExpr](e)
	if err != nil {
		return nil, err
	}
	return u.id.Copy(), nil
}

// OpType returns the operator of an operation.
func (e *Expr) OpType() (astkind.OpType, error) {
	u, err := exprAs[*opExpr](e)
	if err != nil {
		return astkind.OpError, err
	}
	return u.op, nil
}

// NArg returns the number of arguments of an operation.
func (e *Expr) NArg() (int, error) {
	u, err := exprAs[*opExpr](e)
	if err != nil {
		return -1, err
	}
	return u.args.Len(), nil
}

// Arg returns a new reference to the argument at position i of an operation.
func (e *Expr) Arg(i int) (*Expr, error) {
	u, err := exprAs[*opExpr](e)
	if err != nil {
		return nil, err
	}
	arg, err := u.args.Get(i)
	if err != nil {
		e.ctx.SetErr(err)
	}
	return arg, err
}

// Args returns a new reference to the list of arguments of an operation.
func (e *Expr) Args() (*ExprList, error) {
	u, err := exprAs[*opExpr](e)
	if err != nil {
		return nil, err
	}
	return u.args.Copy(), nil
}

// takeArgs detaches the arguments of an operation referenced once.
// The arguments must be restored with restoreArgs before the expression is
// used again. If the operation is shared, a new reference to its arguments
// is returned instead.
func (e *Expr) takeArgs() *ExprList {
	u, err := exprAs[*opExpr](e)
	if err != nil {
		return nil
	}
	if e.ref != 1 {
		return u.args.Copy()
	}
	args := u.args
	u.args = nil
	return args
}

// restoreArgs reattaches arguments taken by takeArgs.
// If the arguments have not been modified, e is returned untouched.
func (e *Expr) restoreArgs(args *ExprList) *Expr {
	u, err := exprAs[*opExpr](e)
	if err != nil || args == nil {
		args.Free()
		return e.Free()
	}
	if u.args == args {
		args.Free()
		return e
	}
	e = e.cow()
	u = e.u.(*opExpr)
	u.args.Free()
	u.args = args
	return e
}

// AddArg appends an argument to an operation.
func (e *Expr) AddArg(arg *Expr) *Expr {
	if e == nil || arg == nil {
		arg.Free()
		return e.Free()
	}
	args := e.takeArgs()
	if args == nil {
		arg.Free()
		return e.Free()
	}
	return e.restoreArgs(args.Add(arg))
}

// SetArg replaces the argument at position i of an operation.
func (e *Expr) SetArg(i int, arg *Expr) *Expr {
	if e == nil || arg == nil {
		arg.Free()
		return e.Free()
	}
	args := e.takeArgs()
	if args == nil {
		arg.Free()
		return e.Free()
	}
	return e.restoreArgs(args.SetAt(i, arg))
}

// IsEqual returns true if both expressions are structurally equal.
// Literals are compared by value, identifiers by identity and operations by
// operator then arguments.
func (e *Expr) IsEqual(other *Expr) (bool, error) {
	if e == nil || other == nil {
		return false, fmterr.Invalidf("nil expression")
	}
	if e == other {
		return true, nil
	}
	if e.Type() != other.Type() {
		return false, nil
	}
	switch x := e.u.(type) {
	case *intExpr:
		return x.v.Eq(other.u.(*intExpr).v), nil
	case *idExpr:
		return x.id == other.u.(*idExpr).id, nil
	case *opExpr:
		y := other.u.(*opExpr)
		if x.op != y.op {
			return false, nil
		}
		return x.args.IsEqual(y.args)
	}
	err := fmterr.Internalf("cannot compare %s expressions", e.Type())
	e.ctx.SetErr(err)
	return false, err
}

// ForeachDescendant calls fn on e and its descendants in preorder.
// fn returns false to skip the arguments of an operation. The expressions
// given to fn are borrowed and must not be freed.
func (e *Expr) ForeachDescendant(fn func(*Expr) (bool, error)) error {
	if e == nil {
		return fmterr.Invalidf("nil expression")
	}
	more, err := fn(e)
	if err != nil || !more {
		return err
	}
	u, ok := e.u.(*opExpr)
	if !ok {
		return nil
	}
	for _, arg := range u.args.All() {
		if err := arg.ForeachDescendant(fn); err != nil {
			return err
		}
	}
	return nil
}
