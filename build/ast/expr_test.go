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

package ast_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/asthelper"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
)

func TestExprString(t *testing.T) {
	b := asthelper.New(ctx.New())
	tests := []struct {
		expr *ast.Expr
		want string
	}{
		{
			expr: b.Int(-3),
			want: "-3",
		},
		{
			expr: b.Var("i"),
			want: "i",
		},
		{
			expr: ast.Add(b.Var("i"), b.Int(1)),
			want: "add(i, 1)",
		},
		{
			expr: b.Call("f", b.Var("i"), ast.Neg(b.Var("j"))),
			want: "call(f, i, minus(j))",
		},
		{
			expr: ast.AddressOf(b.Access("A", b.Var("i"), b.Var("j"))),
			want: "address_of(access(A, i, j))",
		},
		{
			expr: ast.ExprFromVal(ctx.NewValBigInt(b.Ctx, new(big.Int).Lsh(big.NewInt(1), 70))),
			want: "1180591620717411303424",
		},
	}
	for i, test := range tests {
		if test.expr == nil {
			t.Errorf("test %d: cannot build expression: %v", i, b.Ctx.Err())
			continue
		}
		got := test.expr.String()
		if got != test.want {
			t.Errorf("test %d: got:\n%s\nbut want:\n%s\ndiff:\n%s", i, got, test.want, cmp.Diff(got, test.want))
		}
		test.expr.Free()
	}
}

func TestExprIsEqual(t *testing.T) {
	b := asthelper.New(ctx.New())
	shared := ast.Mul(b.Var("a"), b.Int(2))
	tests := []struct {
		x, y *ast.Expr
		want bool
	}{
		{
			x:    ast.Add(b.Var("i"), b.Int(1)),
			y:    ast.Add(b.Var("i"), b.Int(1)),
			want: true,
		},
		{
			x:    ast.Add(b.Var("i"), b.Int(1)),
			y:    ast.Sub(b.Var("i"), b.Int(1)),
			want: false,
		},
		{
			x:    ast.Add(b.Var("i"), b.Int(1)),
			y:    ast.Add(b.Var("i"), b.Int(2)),
			want: false,
		},
		{
			x:    b.Var("i"),
			y:    b.Int(0),
			want: false,
		},
		{
			x:    b.Call("f", b.Var("i")),
			y:    b.Call("f", b.Var("i"), b.Var("j")),
			want: false,
		},
		{
			x:    shared.Copy(),
			y:    shared.Copy(),
			want: true,
		},
		{
			x:    ast.ExprFromID(ctx.NewID(b.Ctx, "i", "user data")),
			y:    b.Var("i"),
			want: false,
		},
	}
	for i, test := range tests {
		got, err := test.x.IsEqual(test.y)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if got != test.want {
			t.Errorf("test %d: %s.IsEqual(%s) = %v but want %v", i, test.x, test.y, got, test.want)
		}
		if sym, _ := test.y.IsEqual(test.x); sym != got {
			t.Errorf("test %d: equality is not symmetric", i)
		}
		if refl, _ := test.x.IsEqual(test.x); !refl {
			t.Errorf("test %d: equality is not reflexive", i)
		}
		test.x.Free()
		test.y.Free()
	}
	shared.Free()
	if _, err := b.Var("i").IsEqual(nil); !fmterr.IsKind(err, fmterr.Invalid) {
		t.Errorf("comparing with nil returned %v but want an invalid argument error", err)
	}
}

func TestExprErrors(t *testing.T) {
	c := ctx.New()
	b := asthelper.New(c)
	half, err := ctx.NewValRat(c, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		build func() *ast.Expr
	}{
		{
			name:  "rational literal",
			build: func() *ast.Expr { return ast.ExprFromVal(half) },
		},
		{
			name:  "address of a variable",
			build: func() *ast.Expr { return ast.AddressOf(b.Var("x")) },
		},
		{
			name:  "binary minus",
			build: func() *ast.Expr { return ast.AllocBinary(astkind.OpMinus, b.Var("x"), b.Var("y")) },
		},
		{
			name:  "ternary add",
			build: func() *ast.Expr { return b.Op(astkind.OpAdd, b.Var("x"), b.Var("y"), b.Var("z")) },
		},
		{
			name:  "invalid operator",
			build: func() *ast.Expr { return ast.AllocOp(c, astkind.OpError, 0) },
		},
		{
			name:  "nil argument",
			build: func() *ast.Expr { return ast.Add(b.Var("x"), nil) },
		},
		{
			name:  "set out of range argument",
			build: func() *ast.Expr { return ast.Add(b.Var("x"), b.Var("y")).SetArg(2, b.Int(0)) },
		},
	}
	for _, test := range tests {
		c.ResetErr()
		if got := test.build(); got != nil {
			t.Errorf("%s: got %s but want nil", test.name, got)
			got.Free()
		}
		if test.name == "nil argument" {
			continue
		}
		if !fmterr.IsKind(c.Err(), fmterr.Invalid) {
			t.Errorf("%s: got error %v but want an invalid argument error", test.name, c.Err())
		}
	}
	if got := c.Stats().Live(); got != 0 {
		t.Errorf("%d objects leaked", got)
	}
}

func TestExprAccessors(t *testing.T) {
	b := asthelper.New(ctx.New())
	e := b.Call("f", b.Var("i"), b.Int(7))
	defer e.Free()
	op, err := e.OpType()
	if err != nil || op != astkind.OpCall {
		t.Errorf("OpType() = %v, %v but want %v", op, err, astkind.OpCall)
	}
	if n, _ := e.NArg(); n != 3 {
		t.Errorf("NArg() = %d but want 3", n)
	}
	arg, err := e.Arg(2)
	if err != nil {
		t.Fatal(err)
	}
	val, err := arg.Val()
	if err != nil || val.String() != "7" {
		t.Errorf("Val() = %v, %v but want 7", val, err)
	}
	arg.Free()
	if _, err := e.Val(); !fmterr.IsKind(err, fmterr.Invalid) {
		t.Errorf("Val() on an operation returned %v but want an invalid argument error", err)
	}
	if _, err := e.Arg(3); !fmterr.IsKind(err, fmterr.Invalid) {
		t.Errorf("Arg(3) returned %v but want an invalid argument error", err)
	}
	fn, err := e.Arg(0)
	if err != nil {
		t.Fatal(err)
	}
	id, err := fn.ID()
	if err != nil || id.Name() != "f" {
		t.Errorf("ID() = %v, %v but want f", id, err)
	}
	id.Free()
	fn.Free()
}

func TestExprIncrementalOp(t *testing.T) {
	b := asthelper.New(ctx.New())
	e := ast.AllocOp(b.Ctx, astkind.OpMax, 3)
	for _, name := range []string{"a", "b", "c"} {
		e = e.AddArg(b.Var(name))
	}
	if got, want := e.String(), "max(a, b, c)"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	e = e.SetArg(1, b.Int(0))
	if got, want := e.String(), "max(a, 0, c)"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	e.Free()
}

func TestExprCopyOnWrite(t *testing.T) {
	c := ctx.New()
	b := asthelper.New(c)
	e := b.Call("f", b.Var("i"))
	dups := c.Stats().Duplicated()
	arg := b.Int(2)
	allocated := c.Stats().Allocated()
	e = e.AddArg(arg)
	if got := c.Stats().Allocated(); got != allocated {
		t.Errorf("%d objects allocated to mutate an expression referenced once", got-allocated)
	}
	if got := c.Stats().Duplicated(); got != dups {
		t.Errorf("%d objects duplicated to mutate an expression referenced once", got-dups)
	}

	other := e.Copy()
	e = e.AddArg(b.Int(3))
	if got, want := other.String(), "call(f, i, 2)"; got != want {
		t.Errorf("other owner observed %s but want %s", got, want)
	}
	if got, want := e.String(), "call(f, i, 2, 3)"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	if e == other {
		t.Errorf("shared expression mutated in place")
	}
	e.Free()
	other.Free()
	if got := c.Stats().Live(); got != 0 {
		t.Errorf("%d objects leaked", got)
	}
}
