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

package astyaml_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/asthelper"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ast/astyaml"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
)

func TestExprToString(t *testing.T) {
	b := asthelper.New(ctx.New())
	tests := []struct {
		expr *ast.Expr
		want string
	}{
		{
			expr: ast.Add(b.Var("i"), b.Int(1)),
			want: "{op: add, args: [{id: i}, {val: 1}]}\n",
		},
		{
			expr: b.Int(-3),
			want: "{val: -3}\n",
		},
		{
			expr: b.Call("f"),
			want: "{op: call, args: [{id: f}]}\n",
		},
	}
	for i, test := range tests {
		got, err := astyaml.ExprToString(test.expr, astyaml.Flow())
		if err != nil {
			t.Errorf("test %d: %+v", i, err)
			continue
		}
		if got != test.want {
			t.Errorf("test %d: got:\n%s\nbut want:\n%s", i, got, test.want)
		}
		test.expr.Free()
	}
}

func TestExprRoundTrip(t *testing.T) {
	b := asthelper.New(ctx.New())
	huge, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	exprs := []*ast.Expr{
		b.Var("i"),
		b.Var("0"),
		b.Int(0),
		ast.ExprFromVal(ctx.NewValBigInt(b.Ctx, huge)),
		ast.Le(ast.Add(b.Var("i"), b.Int(1)), b.Op(astkind.OpMin, b.Var("n"), b.Var("m"), b.Int(8))),
		b.Op(astkind.OpSelect, ast.Ge(b.Var("x"), b.Int(0)), b.Var("x"), ast.Neg(b.Var("x"))),
		ast.AddressOf(b.Access("A", b.Var("i"), ast.FDivQ(b.Var("j"), b.Int(2)))),
		b.Op(astkind.OpMember, b.Var("s"), b.Var("x")),
	}
	for i, expr := range exprs {
		if expr == nil {
			t.Fatalf("expression %d: %v", i, b.Ctx.Err())
		}
		for _, opts := range [][]astyaml.Option{nil, {astyaml.Flow()}} {
			text, err := astyaml.ExprToString(expr, opts...)
			if err != nil {
				t.Fatalf("expression %d: %+v", i, err)
			}
			got, err := astyaml.ExprFromString(b.Ctx, text)
			if err != nil {
				t.Fatalf("expression %d: cannot read:\n%s\nerror: %+v", i, text, err)
			}
			eq, err := got.IsEqual(expr)
			if err != nil {
				t.Fatal(err)
			}
			if !eq {
				t.Errorf("expression %d: got %s but want %s", i, got, expr)
			}
			got.Free()
		}
		expr.Free()
	}
}

func TestNodeRoundTrip(t *testing.T) {
	b := asthelper.New(ctx.New())
	noBody := ast.NodeAllocFor(b.ID("i")).
		ForSetInit(b.Int(0)).
		ForSetCond(ast.Lt(b.Var("i"), b.Var("n"))).
		ForSetInc(b.Int(1))
	nodes := []*ast.Node{
		b.Stmt("S", b.Var("i")),
		b.If(
			ast.Ge(b.Var("n"), b.Int(0)),
			b.For("i", b.Int(0), ast.Le(b.Var("i"), b.Var("n")), b.Int(1),
				b.Stmt("A", b.Var("i")),
			),
		),
		b.IfElse(b.Var("a"), b.Stmt("S"), b.IfElse(b.Var("b"), b.Stmt("T"), b.Block())),
		ast.NodeAllocIf(b.Var("c")),
		b.Degenerate("j", b.Var("k"), b.Stmt("T", b.Var("j"))),
		ast.NodeAllocFor(b.ID("j")).ForSetInit(b.Var("k")).ForMarkDegenerate(),
		noBody,
		b.Mark("kernel", b.Block(
			b.Stmt("S"),
			b.Mark("inner", b.Stmt("T")),
		)),
		b.Block(),
		b.Stmt("S").SetAnnotation(b.ID("note")),
		b.Block(b.Stmt("S"), b.Stmt("T").SetAnnotation(b.ID("note"))),
	}
	for i, node := range nodes {
		if node == nil {
			t.Fatalf("node %d: %v", i, b.Ctx.Err())
		}
		for _, opts := range [][]astyaml.Option{nil, {astyaml.Flow()}, {astyaml.Indent(4)}} {
			text, err := astyaml.NodeToString(node, opts...)
			if err != nil {
				t.Fatalf("node %d: %+v", i, err)
			}
			got, err := astyaml.NodeFromString(b.Ctx, text)
			if err != nil {
				t.Fatalf("node %d: cannot read:\n%s\nerror: %+v", i, text, err)
			}
			eq, err := got.IsEqual(node)
			if err != nil {
				t.Fatal(err)
			}
			if !eq {
				t.Errorf("node %d: got %s but want %s", i, got, node)
			}
			again, err := astyaml.NodeToString(got, opts...)
			if err != nil {
				t.Fatal(err)
			}
			if again != text {
				t.Errorf("node %d: second serialization differs:\n%s", i, cmp.Diff(text, again))
			}
			got.Free()
		}
		node.Free()
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		node bool
		kind fmterr.Kind
		pos  fmterr.Pos
		want string
	}{
		{
			name: "empty document",
			src:  "",
			kind: fmterr.Parse,
			want: "empty document",
		},
		{
			name: "empty mapping",
			src:  "{}",
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 1},
			want: "missing key",
		},
		{
			name: "extra key",
			src:  "{id: i, val: 1}",
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 9},
			want: `unexpected key "val"`,
		},
		{
			name: "args first",
			src:  "{args: [], op: add}",
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 2},
			want: `unknown expression key "args"`,
		},
		{
			name: "unknown operation",
			src:  "{op: foo, args: []}",
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 6},
			want: `unknown operation "foo"`,
		},
		{
			name: "wrong arity",
			src:  "{op: minus, args: [{id: a}, {id: b}]}",
			kind: fmterr.Invalid,
			pos:  fmterr.Pos{Line: 1, Column: 6},
			want: "does not accept 2 argument(s)",
		},
		{
			name: "rational value",
			src:  "{val: 1/2}",
			kind: fmterr.Invalid,
			pos:  fmterr.Pos{Line: 1, Column: 7},
			want: "expecting integer value",
		},
		{
			name: "missing then",
			src:  "{guard: {id: c}, else: {user: {id: s}}}",
			node: true,
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 18},
			want: `expecting different key: got "else" but want "then"`,
		},
		{
			name: "missing init",
			src:  "{iterator: {id: i}, cond: {id: c}}",
			node: true,
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 21},
			want: `unexpected key "cond"`,
		},
		{
			name: "missing inc",
			src:  "{iterator: {id: i}, init: {val: 0}, cond: {id: c}}",
			node: true,
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 1},
			want: `missing key "inc"`,
		},
		{
			name: "iterator is not an identifier",
			src:  "{iterator: {val: 0}, value: {val: 0}}",
			node: true,
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 12},
			want: "loop iterator is not an identifier",
		},
		{
			name: "extra key in mark",
			src:  "{mark: m, node: {user: {id: s}}, extra: 1}",
			node: true,
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 34},
			want: `unexpected key "extra"`,
		},
		{
			name: "block of scalars",
			src:  "[a]",
			node: true,
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 1, Column: 2},
			want: "expecting a mapping",
		},
		{
			name: "multiline",
			src: `guard:
  id: c
then:
  users: {id: s}
`,
			node: true,
			kind: fmterr.Parse,
			pos:  fmterr.Pos{Line: 4, Column: 3},
			want: `unknown node key "users"`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := ctx.New()
			var err error
			if test.node {
				var n *ast.Node
				n, err = astyaml.NodeFromString(c, test.src)
				n.Free()
			} else {
				var e *ast.Expr
				e, err = astyaml.ExprFromString(c, test.src)
				e.Free()
			}
			if err == nil {
				t.Fatalf("reading %q did not return an error", test.src)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("got error %q but want an error containing %q", err.Error(), test.want)
			}
			if got := fmterr.KindOf(err); got != test.kind {
				t.Errorf("got error kind %s but want %s", got, test.kind)
			}
			var posErr fmterr.ErrorWithPos
			if !errors.As(err, &posErr) {
				if test.pos.IsValid() {
					t.Errorf("error %q has no position", err)
				}
				return
			}
			if got := posErr.Pos(); got != test.pos {
				t.Errorf("got position %s but want %s", got, test.pos)
			}
		})
	}
}

func TestReadNodes(t *testing.T) {
	c := ctx.New()
	const src = `user: {id: S}
---
- user: {id: T}
- user: {id: U}
---
guard: {id: c}
user: {id: V}
---
mark: m
node: {user: {id: W}}
`
	nodes, err := astyaml.ReadNodes(c, strings.NewReader(src))
	var got []string
	for _, n := range nodes {
		got = append(got, n.String())
		n.Free()
	}
	want := []string{"user(S)", "{user(T); user(U)}", "mark(m, user(W))"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("unexpected nodes (-got +want):\n%s", diff)
	}
	if err == nil {
		t.Fatal("invalid document did not return an error")
	}
	if !strings.HasPrefix(err.Error(), "document 2: ") {
		t.Errorf("got error %q but want an error on document 2", err)
	}
}

func TestWriteNodes(t *testing.T) {
	b := asthelper.New(ctx.New())
	nodes := []*ast.Node{b.Stmt("S"), b.Block(b.Stmt("T"))}
	var out strings.Builder
	if err := astyaml.WriteNodes(&out, nodes, astyaml.Flow()); err != nil {
		t.Fatal(err)
	}
	got, err := astyaml.ReadNodes(b.Ctx, strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(got) != len(nodes) {
		t.Fatalf("got %d nodes but want %d", len(got), len(nodes))
	}
	for i, n := range got {
		eq, err := n.IsEqual(nodes[i])
		if err != nil {
			t.Fatal(err)
		}
		if !eq {
			t.Errorf("node %d: got %s but want %s", i, n, nodes[i])
		}
		n.Free()
		nodes[i].Free()
	}
}

func TestWriteErrors(t *testing.T) {
	if _, err := astyaml.NodeToString(nil); !fmterr.IsKind(err, fmterr.Invalid) {
		t.Errorf("got error %v but want an invalid error", err)
	}
	c := ctx.New()
	noInit := ast.NodeAllocFor(ctx.NewID(c, "i", nil))
	defer noInit.Free()
	if _, err := astyaml.NodeToString(noInit); !fmterr.IsKind(err, fmterr.Invalid) {
		t.Errorf("got error %v but want an invalid error", err)
	}
	b := asthelper.New(c)
	elseOnly := ast.NodeAllocIf(b.Var("c")).IfSetElse(b.Stmt("T"))
	defer elseOnly.Free()
	if elseOnly == nil {
		t.Fatal(c.Err())
	}
	if _, err := astyaml.NodeToString(elseOnly); !fmterr.IsKind(err, fmterr.Invalid) {
		t.Errorf("got error %v but want an invalid error", err)
	}
}
