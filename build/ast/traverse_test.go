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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/asthelper"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
)

func program(b asthelper.Builder) *ast.Node {
	return b.Block(
		b.For("i", b.Int(0), ast.Lt(b.Var("i"), b.Var("n")), b.Int(1),
			b.Stmt("S", b.Var("i")),
		),
		b.Mark("kernel", b.Stmt("T")),
		b.IfElse(b.Var("c"), b.Stmt("U"), b.Block(b.Stmt("V"), b.Stmt("W"))),
	)
}

func TestForeachDescendantTopDown(t *testing.T) {
	errStop := errors.New("stop")
	tests := []struct {
		name    string
		visit   func(*ast.Node) (bool, error)
		want    []astkind.NodeType
		wantErr error
	}{
		{
			name: "all",
			visit: func(*ast.Node) (bool, error) {
				return true, nil
			},
			want: []astkind.NodeType{
				astkind.NodeBlock,
				astkind.NodeFor, astkind.NodeUser,
				astkind.NodeMark, astkind.NodeUser,
				astkind.NodeIf, astkind.NodeUser, astkind.NodeBlock, astkind.NodeUser, astkind.NodeUser,
			},
		},
		{
			name: "skip loops and conditions",
			visit: func(node *ast.Node) (bool, error) {
				return node.Type() != astkind.NodeFor && node.Type() != astkind.NodeIf, nil
			},
			want: []astkind.NodeType{
				astkind.NodeBlock,
				astkind.NodeFor,
				astkind.NodeMark, astkind.NodeUser,
				astkind.NodeIf,
			},
		},
		{
			name: "abort at mark",
			visit: func(node *ast.Node) (bool, error) {
				if node.Type() == astkind.NodeMark {
					return false, errStop
				}
				return true, nil
			},
			want: []astkind.NodeType{
				astkind.NodeBlock,
				astkind.NodeFor, astkind.NodeUser,
				astkind.NodeMark,
			},
			wantErr: errStop,
		},
	}
	for _, test := range tests {
		c := ctx.New()
		b := asthelper.New(c)
		root := program(b)
		want := program(b)
		allocated := c.Stats().Allocated()
		var got []astkind.NodeType
		err := root.ForeachDescendantTopDown(func(node *ast.Node) (bool, error) {
			got = append(got, node.Type())
			return test.visit(node)
		})
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: got error %v but want %v", test.name, err, test.wantErr)
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("%s: visited nodes:\n%v\nbut want:\n%v\ndiff:\n%s", test.name, got, test.want, cmp.Diff(got, test.want))
		}
		if n := c.Stats().Allocated() - allocated; n != 0 {
			t.Errorf("%s: %d objects allocated by a read-only traversal", test.name, n)
		}
		if root.Refs() != 1 {
			t.Errorf("%s: root has %d references after traversal but want 1", test.name, root.Refs())
		}
		if eq, _ := root.IsEqual(want); !eq {
			t.Errorf("%s: tree modified by the traversal:\n%s", test.name, root)
		}
		root.Free()
		want.Free()
		if live := c.Stats().Live(); live != 0 {
			t.Errorf("%s: %d objects leaked", test.name, live)
		}
	}
}

func TestMapDescendantBottomUp(t *testing.T) {
	c := ctx.New()
	b := asthelper.New(c)
	root := program(b)
	var order []astkind.NodeType
	root = root.MapDescendantBottomUp(func(node *ast.Node) *ast.Node {
		order = append(order, node.Type())
		if node.Type() != astkind.NodeUser {
			return node
		}
		return node.SetAnnotation(b.ID("visited"))
	})
	if root == nil {
		t.Fatalf("traversal failed: %v", c.Err())
	}
	wantOrder := []astkind.NodeType{
		astkind.NodeUser, astkind.NodeFor,
		astkind.NodeUser, astkind.NodeMark,
		astkind.NodeUser, astkind.NodeUser, astkind.NodeUser, astkind.NodeBlock, astkind.NodeIf,
		astkind.NodeBlock,
	}
	if !cmp.Equal(order, wantOrder) {
		t.Errorf("visit order:\n%v\nbut want:\n%v", order, wantOrder)
	}
	const want = "{for(i = 0, lt(i, n), 1, user(call(S, i))@visited); mark(kernel, user(call(T))@visited); if(c, user(call(U))@visited, {user(call(V))@visited; user(call(W))@visited})}"
	if got := root.String(); got != want {
		t.Errorf("got:\n%s\nbut want:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
	if dups := c.Stats().Duplicated(); dups != 0 {
		t.Errorf("%d objects duplicated while rewriting a tree referenced once", dups)
	}
	root.Free()
}

func TestMapDescendantBottomUpShared(t *testing.T) {
	c := ctx.New()
	b := asthelper.New(c)
	root := program(b)
	other := root.Copy()
	root = root.MapDescendantBottomUp(func(node *ast.Node) *ast.Node {
		if node.Type() != astkind.NodeMark {
			return node
		}
		child, err := node.MarkNode()
		if err != nil {
			return node.Free()
		}
		node.Free()
		return child
	})
	const want = "{for(i = 0, lt(i, n), 1, user(call(S, i))); user(call(T)); if(c, user(call(U)), {user(call(V)); user(call(W))})}"
	if got := root.String(); got != want {
		t.Errorf("got:\n%s\nbut want:\n%s\ndiff:\n%s", got, want, cmp.Diff(got, want))
	}
	const wantOther = "{for(i = 0, lt(i, n), 1, user(call(S, i))); mark(kernel, user(call(T))); if(c, user(call(U)), {user(call(V)); user(call(W))})}"
	if got := other.String(); got != wantOther {
		t.Errorf("other owner observed:\n%s\nbut want:\n%s", got, wantOther)
	}
	root.Free()
	other.Free()
	if live := c.Stats().Live(); live != 0 {
		t.Errorf("%d objects leaked", live)
	}
}

func TestMapDescendantBottomUpAbort(t *testing.T) {
	c := ctx.New()
	b := asthelper.New(c)
	root := program(b).MapDescendantBottomUp(func(node *ast.Node) *ast.Node {
		if node.Type() == astkind.NodeMark {
			return node.Free()
		}
		return node
	})
	if root != nil {
		t.Errorf("got %s but want nil", root)
	}
	if live := c.Stats().Live(); live != 0 {
		t.Errorf("%d objects leaked", live)
	}
}

func TestTraverseErrorNode(t *testing.T) {
	c := ctx.New()
	b := asthelper.New(c)
	root := b.Block(b.Stmt("S"), ast.NewErrorNode(c))
	err := root.ForeachDescendantTopDown(func(*ast.Node) (bool, error) { return true, nil })
	if !fmterr.IsKind(err, fmterr.Internal) {
		t.Errorf("got error %v but want an internal error", err)
	}
	if got := root.MapDescendantBottomUp(func(node *ast.Node) *ast.Node { return node }); got != nil {
		t.Errorf("got %s but want nil", got)
	}
	if live := c.Stats().Live(); live != 0 {
		t.Errorf("%d objects leaked", live)
	}
}
