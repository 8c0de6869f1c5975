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
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/asthelper"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
)

func TestValidate(t *testing.T) {
	b := asthelper.New(ctx.New())
	tests := []struct {
		node *ast.Node
		want []string
	}{
		{
			node: scop(b),
		},
		{
			node: program(b),
		},
		{
			node: ast.NodeAllocIf(b.Var("c")),
			want: []string{"missing if then branch"},
		},
		{
			node: b.Block(
				b.User(ast.AllocOp(b.Ctx, astkind.OpAdd, 2).AddArg(b.Var("x"))),
				ast.NodeAllocFor(b.ID("i")).ForSetInit(b.Int(0)),
			),
			want: []string{
				"block child 0: user expression: operator add does not accept 1 argument(s)",
				"block child 1: missing for cond",
				"block child 1: missing for inc",
			},
		},
		{
			node: b.Mark("m", b.User(ast.AllocOp(b.Ctx, astkind.OpAddressOf, 1).AddArg(b.Var("x")))),
			want: []string{"mark m: user expression: can only take address of access expressions"},
		},
	}
	for i, test := range tests {
		if test.node == nil {
			t.Errorf("test %d: cannot build node: %v", i, b.Ctx.Err())
			continue
		}
		err := ast.Validate(test.node)
		var got []string
		for _, err := range multierr.Errors(err) {
			got = append(got, strings.Split(err.Error(), "\n")...)
		}
		if strings.Join(got, "\n") != strings.Join(test.want, "\n") {
			t.Errorf("test %d: got errors:\n%s\nbut want:\n%s", i, strings.Join(got, "\n"), strings.Join(test.want, "\n"))
		}
		test.node.Free()
	}
}
