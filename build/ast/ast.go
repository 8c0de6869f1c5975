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

// Package ast defines the tree of generated code: expressions and statement
// nodes.
//
// Expressions and nodes are reference counted and copy-on-write. Functions
// take ownership of the objects they are given: callers wanting to keep an
// object pass a copy (see Copy). A nil pointer is the error value. Functions
// receiving nil free the other objects they own and return nil as well, so
// that calls can be chained and checked once. The error is recorded on the
// context of the objects (see ctx.Ctx.Err).
//
// Accessors (Arg, ForBody, ...) return new references that the caller owns
// and needs to free.
package ast

import (
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
)

type (
	// Expr is an expression: an integer literal, an identifier or an operation.
	Expr struct {
		ctx *ctx.Ctx
		ref int
		u   exprValue
	}

	exprValue interface {
		exprType() astkind.ExprType
	}

	intExpr struct {
		v *ctx.Val
	}

	idExpr struct {
		id *ctx.ID
	}

	opExpr struct {
		op   astkind.OpType
		args *ExprList
	}

	errorExpr struct{}
)

var (
	_ exprValue = (*intExpr)(nil)
	_ exprValue = (*idExpr)(nil)
	_ exprValue = (*opExpr)(nil)
	_ exprValue = (*errorExpr)(nil)
)

func (*intExpr) exprType() astkind.ExprType   { return astkind.ExprInt }
func (*idExpr) exprType() astkind.ExprType    { return astkind.ExprID }
func (*opExpr) exprType() astkind.ExprType    { return astkind.ExprOp }
func (*errorExpr) exprType() astkind.ExprType { return astkind.ExprError }

type (
	// Node is a statement of the generated code.
	Node struct {
		ctx        *ctx.Ctx
		ref        int
		annotation *ctx.ID
		u          nodeValue
	}

	nodeValue interface {
		nodeType() astkind.NodeType
	}

	// forNode is a loop. A degenerate loop executes exactly once and does
	// not store its condition and increment.
	forNode struct {
		iterator   *Expr
		init       *Expr
		cond       *Expr
		inc        *Expr
		body       *Node
		degenerate bool
	}

	ifNode struct {
		guard *Expr
		then  *Node
		els   *Node
	}

	blockNode struct {
		children *NodeList
	}

	markNode struct {
		mark *ctx.ID
		node *Node
	}

	userNode struct {
		expr *Expr
	}

	errorNode struct{}
)

var (
	_ nodeValue = (*forNode)(nil)
	_ nodeValue = (*ifNode)(nil)
	_ nodeValue = (*blockNode)(nil)
	_ nodeValue = (*markNode)(nil)
	_ nodeValue = (*userNode)(nil)
	_ nodeValue = (*errorNode)(nil)
)

func (*forNode) nodeType() astkind.NodeType   { return astkind.NodeFor }
func (*ifNode) nodeType() astkind.NodeType    { return astkind.NodeIf }
func (*blockNode) nodeType() astkind.NodeType { return astkind.NodeBlock }
func (*markNode) nodeType() astkind.NodeType  { return astkind.NodeMark }
func (*userNode) nodeType() astkind.NodeType  { return astkind.NodeUser }
func (*errorNode) nodeType() astkind.NodeType { return astkind.NodeError }

// fail records an error on a context, if any.
func fail(c *ctx.Ctx, err error) {
	if c != nil {
		c.SetErr(err)
	}
}
