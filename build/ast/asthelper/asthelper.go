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

// Package asthelper provides helper functions to build trees programmatically.
package asthelper

import (
	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
)

// Builder builds expressions and nodes in a context.
// All functions take ownership of their arguments.
type Builder struct {
	Ctx *ctx.Ctx
}

// New returns a builder for a context.
func New(c *ctx.Ctx) Builder {
	return Builder{Ctx: c}
}

// ID returns an identifier interned in the context.
func (b Builder) ID(name string) *ctx.ID {
	return ctx.NewID(b.Ctx, name, nil)
}

// Var returns a reference to an identifier.
func (b Builder) Var(name string) *ast.Expr {
	return ast.ExprFromID(b.ID(name))
}

// Int returns an integer literal.
func (b Builder) Int(i int64) *ast.Expr {
	return ast.ExprFromInt(b.Ctx, i)
}

// Exprs returns a list of expressions.
func (b Builder) Exprs(exprs ...*ast.Expr) *ast.ExprList {
	return ast.ListOf(b.Ctx, exprs...)
}

// Op returns an operation.
func (b Builder) Op(op astkind.OpType, args ...*ast.Expr) *ast.Expr {
	return ast.OpWithArgs(op, b.Exprs(args...))
}

// Call returns a call to a function given its name.
func (b Builder) Call(fn string, args ...*ast.Expr) *ast.Expr {
	return ast.Call(b.Var(fn), b.Exprs(args...))
}

// Access returns an access to an array given its name.
func (b Builder) Access(array string, indices ...*ast.Expr) *ast.Expr {
	return ast.Access(b.Var(array), b.Exprs(indices...))
}

// For returns a loop.
func (b Builder) For(iterator string, init, cond, inc *ast.Expr, body *ast.Node) *ast.Node {
	node := ast.NodeAllocFor(b.ID(iterator))
	node = node.ForSetInit(init)
	node = node.ForSetCond(cond)
	node = node.ForSetInc(inc)
	return node.ForSetBody(body)
}

// Degenerate returns a loop executing exactly once.
func (b Builder) Degenerate(iterator string, init *ast.Expr, body *ast.Node) *ast.Node {
	node := ast.NodeAllocFor(b.ID(iterator))
	node = node.ForSetInit(init)
	node = node.ForMarkDegenerate()
	return node.ForSetBody(body)
}

// If returns a conditional statement without else branch.
func (b Builder) If(guard *ast.Expr, then *ast.Node) *ast.Node {
	return ast.NodeAllocIf(guard).IfSetThen(then)
}

// IfElse returns a conditional statement with an else branch.
func (b Builder) IfElse(guard *ast.Expr, then, els *ast.Node) *ast.Node {
	return b.If(guard, then).IfSetElse(els)
}

// Block returns a block of statements.
func (b Builder) Block(children ...*ast.Node) *ast.Node {
	return ast.NodeBlockFromChildren(ast.ListOf(b.Ctx, children...))
}

// Mark returns a labelled subtree.
func (b Builder) Mark(label string, node *ast.Node) *ast.Node {
	return ast.NodeAllocMark(b.ID(label), node)
}

// User returns a statement evaluating an expression.
func (b Builder) User(expr *ast.Expr) *ast.Node {
	return ast.NodeAllocUser(expr)
}

// Stmt returns a statement calling a function.
func (b Builder) Stmt(fn string, args ...*ast.Expr) *ast.Node {
	return b.User(b.Call(fn, args...))
}
