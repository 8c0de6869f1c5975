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

func newNode(c *ctx.Ctx, u nodeValue) *Node {
	c.Stats().NodesAllocated.Add(1)
	return &Node{ctx: c.Ref(), ref: 1, u: u}
}

// NodeAllocFor returns a loop over an iterator.
// Its init, cond, inc and body are set with the ForSet methods.
func NodeAllocFor(id *ctx.ID) *Node {
	iterator := ExprFromID(id)
	if iterator == nil {
		return nil
	}
	return newNode(iterator.ctx, &forNode{iterator: iterator})
}

// NodeAllocIf returns a conditional statement given its guard.
func NodeAllocIf(guard *Expr) *Node {
	if guard == nil {
		return nil
	}
	return newNode(guard.ctx, &ifNode{guard: guard})
}

// NodeBlockFromChildren returns a block of statements.
func NodeBlockFromChildren(children *NodeList) *Node {
	if children == nil {
		return nil
	}
	return newNode(children.ctx, &blockNode{children: children})
}

// NodeFromList returns the single node of a list or a block with all the
// nodes of the list.
func NodeFromList(list *NodeList) *Node {
	if list.Len() != 1 {
		return NodeBlockFromChildren(list)
	}
	node, err := list.Get(0)
	if err != nil {
		list.ctx.SetErr(err)
	}
	list.Free()
	return node
}

// NodeAllocMark returns a node labelling a subtree.
func NodeAllocMark(id *ctx.ID, node *Node) *Node {
	if id == nil || node == nil {
		id.Free()
		return node.Free()
	}
	return newNode(node.ctx, &markNode{mark: id, node: node})
}

// NodeAllocUser returns a statement evaluating an expression.
func NodeAllocUser(expr *Expr) *Node {
	if expr == nil {
		return nil
	}
	return newNode(expr.ctx, &userNode{expr: expr})
}

// Ctx returns the context of the node.
func (n *Node) Ctx() *ctx.Ctx {
	if n == nil {
		return nil
	}
	return n.ctx
}

// Type returns the variant of the node.
func (n *Node) Type() astkind.NodeType {
	if n == nil || n.u == nil {
		return astkind.NodeError
	}
	return n.u.nodeType()
}

// Refs returns the number of references to the node.
func (n *Node) Refs() int {
	if n == nil {
		return 0
	}
	return n.ref
}

// Copy returns a new reference to the node.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	n.ref++
	return n
}

// Free releases a reference to the node. Always returns nil.
func (n *Node) Free() *Node {
	if n == nil {
		return nil
	}
	n.ref--
	if n.ref > 0 {
		return nil
	}
	switch u := n.u.(type) {
	case *forNode:
		u.iterator.Free()
		u.init.Free()
		u.cond.Free()
		u.inc.Free()
		u.body.Free()
	case *ifNode:
		u.guard.Free()
		u.then.Free()
		u.els.Free()
	case *blockNode:
		u.children.Free()
	case *markNode:
		u.mark.Free()
		u.node.Free()
	case *userNode:
		u.expr.Free()
	}
	n.u = nil
	n.annotation.Free()
	n.ctx.Stats().NodesFreed.Add(1)
	n.ctx.Deref()
	return nil
}

// Dup returns a new node, with a single reference, equal to n.
// Children are shared.
func (n *Node) Dup() *Node {
	if n == nil {
		return nil
	}
	var u nodeValue
	switch v := n.u.(type) {
	case *forNode:
		dup := &forNode{
			iterator:   v.iterator.Copy(),
			init:       v.init.Copy(),
			body:       v.body.Copy(),
			degenerate: v.degenerate,
		}
		if !v.degenerate {
			dup.cond = v.cond.Copy()
			dup.inc = v.inc.Copy()
		}
		u = dup
	case *ifNode:
		u = &ifNode{guard: v.guard.Copy(), then: v.then.Copy(), els: v.els.Copy()}
	case *blockNode:
		u = &blockNode{children: v.children.Copy()}
	case *markNode:
		u = &markNode{mark: v.mark.Copy(), node: v.node.Copy()}
	case *userNode:
		u = &userNode{expr: v.expr.Copy()}
	default:
		u = &errorNode{}
	}
	n.ctx.Stats().NodesDuplicated.Add(1)
	n.ctx.Logger().Debug("node duplicated", "type", n.Type())
	dup := newNode(n.ctx, u)
	dup.annotation = n.annotation.Copy()
	return dup
}

func (n *Node) cow() *Node {
	if n == nil {
		return nil
	}
	if n.ref == 1 {
		return n
	}
	n.ref--
	return n.Dup()
}

func nodeAs[V nodeValue](n *Node) (V, error) {
	var zero V
	if n == nil {
		return zero, fmterr.Invalidf("nil node")
	}
	u, ok := n.u.(V)
	if !ok {
		err := fmterr.Invalidf("expecting a %s node, got %s", zero.nodeType(), n.Type())
		n.ctx.SetErr(err)
		return zero, err
	}
	return u, nil
}

// setField replaces a field of a node. The node is copied if it is shared
// and the field changes.
func setField[V nodeValue, T Element[T]](n *Node, field func(V) *T, val T) *Node {
	var zero T
	u, err := nodeAs[V](n)
	if err != nil || val == zero {
		val.Free()
		return n.Free()
	}
	if *field(u) == val {
		val.Free()
		return n
	}
	n = n.cow()
	f := field(n.u.(V))
	(*f).Free()
	*f = val
	return n
}

// takeField detaches a field of a node referenced once.
// The field needs to be restored with setField before the node is used
// again. If the node is shared, a new reference to the field is returned.
func takeField[V nodeValue, T Element[T]](n *Node, field func(V) *T) T {
	var zero T
	u, err := nodeAs[V](n)
	if err != nil {
		return zero
	}
	f := field(u)
	if n.ref != 1 {
		return (*f).Copy()
	}
	val := *f
	*f = zero
	return val
}

func forIterator(f *forNode) **Expr         { return &f.iterator }
func forInit(f *forNode) **Expr             { return &f.init }
func forCond(f *forNode) **Expr             { return &f.cond }
func forInc(f *forNode) **Expr              { return &f.inc }
func forBody(f *forNode) **Node             { return &f.body }
func ifGuard(f *ifNode) **Expr              { return &f.guard }
func ifThen(f *ifNode) **Node               { return &f.then }
func ifElse(f *ifNode) **Node               { return &f.els }
func blockChildren(f *blockNode) **NodeList { return &f.children }
func markChild(f *markNode) **Node          { return &f.node }
func userExpr(f *userNode) **Expr           { return &f.expr }

// getField returns a new reference to a field of a node.
func getField[V nodeValue, T Element[T]](n *Node, field func(V) *T) (T, error) {
	u, err := nodeAs[V](n)
	if err != nil {
		var zero T
		return zero, err
	}
	return (*field(u)).Copy(), nil
}

// ForIterator returns the iterator of a loop.
func (n *Node) ForIterator() (*Expr, error) {
	return getField(n, forIterator)
}

// ForInit returns the initial value of the iterator of a loop.
func (n *Node) ForInit() (*Expr, error) {
	return getField(n, forInit)
}

// ForCond returns the condition of a loop.
// For a degenerate loop, the condition iterator <= init is returned.
func (n *Node) ForCond() (*Expr, error) {
	f, err := nodeAs[*forNode](n)
	if err != nil {
		return nil, err
	}
	if !f.degenerate {
		return f.cond.Copy(), nil
	}
	cond := Le(f.iterator.Copy(), f.init.Copy())
	if cond == nil {
		return nil, fmterr.Invalidf("degenerate for node has no init")
	}
	return cond, nil
}

// ForInc returns the increment of a loop.
// For a degenerate loop, 1 is returned.
func (n *Node) ForInc() (*Expr, error) {
	f, err := nodeAs[*forNode](n)
	if err != nil {
		return nil, err
	}
	if !f.degenerate {
		return f.inc.Copy(), nil
	}
	return ExprFromInt(n.ctx, 1), nil
}

// ForBody returns the body of a loop. Returns nil if the loop has no body.
func (n *Node) ForBody() (*Node, error) {
	return getField(n, forBody)
}

// ForIsDegenerate returns true if the loop executes exactly once.
func (n *Node) ForIsDegenerate() (bool, error) {
	f, err := nodeAs[*forNode](n)
	if err != nil {
		return false, err
	}
	return f.degenerate, nil
}

// ForSetInit sets the initial value of the iterator of a loop.
func (n *Node) ForSetInit(init *Expr) *Node {
	return setField(n, forInit, init)
}

func (n *Node) checkNotDegenerate(field string) error {
	f, err := nodeAs[*forNode](n)
	if err != nil {
		return err
	}
	if f.degenerate {
		err := fmterr.Invalidf("cannot set the %s of a degenerate for node", field)
		n.ctx.SetErr(err)
		return err
	}
	return nil
}

// ForSetCond sets the condition of a loop. The loop must not be degenerate.
func (n *Node) ForSetCond(cond *Expr) *Node {
	if err := n.checkNotDegenerate("condition"); err != nil {
		cond.Free()
		return n.Free()
	}
	return setField(n, forCond, cond)
}

// ForSetInc sets the increment of a loop. The loop must not be degenerate.
func (n *Node) ForSetInc(inc *Expr) *Node {
	if err := n.checkNotDegenerate("increment"); err != nil {
		inc.Free()
		return n.Free()
	}
	return setField(n, forInc, inc)
}

// ForSetBody sets the body of a loop.
func (n *Node) ForSetBody(body *Node) *Node {
	return setField(n, forBody, body)
}

// ForMarkDegenerate marks a loop as executing exactly once.
// Its condition and increment, if any, are released.
func (n *Node) ForMarkDegenerate() *Node {
	f, err := nodeAs[*forNode](n)
	if err != nil {
		return n.Free()
	}
	if f.degenerate {
		return n
	}
	n = n.cow()
	f = n.u.(*forNode)
	f.degenerate = true
	f.cond = f.cond.Free()
	f.inc = f.inc.Free()
	return n
}

// IfGuard returns the guard of a conditional statement.
func (n *Node) IfGuard() (*Expr, error) {
	return getField(n, ifGuard)
}

// IfThen returns the statement executed when the guard is true.
func (n *Node) IfThen() (*Node, error) {
	return getField(n, ifThen)
}

// IfHasElse returns true if the conditional statement has an else branch.
func (n *Node) IfHasElse() (bool, error) {
	f, err := nodeAs[*ifNode](n)
	if err != nil {
		return false, err
	}
	return f.els != nil, nil
}

// IfElse returns the else branch of a conditional statement, or nil if the
// statement has no else branch.
func (n *Node) IfElse() (*Node, error) {
	return getField(n, ifElse)
}

// IfSetGuard replaces the guard of a conditional statement.
func (n *Node) IfSetGuard(guard *Expr) *Node {
	return setField(n, ifGuard, guard)
}

// IfSetThen sets the statement executed when the guard is true.
func (n *Node) IfSetThen(then *Node) *Node {
	return setField(n, ifThen, then)
}

// IfSetElse sets the else branch of a conditional statement.
func (n *Node) IfSetElse(els *Node) *Node {
	return setField(n, ifElse, els)
}

// BlockChildren returns the statements of a block.
func (n *Node) BlockChildren() (*NodeList, error) {
	return getField(n, blockChildren)
}

// BlockSetChildren replaces the statements of a block.
func (n *Node) BlockSetChildren(children *NodeList) *Node {
	return setField(n, blockChildren, children)
}

// MarkID returns the label of a mark.
func (n *Node) MarkID() (*ctx.ID, error) {
	f, err := nodeAs[*markNode](n)
	if err != nil {
		return nil, err
	}
	return f.mark.Copy(), nil
}

// MarkNode returns the subtree labelled by a mark.
func (n *Node) MarkNode() (*Node, error) {
	return getField(n, markChild)
}

// MarkSetNode replaces the subtree labelled by a mark.
func (n *Node) MarkSetNode(child *Node) *Node {
	return setField(n, markChild, child)
}

// UserExpr returns the expression of a user statement.
func (n *Node) UserExpr() (*Expr, error) {
	return getField(n, userExpr)
}

// UserSetExpr replaces the expression of a user statement.
func (n *Node) UserSetExpr(expr *Expr) *Node {
	return setField(n, userExpr, expr)
}

// Annotation returns a new reference to the annotation of a node, or nil if
// the node has no annotation.
func (n *Node) Annotation() *ctx.ID {
	if n == nil {
		return nil
	}
	return n.annotation.Copy()
}

// SetAnnotation replaces the annotation of a node.
func (n *Node) SetAnnotation(annotation *ctx.ID) *Node {
	if n == nil || annotation == nil {
		annotation.Free()
		return n.Free()
	}
	if n.annotation == annotation {
		annotation.Free()
		return n
	}
	n = n.cow()
	n.annotation.Free()
	n.annotation = annotation
	return n
}

func isEqualOrBothNil[T Element[T]](x, y T) (bool, error) {
	var zero T
	if x == zero || y == zero {
		return x == y, nil
	}
	return x.IsEqual(y)
}

// IsEqual returns true if both nodes are structurally equal.
// Annotations are ignored.
func (n *Node) IsEqual(other *Node) (bool, error) {
	if n == nil || other == nil {
		return false, fmterr.Invalidf("nil node")
	}
	if n == other {
		return true, nil
	}
	if n.Type() != other.Type() {
		return false, nil
	}
	var exprs []*Expr
	var nodes []*Node
	switch x := n.u.(type) {
	case *forNode:
		y := other.u.(*forNode)
		if x.degenerate != y.degenerate {
			return false, nil
		}
		exprs = []*Expr{x.iterator, y.iterator, x.init, y.init, x.cond, y.cond, x.inc, y.inc}
		nodes = []*Node{x.body, y.body}
	case *ifNode:
		y := other.u.(*ifNode)
		exprs = []*Expr{x.guard, y.guard}
		nodes = []*Node{x.then, y.then, x.els, y.els}
	case *blockNode:
		return x.children.IsEqual(other.u.(*blockNode).children)
	case *markNode:
		y := other.u.(*markNode)
		if x.mark != y.mark {
			return false, nil
		}
		nodes = []*Node{x.node, y.node}
	case *userNode:
		exprs = []*Expr{x.expr, other.u.(*userNode).expr}
	default:
		err := fmterr.Internalf("cannot compare %s nodes", n.Type())
		n.ctx.SetErr(err)
		return false, err
	}
	for i := 0; i < len(exprs); i += 2 {
		if eq, err := isEqualOrBothNil(exprs[i], exprs[i+1]); err != nil || !eq {
			return false, err
		}
	}
	for i := 0; i < len(nodes); i += 2 {
		if eq, err := isEqualOrBothNil(nodes[i], nodes[i+1]); err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

// ForeachExpr calls fn on each expression held directly by the node.
// The condition and increment of degenerate loops are not visited.
// The expressions given to fn are borrowed and must not be freed.
func (n *Node) ForeachExpr(fn func(*Expr) error) error {
	if n == nil {
		return fmterr.Invalidf("nil node")
	}
	var exprs []*Expr
	switch u := n.u.(type) {
	case *forNode:
		exprs = []*Expr{u.iterator, u.init, u.cond, u.inc}
	case *ifNode:
		exprs = []*Expr{u.guard}
	case *userNode:
		exprs = []*Expr{u.expr}
	}
	for _, expr := range exprs {
		if expr == nil {
			continue
		}
		if err := fn(expr); err != nil {
			return err
		}
	}
	return nil
}
