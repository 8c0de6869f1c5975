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

package astyaml

import (
	"bytes"
	"io"
	"strings"

	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type reader struct {
	ctx *ctx.Ctx
}

// failed returns the error recorded in the context when a constructor
// returned nil, positioned at node.
func (r reader) failed(node *yaml.Node) error {
	err := r.ctx.Err()
	if err == nil {
		err = fmterr.Internalf("cannot build tree")
	}
	return fmterr.Position(posOf(node), err)
}

func (r reader) id(node *yaml.Node) (*ctx.ID, error) {
	name, err := scalar(node, "an identifier")
	if err != nil {
		return nil, err
	}
	return ctx.NewID(r.ctx, name, nil), nil
}

func (r reader) exprList(node *yaml.Node) (*ast.ExprList, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmterr.PosErrorf(posOf(node), "expecting a sequence of expressions")
	}
	list := ast.NewExprList(r.ctx, len(node.Content))
	for _, item := range node.Content {
		e, err := r.expr(item)
		if err != nil {
			list.Free()
			return nil, err
		}
		list = list.Add(e)
	}
	return list, nil
}

func (r reader) op(c *cursor, val *yaml.Node) (*ast.Expr, error) {
	name, err := scalar(val, "an operation")
	if err != nil {
		return nil, err
	}
	op := astkind.OpFromString(name)
	if op == astkind.OpError {
		return nil, fmterr.PosErrorf(posOf(val), "unknown operation %q", name)
	}
	argsNode, err := c.eatKey(keyArgs)
	if err != nil {
		return nil, err
	}
	args, err := r.exprList(argsNode)
	if err != nil {
		return nil, err
	}
	e := ast.OpWithArgs(op, args)
	if e == nil {
		return nil, r.failed(val)
	}
	return e, nil
}

func (r reader) val(node *yaml.Node) (*ast.Expr, error) {
	s, err := scalar(node, "a value")
	if err != nil {
		return nil, err
	}
	v, err := ctx.ParseVal(r.ctx, s)
	if err != nil {
		return nil, fmterr.Position(posOf(node), err)
	}
	e := ast.ExprFromVal(v)
	if e == nil {
		return nil, r.failed(node)
	}
	return e, nil
}

func (r reader) expr(node *yaml.Node) (*ast.Expr, error) {
	c, err := newCursor(node)
	if err != nil {
		return nil, err
	}
	key, val, err := c.next()
	if err != nil {
		return nil, err
	}
	var e *ast.Expr
	switch key.Value {
	case keyOp:
		e, err = r.op(c, val)
	case keyID:
		var id *ctx.ID
		if id, err = r.id(val); err == nil {
			e = ast.ExprFromID(id)
		}
	case keyVal:
		e, err = r.val(val)
	default:
		err = fmterr.PosErrorf(posOf(key), "unknown expression key %q", key.Value)
	}
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, r.failed(node)
	}
	if err := c.end(); err != nil {
		return e.Free(), err
	}
	return e, nil
}

// exprAt reads the value of the next key of c, which has to be key, as an
// expression.
func (r reader) exprAt(c *cursor, key string) (*ast.Expr, error) {
	val, err := c.eatKey(key)
	if err != nil {
		return nil, err
	}
	return r.expr(val)
}

func (r reader) nodeAt(c *cursor, key string) (*ast.Node, error) {
	val, err := c.eatKey(key)
	if err != nil {
		return nil, err
	}
	return r.node(val)
}

// set calls setter on n if the previous read succeeded.
func set[T any](n *ast.Node, setter func(*ast.Node, T) *ast.Node, val T, err error) (*ast.Node, error) {
	if err != nil {
		return n.Free(), err
	}
	return setter(n, val), nil
}

func (r reader) forNode(c *cursor, val *yaml.Node) (*ast.Node, error) {
	iterator, err := r.expr(val)
	if err != nil {
		return nil, err
	}
	id, err := iterator.ID()
	iterator.Free()
	if err != nil {
		return nil, fmterr.PosErrorf(posOf(val), "loop iterator is not an identifier")
	}
	n := ast.NodeAllocFor(id)
	key, initNode, err := c.next()
	if err != nil {
		return n.Free(), err
	}
	degenerate := key.Value == keyValue
	if !degenerate && key.Value != keyInit {
		return n.Free(), fmterr.PosErrorf(posOf(key), "unexpected key %q", key.Value)
	}
	init, err := r.expr(initNode)
	if n, err = set(n, (*ast.Node).ForSetInit, init, err); err != nil {
		return nil, err
	}
	if degenerate {
		n = n.ForMarkDegenerate()
	} else {
		cond, err := r.exprAt(c, keyCond)
		if n, err = set(n, (*ast.Node).ForSetCond, cond, err); err != nil {
			return nil, err
		}
		inc, err := r.exprAt(c, keyInc)
		if n, err = set(n, (*ast.Node).ForSetInc, inc, err); err != nil {
			return nil, err
		}
	}
	if c.more() {
		body, err := r.nodeAt(c, keyBody)
		if n, err = set(n, (*ast.Node).ForSetBody, body, err); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (r reader) ifNode(c *cursor, val *yaml.Node) (*ast.Node, error) {
	guard, err := r.expr(val)
	if err != nil {
		return nil, err
	}
	n := ast.NodeAllocIf(guard)
	if !c.more() {
		return n, nil
	}
	then, err := r.nodeAt(c, keyThen)
	if n, err = set(n, (*ast.Node).IfSetThen, then, err); err != nil {
		return nil, err
	}
	if !c.more() {
		return n, nil
	}
	els, err := r.nodeAt(c, keyElse)
	return set(n, (*ast.Node).IfSetElse, els, err)
}

func (r reader) markNode(c *cursor, val *yaml.Node) (*ast.Node, error) {
	id, err := r.id(val)
	if err != nil {
		return nil, err
	}
	child, err := r.nodeAt(c, keyNode)
	if err != nil {
		id.Free()
		return nil, err
	}
	return ast.NodeAllocMark(id, child), nil
}

func (r reader) block(node *yaml.Node) (*ast.Node, error) {
	children := ast.NewNodeList(r.ctx, len(node.Content))
	for _, item := range node.Content {
		child, err := r.node(item)
		if err != nil {
			children.Free()
			return nil, err
		}
		children = children.Add(child)
	}
	return ast.NodeBlockFromChildren(children), nil
}

func (r reader) node(node *yaml.Node) (*ast.Node, error) {
	if node.Kind == yaml.SequenceNode {
		n, err := r.block(node)
		return r.checkBuilt(node, n, err)
	}
	c, err := newCursor(node)
	if err != nil {
		return nil, err
	}
	key, val, err := c.next()
	if err != nil {
		return nil, err
	}
	var n *ast.Node
	switch key.Value {
	case keyIterator:
		n, err = r.forNode(c, val)
	case keyGuard:
		n, err = r.ifNode(c, val)
	case keyMark:
		n, err = r.markNode(c, val)
	case keyUser:
		var e *ast.Expr
		if e, err = r.expr(val); err == nil {
			n = ast.NodeAllocUser(e)
		}
	default:
		err = fmterr.PosErrorf(posOf(key), "unknown node key %q", key.Value)
	}
	if n, err = r.checkBuilt(node, n, err); err != nil {
		return nil, err
	}
	if err := c.end(); err != nil {
		return n.Free(), err
	}
	return n, nil
}

func (r reader) checkBuilt(node *yaml.Node, n *ast.Node, err error) (*ast.Node, error) {
	if err != nil {
		return n.Free(), err
	}
	if n == nil {
		return nil, r.failed(node)
	}
	return n, nil
}

// content returns the root of a YAML document.
func content(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmterr.PosErrorf(posOf(doc), "expecting a document")
	}
	return doc.Content[0], nil
}

// DecodeExpr builds an expression from its YAML representation.
func DecodeExpr(c *ctx.Ctx, node *yaml.Node) (*ast.Expr, error) {
	if node.Kind == yaml.DocumentNode {
		var err error
		if node, err = content(node); err != nil {
			return nil, err
		}
	}
	return reader{ctx: c}.expr(node)
}

// DecodeNode builds a node from its YAML representation.
func DecodeNode(c *ctx.Ctx, node *yaml.Node) (*ast.Node, error) {
	if node.Kind == yaml.DocumentNode {
		var err error
		if node, err = content(node); err != nil {
			return nil, err
		}
	}
	return reader{ctx: c}.node(node)
}

func decodeDoc(r io.Reader) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmterr.PosErrorf(fmterr.Pos{}, "empty document")
		}
		return nil, fmterr.Wrap(fmterr.Parse, err)
	}
	return &doc, nil
}

// ReadExpr reads an expression from a YAML document.
func ReadExpr(c *ctx.Ctx, r io.Reader) (*ast.Expr, error) {
	doc, err := decodeDoc(r)
	if err != nil {
		return nil, err
	}
	return DecodeExpr(c, doc)
}

// ReadNode reads a node from a YAML document.
func ReadNode(c *ctx.Ctx, r io.Reader) (*ast.Node, error) {
	doc, err := decodeDoc(r)
	if err != nil {
		return nil, err
	}
	return DecodeNode(c, doc)
}

// ReadNodes reads all the nodes of a stream of YAML documents.
// Documents which cannot be read are skipped and their errors returned
// together with the nodes which could be read.
func ReadNodes(c *ctx.Ctx, r io.Reader) ([]*ast.Node, error) {
	dec := yaml.NewDecoder(r)
	var nodes []*ast.Node
	var errs error
	for i := 0; ; i++ {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nodes, multierr.Append(errs, fmterr.Wrap(fmterr.Parse, err))
		}
		n, err := DecodeNode(c, &doc)
		if err != nil {
			errs = multierr.Append(errs, fmterr.PrefixWith("document %d: ", i)(err))
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes, errs
}

// ExprFromString reads an expression from a string.
func ExprFromString(c *ctx.Ctx, s string) (*ast.Expr, error) {
	return ReadExpr(c, strings.NewReader(s))
}

// NodeFromString reads a node from a string.
func NodeFromString(c *ctx.Ctx, s string) (*ast.Node, error) {
	return ReadNode(c, strings.NewReader(s))
}

// NodeFromBytes reads a node from a buffer.
func NodeFromBytes(c *ctx.Ctx, b []byte) (*ast.Node, error) {
	return ReadNode(c, bytes.NewReader(b))
}
