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
	"io"

	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ctx"
	"github.com/gx-org/polyast/build/fmterr"
	"gopkg.in/yaml.v3"
)

const (
	keyOp   = "op"
	keyArgs = "args"
	keyID   = "id"
	keyVal  = "val"

	keyIterator = "iterator"
	keyValue    = "value"
	keyInit     = "init"
	keyCond     = "cond"
	keyInc      = "inc"
	keyBody     = "body"
	keyMark     = "mark"
	keyNode     = "node"
	keyUser     = "user"
	keyGuard    = "guard"
	keyThen     = "then"
	keyElse     = "else"
)

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func mapping(pairs ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: pairs}
}

func sequence(items []*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func idNode(id *ctx.ID) *yaml.Node {
	return str(id.Name())
}

// EncodeExpr returns the YAML representation of an expression.
func EncodeExpr(e *ast.Expr) (*yaml.Node, error) {
	switch e.Type() {
	case astkind.ExprOp:
		op, err := e.OpType()
		if err != nil {
			return nil, err
		}
		args, err := e.Args()
		if err != nil {
			return nil, err
		}
		defer args.Free()
		items := make([]*yaml.Node, 0, args.Len())
		for _, arg := range args.All() {
			item, err := EncodeExpr(arg)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return mapping(
			str(keyOp), str(op.String()),
			str(keyArgs), sequence(items),
		), nil
	case astkind.ExprID:
		id, err := e.ID()
		if err != nil {
			return nil, err
		}
		defer id.Free()
		return mapping(str(keyID), idNode(id)), nil
	case astkind.ExprInt:
		val, err := e.Val()
		if err != nil {
			return nil, err
		}
		return mapping(str(keyVal), &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: val.String(),
		}), nil
	}
	if e == nil {
		return nil, fmterr.Invalidf("cannot encode a nil expression")
	}
	return nil, fmterr.Internalf("cannot encode a %s expression", e.Type())
}

type nodeEncoder struct {
	pairs []*yaml.Node
	err   error
}

func (enc *nodeEncoder) expr(key string, get func() (*ast.Expr, error)) {
	if enc.err != nil {
		return
	}
	e, err := get()
	if err != nil {
		enc.err = err
		return
	}
	defer e.Free()
	val, err := EncodeExpr(e)
	if err != nil {
		enc.err = err
		return
	}
	enc.pairs = append(enc.pairs, str(key), val)
}

// node appends a child node. A nil child is skipped.
func (enc *nodeEncoder) node(key string, get func() (*ast.Node, error)) {
	if enc.err != nil {
		return
	}
	n, err := get()
	if err != nil {
		enc.err = err
		return
	}
	if n == nil {
		return
	}
	defer n.Free()
	val, err := EncodeNode(n)
	if err != nil {
		enc.err = err
		return
	}
	enc.pairs = append(enc.pairs, str(key), val)
}

func (enc *nodeEncoder) result() (*yaml.Node, error) {
	if enc.err != nil {
		return nil, enc.err
	}
	return mapping(enc.pairs...), nil
}

func encodeFor(n *ast.Node) (*yaml.Node, error) {
	var enc nodeEncoder
	enc.expr(keyIterator, n.ForIterator)
	degenerate, err := n.ForIsDegenerate()
	if err != nil {
		return nil, err
	}
	if degenerate {
		enc.expr(keyValue, n.ForInit)
	} else {
		enc.expr(keyInit, n.ForInit)
		enc.expr(keyCond, n.ForCond)
		enc.expr(keyInc, n.ForInc)
	}
	enc.node(keyBody, n.ForBody)
	return enc.result()
}

func encodeIf(n *ast.Node) (*yaml.Node, error) {
	var enc nodeEncoder
	enc.expr(keyGuard, n.IfGuard)
	thenAt := len(enc.pairs)
	enc.node(keyThen, n.IfThen)
	hasThen := len(enc.pairs) > thenAt
	enc.node(keyElse, func() (*ast.Node, error) {
		els, err := n.IfElse()
		if err == nil && els != nil && !hasThen {
			els.Free()
			err = fmterr.Invalidf("if statement has an else branch but no then branch")
		}
		return els, err
	})
	return enc.result()
}

func encodeMark(n *ast.Node) (*yaml.Node, error) {
	id, err := n.MarkID()
	if err != nil {
		return nil, err
	}
	defer id.Free()
	enc := nodeEncoder{pairs: []*yaml.Node{str(keyMark), idNode(id)}}
	enc.node(keyNode, func() (*ast.Node, error) {
		child, err := n.MarkNode()
		if err == nil && child == nil {
			err = fmterr.Invalidf("mark %s has no child", id.Name())
		}
		return child, err
	})
	return enc.result()
}

func encodeBlock(n *ast.Node) (*yaml.Node, error) {
	children, err := n.BlockChildren()
	if err != nil {
		return nil, err
	}
	defer children.Free()
	items := make([]*yaml.Node, 0, children.Len())
	for _, child := range children.All() {
		item, err := EncodeNode(child)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return sequence(items), nil
}

// EncodeNode returns the YAML representation of a node.
func EncodeNode(n *ast.Node) (*yaml.Node, error) {
	switch n.Type() {
	case astkind.NodeFor:
		return encodeFor(n)
	case astkind.NodeIf:
		return encodeIf(n)
	case astkind.NodeBlock:
		return encodeBlock(n)
	case astkind.NodeMark:
		return encodeMark(n)
	case astkind.NodeUser:
		var enc nodeEncoder
		enc.expr(keyUser, n.UserExpr)
		return enc.result()
	}
	if n == nil {
		return nil, fmterr.Invalidf("cannot encode a nil node")
	}
	return nil, fmterr.Internalf("cannot encode a %s node", n.Type())
}

// WriteExpr writes an expression as a YAML document.
func WriteExpr(w io.Writer, e *ast.Expr, opts ...Option) error {
	doc, err := EncodeExpr(e)
	if err != nil {
		return err
	}
	return encode(w, newConfig(opts), doc)
}

// WriteNode writes a node as a YAML document.
func WriteNode(w io.Writer, n *ast.Node, opts ...Option) error {
	doc, err := EncodeNode(n)
	if err != nil {
		return err
	}
	return encode(w, newConfig(opts), doc)
}

// WriteNodes writes nodes as a stream of YAML documents.
func WriteNodes(w io.Writer, nodes []*ast.Node, opts ...Option) error {
	docs := make([]*yaml.Node, len(nodes))
	for i, n := range nodes {
		doc, err := EncodeNode(n)
		if err != nil {
			return fmterr.PrefixWith("node %d: ", i)(err)
		}
		docs[i] = doc
	}
	return encode(w, newConfig(opts), docs...)
}

// ExprToString returns the YAML document of an expression.
func ExprToString(e *ast.Expr, opts ...Option) (string, error) {
	doc, err := EncodeExpr(e)
	return toString(doc, err, opts)
}

// NodeToString returns the YAML document of a node.
func NodeToString(n *ast.Node, opts ...Option) (string, error) {
	doc, err := EncodeNode(n)
	return toString(doc, err, opts)
}
