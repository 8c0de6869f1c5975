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

package printer

import (
	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/fmterr"
)

const indentStep = 2

func (p *Printer) startBlock() {
	p.StartLine()
	p.Print("{")
	p.EndLine()
	p.Indent(indentStep)
}

func (p *Printer) endBlock() {
	p.Indent(-indentStep)
	p.StartLine()
	p.Print("}")
	p.EndLine()
}

// needBlock returns true if node has to be printed between braces when it is
// the body of a statement. inIf is true when the statement is a conditional.
func needBlock(node *ast.Node, opts *Options, inIf bool) bool {
	if opts.AlwaysBlock {
		return true
	}
	switch node.Type() {
	case astkind.NodeBlock, astkind.NodeMark:
		return true
	case astkind.NodeFor:
		if inIf {
			return true
		}
		degenerate, _ := node.ForIsDegenerate()
		return degenerate
	case astkind.NodeIf:
		hasElse, _ := node.IfHasElse()
		return hasElse
	}
	return false
}

// body prints the body of a statement, followed by els if it is not nil.
// A missing body is printed as an empty block.
func (p *Printer) body(node, els *ast.Node, opts *Options, forceBlock, inIf bool) {
	if node != nil && !forceBlock && els == nil && !needBlock(node, opts, inIf) {
		p.EndLine()
		p.Indent(indentStep)
		p.node(node, opts, false, false)
		p.Indent(-indentStep)
		return
	}
	p.Print(" {")
	p.EndLine()
	p.Indent(indentStep)
	if node != nil {
		p.node(node, opts, true, false)
	}
	p.Indent(-indentStep)
	p.StartLine()
	p.Print("}")
	switch {
	case els == nil:
		p.EndLine()
	case els.Type() == astkind.NodeIf:
		p.Print(" else ")
		p.ifNode(els, opts, false, true)
	default:
		p.Print(" else")
		p.body(els, nil, opts, true, true)
	}
}

// PrintForNode prints a loop without calling the PrintFor callback.
// Callbacks use it to print the loop they are given.
func (p *Printer) PrintForNode(node *ast.Node, opts Options) error {
	if p.err != nil {
		return p.err
	}
	p.forNode(node, &opts, false, false)
	return p.err
}

func (p *Printer) forNode(node *ast.Node, opts *Options, inBlock, inList bool) {
	iterator, err := node.ForIterator()
	if err != nil {
		p.fail(err)
		return
	}
	defer iterator.Free()
	id, err := iterator.ID()
	if err != nil {
		p.fail(err)
		return
	}
	name := id.Name()
	id.Free()
	init, err := node.ForInit()
	if err != nil {
		p.fail(err)
		return
	}
	defer init.Free()
	body, err := node.ForBody()
	if err != nil {
		p.fail(err)
		return
	}
	defer body.Free()
	degenerate, err := node.ForIsDegenerate()
	if err != nil {
		p.fail(err)
		return
	}
	typ := opts.iteratorType()
	if degenerate {
		needBraces := !inBlock || inList
		if needBraces {
			p.startBlock()
		}
		p.StartLine()
		p.Print(typ + " " + name + " = ")
		p.expr(init, &opts.OpNames)
		p.Print(";")
		p.EndLine()
		if body != nil {
			p.node(body, opts, true, false)
		}
		if needBraces {
			p.endBlock()
		}
		return
	}
	cond, err := node.ForCond()
	if err != nil {
		p.fail(err)
		return
	}
	defer cond.Free()
	inc, err := node.ForInc()
	if err != nil {
		p.fail(err)
		return
	}
	defer inc.Free()
	p.StartLine()
	p.Print("for (" + typ + " " + name + " = ")
	p.expr(init, &opts.OpNames)
	p.Print("; ")
	p.expr(cond, &opts.OpNames)
	p.Print("; " + name + " += ")
	p.expr(inc, &opts.OpNames)
	p.Print(")")
	p.body(body, nil, opts, false, false)
}

// PrintIfNode prints a conditional statement.
func (p *Printer) PrintIfNode(node *ast.Node, opts Options) error {
	if p.err != nil {
		return p.err
	}
	p.ifNode(node, &opts, true, false)
	return p.err
}

func (p *Printer) ifNode(node *ast.Node, opts *Options, newLine, forceBlock bool) {
	guard, err := node.IfGuard()
	if err != nil {
		p.fail(err)
		return
	}
	defer guard.Free()
	then, err := node.IfThen()
	if err != nil {
		p.fail(err)
		return
	}
	defer then.Free()
	els, err := node.IfElse()
	if err != nil {
		p.fail(err)
		return
	}
	defer els.Free()
	if newLine {
		p.StartLine()
	}
	p.Print("if (")
	p.expr(guard, &opts.OpNames)
	p.Print(")")
	p.body(then, els, opts, forceBlock, true)
}

func (p *Printer) callback(cb Callback, opts *Options, node *ast.Node, user any) {
	if err := cb(p, *opts, node, user); err != nil {
		p.fail(err)
	}
}

// node prints a node. inBlock is true if the node is printed directly inside
// braces. inList is true if the node is printed with other statements in the
// same braces.
func (p *Printer) node(node *ast.Node, opts *Options, inBlock, inList bool) {
	if p.err != nil {
		return
	}
	if node == nil {
		p.fail(fmterr.Invalidf("cannot print a nil node"))
		return
	}
	switch node.Type() {
	case astkind.NodeFor:
		if opts.PrintFor != nil {
			p.callback(opts.PrintFor, opts, node, opts.PrintForUser)
			return
		}
		p.forNode(node, opts, inBlock, inList)
	case astkind.NodeIf:
		p.ifNode(node, opts, true, false)
	case astkind.NodeBlock:
		children, err := node.BlockChildren()
		if err != nil {
			p.fail(err)
			return
		}
		defer children.Free()
		if !inBlock {
			p.startBlock()
		}
		for _, child := range children.All() {
			p.node(child, opts, true, true)
		}
		if !inBlock {
			p.endBlock()
		}
	case astkind.NodeMark:
		id, err := node.MarkID()
		if err != nil {
			p.fail(err)
			return
		}
		p.StartLine()
		p.Print("// " + id.Name())
		p.EndLine()
		id.Free()
		child, err := node.MarkNode()
		if err != nil {
			p.fail(err)
			return
		}
		p.node(child, opts, false, inList)
		child.Free()
	case astkind.NodeUser:
		if opts.PrintUser != nil {
			p.callback(opts.PrintUser, opts, node, opts.PrintUserUser)
			return
		}
		expr, err := node.UserExpr()
		if err != nil {
			p.fail(err)
			return
		}
		p.StartLine()
		p.expr(expr, &opts.OpNames)
		p.Print(";")
		p.EndLine()
		expr.Free()
	default:
		p.fail(fmterr.Internalf("cannot print a %s node", node.Type()))
	}
}
