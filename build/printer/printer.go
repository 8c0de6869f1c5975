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

// Package printer prints trees of generated code as C.
package printer

import (
	"io"
	"strings"

	"github.com/gx-org/polyast/build/ast"
	"github.com/gx-org/polyast/build/ast/astkind"
	"github.com/gx-org/polyast/build/ast/astyaml"
	"github.com/gx-org/polyast/build/fmterr"
)

// Format is an output format of the printer.
type Format int

const (
	// FormatC prints C code.
	FormatC Format = iota
	// FormatYAML prints the serialized form of trees.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatC:
		return "c"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// Printer prints expressions and nodes to a writer.
//
// Errors are sticky: once an error occurred, nothing else is printed and
// all the printing functions return the first error.
type Printer struct {
	w       io.Writer
	opts    Options
	format  Format
	indent  int
	printed [astkind.NumOps]bool
	err     error
}

// New returns a printer writing C code to w.
func New(w io.Writer, opts Options) *Printer {
	return &Printer{w: w, opts: opts, format: FormatC}
}

// SetFormat sets the output format of the printer.
func (p *Printer) SetFormat(f Format) *Printer {
	p.format = f
	return p
}

// Options returns a copy of the options of the printer.
func (p *Printer) Options() Options {
	return p.opts
}

// Err returns the first error that occurred while printing.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) fail(err error) {
	if p.err == nil && err != nil {
		p.err = err
	}
}

// Print writes a string.
func (p *Printer) Print(s string) {
	if p.err != nil {
		return
	}
	_, err := io.WriteString(p.w, s)
	p.fail(err)
}

// StartLine writes the current indentation.
func (p *Printer) StartLine() {
	p.Print(strings.Repeat(" ", p.indent))
}

// EndLine ends the current line.
func (p *Printer) EndLine() {
	p.Print("\n")
}

// Indent changes the current indentation by delta spaces.
func (p *Printer) Indent(delta int) {
	p.indent += delta
	if p.indent < 0 {
		p.indent = 0
	}
}

func (p *Printer) checkFormat() bool {
	switch p.format {
	case FormatC, FormatYAML:
		return true
	}
	p.fail(fmterr.Unsupportedf("output format %d not supported", int(p.format)))
	return false
}

// PrintExpr prints an expression. The expression is borrowed.
func (p *Printer) PrintExpr(e *ast.Expr) error {
	return p.PrintExprWith(e, p.opts)
}

// PrintExprWith prints an expression using the operator spellings of opts.
func (p *Printer) PrintExprWith(e *ast.Expr, opts Options) error {
	if p.err != nil || !p.checkFormat() {
		return p.err
	}
	if p.format == FormatYAML {
		p.fail(astyaml.WriteExpr(p.w, e))
		return p.err
	}
	p.expr(e, &opts.OpNames)
	return p.err
}

// PrintNode prints a node. The node is borrowed.
func (p *Printer) PrintNode(n *ast.Node) error {
	return p.PrintNodeWith(n, p.opts)
}

// PrintNodeWith prints a node with a given set of options.
// Callbacks use it to print the children of the node they are given.
func (p *Printer) PrintNodeWith(n *ast.Node, opts Options) error {
	if p.err != nil || !p.checkFormat() {
		return p.err
	}
	if p.format == FormatYAML {
		p.fail(astyaml.WriteNode(p.w, n))
		return p.err
	}
	inBlock := n.Type() == astkind.NodeBlock && !opts.OutermostBlock
	p.node(n, &opts, inBlock, false)
	return p.err
}

// ExprToC returns the C code of an expression.
func ExprToC(e *ast.Expr) (string, error) {
	var b strings.Builder
	err := New(&b, Options{}).PrintExpr(e)
	return b.String(), err
}

// NodeToC returns the C code of a node.
func NodeToC(n *ast.Node, opts Options) (string, error) {
	var b strings.Builder
	err := New(&b, opts).PrintNode(n)
	return b.String(), err
}
