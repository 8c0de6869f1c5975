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

// Macros is a set of operators requiring a macro definition in C.
type Macros uint

const (
	// MacroFDivQ is set when the floored division is used.
	MacroFDivQ Macros = 1 << iota
	// MacroMin is set when the minimum is used.
	MacroMin
	// MacroMax is set when the maximum is used.
	MacroMax
)

// macroOps lists the operators with a macro, in the order in which the
// definitions are printed.
var macroOps = []struct {
	op  astkind.OpType
	bit Macros
}{
	{op: astkind.OpMin, bit: MacroMin},
	{op: astkind.OpMax, bit: MacroMax},
	{op: astkind.OpFDivQ, bit: MacroFDivQ},
}

func macroOf(op astkind.OpType) Macros {
	for _, m := range macroOps {
		if m.op == op {
			return m.bit
		}
	}
	return 0
}

// Has returns true if the set contains all the macros of other.
func (m Macros) Has(other Macros) bool {
	return m&other == other
}

// Ops returns the operators of the set in printing order.
func (m Macros) Ops() []astkind.OpType {
	var ops []astkind.OpType
	for _, mo := range macroOps {
		if m.Has(mo.bit) {
			ops = append(ops, mo.op)
		}
	}
	return ops
}

// ExprMacros returns the macros used by an expression and its descendants.
func ExprMacros(e *ast.Expr) (Macros, error) {
	var m Macros
	err := e.ForeachDescendant(func(sub *ast.Expr) (bool, error) {
		if sub.Type() != astkind.ExprOp {
			return true, nil
		}
		op, err := sub.OpType()
		if err != nil {
			return false, err
		}
		m |= macroOf(op)
		return true, nil
	})
	return m, err
}

// NodeMacros returns the macros used by all the expressions of a tree.
func NodeMacros(n *ast.Node) (Macros, error) {
	var m Macros
	err := n.ForeachDescendantTopDown(func(node *ast.Node) (bool, error) {
		return true, node.ForeachExpr(func(e *ast.Expr) error {
			em, err := ExprMacros(e)
			m |= em
			return err
		})
	})
	return m, err
}

// MacroDefinition returns the C definition of the macro of op, using name
// as the name of the macro.
func MacroDefinition(op astkind.OpType, name string) (string, error) {
	switch op {
	case astkind.OpMin:
		return "#define " + name + "(x,y)    ((x) < (y) ? (x) : (y))", nil
	case astkind.OpMax:
		return "#define " + name + "(x,y)    ((x) > (y) ? (x) : (y))", nil
	case astkind.OpFDivQ:
		return "#define " + name + "(n,d) (((n)<0) ? -((-(n)+(d)-1)/(d)) : (n)/(d))", nil
	}
	return "", fmterr.Invalidf("operation %s has no macro", op)
}

// PrintMacro prints the definition of the macro of op.
// Nothing is printed for an operation without a macro.
// If MacrosOnce is set, a definition already printed by p is skipped.
func (p *Printer) PrintMacro(op astkind.OpType) error {
	if p.err != nil || !p.checkFormat() {
		return p.err
	}
	if p.format != FormatC {
		return nil
	}
	if !op.IsValid() {
		p.fail(fmterr.Invalidf("invalid operation %d", int(op)))
		return p.err
	}
	if macroOf(op) == 0 || p.opts.MacrosOnce && p.printed[op] {
		return nil
	}
	def, err := MacroDefinition(op, p.opts.OpNames.Name(op))
	if err != nil {
		p.fail(err)
		return p.err
	}
	p.StartLine()
	p.Print(def)
	p.EndLine()
	p.printed[op] = true
	return p.err
}

// PrintMacros prints the definitions of all the macros of a set.
func (p *Printer) PrintMacros(m Macros) error {
	for _, op := range m.Ops() {
		if err := p.PrintMacro(op); err != nil {
			return err
		}
	}
	return p.err
}

// PrintExprMacros prints the macros used by an expression.
func (p *Printer) PrintExprMacros(e *ast.Expr) error {
	m, err := ExprMacros(e)
	if err != nil {
		p.fail(err)
		return p.err
	}
	return p.PrintMacros(m)
}

// PrintNodeMacros prints the macros used by a tree.
func (p *Printer) PrintNodeMacros(n *ast.Node) error {
	m, err := NodeMacros(n)
	if err != nil {
		p.fail(err)
		return p.err
	}
	return p.PrintMacros(m)
}
