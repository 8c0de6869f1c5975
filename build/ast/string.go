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
	"fmt"
	"strings"

	"github.com/gx-org/polyast/base/stringseq"
)

func exprString(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

func nodeString(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

// String returns a compact prefix representation of the expression,
// for example add(i, 1).
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch u := e.u.(type) {
	case *intExpr:
		return u.v.String()
	case *idExpr:
		return u.id.Name()
	case *opExpr:
		return u.op.String() + "(" + stringseq.JoinFunc(u.args.Values(), exprString, ", ") + ")"
	}
	return "error"
}

// String returns a compact prefix representation of the node.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var s string
	switch u := n.u.(type) {
	case *forNode:
		if u.degenerate {
			s = fmt.Sprintf("for(%s = %s, degenerate, %s)", exprString(u.iterator), exprString(u.init), nodeString(u.body))
		} else {
			s = fmt.Sprintf("for(%s = %s, %s, %s, %s)", exprString(u.iterator), exprString(u.init), exprString(u.cond), exprString(u.inc), nodeString(u.body))
		}
	case *ifNode:
		if u.els != nil {
			s = fmt.Sprintf("if(%s, %s, %s)", exprString(u.guard), nodeString(u.then), nodeString(u.els))
		} else {
			s = fmt.Sprintf("if(%s, %s)", exprString(u.guard), nodeString(u.then))
		}
	case *blockNode:
		var b strings.Builder
		b.WriteString("{")
		stringseq.AppendFunc(&b, u.children.Values(), nodeString, "; ")
		b.WriteString("}")
		s = b.String()
	case *markNode:
		s = fmt.Sprintf("mark(%s, %s)", u.mark.Name(), nodeString(u.node))
	case *userNode:
		s = fmt.Sprintf("user(%s)", exprString(u.expr))
	default:
		s = "error"
	}
	if n.annotation != nil {
		s += "@" + n.annotation.Name()
	}
	return s
}
