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

// Package astkind defines the kinds of expressions, nodes and operators of
// the generated-code tree.
package astkind

// ExprType is the variant of an expression.
type ExprType int

// Expression variants.
const (
	// ExprError is the type of an invalid expression.
	ExprError ExprType = iota - 1
	ExprOp
	ExprID
	ExprInt
)

func (t ExprType) String() string {
	switch t {
	case ExprOp:
		return "op"
	case ExprID:
		return "id"
	case ExprInt:
		return "int"
	}
	return "error"
}

// NodeType is the variant of a node.
type NodeType int

// Node variants.
const (
	// NodeError is the type of an invalid node.
	NodeError NodeType = -1

	NodeFor NodeType = iota
	NodeIf
	NodeBlock
	NodeMark
	NodeUser
)

func (t NodeType) String() string {
	switch t {
	case NodeFor:
		return "for"
	case NodeIf:
		return "if"
	case NodeBlock:
		return "block"
	case NodeMark:
		return "mark"
	case NodeUser:
		return "user"
	}
	return "error"
}
