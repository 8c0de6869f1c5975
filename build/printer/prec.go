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

import "github.com/gx-org/polyast/build/ast/astkind"

// opNamesC is the default C spelling of operators.
var opNamesC = [astkind.NumOps]string{
	astkind.OpAnd:       "&&",
	astkind.OpAndThen:   "&&",
	astkind.OpOr:        "||",
	astkind.OpOrElse:    "||",
	astkind.OpMax:       "max",
	astkind.OpMin:       "min",
	astkind.OpMinus:     "-",
	astkind.OpAdd:       "+",
	astkind.OpSub:       "-",
	astkind.OpMul:       "*",
	astkind.OpDiv:       "/",
	astkind.OpFDivQ:     "floord",
	astkind.OpPDivQ:     "/",
	astkind.OpPDivR:     "%",
	astkind.OpZDivR:     "%",
	astkind.OpCond:      "?:",
	astkind.OpSelect:    "?:",
	astkind.OpEq:        "==",
	astkind.OpLe:        "<=",
	astkind.OpLt:        "<",
	astkind.OpGe:        ">=",
	astkind.OpGt:        ">",
	astkind.OpCall:      "call",
	astkind.OpAccess:    "access",
	astkind.OpMember:    ".",
	astkind.OpAddressOf: "&",
}

// precedence of operators. Lower binds tighter, as in the C standard.
var precedence = [astkind.NumOps]int{
	astkind.OpAnd:       13,
	astkind.OpAndThen:   13,
	astkind.OpOr:        14,
	astkind.OpOrElse:    14,
	astkind.OpMax:       2,
	astkind.OpMin:       2,
	astkind.OpMinus:     3,
	astkind.OpAdd:       6,
	astkind.OpSub:       6,
	astkind.OpMul:       5,
	astkind.OpDiv:       5,
	astkind.OpFDivQ:     2,
	astkind.OpPDivQ:     5,
	astkind.OpPDivR:     5,
	astkind.OpZDivR:     5,
	astkind.OpCond:      15,
	astkind.OpSelect:    15,
	astkind.OpEq:        9,
	astkind.OpLe:        8,
	astkind.OpLt:        8,
	astkind.OpGe:        8,
	astkind.OpGt:        8,
	astkind.OpCall:      2,
	astkind.OpAccess:    2,
	astkind.OpMember:    2,
	astkind.OpAddressOf: 3,
}

// leftAssoc is true for operators associating to the left.
var leftAssoc = [astkind.NumOps]bool{
	astkind.OpAnd:       true,
	astkind.OpAndThen:   true,
	astkind.OpOr:        true,
	astkind.OpOrElse:    true,
	astkind.OpMax:       true,
	astkind.OpMin:       true,
	astkind.OpMinus:     false,
	astkind.OpAdd:       true,
	astkind.OpSub:       true,
	astkind.OpMul:       true,
	astkind.OpDiv:       true,
	astkind.OpFDivQ:     true,
	astkind.OpPDivQ:     true,
	astkind.OpPDivR:     true,
	astkind.OpZDivR:     true,
	astkind.OpCond:      false,
	astkind.OpSelect:    false,
	astkind.OpEq:        true,
	astkind.OpLe:        true,
	astkind.OpLt:        true,
	astkind.OpGe:        true,
	astkind.OpGt:        true,
	astkind.OpCall:      true,
	astkind.OpAccess:    true,
	astkind.OpMember:    true,
	astkind.OpAddressOf: false,
}

// needParens returns true if an operand whose top operator is sub needs
// parentheses when printed as an argument of op. left is true for the
// first operand of a binary operator.
//
// Besides strict precedence, parentheses are always printed around:
// a logical and inside a logical or, an operator of the same precedence as
// a multiplication inside a multiplication, and a division or a remainder
// inside an addition or a subtraction.
func needParens(op, sub astkind.OpType, left bool) bool {
	if precedence[sub] > precedence[op] {
		return true
	}
	if precedence[sub] == precedence[op] && left != leftAssoc[op] {
		return true
	}
	if op.IsOr() && sub.IsAnd() {
		return true
	}
	if op == astkind.OpMul && sub != astkind.OpMul && precedence[sub] == precedence[op] {
		return true
	}
	if op.IsAddSub() && sub.IsDivMod() {
		return true
	}
	return false
}
