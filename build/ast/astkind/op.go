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

package astkind

// OpType is the operator of an operation expression.
type OpType int

// Operators.
const (
	// OpError is an invalid operator.
	OpError OpType = iota - 1
	OpAnd
	OpAndThen
	OpOr
	OpOrElse
	OpMax
	OpMin
	OpMinus
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpFDivQ
	OpPDivQ
	OpPDivR
	OpZDivR
	OpCond
	OpSelect
	OpEq
	OpLe
	OpLt
	OpGe
	OpGt
	OpCall
	OpAccess
	OpMember
	OpAddressOf

	// NumOps is the number of valid operators.
	NumOps int = iota - 1
)

var opNames = [NumOps]string{
	OpAnd:       "and",
	OpAndThen:   "and_then",
	OpOr:        "or",
	OpOrElse:    "or_else",
	OpMax:       "max",
	OpMin:       "min",
	OpMinus:     "minus",
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpDiv:       "div",
	OpFDivQ:     "fdiv_q",
	OpPDivQ:     "pdiv_q",
	OpPDivR:     "pdiv_r",
	OpZDivR:     "zdiv_r",
	OpCond:      "cond",
	OpSelect:    "select",
	OpEq:        "eq",
	OpLe:        "le",
	OpLt:        "lt",
	OpGe:        "ge",
	OpGt:        "gt",
	OpCall:      "call",
	OpAccess:    "access",
	OpMember:    "member",
	OpAddressOf: "address_of",
}

// Ops returns all the valid operators.
func Ops() []OpType {
	ops := make([]OpType, NumOps)
	for i := range ops {
		ops[i] = OpType(i)
	}
	return ops
}

// IsValid returns true if the operator is a valid operator.
func (op OpType) IsValid() bool {
	return op >= 0 && int(op) < NumOps
}

// String returns the name of the operator in serialized trees.
func (op OpType) String() string {
	if !op.IsValid() {
		return "error"
	}
	return opNames[op]
}

// OpFromString returns an operator given its name in serialized trees.
// Returns OpError if the name is unknown.
func OpFromString(s string) OpType {
	for i, name := range opNames {
		if name == s {
			return OpType(i)
		}
	}
	return OpError
}

// Arity returns the minimum and maximum number of arguments of an operator.
// A maximum of -1 means that the number of arguments is unbounded.
func (op OpType) Arity() (min, max int) {
	switch op {
	case OpMinus, OpAddressOf:
		return 1, 1
	case OpCond, OpSelect:
		return 3, 3
	case OpCall, OpAccess, OpMin, OpMax:
		return 1, -1
	case OpError:
		return 0, 0
	}
	return 2, 2
}

// AcceptsArgs returns true if n arguments is a valid number of arguments for the operator.
func (op OpType) AcceptsArgs(n int) bool {
	min, max := op.Arity()
	return n >= min && (max < 0 || n <= max)
}

// IsAnd returns true for the logical and operators.
func (op OpType) IsAnd() bool {
	return op == OpAnd || op == OpAndThen
}

// IsOr returns true for the logical or operators.
func (op OpType) IsOr() bool {
	return op == OpOr || op == OpOrElse
}

// IsAddSub returns true for additions and subtractions.
func (op OpType) IsAddSub() bool {
	return op == OpAdd || op == OpSub
}

// IsDivMod returns true for the divisions and remainders printed with / or %
// whose rounding may surprise a reader when mixed with additions.
func (op OpType) IsDivMod() bool {
	return op == OpDiv || op == OpPDivR || op == OpZDivR
}
