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

package ctx

import (
	"math/big"

	"github.com/gx-org/polyast/build/fmterr"
)

// Val is an immutable arbitrary precision rational value.
type Val struct {
	ctx *Ctx
	r   *big.Rat
}

// NewValInt returns a value given an integer.
func NewValInt(c *Ctx, i int64) *Val {
	return &Val{ctx: c, r: new(big.Rat).SetInt64(i)}
}

// NewValBigInt returns a value given an arbitrary precision integer.
func NewValBigInt(c *Ctx, i *big.Int) *Val {
	return &Val{ctx: c, r: new(big.Rat).SetInt(i)}
}

// NewValRat returns a value given a rational number.
func NewValRat(c *Ctx, num, den int64) (*Val, error) {
	if den == 0 {
		return nil, fmterr.Invalidf("division by zero in %d/%d", num, den)
	}
	return &Val{ctx: c, r: big.NewRat(num, den)}, nil
}

// ParseVal parses a value written as an integer or as a fraction n/d.
func ParseVal(c *Ctx, s string) (*Val, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmterr.Invalidf("cannot parse %q as a value", s)
	}
	return &Val{ctx: c, r: r}, nil
}

// Ctx returns the context of the value.
func (v *Val) Ctx() *Ctx {
	return v.ctx
}

// IsInt returns true if the value is an integer.
func (v *Val) IsInt() bool {
	return v.r.IsInt()
}

// Int returns the value as an arbitrary precision integer.
// The value must be an integer.
func (v *Val) Int() *big.Int {
	return new(big.Int).Set(v.r.Num())
}

// Sign returns -1, 0 or +1 depending on the sign of the value.
func (v *Val) Sign() int {
	return v.r.Sign()
}

// Eq returns true if both values are equal.
func (v *Val) Eq(other *Val) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.r.Cmp(other.r) == 0
}

func (v *Val) String() string {
	if v.r.IsInt() {
		return v.r.Num().String()
	}
	return v.r.String()
}
