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

package fmterr

import (
	"fmt"

	"github.com/pkg/errors"
)

type (
	// Pos is a position in a serialized document.
	// Lines and columns start at 1. The zero value is an unknown position.
	Pos struct {
		Line, Column int
	}

	// ErrorWithPos is an error attached to a position in a document.
	ErrorWithPos interface {
		error
		Pos() Pos
		Err() error
	}

	errorWithPos struct {
		pos Pos
		err error
	}
)

// IsValid returns true if the position is known.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Position attaches a position to an error.
func Position(pos Pos, err error) ErrorWithPos {
	return errorWithPos{pos: pos, err: err}
}

// PosErrorf returns a parse error at a given position.
func PosErrorf(pos Pos, format string, a ...any) error {
	return Position(pos, &kindError{kind: Parse, err: errors.Errorf(format, a...)})
}

func (err errorWithPos) Error() string {
	if !err.pos.IsValid() {
		return err.err.Error()
	}
	return err.pos.String() + ": " + err.err.Error()
}

func (err errorWithPos) Unwrap() error {
	return err.err
}

func (err errorWithPos) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithPos) Pos() Pos {
	return err.pos
}

func (err errorWithPos) Err() error {
	return err.err
}
