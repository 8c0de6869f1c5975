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

// Kind classifies an error.
type Kind int

const (
	// Unknown is the kind of errors not created by this package.
	Unknown Kind = iota
	// Invalid is returned when an argument is invalid: wrong variant
	// accessed, wrong arity, malformed address-of target...
	Invalid
	// Internal signals a broken invariant. This is a bug.
	Internal
	// Unsupported is returned when a requested feature is not implemented.
	Unsupported
	// Parse is returned when reading a serialized tree fails.
	Parse
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid argument"
	case Internal:
		return "internal error"
	case Unsupported:
		return "unsupported"
	case Parse:
		return "parse error"
	}
	return "unknown"
}

type kindError struct {
	kind Kind
	err  error
}

// Errorf returns an error of a given kind.
// The error records the stack trace where it has been created.
func Errorf(kind Kind, format string, a ...any) error {
	return &kindError{kind: kind, err: errors.Errorf(format, a...)}
}

// Invalidf returns an invalid argument error.
func Invalidf(format string, a ...any) error {
	return &kindError{kind: Invalid, err: errors.Errorf(format, a...)}
}

// Unsupportedf returns an unsupported error.
func Unsupportedf(format string, a ...any) error {
	return &kindError{kind: Unsupported, err: errors.Errorf(format, a...)}
}

// Internalf returns an internal error.
func Internalf(format string, a ...any) error {
	return &kindError{kind: Internal, err: errors.Errorf(format, a...)}
}

// Wrap returns err classified as kind.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

func (err *kindError) Error() string {
	if err.kind == Internal {
		return fmt.Sprintf("polyast internal error. This is a bug. Please report it. Error: %s", err.err.Error())
	}
	return err.err.Error()
}

func (err *kindError) Unwrap() error {
	return err.err
}

func (err *kindError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// KindOf returns the kind of the first classified error in the chain of err.
func KindOf(err error) Kind {
	var kErr *kindError
	if !errors.As(err, &kErr) {
		return Unknown
	}
	return kErr.kind
}

// IsKind returns true if err has been classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
