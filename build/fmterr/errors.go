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
	"strings"
)

type (
	contextError struct {
		f      func(error) error
		errors Errors
	}

	// Errors is a set of errors.
	// Each error appended between Push and Pop is transformed by the
	// function given to Push when Pop is called.
	Errors struct {
		stack []contextError
		errs  []error
	}
)

// Push a context on the stack.
func (errs *Errors) Push(f func(error) error) {
	errs.stack = append(errs.stack, contextError{f: f})
}

// Pop the last context and append its errors, transformed, to the parent context.
func (errs *Errors) Pop() {
	last := errs.stack[len(errs.stack)-1]
	errs.stack = errs.stack[:len(errs.stack)-1]
	for _, err := range last.errors.errs {
		errs.Append(last.f(err))
	}
}

// Append an error to the current context. Always returns false so that
// callers can append and stop a walk in the same statement.
func (errs *Errors) Append(err error) bool {
	if len(errs.stack) == 0 {
		errs.errs = append(errs.errs, err)
	} else {
		errs.stack[len(errs.stack)-1].errors.Append(err)
	}
	return false
}

// Appendf appends an error of a given kind to the current context.
func (errs *Errors) Appendf(kind Kind, format string, a ...any) bool {
	return errs.Append(Errorf(kind, format, a...))
}

// Empty returns true if no error has been appended.
func (errs *Errors) Empty() bool {
	if len(errs.errs) > 0 {
		return false
	}
	for _, st := range errs.stack {
		if !st.errors.Empty() {
			return false
		}
	}
	return true
}

// Error returns the errors, one per line.
func (errs *Errors) Error() string {
	ss := make([]string, len(errs.errs))
	for i, err := range errs.errs {
		ss[i] = err.Error()
	}
	return strings.Join(ss, "\n")
}

// Errors returns all the errors, including the ones of contexts still on the stack.
func (errs *Errors) Errors() []error {
	all := append([]error{}, errs.errs...)
	for _, st := range errs.stack {
		for _, err := range st.errors.Errors() {
			all = append(all, st.f(err))
		}
	}
	return all
}

// ToError returns nil if no error has been appended, the set of errors otherwise.
func (errs *Errors) ToError() error {
	if errs == nil || errs.Empty() {
		return nil
	}
	return errs
}

// Format the errors, one per line.
func (errs *Errors) Format(s fmt.State, verb rune) {
	flag := ""
	if s.Flag('+') {
		flag = "+"
	}
	for i, e := range errs.errs {
		if i > 0 {
			fmt.Fprint(s, "\n")
		}
		format := fmt.Sprintf("%%%s%s", flag, string(verb))
		fmt.Fprintf(s, format, e)
	}
}

func (errs *Errors) String() string {
	return errs.Error()
}
