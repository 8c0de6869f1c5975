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
	"io"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// format implements fmt.Formatter for the errors of this package.
// %+v prints the message followed by the stack trace where the error was
// created, if known.
func format(err error, s fmt.State, verb rune) {
	switch verb {
	case 'v', 'w':
		io.WriteString(s, err.Error())
		if !s.Flag('+') {
			return
		}
		var st stackTracer
		if errors.As(err, &st) {
			fmt.Fprintf(s, "\nError generated at:%+v\n", st.StackTrace())
		}
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

// traced prints the stack trace of the error it wraps with %+v.
type traced struct {
	err error
}

// ToStackTraceError wraps err so that the stack trace recorded when it was
// created is printed with %+v, including when err comes from another
// package.
func ToStackTraceError(err error) error {
	if err == nil {
		return nil
	}
	return traced{err: err}
}

func (err traced) Error() string {
	return err.err.Error()
}

func (err traced) Unwrap() error {
	return err.err
}

func (err traced) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// Verbose returns the message of an error followed by its stack trace.
func Verbose(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%+v", ToStackTraceError(err))
}
