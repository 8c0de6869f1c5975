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

type (
	// Callback prints a node instead of the printer.
	// It receives a copy of the options used to print the node: changing
	// them has no effect outside of the callback. node is borrowed.
	Callback func(p *Printer, opts Options, node *ast.Node, user any) error

	// OpNames overrides the C spelling of operators.
	// An empty string selects the default spelling.
	OpNames [astkind.NumOps]string

	// Options configures how nodes are printed.
	Options struct {
		// PrintFor, if set, prints all the loops. PrintForUser is given to
		// PrintFor.
		PrintFor     Callback
		PrintForUser any

		// PrintUser, if set, prints all the user statements. PrintUserUser
		// is given to PrintUser.
		PrintUser     Callback
		PrintUserUser any

		// IteratorType is the C type used to declare loop iterators.
		// Defaults to int.
		IteratorType string

		// AlwaysBlock prints braces around all the bodies.
		AlwaysBlock bool

		// OutermostBlock prints the braces of a block given to PrintNode.
		OutermostBlock bool

		// MacrosOnce prints each macro definition at most once per printer.
		MacrosOnce bool

		// OpNames overrides the spelling of operators.
		OpNames OpNames
	}
)

// DefaultIteratorType is the type of loop iterators if none is specified.
const DefaultIteratorType = "int"

func (o *Options) iteratorType() string {
	if o.IteratorType == "" {
		return DefaultIteratorType
	}
	return o.IteratorType
}

// WithOpName returns a copy of the options with the spelling of an operator
// overridden.
func (o Options) WithOpName(op astkind.OpType, name string) (Options, error) {
	if err := o.OpNames.Set(op, name); err != nil {
		return o, err
	}
	return o, nil
}

// Set overrides the spelling of an operator.
func (names *OpNames) Set(op astkind.OpType, name string) error {
	if !op.IsValid() {
		return fmterr.Invalidf("invalid operator %d", int(op))
	}
	names[op] = name
	return nil
}

// Name returns the spelling of an operator.
func (names *OpNames) Name(op astkind.OpType) string {
	if !op.IsValid() {
		return ""
	}
	if name := names[op]; name != "" {
		return name
	}
	return opNamesC[op]
}
